package report

import (
	"sort"
	"strings"

	"github.com/trafficpulse/report-manager/internal/entity"
)

// selectTopRegions ranks regions by users descending and truncates to
// min(topStatesCount, len(records)). Ties are broken by state name
// ascending, case-insensitive, so identical inputs always produce
// identical output.
func selectTopRegions(records map[string]*entity.RegionRecord, topStatesCount int) []entity.RegionRecord {
	ranked := make([]entity.RegionRecord, 0, len(records))
	for _, r := range records {
		ranked = append(ranked, *r)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Users != ranked[j].Users {
			return ranked[i].Users > ranked[j].Users
		}
		return strings.ToLower(ranked[i].State) < strings.ToLower(ranked[j].State)
	})

	if topStatesCount < len(ranked) {
		ranked = ranked[:topStatesCount]
	}
	return ranked
}
