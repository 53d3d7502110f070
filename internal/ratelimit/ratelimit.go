package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Config holds per-IP request limits for the report API.
type Config struct {
	ReportsPerHour int `mapstructure:"reports_per_hour"`
	EmailsPerHour  int `mapstructure:"emails_per_hour"`
}

// Limiter implements a simple in-memory sliding window rate limiter
type Limiter struct {
	mu       sync.RWMutex
	counters map[string]*counter
	window   time.Duration
	max      int
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter creates a new rate limiter with the specified window and max requests
func NewLimiter(window time.Duration, max int) *Limiter {
	l := &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
	}
	go l.cleanup()
	return l
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true
	}

	if c.count >= l.max {
		return false
	}

	c.count++
	return true
}

// GetRemaining returns the number of remaining requests for the given key
func (l *Limiter) GetRemaining(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		return l.max
	}

	remaining := l.max - c.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup periodically removes expired counters
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, c := range l.counters {
			if now.After(c.expiresAt) {
				delete(l.counters, key)
			}
		}
		l.mu.Unlock()
	}
}

// ReportLimiter bounds how often a single IP can generate or email
// reports. Report generation fans out up to 50 upstream queries, so the
// inbound cap protects the GA4 quota as much as this service.
type ReportLimiter struct {
	reports *Limiter
	emails  *Limiter
}

// NewReportLimiter creates a limiter from config, falling back to
// defaults for unset values.
func NewReportLimiter(c *Config) *ReportLimiter {
	reportsPerHour := 30
	emailsPerHour := 10
	if c != nil && c.ReportsPerHour > 0 {
		reportsPerHour = c.ReportsPerHour
	}
	if c != nil && c.EmailsPerHour > 0 {
		emailsPerHour = c.EmailsPerHour
	}
	return &ReportLimiter{
		reports: NewLimiter(time.Hour, reportsPerHour),
		emails:  NewLimiter(time.Hour, emailsPerHour),
	}
}

// CheckReport verifies if a report can be generated for the given IP
func (m *ReportLimiter) CheckReport(ip string) error {
	if !m.reports.Allow(ip) {
		return fmt.Errorf("too many report requests from this IP address, please try again later")
	}
	return nil
}

// CheckEmail verifies if a report email can be sent for the given IP
func (m *ReportLimiter) CheckEmail(ip string) error {
	if !m.emails.Allow(ip) {
		return fmt.Errorf("too many email requests from this IP address, please try again later")
	}
	return nil
}

// ReportsRemaining returns remaining report generations for the IP
func (m *ReportLimiter) ReportsRemaining(ip string) int {
	return m.reports.GetRemaining(ip)
}
