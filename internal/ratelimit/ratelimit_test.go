package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(time.Hour, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.False(t, l.Allow("10.0.0.1"))

	// other keys are unaffected
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLimiter_GetRemaining(t *testing.T) {
	l := NewLimiter(time.Hour, 5)

	assert.Equal(t, 5, l.GetRemaining("10.0.0.1"))
	l.Allow("10.0.0.1")
	l.Allow("10.0.0.1")
	assert.Equal(t, 3, l.GetRemaining("10.0.0.1"))
}

func TestLimiter_WindowExpiry(t *testing.T) {
	l := NewLimiter(20*time.Millisecond, 1)

	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestReportLimiter(t *testing.T) {
	rl := NewReportLimiter(&Config{ReportsPerHour: 2, EmailsPerHour: 1})

	assert.NoError(t, rl.CheckReport("10.0.0.1"))
	assert.NoError(t, rl.CheckReport("10.0.0.1"))
	assert.Error(t, rl.CheckReport("10.0.0.1"))

	assert.NoError(t, rl.CheckEmail("10.0.0.1"))
	assert.Error(t, rl.CheckEmail("10.0.0.1"))

	assert.Equal(t, 0, rl.ReportsRemaining("10.0.0.1"))
}

func TestReportLimiter_Defaults(t *testing.T) {
	rl := NewReportLimiter(nil)
	assert.Equal(t, 30, rl.ReportsRemaining("10.0.0.1"))
}
