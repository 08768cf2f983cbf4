package paunits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecondsToHMS(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		h, m, s int
	}{
		{"zero", 0, 0, 0, 0},
		{"seconds only", 45, 0, 0, 45},
		{"minute boundary", 60, 0, 1, 0},
		{"ten seconds", 10, 0, 0, 10},
		{"mixed", 3723, 1, 2, 3},
		{"hour boundary", 3600, 1, 0, 0},
		{"large", 86399, 23, 59, 59},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m, s := SecondsToHMS(tt.seconds)
			assert.Equal(t, tt.h, h)
			assert.Equal(t, tt.m, m)
			assert.Equal(t, tt.s, s)
		})
	}
}

func TestSecondsToHMSRoundTrip(t *testing.T) {
	for _, seconds := range []int{0, 1, 59, 60, 61, 3599, 3600, 3661, 10000, 86400, 359999} {
		h, m, s := SecondsToHMS(seconds)
		assert.Equal(t, seconds, HMSToSeconds(h, m, s), "seconds=%d", seconds)
		assert.GreaterOrEqual(t, m, 0)
		assert.LessOrEqual(t, m, 59)
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 59)

		// hms -> seconds -> hms is identity within the clamp range
		h2, m2, s2 := SecondsToHMS(HMSToSeconds(h, m, s))
		assert.Equal(t, h, h2)
		assert.Equal(t, m, m2)
		assert.Equal(t, s, s2)
	}
}

func TestSecondsToHMSClampsHours(t *testing.T) {
	h, m, s := SecondsToHMS(10000*3600 + 90)
	assert.Equal(t, MaxTimerHours, h)
	assert.Equal(t, 1, m)
	assert.Equal(t, 30, s)
}

func TestAveragePowerW(t *testing.T) {
	// 10s interval: avg power = wh / (10/3600)
	assert.InDelta(t, 360.0, AveragePowerW(1.0, 10), 1e-9)
	assert.InDelta(t, 100.0, AveragePowerW(100.0, 3600), 1e-9)
	assert.Equal(t, 0.0, AveragePowerW(5.0, 0))
}
