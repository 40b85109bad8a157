package entrywindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var lima = time.FixedZone("America/Lima", -5*3600)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		input  string
		hour   int
		minute int
		ok     bool
	}{
		{"23:30", 23, 30, true},
		{"00:00", 0, 0, true},
		{"1:05:00", 1, 5, true},
		{"09:59:59", 9, 59, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{"bad", 0, 0, false},
		{"", 0, 0, false},
		{"12", 0, 0, false},
		{"12:3", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			limit, ok := ParseLimit(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.hour, limit.Hour)
				assert.Equal(t, tt.minute, limit.Minute)
			}
		})
	}
}

func TestCompute_SameDay(t *testing.T) {
	// start 22:00 local, limit 23:30 -> same day, since 23:30 > 22:00
	startsAt := time.Date(2025, 3, 15, 22, 0, 0, 0, lima)

	cutoff, ok := Compute(startsAt, "23:30", DefaultLimit, lima)

	assert.True(t, ok)
	assert.False(t, cutoff.NextDay)
	assert.Equal(t, time.Date(2025, 3, 16, 4, 30, 0, 0, time.UTC), cutoff.At)
}

func TestCompute_NextDay(t *testing.T) {
	// start 22:00 local, limit 00:30 -> after midnight, shifted forward
	startsAt := time.Date(2025, 3, 15, 22, 0, 0, 0, lima)

	cutoff, ok := Compute(startsAt, "00:30", DefaultLimit, lima)

	assert.True(t, ok)
	assert.True(t, cutoff.NextDay)
	assert.Equal(t, time.Date(2025, 3, 16, 5, 30, 0, 0, time.UTC), cutoff.At)
}

func TestCompute_LimitEqualsStart(t *testing.T) {
	// equal minute-of-day stays same-day; the shift needs strictly less
	startsAt := time.Date(2025, 3, 15, 22, 0, 0, 0, lima)

	cutoff, ok := Compute(startsAt, "22:00", DefaultLimit, lima)

	assert.True(t, ok)
	assert.False(t, cutoff.NextDay)
	assert.Equal(t, time.Date(2025, 3, 16, 3, 0, 0, 0, time.UTC), cutoff.At)
}

func TestCompute_InvalidLimitFallsBack(t *testing.T) {
	startsAt := time.Date(2025, 3, 15, 22, 0, 0, 0, lima)

	cutoff, ok := Compute(startsAt, "bad", "23:30", lima)

	assert.True(t, ok)
	assert.False(t, cutoff.NextDay)
	assert.Equal(t, time.Date(2025, 3, 16, 4, 30, 0, 0, time.UTC), cutoff.At)
}

func TestCompute_InvalidFallbackMeansNoCutoff(t *testing.T) {
	startsAt := time.Date(2025, 3, 15, 22, 0, 0, 0, lima)

	_, ok := Compute(startsAt, "bad", "also-bad", lima)

	assert.False(t, ok)
}

func TestCompute_StartGivenInUTC(t *testing.T) {
	// same instant as 22:00 Lima, handed over in UTC
	startsAt := time.Date(2025, 3, 16, 3, 0, 0, 0, time.UTC)

	cutoff, ok := Compute(startsAt, "23:30", DefaultLimit, lima)

	assert.True(t, ok)
	assert.False(t, cutoff.NextDay)
	assert.Equal(t, time.Date(2025, 3, 16, 4, 30, 0, 0, time.UTC), cutoff.At)
}

func TestCutoffPassed(t *testing.T) {
	cutoff := Cutoff{At: time.Date(2025, 3, 16, 4, 30, 0, 0, time.UTC)}

	assert.False(t, cutoff.Passed(time.Date(2025, 3, 16, 4, 30, 0, 0, time.UTC)))
	assert.True(t, cutoff.Passed(time.Date(2025, 3, 16, 4, 30, 1, 0, time.UTC)))
	assert.False(t, cutoff.Passed(time.Date(2025, 3, 16, 4, 0, 0, 0, time.UTC)))
}
