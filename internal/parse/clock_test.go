package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "Canonical", raw: "09:30", expected: "09:30"},
		{name: "Single digit hour", raw: "9:30", expected: "09:30"},
		{name: "Compact three digits", raw: "930", expected: "09:30"},
		{name: "Compact four digits", raw: "1400", expected: "14:00"},
		{name: "Spaces", raw: " 14 : 05 ", expected: "14:05"},
		{name: "With seconds", raw: "22:00:00", expected: "22:00"},
		{name: "Midnight", raw: "00:00", expected: "00:00"},
		{name: "Hour out of range", raw: "24:00", expectErr: true},
		{name: "Minute out of range", raw: "1260", expectErr: true},
		{name: "Garbage", raw: "noon", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
		{name: "One digit minute", raw: "9:5", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseClock(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, c.String())
		})
	}
}

func TestClockOffset(t *testing.T) {
	c := ClockOf(time.Date(2026, 3, 1, 14, 7, 59, 0, time.UTC))
	assert.Equal(t, "14:07", c.String())
	assert.Equal(t, 14*time.Hour+7*time.Minute, c.Offset())
}
