package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// String formats the clock as zero-padded HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Offset is the duration from midnight.
func (c Clock) Offset() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// ClockOf returns the clock reading of t, truncated to the minute.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseClock accepts "HH:MM", "H:MM", and the compact forms "HMM" and "HHMM"
// ("930" is 09:30, "1400" is 14:00). Surrounding and inner spaces are ignored.
func ParseClock(raw string) (Clock, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if s == "" {
		return Clock{}, fmt.Errorf("empty time of day")
	}

	var hStr, mStr string
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hStr, mStr = s[:i], s[i+1:]
		// tolerate a trailing seconds field, "09:30:00"
		if j := strings.IndexByte(mStr, ':'); j >= 0 {
			mStr = mStr[:j]
		}
		if len(mStr) != 2 {
			return Clock{}, fmt.Errorf("invalid time of day %q", raw)
		}
	} else {
		if len(s) == 3 {
			s = "0" + s
		}
		if len(s) != 4 {
			return Clock{}, fmt.Errorf("invalid time of day %q", raw)
		}
		hStr, mStr = s[:2], s[2:]
	}

	h, err := strconv.Atoi(hStr)
	if err != nil || len(hStr) == 0 || len(hStr) > 2 {
		return Clock{}, fmt.Errorf("invalid hour in %q", raw)
	}
	m, err := strconv.Atoi(mStr)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid minute in %q", raw)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("time of day %q out of range", raw)
	}
	return Clock{Hour: h, Minute: m}, nil
}
