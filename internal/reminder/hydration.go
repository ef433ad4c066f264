package reminder

import (
	"time"

	"dynamic-island/internal/parse"
)

// Hydration decides when to surface a drink-water reminder.
type Hydration struct {
	settings    Settings
	enabled     bool
	lastTrigger time.Time
	lastFired   time.Time // calendar minute of the last custom-mode emission
}

// Configure applies new settings. Enabling from disabled arms the interval
// from now; an already running interval keeps its last trigger.
func (h *Hydration) Configure(s Settings, now time.Time) {
	if s.DrinkEnabled && !h.enabled {
		h.lastTrigger = now
	}
	h.enabled = s.DrinkEnabled
	h.settings = s
}

// NextDue is when the interval reminder becomes eligible.
func (h *Hydration) NextDue() time.Time {
	return h.lastTrigger.Add(h.settings.Interval())
}

// Check reports whether a reminder should be shown at now.
func (h *Hydration) Check(now time.Time) bool {
	if !h.enabled {
		return false
	}

	if h.settings.DrinkMode == DrinkModeCustom {
		return h.checkCustom(now)
	}

	if !h.withinActiveHours(now) {
		return false
	}
	if now.Before(h.NextDue()) {
		return false
	}
	h.lastTrigger = now
	return true
}

// Acknowledge restarts the interval after the user confirmed the reminder.
func (h *Hydration) Acknowledge(now time.Time) {
	h.lastTrigger = now
}

func (h *Hydration) checkCustom(now time.Time) bool {
	current := parse.ClockOf(now).String()
	minute := now.Truncate(time.Minute)

	for _, t := range h.settings.CustomTimes {
		if t != current {
			continue
		}
		if minute.Equal(h.lastFired) {
			return false
		}
		h.lastFired = minute
		return true
	}
	return false
}

// withinActiveHours treats both bounds as inclusive. A start after the end
// spans midnight. Unparsable bounds place no restriction.
func (h *Hydration) withinActiveHours(now time.Time) bool {
	start, err := parse.ParseClock(h.settings.ActiveStart)
	if err != nil {
		return true
	}
	end, err := parse.ParseClock(h.settings.ActiveEnd)
	if err != nil {
		return true
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tod := now.Sub(midnight)

	if start.Offset() <= end.Offset() {
		return tod >= start.Offset() && tod <= end.Offset()
	}
	return tod >= start.Offset() || tod <= end.Offset()
}
