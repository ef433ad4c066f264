package island

import (
	"strconv"
	"time"

	"dynamic-island/internal/audio"
)

// Frame is one rendered snapshot of the capsule.
type Frame struct {
	Revision     uint64                  `json:"revision"`
	Kind         ModeKind                `json:"kind"`
	Mode         Mode                    `json:"mode"`
	Text         string                  `json:"text"`
	Accent       string                  `json:"accent,omitempty"`
	Category     SizeCategory            `json:"category"`
	Width        float64                 `json:"width"`
	Height       float64                 `json:"height"`
	TargetWidth  float64                 `json:"target_width"`
	TargetHeight float64                 `json:"target_height"`
	Active       bool                    `json:"active"`
	ExpiresAt    *time.Time              `json:"expires_at,omitempty"`
	Bars         [audio.BarCount]float64 `json:"bars"`
	At           time.Time               `json:"at"`
}

// Settled reports whether the animated size has reached the target.
func (f Frame) Settled() bool {
	const eps = 0.5
	return abs(f.Width-f.TargetWidth) < eps && abs(f.Height-f.TargetHeight) < eps
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// DrinkText is shown by the hydration reminder.
const DrinkText = "Time to drink water"

// describe returns the display text and accent colour for m.
func describe(m Mode) (text, accent string) {
	switch v := m.(type) {
	case Media:
		return v.Title, ""
	case Notification:
		return v.Label, v.Accent
	case DrinkReminder:
		return DrinkText, AccentDrink
	case TodoReminder:
		return v.Content, AccentTodo
	case FileStation:
		if v.Dragging {
			return "Drop files here", AccentFiles
		}
		return strconv.Itoa(v.FileCount), AccentFiles
	default:
		return "", ""
	}
}
