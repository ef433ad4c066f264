// Package reminder schedules hydration and to-do reminders from a settings
// snapshot.
package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dynamic-island/internal/parse"
)

// DrinkMode selects how hydration reminders are scheduled.
type DrinkMode string

const (
	DrinkModeInterval DrinkMode = "interval"
	DrinkModeCustom   DrinkMode = "custom"
)

// Settings is the persisted reminder configuration.
type Settings struct {
	DrinkEnabled    bool      `json:"drink_enabled" yaml:"drink_enabled"`
	DrinkMode       DrinkMode `json:"drink_mode" yaml:"drink_mode"`
	IntervalMinutes int       `json:"interval_minutes" yaml:"interval_minutes"`
	ActiveStart     string    `json:"active_start" yaml:"active_start"`
	ActiveEnd       string    `json:"active_end" yaml:"active_end"`
	CustomTimes     []string  `json:"custom_times" yaml:"custom_times"`
	TodoEnabled     bool      `json:"todo_enabled" yaml:"todo_enabled"`
	Todos           []Todo    `json:"todos" yaml:"todos"`
}

// Todo is one to-do list entry.
type Todo struct {
	ID           string    `json:"id" yaml:"id"`
	ReminderTime time.Time `json:"reminder_time" yaml:"reminder_time"`
	Content      string    `json:"content" yaml:"content"`
	Completed    bool      `json:"is_completed" yaml:"is_completed"`
}

// SettingsStore persists Settings. Load never fails: a missing or corrupt
// store yields Defaults.
type SettingsStore interface {
	Load(ctx context.Context) Settings
	Save(ctx context.Context, s Settings) error
}

// Defaults returns the settings used when nothing is stored.
func Defaults() Settings {
	return Settings{
		DrinkEnabled:    false,
		DrinkMode:       DrinkModeInterval,
		IntervalMinutes: 30,
		ActiveStart:     "09:00",
		ActiveEnd:       "22:00",
		CustomTimes:     []string{},
		TodoEnabled:     false,
		Todos:           []Todo{},
	}
}

// Normalize returns a copy with invalid fields repaired: the interval is at
// least one minute, custom times are canonical HH:MM without duplicates, and
// every to-do has an ID.
func (s Settings) Normalize() Settings {
	out := s
	if out.IntervalMinutes < 1 {
		out.IntervalMinutes = 1
	}
	if out.DrinkMode != DrinkModeCustom {
		out.DrinkMode = DrinkModeInterval
	}
	if c, err := parse.ParseClock(out.ActiveStart); err == nil {
		out.ActiveStart = c.String()
	}
	if c, err := parse.ParseClock(out.ActiveEnd); err == nil {
		out.ActiveEnd = c.String()
	}

	seen := make(map[string]bool, len(s.CustomTimes))
	out.CustomTimes = make([]string, 0, len(s.CustomTimes))
	for _, raw := range s.CustomTimes {
		c, err := parse.ParseClock(raw)
		if err != nil || seen[c.String()] {
			continue
		}
		seen[c.String()] = true
		out.CustomTimes = append(out.CustomTimes, c.String())
	}

	out.Todos = make([]Todo, len(s.Todos))
	copy(out.Todos, s.Todos)
	for i := range out.Todos {
		if out.Todos[i].ID == "" {
			out.Todos[i].ID = uuid.NewString()
		}
	}
	return out
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.CustomTimes = append([]string(nil), s.CustomTimes...)
	out.Todos = append([]Todo(nil), s.Todos...)
	return out
}

// Interval is IntervalMinutes as a duration.
func (s Settings) Interval() time.Duration {
	m := s.IntervalMinutes
	if m < 1 {
		m = 1
	}
	return time.Duration(m) * time.Minute
}

// CompleteTodo marks the to-do with id completed. It reports whether the item
// was found.
func (s *Settings) CompleteTodo(id string) bool {
	for i := range s.Todos {
		if s.Todos[i].ID == id {
			s.Todos[i].Completed = true
			return true
		}
	}
	return false
}

// FindTodo returns the to-do with id.
func (s Settings) FindTodo(id string) (Todo, bool) {
	for _, t := range s.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}
