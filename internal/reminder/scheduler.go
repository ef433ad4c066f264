package reminder

import (
	"time"

	"github.com/rs/zerolog"

	"dynamic-island/internal/logger"
)

// Scheduler owns a settings snapshot and the two sub-schedulers. It is driven
// by the coordinator's hydration and to-do ticks and is not safe for
// concurrent use.
type Scheduler struct {
	settings  Settings
	hydration Hydration
	todos     Todos
	log       zerolog.Logger
}

// NewScheduler creates a scheduler armed with s at now.
func NewScheduler(s Settings, now time.Time) *Scheduler {
	sc := &Scheduler{log: logger.WithComponent("reminders")}
	sc.Reload(s, now)
	return sc
}

// Reload replaces the settings snapshot and re-arms both sub-schedulers.
func (s *Scheduler) Reload(settings Settings, now time.Time) {
	s.settings = settings.Normalize()
	s.hydration.Configure(s.settings, now)
	s.todos.Configure(s.settings)
	s.log.Info().
		Bool("drink_enabled", s.settings.DrinkEnabled).
		Str("drink_mode", string(s.settings.DrinkMode)).
		Int("interval_minutes", s.settings.IntervalMinutes).
		Bool("todo_enabled", s.settings.TodoEnabled).
		Int("todos", len(s.settings.Todos)).
		Msg("reminder settings loaded")
}

// Settings returns a copy of the current snapshot.
func (s *Scheduler) Settings() Settings {
	return s.settings.Clone()
}

// CheckHydration reports whether a drink reminder is due.
func (s *Scheduler) CheckHydration(now time.Time) bool {
	return s.hydration.Check(now)
}

// AcknowledgeHydration restarts the hydration interval.
func (s *Scheduler) AcknowledgeHydration(now time.Time) {
	s.hydration.Acknowledge(now)
}

// NextHydration is when the interval reminder next becomes eligible.
func (s *Scheduler) NextHydration() time.Time {
	return s.hydration.NextDue()
}

// CheckTodo returns the to-do item to surface, if any.
func (s *Scheduler) CheckTodo(now time.Time) (Todo, bool) {
	return s.todos.Check(now)
}

// CompleteTodo marks id completed in the snapshot and returns the updated
// settings for persisting.
func (s *Scheduler) CompleteTodo(id string) (Settings, bool) {
	if !s.settings.CompleteTodo(id) {
		return Settings{}, false
	}
	s.todos.Configure(s.settings)
	return s.settings.Clone(), true
}

// TodoPending reports whether id is still an incomplete item and to-do
// reminders are enabled.
func (s *Scheduler) TodoPending(id string) bool {
	t, ok := s.settings.FindTodo(id)
	return s.settings.TodoEnabled && ok && !t.Completed
}
