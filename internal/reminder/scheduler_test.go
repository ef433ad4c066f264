package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute, second int) time.Time {
	return time.Date(2026, 6, day, hour, minute, second, 0, time.Local)
}

func intervalSettings() Settings {
	s := Defaults()
	s.DrinkEnabled = true
	s.IntervalMinutes = 30
	s.ActiveStart = "09:00"
	s.ActiveEnd = "22:00"
	return s
}

func TestHydration_IntervalFiresWhenDue(t *testing.T) {
	sc := NewScheduler(intervalSettings(), at(1, 10, 0, 0))

	assert.False(t, sc.CheckHydration(at(1, 10, 0, 30)))
	assert.False(t, sc.CheckHydration(at(1, 10, 29, 59)))
	assert.True(t, sc.CheckHydration(at(1, 10, 30, 0)))
	assert.False(t, sc.CheckHydration(at(1, 10, 30, 30)), "the next reminder is an interval away")
	assert.Equal(t, at(1, 11, 0, 0), sc.NextHydration())
}

func TestHydration_SuppressedOutsideActiveHours(t *testing.T) {
	sc := NewScheduler(intervalSettings(), at(1, 22, 30, 0))

	assert.False(t, sc.CheckHydration(at(1, 23, 0, 0)), "23:00 is outside 09:00-22:00")
	assert.False(t, sc.CheckHydration(at(2, 3, 0, 0)))
	assert.False(t, sc.CheckHydration(at(2, 8, 59, 30)))

	assert.True(t, sc.CheckHydration(at(2, 9, 0, 0)), "fires once hours re-open")
	assert.False(t, sc.CheckHydration(at(2, 9, 0, 30)), "and does not double-fire")
	assert.False(t, sc.CheckHydration(at(2, 9, 29, 30)))
	assert.True(t, sc.CheckHydration(at(2, 9, 30, 0)))
}

func TestHydration_ActiveHoursWrapMidnight(t *testing.T) {
	s := intervalSettings()
	s.ActiveStart = "22:00"
	s.ActiveEnd = "06:00"
	sc := NewScheduler(s, at(1, 12, 0, 0))

	assert.False(t, sc.CheckHydration(at(1, 15, 0, 0)), "afternoon is outside a night window")
	assert.True(t, sc.CheckHydration(at(1, 23, 0, 0)))
	assert.True(t, sc.CheckHydration(at(2, 0, 0, 0)))
	assert.True(t, sc.CheckHydration(at(2, 6, 0, 0)), "the end bound is inclusive")
	assert.False(t, sc.CheckHydration(at(2, 7, 0, 0)))
}

func TestHydration_UnparsableHoursAreAlwaysActive(t *testing.T) {
	s := intervalSettings()
	s.ActiveStart = "morning"
	sc := NewScheduler(s, at(1, 1, 0, 0))
	assert.True(t, sc.CheckHydration(at(1, 2, 0, 0)))
}

func TestHydration_AcknowledgeResetsInterval(t *testing.T) {
	sc := NewScheduler(intervalSettings(), at(1, 10, 0, 0))
	require.True(t, sc.CheckHydration(at(1, 10, 30, 0)))

	sc.AcknowledgeHydration(at(1, 10, 45, 0))
	assert.False(t, sc.CheckHydration(at(1, 11, 0, 0)))
	assert.True(t, sc.CheckHydration(at(1, 11, 15, 0)))
}

func TestHydration_Disabled(t *testing.T) {
	s := intervalSettings()
	s.DrinkEnabled = false
	sc := NewScheduler(s, at(1, 10, 0, 0))
	assert.False(t, sc.CheckHydration(at(1, 18, 0, 0)))
}

func TestHydration_ReloadKeepsRunningInterval(t *testing.T) {
	sc := NewScheduler(intervalSettings(), at(1, 10, 0, 0))

	s := intervalSettings()
	s.IntervalMinutes = 45
	sc.Reload(s, at(1, 10, 20, 0))
	assert.Equal(t, at(1, 10, 45, 0), sc.NextHydration(), "the new interval counts from the last trigger")

	s.DrinkEnabled = false
	sc.Reload(s, at(1, 10, 25, 0))
	s.DrinkEnabled = true
	sc.Reload(s, at(1, 12, 0, 0))
	assert.Equal(t, at(1, 12, 45, 0), sc.NextHydration(), "re-enabling arms from now")
}

func TestHydration_CustomTimesFireOncePerMinute(t *testing.T) {
	s := Defaults()
	s.DrinkEnabled = true
	s.DrinkMode = DrinkModeCustom
	s.CustomTimes = []string{"1400"}
	sc := NewScheduler(s, at(1, 9, 0, 0))

	assert.True(t, sc.CheckHydration(at(1, 14, 0, 5)))
	assert.False(t, sc.CheckHydration(at(1, 14, 0, 20)), "same minute must not re-emit")
	assert.False(t, sc.CheckHydration(at(1, 14, 1, 0)), "14:01 is not a custom time")

	assert.True(t, sc.CheckHydration(at(2, 14, 0, 10)), "the same time fires again the next day")
}

func TestTodos_SurfaceOneAtATime(t *testing.T) {
	s := Defaults()
	s.TodoEnabled = true
	s.Todos = []Todo{
		{ID: "done", ReminderTime: at(1, 8, 0, 0), Content: "Already done", Completed: true},
		{ID: "first", ReminderTime: at(1, 9, 0, 0), Content: "Stand-up notes"},
		{ID: "second", ReminderTime: at(1, 9, 30, 0), Content: "Send invoice"},
		{ID: "later", ReminderTime: at(1, 18, 0, 0), Content: "Water plants"},
	}
	sc := NewScheduler(s, at(1, 7, 0, 0))

	_, ok := sc.CheckTodo(at(1, 8, 59, 0))
	assert.False(t, ok)

	item, ok := sc.CheckTodo(at(1, 10, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "first", item.ID)

	item, ok = sc.CheckTodo(at(1, 10, 0, 15))
	require.True(t, ok)
	assert.Equal(t, "first", item.ID, "the same item stays surfaced until completed")

	updated, ok := sc.CompleteTodo("first")
	require.True(t, ok)
	assert.True(t, updated.Todos[1].Completed)
	assert.False(t, sc.TodoPending("first"))

	item, ok = sc.CheckTodo(at(1, 10, 0, 30))
	require.True(t, ok)
	assert.Equal(t, "second", item.ID)

	_, ok = sc.CompleteTodo("missing")
	assert.False(t, ok)
}

func TestTodos_Disabled(t *testing.T) {
	s := Defaults()
	s.Todos = []Todo{{ID: "x", ReminderTime: at(1, 8, 0, 0), Content: "x"}}
	sc := NewScheduler(s, at(1, 7, 0, 0))
	_, ok := sc.CheckTodo(at(1, 9, 0, 0))
	assert.False(t, ok)
	assert.False(t, sc.TodoPending("x"), "disabled items are not pending")

	s.TodoEnabled = true
	sc.Reload(s, at(1, 9, 0, 0))
	assert.True(t, sc.TodoPending("x"))
}

func TestSettings_Normalize(t *testing.T) {
	s := Settings{
		IntervalMinutes: 0,
		DrinkMode:       "hourly",
		ActiveStart:     "900",
		ActiveEnd:       "22:00",
		CustomTimes:     []string{"930", "09:30", "bogus", "14:00"},
		Todos:           []Todo{{Content: "no id"}},
	}
	n := s.Normalize()

	assert.Equal(t, 1, n.IntervalMinutes)
	assert.Equal(t, DrinkModeInterval, n.DrinkMode)
	assert.Equal(t, "09:00", n.ActiveStart)
	assert.Equal(t, []string{"09:30", "14:00"}, n.CustomTimes)
	assert.NotEmpty(t, n.Todos[0].ID)
	assert.Empty(t, s.Todos[0].ID, "the receiver is not modified")
}
