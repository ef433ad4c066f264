package reminder

import "time"

// Todos surfaces the first overdue, incomplete to-do item.
type Todos struct {
	settings Settings
}

// Configure applies new settings.
func (t *Todos) Configure(s Settings) {
	t.settings = s
}

// Check returns the item to surface at now, if any.
func (t *Todos) Check(now time.Time) (Todo, bool) {
	if !t.settings.TodoEnabled {
		return Todo{}, false
	}
	for _, item := range t.settings.Todos {
		if !item.Completed && !item.ReminderTime.After(now) {
			return item, true
		}
	}
	return Todo{}, false
}
