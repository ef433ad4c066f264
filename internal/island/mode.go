// Package island arbitrates which signal owns the capsule and animates the
// capsule's size toward the winner's dimensions.
package island

// ModeKind names a presentation mode variant.
type ModeKind string

const (
	KindStandby       ModeKind = "standby"
	KindMedia         ModeKind = "media"
	KindNotification  ModeKind = "notification"
	KindDrinkReminder ModeKind = "drink_reminder"
	KindTodoReminder  ModeKind = "todo_reminder"
	KindFileStation   ModeKind = "file_station"
)

// Mode is the content currently shown on the capsule. Exactly one Mode is
// active at a time; the concrete types below are the only implementations.
type Mode interface {
	Kind() ModeKind
	isMode()
}

// Standby means no signal owns the capsule.
type Standby struct{}

// Media shows the current media session.
type Media struct {
	Title      string `json:"title"`
	Playing    bool   `json:"playing"`
	HasArtwork bool   `json:"has_artwork"`
}

// NotificationType classifies a Notification.
type NotificationType string

const (
	DeviceConnect    NotificationType = "device_connect"
	DeviceDisconnect NotificationType = "device_disconnect"
	Message          NotificationType = "message"
)

// Notification is a short-lived alert that expires on its own.
type Notification struct {
	Type   NotificationType `json:"type"`
	Label  string           `json:"label"`
	Accent string           `json:"accent"`
}

// DrinkReminder asks the user to drink water until acknowledged.
type DrinkReminder struct{}

// TodoReminder shows a due to-do item until dismissed.
type TodoReminder struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// FileStation shows staged files, or the drop target while dragging.
type FileStation struct {
	FileCount int  `json:"file_count"`
	Dragging  bool `json:"dragging"`
}

func (Standby) Kind() ModeKind       { return KindStandby }
func (Media) Kind() ModeKind         { return KindMedia }
func (Notification) Kind() ModeKind  { return KindNotification }
func (DrinkReminder) Kind() ModeKind { return KindDrinkReminder }
func (TodoReminder) Kind() ModeKind  { return KindTodoReminder }
func (FileStation) Kind() ModeKind   { return KindFileStation }

func (Standby) isMode()       {}
func (Media) isMode()         {}
func (Notification) isMode()  {}
func (DrinkReminder) isMode() {}
func (TodoReminder) isMode()  {}
func (FileStation) isMode()   {}

// Accent colours.
const (
	AccentConnect    = "#00FFCC"
	AccentDisconnect = "#FF3333"
	AccentMessage    = "#00BFFF"
	AccentDrink      = "#00BFFF"
	AccentTodo       = "#FFA500"
	AccentFiles      = "#800080"
)

// isReminder reports whether m stays until acknowledged.
func isReminder(m Mode) bool {
	switch m.(type) {
	case DrinkReminder, TodoReminder:
		return true
	}
	return false
}

// blocking reports whether m holds off media and file-station changes.
func blocking(m Mode) bool {
	if _, ok := m.(Notification); ok {
		return true
	}
	return isReminder(m)
}
