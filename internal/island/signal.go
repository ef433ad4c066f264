package island

import (
	"dynamic-island/internal/device"
	"dynamic-island/internal/media"
	"dynamic-island/internal/reminder"
)

// Signal is an input delivered to the Coordinator's inbox.
type Signal interface {
	isSignal()
}

// DeviceSignal carries a raw watcher event through the debouncer.
type DeviceSignal struct {
	Event device.RawEvent
}

// MessageSignal carries an already filtered notification label.
type MessageSignal struct {
	Label string
}

// MediaSignal carries a media session query result.
type MediaSignal struct {
	Snapshot media.Snapshot
}

// MediaPropertiesSignal carries a title or artwork change.
type MediaPropertiesSignal struct {
	Title      string
	HasArtwork bool
}

// PlaybackSignal carries a play/pause change.
type PlaybackSignal struct {
	Playing bool
}

// FileAction is a drag-and-drop gesture.
type FileAction string

const (
	FileEnter FileAction = "enter"
	FileLeave FileAction = "leave"
	FileDrop  FileAction = "drop"
	FileOut   FileAction = "out"
)

// ParseFileAction validates a file action name.
func ParseFileAction(s string) (FileAction, bool) {
	switch FileAction(s) {
	case FileEnter, FileLeave, FileDrop, FileOut:
		return FileAction(s), true
	}
	return "", false
}

// FileSignal carries a drag-and-drop gesture. Paths is used by FileDrop.
// For FileOut, the staged paths are sent on Reply when it is non-nil.
type FileSignal struct {
	Action FileAction
	Paths  []string
	Reply  chan<- []string
}

// DismissSignal acknowledges the transient mode on screen.
type DismissSignal struct{}

// SettingsSignal replaces the reminder settings.
type SettingsSignal struct {
	Settings reminder.Settings
}

func (DeviceSignal) isSignal()          {}
func (MessageSignal) isSignal()         {}
func (MediaSignal) isSignal()           {}
func (MediaPropertiesSignal) isSignal() {}
func (PlaybackSignal) isSignal()        {}
func (FileSignal) isSignal()            {}
func (DismissSignal) isSignal()         {}
func (SettingsSignal) isSignal()        {}
