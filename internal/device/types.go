// Package device turns raw, duplicate-prone hardware watcher events into
// clean connect/disconnect edges.
package device

import "time"

// Class identifies an independently watched device family. Each class has its
// own initial enumeration pass.
type Class string

const (
	ClassBluetooth Class = "bluetooth"
	ClassRemovable Class = "removable"
)

// Label is the human-readable prefix used when announcing a device.
func (c Class) Label() string {
	switch c {
	case ClassBluetooth:
		return "Bluetooth"
	case ClassRemovable:
		return "USB"
	default:
		return string(c)
	}
}

// Valid reports whether c is a known class.
func (c Class) Valid() bool {
	return c == ClassBluetooth || c == ClassRemovable
}

// EventKind distinguishes the three things a watcher can report.
type EventKind int

const (
	// KindUpdate reports a device's current connection state.
	KindUpdate EventKind = iota
	// KindRemoved reports the device left the watched set.
	KindRemoved
	// KindEnumerated marks the end of the class's initial enumeration pass.
	KindEnumerated
)

// RawEvent is what a watcher adapter emits.
type RawEvent struct {
	Kind      EventKind
	Class     Class
	ID        string
	Name      string
	Connected bool
	// Initial is set on events produced during the watcher's startup pass.
	Initial bool
}

// Record is the cached last-known state of one device.
type Record struct {
	ID          string
	DisplayName string
	Connected   bool
	UpdatedAt   time.Time
}

// Edge is an accepted connection transition.
type Edge struct {
	Class     Class
	Name      string
	Connected bool
}
