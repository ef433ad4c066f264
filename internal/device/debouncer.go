package device

import (
	"time"

	"github.com/rs/zerolog"

	"dynamic-island/internal/logger"
	"dynamic-island/internal/parse"
)

// DefaultCooldown is the minimum age of a cached state before an opposite
// state for the same device is believed.
const DefaultCooldown = 2 * time.Second

// Debouncer filters RawEvents into Edges. It is not safe for concurrent use;
// the coordinator owns it.
type Debouncer struct {
	now        func() time.Time
	cooldown   time.Duration
	records    map[string]*Record
	enumerated map[Class]bool
	log        zerolog.Logger
}

// NewDebouncer creates a debouncer using now as its monotonic clock.
func NewDebouncer(now func() time.Time, cooldown time.Duration) *Debouncer {
	if now == nil {
		now = time.Now
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Debouncer{
		now:        now,
		cooldown:   cooldown,
		records:    make(map[string]*Record),
		enumerated: make(map[Class]bool),
		log:        logger.WithComponent("debouncer"),
	}
}

// Handle dispatches a raw event by kind.
func (d *Debouncer) Handle(ev RawEvent) (Edge, bool) {
	switch ev.Kind {
	case KindEnumerated:
		d.EnumerationComplete(ev.Class)
		return Edge{}, false
	case KindRemoved:
		return d.Remove(ev.Class, ev.ID)
	default:
		return d.Observe(ev)
	}
}

// EnumerationComplete marks the initial pass of class as finished.
func (d *Debouncer) EnumerationComplete(class Class) {
	if !d.enumerated[class] {
		d.log.Debug().Str("class", string(class)).Msg("initial enumeration complete")
	}
	d.enumerated[class] = true
}

// Observe applies the connection-state rules to one update.
func (d *Debouncer) Observe(ev RawEvent) (Edge, bool) {
	if !parse.ValidDeviceName(ev.Name) {
		d.log.Debug().Str("name", ev.Name).Msg("filtered invalid device name")
		return Edge{}, false
	}

	now := d.now()
	cached, known := d.records[ev.ID]

	if ev.Initial || !d.enumerated[ev.Class] {
		d.records[ev.ID] = &Record{ID: ev.ID, DisplayName: ev.Name, Connected: ev.Connected, UpdatedAt: now}
		return Edge{}, false
	}

	if !known {
		d.records[ev.ID] = &Record{ID: ev.ID, DisplayName: ev.Name, Connected: ev.Connected, UpdatedAt: now}
		if !ev.Connected {
			return Edge{}, false
		}
		return Edge{Class: ev.Class, Name: ev.Name, Connected: true}, true
	}

	if cached.Connected == ev.Connected {
		return Edge{}, false
	}
	if age := now.Sub(cached.UpdatedAt); age < d.cooldown {
		d.log.Debug().
			Str("name", ev.Name).
			Dur("age", age).
			Msg("state change too soon after last update, ignored")
		return Edge{}, false
	}

	cached.Connected = ev.Connected
	cached.DisplayName = ev.Name
	cached.UpdatedAt = now
	return Edge{Class: ev.Class, Name: ev.Name, Connected: ev.Connected}, true
}

// Remove drops the record for id. A disconnect edge is produced only when the
// device was last known to be connected.
func (d *Debouncer) Remove(class Class, id string) (Edge, bool) {
	cached, known := d.records[id]
	if !known {
		return Edge{}, false
	}
	delete(d.records, id)

	if !cached.Connected || !d.enumerated[class] {
		return Edge{}, false
	}
	return Edge{Class: class, Name: cached.DisplayName, Connected: false}, true
}

// Record returns a copy of the cached state of id.
func (d *Debouncer) Record(id string) (Record, bool) {
	r, ok := d.records[id]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Len is the number of tracked devices.
func (d *Debouncer) Len() int {
	return len(d.records)
}
