package island

import (
	"time"

	"dynamic-island/internal/device"
	"dynamic-island/internal/media"
)

// DefaultNotificationTTL is how long a notification owns the capsule.
const DefaultNotificationTTL = 3 * time.Second

// State is the arbitrated presentation state.
type State struct {
	Mode      Mode
	Size      SizeCategory
	ExpiresAt time.Time
	Revision  uint64
}

// Dismissed tells the caller what a dismissal acknowledged.
type Dismissed struct {
	Mode   ModeKind
	TodoID string
}

// Arbitrator decides which signal owns the capsule. It is not safe for
// concurrent use; the Coordinator owns it.
//
// Priority, highest first: notifications and reminders, file station, media,
// standby. Reminders stay pending until acknowledged and resume when a
// covering notification ends.
type Arbitrator struct {
	state   State
	ttl     time.Duration
	session *media.Session
	staged  []string
	drag    bool
	pending []Mode
}

// NewArbitrator starts in Standby.
func NewArbitrator(ttl time.Duration) *Arbitrator {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Arbitrator{
		ttl:   ttl,
		state: State{Mode: Standby{}, Size: SizeCompact},
	}
}

// State returns the current state.
func (a *Arbitrator) State() State {
	return a.state
}

// Staged returns a copy of the staged file paths.
func (a *Arbitrator) Staged() []string {
	return append([]string(nil), a.staged...)
}

// Session returns the last known media session, or nil.
func (a *Arbitrator) Session() *media.Session {
	if a.session == nil {
		return nil
	}
	s := *a.session
	return &s
}

// Pending returns the unacknowledged reminders, oldest first.
func (a *Arbitrator) Pending() []Mode {
	return append([]Mode(nil), a.pending...)
}

func (a *Arbitrator) show(m Mode, now time.Time) {
	next := State{Mode: m, Size: CategoryOf(m), Revision: a.state.Revision + 1}
	if _, ok := m.(Notification); ok {
		next.ExpiresAt = now.Add(a.ttl)
	}
	a.state = next
}

// background is the mode shown when nothing transient is pending.
func (a *Arbitrator) background() Mode {
	switch {
	case a.drag:
		return FileStation{FileCount: len(a.staged), Dragging: true}
	case len(a.staged) > 0:
		return FileStation{FileCount: len(a.staged)}
	case a.session != nil:
		return Media{Title: a.session.Title, Playing: a.session.Playing, HasArtwork: a.session.HasArtwork}
	default:
		return Standby{}
	}
}

// settle shows the newest pending reminder, or the background mode.
func (a *Arbitrator) settle(now time.Time) {
	next := a.background()
	if n := len(a.pending); n > 0 {
		next = a.pending[n-1]
	}
	if next != a.state.Mode {
		a.show(next, now)
	}
}

// refresh re-evaluates the background unless a transient mode holds the
// capsule.
func (a *Arbitrator) refresh(now time.Time) {
	if !blocking(a.state.Mode) {
		a.settle(now)
	}
}

// DeviceEdge shows a connect or disconnect notification.
func (a *Arbitrator) DeviceEdge(e device.Edge, now time.Time) {
	n := Notification{
		Type:   DeviceConnect,
		Label:  e.Class.Label() + ": " + e.Name,
		Accent: AccentConnect,
	}
	if !e.Connected {
		n.Type = DeviceDisconnect
		n.Accent = AccentDisconnect
	}
	a.show(n, now)
}

// Message shows a message notification.
func (a *Arbitrator) Message(label string, now time.Time) {
	a.show(Notification{Type: Message, Label: label, Accent: AccentMessage}, now)
}

// Drink surfaces the hydration reminder. It reports false when the reminder
// was already pending.
func (a *Arbitrator) Drink(now time.Time) bool {
	if a.pendingIndex(func(m Mode) bool { _, ok := m.(DrinkReminder); return ok }) >= 0 {
		return false
	}
	a.pending = append(a.pending, DrinkReminder{})
	a.show(DrinkReminder{}, now)
	return true
}

// Todo surfaces a to-do reminder. Only one to-do is pending at a time; a
// different item replaces the previous one. It reports false when the item
// was already pending.
func (a *Arbitrator) Todo(id, content string, now time.Time) bool {
	isTodo := func(m Mode) bool { _, ok := m.(TodoReminder); return ok }
	if i := a.pendingIndex(isTodo); i >= 0 {
		if a.pending[i].(TodoReminder).ID == id {
			return false
		}
		a.removePending(i)
	}
	t := TodoReminder{ID: id, Content: content}
	a.pending = append(a.pending, t)
	a.show(t, now)
	return true
}

// MediaSnapshot records the latest media query result. A failed query
// counts as no session.
func (a *Arbitrator) MediaSnapshot(snap media.Snapshot, now time.Time) {
	a.session = nil
	if snap.Err == nil && snap.Session != nil {
		s := *snap.Session
		a.session = &s
	}
	a.refresh(now)
}

// MediaProperties applies a title or artwork change. Updates arriving after
// the session ended are stale and reported as false.
func (a *Arbitrator) MediaProperties(title string, hasArtwork bool, now time.Time) bool {
	if a.session == nil {
		return false
	}
	a.session.Title = title
	a.session.HasArtwork = hasArtwork
	a.refresh(now)
	return true
}

// Playback applies a play or pause change, with the same staleness rule
// as MediaProperties.
func (a *Arbitrator) Playback(playing bool, now time.Time) bool {
	if a.session == nil {
		return false
	}
	a.session.Playing = playing
	a.refresh(now)
	return true
}

// DragEnter starts a drag over the capsule.
func (a *Arbitrator) DragEnter(now time.Time) {
	a.drag = true
	a.refresh(now)
}

// DragLeave ends a drag without a drop.
func (a *Arbitrator) DragLeave(now time.Time) {
	a.drag = false
	a.refresh(now)
}

// Drop stages paths and ends the drag.
func (a *Arbitrator) Drop(paths []string, now time.Time) {
	a.drag = false
	for _, p := range paths {
		if p != "" {
			a.staged = append(a.staged, p)
		}
	}
	a.refresh(now)
}

// DragOut hands the staged files to the caller and clears them.
func (a *Arbitrator) DragOut(now time.Time) []string {
	out := a.staged
	a.staged = nil
	a.refresh(now)
	return out
}

// Dismiss acknowledges whatever transient mode is showing.
func (a *Arbitrator) Dismiss(now time.Time) Dismissed {
	d := Dismissed{Mode: a.state.Mode.Kind()}
	switch m := a.state.Mode.(type) {
	case Notification:
	case DrinkReminder, TodoReminder:
		if t, ok := m.(TodoReminder); ok {
			d.TodoID = t.ID
		}
		if i := a.pendingIndex(func(p Mode) bool { return p == m }); i >= 0 {
			a.removePending(i)
		}
	default:
		return Dismissed{}
	}
	a.settle(now)
	return d
}

// Expire ends a notification whose time is up. It reports whether the
// state changed.
func (a *Arbitrator) Expire(now time.Time) bool {
	if _, ok := a.state.Mode.(Notification); !ok || now.Before(a.state.ExpiresAt) {
		return false
	}
	a.settle(now)
	return true
}

// PruneTodos drops pending to-do reminders for which keep reports false,
// e.g. after the item was completed or deleted elsewhere.
func (a *Arbitrator) PruneTodos(keep func(id string) bool, now time.Time) {
	changed := false
	for i := len(a.pending) - 1; i >= 0; i-- {
		if t, ok := a.pending[i].(TodoReminder); ok && !keep(t.ID) {
			a.removePending(i)
			changed = true
		}
	}
	if !changed {
		return
	}
	if _, ok := a.state.Mode.(TodoReminder); ok {
		a.settle(now)
	}
}

func (a *Arbitrator) pendingIndex(match func(Mode) bool) int {
	for i, m := range a.pending {
		if match(m) {
			return i
		}
	}
	return -1
}

func (a *Arbitrator) removePending(i int) {
	a.pending = append(a.pending[:i], a.pending[i+1:]...)
}
