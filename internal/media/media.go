// Package media defines the media-session adapter contract and a pushed
// implementation fed by an out-of-process helper.
package media

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dynamic-island/internal/logger"
)

// Session describes the system's current media session.
type Session struct {
	Title      string `json:"title"`
	Playing    bool   `json:"playing"`
	HasArtwork bool   `json:"has_artwork"`
}

// Adapter is the media-session collaborator.
type Adapter interface {
	// CurrentSession returns nil when no session exists.
	CurrentSession(ctx context.Context) (*Session, error)
	SkipPrevious(ctx context.Context) error
	SkipNext(ctx context.Context) error
	TogglePlayPause(ctx context.Context) error
}

// Command is a transport control request.
type Command string

const (
	CommandPrevious Command = "previous"
	CommandNext     Command = "next"
	CommandToggle   Command = "toggle"
)

// ParseCommand validates a command name.
func ParseCommand(s string) (Command, bool) {
	switch Command(s) {
	case CommandPrevious, CommandNext, CommandToggle:
		return Command(s), true
	}
	return "", false
}

// Snapshot is the result of querying an adapter. Err is set when the query
// failed; consumers treat that the same as no session.
type Snapshot struct {
	Session *Session
	Err     error
}

// Publisher receives snapshots.
type Publisher interface {
	PublishMedia(ctx context.Context, snap Snapshot) error
}

// Controller issues transport commands. A failed command falls back to
// re-querying the adapter and publishing whatever it reports.
type Controller struct {
	adapter   Adapter
	publisher Publisher
	timeout   time.Duration
	log       zerolog.Logger
}

// NewController creates a controller.
func NewController(adapter Adapter, publisher Publisher) *Controller {
	return &Controller{
		adapter:   adapter,
		publisher: publisher,
		timeout:   2 * time.Second,
		log:       logger.WithComponent("media"),
	}
}

// Do runs cmd. Failures are logged, never returned.
func (c *Controller) Do(ctx context.Context, cmd Command) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var err error
	switch cmd {
	case CommandPrevious:
		err = c.adapter.SkipPrevious(cctx)
	case CommandNext:
		err = c.adapter.SkipNext(cctx)
	case CommandToggle:
		err = c.adapter.TogglePlayPause(cctx)
	default:
		err = errors.New("unknown media command")
	}
	if err == nil {
		return
	}

	c.log.Debug().Err(err).Str("command", string(cmd)).Msg("media command failed, re-querying session")
	c.Refresh(ctx)
}

// Refresh queries the adapter and publishes the result.
func (c *Controller) Refresh(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session, err := c.adapter.CurrentSession(cctx)
	if err := c.publisher.PublishMedia(ctx, Snapshot{Session: session, Err: err}); err != nil {
		c.log.Debug().Err(err).Msg("could not publish media snapshot")
	}
}

// ErrNoHelper is returned when no helper process is draining commands.
var ErrNoHelper = errors.New("no media helper connected")

// Remote is an Adapter whose session is pushed by an external helper and
// whose commands are queued for that helper to collect.
type Remote struct {
	mu       sync.RWMutex
	session  *Session
	commands chan Command
}

// NewRemote creates a Remote with a small command queue.
func NewRemote() *Remote {
	return &Remote{commands: make(chan Command, 8)}
}

// Update records the session reported by the helper; nil means none.
func (r *Remote) Update(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s == nil {
		r.session = nil
		return
	}
	cp := *s
	r.session = &cp
}

// CurrentSession implements Adapter.
func (r *Remote) CurrentSession(ctx context.Context) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.session == nil {
		return nil, nil
	}
	cp := *r.session
	return &cp, nil
}

func (r *Remote) enqueue(ctx context.Context, cmd Command) error {
	r.mu.RLock()
	hasSession := r.session != nil
	r.mu.RUnlock()
	if !hasSession {
		return errors.New("no media session")
	}
	select {
	case r.commands <- cmd:
		return nil
	default:
		return ErrNoHelper
	}
}

// SkipPrevious implements Adapter.
func (r *Remote) SkipPrevious(ctx context.Context) error { return r.enqueue(ctx, CommandPrevious) }

// SkipNext implements Adapter.
func (r *Remote) SkipNext(ctx context.Context) error { return r.enqueue(ctx, CommandNext) }

// TogglePlayPause implements Adapter.
func (r *Remote) TogglePlayPause(ctx context.Context) error { return r.enqueue(ctx, CommandToggle) }

// NextCommand blocks until a command is queued or ctx is done.
func (r *Remote) NextCommand(ctx context.Context) (Command, bool) {
	select {
	case cmd := <-r.commands:
		return cmd, true
	case <-ctx.Done():
		return "", false
	}
}
