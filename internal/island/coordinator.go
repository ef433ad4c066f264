package island

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"dynamic-island/internal/audio"
	"dynamic-island/internal/device"
	"dynamic-island/internal/logger"
	"dynamic-island/internal/media"
	"dynamic-island/internal/reminder"
	"dynamic-island/internal/spring"
)

// Options tunes a Coordinator. Zero values take the defaults.
type Options struct {
	Now               func() time.Time
	FrameInterval     time.Duration
	HydrationInterval time.Duration
	TodoInterval      time.Duration
	NotificationTTL   time.Duration
	DeviceCooldown    time.Duration
	Sizes             SizeTable
	InboxSize         int
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = 16 * time.Millisecond
	}
	if o.HydrationInterval <= 0 {
		o.HydrationInterval = 30 * time.Second
	}
	if o.TodoInterval <= 0 {
		o.TodoInterval = 15 * time.Second
	}
	if o.NotificationTTL <= 0 {
		o.NotificationTTL = DefaultNotificationTTL
	}
	if o.DeviceCooldown <= 0 {
		o.DeviceCooldown = device.DefaultCooldown
	}
	if o.Sizes == nil {
		o.Sizes = DefaultSizes()
	}
	if o.InboxSize <= 0 {
		o.InboxSize = 64
	}
	return o
}

// Coordinator owns the arbitration state, the springs, the device cache and
// the reminder scheduler. All mutation happens on the Run goroutine; other
// goroutines talk to it through Submit.
type Coordinator struct {
	opts  Options
	now   func() time.Time
	store reminder.SettingsStore
	meter *audio.Meter

	arb       *Arbitrator
	width     *spring.Spring
	height    *spring.Spring
	debouncer *device.Debouncer
	scheduler *reminder.Scheduler
	lastTick  time.Time

	inbox   chan Signal
	persist chan reminder.Settings
	latest  atomic.Pointer[Frame]

	subsMu sync.Mutex
	subs   map[chan Frame]struct{}

	log zerolog.Logger
}

// New creates a Coordinator in Standby with default reminder settings.
// Run loads the stored settings before entering its loop.
func New(store reminder.SettingsStore, meter *audio.Meter, opts Options) *Coordinator {
	opts = opts.withDefaults()
	if meter == nil {
		meter = &audio.Meter{}
	}
	now := opts.Now()
	compact := opts.Sizes.Resolve(SizeCompact)
	c := &Coordinator{
		opts:      opts,
		now:       opts.Now,
		store:     store,
		meter:     meter,
		arb:       NewArbitrator(opts.NotificationTTL),
		width:     spring.New(compact.Width),
		height:    spring.New(compact.Height),
		debouncer: device.NewDebouncer(opts.Now, opts.DeviceCooldown),
		scheduler: reminder.NewScheduler(reminder.Defaults(), now),
		inbox:     make(chan Signal, opts.InboxSize),
		persist:   make(chan reminder.Settings, 1),
		subs:      make(map[chan Frame]struct{}),
		log:       logger.WithComponent("coordinator"),
	}
	c.Frame(now)
	return c
}

// Run processes signals and timers until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	if c.store != nil {
		c.applySettings(c.store.Load(ctx), c.now())
		go c.persistLoop(ctx)
	}

	frames := time.NewTicker(c.opts.FrameInterval)
	defer frames.Stop()
	hydration := time.NewTicker(c.opts.HydrationInterval)
	defer hydration.Stop()
	todos := time.NewTicker(c.opts.TodoInterval)
	defer todos.Stop()

	c.log.Info().
		Dur("frame_interval", c.opts.FrameInterval).
		Dur("hydration_interval", c.opts.HydrationInterval).
		Dur("todo_interval", c.opts.TodoInterval).
		Msg("coordinator started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("coordinator stopped")
			return
		case sig := <-c.inbox:
			c.Handle(sig, c.now())
		case <-frames.C:
			c.Frame(c.now())
		case <-hydration.C:
			c.CheckHydration(c.now())
		case <-todos.C:
			c.CheckTodos(c.now())
		}
	}
}

// Submit enqueues sig for the Run goroutine.
func (c *Coordinator) Submit(ctx context.Context, sig Signal) error {
	select {
	case c.inbox <- sig:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishMedia implements media.Publisher.
func (c *Coordinator) PublishMedia(ctx context.Context, snap media.Snapshot) error {
	return c.Submit(ctx, MediaSignal{Snapshot: snap})
}

// PublishMessage delivers a filtered notification label.
func (c *Coordinator) PublishMessage(ctx context.Context, label string) error {
	return c.Submit(ctx, MessageSignal{Label: label})
}

// EmitDevice is a device.Emit that forwards watcher events.
func (c *Coordinator) EmitDevice(ctx context.Context, ev device.RawEvent) {
	if err := c.Submit(ctx, DeviceSignal{Event: ev}); err != nil {
		c.log.Debug().Err(err).Str("device", ev.ID).Msg("device event dropped")
	}
}

// ReloadSettings reads the store on the caller's goroutine and hands the
// result to the coordinator.
func (c *Coordinator) ReloadSettings(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.Submit(ctx, SettingsSignal{Settings: c.store.Load(ctx)})
}

// Meter returns the audio level sink.
func (c *Coordinator) Meter() *audio.Meter {
	return c.meter
}

// Latest returns the most recently published frame.
func (c *Coordinator) Latest() Frame {
	return *c.latest.Load()
}

// Subscribe returns a channel receiving published frames and a function
// that cancels the subscription. Slow subscribers miss frames.
func (c *Coordinator) Subscribe(buffer int) (<-chan Frame, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Frame, buffer)
	c.subsMu.Lock()
	c.subs[ch] = struct{}{}
	c.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, ch)
			c.subsMu.Unlock()
		})
	}
}

// Handle applies one signal. It must only be called from the goroutine
// that owns the coordinator.
func (c *Coordinator) Handle(sig Signal, now time.Time) {
	switch s := sig.(type) {
	case DeviceSignal:
		edge, ok := c.debouncer.Handle(s.Event)
		if !ok {
			return
		}
		c.log.Info().
			Str("class", string(edge.Class)).
			Str("device", edge.Name).
			Bool("connected", edge.Connected).
			Msg("device edge")
		c.arb.DeviceEdge(edge, now)
	case MessageSignal:
		c.arb.Message(s.Label, now)
	case MediaSignal:
		if s.Snapshot.Err != nil {
			c.log.Debug().Err(s.Snapshot.Err).Msg("media session unavailable")
		}
		c.arb.MediaSnapshot(s.Snapshot, now)
	case MediaPropertiesSignal:
		if !c.arb.MediaProperties(s.Title, s.HasArtwork, now) {
			c.log.Debug().Str("title", s.Title).Msg("discarding stale media properties")
		}
	case PlaybackSignal:
		if !c.arb.Playback(s.Playing, now) {
			c.log.Debug().Msg("discarding stale playback update")
		}
	case FileSignal:
		c.handleFiles(s, now)
	case DismissSignal:
		c.dismiss(now)
	case SettingsSignal:
		c.applySettings(s.Settings, now)
	default:
		c.log.Warn().Msgf("unknown signal %T", sig)
	}
}

func (c *Coordinator) handleFiles(s FileSignal, now time.Time) {
	switch s.Action {
	case FileEnter:
		c.arb.DragEnter(now)
	case FileLeave:
		c.arb.DragLeave(now)
	case FileDrop:
		c.arb.Drop(s.Paths, now)
	case FileOut:
		out := c.arb.DragOut(now)
		if s.Reply != nil {
			select {
			case s.Reply <- out:
			default:
			}
		}
	}
}

func (c *Coordinator) dismiss(now time.Time) {
	d := c.arb.Dismiss(now)
	switch d.Mode {
	case KindDrinkReminder:
		c.scheduler.AcknowledgeHydration(now)
	case KindTodoReminder:
		if settings, ok := c.scheduler.CompleteTodo(d.TodoID); ok {
			c.queuePersist(settings)
		}
	}
}

func (c *Coordinator) applySettings(s reminder.Settings, now time.Time) {
	c.scheduler.Reload(s, now)
	c.arb.PruneTodos(c.scheduler.TodoPending, now)
}

// CheckHydration runs the hydration timer step.
func (c *Coordinator) CheckHydration(now time.Time) {
	if c.scheduler.CheckHydration(now) && c.arb.Drink(now) {
		c.log.Info().Msg("hydration reminder")
	}
}

// CheckTodos runs the to-do timer step.
func (c *Coordinator) CheckTodos(now time.Time) {
	item, ok := c.scheduler.CheckTodo(now)
	if !ok {
		return
	}
	if c.arb.Todo(item.ID, item.Content, now) {
		c.log.Info().Str("todo", item.ID).Msg("todo reminder")
	}
}

// Frame advances the springs to now, publishes and returns the frame.
func (c *Coordinator) Frame(now time.Time) Frame {
	c.arb.Expire(now)

	var dt float64
	if !c.lastTick.IsZero() {
		dt = now.Sub(c.lastTick).Seconds()
	}
	c.lastTick = now

	st := c.arb.State()
	target := c.opts.Sizes.Resolve(st.Size)
	c.width.Target = target.Width
	c.height.Target = target.Height

	text, accent := describe(st.Mode)
	f := Frame{
		Revision:     st.Revision,
		Kind:         st.Mode.Kind(),
		Mode:         st.Mode,
		Text:         text,
		Accent:       accent,
		Category:     st.Size,
		Width:        c.width.Advance(dt),
		Height:       c.height.Advance(dt),
		TargetWidth:  target.Width,
		TargetHeight: target.Height,
		Active:       st.Mode.Kind() != KindStandby,
		At:           now,
	}
	if !st.ExpiresAt.IsZero() {
		exp := st.ExpiresAt
		f.ExpiresAt = &exp
	}
	if _, ok := st.Mode.(Media); ok {
		f.Bars = audio.Bars(c.meter.Level(), now)
	}

	c.latest.Store(&f)
	c.fanout(f)
	return f
}

func (c *Coordinator) fanout(f Frame) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// queuePersist hands s to the persister, replacing any unsaved value.
func (c *Coordinator) queuePersist(s reminder.Settings) {
	for {
		select {
		case c.persist <- s:
			return
		default:
		}
		select {
		case <-c.persist:
		default:
		}
	}
}

func (c *Coordinator) persistLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-c.persist:
			if err := c.store.Save(ctx, s); err != nil {
				c.log.Error().Err(err).Msg("failed to persist settings")
			}
		}
	}
}
