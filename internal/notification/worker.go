package notification

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"dynamic-island/internal/logger"
)

// DefaultAllowList matches the chat apps whose toasts reach the island.
var DefaultAllowList = []string{"WeChat", "微信", "QQ"}

// DefaultDedupeWindow suppresses repeats of the same toast. The OS listener
// re-fires change events for toasts it already reported.
const DefaultDedupeWindow = 10 * time.Second

// Toast is a system notification as reported by the listener.
type Toast struct {
	App   string `json:"app_name"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Label is the text shown on the island for t. A missing title falls back
// to the app name and a missing body to "New Message".
func (t Toast) Label() string {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = t.App
	}
	body := strings.TrimSpace(t.Body)
	if body == "" {
		body = "New Message"
	}
	return title + ": " + body
}

// Publisher receives labels for toasts that passed the filter.
type Publisher interface {
	PublishMessage(ctx context.Context, label string) error
}

// Filter is a case-insensitive app-name allow-list.
type Filter struct {
	allow []string
}

// NewFilter builds a filter; an empty list falls back to DefaultAllowList.
func NewFilter(allow []string) Filter {
	if len(allow) == 0 {
		allow = DefaultAllowList
	}
	f := Filter{}
	for _, a := range allow {
		if a = strings.TrimSpace(a); a != "" {
			f.allow = append(f.allow, strings.ToLower(a))
		}
	}
	return f
}

// Allowed reports whether app contains an allow-listed substring.
func (f Filter) Allowed(app string) bool {
	app = strings.ToLower(app)
	for _, a := range f.allow {
		if strings.Contains(app, a) {
			return true
		}
	}
	return false
}

// WorkerPool filters incoming toasts and forwards them to the publisher.
type WorkerPool struct {
	size      int
	jobs      chan Toast
	filter    Filter
	seen      *cache.Cache
	publisher Publisher
	log       zerolog.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, filter Filter, dedupe time.Duration, publisher Publisher) *WorkerPool {
	if size < 1 {
		size = 1
	}
	if dedupe <= 0 {
		dedupe = DefaultDedupeWindow
	}
	return &WorkerPool{
		size:      size,
		jobs:      make(chan Toast, size*8),
		filter:    filter,
		seen:      cache.New(dedupe, 2*dedupe),
		publisher: publisher,
		log:       logger.WithComponent("notifications"),
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug().Int("worker", id).Msg("worker started")
	for {
		select {
		case t := <-wp.jobs:
			wp.process(ctx, t)
		case <-ctx.Done():
			wp.log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
	}
}

// Dispatch queues a toast. It blocks while the queue is full.
func (wp *WorkerPool) Dispatch(ctx context.Context, t Toast) error {
	select {
	case wp.jobs <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Toast {
	return wp.jobs
}

func (wp *WorkerPool) process(ctx context.Context, t Toast) {
	if !wp.filter.Allowed(t.App) {
		wp.log.Debug().Str("app", t.App).Msg("toast from app not on allow-list")
		return
	}
	key := t.App + "\x00" + t.Title + "\x00" + t.Body
	if err := wp.seen.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
		wp.log.Debug().Str("app", t.App).Msg("duplicate toast suppressed")
		return
	}
	if err := wp.publisher.PublishMessage(ctx, t.Label()); err != nil {
		wp.log.Warn().Err(err).Str("app", t.App).Msg("could not publish message")
	}
}
