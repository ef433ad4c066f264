package api

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"dynamic-island/internal/audio"
	"dynamic-island/internal/island"
	"dynamic-island/internal/logger"
	"dynamic-island/internal/media"
	"dynamic-island/internal/notification"
	"dynamic-island/internal/reminder"
)

// Island is the coordinator surface the handlers need.
type Island interface {
	Latest() island.Frame
	Submit(ctx context.Context, sig island.Signal) error
	ReloadSettings(ctx context.Context) error
	Meter() *audio.Meter
}

// Dispatcher queues incoming toasts.
type Dispatcher interface {
	Dispatch(ctx context.Context, t notification.Toast) error
}

// Deps are the collaborators of the API.
type Deps struct {
	Island     Island
	Store      reminder.SettingsStore
	Remote     *media.Remote
	Controller *media.Controller
	Toasts     Dispatcher
	// Cache holds cached GET responses; settings writes flush it.
	Cache    *cache.Cache
	CacheTTL time.Duration
	LongPoll time.Duration
	Now      func() time.Time
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	Deps
	log zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	if d.Cache == nil {
		d.Cache = cache.New(5*time.Second, time.Minute)
	}
	if d.CacheTTL <= 0 {
		d.CacheTTL = 5 * time.Second
	}
	if d.LongPoll <= 0 {
		d.LongPoll = 25 * time.Second
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handler{Deps: d, log: logger.WithComponent("api")}
}
