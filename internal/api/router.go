package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"dynamic-island/config"
	"dynamic-island/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(h.log))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)
	caching := mw.Cache(h.Cache, h.CacheTTL)

	flush := mw.FlushOnWrite(h.Cache)

	api := r.Group("/api")
	{
		api.GET("/state", h.GetState)
		api.POST("/island/dismiss", h.Dismiss)

		// Only the settings editor is rate limited; adapter events are not.
		editor := api.Group("", rateLimiter)
		editor.GET("/settings", caching, h.GetSettings)
		editor.PUT("/settings", flush, h.PutSettings)
		editor.POST("/settings/reload", flush, h.ReloadSettings)
		editor.POST("/todos", flush, h.PostTodo)
		editor.DELETE("/todos/:id", flush, h.DeleteTodo)
		editor.POST("/custom_times", flush, h.PostCustomTime)
		editor.DELETE("/custom_times/:clock", flush, h.DeleteCustomTime)

		api.POST("/media/:command", h.PostMediaCommand)
		api.GET("/media/commands", h.GetMediaCommand)

		events := api.Group("/events")
		events.POST("/media", h.PostMediaSession)
		events.POST("/media/properties", h.PostMediaProperties)
		events.POST("/media/playback", h.PostMediaPlayback)
		events.POST("/notification", h.PostNotification)
		events.POST("/device", h.PostDevice)
		events.POST("/device/enumerated", h.PostDeviceEnumerated)
		events.POST("/audio", h.PostAudio)
		events.POST("/files/:action", h.PostFiles)
	}

	return r
}
