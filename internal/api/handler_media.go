package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dynamic-island/internal/island"
	"dynamic-island/internal/media"
)

// PostMediaCommand handles POST /api/media/:command. Failures are not
// reported to the caller; the controller re-queries the session instead.
func (h *Handler) PostMediaCommand(c *gin.Context) {
	cmd, ok := media.ParseCommand(c.Param("command"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown media command"})
		return
	}
	h.Controller.Do(c.Request.Context(), cmd)
	c.Status(http.StatusAccepted)
}

// GetMediaCommand handles GET /api/media/commands, the helper's long-poll
// for queued transport commands.
func (h *Handler) GetMediaCommand(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.LongPoll)
	defer cancel()

	cmd, ok := h.Remote.NextCommand(ctx)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"command": cmd})
}

type mediaSessionRequest struct {
	Session *media.Session `json:"session"`
	Error   string         `json:"error"`
}

// PostMediaSession handles POST /api/events/media. A null session or an
// error both mean there is nothing to show.
func (h *Handler) PostMediaSession(c *gin.Context) {
	var req mediaSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	snap := media.Snapshot{Session: req.Session}
	if req.Error != "" {
		snap = media.Snapshot{Err: errors.New(req.Error)}
	}
	h.Remote.Update(snap.Session)
	h.submit(c, island.MediaSignal{Snapshot: snap})
}

// PostMediaProperties handles POST /api/events/media/properties.
func (h *Handler) PostMediaProperties(c *gin.Context) {
	var req struct {
		Title      string `json:"title"`
		HasArtwork bool   `json:"has_artwork"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if s, _ := h.Remote.CurrentSession(c.Request.Context()); s != nil {
		s.Title = req.Title
		s.HasArtwork = req.HasArtwork
		h.Remote.Update(s)
	}
	h.submit(c, island.MediaPropertiesSignal{Title: req.Title, HasArtwork: req.HasArtwork})
}

// PostMediaPlayback handles POST /api/events/media/playback.
func (h *Handler) PostMediaPlayback(c *gin.Context) {
	var req struct {
		Playing *bool `json:"playing" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "playing is required"})
		return
	}

	if s, _ := h.Remote.CurrentSession(c.Request.Context()); s != nil {
		s.Playing = *req.Playing
		h.Remote.Update(s)
	}
	h.submit(c, island.PlaybackSignal{Playing: *req.Playing})
}

// submit delivers sig and answers 202, or 503 when the request ends first.
func (h *Handler) submit(c *gin.Context, sig island.Signal) {
	if err := h.Island.Submit(c.Request.Context(), sig); err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "island is busy"})
		return
	}
	c.Status(http.StatusAccepted)
}
