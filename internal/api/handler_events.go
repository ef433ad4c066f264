package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dynamic-island/internal/audio"
	"dynamic-island/internal/device"
	"dynamic-island/internal/island"
	"dynamic-island/internal/notification"
)

// PostNotification handles POST /api/events/notification.
func (h *Handler) PostNotification(c *gin.Context) {
	var t notification.Toast
	if err := c.ShouldBindJSON(&t); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if t.App == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "app_name is required"})
		return
	}
	if err := h.Toasts.Dispatch(c.Request.Context(), t); err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "notification queue is full"})
		return
	}
	c.Status(http.StatusAccepted)
}

type deviceRequest struct {
	Class     device.Class `json:"class"`
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Connected bool         `json:"connected"`
	Removed   bool         `json:"removed"`
	Initial   bool         `json:"initial"`
}

// PostDevice handles POST /api/events/device.
func (h *Handler) PostDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !req.Class.Valid() || req.ID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "class and id are required"})
		return
	}

	ev := device.RawEvent{
		Kind:      device.KindUpdate,
		Class:     req.Class,
		ID:        req.ID,
		Name:      req.Name,
		Connected: req.Connected,
		Initial:   req.Initial,
	}
	if req.Removed {
		ev.Kind = device.KindRemoved
	}
	h.submit(c, island.DeviceSignal{Event: ev})
}

// PostDeviceEnumerated handles POST /api/events/device/enumerated.
func (h *Handler) PostDeviceEnumerated(c *gin.Context) {
	var req struct {
		Class device.Class `json:"class"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Class.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "class is required"})
		return
	}
	h.submit(c, island.DeviceSignal{Event: device.RawEvent{Kind: device.KindEnumerated, Class: req.Class}})
}

// PostAudio handles POST /api/events/audio. The body carries either a
// level in [0,1] or a base64 block of 16-bit little-endian PCM.
func (h *Handler) PostAudio(c *gin.Context) {
	var req struct {
		Level  *float64 `json:"level"`
		PCM    []byte   `json:"pcm"`
		Stride int      `json:"stride"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	switch {
	case len(req.PCM) > 0:
		h.Island.Meter().Set(audio.PeakLevel(req.PCM, req.Stride))
	case req.Level != nil:
		h.Island.Meter().Set(*req.Level)
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "level or pcm is required"})
		return
	}
	c.Status(http.StatusNoContent)
}

// PostFiles handles POST /api/events/files/:action. A drag-out answers
// with the staged paths.
func (h *Handler) PostFiles(c *gin.Context) {
	action, ok := island.ParseFileAction(c.Param("action"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown file action"})
		return
	}

	var req struct {
		Paths []string `json:"paths"`
	}
	if action == island.FileDrop {
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Paths) == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "paths are required"})
			return
		}
	}

	if action != island.FileOut {
		h.submit(c, island.FileSignal{Action: action, Paths: req.Paths})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	reply := make(chan []string, 1)
	if err := h.Island.Submit(ctx, island.FileSignal{Action: island.FileOut, Reply: reply}); err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "island is busy"})
		return
	}
	select {
	case paths := <-reply:
		if paths == nil {
			paths = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"paths": paths})
	case <-ctx.Done():
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "island did not answer"})
	}
}
