package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dynamic-island/internal/parse"
	"dynamic-island/internal/reminder"
)

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Load(c.Request.Context()))
}

// PutSettings handles PUT /api/settings. The body replaces the stored
// settings wholesale.
func (h *Handler) PutSettings(c *gin.Context) {
	var s reminder.Settings
	if err := c.ShouldBindJSON(&s); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := validateSettings(s); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s = s.Normalize()
	if !h.commit(c, s) {
		return
	}
	c.JSON(http.StatusOK, s)
}

// ReloadSettings handles POST /api/settings/reload.
func (h *Handler) ReloadSettings(c *gin.Context) {
	if err := h.Island.ReloadSettings(c.Request.Context()); err != nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "island is busy"})
		return
	}
	c.Status(http.StatusAccepted)
}

type todoRequest struct {
	Content      string     `json:"content" binding:"required"`
	ReminderTime *time.Time `json:"reminder_time"`
	// Date (YYYY-MM-DD, default today) and Time (a clock such as "930" or
	// "09:30") are used when ReminderTime is absent.
	Date string `json:"date"`
	Time string `json:"time"`
}

func (r todoRequest) reminderTime(now time.Time) (time.Time, error) {
	if r.ReminderTime != nil {
		return *r.ReminderTime, nil
	}
	clock, err := parse.ParseClock(r.Time)
	if err != nil {
		return time.Time{}, err
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if r.Date != "" {
		day, err = time.ParseInLocation("2006-01-02", r.Date, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q", r.Date)
		}
	}
	return day.Add(clock.Offset()), nil
}

// PostTodo handles POST /api/todos.
func (h *Handler) PostTodo(c *gin.Context) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	at, err := req.reminderTime(h.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo := reminder.Todo{ID: uuid.NewString(), ReminderTime: at, Content: strings.TrimSpace(req.Content)}
	s := h.Store.Load(c.Request.Context())
	s.Todos = append(s.Todos, todo)
	sort.SliceStable(s.Todos, func(i, j int) bool {
		return s.Todos[i].ReminderTime.Before(s.Todos[j].ReminderTime)
	})

	if !h.commit(c, s) {
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// DeleteTodo handles DELETE /api/todos/:id.
func (h *Handler) DeleteTodo(c *gin.Context) {
	id := c.Param("id")
	s := h.Store.Load(c.Request.Context())

	kept := s.Todos[:0]
	for _, t := range s.Todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.Todos) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		return
	}
	s.Todos = kept

	if !h.commit(c, s) {
		return
	}
	c.Status(http.StatusNoContent)
}

// PostCustomTime handles POST /api/custom_times with a body like
// {"time": "930"}. Adding an existing time is not an error.
func (h *Handler) PostCustomTime(c *gin.Context) {
	var req struct {
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "time is required"})
		return
	}
	clock, err := parse.ParseClock(req.Time)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid time, use HH:MM"})
		return
	}

	s := h.Store.Load(c.Request.Context())
	for _, existing := range s.CustomTimes {
		if existing == clock.String() {
			c.JSON(http.StatusOK, s.CustomTimes)
			return
		}
	}
	s.CustomTimes = append(s.CustomTimes, clock.String())
	sort.Strings(s.CustomTimes)

	if !h.commit(c, s) {
		return
	}
	c.JSON(http.StatusCreated, s.CustomTimes)
}

// DeleteCustomTime handles DELETE /api/custom_times/:clock.
func (h *Handler) DeleteCustomTime(c *gin.Context) {
	clock, err := parse.ParseClock(c.Param("clock"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid time, use HH:MM"})
		return
	}

	s := h.Store.Load(c.Request.Context())
	kept := make([]string, 0, len(s.CustomTimes))
	for _, t := range s.CustomTimes {
		if t != clock.String() {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.CustomTimes) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Custom time not found"})
		return
	}
	s.CustomTimes = kept

	if !h.commit(c, s) {
		return
	}
	c.Status(http.StatusNoContent)
}

// commit saves s and hands it to the coordinator. It writes an error
// response and returns false on failure.
func (h *Handler) commit(c *gin.Context, s reminder.Settings) bool {
	ctx := c.Request.Context()
	if err := h.Store.Save(ctx, s); err != nil {
		h.log.Error().Err(err).Msg("failed to save settings")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return false
	}
	if err := h.reload(ctx); err != nil {
		h.log.Warn().Err(err).Msg("settings saved but reload was not delivered")
	}
	return true
}

func (h *Handler) reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.Island.ReloadSettings(ctx)
}

func validateSettings(s reminder.Settings) error {
	switch s.DrinkMode {
	case reminder.DrinkModeInterval, reminder.DrinkModeCustom, "":
	default:
		return fmt.Errorf("drink_mode must be %q or %q", reminder.DrinkModeInterval, reminder.DrinkModeCustom)
	}
	if s.IntervalMinutes < 1 {
		return errors.New("interval_minutes must be at least 1")
	}
	for _, v := range []string{s.ActiveStart, s.ActiveEnd} {
		if _, err := parse.ParseClock(v); err != nil {
			return fmt.Errorf("invalid active hours: %w", err)
		}
	}
	for _, v := range s.CustomTimes {
		if _, err := parse.ParseClock(v); err != nil {
			return fmt.Errorf("invalid custom time: %w", err)
		}
	}
	for _, t := range s.Todos {
		if strings.TrimSpace(t.Content) == "" {
			return errors.New("todo content is required")
		}
	}
	return nil
}
