package handlers

import (
	"net/http"

	"classroom-assistant-go/timer"

	"github.com/gin-gonic/gin"
)

// TimerHandler drives the shared countdown and stopwatch.
type TimerHandler struct {
	Countdown *timer.Countdown
	Stopwatch *timer.Stopwatch
}

// NewTimerHandler creates a new TimerHandler
func NewTimerHandler(countdown *timer.Countdown, stopwatch *timer.Stopwatch) *TimerHandler {
	return &TimerHandler{Countdown: countdown, Stopwatch: stopwatch}
}

// GetTimers handles GET /api/timers
func (h *TimerHandler) GetTimers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"countdown": h.Countdown.State(), "stopwatch": h.Stopwatch.State()})
}

// SetCountdown handles POST /api/timers/countdown/set with {"minutes", "seconds"}.
func (h *TimerHandler) SetCountdown(c *gin.Context) {
	var req struct {
		Minutes int `json:"minutes"`
		Seconds int `json:"seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	st, err := h.Countdown.Set(req.Minutes, req.Seconds)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, st)
}

// StartCountdown handles POST /api/timers/countdown/start
func (h *TimerHandler) StartCountdown(c *gin.Context) {
	st, err := h.Countdown.Start()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, st)
}

// StopCountdown handles POST /api/timers/countdown/stop
func (h *TimerHandler) StopCountdown(c *gin.Context) {
	c.JSON(http.StatusOK, h.Countdown.Stop())
}

// StartStopwatch handles POST /api/timers/stopwatch/start
func (h *TimerHandler) StartStopwatch(c *gin.Context) {
	c.JSON(http.StatusOK, h.Stopwatch.Start())
}

// StopStopwatch handles POST /api/timers/stopwatch/stop
func (h *TimerHandler) StopStopwatch(c *gin.Context) {
	c.JSON(http.StatusOK, h.Stopwatch.Stop())
}

// ResetStopwatch handles POST /api/timers/stopwatch/reset
func (h *TimerHandler) ResetStopwatch(c *gin.Context) {
	c.JSON(http.StatusOK, h.Stopwatch.Reset())
}
