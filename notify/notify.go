// Package notify delivers engine notices and timer updates to the user: over
// websocket to connected UIs and to the log.
package notify

import (
	"time"

	"github.com/labstack/gommon/log"
)

// Event types pushed to clients.
const (
	TypeNotice    = "notice"
	TypeCountdown = "countdown"
	TypeStopwatch = "stopwatch"
)

// Event is one message to the UI.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Message    string      `json:"message,omitempty"`
	DurationMS int64       `json:"duration_ms,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Time       time.Time   `json:"time"`
}

// Notifier matches the engine's notifier capability.
type Notifier interface {
	Notify(message string, duration time.Duration)
}

// Log writes notices to the leveled logger.
type Log struct{}

func (Log) Notify(message string, duration time.Duration) {
	log.Infof("notice (%s): %s", duration, message)
}

// Multi fans a notice out to every notifier.
type Multi []Notifier

func (m Multi) Notify(message string, duration time.Duration) {
	for _, n := range m {
		n.Notify(message, duration)
	}
}
