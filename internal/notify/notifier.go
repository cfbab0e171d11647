// Package notify keeps a small in-memory feed of admin-facing
// notifications. The catalog editor saves on every pause in typing, so
// publications are throttled to avoid flooding the feed during a burst
// of debounced persists.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const ringSize = 50

// Notification is one entry in the admin feed
type Notification struct {
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier publishes throttled notifications into a bounded ring
type Notifier struct {
	mu       sync.Mutex
	entries  []Notification
	lastPub  time.Time
	throttle time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Notifier that drops publications arriving within
// throttle of the previous accepted one.
func New(throttle time.Duration, logger *zap.Logger) *Notifier {
	return &Notifier{
		throttle: throttle,
		logger:   logger,
		now:      time.Now,
	}
}

// Publish records a notification unless one was accepted within the
// throttle window. Returns whether the entry was accepted.
func (n *Notifier) Publish(message, level string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	if !n.lastPub.IsZero() && now.Sub(n.lastPub) < n.throttle {
		n.logger.Debug("Notification throttled", zap.String("message", message))
		return false
	}

	n.lastPub = now
	n.entries = append(n.entries, Notification{
		Message:   message,
		Level:     level,
		CreatedAt: now,
	})
	if len(n.entries) > ringSize {
		n.entries = n.entries[len(n.entries)-ringSize:]
	}

	return true
}

// Recent returns the stored notifications, newest first
func (n *Notifier) Recent() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notification, len(n.entries))
	for i, entry := range n.entries {
		out[len(n.entries)-1-i] = entry
	}
	return out
}
