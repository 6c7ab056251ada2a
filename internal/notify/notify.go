// Package notify is the panel's transient notification center. Entries
// auto-expire after a TTL; every push is mirrored to the log so failures
// stay visible after the toast is gone.
package notify

import (
	"log"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier is the sink the wizard, panel and stream report through.
type Notifier interface {
	Notify(level Level, title, message string)
}

const maxPending = 32

type Center struct {
	mu      sync.Mutex
	clock   clock.Clock
	ttl     time.Duration
	log     *log.Logger
	pending []Notification
}

func NewCenter(ttl time.Duration, logger *log.Logger) *Center {
	return newCenter(ttl, logger, clock.New())
}

func newCenter(ttl time.Duration, logger *log.Logger, clk clock.Clock) *Center {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Center{clock: clk, ttl: ttl, log: logger}
}

func (c *Center) Notify(level Level, title, message string) {
	now := c.clock.Now()
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Title:     title,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	c.prune(now)
	c.pending = append(c.pending, n)
	if len(c.pending) > maxPending {
		c.pending = c.pending[len(c.pending)-maxPending:]
	}
	c.mu.Unlock()

	if c.log != nil {
		c.log.Printf("[%s] %s: %s", level, title, message)
	}
}

// Active returns the not-yet-expired notifications, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune(c.clock.Now())
	out := make([]Notification, len(c.pending))
	copy(out, c.pending)
	return out
}

// prune drops expired entries; callers hold c.mu.
func (c *Center) prune(now time.Time) {
	kept := c.pending[:0]
	for _, n := range c.pending {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	c.pending = kept
}

// Discard is a Notifier that drops everything. Used by CLI one-shot
// commands whose errors already surface on stderr.
type Discard struct{}

func (Discard) Notify(Level, string, string) {}
