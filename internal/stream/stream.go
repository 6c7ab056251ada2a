// Package stream consumes the bot service's push channel: one WebSocket
// connection per dashboard lifetime, one JSON TickSample per message,
// processed strictly in arrival order.
package stream

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"lppanel/internal/models"
)

// Sink receives decoded samples; the panel implements it.
type Sink interface {
	HandleTick(models.TickSample)
}

type Consumer struct {
	url    string
	sink   Sink
	log    *log.Logger
	dialer *websocket.Dialer

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewConsumer builds a consumer for {wsBase}/ws/graph.
func NewConsumer(wsBaseURL string, sink Sink, logger *log.Logger) *Consumer {
	return &Consumer{
		url:  wsBaseURL + "/ws/graph",
		sink: sink,
		log:  logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		initialBackoff: time.Second,
		maxBackoff:     30 * time.Second,
	}
}

// Run owns the connection for the lifetime of ctx. Lost connections are
// re-dialed with capped exponential backoff, reset after each successful
// connect; cancelling ctx tears the stream down and returns nil.
func (c *Consumer) Run(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialBackoff
	policy.MaxInterval = c.maxBackoff
	policy.MaxElapsedTime = 0 // retry until ctx is cancelled

	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait := policy.NextBackOff()
			c.log.Printf("push channel dial failed, retrying in %s: %v", wait, err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
				continue
			}
		}

		c.log.Printf("push channel connected: %s", c.url)
		policy.Reset()
		c.readLoop(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
	}
}

// readLoop drains one connection until it errors or ctx is cancelled.
func (c *Consumer) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.log.Printf("push channel read error: %v", err)
			}
			return
		}

		var sample models.TickSample
		if err := json.Unmarshal(raw, &sample); err != nil {
			c.log.Printf("push channel: dropping malformed message: %v", err)
			continue
		}
		c.sink.HandleTick(sample)
	}
}
