package rabbitmq

import (
	"context"
	"log/slog"
	"sync"
)

type HandlerFunc func(ctx context.Context, body []byte) error

// Consumer subscribes registered handlers on every session the manager
// establishes. Subscriptions do not survive a reconnect, so they are
// re-established from scratch each time; no cursor state is kept.
//
// Deliveries are consumed with autoAck: a message counts as consumed the
// moment it is received, even when its handler fails. Handler and decode
// errors are logged and swallowed, never crash the consume loop, and are
// not redelivered.
type Consumer struct {
	logger *slog.Logger

	mu       sync.Mutex
	handlers map[string]HandlerFunc
}

func NewConsumer(logger *slog.Logger) *Consumer {
	return &Consumer{
		logger:   logger,
		handlers: make(map[string]HandlerFunc),
	}
}

// Handle registers fn for the named queue. Must be called before Run.
func (c *Consumer) Handle(queue string, fn HandlerFunc) {
	c.mu.Lock()
	c.handlers[queue] = fn
	c.mu.Unlock()
}

// Run consumes every session the manager hands out until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, mgr *Manager) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case session := <-mgr.Ready():
			c.consumeSession(ctx, session)
		}
	}
}

func (c *Consumer) consumeSession(ctx context.Context, session *Session) {
	c.mu.Lock()
	handlers := make(map[string]HandlerFunc, len(c.handlers))
	for q, fn := range c.handlers {
		handlers[q] = fn
	}
	c.mu.Unlock()

	var wg sync.WaitGroup
	for queue, fn := range handlers {
		deliveries, err := session.Channel().Consume(queue, "", true, false, false, false, nil)
		if err != nil {
			c.logger.Error("subscribe failed", "queue", queue, "error", err)
			continue
		}

		wg.Add(1)
		go func(queue string, fn HandlerFunc) {
			defer wg.Done()
			for d := range deliveries {
				c.dispatch(ctx, queue, fn, d.Body)
			}
		}(queue, fn)
	}

	// The delivery channels close when the session dies; wait for either
	// that or shutdown before asking for the next session.
	select {
	case <-ctx.Done():
	case <-session.Closed():
	}
	wg.Wait()
}

func (c *Consumer) dispatch(ctx context.Context, queue string, fn HandlerFunc, body []byte) {
	defer func() {
		if p := recover(); p != nil {
			consumeFailures.WithLabelValues(queue).Inc()
			c.logger.Error("handler panicked", "queue", queue, "panic", p)
		}
	}()

	eventsConsumed.WithLabelValues(queue).Inc()
	if err := fn(ctx, body); err != nil {
		// Auto-ack means the message is already gone; the failure is
		// visible in logs and metrics only.
		consumeFailures.WithLabelValues(queue).Inc()
		c.logger.Error("handler failed, message dropped", "queue", queue, "error", err)
	}
}
