package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNotReady is returned by Publish while no broker channel is open.
// Callers must surface it as a failure of the triggering request; events
// are never buffered locally.
var ErrNotReady = errors.New("broker connection not ready")

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateChannelOpening
	StateReady
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateChannelOpening:
		return "channel_opening"
	case StateReady:
		return "ready"
	default:
		return "disconnected"
	}
}

// Session is one established connection + channel. It is handed out only
// once the channel is usable and becomes invalid when Closed fires.
type Session struct {
	conn Connection
	ch   Channel
	done chan struct{}
	err  *amqp.Error
}

func newSession(conn Connection, ch Channel) *Session {
	s := &Session{conn: conn, ch: ch, done: make(chan struct{})}
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	// Fan the one-shot close notification out to every waiter.
	go func() {
		s.err = <-closed
		close(s.done)
	}()
	return s
}

func (s *Session) Channel() Channel {
	return s.ch
}

// Closed is closed when the underlying connection is lost.
func (s *Session) Closed() <-chan struct{} {
	return s.done
}

// Err reports why the session ended. Valid after Closed fires; nil on a
// deliberate local Close.
func (s *Session) Err() *amqp.Error {
	return s.err
}

func (s *Session) Close() error {
	_ = s.ch.Close()
	return s.conn.Close()
}

type Config struct {
	URL        string
	RetryDelay time.Duration
	// Queues are declared non-durable on every channel open. Queued
	// messages do not survive a broker restart.
	Queues []string
	// Dial defaults to the amqp091 dialer.
	Dial DialFunc
}

// Manager owns the lifecycle of a single logical broker connection and
// channel. It retries forever with a fixed delay on connect failure and on
// asynchronous close, and never hands out a partially-initialized channel.
type Manager struct {
	url        string
	retryDelay time.Duration
	queues     []string
	dial       DialFunc
	logger     *slog.Logger

	mu      sync.Mutex
	state   State
	session *Session

	ready      chan *Session
	firstReady chan struct{}
	readyOnce  sync.Once
}

func NewManager(cfg Config, logger *slog.Logger) *Manager {
	dial := cfg.Dial
	if dial == nil {
		dial = Dial
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &Manager{
		url:        cfg.URL,
		retryDelay: retryDelay,
		queues:     cfg.Queues,
		dial:       dial,
		logger:     logger,
		ready:      make(chan *Session, 1),
		firstReady: make(chan struct{}),
	}
}

// Run drives the connect/reconnect loop until ctx is cancelled. It blocks
// and is normally started as a goroutine from main.
func (m *Manager) Run(ctx context.Context) error {
	for {
		session, err := m.open()
		if err != nil {
			m.logger.Error("broker connect failed", "error", err, "retry_in", m.retryDelay)
			if !m.sleep(ctx) {
				return ctx.Err()
			}
			continue
		}

		m.mu.Lock()
		m.state = StateReady
		m.session = session
		m.mu.Unlock()
		connectionReady.Set(1)
		m.readyOnce.Do(func() { close(m.firstReady) })
		m.offer(session)
		m.logger.Info("broker channel ready", "queues", m.queues)

		select {
		case <-ctx.Done():
			_ = session.Close()
			m.drop()
			return ctx.Err()
		case <-session.Closed():
			m.logger.Error("broker connection closed", "error", session.Err(), "retry_in", m.retryDelay)
			m.drop()
			reconnects.Inc()
		}

		if !m.sleep(ctx) {
			return ctx.Err()
		}
	}
}

// open walks connecting -> connected -> channel opening -> ready; any
// failure tears down what was built and reports the error to the caller,
// which schedules the retry.
func (m *Manager) open() (*Session, error) {
	m.setState(StateConnecting)

	conn, err := m.dial(m.url)
	if err != nil {
		m.setState(StateDisconnected)
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	m.setState(StateConnected)

	m.setState(StateChannelOpening)
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		m.setState(StateDisconnected)
		return nil, fmt.Errorf("open channel: %w", err)
	}

	for _, q := range m.queues {
		if _, err := ch.QueueDeclare(q, false, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			m.setState(StateDisconnected)
			return nil, fmt.Errorf("declare queue %s: %w", q, err)
		}
	}

	return newSession(conn, ch), nil
}

// Ready delivers each newly-established session. Capacity is one and a
// stale undelivered session is replaced, so a slow receiver always gets
// the latest session.
func (m *Manager) Ready() <-chan *Session {
	return m.ready
}

// WaitReady blocks until the first session is established. Dependent
// components (HTTP routes that publish, consumers) are started only after
// this returns.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.firstReady:
		return nil
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Publish enqueues one message on the named queue. Fire-and-forget: no
// publisher confirms are awaited, so a failure after the broker accepts
// the write is not observable here.
func (m *Manager) Publish(ctx context.Context, queue string, body []byte) error {
	m.mu.Lock()
	session := m.session
	m.mu.Unlock()

	if session == nil {
		publishErrors.WithLabelValues(queue).Inc()
		return ErrNotReady
	}

	err := session.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		Body: body,
	})
	if err != nil {
		publishErrors.WithLabelValues(queue).Inc()
		return fmt.Errorf("publish to %s: %w", queue, err)
	}

	eventsPublished.WithLabelValues(queue).Inc()
	return nil
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) drop() {
	m.mu.Lock()
	m.session = nil
	m.state = StateDisconnected
	m.mu.Unlock()
	connectionReady.Set(0)
}

func (m *Manager) offer(s *Session) {
	for {
		select {
		case m.ready <- s:
			return
		default:
			select {
			case <-m.ready:
			default:
			}
		}
	}
}

func (m *Manager) sleep(ctx context.Context) bool {
	t := time.NewTimer(m.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
