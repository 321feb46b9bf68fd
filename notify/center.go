// Package notify is a small process-local notification center, fed by file
// watches and D-Bus signals that report keyboard layout changes.
package notify

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownToken = errors.New("unknown subscription token")
	ErrClosed       = errors.New("notification center closed")
)

// DefaultWindow is how long posts of one event are collected before a
// single delivery.
const DefaultWindow = 50 * time.Millisecond

type subscriber struct {
	event   string
	handler func()
}

// Center delivers posted events to subscribers on its own goroutines.
// Posts of the same event that arrive within the window collapse into one
// delivery, which always happens after the last of them.
type Center struct {
	mu      sync.Mutex
	next    uint64
	subs    map[uint64]subscriber
	pending map[string]*time.Timer
	closed  bool

	window time.Duration
	log    zerolog.Logger
}

type Option func(*Center)

// WithWindow sets the coalescing window. Zero delivers every post.
func WithWindow(d time.Duration) Option {
	return func(c *Center) { c.window = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Center) { c.log = l }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		subs:    make(map[uint64]subscriber),
		pending: make(map[string]*time.Timer),
		window:  DefaultWindow,
		log:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers handler for event. Tokens start at 1.
func (c *Center) Subscribe(event string, handler func()) (uint64, error) {
	if handler == nil {
		return 0, errors.New("nil handler")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClosed
	}
	c.next++
	c.subs[c.next] = subscriber{event: event, handler: handler}
	return c.next, nil
}

func (c *Center) Unsubscribe(token uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.subs[token]; !ok {
		return ErrUnknownToken
	}
	delete(c.subs, token)
	return nil
}

// Post schedules delivery of event. It never blocks on handlers.
func (c *Center) Post(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.window <= 0 {
		go c.deliver(event)
		return
	}
	if _, ok := c.pending[event]; ok {
		return
	}
	c.pending[event] = time.AfterFunc(c.window, func() { c.deliver(event) })
}

func (c *Center) deliver(event string) {
	c.mu.Lock()
	delete(c.pending, event)
	if c.closed {
		c.mu.Unlock()
		return
	}
	tokens := make([]uint64, 0, len(c.subs))
	for token, sub := range c.subs {
		if sub.event == event {
			tokens = append(tokens, token)
		}
	}
	slices.Sort(tokens)
	handlers := make([]func(), 0, len(tokens))
	for _, token := range tokens {
		handlers = append(handlers, c.subs[token].handler)
	}
	c.mu.Unlock()

	c.log.Trace().Str("event", event).Int("handlers", len(handlers)).Msg("delivering")
	for _, h := range handlers {
		c.call(event, h)
	}
}

func (c *Center) call(event string, h func()) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Str("event", event).Interface("panic", r).Msg("notification handler panicked")
		}
	}()
	h()
}

// Close drops pending deliveries and refuses new subscriptions. Handlers
// already running are not waited for.
func (c *Center) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for event, t := range c.pending {
		t.Stop()
		delete(c.pending, event)
	}
	return nil
}
