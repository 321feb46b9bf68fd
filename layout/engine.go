package layout

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InputSourceChanged is the event the engine subscribes to by default.
const InputSourceChanged = "kblayout.InputSourceChanged"

// Bus delivers named notifications to handlers on goroutines it controls.
// Tokens are never zero.
type Bus interface {
	Subscribe(event string, handler func()) (uint64, error)
	Unsubscribe(token uint64) error
}

// Delegate is told when the keyboard map changed. It receives no payload;
// the new layout is read with CurrentLayout.
type Delegate interface {
	KeyboardMapDidChange()
}

// DelegateFunc adapts a function to Delegate.
type DelegateFunc func()

func (f DelegateFunc) KeyboardMapDidChange() { f() }

// Engine serves the current layout from a cache that is dropped whenever the
// bus reports an input source change.
type Engine struct {
	resolver *Resolver
	cache    Cache
	log      zerolog.Logger
	event    string

	closed  atomic.Bool
	sub     *subscription
	out     *dispatcher
	cleanup runtime.Cleanup
}

type Option func(*Engine)

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithEvent subscribes to a different event name.
func WithEvent(name string) Option {
	return func(e *Engine) { e.event = name }
}

// New creates an engine and registers it on bus. The bus only holds a weak
// reference: an engine that is dropped without Close is deregistered once it
// is garbage collected. bus and delegate may be nil.
func New(resolver *Resolver, bus Bus, delegate Delegate, opts ...Option) (*Engine, error) {
	if resolver == nil {
		return nil, errors.New("layout: nil resolver")
	}
	e := &Engine{
		resolver: resolver,
		log:      log.Logger,
		event:    InputSourceChanged,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.out = newDispatcher(delegate)

	if bus != nil {
		sub, err := subscribe(bus, e.event, weak.Make(e))
		if err != nil {
			e.out.stop()
			return nil, fmt.Errorf("subscribe %s: %w", e.event, err)
		}
		e.sub = sub
	}
	e.cleanup = runtime.AddCleanup(e, release, lifecycle{sub: e.sub, out: e.out})

	e.log.Debug().Str("event", e.event).Bool("subscribed", e.sub != nil).Msg("layout engine started")
	return e, nil
}

// CurrentLayout returns the cached snapshot, resolving a new one on a miss.
func (e *Engine) CurrentLayout() (*Snapshot, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	return e.cache.GetOrBuild(e.resolve)
}

func (e *Engine) resolve() (*Snapshot, error) {
	snap, err := e.resolver.Resolve()
	if err != nil {
		e.log.Warn().Err(err).Msg("layout resolution failed")
		return nil, err
	}
	e.log.Debug().Str("source", snap.Source).Int("keys", snap.Len()).Msg("layout resolved")
	return snap, nil
}

// Invalidate drops the cached snapshot without notifying the delegate.
func (e *Engine) Invalidate() {
	e.cache.Invalidate()
}

// Close deregisters from the bus and stops delegate delivery. Notifications
// that still arrive afterwards are ignored. Close is idempotent.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return nil
	}
	e.cleanup.Stop()
	e.out.stop()
	e.cache.Invalidate()
	if e.sub == nil {
		return nil
	}
	if err := e.sub.cancel(); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", e.event, err)
	}
	e.log.Debug().Str("event", e.event).Msg("layout engine closed")
	return nil
}

func (e *Engine) layoutChanged() {
	if e.closed.Load() {
		return
	}
	e.cache.Invalidate()
	e.log.Debug().Str("event", e.event).Msg("input source changed")
	e.out.post()
}

// lifecycle is what must be torn down with an engine. It must not point
// back at the engine, or the engine would never be collected.
type lifecycle struct {
	sub *subscription
	out *dispatcher
}

func release(l lifecycle) {
	l.out.stop()
	if l.sub != nil {
		if err := l.sub.cancel(); err != nil {
			log.Warn().Err(err).Msg("deregistering collected layout engine")
		}
	}
}

// subscription is the engine's registration on a bus. The token is cleared
// to zero when consumed so deregistration happens at most once.
type subscription struct {
	bus   Bus
	mu    sync.Mutex
	token uint64
}

func subscribe(bus Bus, event string, owner weak.Pointer[Engine]) (*subscription, error) {
	token, err := bus.Subscribe(event, func() {
		if e := owner.Value(); e != nil {
			e.layoutChanged()
		}
	})
	if err != nil {
		return nil, err
	}
	if token == 0 {
		return nil, errors.New("bus returned an empty token")
	}
	return &subscription{bus: bus, token: token}, nil
}

func (s *subscription) cancel() error {
	s.mu.Lock()
	token := s.token
	s.token = 0
	s.mu.Unlock()

	if token == 0 {
		return nil
	}
	return s.bus.Unsubscribe(token)
}

// dispatcher runs delegate calls on a single goroutine, so the delegate is
// never entered concurrently however the bus delivers. A change posted while
// one is pending is merged into it.
type dispatcher struct {
	delegate Delegate
	pending  chan struct{}
	done     chan struct{}
	stopped  atomic.Bool
	once     sync.Once
}

func newDispatcher(delegate Delegate) *dispatcher {
	d := &dispatcher{
		delegate: delegate,
		pending:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	if delegate != nil {
		go d.run()
	}
	return d
}

func (d *dispatcher) post() {
	if d.delegate == nil {
		return
	}
	select {
	case d.pending <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	for {
		select {
		case <-d.done:
			return
		case <-d.pending:
			if d.stopped.Load() {
				return
			}
			d.delegate.KeyboardMapDidChange()
		}
	}
}

func (d *dispatcher) stop() {
	d.once.Do(func() {
		d.stopped.Store(true)
		close(d.done)
	})
}
