package layout

import (
	"errors"
	"sync"
	"sync/atomic"

	evdev "github.com/holoplot/go-evdev"

	"kblayout/scancodes"
)

type fakeSource struct {
	name     string
	data     any
	closeErr error
	closed   *atomic.Int32
}

func (s *fakeSource) Name() string    { return s.name }
func (s *fakeSource) LayoutData() any { return s.data }
func (s *fakeSource) Close() error {
	s.closed.Add(1)
	return s.closeErr
}

type fakeProvider struct {
	mu       sync.Mutex
	name     string
	err      error
	closeErr error
	opened   atomic.Int32
	closed   atomic.Int32
}

func (p *fakeProvider) Current() (InputSource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.opened.Add(1)
	return &fakeSource{name: p.name, data: p.name, closeErr: p.closeErr, closed: &p.closed}, nil
}

func (p *fakeProvider) fail(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

type stroke struct {
	code uint32
	mods Modifier
}

// mapTranslator produces the characters in its map and nothing else.
type mapTranslator struct {
	chars map[stroke]rune
	calls atomic.Int32
}

func (t *mapTranslator) Translate(_ any, code uint32, mods Modifier) (rune, bool) {
	t.calls.Add(1)
	r, ok := t.chars[stroke{code, mods}]
	return r, ok
}

// usTranslator covers KeyA, KeyB and Space.
func usTranslator() *mapTranslator {
	return &mapTranslator{chars: map[stroke]rune{
		{uint32(evdev.KEY_A), ModNone}:      'a',
		{uint32(evdev.KEY_A), ModShift}:     'A',
		{uint32(evdev.KEY_A), ModMeta}:      'a',
		{uint32(evdev.KEY_B), ModNone}:      'b',
		{uint32(evdev.KEY_B), ModShift}:     'B',
		{uint32(evdev.KEY_B), ModAlt}:       '∫',
		{uint32(evdev.KEY_B), ModMeta}:      'b',
		{uint32(evdev.KEY_SPACE), ModNone}:  ' ',
		{uint32(evdev.KEY_SPACE), ModShift}: ' ',
	}}
}

func testTable() scancodes.Table {
	table, err := scancodes.Default().Select("Enter", "KeyA", "KeyB", "Space")
	if err != nil {
		panic(err)
	}
	return table
}

// fakeBus keeps every handler it was given, so deliveries can be replayed
// after unsubscription the way a late OS callback would arrive.
type fakeBus struct {
	mu           sync.Mutex
	next         uint64
	handlers     map[uint64]func()
	all          []func()
	subscribed   []string
	unsubscribed []uint64
	err          error
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[uint64]func())}
}

func (b *fakeBus) Subscribe(event string, handler func()) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return 0, b.err
	}
	b.next++
	b.handlers[b.next] = handler
	b.all = append(b.all, handler)
	b.subscribed = append(b.subscribed, event)
	return b.next, nil
}

func (b *fakeBus) Unsubscribe(token uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.handlers[token]; !ok {
		return errors.New("unknown token")
	}
	delete(b.handlers, token)
	b.unsubscribed = append(b.unsubscribed, token)
	return nil
}

// fire delivers to live subscriptions.
func (b *fakeBus) fire() {
	b.mu.Lock()
	handlers := make([]func(), 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

// fireStale delivers to every handler ever registered.
func (b *fakeBus) fireStale() {
	b.mu.Lock()
	handlers := append([]func(){}, b.all...)
	b.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

func (b *fakeBus) unsubscribeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.unsubscribed)
}

type countingDelegate struct {
	calls atomic.Int32
}

func (d *countingDelegate) KeyboardMapDidChange() {
	d.calls.Add(1)
}
