package layout

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kblayout/scancodes"
)

func newTestEngine(t *testing.T, bus Bus, delegate Delegate) (*Engine, *fakeProvider, *mapTranslator) {
	t.Helper()
	p := &fakeProvider{name: "us"}
	tr := usTranslator()
	e, err := New(&Resolver{Table: testTable(), Sources: p, Translator: tr}, bus, delegate,
		WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return e, p, tr
}

func TestEngineSubscribesOnce(t *testing.T) {
	bus := newFakeBus()
	e, _, _ := newTestEngine(t, bus, nil)
	defer e.Close()

	assert.Equal(t, []string{InputSourceChanged}, bus.subscribed)
}

func TestEngineCustomEvent(t *testing.T) {
	bus := newFakeBus()
	e, err := New(&Resolver{Table: testTable(), Sources: &fakeProvider{name: "us"}, Translator: usTranslator()},
		bus, nil, WithEvent("test.Changed"), WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, []string{"test.Changed"}, bus.subscribed)
}

func TestEngineCurrentLayoutSingleKey(t *testing.T) {
	p := &fakeProvider{name: "us"}
	e, err := New(&Resolver{
		Table:   scancodes.Table{{Physical: "KeyA", Code: 0}},
		Sources: p,
		Translator: &mapTranslator{chars: map[stroke]rune{
			{0, ModNone}:  'a',
			{0, ModShift}: 'A',
		}},
	}, newFakeBus(), nil, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	defer e.Close()

	snap, err := e.CurrentLayout()
	require.NoError(t, err)

	want := &Snapshot{
		Source: "us",
		Keys: []Key{{
			Platform:     0,
			Physical:     "KeyA",
			Logical:      ch('a'),
			LogicalShift: ch('A'),
		}},
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int32(1), p.opened.Load())
	assert.Equal(t, int32(1), p.closed.Load())
}

func TestEngineCachesLayout(t *testing.T) {
	e, _, tr := newTestEngine(t, newFakeBus(), nil)
	defer e.Close()

	first, err := e.CurrentLayout()
	require.NoError(t, err)
	calls := tr.calls.Load()
	require.NotZero(t, calls)

	second, err := e.CurrentLayout()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, calls, tr.calls.Load())
}

func TestEngineNotificationInvalidatesAndNotifies(t *testing.T) {
	bus := newFakeBus()
	delegate := &countingDelegate{}
	e, _, tr := newTestEngine(t, bus, delegate)
	defer e.Close()

	_, err := e.CurrentLayout()
	require.NoError(t, err)
	calls := tr.calls.Load()

	bus.fire()
	assert.Nil(t, e.cache.Cached())
	require.Eventually(t, func() bool { return delegate.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, err = e.CurrentLayout()
	require.NoError(t, err)
	assert.Greater(t, tr.calls.Load(), calls)
}

func TestEngineRepeatedNotifications(t *testing.T) {
	bus := newFakeBus()
	delegate := &countingDelegate{}
	e, _, _ := newTestEngine(t, bus, delegate)
	defer e.Close()

	_, err := e.CurrentLayout()
	require.NoError(t, err)

	bus.fire()
	bus.fire()
	assert.Nil(t, e.cache.Cached())
	require.Eventually(t, func() bool { return delegate.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	assert.LessOrEqual(t, delegate.calls.Load(), int32(2))

	snap, err := e.CurrentLayout()
	require.NoError(t, err)
	a, ok := snap.Key("KeyA")
	require.True(t, ok)
	assert.Equal(t, ch('a'), a.Logical)
}

func TestEngineInvalidateDoesNotNotify(t *testing.T) {
	delegate := &countingDelegate{}
	e, _, tr := newTestEngine(t, newFakeBus(), delegate)
	defer e.Close()

	_, err := e.CurrentLayout()
	require.NoError(t, err)
	calls := tr.calls.Load()

	e.Invalidate()
	_, err = e.CurrentLayout()
	require.NoError(t, err)
	assert.Greater(t, tr.calls.Load(), calls)
	assert.Never(t, func() bool { return delegate.calls.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestEngineUnavailableSourceIsNotCached(t *testing.T) {
	e, p, _ := newTestEngine(t, newFakeBus(), nil)
	defer e.Close()

	p.fail(errors.New("no display"))
	_, err := e.CurrentLayout()
	assert.ErrorIs(t, err, ErrInputSourceUnavailable)
	assert.Nil(t, e.cache.Cached())

	p.fail(nil)
	snap, err := e.CurrentLayout()
	require.NoError(t, err)
	assert.Equal(t, "us", snap.Source)
}

func TestEngineCloseDeregistersOnce(t *testing.T) {
	bus := newFakeBus()
	e, _, _ := newTestEngine(t, bus, nil)

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.Equal(t, 1, bus.unsubscribeCount())

	_, err := e.CurrentLayout()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEngineIgnoresDeliveryAfterClose(t *testing.T) {
	bus := newFakeBus()
	delegate := &countingDelegate{}
	e, _, _ := newTestEngine(t, bus, delegate)
	require.NoError(t, e.Close())

	assert.NotPanics(t, bus.fireStale)
	assert.Never(t, func() bool { return delegate.calls.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestEngineCollectedWithoutClose(t *testing.T) {
	bus := newFakeBus()
	func() {
		_, _, _ = newTestEngine(t, bus, nil)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return bus.unsubscribeCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.NotPanics(t, bus.fireStale)
}

func TestEngineSubscribeFailure(t *testing.T) {
	bus := newFakeBus()
	bus.err = errors.New("bus down")

	_, err := New(&Resolver{Table: testTable(), Sources: &fakeProvider{}, Translator: usTranslator()}, bus, nil)
	assert.ErrorContains(t, err, "bus down")
}

func TestEngineWithoutBus(t *testing.T) {
	e, _, _ := newTestEngine(t, nil, nil)
	snap, err := e.CurrentLayout()
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Len())
	assert.NoError(t, e.Close())
}

func TestNewRequiresResolver(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err)
}
