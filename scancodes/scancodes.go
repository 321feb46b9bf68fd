// Package scancodes is the table of physical keyboard keys the layout
// resolver knows about. Codes follow Set 1 (IBM PC XT) scancodes, which Linux
// evdev key codes inherit, and names follow the W3C UI Events "code" values.
package scancodes

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

var (
	ErrUnknownKey     = errors.New("unknown keyboard key")
	ErrDuplicateEntry = errors.New("duplicate table entry")
)

// Entry names one physical key. Logical is set for keys whose meaning does
// not depend on the layout.
type Entry struct {
	Physical string
	Code     evdev.EvCode
	Logical  *int64
}

// Fixed returns the layout-independent logical value, if any.
func (e Entry) Fixed() (int64, bool) {
	if e.Logical == nil {
		return 0, false
	}
	return *e.Logical, true
}

// Table is an ordered list of entries. Tables are treated as immutable once
// handed to a resolver.
type Table []Entry

var defaultTable = sync.OnceValue(func() Table {
	t := make(Table, 0, len(baseCodes)+len(extendedCodes))
	add := func(name string, code evdev.EvCode) {
		e := Entry{Physical: name, Code: code}
		if v, ok := fixedLogical[name]; ok {
			e.Logical = &v
		}
		t = append(t, e)
	}
	for code, name := range baseCodes {
		if name != "" {
			add(name, evdev.EvCode(code))
		}
	}
	for _, ext := range extendedCodes {
		add(ext.name, ext.code)
	}
	return t
})

// Default returns the built-in table in code order.
func Default() Table {
	return slices.Clone(defaultTable())
}

// Validate checks that physical names and codes are unique.
func (t Table) Validate() error {
	names := make(map[string]bool, len(t))
	codes := make(map[evdev.EvCode]string, len(t))
	for _, e := range t {
		if e.Physical == "" {
			return fmt.Errorf("%w: empty physical name for code %d", ErrUnknownKey, e.Code)
		}
		if names[e.Physical] {
			return fmt.Errorf("%w: physical key %s", ErrDuplicateEntry, e.Physical)
		}
		if other, ok := codes[e.Code]; ok {
			return fmt.Errorf("%w: code %d used by %s and %s", ErrDuplicateEntry, e.Code, other, e.Physical)
		}
		names[e.Physical] = true
		codes[e.Code] = e.Physical
	}
	return nil
}

// ByPhysical finds the entry for a physical key name.
func (t Table) ByPhysical(name string) (Entry, bool) {
	for _, e := range t {
		if e.Physical == name {
			return e, true
		}
	}
	return Entry{}, false
}

// ByCode finds the entry for an evdev code.
func (t Table) ByCode(code evdev.EvCode) (Entry, bool) {
	for _, e := range t {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}

// Select returns the entries named, in table order.
func (t Table) Select(names ...string) (Table, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := t.ByPhysical(n); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, n)
		}
		want[n] = true
	}
	out := make(Table, 0, len(names))
	for _, e := range t {
		if want[e.Physical] {
			out = append(out, e)
		}
	}
	return out, nil
}

// Stroke is a single key transition: Value 1 is a press, 0 a release.
type Stroke struct {
	Code  evdev.EvCode
	Value int32
}

// ForSequence obtains the strokes for a sequence of space separated chords,
// e.g. "ShiftLeft+KeyH KeyI". Keys of a chord are pressed in order and
// released in reverse.
func (t Table) ForSequence(sequence string) ([]Stroke, error) {
	strokes := make([]Stroke, 0, len(sequence))
	held := make([]evdev.EvCode, 0, 2)
	for _, chord := range strings.Fields(sequence) {
		for _, key := range strings.Split(chord, "+") {
			e, ok := t.ByPhysical(key)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
			}
			strokes = append(strokes, Stroke{Code: e.Code, Value: 1})
			held = append(held, e.Code)
		}
		for i := len(held) - 1; i >= 0; i-- {
			strokes = append(strokes, Stroke{Code: held[i], Value: 0})
		}
		held = held[:0]
	}
	return strokes, nil
}
