// Package layout resolves which character each physical key produces under
// the active keyboard input source, caches the result, and drops the cache
// when the input source changes.
package layout

import (
	"fmt"
	"strings"
	"unicode"
)

// Modifier is a set of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModMeta

	ModNone Modifier = 0
)

// Combinations are the modifier states resolved for every key, in the order
// they are translated.
var Combinations = [...]Modifier{ModNone, ModShift, ModAlt, ModShift | ModAlt, ModMeta}

func (m Modifier) String() string {
	if m == ModNone {
		return "none"
	}
	var parts []string
	if m&ModShift != 0 {
		parts = append(parts, "shift")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if m&ModMeta != 0 {
		parts = append(parts, "meta")
	}
	return strings.Join(parts, "+")
}

// Value is a logical key value: a code point for translated keys, or a
// plane value from the key table for layout-independent keys.
type Value int64

// Rune returns the value as a character when it is one.
func (v Value) Rune() (rune, bool) {
	if v < 0 || v > unicode.MaxRune {
		return 0, false
	}
	return rune(v), true
}

func (v Value) String() string {
	if r, ok := v.Rune(); ok && unicode.IsPrint(r) {
		return string(r)
	}
	return fmt.Sprintf("0x%x", int64(v))
}

func valueOf(v int64) *Value {
	out := Value(v)
	return &out
}

// Key is one resolved physical key. A nil field means the key produces
// nothing under that modifier combination.
type Key struct {
	Platform uint32
	Physical string

	Logical         *Value
	LogicalShift    *Value
	LogicalAlt      *Value
	LogicalAltShift *Value
	// LogicalMeta is what the key produces with the meta modifier held. It is
	// kept for shortcut matchers; the resolver never prefers it over Logical.
	LogicalMeta *Value
}

// Get returns the field for one of the resolved combinations.
func (k Key) Get(m Modifier) *Value {
	switch m {
	case ModNone:
		return k.Logical
	case ModShift:
		return k.LogicalShift
	case ModAlt:
		return k.LogicalAlt
	case ModShift | ModAlt:
		return k.LogicalAltShift
	case ModMeta:
		return k.LogicalMeta
	}
	return nil
}

func (k *Key) set(m Modifier, v *Value) {
	switch m {
	case ModNone:
		k.Logical = v
	case ModShift:
		k.LogicalShift = v
	case ModAlt:
		k.LogicalAlt = v
	case ModShift | ModAlt:
		k.LogicalAltShift = v
	case ModMeta:
		k.LogicalMeta = v
	}
}

// Snapshot is the layout at one point in time: one Key per table entry, in
// table order. Snapshots are shared between callers and must not be modified.
type Snapshot struct {
	// Source names the input source the snapshot was resolved from.
	Source string
	Keys   []Key
}

func (s *Snapshot) Len() int {
	return len(s.Keys)
}

// Key returns the resolved key for a physical key name.
func (s *Snapshot) Key(physical string) (Key, bool) {
	for _, k := range s.Keys {
		if k.Physical == physical {
			return k, true
		}
	}
	return Key{}, false
}

// Lookup finds the key and modifiers that produce r. Unmodified keys win
// over shifted ones, and so on through Combinations; meta is not searched.
func (s *Snapshot) Lookup(r rune) (Key, Modifier, bool) {
	for _, m := range Combinations {
		if m == ModMeta {
			continue
		}
		for _, k := range s.Keys {
			if v := k.Get(m); v != nil && Value(r) == *v {
				return k, m, true
			}
		}
	}
	return Key{}, ModNone, false
}
