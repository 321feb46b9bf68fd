package xkb

import (
	"slices"
	"strings"

	"kblayout/layout"
)

// asciiCapableKeys is how many letter keys must produce a-z at level 1
// before a group counts as ASCII capable.
const asciiCapableKeys = 20

// Layout is the data a Source hands to the Translator: a keymap and the
// group to translate in.
type Layout struct {
	Keymap *Keymap
	Group  int
}

// Translator maps evdev codes through a *Layout. It is stateless.
type Translator struct{}

var _ layout.Translator = Translator{}

// Translate returns the character produced by the key with the given evdev
// code. Alt is AltGr (level 3). NumLock is taken as on, CapsLock as off.
func (Translator) Translate(data any, code uint32, mods layout.Modifier) (rune, bool) {
	l, ok := data.(*Layout)
	if !ok || l == nil || l.Keymap == nil {
		return 0, false
	}
	keycode := code + EvdevOffset
	if mods&layout.ModMeta != 0 {
		return l.meta(keycode)
	}
	syms, keyType := l.Keymap.Symbols(keycode, l.Group)
	level := selectLevel(syms, keyType, mods)
	if level < 0 || level >= len(syms) {
		return 0, false
	}
	return Keysym(syms[level])
}

// meta returns the unshifted character used for shortcut matching: the
// active group's when it is ASCII, otherwise the first group's that is. A key
// that is ASCII in no group keeps its active-group character.
func (l *Layout) meta(keycode uint32) (rune, bool) {
	active, ok := l.base(keycode, l.Group)
	if ok && isASCII(active) {
		return active, true
	}
	for g := 0; g < l.Keymap.NumGroups(); g++ {
		if r, found := l.base(keycode, g); found && isASCII(r) {
			return r, true
		}
	}
	return active, ok
}

func (l *Layout) base(keycode uint32, group int) (rune, bool) {
	syms, keyType := l.Keymap.Symbols(keycode, group)
	level := selectLevel(syms, keyType, layout.ModNone)
	if level < 0 || level >= len(syms) {
		return 0, false
	}
	return Keysym(syms[level])
}

// selectLevel picks the zero-based shift level for mods. Keypad keys
// without an explicit type are recognised by their keysyms.
func selectLevel(syms []string, keyType string, mods layout.Modifier) int {
	n := len(syms)
	if keyType == "" && slices.ContainsFunc(syms, func(s string) bool { return strings.HasPrefix(s, "KP_") }) {
		keyType = "KEYPAD"
	}
	level := 0
	if mods&layout.ModShift != 0 {
		level |= 1
	}
	if mods&layout.ModAlt != 0 {
		level |= 2
	}
	switch {
	case keyType == "ONE_LEVEL" || n == 1:
		level = 0
	case strings.Contains(keyType, "KEYPAD"):
		if level > 1 {
			return -1
		}
		level ^= 1
	case keyType == "TWO_LEVEL" || keyType == "ALPHABETIC" || (keyType == "" && n <= 2):
		level &= 1
	}
	return level
}

// ASCIICapable reports whether a group types Latin letters.
func (k *Keymap) ASCIICapable(group int) bool {
	count := 0
	for code := range k.keys {
		syms, _ := k.Symbols(code, group)
		if len(syms) == 0 {
			continue
		}
		if r, ok := Keysym(syms[0]); ok && r >= 'a' && r <= 'z' {
			count++
		}
	}
	return count >= asciiCapableKeys
}

func isASCII(r rune) bool {
	return r >= 0x20 && r < 0x7f
}
