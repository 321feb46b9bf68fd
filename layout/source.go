package layout

import "errors"

var (
	// ErrInputSourceUnavailable means no active input source could be read.
	// Nothing is cached when resolution fails this way.
	ErrInputSourceUnavailable = errors.New("input source unavailable")
	ErrInvalidTable           = errors.New("invalid key table")
	ErrClosed                 = errors.New("layout engine closed")
)

// InputSource is a handle on the active input source. Close releases it.
type InputSource interface {
	Name() string
	// LayoutData is handed to the Translator unchanged.
	LayoutData() any
	Close() error
}

// InputSourceProvider reads the currently selected input source.
type InputSourceProvider interface {
	Current() (InputSource, error)
}

// Translator returns the character a key code produces with mods held, or
// false when it produces nothing. Calls are independent: no dead-key state
// carries over, and dead keys yield their spacing glyph.
type Translator interface {
	Translate(layout any, code uint32, mods Modifier) (rune, bool)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(layout any, code uint32, mods Modifier) (rune, bool)

func (f TranslatorFunc) Translate(layout any, code uint32, mods Modifier) (rune, bool) {
	return f(layout, code, mods)
}
