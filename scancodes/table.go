package scancodes

import (
	evdev "github.com/holoplot/go-evdev"
)

// Tables lifted from:
//     http://www.win.tue.nl/~aeb/linux/kbd/scancodes-1.html#ss1.4
// evdev keeps the Set 1 numbering for the whole 0x01-0x58 block.

// Physical key names of the Set 1 block, indexed by code.
var baseCodes = []string{
	"",
	"Escape", "Digit1", "Digit2", "Digit3", "Digit4", "Digit5", "Digit6", "Digit7", "Digit8", "Digit9", "Digit0", "Minus", "Equal", "Backspace",
	"Tab", "KeyQ", "KeyW", "KeyE", "KeyR", "KeyT", "KeyY", "KeyU", "KeyI", "KeyO", "KeyP", "BracketLeft", "BracketRight",
	"Enter",
	"ControlLeft",
	"KeyA", "KeyS", "KeyD", "KeyF", "KeyG", "KeyH", "KeyJ", "KeyK", "KeyL", "Semicolon", "Quote",
	"Backquote",
	"ShiftLeft", "Backslash",
	"KeyZ", "KeyX", "KeyC", "KeyV", "KeyB", "KeyN", "KeyM", "Comma", "Period", "Slash", "ShiftRight",
	"NumpadMultiply",
	"AltLeft", "Space",
	"CapsLock",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10",
	"NumLock", "ScrollLock",
	"Numpad7", "Numpad8", "Numpad9",
	"NumpadSubtract",
	"Numpad4", "Numpad5", "Numpad6", "NumpadAdd",
	"Numpad1", "Numpad2", "Numpad3",
	"Numpad0", "NumpadDecimal",
	"", "",
	"IntlBackslash",
	"F11", "F12",
}

// Keys that Set 1 reaches through the 0xe0 escape. evdev gives them their
// own codes above the base block.
var extendedCodes = []struct {
	name string
	code evdev.EvCode
}{
	{"NumpadEnter", evdev.KEY_KPENTER},
	{"ControlRight", evdev.KEY_RIGHTCTRL},
	{"NumpadDivide", evdev.KEY_KPSLASH},
	{"PrintScreen", evdev.KEY_SYSRQ},
	{"AltRight", evdev.KEY_RIGHTALT},
	{"Home", evdev.KEY_HOME},
	{"ArrowUp", evdev.KEY_UP},
	{"PageUp", evdev.KEY_PAGEUP},
	{"ArrowLeft", evdev.KEY_LEFT},
	{"ArrowRight", evdev.KEY_RIGHT},
	{"End", evdev.KEY_END},
	{"ArrowDown", evdev.KEY_DOWN},
	{"PageDown", evdev.KEY_PAGEDOWN},
	{"Insert", evdev.KEY_INSERT},
	{"Delete", evdev.KEY_DELETE},
	{"NumpadEqual", evdev.KEY_KPEQUAL},
	{"Pause", evdev.KEY_PAUSE},
	{"MetaLeft", evdev.KEY_LEFTMETA},
	{"MetaRight", evdev.KEY_RIGHTMETA},
	{"ContextMenu", evdev.KEY_COMPOSE},
}

// Logical key values live in planes above the Unicode range so they never
// collide with a translated character.
const (
	PlaneUnprintable int64 = 0x0100000000
	PlaneSynonym     int64 = 0x0200000000
)

// Layout-independent keys. Their logical value is fixed and they are never
// translated.
var fixedLogical = map[string]int64{
	"Backspace":   PlaneUnprintable | 0x008,
	"Tab":         PlaneUnprintable | 0x009,
	"Enter":       PlaneUnprintable | 0x00d,
	"Escape":      PlaneUnprintable | 0x01b,
	"Delete":      PlaneUnprintable | 0x07f,
	"CapsLock":    PlaneUnprintable | 0x104,
	"NumLock":     PlaneUnprintable | 0x10a,
	"ScrollLock":  PlaneUnprintable | 0x10c,
	"ArrowDown":   PlaneUnprintable | 0x301,
	"ArrowLeft":   PlaneUnprintable | 0x302,
	"ArrowRight":  PlaneUnprintable | 0x303,
	"ArrowUp":     PlaneUnprintable | 0x304,
	"End":         PlaneUnprintable | 0x305,
	"Home":        PlaneUnprintable | 0x306,
	"PageDown":    PlaneUnprintable | 0x307,
	"PageUp":      PlaneUnprintable | 0x308,
	"Insert":      PlaneUnprintable | 0x407,
	"ContextMenu": PlaneUnprintable | 0x505,
	"Pause":       PlaneUnprintable | 0x509,
	"PrintScreen": PlaneUnprintable | 0x608,
	"F1":          PlaneUnprintable | 0x801,
	"F2":          PlaneUnprintable | 0x802,
	"F3":          PlaneUnprintable | 0x803,
	"F4":          PlaneUnprintable | 0x804,
	"F5":          PlaneUnprintable | 0x805,
	"F6":          PlaneUnprintable | 0x806,
	"F7":          PlaneUnprintable | 0x807,
	"F8":          PlaneUnprintable | 0x808,
	"F9":          PlaneUnprintable | 0x809,
	"F10":         PlaneUnprintable | 0x80a,
	"F11":         PlaneUnprintable | 0x80b,
	"F12":         PlaneUnprintable | 0x80c,

	"ControlLeft":  PlaneSynonym | 0x100,
	"ControlRight": PlaneSynonym | 0x101,
	"ShiftLeft":    PlaneSynonym | 0x102,
	"ShiftRight":   PlaneSynonym | 0x103,
	"AltLeft":      PlaneSynonym | 0x104,
	"AltRight":     PlaneSynonym | 0x105,
	"MetaLeft":     PlaneSynonym | 0x106,
	"MetaRight":    PlaneSynonym | 0x107,
	"NumpadEnter":  PlaneSynonym | 0x20d,
}
