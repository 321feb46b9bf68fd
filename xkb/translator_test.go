package xkb

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kblayout/layout"
)

// chars renders Translate for every combination: "-" marks no character.
func chars(l *Layout, code evdev.EvCode) []string {
	out := make([]string, 0, len(layout.Combinations))
	for _, m := range layout.Combinations {
		r, ok := Translator{}.Translate(l, uint32(code), m)
		if !ok {
			out = append(out, "-")
			continue
		}
		out = append(out, string(r))
	}
	return out
}

func TestTranslateUS(t *testing.T) {
	us := &Layout{Keymap: loadKeymap(t, "us_ru.xkb"), Group: 0}
	for code, want := range map[evdev.EvCode][]string{
		evdev.KEY_Q:      {"q", "Q", "q", "Q", "q"},
		evdev.KEY_1:      {"1", "!", "1", "!", "1"},
		evdev.KEY_GRAVE:  {"`", "~", "`", "~", "`"},
		evdev.KEY_SPACE:  {" ", " ", " ", " ", " "},
		evdev.KEY_ENTER:  {"-", "-", "-", "-", "-"},
		evdev.KEY_F1:     {"-", "-", "-", "-", "-"},
		evdev.KEY_102ND:  {"<", ">", "|", "¦", "<"},
		evdev.KEY_KP7:    {"7", "-", "-", "-", "7"},
		evdev.KEY_KPDOT:  {".", "-", "-", "-", "."},
		evdev.KEY_KPPLUS: {"+", "+", "+", "+", "+"},
		evdev.KEY_F24:    {"-", "-", "-", "-", "-"},
	} {
		assert.Equal(t, want, chars(us, code), evdev.KEYToString[code])
	}
}

func TestTranslateRussianMetaFallsBack(t *testing.T) {
	ru := &Layout{Keymap: loadKeymap(t, "us_ru.xkb"), Group: 1}
	for code, want := range map[evdev.EvCode][]string{
		evdev.KEY_Q:     {"й", "Й", "й", "Й", "q"},
		evdev.KEY_GRAVE: {"ё", "Ё", "ё", "Ё", "`"},
		evdev.KEY_3:     {"3", "№", "3", "№", "3"},
		evdev.KEY_SLASH: {".", ",", ".", ",", "."},
		evdev.KEY_102ND: {"/", "|", "-", "-", "/"},
		evdev.KEY_KPDOT: {",", "-", "-", "-", ","},
	} {
		assert.Equal(t, want, chars(ru, code), evdev.KEYToString[code])
	}
}

func TestTranslateFourLevel(t *testing.T) {
	fr := &Layout{Keymap: loadKeymap(t, "fr.xkb")}
	for code, want := range map[evdev.EvCode][]string{
		evdev.KEY_Q:         {"a", "A", "æ", "Æ", "a"},
		evdev.KEY_E:         {"e", "E", "€", "¢", "e"},
		evdev.KEY_2:         {"é", "2", "~", "-", "é"},
		evdev.KEY_LEFTBRACE: {"^", "¨", "~", "˚", "^"},
		evdev.KEY_SEMICOLON: {"m", "M", "\u00b5", "\u00ba", "m"},
		evdev.KEY_Z:         {"w", "W", "ł", "Ł", "w"},
		evdev.KEY_RIGHTALT:  {"-", "-", "-", "-", "-"},
	} {
		assert.Equal(t, want, chars(fr, code), evdev.KEYToString[code])
	}
}

// A key produces a meta character whenever it produces an unmodified one.
func TestTranslateMetaNeverDropsCharacter(t *testing.T) {
	us := &Layout{Keymap: loadKeymap(t, "us_ru.xkb")}
	fr := &Layout{Keymap: loadKeymap(t, "fr.xkb")}
	for _, tc := range []struct {
		l    *Layout
		code evdev.EvCode
		want rune
	}{
		{us, evdev.KEY_SPACE, ' '},
		{fr, evdev.KEY_SPACE, ' '},
		{fr, evdev.KEY_2, 'é'},
		{fr, evdev.KEY_LEFTBRACE, '^'},
	} {
		base, ok := Translator{}.Translate(tc.l, uint32(tc.code), layout.ModNone)
		require.True(t, ok, evdev.KEYToString[tc.code])
		meta, ok := Translator{}.Translate(tc.l, uint32(tc.code), layout.ModMeta)
		assert.True(t, ok, evdev.KEYToString[tc.code])
		assert.Equal(t, tc.want, meta, evdev.KEYToString[tc.code])
		assert.Equal(t, base, meta, evdev.KEYToString[tc.code])
	}

	_, ok := Translator{}.Translate(us, uint32(evdev.KEY_ENTER), layout.ModMeta)
	assert.False(t, ok)
}

func TestTranslateBadData(t *testing.T) {
	for _, data := range []any{nil, "layout", (*Layout)(nil), &Layout{}} {
		_, ok := Translator{}.Translate(data, uint32(evdev.KEY_Q), layout.ModNone)
		assert.False(t, ok)
	}
}

func TestSelectLevel(t *testing.T) {
	four := []string{"a", "A", "ae", "AE"}
	assert.Equal(t, 0, selectLevel(four, "FOUR_LEVEL", layout.ModNone))
	assert.Equal(t, 3, selectLevel(four, "FOUR_LEVEL", layout.ModShift|layout.ModAlt))
	assert.Equal(t, 0, selectLevel([]string{"a", "A"}, "", layout.ModAlt))
	assert.Equal(t, 1, selectLevel([]string{"a", "A"}, "ALPHABETIC", layout.ModShift|layout.ModAlt))
	assert.Equal(t, 0, selectLevel([]string{"space"}, "", layout.ModShift))
	assert.Equal(t, 1, selectLevel([]string{"KP_Home", "KP_7"}, "", layout.ModNone))
	assert.Equal(t, 0, selectLevel([]string{"KP_Home", "KP_7"}, "KEYPAD", layout.ModShift))
	assert.Equal(t, -1, selectLevel([]string{"KP_Home", "KP_7"}, "KEYPAD", layout.ModAlt))
}
