package xkb

import (
	"strconv"
	"strings"
	"sync"
	"unicode"
)

// Keysyms at or above this value encode a Unicode code point directly.
const unicodeKeysymBase = 0x01000000

var namedKeysyms = sync.OnceValue(func() map[string]rune {
	names := make(map[string]rune, 512)
	for code, name := range asciiNames {
		if name != "" {
			names[name] = rune(code)
		}
	}
	for i, name := range latin1Names {
		names[name] = rune(0xa0 + i)
	}
	for suffix, r := range cyrillicNames {
		names["Cyrillic_"+suffix] = r
		names["Cyrillic_"+strings.ToUpper(suffix)] = unicode.ToUpper(r)
	}
	for suffix, r := range ukrainianNames {
		names["Ukrainian_"+suffix] = r
		names["Ukrainian_"+strings.ToUpper(suffix)] = unicode.ToUpper(r)
	}
	for suffix, r := range greekNames {
		names["Greek_"+suffix] = r
		names["Greek_"+strings.ToUpper(suffix)] = unicode.ToUpper(r)
	}
	for _, table := range []map[string]rune{deadNames, keypadNames, miscNames} {
		for name, r := range table {
			names[name] = r
		}
	}
	return names
})

// Keysym returns the character a keysym name produces. Function keys,
// modifiers, NoSymbol and unknown names produce nothing.
func Keysym(name string) (rune, bool) {
	if r, ok := namedKeysyms()[name]; ok {
		return r, true
	}
	if len(name) == 1 && name[0] > 0x20 && name[0] < 0x7f {
		return rune(name[0]), true
	}
	if len(name) > 1 && name[0] == 'U' {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil {
			return printable(rune(v))
		}
	}
	if strings.HasPrefix(name, "0x") {
		v, err := strconv.ParseUint(name[2:], 16, 32)
		if err != nil {
			return 0, false
		}
		switch {
		case v >= unicodeKeysymBase:
			return printable(rune(v - unicodeKeysymBase))
		case v >= 0x20 && v <= 0xff:
			return printable(rune(v))
		}
	}
	return 0, false
}

func printable(r rune) (rune, bool) {
	if r > unicode.MaxRune || !unicode.IsPrint(r) && r != 0xa0 {
		return 0, false
	}
	return r, true
}
