package layout

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUntypeable = errors.New("no key produces character")

// Held for shift and alt when typing. On XKB layouts the alt level is
// reached through AltGr, which is the right Alt key.
const (
	shiftKey = "ShiftLeft"
	altKey   = "AltRight"
)

// SequenceForString converts text into space separated chords that type it
// under snap, e.g. "ShiftLeft+KeyH KeyI".
func SequenceForString(snap *Snapshot, input string) (string, error) {
	sequence := strings.Builder{}
	for i, char := range input {
		chord, err := SequenceForChar(snap, char)
		if err != nil {
			return "", fmt.Errorf("offset %d: %w", i, err)
		}
		if sequence.Len() > 0 {
			sequence.WriteByte(' ')
		}
		sequence.WriteString(chord)
	}
	return sequence.String(), nil
}

// SequenceForChar returns the chord that types char under snap.
func SequenceForChar(snap *Snapshot, char rune) (string, error) {
	switch char {
	case '\n':
		return "Enter", nil
	case '\t':
		return "Tab", nil
	}
	key, mods, ok := snap.Lookup(char)
	if !ok {
		return "", fmt.Errorf("%w %q in %s", ErrUntypeable, char, snap.Source)
	}
	chord := make([]string, 0, 3)
	if mods&ModShift != 0 {
		chord = append(chord, shiftKey)
	}
	if mods&ModAlt != 0 {
		chord = append(chord, altKey)
	}
	return strings.Join(append(chord, key.Physical), "+"), nil
}
