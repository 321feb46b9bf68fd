package layout

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"kblayout/scancodes"
)

// Resolver builds snapshots from a key table and the active input source.
// It keeps no state between calls.
type Resolver struct {
	Table      scancodes.Table
	Sources    InputSourceProvider
	Translator Translator
}

// Resolve translates every table entry under the current input source. It
// fails as a whole when the input source is unavailable.
func (r *Resolver) Resolve() (*Snapshot, error) {
	if err := r.Table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}

	src, err := r.Sources.Current()
	if err != nil {
		if errors.Is(err, ErrInputSourceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInputSourceUnavailable, err)
	}
	if src == nil {
		return nil, ErrInputSourceUnavailable
	}
	defer func() {
		// A failed release leaks the handle but leaves the snapshot intact.
		if err := src.Close(); err != nil {
			log.Warn().Err(err).Str("source", src.Name()).Msg("input source release failed")
		}
	}()

	data := src.LayoutData()
	keys := make([]Key, 0, len(r.Table))
	for _, entry := range r.Table {
		keys = append(keys, r.key(entry, data))
	}
	return &Snapshot{Source: src.Name(), Keys: keys}, nil
}

func (r *Resolver) key(entry scancodes.Entry, data any) Key {
	k := Key{
		Platform: uint32(entry.Code),
		Physical: entry.Physical,
	}
	if v, ok := entry.Fixed(); ok {
		k.Logical = valueOf(v)
		return k
	}
	for _, m := range Combinations {
		if ch, ok := r.Translator.Translate(data, k.Platform, m); ok {
			k.set(m, valueOf(int64(ch)))
		}
	}
	return k
}
