// Package color holds the viewer's palette and the controller that recolors every
// registered surface in one step.
package color

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

var (
	// ErrDuplicateLabel is returned when a palette declares the same label twice.
	ErrDuplicateLabel = errors.New("duplicate palette label")

	// ErrUnknownLabel is returned when a selection names a label missing from the palette.
	ErrUnknownLabel = errors.New("unknown palette label")

	errEmptyLabel = errors.New("empty palette label")
)

// Entry is a single user-selectable color.
type Entry struct {
	Label string
	Color common.Color
}

// Palette is an ordered, immutable set of entries with unique labels.
type Palette struct {
	entries []Entry
	index   map[string]int
}

// NewPalette builds a Palette from entries, keeping their order.
//
// Parameters:
//   - entries: the palette entries
//
// Returns:
//   - *Palette: the palette
//   - error: ErrDuplicateLabel if two entries share a label
func NewPalette(entries ...Entry) (*Palette, error) {
	p := &Palette{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.Label == "" {
			return nil, errEmptyLabel
		}
		if _, ok := p.index[e.Label]; ok {
			return nil, fmt.Errorf("%q: %w", e.Label, ErrDuplicateLabel)
		}
		p.index[e.Label] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	return p, nil
}

// DefaultPalette returns the viewer's stock palette: red, blue and black.
//
// Returns:
//   - *Palette: the palette
func DefaultPalette() *Palette {
	p, _ := NewPalette(
		Entry{Label: "red", Color: common.MustParseHexColor("#820300")},
		Entry{Label: "blue", Color: common.MustParseHexColor("#000B58")},
		Entry{Label: "black", Color: common.MustParseHexColor("#000000")},
	)
	return p
}

// Len returns the number of entries.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the entries in declaration order.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// At returns the i-th entry.
func (p *Palette) At(i int) Entry {
	return p.entries[i]
}

// Lookup finds the entry for label.
//
// Parameters:
//   - label: the entry label
//
// Returns:
//   - Entry: the entry
//   - bool: false if the palette has no such label
func (p *Palette) Lookup(label string) (Entry, bool) {
	i, ok := p.index[label]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}
