package board

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/wordtiles/pkg/errors"
)

// Layout is the serialisable form of a Result. Rows use Blank for empty cells.
type Layout struct {
	Size       int         `json:"size"`
	Rows       []string    `json:"rows"`
	Score      int         `json:"score"`
	Attempts   int         `json:"attempts,omitempty"`
	Grows      int         `json:"grows,omitempty"`
	Placements []Placement `json:"placements"`
}

// Layout converts the result to its serialisable form.
func (r *Result) Layout() Layout {
	return Layout{
		Size:       r.Grid.Size(),
		Rows:       r.Grid.Rows(),
		Score:      r.Score,
		Attempts:   r.Attempts,
		Grows:      r.Grows,
		Placements: r.Placements,
	}
}

// Grid rebuilds the grid described by the layout.
func (l Layout) Grid() (*Grid, error) {
	if len(l.Rows) != l.Size {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "layout has %d rows, want %d", len(l.Rows), l.Size)
	}
	for i, row := range l.Rows {
		if len(row) != l.Size {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "layout row %d has %d cells, want %d", i, len(row), l.Size)
		}
	}
	return GridFromRows(l.Rows)
}

// Words returns the placed words in placement order.
func (l Layout) Words() []string {
	words := make([]string, len(l.Placements))
	for i, p := range l.Placements {
		words[i] = p.Word
	}
	return words
}

// MarshalLayout encodes a layout as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout decodes a layout and checks that its rows form a square grid.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if _, err := l.Grid(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Text renders the layout rows with '.' for blank cells.
func (l Layout) Text() string {
	var b strings.Builder
	for _, row := range l.Rows {
		b.WriteString(strings.ReplaceAll(row, string(Blank), "."))
		b.WriteByte('\n')
	}
	return b.String()
}
