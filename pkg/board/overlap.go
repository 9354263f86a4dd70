package board

import (
	"fmt"
	"strings"
)

// Axis is the direction a word runs in.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	switch a {
	case Horizontal, Vertical:
		return []byte(a.String()), nil
	default:
		return nil, fmt.Errorf("invalid axis %d", int(a))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "horizontal", "h", "across":
		*a = Horizontal
	case "vertical", "v", "down":
		*a = Vertical
	default:
		return fmt.Errorf("invalid axis %q", b)
	}
	return nil
}

func (a Axis) delta() (dr, dc int) {
	if a == Vertical {
		return 1, 0
	}
	return 0, 1
}

// Placement is a word committed to the grid: its first letter sits at
// (Row, Col) and the rest follow along Axis.
type Placement struct {
	Word string `json:"word"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Axis Axis   `json:"axis"`
}

// Cell returns the coordinates of the i-th letter.
func (p Placement) Cell(i int) (r, c int) {
	dr, dc := p.Axis.delta()
	return p.Row + i*dr, p.Col + i*dc
}

// End returns the coordinates of the last letter.
func (p Placement) End() (r, c int) { return p.Cell(len(p.Word) - 1) }

// Covers reports whether the placement occupies (r, c).
func (p Placement) Covers(r, c int) bool {
	switch p.Axis {
	case Vertical:
		return c == p.Col && r >= p.Row && r < p.Row+len(p.Word)
	default:
		return r == p.Row && c >= p.Col && c < p.Col+len(p.Word)
	}
}

func (p Placement) commit(g *Grid) error {
	for i := 0; i < len(p.Word); i++ {
		r, c := p.Cell(i)
		if err := g.Set(r, c, p.Word[i]); err != nil {
			return err
		}
	}
	return nil
}

func (p Placement) shift(dr, dc int) Placement {
	p.Row += dr
	p.Col += dc
	return p
}

// FindPlacement searches for a legal placement of word that crosses the
// letter at the anchor cell (row, col). word must be upper case.
//
// Every position of the anchor letter in word is tried from left to right,
// vertical before horizontal, and the first candidate that passes all checks
// is returned:
//   - all letters stay off the outer border row and column
//   - covered cells other than the anchor are blank
//   - covered cells other than the anchor have no occupied orthogonal
//     neighbour off the anchor's row and column lines
//   - the cells just before and just after the word are blank
//
// ok is false when the anchor is blank or no candidate passes.
func FindPlacement(g *Grid, row, col int, word string) (p Placement, ok bool) {
	anchor := g.Get(row, col)
	if anchor == Blank {
		return Placement{}, false
	}
	for k := 0; k < len(word); k++ {
		if word[k] != anchor {
			continue
		}
		for _, axis := range [...]Axis{Vertical, Horizontal} {
			dr, dc := axis.delta()
			p = Placement{Word: word, Row: row - k*dr, Col: col - k*dc, Axis: axis}
			if fits(g, p, row, col) {
				return p, true
			}
		}
	}
	return Placement{}, false
}

func fits(g *Grid, p Placement, anchorRow, anchorCol int) bool {
	n := g.Size()
	for i := 0; i < len(p.Word); i++ {
		r, c := p.Cell(i)
		if r < 1 || r > n-2 || c < 1 || c > n-2 {
			return false
		}
		if r == anchorRow && c == anchorCol {
			continue
		}
		// only the anchor may already hold a letter
		if g.Get(r, c) != Blank {
			return false
		}
		if !quietNeighbours(g, r, c, anchorRow, anchorCol) {
			return false
		}
	}

	dr, dc := p.Axis.delta()
	endR, endC := p.End()
	if g.InBounds(p.Row-dr, p.Col-dc) && !g.IsBlank(p.Row-dr, p.Col-dc) {
		return false
	}
	if g.InBounds(endR+dr, endC+dc) && !g.IsBlank(endR+dr, endC+dc) {
		return false
	}
	return true
}

var neighbours = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// quietNeighbours reports whether every orthogonal neighbour of (r, c) that
// does not lie on the anchor's row or column is blank or off-grid.
func quietNeighbours(g *Grid, r, c, anchorRow, anchorCol int) bool {
	for _, d := range neighbours {
		nr, nc := r+d[0], c+d[1]
		if nr == anchorRow || nc == anchorCol {
			continue
		}
		if !g.IsBlank(nr, nc) {
			return false
		}
	}
	return true
}
