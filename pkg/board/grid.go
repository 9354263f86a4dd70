package board

import (
	"strings"

	"github.com/matzehuels/wordtiles/pkg/errors"
)

// Blank is the value of an empty cell.
const Blank byte = ' '

// MaxGridSize is the largest dimension a grid may have.
const MaxGridSize = 4096

// Grid is a square letter matrix stored row-major in a single buffer.
// The zero value is an empty 0×0 grid.
type Grid struct {
	size  int
	cells []byte
}

// NewGrid returns an n×n grid with every cell blank.
// n is clamped to [0, MaxGridSize].
func NewGrid(n int) *Grid {
	n = min(max(n, 0), MaxGridSize)
	g := &Grid{size: n, cells: make([]byte, n*n)}
	g.Reset()
	return g
}

// GridFromRows builds a grid from text rows. A space or '.' is a blank cell;
// letters are upper-cased. Rows shorter than the widest row are padded, and
// the result is padded to a square.
func GridFromRows(rows []string) (*Grid, error) {
	n := len(rows)
	for _, r := range rows {
		n = max(n, len(r))
	}
	if n > MaxGridSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid of %d rows too large (max %d)", n, MaxGridSize)
	}
	g := NewGrid(n)
	for r, line := range rows {
		for c := 0; c < len(line); c++ {
			ch := line[c]
			if ch == ' ' || ch == '.' {
				continue
			}
			if err := g.Set(r, c, ch); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Size returns the dimension of the grid.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether (r, c) lies inside the grid.
func (g *Grid) InBounds(r, c int) bool {
	return r >= 0 && r < g.size && c >= 0 && c < g.size
}

// Get returns the letter at (r, c), or Blank when the cell is empty or off-grid.
func (g *Grid) Get(r, c int) byte {
	if !g.InBounds(r, c) {
		return Blank
	}
	return g.cells[r*g.size+c]
}

// IsBlank reports whether (r, c) is empty or off-grid.
func (g *Grid) IsBlank(r, c int) bool { return g.Get(r, c) == Blank }

// Set writes letter at (r, c). It fails when the cell is off-grid, when letter
// is not A-Z (lower case is accepted and upper-cased), or when the cell already
// holds a different letter.
func (g *Grid) Set(r, c int, letter byte) error {
	if !g.InBounds(r, c) {
		return errors.New(errors.ErrCodeInvalidInput, "cell (%d,%d) outside %dx%d grid", r, c, g.size, g.size)
	}
	letter = upper(letter)
	if letter < 'A' || letter > 'Z' {
		return errors.New(errors.ErrCodeInvalidInput, "cell (%d,%d): %q is not a letter", r, c, letter)
	}
	i := r*g.size + c
	if cur := g.cells[i]; cur != Blank && cur != letter {
		return errors.New(errors.ErrCodeInternal, "cell (%d,%d) holds %c, cannot write %c", r, c, cur, letter)
	}
	g.cells[i] = letter
	return nil
}

// Reset blanks every cell and keeps the dimension.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = Blank
	}
}

// Grow doubles the dimension. Existing content moves to offset n/2 on both
// axes so the old grid sits in the middle of the new one.
func (g *Grid) Grow() {
	old, n := g.cells, g.size
	g.size = 2 * n
	g.cells = make([]byte, g.size*g.size)
	g.Reset()
	off := n / 2
	for r := 0; r < n; r++ {
		copy(g.cells[(r+off)*g.size+off:], old[r*n:(r+1)*n])
	}
}

// Bounds returns the smallest rectangle holding every letter as inclusive
// row and column ranges. ok is false for an all-blank grid.
func (g *Grid) Bounds() (top, left, bottom, right int, ok bool) {
	top, left = g.size, g.size
	bottom, right = -1, -1
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.cells[r*g.size+c] == Blank {
				continue
			}
			top, bottom = min(top, r), max(bottom, r)
			left, right = min(left, c), max(right, c)
		}
	}
	if bottom < 0 {
		return 0, 0, 0, 0, false
	}
	return top, left, bottom, right, true
}

// Trim shrinks the grid to the smallest square holding every letter. The
// bounding rectangle is centered in the square with offset (square-extent)/2
// per axis. It returns the shift to add to old coordinates to obtain new ones.
//
// An all-blank grid becomes 0×0 and the shift is zero.
func (g *Grid) Trim() (rowShift, colShift int) {
	top, left, bottom, right, ok := g.Bounds()
	if !ok {
		g.size, g.cells = 0, nil
		return 0, 0
	}
	h, w := bottom-top+1, right-left+1
	n := max(h, w)
	rowOff, colOff := (n-h)/2, (n-w)/2

	cells := make([]byte, n*n)
	for i := range cells {
		cells[i] = Blank
	}
	for r := 0; r < h; r++ {
		src := (top+r)*g.size + left
		copy(cells[(r+rowOff)*n+colOff:], g.cells[src:src+w])
	}
	g.size, g.cells = n, cells
	return rowOff - top, colOff - left
}

// Rows returns the grid as text, one string per row, with Blank for empty cells.
func (g *Grid) Rows() []string {
	rows := make([]string, g.size)
	for r := range rows {
		rows[r] = string(g.cells[r*g.size : (r+1)*g.size])
	}
	return rows
}

// Letters returns the distinct letters on the grid in alphabetical order.
func (g *Grid) Letters() []byte {
	var seen [26]bool
	for _, ch := range g.cells {
		if ch != Blank {
			seen[ch-'A'] = true
		}
	}
	var out []byte
	for i, ok := range seen {
		if ok {
			out = append(out, byte('A'+i))
		}
	}
	return out
}

// String renders the grid with '.' for blank cells, one line per row.
func (g *Grid) String() string {
	var b strings.Builder
	for _, row := range g.Rows() {
		b.WriteString(strings.ReplaceAll(row, string(Blank), "."))
		b.WriteByte('\n')
	}
	return b.String()
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
