package board

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wordtiles/pkg/errors"
)

func mustGrid(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g, err := GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	return g
}

func TestNewGrid(t *testing.T) {
	g := NewGrid(3)
	if g.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", g.Size())
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if !g.IsBlank(r, c) {
				t.Errorf("cell (%d,%d) = %q, want blank", r, c, g.Get(r, c))
			}
		}
	}
	if NewGrid(-1).Size() != 0 {
		t.Error("NewGrid(-1) should be empty")
	}
	if got := NewGrid(1 << 40).Size(); got != MaxGridSize {
		t.Errorf("NewGrid(1<<40).Size() = %d, want %d", got, MaxGridSize)
	}
}

func TestGridSetGet(t *testing.T) {
	g := NewGrid(3)

	if err := g.Set(1, 1, 'a'); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := g.Get(1, 1); got != 'A' {
		t.Errorf("Get(1,1) = %q, want 'A'", got)
	}
	if err := g.Set(1, 1, 'A'); err != nil {
		t.Errorf("rewriting the same letter should succeed: %v", err)
	}

	tests := []struct {
		name   string
		r, c   int
		letter byte
		code   errors.Code
	}{
		{"row out of range", 3, 0, 'A', errors.ErrCodeInvalidInput},
		{"negative column", 0, -1, 'A', errors.ErrCodeInvalidInput},
		{"digit", 0, 0, '7', errors.ErrCodeInvalidInput},
		{"blank", 0, 0, Blank, errors.ErrCodeInvalidInput},
		{"conflicting letter", 1, 1, 'B', errors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Set(tt.r, tt.c, tt.letter)
			if !errors.Is(err, tt.code) {
				t.Errorf("Set(%d,%d,%q) error = %v, want code %s", tt.r, tt.c, tt.letter, err, tt.code)
			}
		})
	}

	if got := g.Get(-1, 5); got != Blank {
		t.Errorf("off-grid Get = %q, want blank", got)
	}
	if got := g.Get(1, 1); got != 'A' {
		t.Errorf("failed Set must not modify the cell, got %q", got)
	}
}

func TestGridReset(t *testing.T) {
	g := mustGrid(t, "AB", "CD")
	g.Reset()
	if g.Size() != 2 {
		t.Errorf("Size() = %d, want 2", g.Size())
	}
	if diff := cmp.Diff([]string{"  ", "  "}, g.Rows()); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
}

func TestGridGrow(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want []string
	}{
		{
			name: "even",
			rows: []string{
				"A...",
				"....",
				"....",
				"...B",
			},
			want: []string{
				"........",
				"........",
				"..A.....",
				"........",
				"........",
				".....B..",
				"........",
				"........",
			},
		},
		{
			name: "odd",
			rows: []string{
				"A..",
				".B.",
				"..C",
			},
			want: []string{
				"......",
				".A....",
				"..B...",
				"...C..",
				"......",
				"......",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.rows...)
			before := g.Size()
			g.Grow()
			if g.Size() != 2*before {
				t.Errorf("Size() = %d, want %d", g.Size(), 2*before)
			}
			if diff := cmp.Diff(tt.want, dotted(g)); diff != "" {
				t.Errorf("grown grid mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGridTrim(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		want  []string
		shift [2]int
	}{
		{
			name: "vertical word",
			rows: []string{
				".....",
				"..C..",
				"..A..",
				"..T..",
				".....",
			},
			want:  []string{".C.", ".A.", ".T."},
			shift: [2]int{-1, -1},
		},
		{
			name: "horizontal word",
			rows: []string{
				"........",
				"........",
				"........",
				"........",
				"..HELLO.",
				"........",
				"........",
				"........",
			},
			want:  []string{".....", ".....", "HELLO", ".....", "....."},
			shift: [2]int{-2, -2},
		},
		{
			name: "wide rectangle",
			rows: []string{
				"......",
				".ABCD.",
				".E....",
				"......",
				"......",
				"......",
			},
			want:  []string{"....", "ABCD", "E...", "...."},
			shift: [2]int{0, -1},
		},
		{
			name:  "already tight",
			rows:  []string{"AB", "C."},
			want:  []string{"AB", "C."},
			shift: [2]int{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.rows...)
			dr, dc := g.Trim()
			if g.Size() != len(tt.want) {
				t.Errorf("Size() = %d, want %d", g.Size(), len(tt.want))
			}
			if got := [2]int{dr, dc}; got != tt.shift {
				t.Errorf("shift = %v, want %v", got, tt.shift)
			}
			if diff := cmp.Diff(tt.want, dotted(g)); diff != "" {
				t.Errorf("trimmed grid mismatch (-want +got):\n%s", diff)
			}
			assertTight(t, g)
		})
	}
}

func TestGridTrimAllBlank(t *testing.T) {
	g := NewGrid(6)
	dr, dc := g.Trim()
	if g.Size() != 0 {
		t.Errorf("Size() = %d, want 0", g.Size())
	}
	if dr != 0 || dc != 0 {
		t.Errorf("shift = (%d,%d), want (0,0)", dr, dc)
	}
	if len(g.Rows()) != 0 {
		t.Errorf("Rows() = %q, want none", g.Rows())
	}
}

func TestGridLetters(t *testing.T) {
	tests := []struct {
		rows []string
		want string
	}{
		{[]string{"CAT", "..A", "..B"}, "ABCT"},
		{[]string{"...", "...", "..."}, ""},
		{[]string{"ZZ", "AZ"}, "AZ"},
	}
	for _, tt := range tests {
		if got := string(mustGrid(t, tt.rows...).Letters()); got != tt.want {
			t.Errorf("Letters(%q) = %q, want %q", tt.rows, got, tt.want)
		}
	}
}

func TestGridFromRowsPadsToSquare(t *testing.T) {
	g := mustGrid(t, "ab")
	if g.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", g.Size())
	}
	if diff := cmp.Diff([]string{"AB", ".."}, dotted(g)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if _, err := GridFromRows([]string{"A1"}); err == nil {
		t.Error("GridFromRows should reject digits")
	}
	if _, err := GridFromRows([]string{strings.Repeat(".", MaxGridSize+1)}); err == nil {
		t.Error("GridFromRows should reject rows wider than MaxGridSize")
	}
}

func TestGridString(t *testing.T) {
	g := mustGrid(t, "A.", ".B")
	if got, want := g.String(), "A.\n.B\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

// dotted returns the grid rows with '.' in place of blank cells.
func dotted(g *Grid) []string {
	rows := g.Rows()
	for i, r := range rows {
		b := []byte(r)
		for j := range b {
			if b[j] == Blank {
				b[j] = '.'
			}
		}
		rows[i] = string(b)
	}
	return rows
}

// assertTight checks that a trimmed grid is square and that its letters span
// the full width or the full height.
func assertTight(t *testing.T, g *Grid) {
	t.Helper()
	n := g.Size()
	for i, r := range g.Rows() {
		if len(r) != n {
			t.Fatalf("row %d has %d cells, want %d", i, len(r), n)
		}
	}
	top, left, bottom, right, ok := g.Bounds()
	if !ok {
		t.Fatal("trimmed grid has no letters")
	}
	if !(top == 0 && bottom == n-1) && !(left == 0 && right == n-1) {
		t.Errorf("letters span rows %d-%d cols %d-%d of %dx%d grid; want a full axis", top, bottom, left, right, n, n)
	}
}
