package board

import (
	"testing"
)

// catGrid is a 9×9 grid with CAT across row 4, columns 3-5.
func catGrid(t *testing.T, extra ...[3]int) *Grid {
	t.Helper()
	g := mustGrid(t,
		".........",
		".........",
		".........",
		".........",
		"...CAT...",
		".........",
		".........",
		".........",
		".........",
	)
	for _, e := range extra {
		if err := g.Set(e[0], e[1], byte(e[2])); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	return g
}

func TestFindPlacement(t *testing.T) {
	tests := []struct {
		name   string
		grid   func(t *testing.T) *Grid
		at     [2]int
		word   string
		want   Placement
		wantOK bool
	}{
		{
			name:   "vertical preferred",
			grid:   func(t *testing.T) *Grid { return catGrid(t) },
			at:     [2]int{4, 3},
			word:   "CAR",
			want:   Placement{Word: "CAR", Row: 4, Col: 3, Axis: Vertical},
			wantOK: true,
		},
		{
			name:   "earliest overlap index first",
			grid:   func(t *testing.T) *Grid { return catGrid(t) },
			at:     [2]int{4, 4},
			word:   "BAA",
			want:   Placement{Word: "BAA", Row: 3, Col: 4, Axis: Vertical},
			wantOK: true,
		},
		{
			name: "horizontal when vertical conflicts",
			grid: func(t *testing.T) *Grid {
				return mustGrid(t,
					".........",
					".........",
					".........",
					"....C....",
					"....A....",
					"....T....",
					".........",
					".........",
					".........",
				)
			},
			at:     [2]int{4, 4},
			word:   "BAD",
			want:   Placement{Word: "BAD", Row: 4, Col: 3, Axis: Horizontal},
			wantOK: true,
		},
		{
			name:   "blank anchor",
			grid:   func(t *testing.T) *Grid { return catGrid(t) },
			at:     [2]int{0, 0},
			word:   "CAR",
			wantOK: false,
		},
		{
			name:   "anchor letter not in word",
			grid:   func(t *testing.T) *Grid { return catGrid(t) },
			at:     [2]int{4, 5},
			word:   "CAR",
			wantOK: false,
		},
		{
			name:   "occupied neighbour",
			grid:   func(t *testing.T) *Grid { return catGrid(t, [3]int{6, 2, 'X'}) },
			at:     [2]int{4, 3},
			word:   "CAR",
			wantOK: false,
		},
		{
			name:   "occupied cell after the end",
			grid:   func(t *testing.T) *Grid { return catGrid(t, [3]int{7, 3, 'Z'}) },
			at:     [2]int{4, 3},
			word:   "CAR",
			wantOK: false,
		},
		{
			name:   "occupied cell before the start",
			grid:   func(t *testing.T) *Grid { return catGrid(t, [3]int{3, 3, 'Z'}) },
			at:     [2]int{4, 3},
			word:   "CAR",
			wantOK: false,
		},
		{
			name: "border margin",
			grid: func(t *testing.T) *Grid {
				return mustGrid(t,
					".....",
					".....",
					".CAT.",
					".....",
					".....",
				)
			},
			at:     [2]int{2, 1},
			word:   "CAR",
			wantOK: false,
		},
		{
			name: "no extension along an existing word",
			grid: func(t *testing.T) *Grid {
				return mustGrid(t,
					".......",
					".CAT...",
					".......",
					"X......",
					".......",
					".......",
					".......",
				)
			},
			at:     [2]int{1, 1},
			word:   "CATS",
			wantOK: false,
		},
		{
			name:   "anchor letter repeated in word",
			grid:   func(t *testing.T) *Grid { return catGrid(t) },
			at:     [2]int{4, 5},
			word:   "STAT",
			want:   Placement{Word: "STAT", Row: 3, Col: 5, Axis: Vertical},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.grid(t)
			got, ok := FindPlacement(g, tt.at[0], tt.at[1], tt.word)
			if ok != tt.wantOK {
				t.Fatalf("FindPlacement ok = %v, want %v (placement %+v)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("FindPlacement = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFindPlacementDoesNotMutate(t *testing.T) {
	g := catGrid(t)
	before := g.String()
	FindPlacement(g, 4, 3, "CAR")
	if g.String() != before {
		t.Error("FindPlacement must not modify the grid")
	}
}

func TestPlacementCells(t *testing.T) {
	p := Placement{Word: "CAT", Row: 2, Col: 5, Axis: Vertical}
	if r, c := p.End(); r != 4 || c != 5 {
		t.Errorf("End() = (%d,%d), want (4,5)", r, c)
	}
	if !p.Covers(3, 5) || p.Covers(5, 5) || p.Covers(3, 4) {
		t.Error("Covers() returned wrong membership")
	}

	h := Placement{Word: "CAT", Row: 2, Col: 5, Axis: Horizontal}
	if r, c := h.Cell(2); r != 2 || c != 7 {
		t.Errorf("Cell(2) = (%d,%d), want (2,7)", r, c)
	}
}

func TestAxisText(t *testing.T) {
	for _, a := range []Axis{Horizontal, Vertical} {
		b, err := a.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", a, err)
		}
		var got Axis
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if got != a {
			t.Errorf("round trip = %v, want %v", got, a)
		}
	}
	var a Axis
	if err := a.UnmarshalText([]byte("diagonal")); err == nil {
		t.Error("UnmarshalText should reject unknown axes")
	}
	if _, err := Axis(7).MarshalText(); err == nil {
		t.Error("MarshalText should reject unknown axes")
	}
}
