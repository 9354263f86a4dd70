package board

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/observability"
)

type recordingHooks struct {
	observability.NoopEngineHooks
	sizes    []int
	grows    [][2]int
	attempts int
	err      error
}

func (h *recordingHooks) OnAttemptStart(_ int, gridSize, _ int) { h.sizes = append(h.sizes, gridSize) }
func (h *recordingHooks) OnGrow(from, to int)                   { h.grows = append(h.grows, [2]int{from, to}) }
func (h *recordingHooks) OnRunComplete(_ int, attempts int, _ time.Duration, err error) {
	h.attempts, h.err = attempts, err
}

func TestInitialSize(t *testing.T) {
	tests := []struct {
		words []string
		want  int
	}{
		{[]string{"HELLO"}, 8},              // ceil(sqrt(50))
		{[]string{"CAT", "CAR", "ARC"}, 10}, // ceil(sqrt(90))
		{[]string{"A"}, 4},                  // ceil(sqrt(10))
		{[]string{"ABCDEFGHIJKLMNOPQRSTUVWXYZ"}, 28},
	}
	for _, tt := range tests {
		if got := InitialSize(tt.words); got != tt.want {
			t.Errorf("InitialSize(%v) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestRunSingleWord(t *testing.T) {
	for _, word := range []string{"HELLO", "hello"} {
		t.Run(word, func(t *testing.T) {
			res, err := NewEngine(WithRetryBudget(1)).Run([]string{word})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			want := []string{".....", ".....", "HELLO", ".....", "....."}
			if diff := cmp.Diff(want, dotted(res.Grid)); diff != "" {
				t.Errorf("grid mismatch (-want +got):\n%s", diff)
			}
			if res.Score != 8 {
				t.Errorf("Score = %d, want 8", res.Score)
			}
			if res.Attempts != 1 || res.Grows != 0 {
				t.Errorf("Attempts, Grows = %d, %d, want 1, 0", res.Attempts, res.Grows)
			}
			if res.InitialSize != 8 {
				t.Errorf("InitialSize = %d, want 8", res.InitialSize)
			}
			wantP := []Placement{{Word: "HELLO", Row: 2, Col: 0, Axis: Horizontal}}
			if diff := cmp.Diff(wantP, res.Placements); diff != "" {
				t.Errorf("placements mismatch (-want +got):\n%s", diff)
			}
			checkLayout(t, res)
		})
	}
}

func TestRunSharedLetters(t *testing.T) {
	words := []string{"CAT", "CAR", "ARC"}
	res, err := NewEngine(WithSeed(42), WithRetryBudget(50)).Run(words)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Placements) != 3 {
		t.Fatalf("placed %d words, want 3", len(res.Placements))
	}
	if res.Score != 15 {
		t.Errorf("Score = %d, want 15", res.Score)
	}
	if shared := sharedCells(res.Placements); shared == 0 {
		t.Error("expected at least one intersection")
	}
	checkLayout(t, res)

	again, err := NewEngine(WithSeed(42), WithRetryBudget(50)).Run(words)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if diff := cmp.Diff(res.Grid.Rows(), again.Grid.Rows()); diff != "" {
		t.Errorf("same seed produced different grids (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(res.Placements, again.Placements); diff != "" {
		t.Errorf("same seed produced different placements (-first +second):\n%s", diff)
	}
}

func TestRunDuplicateWords(t *testing.T) {
	res, err := NewEngine().Run([]string{"CAT", "CAT"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Placements) != 2 {
		t.Fatalf("placed %d words, want 2", len(res.Placements))
	}
	if res.Score != 10 {
		t.Errorf("Score = %d, want 10", res.Score)
	}
	checkLayout(t, res)
}

func TestRunDisjointAlphabetsExhausts(t *testing.T) {
	hooks := &recordingHooks{}
	_, err := NewEngine(WithRetryBudget(50), WithHooks(hooks)).Run([]string{"ABC", "XYZ"})
	if !errors.Is(err, errors.ErrCodePlacementExhausted) {
		t.Fatalf("Run error = %v, want %s", err, errors.ErrCodePlacementExhausted)
	}
	if !errors.Recoverable(err) {
		t.Error("exhausted runs should be recoverable")
	}
	if hooks.attempts != 50 {
		t.Errorf("attempts = %d, want 50", hooks.attempts)
	}
	if len(hooks.grows) != 0 {
		t.Errorf("grows = %v, want none (the last word fails alone)", hooks.grows)
	}
	if hooks.err == nil {
		t.Error("OnRunComplete should receive the error")
	}
}

func TestRunStallGrowsGrid(t *testing.T) {
	hooks := &recordingHooks{}
	_, err := NewEngine(WithRetryBudget(3), WithHooks(hooks)).Run([]string{"CAT", "XYZ", "QQQ"})
	if !errors.Is(err, errors.ErrCodePlacementExhausted) {
		t.Fatalf("Run error = %v, want %s", err, errors.ErrCodePlacementExhausted)
	}
	wantGrows := [][2]int{{10, 20}, {20, 40}, {40, 80}}
	if diff := cmp.Diff(wantGrows, hooks.grows); diff != "" {
		t.Errorf("grows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{10, 20, 40}, hooks.sizes); diff != "" {
		t.Errorf("attempt sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestRunMaxSizeStopsGrowth(t *testing.T) {
	hooks := &recordingHooks{}
	_, err := NewEngine(WithRetryBudget(4), WithMaxSize(15), WithHooks(hooks)).Run([]string{"CAT", "XYZ", "QQQ"})
	if !errors.Is(err, errors.ErrCodePlacementExhausted) {
		t.Fatalf("Run error = %v, want %s", err, errors.ErrCodePlacementExhausted)
	}
	if len(hooks.grows) != 0 {
		t.Errorf("grows = %v, want none", hooks.grows)
	}
	if hooks.attempts != 4 {
		t.Errorf("attempts = %d, want 4", hooks.attempts)
	}
}

func TestRunInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		opts  []Option
	}{
		{"nil list", nil, nil},
		{"empty list", []string{}, nil},
		{"empty word", []string{"CAT", ""}, nil},
		{"digits", []string{"R2D2"}, nil},
		{"space", []string{"ICE CREAM"}, nil},
		{"zero budget", []string{"CAT"}, []Option{WithRetryBudget(0)}},
		{"negative budget", []string{"CAT"}, []Option{WithRetryBudget(-3)}},
		{"initial size above max", []string{"CAT"}, []Option{WithInitialSize(DefaultMaxSize + 1)}},
		{"initial size above lowered max", []string{"CAT"}, []Option{WithMaxSize(20), WithInitialSize(40)}},
		{"huge initial size", []string{"CAT"}, []Option{WithInitialSize(1 << 32)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewEngine(tt.opts...).Run(tt.words)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Run error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
			if res != nil {
				t.Error("failed runs must not return a result")
			}
		})
	}
}

func TestRunInitialSizeOverride(t *testing.T) {
	res, err := NewEngine(WithInitialSize(3)).Run([]string{"HELLO"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.InitialSize != 7 {
		t.Errorf("InitialSize = %d, want 7 (longest word plus margin)", res.InitialSize)
	}

	res, err = NewEngine(WithInitialSize(30)).Run([]string{"HELLO"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.InitialSize != 30 {
		t.Errorf("InitialSize = %d, want 30", res.InitialSize)
	}
}

type identityShuffler struct{ calls int }

func (s *identityShuffler) Shuffle(int, func(i, j int)) { s.calls++ }

func TestRunInjectedRandomSource(t *testing.T) {
	s := &identityShuffler{}
	res, err := NewEngine(WithRand(s)).Run([]string{"CAT", "ARC"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.calls != res.Attempts {
		t.Errorf("Shuffle called %d times, want once per attempt (%d)", s.calls, res.Attempts)
	}
	if res.Placements[0].Word != "CAT" || res.Placements[0].Axis != Horizontal {
		t.Errorf("first placement = %+v, want CAT seeded horizontally", res.Placements[0])
	}
}

func TestRunTerminates(t *testing.T) {
	inputs := [][]string{
		{"AAA", "BBB", "CCC", "DDD"},
		{"Q", "Z", "J", "X"},
		{"ZEBRA", "QUIZ", "JINX", "FOX"},
		{"ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX"},
	}
	for _, words := range inputs {
		res, err := NewEngine(WithSeed(7), WithRetryBudget(5)).Run(words)
		if err != nil {
			if !errors.Is(err, errors.ErrCodePlacementExhausted) {
				t.Errorf("Run(%v) error = %v, want nil or %s", words, err, errors.ErrCodePlacementExhausted)
			}
			continue
		}
		checkLayout(t, res)
	}
}

func TestRunLayoutInvariants(t *testing.T) {
	words := []string{"PUZZLE", "ZEBRA", "APPLE", "LEMON", "MELON", "ORANGE", "GRAPE", "PEAR"}
	successes := 0
	for seed := uint64(1); seed <= 20; seed++ {
		res, err := NewEngine(WithSeed(seed)).Run(words)
		if err != nil {
			continue
		}
		successes++
		if len(res.Placements) != len(words) {
			t.Errorf("seed %d: placed %d words, want %d", seed, len(res.Placements), len(words))
		}
		checkLayout(t, res)
	}
	if successes == 0 {
		t.Error("no seed produced a layout")
	}
}

func TestRunAffixVocabulary(t *testing.T) {
	vocab := []string{"CAT", "CATS", "SCAT", "RAT", "RATS", "CART", "CARTS", "CAR", "AT", "STAR", "SCAR", "ARC", "ARCS", "TAR", "TARS"}
	successes := 0
	for seed := uint64(1); seed <= 40; seed++ {
		rng := rand.New(rand.NewPCG(seed, 99))
		words := make([]string, 3+rng.IntN(5))
		for i := range words {
			words[i] = vocab[rng.IntN(len(vocab))]
		}
		res, err := NewEngine(WithSeed(seed), WithRetryBudget(20)).Run(words)
		if err != nil {
			if !errors.Is(err, errors.ErrCodePlacementExhausted) {
				t.Errorf("seed %d: Run(%v) error = %v, want nil or %s", seed, words, err, errors.ErrCodePlacementExhausted)
			}
			continue
		}
		successes++
		if len(res.Placements) != len(words) {
			t.Errorf("seed %d: placed %d words, want %d", seed, len(res.Placements), len(words))
		}
		checkLayout(t, res)
	}
	if successes == 0 {
		t.Error("no seed produced a layout")
	}
}

// checkLayout verifies containment, consistency, no-bleed and tightness of a
// successful result.
func checkLayout(t *testing.T, res *Result) {
	t.Helper()
	g := res.Grid
	assertTight(t, g)

	for _, p := range res.Placements {
		dr, dc := p.Axis.delta()
		for i := 0; i < len(p.Word); i++ {
			r, c := p.Cell(i)
			if !g.InBounds(r, c) {
				t.Fatalf("%+v: cell %d at (%d,%d) outside %dx%d grid", p, i, r, c, g.Size(), g.Size())
			}
			if got := g.Get(r, c); got != p.Word[i] {
				t.Errorf("%+v: cell (%d,%d) = %q, want %q", p, r, c, got, p.Word[i])
			}
			if coveredByOther(res.Placements, p, r, c) {
				continue
			}
			// perpendicular neighbours
			for _, n := range [2][2]int{{r + dc, c + dr}, {r - dc, c - dr}} {
				if !g.IsBlank(n[0], n[1]) {
					t.Errorf("%+v: cell (%d,%d) touches occupied (%d,%d)", p, r, c, n[0], n[1])
				}
			}
		}
		endR, endC := p.End()
		if !g.IsBlank(p.Row-dr, p.Col-dc) {
			t.Errorf("%+v: cell before start is occupied", p)
		}
		if !g.IsBlank(endR+dr, endC+dc) {
			t.Errorf("%+v: cell after end is occupied", p)
		}
	}

	letters := 0
	for _, row := range g.Rows() {
		for i := 0; i < len(row); i++ {
			if row[i] != Blank {
				letters++
			}
		}
	}
	covered := 0
	for r := 0; r < g.Size(); r++ {
		for c := 0; c < g.Size(); c++ {
			for _, p := range res.Placements {
				if p.Covers(r, c) {
					covered++
					break
				}
			}
		}
	}
	if letters != covered {
		t.Errorf("grid has %d letters but placements cover %d cells", letters, covered)
	}
}

func coveredByOther(ps []Placement, self Placement, r, c int) bool {
	for _, p := range ps {
		if p != self && p.Covers(r, c) {
			return true
		}
	}
	return false
}

func sharedCells(ps []Placement) int {
	n := 0
	for i, p := range ps {
		for k := 0; k < len(p.Word); k++ {
			r, c := p.Cell(k)
			for _, q := range ps[i+1:] {
				if q.Covers(r, c) {
					n++
				}
			}
		}
	}
	return n
}
