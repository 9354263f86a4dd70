package board

import (
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/observability"
)

const (
	// DefaultRetryBudget is the number of attempts a run may use.
	DefaultRetryBudget = 50

	// DefaultSeed seeds the shuffle source when none is configured.
	DefaultSeed uint64 = 42

	// DefaultMaxSize caps the grid dimension reached through growth.
	DefaultMaxSize = 512
)

// Shuffler is the random source used to order words at the start of each
// attempt. *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Result is a successful layout.
type Result struct {
	Grid        *Grid       // trimmed, square
	Placements  []Placement // in placement order, in Grid coordinates
	Score       int
	Attempts    int // attempts used, including the successful one
	Grows       int // grid doublings across all attempts
	InitialSize int // dimension of the first attempt's grid
}

// Engine places word lists on a grid. See the package documentation for the
// search procedure.
type Engine struct {
	rng         Shuffler
	budget      int
	initialSize int
	maxSize     int
	logger      *log.Logger
	hooks       observability.EngineHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the shuffle source.
func WithRand(s Shuffler) Option { return func(e *Engine) { e.rng = s } }

// WithSeed uses a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// WithRetryBudget sets the maximum number of attempts per run.
func WithRetryBudget(n int) Option { return func(e *Engine) { e.budget = n } }

// WithInitialSize overrides the first attempt's grid dimension. Values below
// the longest word plus two are raised to that minimum; zero restores the
// default heuristic. Run rejects values above the max size.
func WithInitialSize(n int) Option { return func(e *Engine) { e.initialSize = n } }

// WithMaxSize caps growth. A stall on a grid that cannot double without
// exceeding n ends the attempt without growing. n is clamped to MaxGridSize.
func WithMaxSize(n int) Option { return func(e *Engine) { e.maxSize = min(n, MaxGridSize) } }

// WithLogger sets the logger for attempt-level debug output.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithHooks sets the engine hooks. Defaults to observability.Engine().
func WithHooks(h observability.EngineHooks) Option { return func(e *Engine) { e.hooks = h } }

// NewEngine returns an engine with DefaultSeed and DefaultRetryBudget unless
// overridden by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		budget:  DefaultRetryBudget,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		WithSeed(DefaultSeed)(e)
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if e.hooks == nil {
		e.hooks = observability.Engine()
	}
	return e
}

// InitialSize returns the default first-attempt dimension for words:
// ceil(sqrt(10 × total letters)), but never less than the longest word plus
// a one-cell margin on each side.
func InitialSize(words []string) int {
	n := int(math.Ceil(math.Sqrt(float64(10 * totalLetters(words)))))
	return max(n, longestWord(words)+2)
}

// Run lays out words. Words are upper-cased; duplicates are placed
// independently. It returns an INVALID_INPUT error for an empty list, a
// non-letter word, a budget below one or an initial size above the max
// size, and PLACEMENT_EXHAUSTED when the budget runs out.
func (e *Engine) Run(words []string) (*Result, error) {
	start := time.Now()
	res, attempts, err := e.run(words)
	e.hooks.OnRunComplete(len(words), attempts, time.Since(start), err)
	if err != nil {
		e.logger.Debug("layout failed", "words", len(words), "attempts", attempts, "error", err)
		return nil, err
	}
	e.logger.Debug("layout complete",
		"words", len(words),
		"size", res.Grid.Size(),
		"attempts", res.Attempts,
		"grows", res.Grows,
		"duration", time.Since(start))
	return res, nil
}

type state int

const (
	stateAttemptStart state = iota
	stateSeed
	statePlace
	stateSuccess
	stateStallGrow
	stateAttemptFail
	stateTerminalFail
)

func (e *Engine) run(words []string) (*Result, int, error) {
	if e.budget < 1 {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "retry budget must be at least 1, got %d", e.budget)
	}
	if e.initialSize > e.maxSize {
		return nil, 0, errors.New(errors.ErrCodeInvalidInput, "initial size %d exceeds max size %d", e.initialSize, e.maxSize)
	}
	if err := errors.ValidateWords(words); err != nil {
		return nil, 0, err
	}
	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = strings.ToUpper(w)
	}

	size := InitialSize(normalized)
	if e.initialSize > 0 {
		size = max(e.initialSize, longestWord(normalized)+2)
	}
	grid := NewGrid(size)

	var (
		queue       []string
		placements  []Placement
		retries     int
		attempts    int
		grows       int
		stallMarker = math.MaxInt
	)

	st := stateAttemptStart
	for {
		switch st {
		case stateAttemptStart:
			attempts++
			queue = slices.Clone(normalized)
			e.rng.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
			grid.Reset()
			placements = placements[:0]
			e.hooks.OnAttemptStart(attempts, grid.Size(), len(queue))
			e.logger.Debug("attempt", "n", attempts, "size", grid.Size(), "order", queue)
			st = stateSeed

		case stateSeed:
			n := grid.Size()
			seed := Placement{Word: queue[0], Row: n / 2, Col: n/2 - len(queue[0])/2, Axis: Horizontal}
			if err := seed.commit(grid); err != nil {
				return nil, attempts, errors.Wrap(errors.ErrCodeInternal, err, "seed %q", seed.Word)
			}
			placements = append(placements, seed)
			queue = queue[1:]
			st = statePlace

		case statePlace:
			if len(queue) == 0 {
				st = stateSuccess
				continue
			}
			head := queue[0]
			if p, ok := scan(grid, head); ok {
				if err := p.commit(grid); err != nil {
					return nil, attempts, errors.Wrap(errors.ErrCodeInternal, err, "commit %q", head)
				}
				placements = append(placements, p)
				queue = queue[1:]
				continue
			}
			if len(queue) == 1 {
				st = stateAttemptFail
				continue
			}
			if len(queue) == stallMarker {
				st = stateStallGrow
				continue
			}
			queue = append(slices.Clone(queue[1:]), head)
			stallMarker = len(queue)

		case stateStallGrow:
			from := grid.Size()
			if 2*from <= e.maxSize {
				grid.Grow()
				grows++
				e.hooks.OnGrow(from, grid.Size())
				e.logger.Debug("stalled, growing grid", "from", from, "to", grid.Size(), "queued", len(queue))
			} else {
				e.logger.Debug("stalled at maximum grid size", "size", from, "queued", len(queue))
			}
			retries++
			st = e.next(retries)

		case stateAttemptFail:
			retries++
			e.logger.Debug("attempt failed", "n", attempts, "unplaced", queue[0])
			st = e.next(retries)

		case stateSuccess:
			dr, dc := grid.Trim()
			for i := range placements {
				placements[i] = placements[i].shift(dr, dc)
			}
			return &Result{
				Grid:        grid,
				Placements:  slices.Clone(placements),
				Score:       Score(normalized),
				Attempts:    attempts,
				Grows:       grows,
				InitialSize: size,
			}, attempts, nil

		case stateTerminalFail:
			return nil, attempts, errors.New(errors.ErrCodePlacementExhausted,
				"could not place %d words within %d attempts", len(normalized), e.budget)
		}
	}
}

func (e *Engine) next(retries int) state {
	if retries >= e.budget {
		return stateTerminalFail
	}
	return stateAttemptStart
}

// scan walks the grid row-major and returns the first legal placement of word
// anchored on a cell whose letter occurs in word.
func scan(g *Grid, word string) (Placement, bool) {
	n := g.Size()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			ch := g.Get(r, c)
			if ch == Blank || strings.IndexByte(word, ch) < 0 {
				continue
			}
			if p, ok := FindPlacement(g, r, c, word); ok {
				return p, true
			}
		}
	}
	return Placement{}, false
}

func totalLetters(words []string) int {
	n := 0
	for _, w := range words {
		n += len(w)
	}
	return n
}

func longestWord(words []string) int {
	n := 0
	for _, w := range words {
		n = max(n, len(w))
	}
	return n
}
