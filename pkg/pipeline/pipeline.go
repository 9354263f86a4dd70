// Package pipeline runs the layout → render pipeline shared by the CLI, the
// HTTP server and the intake processor.
//
// # Stages
//
//  1. Layout: place the order's words with a [board.Engine] and keep the
//     trimmed grid, its placements and its score.
//  2. Render: turn the layout into artifacts (board PNG, poster PNG, layout
//     JSON, plain text).
//
// Both stages are cached through a [cache.Cache]. A layout is keyed by the
// word list and every engine setting, so a cached layout is exactly the one a
// fresh run with the same seed would produce.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Words:   []string{"CAT", "CAR", "ARC"},
//	    TopText: "Happy Birthday",
//	    Formats: []string{pipeline.FormatPNG, pipeline.FormatPoster},
//	})
//	if err != nil {
//	    return err
//	}
//	png := result.Artifacts[pipeline.FormatPNG]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordtiles/pkg/board"
	"github.com/matzehuels/wordtiles/pkg/cache"
	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/order"
	"github.com/matzehuels/wordtiles/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Intake
// =============================================================================

const (
	// DefaultRetryBudget is the number of engine attempts per layout.
	DefaultRetryBudget = board.DefaultRetryBudget

	// MaxRetryBudget bounds the retry budget a caller may request.
	MaxRetryBudget = 1000

	// MaxInitialSize bounds a requested first-attempt grid dimension.
	MaxInitialSize = board.DefaultMaxSize

	// MinTileSize and MaxTileSize bound the tile edge in pixels.
	MinTileSize = 8
	MaxTileSize = 512

	// DefaultSeed is the default shuffle seed for reproducibility.
	DefaultSeed = board.DefaultSeed

	// DefaultTileSize is the edge length of a letter tile in pixels.
	DefaultTileSize = render.DefaultTileSize
)

// Format constants for output formats.
const (
	FormatPNG    = "png"
	FormatPoster = "poster"
	FormatJSON   = "json"
	FormatTXT    = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:    true,
	FormatPoster: true,
	FormatJSON:   true,
	FormatTXT:    true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run. It supports JSON
// for API requests.
type Options struct {
	// Order
	Words   []string `json:"words"`
	TopText string   `json:"top_text,omitempty"`
	OrderID string   `json:"order_id,omitempty"`

	// Layout options
	RetryBudget int    `json:"retry_budget,omitempty"`
	Seed        uint64 `json:"seed,omitempty"`
	InitialSize int    `json:"initial_size,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	TileSize   int      `json:"tile_size,omitempty"`
	GlyphDir   string   `json:"-"`
	Background string   `json:"-"` // PNG file scaled behind the poster

	// Runtime options (not serialized)
	Logger *log.Logger           `json:"-"`
	Poster *render.PosterOptions `json:"-"` // nil means render.DefaultPosterOptions
}

// FromOrder returns options for an order with everything else defaulted.
func FromOrder(o order.Order) Options {
	return Options{
		Words:   slices.Clone(o.Words),
		TopText: o.TopText,
		OrderID: o.OrderID,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the placed board.
	Layout board.Layout

	// LayoutHash is the content hash of the layout JSON.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Words      int
	GridSize   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact came from the cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format %q (must be one of: png, poster, json, txt)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the word list and formats and fills in
// defaults. Words are upper-cased and trimmed.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForLayout normalises and checks the word list and engine settings.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	words := make([]string, len(o.Words))
	for i, w := range o.Words {
		words[i] = strings.ToUpper(strings.TrimSpace(w))
	}
	if err := errors.ValidateWords(words); err != nil {
		return err
	}
	o.Words = words
	if o.RetryBudget < 1 || o.RetryBudget > MaxRetryBudget {
		return errors.New(errors.ErrCodeInvalidInput, "retry budget %d out of range [1, %d]", o.RetryBudget, MaxRetryBudget)
	}
	if o.InitialSize < 0 || o.InitialSize > MaxInitialSize {
		return errors.New(errors.ErrCodeInvalidInput, "initial size %d out of range [0, %d]", o.InitialSize, MaxInitialSize)
	}
	return nil
}

// ValidateForRender checks render settings.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.TileSize < MinTileSize || o.TileSize > MaxTileSize {
		return errors.New(errors.ErrCodeInvalidInput, "tile size %d out of range [%d, %d]", o.TileSize, MinTileSize, MaxTileSize)
	}
	if len(o.TopText) > order.MaxTopTextLength {
		return errors.New(errors.ErrCodeInvalidInput, "top text too long (max %d characters)", order.MaxTopTextLength)
	}
	return ValidateFormats(o.Formats)
}

// SetLayoutDefaults sets default engine settings.
func (o *Options) SetLayoutDefaults() {
	if o.RetryBudget == 0 {
		o.RetryBudget = DefaultRetryBudget
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default render settings.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.TileSize == 0 {
		o.TileSize = DefaultTileSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Seed:        o.Seed,
		RetryBudget: o.RetryBudget,
		InitialSize: o.InitialSize,
	}
}

// ArtifactKeyOpts returns cache key options for one artifact. Settings that
// do not affect format are left out so, for example, a txt artifact is shared
// across tile sizes.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		k.TileSize, k.GlyphDir = o.TileSize, o.GlyphDir
	case FormatPoster:
		k.TileSize, k.GlyphDir = o.TileSize, o.GlyphDir
		k.TopText, k.Background = o.TopText, o.Background
	}
	return k
}
