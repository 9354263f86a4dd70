// Package cache stores computed layouts and rendered artifacts so that the
// same order is never laid out or drawn twice.
//
// # Backends
//
//   - [FileCache]: one file per key under a directory, used by the CLI.
//   - [RedisCache]: a shared Redis instance, used by the HTTP server and by
//     several intake workers pointing at the same store.
//   - [NullCache]: caching disabled.
//
// # Keys
//
// A [Keyer] derives keys from everything that influences a result: the word
// list, seed, retry budget and initial size for layouts, and the layout hash
// plus render settings for artifacts. Keys are prefix:sha256 strings, so the
// same input always maps to the same entry across processes.
package cache

import (
	"context"
	"strings"
	"time"
)

// Default time-to-live values.
const (
	LayoutTTL   = 30 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// LayoutKeyOpts are the engine settings that change a layout.
type LayoutKeyOpts struct {
	Seed        uint64 `json:"seed"`
	RetryBudget int    `json:"retry_budget"`
	InitialSize int    `json:"initial_size,omitempty"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	TileSize   int    `json:"tile_size,omitempty"`
	GlyphDir   string `json:"glyph_dir,omitempty"`
	TopText    string `json:"top_text,omitempty"`
	Background string `json:"background,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(words []string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes normalised inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the upper-cased word list in order together with opts.
// Order matters because the shuffle permutes list positions.
func (DefaultKeyer) LayoutKey(words []string, opts LayoutKeyOpts) string {
	norm := make([]string, len(words))
	for i, w := range words {
		norm[i] = strings.ToUpper(strings.TrimSpace(w))
	}
	return hashKey("layout", norm, opts)
}

// ArtifactKey hashes a layout hash with render settings.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
