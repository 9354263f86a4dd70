// Package config loads wordtiles settings from a TOML file.
//
// Every field has a default, so a missing file is the same as an empty one.
// Command-line flags override whatever the file sets.
//
//	[orders]
//	json_dir = "orders"
//	output_dir = "output"
//	concurrency = 4
//	interval = "1m"
//
//	[engine]
//	retry_budget = 50
//	seed = 42
//
//	[render]
//	tile_size = 64
//	glyph_dir = "tiles"
//	background = "background.png"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/wordtiles/pkg/errors"
	"github.com/matzehuels/wordtiles/pkg/pipeline"
)

const appName = "wordtiles"

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration.
type Config struct {
	Orders OrdersConfig `toml:"orders"`
	Engine EngineConfig `toml:"engine"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// OrdersConfig controls order intake.
type OrdersConfig struct {
	JSONDir     string   `toml:"json_dir"`
	OutputDir   string   `toml:"output_dir"`
	Concurrency int      `toml:"concurrency"`
	Interval    Duration `toml:"interval"`
	Debounce    Duration `toml:"debounce"`
}

// EngineConfig controls the placement search.
type EngineConfig struct {
	RetryBudget int    `toml:"retry_budget"`
	Seed        uint64 `toml:"seed"`
	InitialSize int    `toml:"initial_size"`
}

// RenderConfig controls images.
type RenderConfig struct {
	TileSize   int    `toml:"tile_size"`
	GlyphDir   string `toml:"glyph_dir"`
	Background string `toml:"background"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "90s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Orders: OrdersConfig{
			JSONDir:   "orders",
			OutputDir: "output",
			Interval:  Duration{time.Minute},
			Debounce:  Duration{500 * time.Millisecond},
		},
		Engine: EngineConfig{
			RetryBudget: pipeline.DefaultRetryBudget,
			Seed:        pipeline.DefaultSeed,
		},
		Render: RenderConfig{TileSize: pipeline.DefaultTileSize},
		Cache:  CacheConfig{Backend: BackendFile},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/wordtiles/config.toml, falling back
// to ~/.config/wordtiles/config.toml.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, FileName), nil
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault reads the file at DefaultPath if it exists and returns the
// defaults otherwise.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Engine.RetryBudget < 1 || c.Engine.RetryBudget > pipeline.MaxRetryBudget:
		return errors.New(errors.ErrCodeInvalidConfig, "engine.retry_budget must be between 1 and %d", pipeline.MaxRetryBudget)
	case c.Engine.InitialSize < 0 || c.Engine.InitialSize > pipeline.MaxInitialSize:
		return errors.New(errors.ErrCodeInvalidConfig, "engine.initial_size must be between 0 and %d", pipeline.MaxInitialSize)
	case c.Render.TileSize < pipeline.MinTileSize || c.Render.TileSize > pipeline.MaxTileSize:
		return errors.New(errors.ErrCodeInvalidConfig, "render.tile_size must be between %d and %d", pipeline.MinTileSize, pipeline.MaxTileSize)
	case c.Orders.Concurrency < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "orders.concurrency must not be negative")
	case c.Orders.Interval.Duration < 0 || c.Orders.Debounce.Duration < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "orders durations must not be negative")
	case !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend):
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of file, redis, none", c.Cache.Backend)
	case c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "":
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	return nil
}

// Template returns pipeline options carrying the engine and render settings.
func (c Config) Template() pipeline.Options {
	return pipeline.Options{
		RetryBudget: c.Engine.RetryBudget,
		Seed:        c.Engine.Seed,
		InitialSize: c.Engine.InitialSize,
		TileSize:    c.Render.TileSize,
		GlyphDir:    c.Render.GlyphDir,
		Background:  c.Render.Background,
	}
}

// Encode writes c as TOML.
func Encode(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}
