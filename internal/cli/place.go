package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordtiles/pkg/intake"
	"github.com/matzehuels/wordtiles/pkg/pipeline"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	output      string // directory for rendered files; empty prints the board only
	formats     string // comma-separated pipeline formats
	topText     string // poster headline
	seed        uint64 // shuffle seed
	budget      int    // failed attempts allowed before the grid grows
	initialSize int    // starting grid size; 0 derives it from the words
	tileSize    int    // tile edge in pixels
	glyphDir    string // directory of <letter>.png tiles
	background  string // PNG drawn behind the poster
	noCache     bool   // bypass the cache
}

// placeCommand creates the place command for laying out an ad-hoc word list.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place WORD...",
		Short: "Place words on a board and print it",
		Long: `Place lays out words so that every word after the first crosses an earlier one.

Words may be separated by spaces or commas. With --output, the board is also
rendered to files named after the format (boardImage.png, poster.png,
layout.json, board.txt).`,
		Example: `  wordtiles place CAT CAR ARC
  wordtiles place "HELLO,WORLD" --formats png,poster --top-text "Hi" -o out/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(cmd.Context(), parseWords(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write rendered files to this directory")
	cmd.Flags().StringVarP(&opts.formats, "formats", "f", "", "output format(s): png (default), poster, json, txt (comma-separated)")
	cmd.Flags().StringVar(&opts.topText, "top-text", "", "poster headline")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "shuffle seed (default from config)")
	cmd.Flags().IntVar(&opts.budget, "budget", 0, "failed attempts before the grid grows (default from config)")
	cmd.Flags().IntVar(&opts.initialSize, "initial-size", 0, "starting grid size (0 derives it from the words)")
	cmd.Flags().IntVar(&opts.tileSize, "tile-size", 0, "tile edge in pixels (default from config)")
	cmd.Flags().StringVar(&opts.glyphDir, "glyphs", "", "directory of <letter>.png tiles (default: drawn tiles)")
	cmd.Flags().StringVar(&opts.background, "background", "", "PNG drawn behind the poster")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the cache")

	return cmd
}

// options merges the flags over the configured template.
func (o placeOpts) options(tmpl pipeline.Options, words []string) pipeline.Options {
	p := tmpl
	p.Words = words
	p.TopText = o.topText
	p.Formats = parseFormats(o.formats)
	if o.seed != 0 {
		p.Seed = o.seed
	}
	if o.budget != 0 {
		p.RetryBudget = o.budget
	}
	if o.initialSize != 0 {
		p.InitialSize = o.initialSize
	}
	if o.tileSize != 0 {
		p.TileSize = o.tileSize
	}
	if o.glyphDir != "" {
		p.GlyphDir = o.glyphDir
	}
	if o.background != "" {
		p.Background = o.background
	}
	return p
}

func (c *CLI) runPlace(ctx context.Context, words []string, opts placeOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	popts := opts.options(c.Config.Template(), words)
	popts.Logger = logger
	if opts.output == "" {
		// Only the layout is needed to print the board.
		popts.Formats = []string{pipeline.FormatJSON}
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d words", res.Stats.Words))

	printGrid(res.Layout)
	printStats(res)

	if opts.output == "" {
		return nil
	}
	paths, err := writeArtifacts(opts.output, res.Artifacts)
	if err != nil {
		return err
	}
	printSuccess("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each artifact into dir and returns the sorted paths.
func writeArtifacts(dir string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	var paths []string
	for format, data := range artifacts {
		path := filepath.Join(dir, intake.FileName(format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths, nil
}
