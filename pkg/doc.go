// Package pkg provides the libraries behind wordtiles, which lays out word
// lists as crossword-style letter-tile boards.
//
// # Overview
//
// Every word after the first must cross an earlier one, no word may touch
// another except where they cross, and the finished board is trimmed to the
// tightest square. The pkg directory is organized into these areas:
//
//  1. [board] - Placement engine, grid, overlap rules and scoring
//  2. [order] - Customer order files and their validation
//  3. [render] and [fonts] - Letter tiles, board images and posters
//  4. [pipeline] - Orchestration (layout → render) with caching
//  5. [intake] - Pending-order discovery, concurrent processing, directory watching
//  6. [server] - HTTP API
//  7. [cache], [config], [errors], [observability], [buildinfo] - Infrastructure
//
// # Architecture
//
// The typical data flow through wordtiles:
//
//	orders/<id>.json
//	       ↓
//	  [order] package (decode + validate)
//	       ↓
//	  [board] package (shuffle, seed, place, grow, trim, score)
//	       ↓
//	  [render] package (tiles, crop, poster)
//	       ↓
//	output/<id>/boardImage.png, poster.png, layout.json
//
// # Quick Start
//
// Place a word list and print the board:
//
//	import "github.com/matzehuels/wordtiles/pkg/board"
//
//	res, err := board.NewEngine(board.WithSeed(42)).Run([]string{"CAT", "CAR", "ARC"})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(res.Grid)
//	fmt.Println("score:", res.Score)
//
// Or run the cached pipeline end to end:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Words:   []string{"CAT", "CAR", "ARC"},
//	    TopText: "Happy Birthday",
//	    Formats: []string{pipeline.FormatPNG, pipeline.FormatPoster},
//	})
//
// # Error Handling
//
// Failures carry an [errors.Code]. An exhausted search is
// [errors.ErrCodePlacementExhausted]; intake leaves such orders pending so
// they are retried on the next scan.
package pkg
