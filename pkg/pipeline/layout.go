package pipeline

import (
	"github.com/matzehuels/wordtiles/pkg/board"
)

// GenerateLayout places opts.Words with a fresh engine. Each call owns its
// engine, so concurrent calls never share a shuffle source.
func GenerateLayout(opts Options) (board.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return board.Layout{}, err
	}
	engine := board.NewEngine(
		board.WithSeed(opts.Seed),
		board.WithRetryBudget(opts.RetryBudget),
		board.WithInitialSize(opts.InitialSize),
		board.WithLogger(opts.Logger),
	)
	res, err := engine.Run(opts.Words)
	if err != nil {
		return board.Layout{}, err
	}
	return res.Layout(), nil
}
