// Package board lays out a list of words on a square letter grid, crossword
// style, and scores the result.
//
// # Overview
//
// Every word after the first must cross a word that is already on the grid by
// sharing one of its letters. Placed words never touch each other except at
// that shared cell, so the grid never spells accidental extra words. Once all
// words are placed the grid is trimmed to the smallest square that holds them.
//
// # Basic Usage
//
// Create an [Engine] with options and call [Engine.Run]:
//
//	e := board.NewEngine(board.WithSeed(42), board.WithRetryBudget(50))
//	res, err := e.Run([]string{"CAT", "CAR", "ARC"})
//	if errors.Is(err, errors.ErrCodePlacementExhausted) {
//	    // no layout within the budget
//	}
//	fmt.Print(res.Grid)
//
// # Search
//
// A run is a sequence of attempts. Each attempt shuffles the words, seeds the
// first one horizontally in the middle of the grid and then places the rest
// one at a time. For the word at the head of the queue the grid is scanned
// row-major for an anchor: a letter that also occurs in the word.
// [FindPlacement] tries every position of that letter in the word, vertical
// before horizontal, and returns the first legal placement. Committed words
// are never moved within an attempt.
//
// A word that fits nowhere is rotated to the back of the queue. When a full
// rotation places nothing the grid is doubled with [Grid.Grow] and a new
// attempt starts on the larger canvas. The retry budget caps the number of
// attempts, so every run terminates, even for words with no common letters.
//
// # Determinism
//
// The shuffle source is injected with [WithRand] or [WithSeed]. Two engines
// built with the same seed produce identical layouts for the same input.
//
// # Concurrency
//
// An [Engine] is not safe for concurrent use. Create one per goroutine; they
// share nothing.
package board
