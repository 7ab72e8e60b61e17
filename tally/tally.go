// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally turns per-option vote counts into percentages.
package tally

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

var ErrPollNotFound = errors.New("poll not found")

// Source supplies one consistent snapshot of a poll's vote counts.
type Source interface {
	CountVotesPerOption(ctx context.Context, pollID string) (models.PollCounts, error)
}

// Engine recomputes tallies from the stored votes on every call.
// It keeps no counters of its own.
type Engine struct {
	source Source
}

func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Compute returns the current tally for a poll.
func (e *Engine) Compute(ctx context.Context, pollID string) (models.Tally, error) {
	counts, err := e.source.CountVotesPerOption(ctx, pollID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Tally{}, ErrPollNotFound
	}
	if err != nil {
		return models.Tally{}, fmt.Errorf("failed to read vote counts: %w", err)
	}

	return Summarize(counts), nil
}

// Summarize turns raw counts into a tally. Each percentage is rounded on its
// own, so the percentages may not add up to exactly 100.
func Summarize(counts models.PollCounts) models.Tally {
	total := 0
	for _, oc := range counts.Options {
		total += oc.Count
	}

	options := make([]models.OptionTally, 0, len(counts.Options))
	for _, oc := range counts.Options {
		options = append(options, models.OptionTally{
			ID:         oc.OptionID,
			Text:       oc.Text,
			VoteCount:  oc.Count,
			Percentage: Percentage(oc.Count, total),
		})
	}

	return models.Tally{
		PollID:     counts.PollID,
		Question:   counts.Question,
		TotalVotes: total,
		Options:    options,
	}
}

// Percentage returns round(100*count/total), or 0 when total is 0.
func Percentage(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(count) / float64(total)))
}
