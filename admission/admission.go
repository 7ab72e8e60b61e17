// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package admission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// Rejections. Callers map these to 404, 403, 409 and 503.
var (
	ErrOptionNotFound  = errors.New("option not found")
	ErrPollUnpublished = errors.New("poll is not published")
	ErrAlreadyVoted    = errors.New("already voted in this poll")
	ErrUnavailable     = errors.New("ballot store unavailable")
)

// Ballots is the part of the ballot store that admission needs.
type Ballots interface {
	FindOption(ctx context.Context, optionID string) (models.OptionRef, error)
	FindVoteByVoterAndPoll(ctx context.Context, voterID, pollID string) (models.Vote, error)
	InsertVote(ctx context.Context, voterID, optionID string) (models.Vote, error)
}

type Tallier interface {
	Compute(ctx context.Context, pollID string) (models.Tally, error)
}

// Publisher must not block on slow subscribers.
type Publisher interface {
	Publish(pollID string, tally models.Tally)
}

type Controller struct {
	ballots   Ballots
	tallies   Tallier
	publisher Publisher
}

func NewController(ballots Ballots, tallies Tallier, publisher Publisher) *Controller {
	return &Controller{ballots: ballots, tallies: tallies, publisher: publisher}
}

// SubmitVote admits at most one vote per voter per poll. The pre-flight
// lookup only short-circuits the common case; the storage constraint on
// InsertVote is what rejects a concurrent second vote. Both report
// ErrAlreadyVoted.
//
// After the insert returns, the tally is recomputed and published in the
// same call, so broadcasts always follow durable writes.
func (c *Controller) SubmitVote(ctx context.Context, voterID, optionID string) (models.Receipt, error) {
	opt, err := c.ballots.FindOption(ctx, optionID)
	if errors.Is(err, store.ErrNotFound) {
		return c.reject(metrics.RejectNotFound, ErrOptionNotFound)
	}
	if err != nil {
		return c.unavailable("find option", err)
	}

	if !opt.PollPublished {
		return c.reject(metrics.RejectUnpublished, ErrPollUnpublished)
	}

	_, err = c.ballots.FindVoteByVoterAndPoll(ctx, voterID, opt.PollID)
	if err == nil {
		slog.Info("vote rejected", "poll_id", opt.PollID, "voter_id", voterID, "detected", "preflight")
		return c.reject(metrics.RejectConflictEarly, ErrAlreadyVoted)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return c.unavailable("find vote", err)
	}

	vote, err := c.ballots.InsertVote(ctx, voterID, optionID)
	if errors.Is(err, store.ErrDuplicateVote) {
		slog.Info("vote rejected", "poll_id", opt.PollID, "voter_id", voterID, "detected", "constraint")
		return c.reject(metrics.RejectConflictLate, ErrAlreadyVoted)
	}
	if errors.Is(err, store.ErrNotFound) {
		// poll deleted between lookup and insert
		return c.reject(metrics.RejectNotFound, ErrOptionNotFound)
	}
	if err != nil {
		return c.unavailable("insert vote", err)
	}

	metrics.VotesAccepted.Add(1)
	slog.Info("vote admitted", "poll_id", vote.PollID, "option_id", vote.OptionID, "vote_id", vote.ID)

	receipt := models.Receipt{Vote: vote}

	// The vote is durable now; finish the broadcast even if the caller gave up.
	bg := context.WithoutCancel(ctx)
	t, err := c.tallies.Compute(bg, vote.PollID)
	if err != nil {
		slog.Error("failed to compute tally after vote", "error", err, "poll_id", vote.PollID)
		return receipt, nil
	}

	c.publisher.Publish(vote.PollID, t)
	receipt.Tally = &t

	return receipt, nil
}

func (c *Controller) reject(reason string, err error) (models.Receipt, error) {
	metrics.VotesRejected.Add(reason, 1)
	return models.Receipt{}, err
}

// unavailable logs the store error and hides it from the caller.
func (c *Controller) unavailable(op string, err error) (models.Receipt, error) {
	slog.Error("ballot store failure", "op", op, "error", err)
	metrics.VotesRejected.Add(metrics.RejectUnavailable, 1)
	return models.Receipt{}, fmt.Errorf("%s: %w", op, ErrUnavailable)
}
