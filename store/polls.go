// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/livepoll/models"
)

// CreatePoll inserts a poll and its options in one transaction.
// Options are stored in the given order.
func (s *Store) CreatePoll(ctx context.Context, ownerID, question string, options []string, published bool) (models.PollWithOptions, error) {
	now := time.Now().UTC()
	poll := models.Poll{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Question:  question,
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, owner_id, question, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, poll.ID, poll.OwnerID, poll.Question, poll.Published, poll.CreatedAt, poll.UpdatedAt)
	if err != nil {
		return models.PollWithOptions{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	opts := make([]models.PollOption, 0, len(options))
	for i, text := range options {
		opt := models.PollOption{
			ID:       uuid.NewString(),
			PollID:   poll.ID,
			Text:     text,
			Position: i,
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (id, poll_id, text, position)
			VALUES ($1, $2, $3, $4)
		`, opt.ID, opt.PollID, opt.Text, opt.Position)
		if err != nil {
			return models.PollWithOptions{}, fmt.Errorf("failed to insert option: %w", err)
		}
		opts = append(opts, opt)
	}

	if err := tx.Commit(); err != nil {
		return models.PollWithOptions{}, fmt.Errorf("failed to commit poll: %w", err)
	}

	return models.PollWithOptions{Poll: poll, Options: opts}, nil
}

func (s *Store) GetPoll(ctx context.Context, pollID string) (models.Poll, error) {
	var p models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, question, published, created_at, updated_at
		FROM poll
		WHERE id = $1
	`, pollID).Scan(&p.ID, &p.OwnerID, &p.Question, &p.Published, &p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.Poll{}, ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	return p, nil
}

// ListPolls returns the polls owned by ownerID, newest first.
func (s *Store) ListPolls(ctx context.Context, ownerID string) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, question, published, created_at, updated_at
		FROM poll
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var p models.Poll
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Question, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, p)
	}

	return polls, rows.Err()
}

// UpdatePoll changes the question and/or published flag. Nil arguments
// keep the stored value. Existing votes are untouched.
func (s *Store) UpdatePoll(ctx context.Context, pollID string, question *string, published *bool) (models.Poll, error) {
	current, err := s.GetPoll(ctx, pollID)
	if err != nil {
		return models.Poll{}, err
	}

	if question != nil {
		current.Question = *question
	}
	if published != nil {
		current.Published = *published
	}
	current.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE poll
		SET question = $1, published = $2, updated_at = $3
		WHERE id = $4
	`, current.Question, current.Published, current.UpdatedAt, pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to update poll: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return models.Poll{}, ErrNotFound
	}

	return current, nil
}

// DeletePoll removes the poll; options and votes go with it via cascade.
func (s *Store) DeletePoll(ctx context.Context, pollID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
