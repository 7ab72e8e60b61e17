// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/livepoll/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateVote = errors.New("voter already has a vote in this poll")
)

// pq error code for unique_violation
const pqUniqueViolation = "23505"

// Store is the ballot store backed by database/sql.
// Queries use $N placeholders, which both lib/pq and modernc sqlite accept.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindOption returns the option and its parent poll's published flag.
func (s *Store) FindOption(ctx context.Context, optionID string) (models.OptionRef, error) {
	var ref models.OptionRef
	err := s.db.QueryRowContext(ctx, `
		SELECT o.id, o.poll_id, o.text, p.published
		FROM poll_option o
		JOIN poll p ON p.id = o.poll_id
		WHERE o.id = $1
	`, optionID).Scan(&ref.ID, &ref.PollID, &ref.Text, &ref.PollPublished)

	if err == sql.ErrNoRows {
		return models.OptionRef{}, ErrNotFound
	}
	if err != nil {
		return models.OptionRef{}, fmt.Errorf("failed to query option: %w", err)
	}

	return ref, nil
}

// FindVoteByVoterAndPoll returns ErrNotFound when the voter has not voted.
func (s *Store) FindVoteByVoterAndPoll(ctx context.Context, voterID, pollID string) (models.Vote, error) {
	var v models.Vote
	err := s.db.QueryRowContext(ctx, `
		SELECT id, voter_id, poll_id, option_id, created_at
		FROM vote
		WHERE voter_id = $1 AND poll_id = $2
	`, voterID, pollID).Scan(&v.ID, &v.VoterID, &v.PollID, &v.OptionID, (*timestamp)(&v.CreatedAt))

	if err == sql.ErrNoRows {
		return models.Vote{}, ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to query vote: %w", err)
	}

	return v, nil
}

// InsertVote records a vote in a single statement. The poll is derived from
// the option row, so the UNIQUE (voter_id, poll_id) constraint decides
// between concurrent writers. Returns ErrDuplicateVote when it fires and
// ErrNotFound when the option no longer exists.
func (s *Store) InsertVote(ctx context.Context, voterID, optionID string) (models.Vote, error) {
	v := models.Vote{
		ID:       uuid.NewString(),
		VoterID:  voterID,
		OptionID: optionID,
	}

	// created_at comes from the column default: an untyped parameter in
	// the SELECT list would reach PostgreSQL as text
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO vote (id, voter_id, poll_id, option_id)
		SELECT $1, $2, o.poll_id, o.id
		FROM poll_option o
		WHERE o.id = $3
		RETURNING poll_id, created_at
	`, v.ID, voterID, optionID).Scan(&v.PollID, (*timestamp)(&v.CreatedAt))

	if err == sql.ErrNoRows {
		return models.Vote{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return models.Vote{}, ErrDuplicateVote
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}

	return v, nil
}

// CountVotesPerOption reads the question, the option set and every option's
// vote count in one statement, so the counts come from one snapshot.
// Returns ErrNotFound when the poll does not exist.
func (s *Store) CountVotesPerOption(ctx context.Context, pollID string) (models.PollCounts, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.question, o.id, o.text, COUNT(v.id)
		FROM poll p
		JOIN poll_option o ON o.poll_id = p.id
		LEFT JOIN vote v ON v.option_id = o.id
		WHERE p.id = $1
		GROUP BY p.question, o.id, o.text, o.position
		ORDER BY o.position
	`, pollID)
	if err != nil {
		return models.PollCounts{}, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := models.PollCounts{PollID: pollID, Options: []models.OptionCount{}}
	for rows.Next() {
		var oc models.OptionCount
		if err := rows.Scan(&counts.Question, &oc.OptionID, &oc.Text, &oc.Count); err != nil {
			return models.PollCounts{}, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts.Options = append(counts.Options, oc)
	}
	if err := rows.Err(); err != nil {
		return models.PollCounts{}, fmt.Errorf("failed to count votes: %w", err)
	}

	// A poll always has options, so no rows means no poll
	if len(counts.Options) == 0 {
		return models.PollCounts{}, ErrNotFound
	}

	return counts, nil
}

// FindPollOptions returns a poll's options in creation order.
func (s *Store) FindPollOptions(ctx context.Context, pollID string) ([]models.PollOption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, text, position
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	options := []models.PollOption{}
	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Position); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}

	return options, rows.Err()
}

// isUniqueViolation reports whether err is a unique or primary key
// violation from either supported driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// without extended result codes only the message tells them apart
			return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
		}
	}

	return false
}

// timestamp scans a column default coming back through RETURNING, which
// SQLite may hand over as text instead of a typed time.
type timestamp time.Time

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

func (t *timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = timestamp(v.UTC())
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = timestamp(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
