// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the durable record of polls, options and votes.

All queries go through database/sql with $N placeholders, so the same
Store runs on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

# One vote per poll

The vote table carries UNIQUE (voter_id, poll_id). InsertVote derives the
poll from the option row inside the INSERT, so two concurrent inserts for
the same voter and poll cannot both succeed; the loser gets
ErrDuplicateVote:

	vote, err := s.InsertVote(ctx, voterID, optionID)
	if errors.Is(err, store.ErrDuplicateVote) {
		// already voted
	}

# Counting

CountVotesPerOption returns every option of a poll with its vote count,
options with no votes included, in creation order. The read is a single
statement so the counts share one snapshot.
*/
package store
