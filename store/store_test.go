// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/danielhkuo/livepoll/store"
	"github.com/danielhkuo/livepoll/testutil"
)

func TestFindOption(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll := testutil.CreateTestPoll(t, conn, "owner", false, "Red", "Blue")

	ref, err := s.FindOption(ctx, poll.Options[1].ID)
	if err != nil {
		t.Fatalf("FindOption() error = %v", err)
	}
	if ref.PollID != poll.ID {
		t.Errorf("PollID = %q, want %q", ref.PollID, poll.ID)
	}
	if ref.Text != "Blue" {
		t.Errorf("Text = %q, want Blue", ref.Text)
	}
	if ref.PollPublished {
		t.Error("PollPublished should be false for a draft poll")
	}

	if _, err := s.FindOption(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindOption(missing) error = %v, want ErrNotFound", err)
	}
}

func TestInsertVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll := testutil.CreateTestPoll(t, conn, "owner", true)

	vote, err := s.InsertVote(ctx, "alice", poll.Options[0].ID)
	if err != nil {
		t.Fatalf("InsertVote() error = %v", err)
	}
	if vote.ID == "" {
		t.Error("vote ID should be generated")
	}
	if vote.PollID != poll.ID {
		t.Errorf("PollID = %q, want %q", vote.PollID, poll.ID)
	}

	found, err := s.FindVoteByVoterAndPoll(ctx, "alice", poll.ID)
	if err != nil {
		t.Fatalf("FindVoteByVoterAndPoll() error = %v", err)
	}
	if found.ID != vote.ID || found.OptionID != poll.Options[0].ID {
		t.Errorf("found vote %+v, want %+v", found, vote)
	}

	if _, err := s.FindVoteByVoterAndPoll(ctx, "bob", poll.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindVoteByVoterAndPoll(bob) error = %v, want ErrNotFound", err)
	}
}

func TestInsertVoteMatchesStoredRow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll := testutil.CreateTestPoll(t, conn, "owner", true)

	vote, err := s.InsertVote(ctx, "alice", poll.Options[1].ID)
	if err != nil {
		t.Fatalf("InsertVote() error = %v", err)
	}
	if vote.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should come back from the insert")
	}

	stored, err := s.FindVoteByVoterAndPoll(ctx, "alice", poll.ID)
	if err != nil {
		t.Fatalf("FindVoteByVoterAndPoll() error = %v", err)
	}
	if stored.ID != vote.ID || stored.VoterID != vote.VoterID ||
		stored.PollID != vote.PollID || stored.OptionID != vote.OptionID {
		t.Errorf("stored vote %+v, returned %+v", stored, vote)
	}
	if !stored.CreatedAt.Equal(vote.CreatedAt) {
		t.Errorf("stored CreatedAt = %v, returned %v", stored.CreatedAt, vote.CreatedAt)
	}
}

func TestInsertVoteRejectsSecondVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll := testutil.CreateTestPoll(t, conn, "owner", true)
	other := testutil.CreateTestPoll(t, conn, "owner", true)

	if _, err := s.InsertVote(ctx, "alice", poll.Options[0].ID); err != nil {
		t.Fatalf("first vote: %v", err)
	}

	tests := []struct {
		name     string
		optionID string
		wantErr  error
	}{
		{"same option", poll.Options[0].ID, store.ErrDuplicateVote},
		{"different option", poll.Options[2].ID, store.ErrDuplicateVote},
		{"unknown option", "missing", store.ErrNotFound},
		{"other poll", other.Options[0].ID, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.InsertVote(ctx, "alice", tt.optionID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("InsertVote() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInsertVoteConcurrent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll := testutil.CreateTestPoll(t, conn, "owner", true, "A", "B", "C", "D", "E")

	var wg sync.WaitGroup
	results := make(chan error, len(poll.Options)*2)
	for i := 0; i < len(poll.Options)*2; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := s.InsertVote(ctx, "alice", poll.Options[idx%len(poll.Options)].ID)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var accepted, duplicates int
	for err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, store.ErrDuplicateVote):
			duplicates++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if accepted != 1 {
		t.Errorf("accepted = %d, want 1", accepted)
	}
	if duplicates != len(poll.Options)*2-1 {
		t.Errorf("duplicates = %d, want %d", duplicates, len(poll.Options)*2-1)
	}
}

func TestCountVotesPerOption(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll := testutil.CreateTestPoll(t, conn, "owner", true, "A", "B", "C")
	testutil.CastTestVote(t, conn, "v1", poll.Options[1].ID)
	testutil.CastTestVote(t, conn, "v2", poll.Options[1].ID)
	testutil.CastTestVote(t, conn, "v3", poll.Options[2].ID)

	// votes in another poll must not leak in
	other := testutil.CreateTestPoll(t, conn, "owner", true)
	testutil.CastTestVote(t, conn, "v1", other.Options[0].ID)

	counts, err := s.CountVotesPerOption(ctx, poll.ID)
	if err != nil {
		t.Fatalf("CountVotesPerOption() error = %v", err)
	}

	if counts.Question != "Test Poll" {
		t.Errorf("Question = %q", counts.Question)
	}

	want := []struct {
		text  string
		count int
	}{{"A", 0}, {"B", 2}, {"C", 1}}

	if len(counts.Options) != len(want) {
		t.Fatalf("got %d options, want %d", len(counts.Options), len(want))
	}
	for i, w := range want {
		got := counts.Options[i]
		if got.Text != w.text || got.Count != w.count {
			t.Errorf("option %d = %s:%d, want %s:%d", i, got.Text, got.Count, w.text, w.count)
		}
		if got.OptionID != poll.Options[i].ID {
			t.Errorf("option %d ID = %q, want %q", i, got.OptionID, poll.Options[i].ID)
		}
	}

	if _, err := s.CountVotesPerOption(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("CountVotesPerOption(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPollLifecycle(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	created, err := s.CreatePoll(ctx, "owner", "Lunch?", []string{"Pizza", "Sushi"}, false)
	if err != nil {
		t.Fatalf("CreatePoll() error = %v", err)
	}
	if len(created.Options) != 2 || created.Options[1].Position != 1 {
		t.Errorf("unexpected options: %+v", created.Options)
	}

	got, err := s.GetPoll(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetPoll() error = %v", err)
	}
	if got.Question != "Lunch?" || got.Published || got.OwnerID != "owner" {
		t.Errorf("GetPoll() = %+v", got)
	}

	published := true
	updated, err := s.UpdatePoll(ctx, created.ID, nil, &published)
	if err != nil {
		t.Fatalf("UpdatePoll() error = %v", err)
	}
	if !updated.Published || updated.Question != "Lunch?" {
		t.Errorf("UpdatePoll() = %+v", updated)
	}

	question := "Dinner?"
	if _, err := s.UpdatePoll(ctx, created.ID, &question, nil); err != nil {
		t.Fatalf("UpdatePoll(question) error = %v", err)
	}
	got, _ = s.GetPoll(ctx, created.ID)
	if got.Question != "Dinner?" || !got.Published {
		t.Errorf("after update: %+v", got)
	}

	if _, err := s.UpdatePoll(ctx, "missing", &question, nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdatePoll(missing) error = %v, want ErrNotFound", err)
	}

	testutil.CastTestVote(t, conn, "alice", created.Options[0].ID)

	if err := s.DeletePoll(ctx, created.ID); err != nil {
		t.Fatalf("DeletePoll() error = %v", err)
	}
	if _, err := s.GetPoll(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetPoll after delete error = %v, want ErrNotFound", err)
	}
	if _, err := s.FindOption(ctx, created.Options[0].ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("options should be deleted with the poll")
	}

	var votes int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote`).Scan(&votes); err != nil {
		t.Fatal(err)
	}
	if votes != 0 {
		t.Errorf("%d votes survived poll deletion", votes)
	}

	if err := s.DeletePoll(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeletePoll error = %v, want ErrNotFound", err)
	}
}

func TestListPolls(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		p, err := s.CreatePoll(ctx, "owner", fmt.Sprintf("Q%d", i), []string{"a", "b"}, true)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}
	testutil.CreateTestPoll(t, conn, "someone-else", true)

	polls, err := s.ListPolls(ctx, "owner")
	if err != nil {
		t.Fatalf("ListPolls() error = %v", err)
	}
	if len(polls) != 3 {
		t.Fatalf("got %d polls, want 3", len(polls))
	}
	if polls[0].ID != ids[2] {
		t.Errorf("newest poll should come first, got %s", polls[0].Question)
	}

	empty, err := s.ListPolls(ctx, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListPolls(nobody) = %v, want empty slice", empty)
	}
}

func TestFindPollOptions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)

	poll := testutil.CreateTestPoll(t, conn, "owner", true, "x", "y", "z")

	opts, err := s.FindPollOptions(context.Background(), poll.ID)
	if err != nil {
		t.Fatalf("FindPollOptions() error = %v", err)
	}
	if len(opts) != 3 {
		t.Fatalf("got %d options, want 3", len(opts))
	}
	for i, opt := range opts {
		if opt.Position != i || opt.Text != poll.Options[i].Text {
			t.Errorf("option %d = %+v", i, opt)
		}
	}
}
