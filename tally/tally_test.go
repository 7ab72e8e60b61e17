// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

type fakeSource struct {
	counts models.PollCounts
	err    error
}

func (f *fakeSource) CountVotesPerOption(ctx context.Context, pollID string) (models.PollCounts, error) {
	return f.counts, f.err
}

func pollCounts(counts ...int) models.PollCounts {
	pc := models.PollCounts{PollID: "poll-1", Question: "Pick one"}
	for i, c := range counts {
		pc.Options = append(pc.Options, models.OptionCount{
			OptionID: string(rune('A' + i)),
			Text:     "Option " + string(rune('A'+i)),
			Count:    c,
		})
	}
	return pc
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		counts      []int
		wantTotal   int
		wantPercent []int
	}{
		{"empty poll reports zeros", []int{0, 0, 0}, 0, []int{0, 0, 0}},
		{"even split", []int{1, 1, 0}, 2, []int{50, 50, 0}},
		{"single winner", []int{4, 0}, 4, []int{100, 0}},
		{"thirds do not sum to 100", []int{1, 1, 1}, 3, []int{33, 33, 33}},
		{"two thirds round up", []int{2, 1}, 3, []int{67, 33}},
		{"half rounds away from zero", []int{1, 7}, 8, []int{13, 88}},
		{"sixths sum above 100", []int{1, 1, 1, 1, 1, 1}, 6, []int{17, 17, 17, 17, 17, 17}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(pollCounts(tt.counts...))

			if got.TotalVotes != tt.wantTotal {
				t.Errorf("TotalVotes = %d, want %d", got.TotalVotes, tt.wantTotal)
			}
			if len(got.Options) != len(tt.wantPercent) {
				t.Fatalf("got %d options, want %d", len(got.Options), len(tt.wantPercent))
			}
			for i, opt := range got.Options {
				if opt.VoteCount != tt.counts[i] {
					t.Errorf("option %d VoteCount = %d, want %d", i, opt.VoteCount, tt.counts[i])
				}
				if opt.Percentage != tt.wantPercent[i] {
					t.Errorf("option %d Percentage = %d, want %d", i, opt.Percentage, tt.wantPercent[i])
				}
			}
		})
	}
}

func TestSummarizeKeepsOptionOrder(t *testing.T) {
	got := Summarize(pollCounts(0, 5, 2))

	want := []string{"A", "B", "C"}
	for i, opt := range got.Options {
		if opt.ID != want[i] {
			t.Errorf("option %d ID = %q, want %q", i, opt.ID, want[i])
		}
	}
	if got.PollID != "poll-1" || got.Question != "Pick one" {
		t.Errorf("unexpected poll fields: %+v", got)
	}
}

func TestPercentage(t *testing.T) {
	if p := Percentage(3, 0); p != 0 {
		t.Errorf("Percentage(3, 0) = %d, want 0", p)
	}
	if p := Percentage(0, 10); p != 0 {
		t.Errorf("Percentage(0, 10) = %d, want 0", p)
	}
	if p := Percentage(10, 10); p != 100 {
		t.Errorf("Percentage(10, 10) = %d, want 100", p)
	}
}

func TestComputeMapsNotFound(t *testing.T) {
	engine := NewEngine(&fakeSource{err: store.ErrNotFound})

	_, err := engine.Compute(context.Background(), "missing")
	if !errors.Is(err, ErrPollNotFound) {
		t.Errorf("expected ErrPollNotFound, got %v", err)
	}
}

func TestComputeWrapsStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	engine := NewEngine(&fakeSource{err: boom})

	_, err := engine.Compute(context.Background(), "poll-1")
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
	if errors.Is(err, ErrPollNotFound) {
		t.Error("store failure must not look like a missing poll")
	}
}

func TestComputeFromSource(t *testing.T) {
	engine := NewEngine(&fakeSource{counts: pollCounts(1, 1, 0)})

	got, err := engine.Compute(context.Background(), "poll-1")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got.TotalVotes != 2 {
		t.Errorf("TotalVotes = %d, want 2", got.TotalVotes)
	}
	if got.Options[0].Percentage != 50 || got.Options[1].Percentage != 50 || got.Options[2].Percentage != 0 {
		t.Errorf("unexpected percentages: %+v", got.Options)
	}
}
