package models

import "time"

// Option count limits for a new poll
const (
	MinOptions = 2
	MaxOptions = 20
)

// Live message types
const (
	MessageConnected   = "connected"
	MessageJoined      = "joined"
	MessageLeft        = "left"
	MessagePresence    = "presence"
	MessageTally       = "tally"
	MessagePollDeleted = "poll_deleted"
	MessageError       = "error"
)

// Live client actions
const (
	ActionJoin  = "join"
	ActionLeave = "leave"
)

// Request types

type CreatePollRequest struct {
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Published bool     `json:"published"`
}

// Nil fields are left unchanged
type UpdatePollRequest struct {
	Question  *string `json:"question,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

type SubmitVoteRequest struct {
	OptionID string `json:"option_id"`
}

// Response types

type SubmitVoteResponse struct {
	Vote  Vote   `json:"vote"`
	Tally *Tally `json:"tally,omitempty"`
}

type ListPollsResponse struct {
	Polls []Poll `json:"polls"`
}

// Domain types

type Poll struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Question  string    `json:"question"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PollOption struct {
	ID       string `json:"id"`
	PollID   string `json:"poll_id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

type PollWithOptions struct {
	Poll    `json:"poll"`
	Options []PollOption `json:"options"`
}

// OptionRef is an option together with the state of its parent poll.
type OptionRef struct {
	ID            string
	PollID        string
	Text          string
	PollPublished bool
}

type Vote struct {
	ID        string    `json:"id"`
	VoterID   string    `json:"voter_id"`
	PollID    string    `json:"poll_id"`
	OptionID  string    `json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OptionCount is one row of a vote-count snapshot.
type OptionCount struct {
	OptionID string
	Text     string
	Count    int
}

// PollCounts is a single consistent read of a poll's options and their counts,
// in option creation order.
type PollCounts struct {
	PollID   string
	Question string
	Options  []OptionCount
}

// Tally types

type OptionTally struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	VoteCount  int    `json:"voteCount"`
	Percentage int    `json:"percentage"`
}

type Tally struct {
	PollID     string        `json:"pollId"`
	Question   string        `json:"question"`
	TotalVotes int           `json:"totalVotes"`
	Options    []OptionTally `json:"options"`
}

// Receipt is the outcome of an accepted vote. Tally is nil when the
// post-admission read failed.
type Receipt struct {
	Vote  Vote
	Tally *Tally
}

// Live messages

type LiveMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type LiveCommand struct {
	Action string `json:"action"`
	PollID string `json:"poll_id"`
}

type PresenceNotice struct {
	PollID  string `json:"poll_id"`
	Viewers int    `json:"viewers"`
}

type ConnectedNotice struct {
	ConnectionID string `json:"connection_id"`
	VoterID      string `json:"voter_id"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
