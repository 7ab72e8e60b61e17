// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, options, published
  - UpdatePollRequest: question, published (both optional)
  - SubmitVoteRequest: option_id

# Response Types

  - SubmitVoteResponse: vote, tally
  - ListPollsResponse: polls
  - ErrorResponse: error, message

# Domain Types

  - Poll, PollOption, PollWithOptions: poll metadata and its fixed option set
  - Vote: one voter's selection, unique per (voter, poll)
  - OptionRef: an option plus its poll's published flag
  - PollCounts, OptionCount: a single snapshot of per-option counts
  - Tally, OptionTally: derived counts and percentages (never stored)
  - Receipt: accepted vote plus the tally computed right after it

# Tally Wire Format

Tally is the stable broadcast payload and uses camelCase keys:

	{"pollId":"…","question":"…","totalVotes":2,
	 "options":[{"id":"…","text":"A","voteCount":1,"percentage":50}]}

# Live Messages

Every websocket frame is a LiveMessage {"type": …, "data": …}. Types:

	connected, joined, left, presence, tally, poll_deleted, error

Clients send LiveCommand frames {"action": "join"|"leave", "poll_id": …}.
*/
package models
