// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/livepoll/hub"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/store"
)

// Input limits for poll text
const (
	MaxQuestionLength = 500
	MaxOptionLength   = 200
)

type PollHandler struct {
	store      *store.Store
	dispatcher *hub.Dispatcher
}

func NewPollHandler(s *store.Store, dispatcher *hub.Dispatcher) *PollHandler {
	return &PollHandler{store: s, dispatcher: dispatcher}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.VoterID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid bearer token required")
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	question := strings.TrimSpace(req.Question)
	if msg := validateQuestion(question); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	if len(req.Options) < models.MinOptions || len(req.Options) > models.MaxOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Poll must have between 2 and 20 options")
		return
	}

	options := make([]string, 0, len(req.Options))
	for _, opt := range req.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Options must not be empty")
			return
		}
		if len(opt) > MaxOptionLength {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Option text is too long")
			return
		}
		options = append(options, opt)
	}

	poll, err := h.store.CreatePoll(r.Context(), ownerID, question, options, req.Published)
	if err != nil {
		slog.Error("failed to create poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", poll.ID, "owner_id", ownerID, "options", len(options))

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// ListPolls handles GET /polls
// Returns the caller's own polls, newest first
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.VoterID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid bearer token required")
		return
	}

	polls, err := h.store.ListPolls(r.Context(), ownerID)
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListPollsResponse{Polls: polls})
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	options, err := h.store.FindPollOptions(r.Context(), pollID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollWithOptions{Poll: poll, Options: options})
}

// UpdatePoll handles PATCH /polls/{id}
// Only the owner may change the question or the published flag
func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	poll, ok := h.ownedPoll(w, r)
	if !ok {
		return
	}

	var req models.UpdatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Question == nil && req.Published == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nothing to update")
		return
	}
	if req.Question != nil {
		q := strings.TrimSpace(*req.Question)
		if msg := validateQuestion(q); msg != "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, msg)
			return
		}
		req.Question = &q
	}

	updated, err := h.store.UpdatePoll(r.Context(), poll.ID, req.Question, req.Published)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to update poll", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update poll")
		return
	}

	slog.Info("poll updated", "poll_id", updated.ID, "published", updated.Published)

	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeletePoll handles DELETE /polls/{id}
// Live subscribers of the poll get a poll_deleted notice
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	poll, ok := h.ownedPoll(w, r)
	if !ok {
		return
	}

	err := h.store.DeletePoll(r.Context(), poll.ID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete poll", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete poll")
		return
	}

	h.dispatcher.Notify(poll.ID, models.MessagePollDeleted, map[string]string{"poll_id": poll.ID})
	h.dispatcher.Forget(poll.ID)

	slog.Info("poll deleted", "poll_id", poll.ID)

	w.WriteHeader(http.StatusNoContent)
}

// ownedPoll loads the poll named in the path and checks the caller owns it.
// It writes the error response itself and reports false on failure.
func (h *PollHandler) ownedPoll(w http.ResponseWriter, r *http.Request) (models.Poll, bool) {
	callerID, ok := middleware.VoterID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid bearer token required")
		return models.Poll{}, false
	}

	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return models.Poll{}, false
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return models.Poll{}, false
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Poll{}, false
	}

	if poll.OwnerID != callerID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the poll owner can do that")
		return models.Poll{}, false
	}

	return poll, true
}

func validateQuestion(q string) string {
	if q == "" {
		return "question is required"
	}
	if len(q) > MaxQuestionLength {
		return "question is too long"
	}
	return ""
}
