// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielhkuo/livepoll/admission"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
)

type VotingHandler struct {
	controller *admission.Controller
}

func NewVotingHandler(controller *admission.Controller) *VotingHandler {
	return &VotingHandler{controller: controller}
}

// SubmitVote handles POST /votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	voterID, ok := middleware.VoterID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid bearer token required")
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	optionID := strings.TrimSpace(req.OptionID)
	if optionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	receipt, err := h.controller.SubmitVote(r.Context(), voterID, optionID)
	switch {
	case errors.Is(err, admission.ErrOptionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Option not found")
		return
	case errors.Is(err, admission.ErrPollUnpublished):
		middleware.ErrorResponse(w, http.StatusForbidden, "Poll is not published")
		return
	case errors.Is(err, admission.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "Already voted in this poll")
		return
	case err != nil:
		// ErrUnavailable or anything unexpected; the cause is already logged
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Vote:  receipt.Vote,
		Tally: receipt.Tally,
	})
}
