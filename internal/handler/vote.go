package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Bugitoy/Study-Talk-sub000/internal/middleware"
	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
	"github.com/Bugitoy/Study-Talk-sub000/internal/repository"
	"github.com/Bugitoy/Study-Talk-sub000/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(svc *service.VoteService) *VoteHandler {
	return &VoteHandler{svc: svc}
}

// Submit handles POST /api/votes
func (h *VoteHandler) Submit(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Get("X-User-ID"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_USER", errMsg)
	}

	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	confessionID, errMsg := middleware.ValidateConfessionID(req.ConfessionID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	voteType, errMsg := middleware.ValidateVoteType(req.VoteType)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VOTE_TYPE", errMsg)
	}

	resp, err := h.svc.Submit(c.Context(), userID, confessionID, voteType)
	if err != nil {
		if errors.Is(err, repository.ErrConfessionNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Confession not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit vote")
	}

	Metrics.VotesTotal.WithLabelValues(voteType).Inc()

	return c.JSON(resp)
}

// Get handles GET /api/votes/:confessionId — the caller's live vote, used by
// clients to seed their local vote state.
func (h *VoteHandler) Get(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Get("X-User-ID"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_USER", errMsg)
	}

	confessionID, errMsg := middleware.ValidateConfessionID(c.Params("confessionId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	vote, err := h.svc.UserVote(c.Context(), userID, confessionID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load vote")
	}

	return c.JSON(fiber.Map{
		"confessionId": confessionID,
		"userVote":     vote,
	})
}

// Delete handles DELETE /api/votes
func (h *VoteHandler) Delete(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Get("X-User-ID"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_USER", errMsg)
	}

	var req model.VoteDeleteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	confessionID, errMsg := middleware.ValidateConfessionID(req.ConfessionID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Revoke(c.Context(), userID, confessionID)
	if err != nil {
		if errors.Is(err, repository.ErrConfessionNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Confession not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove vote")
	}

	return c.JSON(resp)
}
