package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Bugitoy/Study-Talk-sub000/internal/middleware"
	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
	"github.com/Bugitoy/Study-Talk-sub000/internal/repository"
	"github.com/Bugitoy/Study-Talk-sub000/internal/service"
)

type UserHandler struct {
	svc *service.ReputationService
}

func NewUserHandler(svc *service.ReputationService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetReputation handles GET /api/users/:userId/reputation
func (h *UserHandler) GetReputation(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.GetReputation(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "User not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reputation")
	}

	return c.JSON(resp)
}

// Recalculate handles POST /api/users/:userId/reputation/recalculate.
// Safe to call redundantly; the recompute is idempotent.
func (h *UserHandler) Recalculate(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Recalculate(c.Context(), userID, "manual"); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "User not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to recalculate reputation")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"success": true})
}

// GetHistory handles GET /api/users/:userId/reputation/history — the
// append-only audit trail, newest first.
func (h *UserHandler) GetHistory(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	history, err := h.svc.History(c.Context(), userID, 20)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "User not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load history")
	}

	if history == nil {
		history = []model.ReputationHistory{}
	}
	return c.JSON(fiber.Map{"userId": userID, "history": history})
}

// GetReports handles GET /api/users/:userId/reports — standing reports
// against the user, read-only.
func (h *UserHandler) GetReports(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	reports, err := h.svc.ReportsAgainst(c.Context(), userID, 20)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "User not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reports")
	}

	if reports == nil {
		reports = []model.Report{}
	}
	return c.JSON(fiber.Map{"userId": userID, "reports": reports})
}

// RegisterDevice handles POST /api/users/:userId/devices. The signature is
// hashed server-side; only the fingerprint is stored.
func (h *UserHandler) RegisterDevice(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.DeviceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if req.Signature == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "signature is required")
	}

	if err := h.svc.RegisterDevice(c.Context(), userID, req.Signature); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register device")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// GetBotRisk handles GET /api/users/:userId/bot-risk
func (h *UserHandler) GetBotRisk(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.DetectBot(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "User not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to analyze account")
	}

	return c.JSON(resp)
}
