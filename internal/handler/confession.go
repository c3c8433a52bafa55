package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Bugitoy/Study-Talk-sub000/internal/middleware"
	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
	"github.com/Bugitoy/Study-Talk-sub000/internal/repository"
	"github.com/Bugitoy/Study-Talk-sub000/internal/service"
)

type ConfessionHandler struct {
	svc *service.ConfessionService
}

func NewConfessionHandler(svc *service.ConfessionService) *ConfessionHandler {
	return &ConfessionHandler{svc: svc}
}

// Feed handles GET /api/confessions?sort=hot|recent&limit=N
func (h *ConfessionHandler) Feed(c fiber.Ctx) error {
	sort, errMsg := middleware.ValidateFeedSort(c.Query("sort", "hot"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_SORT", errMsg)
	}

	limit := middleware.ClampLimit(fiber.Query[int](c, "limit", 50))

	resp, err := h.svc.Feed(c.Context(), sort, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load feed")
	}

	return c.JSON(resp)
}

// AddComment handles POST /api/confessions/:confessionId/comments
func (h *ConfessionHandler) AddComment(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Get("X-User-ID"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "INVALID_USER", errMsg)
	}

	confessionID, errMsg := middleware.ValidateConfessionID(c.Params("confessionId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.CommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	body, errMsg := middleware.ValidateCommentBody(req.Body)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Body = body

	comment, err := h.svc.AddComment(c.Context(), userID, confessionID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrConfessionNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Confession not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add comment")
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetByID handles GET /api/confessions/:confessionId
func (h *ConfessionHandler) GetByID(c fiber.Ctx) error {
	confessionID, errMsg := middleware.ValidateConfessionID(c.Params("confessionId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	confession, err := h.svc.Lookup(c.Context(), confessionID)
	if err != nil {
		if errors.Is(err, repository.ErrConfessionNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Confession not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load confession")
	}

	return c.JSON(confession)
}
