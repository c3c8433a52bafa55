package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Bugitoy/Study-Talk-sub000/internal/model"
)

// Field length limits matching database schema constraints.
const (
	MaxConfessionIDLen = 32 // confessions.id VARCHAR(32)
	MaxUserIDLen       = 64 // users.id VARCHAR(64)

	MinFeedLimit     = 1
	MaxFeedLimit     = 100
	DefaultFeedLimit = 50

	MaxCommentLen = 2000
)

var (
	// confessionIDRe matches confession IDs: alphanumeric, dash, underscore.
	confessionIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// userIDRe matches identity-provider user IDs: alphanumeric, dash, underscore.
	userIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateConfessionID checks that a confession ID is well-formed and within DB limits.
func ValidateConfessionID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "confessionId is required"
	}
	if len(id) > MaxConfessionIDLen {
		return "", "confessionId must be at most 32 characters"
	}
	if !confessionIDRe.MatchString(id) {
		return "", "confessionId contains invalid characters"
	}
	return id, ""
}

// ValidateUserID checks that a user ID is well-formed.
func ValidateUserID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "userId is required"
	}
	if len(id) > MaxUserIDLen {
		return "", "userId must be at most 64 characters"
	}
	if !userIDRe.MatchString(id) {
		return "", "userId contains invalid characters"
	}
	return id, ""
}

// ValidateVoteType checks the vote type before any mutation happens.
func ValidateVoteType(vt string) (string, string) {
	vt = strings.ToUpper(strings.TrimSpace(vt))
	if vt == "" {
		return "", "voteType is required"
	}
	if !model.VoteType(vt).Valid() {
		return "", "voteType must be BELIEVE or DOUBT"
	}
	return vt, ""
}

// ValidateCommentBody checks a comment body before insertion.
func ValidateCommentBody(body string) (string, string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", "comment body is required"
	}
	if len(body) > MaxCommentLen {
		return "", "comment body must be at most 2000 characters"
	}
	return body, ""
}

// ValidateFeedSort checks the feed sort parameter.
func ValidateFeedSort(sort string) (model.FeedSort, string) {
	switch model.FeedSort(strings.ToLower(strings.TrimSpace(sort))) {
	case model.SortHot, "":
		return model.SortHot, ""
	case model.SortRecent:
		return model.SortRecent, ""
	default:
		return "", "sort must be hot or recent"
	}
}

// ClampLimit bounds a feed page size to the allowed range.
func ClampLimit(limit int) int {
	if limit < MinFeedLimit {
		return DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		return MaxFeedLimit
	}
	return limit
}
