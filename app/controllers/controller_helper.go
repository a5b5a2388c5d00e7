package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/scamwatch/scamwatch/internal/pkg/evidence"
	"github.com/scamwatch/scamwatch/internal/pkg/feedback"
	"github.com/scamwatch/scamwatch/internal/pkg/gamification"
	"github.com/scamwatch/scamwatch/internal/pkg/usercontext"
	"github.com/scamwatch/scamwatch/internal/pkg/verification"
)

// Services bundles the domain services the controllers dispatch into.
// Evidence may be nil when object storage is disabled.
type Services struct {
	Verification *verification.Service
	Feedback     *feedback.Service
	Gamification *gamification.Service
	Evidence     *evidence.Client
}

var services *Services

// SetupServices injects the domain services. Called once from router setup.
func SetupServices(s *Services) {
	services = s
}

// currentActor resolves the verification actor from the request context.
func currentActor(c *fiber.Ctx) verification.Actor {
	uctx := usercontext.GetUserContext(c)
	return verification.Actor{ID: uctx.UserID, Clearance: uctx.Clearance}
}

// parsePagination reads page/limit query parameters with sane bounds.
func parsePagination(c *fiber.Ctx, defaultLimit int) (offset, limit int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return (page - 1) * limit, limit
}

// respondError maps domain errors to HTTP responses. Validation and conflict
// errors stay distinguishable so clients can render "already voted" instead
// of a generic failure.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, verification.ErrUnauthorized), errors.Is(err, feedback.ErrUnauthorized):
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, verification.ErrLowClearance),
		errors.Is(err, verification.ErrNotAdmin),
		errors.Is(err, verification.ErrNotOwner):
		return jsonError(c, fiber.StatusForbidden, "forbidden", err)
	case errors.Is(err, verification.ErrReportNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", err)
	case errors.Is(err, verification.ErrAlreadyVoted),
		errors.Is(err, verification.ErrAlreadyConfirmed),
		errors.Is(err, verification.ErrAlreadyPolled),
		errors.Is(err, feedback.ErrCooldownActive):
		return jsonError(c, fiber.StatusConflict, "conflict", err)
	case errors.Is(err, verification.ErrInvalidVoteType),
		errors.Is(err, verification.ErrEmptyPollOption),
		errors.Is(err, verification.ErrNotPending),
		errors.Is(err, verification.ErrReportClosed),
		errors.Is(err, feedback.ErrSelfFeedback),
		errors.Is(err, feedback.ErrInvalidType),
		errors.Is(err, feedback.ErrCommentTooShort):
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err)
	default:
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
}

func jsonError(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   code,
		"message": err.Error(),
	})
}
