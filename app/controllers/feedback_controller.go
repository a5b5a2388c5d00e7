package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scamwatch/scamwatch/app/repository"
	"github.com/scamwatch/scamwatch/internal/pkg/feedback"
	"github.com/scamwatch/scamwatch/internal/pkg/usercontext"
)

// POST /api/v1/users/:id/feedback
func HandleFeedbackSubmit(c *fiber.Ctx) error {
	toID, err := c.ParamsInt("id")
	if err != nil || toID < 1 {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", errInvalidUserID)
	}

	var body struct {
		Type            string `json:"type"`
		CommentText     string `json:"comment_text"`
		RelatedReportID *uint  `json:"related_report_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		body.Type = c.FormValue("type")
		body.CommentText = c.FormValue("comment_text")
	}

	record, err := services.Feedback.Submit(usercontext.GetUserID(c), feedback.SubmitInput{
		ToUserID:        uint(toID),
		Type:            strings.ToLower(strings.TrimSpace(body.Type)),
		CommentText:     strings.TrimSpace(body.CommentText),
		RelatedReportID: body.RelatedReportID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// GET /api/v1/users/:id/feedback
func HandleFeedbackList(c *fiber.Ctx) error {
	toID, err := c.ParamsInt("id")
	if err != nil || toID < 1 {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", errInvalidUserID)
	}
	if _, err := repository.GetGlobalFactory().GetUserRepository().GetByID(uint(toID)); err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", errUserNotFound)
	}

	records, summary, err := services.Feedback.ForUser(uint(toID))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.JSON(fiber.Map{
		"feedback": records,
		"summary":  summary,
	})
}
