package controllers

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/scamwatch/scamwatch/app/models"
	"github.com/scamwatch/scamwatch/app/repository"
	"github.com/scamwatch/scamwatch/internal/pkg/usercontext"
)

var (
	errCommentEmpty     = errors.New("comment content is required")
	errCommentTooLong   = errors.New("comment exceeds the maximum length")
	errParentMismatch   = errors.New("parent comment does not belong to this report")
	errInvalidCommentID = errors.New("invalid comment id")
	errCommentNotFound  = errors.New("comment not found")
	errCommentForbidden = errors.New("comment can only be removed by its author or an admin")
	errReportNotFound   = errors.New("report not found")
)

// POST /api/v1/reports/:uuid/comments
func HandleCommentCreate(c *fiber.Ctx) error {
	var body struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		body.Content = c.FormValue("content")
	}
	body.Content = strings.TrimSpace(body.Content)
	if body.Content == "" {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", errCommentEmpty)
	}
	if utf8.RuneCountInString(body.Content) > models.CommentMaxLength {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", errCommentTooLong)
	}

	factory := repository.GetGlobalFactory()
	report, err := factory.GetReportRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", errReportNotFound)
	}

	if body.ParentID != nil {
		parent, err := factory.GetCommentRepository().GetByID(*body.ParentID)
		if err != nil || parent.ReportID != report.ID {
			return jsonError(c, fiber.StatusBadRequest, "validation_failed", errParentMismatch)
		}
	}

	comment := &models.ReportComment{
		ReportID: report.ID,
		UserID:   usercontext.GetUserID(c),
		ParentID: body.ParentID,
		Content:  body.Content,
	}
	if err := factory.GetCommentRepository().Create(comment); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GET /api/v1/reports/:uuid/comments
func HandleCommentList(c *fiber.Ctx) error {
	factory := repository.GetGlobalFactory()
	report, err := factory.GetReportRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", errReportNotFound)
	}
	flat, err := factory.GetCommentRepository().GetByReportID(report.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.JSON(fiber.Map{"comments": models.BuildCommentTree(flat)})
}

// DELETE /api/v1/comments/:id – author or admin only.
func HandleCommentDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", errInvalidCommentID)
	}

	repo := repository.GetGlobalFactory().GetCommentRepository()
	comment, err := repo.GetByID(uint(id))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", errCommentNotFound)
	}

	uctx := usercontext.GetUserContext(c)
	if comment.UserID != uctx.UserID && !uctx.IsAdmin {
		return jsonError(c, fiber.StatusForbidden, "forbidden", errCommentForbidden)
	}
	if err := repo.Delete(comment.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.JSON(fiber.Map{"success": true})
}
