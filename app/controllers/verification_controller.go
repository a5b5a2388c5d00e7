package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// POST /api/v1/reports/:uuid/vote
func HandleCastVote(c *fiber.Ctx) error {
	var body struct {
		VoteType string `json:"vote_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		body.VoteType = c.FormValue("vote_type")
	}

	report, err := services.Verification.CastVote(currentActor(c), c.Params("uuid"), strings.ToLower(body.VoteType))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// POST /api/v1/reports/:uuid/confirm – trusted members vouch for a report.
func HandleConfirm(c *fiber.Ctx) error {
	report, err := services.Verification.Confirm(currentActor(c), c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// POST /api/v1/admin/reports/:uuid/verify
func HandleAdminOverride(c *fiber.Ctx) error {
	report, err := services.Verification.AdminOverride(currentActor(c), c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// POST /api/v1/reports/:uuid/poll
func HandleCastPollVote(c *fiber.Ctx) error {
	var body struct {
		Option string `json:"option"`
	}
	if err := c.BodyParser(&body); err != nil {
		body.Option = c.FormValue("option")
	}

	if err := services.Verification.CastPollVote(currentActor(c), c.Params("uuid"), strings.TrimSpace(body.Option)); err != nil {
		return respondError(c, err)
	}
	results, err := services.Verification.PollResults(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"poll_results": results})
}
