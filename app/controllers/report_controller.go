package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/scamwatch/scamwatch/app/models"
	"github.com/scamwatch/scamwatch/app/repository"
	"github.com/scamwatch/scamwatch/internal/pkg/usercontext"
	"github.com/scamwatch/scamwatch/internal/pkg/verification"
)

var errFieldsRequired = errors.New("actor_name and description are required")

// submitInputFromForm reads the shared report fields from a multipart form
// and uploads any attached evidence files. Individual upload failures are
// logged and skipped; the submission proceeds with the files that made it.
func submitInputFromForm(c *fiber.Ctx) verification.SubmitInput {
	in := verification.SubmitInput{
		ActorName:     strings.TrimSpace(c.FormValue("actor_name")),
		WalletAddress: strings.TrimSpace(c.FormValue("wallet_address")),
		Description:   strings.TrimSpace(c.FormValue("description")),
		SocialLinks:   map[string]string{},
	}
	for _, key := range []string{"twitter", "telegram", "website"} {
		if v := strings.TrimSpace(c.FormValue(key)); v != "" {
			in.SocialLinks[key] = v
		}
	}

	if services.Evidence == nil {
		return in
	}
	form, err := c.MultipartForm()
	if err != nil {
		return in
	}
	userID := usercontext.GetUserID(c)
	for _, fileHeader := range form.File["evidence"] {
		if fileHeader.Size == 0 {
			continue
		}
		url, err := services.Evidence.Upload(c.Context(), userID, fileHeader)
		if err != nil {
			log.Errorf("[Report] evidence upload failed for user %d: %v", userID, err)
			continue
		}
		in.EvidenceURLs = append(in.EvidenceURLs, url)
	}
	return in
}

// POST /api/v1/reports
func HandleReportSubmit(c *fiber.Ctx) error {
	in := submitInputFromForm(c)
	if in.ActorName == "" || in.Description == "" {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed",
			errFieldsRequired)
	}

	report, err := services.Verification.Submit(currentActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// PUT /api/v1/reports/:uuid
func HandleReportUpdate(c *fiber.Ctx) error {
	in := submitInputFromForm(c)
	if in.ActorName == "" || in.Description == "" {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed",
			errFieldsRequired)
	}

	report, err := services.Verification.Update(currentActor(c), c.Params("uuid"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GET /api/v1/reports
func HandleReportList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 20)
	repo := repository.GetGlobalFactory().GetReportRepository()

	var (
		reports []models.Report
		err     error
	)
	if query := strings.TrimSpace(c.Query("q")); query != "" {
		reports, err = repo.Search(query)
	} else if status := c.Query("status"); status != "" {
		reports, err = repo.ListByStatus(strings.Split(status, ","), offset, limit)
	} else {
		reports, err = repo.List(offset, limit)
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// GET /api/v1/verified
func HandleVerifiedList(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 20)
	reports, err := repository.GetGlobalFactory().GetReportRepository().ListVerified(offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// GET /api/v1/my-reports
func HandleMyReports(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 20)
	uctx := usercontext.GetUserContext(c)
	reports, err := repository.GetGlobalFactory().GetReportRepository().GetByUserID(uctx.UserID, offset, limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// GET /api/v1/reports/:uuid – report detail with comments, poll results and
// the viewer's own participation flags. Reading resolves lazy expiry.
func HandleReportShow(c *fiber.Ctx) error {
	report, err := services.Verification.Get(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	factory := repository.GetGlobalFactory()
	flat, err := factory.GetCommentRepository().GetByReportID(report.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}

	pollResults, err := services.Verification.PollResults(report.UUID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}

	response := fiber.Map{
		"report":       report,
		"comments":     models.BuildCommentTree(flat),
		"poll_results": pollResults,
	}

	uctx := usercontext.GetUserContext(c)
	if uctx.IsLoggedIn {
		repo := factory.GetReportRepository()
		if voted, err := repo.HasVoted(uctx.UserID, report.ID); err == nil {
			response["has_voted"] = voted
		}
		if confirmed, err := repo.HasConfirmed(uctx.UserID, report.ID); err == nil {
			response["has_confirmed"] = confirmed
		}
	}
	return c.JSON(response)
}

// DELETE /api/v1/reports/:uuid
func HandleReportDelete(c *fiber.Ctx) error {
	if err := services.Verification.Delete(c.Context(), currentActor(c), c.Params("uuid")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
