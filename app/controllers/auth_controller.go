package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/scamwatch/scamwatch/app/models"
	"github.com/scamwatch/scamwatch/app/repository"
	"github.com/scamwatch/scamwatch/internal/pkg/database"
	"github.com/scamwatch/scamwatch/internal/pkg/session"
	"github.com/scamwatch/scamwatch/internal/pkg/usercontext"
)

// POST /api/v1/auth/register
func HandleAuthRegister(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err)
	}

	user, err := models.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err)
	}

	if err := repository.GetGlobalFactory().GetUserRepository().Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return jsonError(c, fiber.StatusConflict, "conflict", errors.New("username or email already taken"))
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}

	if err := session.Login(c, user.ID, user.Username, user.IsAdmin()); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// POST /api/v1/auth/login
func HandleAuthLogin(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err)
	}

	// notice: in production you should not inform the user
	// with detailed messages about login failures
	loginFailed := errors.New("there is a problem with the login process")

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByEmail(req.Email)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", loginFailed)
	}
	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", loginFailed)
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "forbidden", errors.New("account is not active"))
	}

	now := time.Now()
	user.LastLoginAt = &now
	if db := database.GetDB(); db != nil {
		db.Model(user).Update("last_login_at", now)
	}

	if err := session.Login(c, user.ID, user.Username, user.IsAdmin()); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.JSON(user)
}

// POST /api/v1/auth/logout
func HandleAuthLogout(c *fiber.Ctx) error {
	if err := session.Logout(c); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/v1/auth/me
func HandleAuthMe(c *fiber.Ctx) error {
	uctx := usercontext.GetUserContext(c)
	if !uctx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", errors.New("login required"))
	}
	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(uctx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	return c.JSON(user)
}
