package controllers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/scamwatch/scamwatch/app/repository"
	"github.com/scamwatch/scamwatch/internal/pkg/cache"
	"github.com/scamwatch/scamwatch/internal/pkg/gamification"
	"github.com/scamwatch/scamwatch/internal/pkg/usercontext"
	"github.com/scamwatch/scamwatch/internal/pkg/utils"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 5 * time.Minute
	leaderboardSize     = 25
)

var (
	errInvalidUserID = errors.New("invalid user id")
	errUserNotFound  = errors.New("user not found")
	errUsernameTaken = errors.New("username is already taken")
)

// leaderboardEntry is the public slice of a user shown on the ranking.
type leaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
	Credibility int    `json:"credibility_score"`
}

// GET /api/v1/users/:id – public profile with gamification stats.
func HandleUserShow(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", errInvalidUserID)
	}
	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(uint(id))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", errUserNotFound)
	}

	reportCount, err := repository.GetGlobalFactory().GetReportRepository().CountByUserID(user.ID)
	if err != nil {
		log.Errorf("[User] report count for user %d failed: %v", user.ID, err)
	}

	avatar := user.AvatarURL
	if avatar == "" {
		avatar = utils.GravatarURL(user.Email, 0)
	}

	return c.JSON(fiber.Map{
		"user":         user,
		"avatar_url":   avatar,
		"gamification": gamification.ProfileFor(user),
		"report_count": reportCount,
	})
}

// GET /api/v1/profile – the authenticated user's own profile.
func HandleProfileShow(c *fiber.Ctx) error {
	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(usercontext.GetUserID(c))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", errUserNotFound)
	}
	return c.JSON(fiber.Map{
		"user":              user,
		"gamification":      gamification.ProfileFor(user),
		"profile_completed": user.HasCompletedProfile(),
	})
}

// PUT /api/v1/profile – update bio, socials, avatar and username. Completing
// the profile for the first time grants a one-time XP bonus.
func HandleProfileUpdate(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(usercontext.GetUserID(c))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", errUserNotFound)
	}

	if username := strings.TrimSpace(c.FormValue("username")); username != "" && username != user.Username {
		taken, err := repo.UsernameTaken(username, user.ID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
		}
		if taken {
			return jsonError(c, fiber.StatusConflict, "conflict", errUsernameTaken)
		}
		user.Username = username
	}
	if bio := c.FormValue("bio"); bio != "" {
		user.Bio = strings.TrimSpace(bio)
	}
	if user.SocialLinks == nil {
		user.SocialLinks = map[string]string{}
	}
	for _, key := range []string{"twitter", "telegram", "website"} {
		if v := strings.TrimSpace(c.FormValue(key)); v != "" {
			user.SocialLinks[key] = v
		}
	}

	if services.Evidence != nil {
		if fileHeader, err := c.FormFile("avatar"); err == nil && fileHeader.Size > 0 {
			url, err := services.Evidence.Upload(c.Context(), user.ID, fileHeader)
			if err != nil {
				log.Errorf("[User] avatar upload for user %d failed: %v", user.ID, err)
			} else {
				user.AvatarURL = url
			}
		}
	}

	firstCompletion := !user.HasCompletedProfile() &&
		user.Bio != "" && user.AvatarURL != "" && len(user.SocialLinks) > 0
	if firstCompletion {
		now := time.Now()
		user.ProfileCompletedAt = &now
	}

	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}
	if firstCompletion {
		services.Gamification.GrantXPLogged(user.ID, gamification.XPProfileCompleted, "profile completed")
		// Counters changed underneath us, reload for the response.
		if fresh, err := repo.GetByID(user.ID); err == nil {
			user = fresh
		}
	}

	return c.JSON(fiber.Map{
		"user":              user,
		"gamification":      gamification.ProfileFor(user),
		"profile_completed": user.HasCompletedProfile(),
	})
}

// GET /api/v1/leaderboard – top users by XP, cached for a few minutes.
func HandleLeaderboard(c *fiber.Ctx) error {
	if cached, err := cache.Get(leaderboardCacheKey); err == nil && cached != "" {
		var entries []leaderboardEntry
		if err := json.Unmarshal([]byte(cached), &entries); err == nil {
			return c.JSON(fiber.Map{"leaderboard": entries, "cached": true})
		}
	}

	users, err := repository.GetGlobalFactory().GetUserRepository().Leaderboard(leaderboardSize)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_error", err)
	}

	entries := make([]leaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, leaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			XP:          u.XP,
			Level:       u.Level,
			Credibility: u.EffectiveCredibility(),
		})
	}

	if payload, err := json.Marshal(entries); err == nil {
		if err := cache.Set(leaderboardCacheKey, payload, leaderboardCacheTTL); err != nil {
			log.Warnf("[User] leaderboard cache write failed: %v", err)
		}
	}
	return c.JSON(fiber.Map{"leaderboard": entries, "cached": false})
}
