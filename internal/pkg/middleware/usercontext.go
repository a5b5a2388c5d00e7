package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scamwatch/scamwatch/app/models"
	"github.com/scamwatch/scamwatch/internal/pkg/database"
	"github.com/scamwatch/scamwatch/internal/pkg/gamification"
	"github.com/scamwatch/scamwatch/internal/pkg/session"
	"github.com/scamwatch/scamwatch/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// The clearance level is resolved here, once, from the stored profile;
// everything downstream branches on the resolved value instead of repeating
// role and credibility checks.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := usercontext.UserContext{
		IsLoggedIn: false,
		IsAdmin:    false,
		Clearance:  gamification.ClearanceAnonymous,
	}

	// Get session with error handling
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	// Get user ID from session
	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	// Logged in: load the profile so clearance reflects the current
	// credibility score, not the one at login time.
	var user models.User
	if db := database.GetDB(); db != nil {
		if err := db.First(&user, userID.(uint)).Error; err != nil {
			c.Locals(usercontext.KeyUserContext, anonymous)
			return c.Next()
		}
	}

	userCtx := usercontext.UserContext{
		UserID:     user.ID,
		Username:   user.Username,
		IsLoggedIn: true,
		IsAdmin:    user.IsAdmin(),
		Clearance:  gamification.ResolveClearance(&user),
	}
	c.Locals(usercontext.KeyUserContext, userCtx)

	return c.Next()
}
