package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/scamwatch/scamwatch/app/controllers"
	"github.com/scamwatch/scamwatch/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}))
	v1 := api.Group("/v1")

	// auth
	v1.Post("/auth/register", controllers.HandleAuthRegister)
	v1.Post("/auth/login", controllers.HandleAuthLogin)
	v1.Post("/auth/logout", middleware.RequireAuth, controllers.HandleAuthLogout)
	v1.Get("/auth/me", middleware.RequireAuth, controllers.HandleAuthMe)

	// reports
	v1.Get("/reports", controllers.HandleReportList)
	v1.Post("/reports", middleware.RequireAuth, controllers.HandleReportSubmit)
	v1.Get("/reports/:uuid", controllers.HandleReportShow)
	v1.Put("/reports/:uuid", middleware.RequireAuth, controllers.HandleReportUpdate)
	v1.Delete("/reports/:uuid", middleware.RequireAuth, controllers.HandleReportDelete)
	v1.Get("/verified", controllers.HandleVerifiedList)
	v1.Get("/my-reports", middleware.RequireAuth, controllers.HandleMyReports)

	// verification actions
	v1.Post("/reports/:uuid/vote", middleware.RequireAuth, controllers.HandleCastVote)
	v1.Post("/reports/:uuid/confirm", middleware.RequireAuth, controllers.HandleConfirm)
	v1.Post("/reports/:uuid/poll", middleware.RequireAuth, controllers.HandleCastPollVote)

	// comments
	v1.Get("/reports/:uuid/comments", controllers.HandleCommentList)
	v1.Post("/reports/:uuid/comments", middleware.RequireAuth, controllers.HandleCommentCreate)
	v1.Delete("/comments/:id", middleware.RequireAuth, controllers.HandleCommentDelete)

	// users, feedback and gamification
	v1.Get("/users/:id", controllers.HandleUserShow)
	v1.Get("/users/:id/feedback", controllers.HandleFeedbackList)
	v1.Post("/users/:id/feedback", middleware.RequireAuth, controllers.HandleFeedbackSubmit)
	v1.Get("/profile", middleware.RequireAuth, controllers.HandleProfileShow)
	v1.Put("/profile", middleware.RequireAuth, controllers.HandleProfileUpdate)
	v1.Get("/leaderboard", controllers.HandleLeaderboard)

	// admin
	admin := v1.Group("/admin", middleware.RequireAuth, middleware.RequireAdmin)
	admin.Post("/reports/:uuid/verify", controllers.HandleAdminOverride)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
