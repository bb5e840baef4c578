package routes

import (
	"github.com/campusleave/leavedesk/internal/app/auth"
	"github.com/campusleave/leavedesk/internal/app/controllers"
	"github.com/campusleave/leavedesk/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the controllers mounted by SetupRouter
type Handlers struct {
	Auth   *controllers.AuthController
	Leave  *controllers.LeaveController
	Admin  *controllers.AdminController
	Campus *controllers.CampusController
	Report *controllers.ReportController
	Health *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	guard := authMiddleware.Authorize

	router.GET("/health", h.Health.Health)

	// --- Public routes ---
	router.GET("/hostels", h.Campus.ListHostels)
	router.GET("/branches", h.Campus.ListBranches)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/me", authMiddleware.JWTAuth(), guard(auth.OpViewProfile), h.Auth.Me)
	}

	// --- Leave lifecycle ---
	leave := router.Group("/leave")
	leave.Use(authMiddleware.JWTAuth())
	{
		leave.POST("/apply", guard(auth.OpApplyLeave), h.Leave.Apply)
		leave.GET("/my", guard(auth.OpListOwnLeaves), h.Leave.ListMine)
		leave.GET("/:id", guard(auth.OpViewLeave), h.Leave.Get)
		leave.POST("/:id/approve", guard(auth.OpParentDecision), h.Leave.ParentDecision)
		leave.POST("/:id/review", guard(auth.OpAdvisorReview), h.Leave.AdvisorReview)
		leave.POST("/:id/warden", guard(auth.OpWardenDecision), h.Leave.WardenDecision)
		leave.POST("/:id/arrival", guard(auth.OpConfirmArrival), h.Leave.ConfirmArrival)
		leave.POST("/:id/proof", guard(auth.OpSubmitProof), h.Leave.SubmitProof)
		leave.POST("/:id/proof/verify", guard(auth.OpVerifyProof), h.Leave.VerifyProof)
	}

	// --- Admin ---
	admin := router.Group("/admin")
	admin.Use(authMiddleware.JWTAuth())
	{
		admin.GET("/stats", guard(auth.OpViewStats), h.Report.Stats)

		users := admin.Group("/users", guard(auth.OpManageUsers))
		{
			users.GET("", h.Admin.ListUsers)
			users.POST("", h.Admin.CreateUser)
			users.PUT("/:id", h.Admin.UpdateUser)
			users.DELETE("/:id", h.Admin.DeleteUser)
		}

		admin.GET("/leaves", guard(auth.OpListAllLeaves), h.Admin.ListLeaves)
		admin.GET("/logs", guard(auth.OpViewActivityLog), h.Admin.ListActivity)

		analytics := admin.Group("/analytics", guard(auth.OpViewAnalytics))
		{
			analytics.GET("/monthly", h.Report.Monthly)
			analytics.GET("/reasons", h.Report.Reasons)
			analytics.GET("/anomalies", h.Report.Anomalies)
			analytics.GET("/branches", h.Report.Branches)
			analytics.GET("/hostels", h.Report.Hostels)
		}

		admin.POST("/hostels", guard(auth.OpManageCampus), h.Campus.CreateHostel)
		admin.POST("/branches", guard(auth.OpManageCampus), h.Campus.CreateBranch)
	}
}
