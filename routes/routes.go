package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medidetect/medidetect-backend/controllers"
	"github.com/medidetect/medidetect-backend/middleware"
	"github.com/medidetect/medidetect-backend/models"
	"github.com/medidetect/medidetect-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.POST("/refresh-token", controllers.RefreshToken)
		auth.POST("/google", controllers.GoogleLogin)
	}

	authed := api.Group("")
	{
		authed.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		authed.PUT("/auth/change-password", controllers.ChangePassword)
		authed.PUT("/me/preferences", controllers.UpdatePreferences)

		// Reports: ownership enforced inside the handlers
		authed.POST("/reports", controllers.CreateReport)
		authed.GET("/reports", controllers.GetReports)
		authed.GET("/reports/:id", controllers.GetReportDetail)
		authed.DELETE("/reports/:id", controllers.DeleteReport)

		authed.GET("/notifications", controllers.GetNotifications)
		authed.GET("/notifications/unread-count", controllers.GetUnreadCount)
		authed.PATCH("/notifications/:id/read", controllers.MarkNotificationAsRead)
		authed.PATCH("/notifications/read-all", controllers.MarkAllAsRead)
		authed.DELETE("/notifications/:id", controllers.DeleteNotification)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db), middleware.RequireRoles(string(models.RoleAdmin)))

		admin.PUT("/reports/:id/review", controllers.ReviewReport)

		admin.GET("/users", controllers.GetUsers)
		admin.PATCH("/users/:id/status", controllers.UpdateUserStatus)

		admin.POST("/alerts", controllers.SendAlert)
		admin.GET("/alerts", controllers.GetAlerts)

		admin.POST("/models", controllers.RegisterModel)
		admin.GET("/models", controllers.GetModels)
		admin.PUT("/models/:id/deploy", controllers.DeployModel)

		admin.GET("/stats", controllers.GetStats)
	}

	r.GET("/ws/reports/:id", ws.HandleReportWebSocket)
	r.GET("/ws/status", ws.HandleGlobalWebSocket)

	return r
}
