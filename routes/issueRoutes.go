package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine) {
	issue := r.Group("/api/issues")
	{
		issue.POST("", middlewares.AuthMiddleware(), middlewares.IssueRateLimiter(10), controllers.CreateIssue)
		issue.GET("", middlewares.OptionalAuth(), controllers.GetAllIssues)
		issue.GET("/stats", controllers.GetIssueStats)
		issue.GET("/map", controllers.GetMapMarkers)
		issue.GET("/analytics", middlewares.AuthMiddleware(), controllers.GetIssueAnalytics)
		issue.GET("/mine", middlewares.AuthMiddleware(), controllers.GetMyIssues)
		issue.GET("/:id", middlewares.OptionalAuth(), controllers.GetIssue)
		issue.POST("/:id/upvote", middlewares.AuthMiddleware(), controllers.UpvoteIssue)
		issue.PATCH("/:id/status", middlewares.AuthMiddleware(), controllers.UpdateIssueStatus)
		issue.POST("/:id/rating", middlewares.AuthMiddleware(), controllers.RateIssue)
	}
}
