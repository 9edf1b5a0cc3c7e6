package routes

import (
	"civic-reporter-be/controllers"
	"civic-reporter-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController) {
	issue := r.Group("/api/issues", middlewares.AuthMiddleware())
	{
		issue.POST("", middlewares.IssueRateLimiter(10), ic.CreateIssue)
		issue.GET("", ic.GetAllIssues)
		issue.GET("/stats", ic.GetStatusCounts)
		issue.GET("/recent", ic.RecentIssues)
		issue.GET("/mine", ic.GetMyIssues)
		issue.GET("/:id", ic.GetIssue)
		issue.PUT("/:id", ic.UpdateIssue)
		issue.PATCH("/:id/status", ic.UpdateIssueStatus)
		issue.DELETE("/:id", ic.DeleteIssue)
	}
}
