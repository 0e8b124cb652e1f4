package waitlist

import (
	"github.com/DhavalSuthar-24/rally/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
)

// WaitlistRoutes sets up waitlist routes. Listing and processing a
// waitlist is limited to organizers.
func WaitlistRoutes(router *gin.RouterGroup, controller *WaitlistController, auth gin.HandlerFunc) {
	authRoutes := router.Group("/waitlist/:event_type/:event_id")
	authRoutes.Use(auth)
	{
		authRoutes.POST("", controller.JoinWaitlist)
		authRoutes.DELETE("", controller.LeaveWaitlist)
		authRoutes.GET("/position", controller.GetPosition)
		authRoutes.POST("/accept", controller.AcceptSpot)
		authRoutes.POST("/decline", controller.DeclineSpot)
		authRoutes.POST("/registration", controller.Register)
		authRoutes.DELETE("/registration", controller.Withdraw)

		organizer := authRoutes.Group("")
		organizer.Use(rmiddleware.OrganizerOrAdminMiddleware())
		organizer.GET("/entries", controller.ListEntries)
		organizer.POST("/process", controller.ProcessWaitlist)
	}
}
