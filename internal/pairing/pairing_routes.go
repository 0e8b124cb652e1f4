package pairing

import (
	"github.com/gin-gonic/gin"
)

// PairingRoutes sets up matchmaking routes. Every route requires auth.
func PairingRoutes(router *gin.RouterGroup, controller *PairingController, auth gin.HandlerFunc) {
	authRoutes := router.Group("/matchmaking")
	authRoutes.Use(auth)
	{
		authRoutes.POST("/requests", controller.CreateRequest)
		authRoutes.GET("/requests/me", controller.GetMyRequest)
		authRoutes.DELETE("/requests/:request_id", controller.CancelRequest)
		authRoutes.GET("/suggestions", controller.GetSuggestions)
		authRoutes.POST("/accept", controller.AcceptMatch)
	}
}
