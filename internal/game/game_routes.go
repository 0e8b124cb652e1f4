package game

import (
	"github.com/gin-gonic/gin"
)

// GameRoutes sets up all game-related routes. Every route requires auth.
func GameRoutes(router *gin.RouterGroup, controller *GameController, auth gin.HandlerFunc) {
	authRoutes := router.Group("/")
	authRoutes.Use(auth)
	{
		authRoutes.POST("/games", controller.CreateGame)
		authRoutes.POST("/games/preview", controller.PreviewGame)
		authRoutes.GET("/games/:game_id", controller.GetGame)
		authRoutes.GET("/users/me/games", controller.GetMyGames)

		// Lifecycle
		authRoutes.POST("/games/:game_id/score", controller.RecordScore)
		authRoutes.POST("/games/:game_id/verify", controller.VerifyGame)
		authRoutes.POST("/games/:game_id/dispute", controller.DisputeGame)
		authRoutes.POST("/games/:game_id/join", controller.JoinGame)
	}
}
