package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/DhavalSuthar-24/rally/config"
	"github.com/DhavalSuthar-24/rally/internal/game"
	"github.com/DhavalSuthar-24/rally/internal/middleware"
	"github.com/DhavalSuthar-24/rally/internal/pairing"
	"github.com/DhavalSuthar-24/rally/internal/waitlist"
	"github.com/DhavalSuthar-24/rally/pkg/validator"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Config   *config.Config
	Log      *logrus.Entry
	Games    *game.Service
	Pairing  *pairing.Service
	Waitlist *waitlist.Service
	Gatherer prometheus.Gatherer
	// Ping reports storage health; nil means always healthy.
	Ping func(ctx context.Context) error
}

func SetupRoutes(d Deps) *gin.Engine {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.UseJSONNames()
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(d.Log))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{d.Config.App.FrontendURL}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				d.Log.WithError(err).Warn("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": d.Config.DB.Driver})
	})

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api/v1")
	auth := middleware.AuthMiddleware(d.Config.JWT.AccessTokenSecret)
	game.GameRoutes(api, game.NewGameController(d.Games), auth)
	pairing.PairingRoutes(api, pairing.NewPairingController(d.Pairing), auth)
	waitlist.WaitlistRoutes(api, waitlist.NewWaitlistController(d.Waitlist), auth)

	return r
}
