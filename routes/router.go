package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tripwise/tripmedia/config"
	"github.com/tripwise/tripmedia/controllers"
	"github.com/tripwise/tripmedia/middleware"
	"github.com/tripwise/tripmedia/services"
	"github.com/tripwise/tripmedia/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(mediaService *services.MediaService) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(utils.Logger))
	r.Use(middleware.Recovery(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	mediaController := controllers.NewMediaController(mediaService)

	api := r.Group("/api/v1")

	media := api.Group("/media")
	media.Use(middleware.RateLimitMiddleware())
	// Point reads are public; everything touching ownership needs identity.
	media.GET("/:id", mediaController.GetMedia)
	media.POST("/batch", mediaController.GetMediaBatch)
	media.POST("/init", middleware.AuthRequired(), mediaController.InitUpload)
	media.POST("/confirm", middleware.AuthRequired(), mediaController.ConfirmUpload)
	media.DELETE("/:id", middleware.AuthRequired(), mediaController.DeleteMedia)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
