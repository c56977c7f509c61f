package http

import (
	"log/slog"

	"github.com/driftr-app/driftr-backend/internal/delivery/http/handler"
	"github.com/driftr-app/driftr-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	authHandler      *handler.AuthHandler
	profileHandler   *handler.ProfileHandler
	discoveryHandler *handler.DiscoveryHandler
	chatHandler      *handler.ChatHandler
	builderHandler   *handler.BuilderHandler
	authMiddleware   *middleware.AuthMiddleware
	log              *slog.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	discoveryHandler *handler.DiscoveryHandler,
	chatHandler *handler.ChatHandler,
	builderHandler *handler.BuilderHandler,
	authMiddleware *middleware.AuthMiddleware,
	log *slog.Logger,
) *Router {
	return &Router{
		authHandler:      authHandler,
		profileHandler:   profileHandler,
		discoveryHandler: discoveryHandler,
		chatHandler:      chatHandler,
		builderHandler:   builderHandler,
		authMiddleware:   authMiddleware,
		log:              log,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Observability(r.log))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", r.authHandler.SignUp)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Profile routes
			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.PUT("/me", r.profileHandler.UpdateMyProfile)
				profile.PUT("/me/location", r.profileHandler.UpdateLocation)
				profile.POST("/me/location/request", r.profileHandler.RequestLocation)
				profile.GET("/:user_id", r.profileHandler.GetProfile)
			}

			// Map routes
			protected.GET("/map/pins", r.profileHandler.NearbyPins)

			// Discovery routes
			discovery := protected.Group("/discovery")
			{
				discovery.GET("", r.discoveryHandler.State)
				discovery.POST("/refresh", r.discoveryHandler.Refresh)
				discovery.POST("/skip", r.discoveryHandler.Skip)
				discovery.POST("/wave", r.discoveryHandler.Wave)
				discovery.POST("/celebration/dismiss", r.discoveryHandler.DismissCelebration)
				discovery.GET("/wave-limit", r.discoveryHandler.WaveLimit)
			}
			protected.POST("/premium/refresh", r.discoveryHandler.RefreshPremium)

			// Match and chat routes
			matches := protected.Group("/matches")
			{
				matches.GET("", r.chatHandler.ListMatches)
				matches.GET("/:match_id/messages", r.chatHandler.Messages)
				matches.POST("/:match_id/messages", r.chatHandler.SendMessage)
				matches.GET("/:match_id/subscribe", r.chatHandler.Subscribe)
			}

			// Builder marketplace routes
			builders := protected.Group("/builders")
			{
				builders.GET("", r.builderHandler.ListBuilders)
				builders.GET("/:builder_id", r.builderHandler.GetBuilder)
				builders.POST("/:builder_id/reviews", r.builderHandler.AddReview)
			}
		}
	}

	return router
}
