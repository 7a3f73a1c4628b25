package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillpath/user-service/internal/auth"
	"github.com/skillpath/user-service/internal/events"
	"github.com/skillpath/user-service/internal/services"
	"github.com/skillpath/user-service/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	authMiddleware *JWTAuthMiddleware
	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	signer *auth.Signer,
	stream *events.GoChannelPubSub,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), serviceManager.Metrics(), stream, logger),
		authMiddleware: NewJWTAuthMiddleware(signer),
		serviceManager: serviceManager,
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	api := router.Group("/api")
	{
		// Credential endpoints are the only unauthenticated surface.
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signin", hm.authHandler.Signin)
			authRoutes.POST("/signup", hm.authHandler.Signup)
			authRoutes.POST("/forgot-password", hm.authHandler.ForgotPassword)
			authRoutes.POST("/reset-password", hm.authHandler.ResetPassword)
		}

		users := api.Group("/users")
		users.Use(hm.authMiddleware.AuthMiddleware())
		{
			users.PUT("/:id", hm.userHandler.UpdateProfile)
			users.PUT("/:id/roadmap", hm.userHandler.UpdateRoadmap)
			users.POST("/roadmap/nodes/:nodeId/complete", hm.userHandler.CompleteRoadmapNode)
			users.POST("/complete-activity", hm.userHandler.CompleteActivity)
			users.GET("/me/metrics/stream", hm.userHandler.StreamMetrics)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "user-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
