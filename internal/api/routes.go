package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stenolearn-backend-go/internal/core"
)

// SetupRoutes configures all application routes. Global middleware
// (logging, recovery, CORS) is applied to the router before this is
// called; authMW is the authentication middleware chosen at startup
// (Firebase token verification, or the local-mode header variant).
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authMW gin.HandlerFunc,
	profileService core.ProfileService,
	billingService core.BillingService,
) {
	authHandler := NewAuthHandler(profileService)
	profileHandler := NewProfileHandler(profileService)
	contentHandler := NewContentHandler()
	billingHandler := NewBillingHandler(billingService)

	apiV1 := router.Group("/api/v1")
	{
		users := apiV1.Group("/users")
		{
			// Called after client-side Firebase login/signup to ensure the
			// backend profile exists.
			users.POST("/initialize", authMW, authHandler.InitializeProfile)

			me := users.Group("/me", authMW)
			{
				me.GET("", profileHandler.GetCurrentProfile)
				me.PATCH("", profileHandler.UpdateProfile)
				me.PUT("/subscription", profileHandler.UpdateSubscription)
				me.POST("/usage", profileHandler.TrackUsage)
				me.POST("/progress", profileHandler.RecordProgress)
			}
		}

		// The curriculum catalog is public read-only reference data.
		contentGroup := apiV1.Group("/content")
		{
			contentGroup.GET("/modules", contentHandler.ListModules)
			contentGroup.GET("/modules/:moduleId", contentHandler.GetModule)
			contentGroup.GET("/modules/:moduleId/quiz", contentHandler.GetModuleQuiz)
			contentGroup.GET("/shortforms", contentHandler.ListShortforms)
		}

		billing := apiV1.Group("/billing")
		{
			billing.POST("/create-checkout-session", authMW, billingHandler.CreateCheckoutSession)
			// Public: Stripe authenticates webhooks via signature.
			billing.POST("/webhooks/stripe", billingHandler.HandleStripeWebhook)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1 and /health.")
}
