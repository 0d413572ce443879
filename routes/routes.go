package routes

import (
	"net/http"
	"time"

	"mentorhub/handlers"
	"mentorhub/middleware"
	"mentorhub/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers signup/signin and device endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.SignupHandler)
		api.POST("/signin", hb.SigninHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.PUT("/device", hb.RegisterDeviceHandler)
	}
}

// RegisterAvailabilityRoutes registers mentor availability endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		// Public: mentees browse a mentor's schedule before booking.
		api.GET("/mentor/:mentorID", hb.ListAvailabilityHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		protected.Use(middleware.RequireRole(hb.UserRepo, models.RoleMentor))
		protected.POST("", hb.CreateAvailabilityHandler)
		protected.PATCH("/:slotID", hb.SetAvailabilityActiveHandler)
		protected.DELETE("/:slotID", hb.DeleteAvailabilityHandler)
	}
}

// RegisterPricingRoutes registers pricing model endpoints.
func RegisterPricingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/pricing")
	{
		api.GET("/mentor/:mentorID", hb.ListPricingModelsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		protected.Use(middleware.RequireRole(hb.UserRepo, models.RoleMentor))
		protected.POST("", hb.CreatePricingModelHandler)
		protected.PATCH("/:modelID", hb.SetPricingModelActiveHandler)
	}
}

// RegisterSessionRoutes registers booking and lifecycle endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		// Public: busy windows only, no mentee or pricing details.
		api.GET("/mentor/:mentorID/schedule", hb.MentorScheduleHandler)

		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.POST("", middleware.RequireRole(hb.UserRepo, models.RoleMentee), hb.BookSessionHandler)
		api.GET("", hb.ListMySessionsHandler)
		api.GET("/:sessionID", hb.GetSessionHandler)
		api.POST("/:sessionID/transition", hb.TransitionSessionHandler)
		api.GET("/:sessionID/transaction", hb.GetSessionTransactionHandler)
	}
}

// RegisterPaymentRoutes registers the gateway webhook. The webhook is
// authenticated by gateway signature upstream, not by user JWT.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.POST("/webhook", hb.GatewayWebhookHandler)
	}
}

// RegisterPayoutRoutes registers earnings and payout endpoints.
func RegisterPayoutRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payouts")
	{
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.Use(middleware.RequireRole(hb.UserRepo, models.RoleMentor))
		api.GET("/earnings", hb.GetEarningsHandler)
		api.POST("", hb.RequestPayoutHandler)
		api.GET("", hb.ListPayoutsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm MentorHub"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterPricingRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterPayoutRoutes(r, hb)
}
