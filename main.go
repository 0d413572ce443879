package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mentorhub/config"
	"mentorhub/cron"
	"mentorhub/database"
	auditRepoPkg "mentorhub/database/repository/audit"
	availabilityRepoPkg "mentorhub/database/repository/availability"
	paymentRepoPkg "mentorhub/database/repository/payment"
	pricingRepoPkg "mentorhub/database/repository/pricing"
	sessionRepoPkg "mentorhub/database/repository/session"
	userRepoPkg "mentorhub/database/repository/user"
	"mentorhub/handlers"
	"mentorhub/middleware"
	"mentorhub/models"
	"mentorhub/routes"
	"mentorhub/services/audit"
	"mentorhub/services/identity"
	"mentorhub/services/notification"
	"mentorhub/services/payment"
	"mentorhub/services/payout"
	"mentorhub/services/pricing"
	"mentorhub/services/scheduling"
	"mentorhub/services/session"
	"mentorhub/services/tasks"
	"mentorhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()
	utils.InitLockClient()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	sessRepo := sessionRepoPkg.NewMongoSessionRepo()
	availRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	priceRepo := pricingRepoPkg.NewMongoPricingRepo()
	payRepo := paymentRepoPkg.NewMongoPaymentRepo()
	usrRepo := userRepoPkg.NewMongoUserRepo()
	audRepo := auditRepoPkg.NewMongoAuditRepo()

	if err := sessionRepoPkg.EnsureIndexes(database.DB().Collection("sessions")); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure session indexes: %v", err)
	}
	if err := availabilityRepoPkg.EnsureIndexes(database.DB().Collection("availability_slots")); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure availability indexes: %v", err)
	}

	// async task plumbing.
	enqueuer := tasks.NewEnqueuer()
	auditSink := &audit.AsyncSink{Queue: enqueuer, Logger: logger}
	pushDispatcher := &notification.AsyncDispatcher{Queue: enqueuer, Logger: logger}

	// services.
	conflicts := &scheduling.DefaultConflictDetector{Repo: sessRepo}

	registry := pricing.NewRegistry()
	registry.Register(models.PricingOneTime, &pricing.OneTimeHandler{
		Conflicts: conflicts,
		MinAmount: config.AppConfig.MinChargeAmount,
	})
	registry.Register(models.PricingHourly, &pricing.HourlyHandler{
		Conflicts: conflicts,
		MinAmount: config.AppConfig.MinChargeAmount,
	})
	registry.Register(models.PricingSubscription, &pricing.SubscriptionHandler{
		Sessions:  sessRepo,
		MinAmount: config.AppConfig.MinChargeAmount,
	})

	stripeGateway := &payment.StripeGateway{Logger: logger}
	processor := &payment.Processor{
		Repo:    payRepo,
		Gateway: stripeGateway,
		FeeRate: config.AppConfig.PlatformFeePercentage,
		Logger:  logger,
	}

	payoutEngine := &payout.Engine{
		Repo:      payRepo,
		Ledger:    &payout.Ledger{Repo: payRepo},
		Locks:     &payout.RedisLocker{Client: utils.GetLockClient()},
		Transfers: stripeGateway,
		Finalize:  enqueuer,
		Logger:    logger,
	}

	sessionService := &session.DefaultSessionService{
		Sessions:           sessRepo,
		PricingModels:      priceRepo,
		Registry:           registry,
		Payments:           processor,
		Payouts:            payoutEngine,
		CancellationWindow: time.Duration(config.AppConfig.CancellationWindowHrs) * time.Hour,
		AutoPayout:         config.AppConfig.AutoPayoutEnabled,
		Audit:              auditSink,
		Notify:             pushDispatcher,
		Logger:             logger,
	}

	availabilityService := &scheduling.DefaultAvailabilityService{
		Repo:   availRepo,
		Logger: logger,
	}

	identityService := &identity.DefaultIdentityService{
		Users:  usrRepo,
		Logger: logger,
	}

	notificationService, err := notification.NewDefaultNotificationService(usrRepo, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	// Background worker for audit, push, and payout finalization tasks.
	cron.InitTaskWorker(
		&audit.Writer{Repo: audRepo, Logger: logger},
		notificationService,
		payoutEngine,
	)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:     usrRepo,
		PricingRepo:  priceRepo,
		Identity:     identityService,
		Availability: availabilityService,
		Sessions:     sessionService,
		Registry:     registry,
		Payments:     processor,
		Payouts:      payoutEngine,
		Ledger:       payoutEngine.Ledger,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
