// File: medibook/main.go
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	bookingRepo "medibook/database/repository/booking"
	notificationRepo "medibook/database/repository/notification"
	patientRepo "medibook/database/repository/patient"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/models"
	"medibook/routes"
	"medibook/services/booking"
	"medibook/services/notification"
	"medibook/services/payment"
	"medibook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitPaymentStateCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	bookingsRepo := bookingRepo.NewMongoBookingRepo()
	notificationsRepo := notificationRepo.NewMongoNotificationRepo()
	preferencesRepo := notificationRepo.NewMongoPreferenceRepo()
	patientsRepo := patientRepo.NewMongoPatientRepo()

	// One lock set serializes lifecycle and payment mutations per booking.
	locks := utils.NewKeyedMutex()

	// channel senders.
	senders := map[models.NotificationChannel]notification.ChannelSender{
		models.ChannelEmail: notification.NewEmailSender(func(ctx context.Context, userID string) (string, error) {
			contact, err := patientsRepo.GetContact(userID)
			if err != nil {
				return "", err
			}
			return contact.Email, nil
		}, logger),
		models.ChannelSMS: notification.NewSMSSender(func(ctx context.Context, userID string) (string, error) {
			contact, err := patientsRepo.GetContact(userID)
			if err != nil {
				return "", err
			}
			return contact.Phone, nil
		}, logger),
		models.ChannelPush: notification.NewFCMPushSender(func(ctx context.Context, userID string) (string, error) {
			contact, err := patientsRepo.GetContact(userID)
			if err != nil {
				return "", err
			}
			return contact.FCMToken, nil
		}, logger),
	}

	// services.
	enqueuer := cron.NewEnqueuer()
	dispatcher := notification.NewDispatcherService(notificationsRepo, preferencesRepo, senders, enqueuer, logger)
	deliveryWorker := cron.InitDeliveryWorker(dispatcher)

	gateway := payment.NewStripeGateway(logger)
	stateStore := payment.NewRedisStateStore(utils.GetPaymentStateClient())
	orchestrator := payment.NewOrchestratorService(stateStore, gateway, bookingsRepo, dispatcher, locks, logger)
	lifecycle := booking.NewLifecycleService(bookingsRepo, gateway, dispatcher, locks, logger)

	// handlers.
	bookingHandler := handlers.NewBookingHandler(lifecycle, logger)
	paymentHandler := handlers.NewPaymentHandler(orchestrator, logger)
	pollInterval := time.Duration(config.AppConfig.NotificationPollSeconds) * time.Second
	notificationHandler := handlers.NewNotificationHandler(dispatcher, pollInterval, logger)
	preferenceHandler := handlers.NewPreferenceHandler(dispatcher, logger)

	routes.SetupRoutes(router, bookingHandler, paymentHandler, notificationHandler, preferenceHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	// Request contexts derive from appCtx so long-lived badge streams (and
	// their pollers) end when shutdown begins, letting Shutdown drain.
	appCtx, stopStreams := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
		BaseContext: func(net.Listener) context.Context {
			return appCtx
		},
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

	stopStreams()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	deliveryWorker.Shutdown()
	if err := enqueuer.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close task client: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
