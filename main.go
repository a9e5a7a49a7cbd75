package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicbot/config"
	"clinicbot/cron"
	"clinicbot/database"
	appointmentRepo "clinicbot/database/repository/appointment"
	serviceRepo "clinicbot/database/repository/service"
	"clinicbot/handlers"
	"clinicbot/middleware"
	"clinicbot/routes"
	"clinicbot/services/availability"
	"clinicbot/services/booking"
	"clinicbot/services/conversation"
	"clinicbot/services/intelligence"
	"clinicbot/services/payments"
	"clinicbot/services/reports"
	"clinicbot/services/reservation"
	"clinicbot/services/storage"
	"clinicbot/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.InitSlotLockCache()

	proofStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		logger.Sugar().Warnf("main: payment proof storage disabled: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo(database.DB())
	svcRepo := serviceRepo.NewMongoServiceRepo(database.DB())

	// Domain services.
	generator := availability.NewGenerator(availability.NewColombianHolidays())
	holds := reservation.NewRedisSlotHoldCache(utils.GetSlotLockCacheClient())
	coordinator := booking.NewCoordinator(apptRepo, svcRepo, holds, generator)
	manager := booking.NewManager(apptRepo, svcRepo, holds)
	classifier := intelligence.NewGeminiClassifier(config.AppConfig.GeminiAPIKey, svcRepo)
	transcriber := intelligence.NewGoogleTranscriber()
	sessions := conversation.NewRedisSessionStore(utils.GetSessionCacheClient())
	reminders := cron.NewReminderScheduler()

	machine := conversation.NewMachine(
		sessions, classifier, coordinator, manager,
		svcRepo, apptRepo, holds, generator, reminders,
	)

	reportSvc := reports.NewService(apptRepo, svcRepo, config.AppConfig.ReportsDir)
	gateway := payments.NewStripeGateway()

	// Background workers.
	notifier := cron.NewTransportNotifier()
	cron.InitReminderWorker(notifier)
	reportCron := cron.StartDailyReportCron(reportSvc, notifier)
	defer reportCron.Stop()

	// HTTP layer.
	var proofs storage.ProofStorage
	if proofStorage != nil {
		proofs = proofStorage
	}
	routes.RegisterRoutes(router, &routes.Handlers{
		Chat:     handlers.NewChatHandler(machine, transcriber, proofs),
		Services: handlers.NewServicesHandler(svcRepo),
		Admin:    handlers.NewAdminHandler(reportSvc, apptRepo, gateway),
	})

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
