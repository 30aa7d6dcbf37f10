package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trustmission-platform/config"
	"trustmission-platform/handlers"
	"trustmission-platform/middleware"
	"trustmission-platform/models"
	"trustmission-platform/services"
	"trustmission-platform/utils"
	"trustmission-platform/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment variables directly")
	}

	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatal("failed to initialize logger:", err)
	}
	defer utils.Logger.Sync()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.BalanceAdjustment{},
		&models.Quiz{},
		&models.Question{},
		&models.QuizCompletion{},
		&models.Referral{},
		&models.WithdrawalRequest{},
		&models.Appointment{},
		&models.Setting{},
		&models.Notification{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.InitStorage(cfg); err != nil {
		utils.Sugar.Warnw("KYC document storage disabled", "err", err)
	}

	settingsService := services.NewSettingsService(db)
	if err := settingsService.SeedDefaults(); err != nil {
		log.Fatal("failed to seed settings:", err)
	}

	accountService := services.NewAccountService(db, settingsService)
	quizService := services.NewQuizService(db)
	referralService := services.NewReferralService(db, settingsService)
	attemptService := services.NewAttemptService(db, settingsService, referralService)
	withdrawalService := services.NewWithdrawalService(db, settingsService)
	appointmentService := services.NewAppointmentService(db, settingsService)
	notificationService := services.NewNotificationService(db)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken))

	origins := ""
	for i, o := range cfg.AllowedOrigins {
		if i > 0 {
			origins += ","
		}
		origins += o
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-User-ID, X-User-Roles",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	handlers.SetupAccountRoutes(app, accountService, quizService, referralService, notificationService, settingsService)
	handlers.SetupQuizRoutes(app, accountService, quizService, attemptService)
	handlers.SetupWalletRoutes(app, withdrawalService, appointmentService)
	handlers.SetupAdminRoutes(app, accountService, quizService, withdrawalService, appointmentService, settingsService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := workers.NewReferralReconciler(referralService,
		time.Duration(cfg.ReconcileIntervalMinutes)*time.Minute)
	if err := reconciler.Start(); err != nil {
		log.Fatal("failed to start referral reconciler:", err)
	}
	defer reconciler.Stop()

	go workers.PollNotifications(ctx, notificationService,
		time.Duration(cfg.NotifyIntervalSeconds)*time.Second)

	go func() {
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			utils.Sugar.Errorw("server error", "err", err)
		}
	}()

	utils.Sugar.Infow("server running",
		"port", cfg.AppPort,
		"reconcile_interval_min", cfg.ReconcileIntervalMinutes,
		"notify_interval_sec", cfg.NotifyIntervalSeconds,
	)

	<-ctx.Done()
	utils.Sugar.Info("shutting down server")
	_ = app.Shutdown()
}
