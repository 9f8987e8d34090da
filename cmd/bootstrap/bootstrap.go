package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-doctor-appointment/config"
	deliveryHttp "go-doctor-appointment/internal/delivery/http"
	"go-doctor-appointment/internal/delivery/http/handler"
	"go-doctor-appointment/internal/delivery/http/middleware"
	"go-doctor-appointment/internal/infrastructure/cache"
	"go-doctor-appointment/internal/infrastructure/database"
	"go-doctor-appointment/internal/infrastructure/messaging"
	"go-doctor-appointment/internal/infrastructure/metrics"
	"go-doctor-appointment/internal/infrastructure/storage"
	"go-doctor-appointment/internal/repository"
	"go-doctor-appointment/internal/service"
	"go-doctor-appointment/internal/usecase"
	"go-doctor-appointment/pkg/jwt"
	"go-doctor-appointment/pkg/validator"

	"github.com/minio/minio-go/v7"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	MinIO       *minio.Client
	AMQPConn    *amqp091.Connection
	AMQPChannel *amqp091.Channel
	Metrics     *metrics.Metrics
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Slot dates and "today" on the dashboard follow the clinic's timezone
	if cfg.App.Timezone != "" {
		loc, err := time.LoadLocation(cfg.App.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", cfg.App.Timezone, err)
		}
		time.Local = loc
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.MigrateOnBoot {
		if err := database.RunMigrations(db, log); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database migrations applied")
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	// Initialize object storage
	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	app.MinIO = minioClient
	log.Info("MinIO connected successfully")

	app.Metrics = metrics.New()

	// Initialize message broker; without one, events are only logged
	var publisher service.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		conn, ch, err := messaging.NewRabbitMQConnection(cfg.RabbitMQ)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		app.AMQPConn = conn
		app.AMQPChannel = ch
		publisher = service.NewRabbitMQPublisher(ch, cfg.RabbitMQ.Exchange, app.Metrics, log)
	} else {
		log.Warn("RABBITMQ_URL is empty, appointment events will only be logged")
		publisher = service.NewLogEventPublisher(app.Metrics, log)
	}

	// Initialize all layers
	app.Server = initializeServer(cfg, log, db, redisClient, minioClient, publisher, app.Metrics)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	minioClient *minio.Client,
	publisher service.EventPublisher,
	appMetrics *metrics.Metrics,
) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	denylist := service.NewTokenDenylist(redisClient, log)
	idempotency := service.NewIdempotencyStore(redisClient, log)
	imageStorage := service.NewMinIOImageStorage(minioClient, cfg.MinIO.Bucket, cfg.MinIO.PublicBaseURL, log)
	gateway := service.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, patientProfileRepo, auditService, jwtService, denylist, cfg.Admin)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, log, userRepo, doctorProfileRepo, appointmentRepo, auditService, imageStorage)
	patientProfileUsecase := usecase.NewPatientProfileUsecase(db, log, userRepo, patientProfileRepo, auditService, imageStorage, cfg.App.DefaultAvatarURL)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, doctorProfileRepo, patientProfileRepo, auditService, idempotency, publisher)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, appointmentRepo, auditService, gateway, publisher, cfg.Razorpay.Currency)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, userRepo, appointmentRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, log)
	doctorHandler := handler.NewDoctorHandler(doctorProfileUsecase, customValidator, log, cfg.App.MaxUploadBytes)
	patientHandler := handler.NewPatientHandler(patientProfileUsecase, customValidator, log, cfg.App.MaxUploadBytes)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator, log)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, customValidator, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase, log)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, log)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, denylist, cfg.Admin, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins)
	requestMiddleware := middleware.NewRequestMiddleware(appMetrics, log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		patientHandler,
		appointmentHandler,
		paymentHandler,
		dashboardHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		requestMiddleware,
		cfg.RateLimit,
		appMetrics.Registry,
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes every connection that was opened
func (app *App) Close() {
	if app.AMQPChannel != nil {
		app.AMQPChannel.Close()
	}
	if app.AMQPConn != nil {
		app.AMQPConn.Close()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
