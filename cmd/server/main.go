package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dengeterapi/clinic-server-go/internal/config"
	"github.com/dengeterapi/clinic-server-go/internal/database"
	"github.com/dengeterapi/clinic-server-go/internal/handler"
	"github.com/dengeterapi/clinic-server-go/internal/jobs"
	"github.com/dengeterapi/clinic-server-go/internal/middleware"
	"github.com/dengeterapi/clinic-server-go/internal/notify"
	"github.com/dengeterapi/clinic-server-go/internal/redis"
	"github.com/dengeterapi/clinic-server-go/internal/repository"
	"github.com/dengeterapi/clinic-server-go/internal/service"
	"github.com/dengeterapi/clinic-server-go/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := cfg.IsProduction()
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	var objectStore storage.ObjectStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize object storage")
		}
		objectStore = s3Store
		log.Info().Str("bucket", cfg.S3Bucket).Msg("object storage ready")
	} else {
		objectStore = storage.NewDisabledStore()
		log.Warn().Msg("S3_BUCKET not set: media upload and backups are disabled")
	}

	userRepo := repository.NewAdminUserRepository(db.DB)
	sessionRepo := repository.NewAdminSessionRepository(db.DB)
	resetRepo := repository.NewPasswordResetRepository(db.DB)
	settingRepo := repository.NewSettingRepository(db.DB)
	contactRepo := repository.NewContactRepository(db.DB)
	assessmentRepo := repository.NewAssessmentRepository(db.DB)
	mediaRepo := repository.NewMediaRepository(db.DB)
	backupRepo := repository.NewBackupRepository(db.DB)
	serviceRepo := repository.NewServiceRepository(db.DB)
	legalRepo := repository.NewLegalPageRepository(db.DB)
	bookingRepo := repository.NewBookingRepository(db.DB)

	mailer := notify.NewMailer()
	whatsapp := notify.NewWhatsAppClient(cfg.WhatsAppAPIURL, cfg.WhatsAppToken, cfg.WhatsAppDefaultTo)

	settingsService := service.NewSettingsService(settingRepo, cfg.EncryptionSecret(), notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		NotifyTo: cfg.SMTPNotifyTo,
	})
	authService := service.NewAuthService(
		db, userRepo, sessionRepo, resetRepo,
		mailer, settingsService, cfg.SessionSecret, cfg.BaseURL(),
	)
	contactService := service.NewContactService(contactRepo, mailer, whatsapp, settingsService)
	assessmentService := service.NewAssessmentService(assessmentRepo)
	mediaService := service.NewMediaService(mediaRepo, objectStore)
	backupService := service.NewBackupService(db, backupRepo, settingsService, objectStore)
	contentService := service.NewContentService(serviceRepo, legalRepo, mediaRepo, settingsService)
	bookingService := service.NewBookingService(bookingRepo, whatsapp)

	sessionMiddleware := middleware.NewAdminSessionMiddleware(sessionRepo, cfg.SessionSecret)
	cronAuthMiddleware := middleware.NewCronAuthMiddleware(cfg.CronSecret)
	contactLimitMiddleware := middleware.NewContactRateLimitMiddleware(redisClient)
	csrfMiddleware := middleware.NewCSRFMiddleware(isProduction)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService, isProduction)
	contactHandler := handler.NewContactHandler(contactService, assessmentService, contactLimitMiddleware.Handler)
	contentHandler := handler.NewContentHandler(contentService)
	adminHandler := handler.NewAdminHandler(
		contentService, contactService, assessmentService, mediaService,
		backupService, settingsService, bookingService, mailer,
		sessionMiddleware.Handler, csrfMiddleware.Handler,
	)
	cronHandler := handler.NewCronHandler(backupService, cronAuthMiddleware.Handler)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		contactHandler.RegisterRoutes(r)
		contentHandler.RegisterRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(securityHeadersMiddleware.Handler)
			authHandler.RegisterRoutes(r)
			r.Mount("/", adminHandler.Routes())
		})

		r.Mount("/cron", cronHandler.Routes())
	})

	cleanupJob := jobs.NewCleanupJob(sessionRepo, resetRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
