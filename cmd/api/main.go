package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Stranger261/hospital-er-api/config"
	"github.com/Stranger261/hospital-er-api/internal/email"
	appointmentHandler "github.com/Stranger261/hospital-er-api/internal/handler/appointment"
	assignmentHandler "github.com/Stranger261/hospital-er-api/internal/handler/assignment"
	authHandler "github.com/Stranger261/hospital-er-api/internal/handler/auth"
	bedHandler "github.com/Stranger261/hospital-er-api/internal/handler/bed"
	dispositionHandler "github.com/Stranger261/hospital-er-api/internal/handler/disposition"
	healthHandler "github.com/Stranger261/hospital-er-api/internal/handler/health"
	patientHandler "github.com/Stranger261/hospital-er-api/internal/handler/patient"
	registrationHandler "github.com/Stranger261/hospital-er-api/internal/handler/registration"
	treatmentHandler "github.com/Stranger261/hospital-er-api/internal/handler/treatment"
	triageHandler "github.com/Stranger261/hospital-er-api/internal/handler/triage"
	visitHandler "github.com/Stranger261/hospital-er-api/internal/handler/visit"
	"github.com/Stranger261/hospital-er-api/internal/middleware"
	"github.com/Stranger261/hospital-er-api/internal/repository/postgres"
	"github.com/Stranger261/hospital-er-api/internal/router"
	allergyService "github.com/Stranger261/hospital-er-api/internal/service/allergy"
	appointmentService "github.com/Stranger261/hospital-er-api/internal/service/appointment"
	assignmentService "github.com/Stranger261/hospital-er-api/internal/service/assignment"
	authService "github.com/Stranger261/hospital-er-api/internal/service/auth"
	bedService "github.com/Stranger261/hospital-er-api/internal/service/bed"
	dispositionService "github.com/Stranger261/hospital-er-api/internal/service/disposition"
	eventService "github.com/Stranger261/hospital-er-api/internal/service/event"
	patientService "github.com/Stranger261/hospital-er-api/internal/service/patient"
	registrationService "github.com/Stranger261/hospital-er-api/internal/service/registration"
	statsService "github.com/Stranger261/hospital-er-api/internal/service/stats"
	treatmentService "github.com/Stranger261/hospital-er-api/internal/service/treatment"
	triageService "github.com/Stranger261/hospital-er-api/internal/service/triage"
	visitService "github.com/Stranger261/hospital-er-api/internal/service/visit"
	"github.com/Stranger261/hospital-er-api/pkg/auth"
	"github.com/Stranger261/hospital-er-api/pkg/logger"
	"github.com/Stranger261/hospital-er-api/pkg/metrics"
	"github.com/Stranger261/hospital-er-api/pkg/redislock"
	"github.com/Stranger261/hospital-er-api/pkg/security"
	"github.com/Stranger261/hospital-er-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Redis backs the bed lock and the readiness check. The API runs without
	// it; the worker needs it for board fanout.
	var redisClient *goredis.Client
	var locker redislock.Locker = redislock.NoopLocker{}
	if cfg.Redis.URL != "" {
		opts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid redis URL")
		}
		redisClient = goredis.NewClient(opts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, bed locking disabled")
			redisClient = nil
		} else {
			locker = redislock.NewBedLocker(redisClient, cfg.ER.BedLockTTL)
		}
	}

	// Repositories
	visitRepo := postgres.NewVisitRepository(db)
	triageRepo := postgres.NewTriageRepository(db)
	treatmentRepo := postgres.NewTreatmentRepository(db)
	dispositionRepo := postgres.NewDispositionRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	bedRepo := postgres.NewBedRepository(db)
	allergyRepo := postgres.NewAllergyRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Shared infrastructure
	appMetrics := metrics.NewMetrics("hospital_er", "api")
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	notifier := email.NewMailer(cfg.Email, appLogger)

	// Services
	eventSvc := eventService.NewService(outboxRepo, appLogger)
	visitSvc := visitService.NewService(visitRepo, patientRepo, doctorRepo, triageRepo)
	triageSvc := triageService.NewService(triageRepo, visitRepo, eventSvc, appMetrics)
	assignmentSvc := assignmentService.NewService(visitRepo, doctorRepo, eventSvc, appMetrics)
	treatmentSvc := treatmentService.NewService(treatmentRepo, visitRepo, eventSvc)
	dispositionSvc := dispositionService.NewService(
		dispositionRepo, visitRepo, doctorRepo, bedRepo,
		locker, notifier, eventSvc, appMetrics, appLogger, cfg.ER,
	)
	registrationSvc := registrationService.NewService(
		patientRepo, visitRepo, visitSvc,
		registrationService.NoopMatcher{}, eventSvc, appMetrics, appLogger, cfg.ER,
	)
	patientSvc := patientService.NewService(patientRepo, allergyRepo)
	allergySvc := allergyService.NewService(allergyRepo, patientRepo)
	bedSvc := bedService.NewService(bedRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo)
	statsSvc := statsService.NewService(visitRepo, cfg.ER.StatsTTL)
	eventSvc.SetBoardInvalidator(statsSvc)
	authSvc := authService.NewService(staffRepo, hasher, jwtSvc)

	// Handlers
	authH := authHandler.NewHandler(authSvc)
	handlers := router.Handlers{
		Health:       healthHandler.NewHandler(db, redisClient),
		Auth:         authH,
		Visit:        visitHandler.NewHandler(visitSvc, statsSvc),
		Triage:       triageHandler.NewHandler(triageSvc),
		Assignment:   assignmentHandler.NewHandler(assignmentSvc),
		Treatment:    treatmentHandler.NewHandler(treatmentSvc),
		Disposition:  dispositionHandler.NewHandler(dispositionSvc),
		Registration: registrationHandler.NewHandler(registrationSvc),
		Patient:      patientHandler.NewHandler(patientSvc, allergySvc),
		Bed:          bedHandler.NewHandler(bedSvc),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc),
	}

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("failed to register binding validations")
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	r := router.NewRouter(authMiddleware, handlers, authH, cfg)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
