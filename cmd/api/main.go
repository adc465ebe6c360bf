package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"hirepath/internal/app"
	"hirepath/internal/config"
	"hirepath/internal/database"
	"hirepath/internal/domain/notification"
	apphttp "hirepath/internal/http"
	"hirepath/internal/http/handlers"
	"hirepath/internal/http/metrics"
	httpmw "hirepath/internal/http/middleware"
	"hirepath/internal/http/response"
	"hirepath/internal/integration/notify"
	"hirepath/internal/observability"
	"hirepath/internal/repository/postgres"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	stageRepo := postgres.NewStageRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	interviewRepo := postgres.NewInterviewRepository(db)
	vacancyRepo := postgres.NewVacancyRepository(db)
	candidateRepo := postgres.NewCandidateRepository(db)

	var notifier notification.Notifier = notification.Noop{}
	if cfg.NotifyBaseURL != "" {
		notifier = notify.NewClient(cfg.NotifyBaseURL, cfg.NotifyInternalKey, &http.Client{Timeout: 5 * time.Second})
	}

	screeningService := app.NewScreeningService(vacancyRepo)
	applicationService := app.NewApplicationService(applicationRepo, stageRepo, screeningService, logger)
	interviewService := app.NewInterviewService(interviewRepo, applicationRepo, stageRepo, applicationService, logger)
	reassignmentService := app.NewReassignmentService(applicationRepo, stageRepo, vacancyRepo, candidateRepo, notifier, logger)

	var rateLimiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisAddr != "" {
		rateLimiter = httpmw.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	stageHandler := handlers.NewStageHandler(stageRepo)
	applicationHandler := handlers.NewApplicationHandler(applicationService, reassignmentService, rateLimiter)
	interviewHandler := handlers.NewInterviewHandler(interviewService, rateLimiter)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		StageHandler:       stageHandler,
		ApplicationHandler: applicationHandler,
		InterviewHandler:   interviewHandler,
		MetricsHandler:     handlers.NewMetricsHandler(collector),
		Metrics:            collector,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runCompletionSweep(sweepCtx, interviewService, logger, cfg.SweepInterval)

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}

// runCompletionSweep lazily closes interviews whose end time has passed.
func runCompletionSweep(ctx context.Context, interviews *app.InterviewService, logger *observability.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := interviews.CompleteElapsed(ctx); err != nil {
				logger.Error("interview completion sweep failed: " + err.Error())
			}
		}
	}
}
