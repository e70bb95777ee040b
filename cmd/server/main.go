// Command server wires dependencies and runs the talentflow HTTP API.
// Business logic lives in the internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"talentflow/internal/analytics"
	"talentflow/internal/audit"
	"talentflow/internal/directory"
	"talentflow/internal/docs"
	interviewhandler "talentflow/internal/interview/handler"
	interviewmetrics "talentflow/internal/interview/metrics"
	interviewservice "talentflow/internal/interview/service"
	interviewstore "talentflow/internal/interview/store"
	"talentflow/internal/notify"
	pipelinehandler "talentflow/internal/pipeline/handler"
	pipelinemetrics "talentflow/internal/pipeline/metrics"
	pipelinemodels "talentflow/internal/pipeline/models"
	pipelineservice "talentflow/internal/pipeline/service"
	pipelinestore "talentflow/internal/pipeline/store"
	"talentflow/internal/platform/config"
	"talentflow/internal/platform/httpserver"
	"talentflow/internal/platform/logger"
	platformmetrics "talentflow/internal/platform/metrics"
	platformredis "talentflow/internal/platform/redis"
	httptransport "talentflow/internal/transport/http"
	"talentflow/internal/workflow"
	workflowhandler "talentflow/internal/workflow/handler"
	"talentflow/pkg/platform/retry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: postgres when a DSN is configured, in-memory otherwise.
	var (
		applicationStore pipelineservice.Store
		interviewStore   interviewstore.InterviewStore
		applicationRepo  pipelinestore.ApplicationStore
		auditStore       audit.Store
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		pgApps := pipelinestore.NewPostgresApplicationStore(db)
		applicationStore, applicationRepo = pgApps, pgApps
		interviewStore = interviewstore.NewPostgresInterviewStore(db)
		auditStore = audit.NewPostgresStore(db)
		log.Info("using postgres stores")
	} else {
		memApps := pipelinestore.NewInMemoryApplicationStore()
		applicationStore, applicationRepo = memApps, memApps
		interviewStore = interviewstore.NewInMemoryInterviewStore()
		auditStore = audit.NewInMemoryStore()
		log.Warn("no postgres DSN configured, using in-memory stores")
	}

	// Directory, optionally fronted by Redis.
	var candidates directory.CandidateDirectory = directory.NewInMemoryCandidateDirectory()
	var jobs directory.JobDirectory = directory.NewInMemoryJobDirectory()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		candidates = directory.NewCachedCandidateDirectory(candidates, redisClient.Client, cfg.CacheTTL, log)
		jobs = directory.NewCachedJobDirectory(jobs, redisClient.Client, cfg.CacheTTL, log)
		log.Info("directory cache enabled")
	}

	// Notifications.
	var notifier notify.Publisher = notify.Noop{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaPublisher, err := notify.NewKafkaPublisher(brokers, cfg.KafkaTopic, log)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafkaPublisher.Close(closeCtx); err != nil {
				log.Error("close kafka publisher", "error", err)
			}
		}()
		notifier = kafkaPublisher
		log.Info("kafka notifications enabled", "topic", cfg.KafkaTopic)
	}

	// Audit trail: handlers publish, the worker persists.
	auditInbox := make(chan audit.Event, cfg.AuditBuffer)
	auditPublisher := audit.NewPublisher(auditInbox, log)
	auditWorker := audit.NewWorker(auditStore, auditInbox, log)

	retryCfg := retry.Config{
		MaxAttempts:     cfg.RetryMaxAttempts,
		Timeout:         cfg.StoreTimeout,
		InitialInterval: 25 * time.Millisecond,
	}

	completionStage, err := pipelinemodels.ParseStage(cfg.Scheduler.CompletionTargetStage)
	if err != nil {
		return fmt.Errorf("scheduler completion target: %w", err)
	}

	pipelineSvc, err := pipelineservice.New(applicationStore,
		pipelineservice.WithLogger(log),
		pipelineservice.WithAuditRecorder(auditPublisher),
		pipelineservice.WithMetrics(pipelinemetrics.New()),
		pipelineservice.WithRetryConfig(retryCfg),
	)
	if err != nil {
		return fmt.Errorf("build pipeline service: %w", err)
	}

	schedulerSvc, err := interviewservice.New(interviewStore, applicationRepo, pipelineSvc,
		interviewservice.WithLogger(log),
		interviewservice.WithAuditRecorder(auditPublisher),
		interviewservice.WithNotifier(notifier),
		interviewservice.WithAttacher(docs.NewInMemoryAttacher()),
		interviewservice.WithMetrics(interviewmetrics.New()),
		interviewservice.WithRetryConfig(retryCfg),
		interviewservice.WithConfig(interviewservice.Config{
			CompletionTargetStage:  completionStage,
			SlotStepMinutes:        cfg.Scheduler.SlotStepMinutes,
			VisibleHourStart:       cfg.Scheduler.VisibleHourStart,
			VisibleHourEnd:         cfg.Scheduler.VisibleHourEnd,
			DefaultDurationMinutes: cfg.Scheduler.DefaultDurationMinutes,
		}),
	)
	if err != nil {
		return fmt.Errorf("build scheduler service: %w", err)
	}

	analyticsSvc, err := analytics.New(applicationRepo,
		analytics.WithLogger(log),
		analytics.WithRetryConfig(retryCfg),
	)
	if err != nil {
		return fmt.Errorf("build analytics service: %w", err)
	}

	workflowSvc, err := workflow.New(applicationRepo, candidates, jobs,
		workflow.WithLogger(log),
		workflow.WithRetryConfig(retryCfg),
	)
	if err != nil {
		return fmt.Errorf("build workflow service: %w", err)
	}

	routerOpts := []httptransport.Option{}
	if redisClient != nil {
		routerOpts = append(routerOpts, httptransport.WithHealthChecker("redis", redisClient))
	}
	router := httptransport.New(log, platformmetrics.New(), []httptransport.Registrar{
		interviewhandler.New(schedulerSvc, log),
		pipelinehandler.New(pipelineSvc, log),
		workflowhandler.New(workflowSvc, analyticsSvc, log),
	}, routerOpts...)

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return auditWorker.Run(groupCtx)
	})
	group.Go(func() error {
		log.Info("starting talentflow", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
