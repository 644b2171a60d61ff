package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"sentinela/internal/classifier"
	classifiermetrics "sentinela/internal/classifier/metrics"
	"sentinela/internal/incident/handler"
	incidentmetrics "sentinela/internal/incident/metrics"
	"sentinela/internal/incident/service"
	incidentstore "sentinela/internal/incident/store/incident"
	managerstore "sentinela/internal/incident/store/manager"
	"sentinela/internal/notify"
	"sentinela/internal/platform/config"
	"sentinela/internal/platform/httpserver"
	"sentinela/internal/platform/logger"
	"sentinela/internal/platform/middleware"
	redisclient "sentinela/internal/platform/redis"
	tenantstore "sentinela/internal/tenant/store"
	httptransport "sentinela/internal/transport/http"
	"sentinela/pkg/platform/audit"
	auditkafka "sentinela/pkg/platform/audit/kafka"
	auditmemory "sentinela/pkg/platform/audit/store/memory"
	auditpostgres "sentinela/pkg/platform/audit/store/postgres"
)

// managerBackend is what both the workflow service and the notification
// coordinator need from the manager store.
type managerBackend interface {
	service.ManagerStore
	notify.ManagerFinder
}

// incidentBackend adds the classifier's few-shot lookup to the workflow
// store surface.
type incidentBackend interface {
	service.IncidentStore
	classifier.SimilarIncidentFinder
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(log)

	ctx := context.Background()

	// Persistence: postgres when configured, in-memory otherwise. In-memory
	// mode exists for local development and demos only.
	var (
		incidents  incidentBackend
		managers   managerBackend
		tenants    service.TenantStore
		auditStore audit.Store
		pool       *pgxpool.Pool
		auditDB    *sql.DB
	)
	if cfg.Database.URL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			log.Error("postgres pool init failed", "error", err)
			os.Exit(1)
		}
		if err := pool.Ping(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		incidents = incidentstore.NewPostgres(pool)
		managers = managerstore.NewPostgres(pool)
		tenants = tenantstore.NewPostgres(pool)

		auditDB, err = sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Error("audit db init failed", "error", err)
			os.Exit(1)
		}
		auditStore = auditpostgres.New(auditDB)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		incidents = incidentstore.NewInMemory()
		managers = managerstore.NewInMemory()
		tenants = tenantstore.NewInMemory()
		auditStore = auditmemory.NewInMemoryStore()
	}

	rdb, err := redisclient.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}

	// Audit pipeline: primary store plus an optional Kafka mirror, behind
	// an async publisher so workflow latency never includes audit I/O.
	var mirrors []audit.Appender
	var kafkaSink *auditkafka.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err = auditkafka.NewSink(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("kafka audit sink init failed", "error", err)
			os.Exit(1)
		}
		mirrors = append(mirrors, kafkaSink)
	}
	auditPublisher := audit.NewPublisher(
		audit.NewFanout(auditStore, log, mirrors...),
		audit.WithAsyncBuffer(256),
		audit.WithLogger(log),
	)

	trace := classifier.NewTrace(classifier.DefaultTraceSize)
	gatewayOpts := []classifier.Option{
		classifier.WithTrace(trace),
		classifier.WithLogger(log),
		classifier.WithMetrics(classifiermetrics.New()),
		classifier.WithSimilarIncidentFinder(incidents),
	}
	if rdb != nil {
		gatewayOpts = append(gatewayOpts,
			classifier.WithCache(classifier.NewRedisCache(rdb, cfg.Classifier.CacheTTL, log)))
	}
	gateway := classifier.New(cfg.Classifier.Endpoint, cfg.Classifier.Token,
		cfg.Classifier.MaxRetries, cfg.Classifier.Timeout, gatewayOpts...)

	var mailer notify.Mailer
	if cfg.SMTP.Addr != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTP.Addr, cfg.SMTP.From)
	} else {
		log.Warn("SMTP_ADDR not set, notifications go to the log only")
		mailer = notify.NewLogMailer(log)
	}
	coordinator, err := notify.NewCoordinator(mailer, managers, notify.WithLogger(log))
	if err != nil {
		log.Error("notification coordinator init failed", "error", err)
		os.Exit(1)
	}

	workflow, err := service.New(incidents, managers, tenants, gateway, coordinator,
		service.WithLogger(log),
		service.WithAuditPublisher(auditPublisher),
		service.WithMetrics(incidentmetrics.New()),
	)
	if err != nil {
		log.Error("workflow service init failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Config{
		Incidents:      handler.New(workflow, gateway, log),
		JWT:            middleware.NewJWTValidator(cfg.Server.JWTSigningKey),
		AdminTokenHash: cfg.Server.AdminTokenHash,
		Logger:         log,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting sentinela", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// Drain buffered audit entries before tearing down sinks.
	auditPublisher.Close()
	if kafkaSink != nil {
		_ = kafkaSink.Close(shutdownCtx)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if auditDB != nil {
		_ = auditDB.Close()
	}
	if pool != nil {
		pool.Close()
	}
}
