package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"licentia/internal/applications"
	"licentia/internal/eligibility"
	"licentia/internal/fees"
	"licentia/internal/jwttoken"
	"licentia/internal/person"
	"licentia/internal/platform/config"
	"licentia/internal/platform/httpserver"
	"licentia/internal/platform/logger"
	platformredis "licentia/internal/platform/redis"
	"licentia/internal/prereq"
	prereqadapters "licentia/internal/prereq/adapters"
	prereqmetrics "licentia/internal/prereq/metrics"
	"licentia/internal/rules"
	httptransport "licentia/internal/transport/http"
	"licentia/internal/workflow"
	workflowhandler "licentia/internal/workflow/handler"
	workflowmetrics "licentia/internal/workflow/metrics"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	registry, err := rules.New(rules.Default())
	if err != nil {
		log.Error("invalid category rule table", "error", err)
		os.Exit(1)
	}

	var (
		appStore    applications.Store
		personStore workflow.PersonLookup
		db          *sql.DB
	)
	if cfg.PostgresDSN != "" {
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(context.Background()); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		appStore = applications.NewPostgres(db)
		personStore = person.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		appStore = applications.NewInMemoryStore()
		personStore = person.NewInMemoryStore()
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
	}

	var sessionStore workflow.Store
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		sessionStore = workflow.NewRedisStore(redisClient.Client, cfg.SessionTTL)
		log.Info("using redis session store", "ttl", cfg.SessionTTL.String())
	} else {
		sessionStore = workflow.NewInMemoryStore()
		log.Warn("REDIS_URL not set, using in-memory session store")
	}

	resolver := prereq.NewResolver(
		registry,
		prereqadapters.NewApplicationsAdapter(appStore),
		log,
		prereqmetrics.New(),
	)
	validator := eligibility.New(registry)
	feeProvider := fees.NewMemoryProvider(fees.DefaultSchedule())
	sink := applications.NewSubmissionService(appStore, log)

	workflowService := workflow.NewService(
		registry,
		validator,
		resolver,
		feeProvider,
		personStore,
		sink,
		sessionStore,
		log,
		workflowmetrics.New(),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	handler := workflowhandler.New(workflowService, log)

	var health []httptransport.HealthChecker
	if redisClient != nil {
		health = append(health, redisClient)
	}
	router := httptransport.NewRouter(handler, jwtService, log, health...)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting licentia", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
