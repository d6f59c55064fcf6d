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

	"talentbridge/internal/app"
	"talentbridge/internal/config"
	"talentbridge/internal/database"
	apphttp "talentbridge/internal/http"
	"talentbridge/internal/http/handlers"
	"talentbridge/internal/http/metrics"
	httpmw "talentbridge/internal/http/middleware"
	"talentbridge/internal/http/response"
	"talentbridge/internal/observability"
	"talentbridge/internal/proposal"
	"talentbridge/internal/repository/postgres"
	"talentbridge/internal/security"
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

	applicationRepo := postgres.NewApplicationRepository(db)

	enricher := proposal.NewEnricher(cfg.UrgencyThreshold)
	proposalService := app.NewProposalService(applicationRepo, enricher, logger)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	middleware := httpmw.NewAuthMiddleware(jwtProvider)

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		limiter = httpmw.NewRedisLimiter(redis.NewClient(opts))
	}

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	proposalHandler := handlers.NewProposalHandler(proposalService, limiter, cfg.MaxListLimit)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		ProposalHandler: proposalHandler,
		MetricsHandler:  handlers.NewMetricsHandler(collector),
		AuthMiddleware:  middleware,
		Metrics:         collector,
		RequestTimeout:  cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
