package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/AyoubAchour/almindhar-experience/internal/adapters/events"
	server "github.com/AyoubAchour/almindhar-experience/internal/adapters/http_server"
	"github.com/AyoubAchour/almindhar-experience/internal/adapters/observability"
	redisad "github.com/AyoubAchour/almindhar-experience/internal/adapters/redis"
	"github.com/AyoubAchour/almindhar-experience/internal/app"
	"github.com/AyoubAchour/almindhar-experience/internal/auth"
	"github.com/AyoubAchour/almindhar-experience/internal/domain"
	"github.com/AyoubAchour/almindhar-experience/internal/loyalty"
	"github.com/AyoubAchour/almindhar-experience/internal/shared"
	mysqlrepo "github.com/AyoubAchour/almindhar-experience/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, "api")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, serving from the database")
	}

	var publisher domain.EventPublisher = events.Noop{}
	if cfg.AMQPURL != "" {
		p := events.New(cfg.AMQPURL)
		defer p.Close()
		publisher = p
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token issuer")
	}
	rule := loyalty.Rule{Threshold: cfg.RewardThreshold, DiscountPercent: cfg.RewardPercent}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	handlers := &server.Handlers{
		Accounts:       app.NewAccountService(repo, issuer, cfg.BcryptCost),
		Queries:        q,
		Bookings:       app.NewBookingService(repo, repo, repo, publisher, q, rule),
		Games:          app.NewGameService(repo, repo, rule),
		Rewards:        app.NewRewardService(repo, repo),
		Admin:          app.NewAdminService(repo, q),
		AuthRatePerMin: cfg.AuthRatePerMin,
		TrustProxy:     cfg.TrustProxy,
	}

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
