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

	"stay_reviews/internal/adapters/cupid"
	"stay_reviews/internal/adapters/events"
	server "stay_reviews/internal/adapters/http_server"
	"stay_reviews/internal/adapters/observability"
	redisad "stay_reviews/internal/adapters/redis"
	"stay_reviews/internal/app"
	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg"
	"stay_reviews/internal/shared"
	mysqlrepo "stay_reviews/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

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

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; reads fall through to mysql")
	}

	var hotels domain.HotelDirectory
	if cfg.CupidKey != "" {
		c, err := cupid.New(cfg.CupidBase, cfg.CupidKey, cfg.CupidRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("cupid client")
		}
		hotels = c
	}

	var publisher interface {
		domain.EventPublisher
		Close() error
	} = events.Noop{}
	if cfg.NATSURL != "" {
		p, err := events.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.NATSURL).Msg("nats connect")
		}
		publisher = p
	}
	defer publisher.Close()

	opts := []nlg.Option{nlg.WithScoring(cfg.Scoring), nlg.WithLogger(log.Logger)}
	if cfg.GeneratorSeed != 0 {
		opts = append(opts, nlg.WithSeed(cfg.GeneratorSeed))
	}
	gen := nlg.New(opts...)

	repo := mysqlrepo.New(db)
	reviews := app.NewReviewService(gen, repo, cache, hotels, publisher, cfg.CacheTTL())
	q := app.NewQueryService(repo, cache, cfg.CacheTTL())

	// http
	srv := server.New(server.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSOrigins:        cfg.CORSOrigins,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Reviews: reviews,
		Q:       q,
		Words:   gen.Vocabulary(),
		Voices:  gen.Voices(),
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Bool("cupid", hotels != nil).Bool("nats", cfg.NATSURL != "").Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
