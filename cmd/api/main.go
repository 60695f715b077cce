package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"trackify/internal/cache"
	"trackify/internal/config"
	"trackify/internal/db"
	apphttp "trackify/internal/http"
	"trackify/internal/logger"
	"trackify/internal/repository"
	"trackify/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("env", cfg.Env).Str("driver", cfg.Storage.Driver).Msg("starting trackify api")

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer closeStore()

	svc := service.NewSightingService(store, log)
	if cfg.Cache.Enabled() {
		rc, err := cache.Open(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			log.Warn().Err(err).Msg("result cache unavailable, serving from storage only")
		} else {
			defer rc.Close()
			svc.WithCache(rc)
			log.Info().Dur("ttl", cfg.Cache.TTL).Msg("result cache enabled")
		}
	}

	handler := apphttp.NewHandler(svc, log)
	router := apphttp.NewRouter(handler, cfg.HTTP.CORSOrigins, log)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
		return
	}
	log.Info().Msg("http server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (service.SightingStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		gdb, err := db.ConnectPostgres(cfg.Postgres, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewPostgresRepository(gdb), closeFn, nil
	default:
		client, coll, err := db.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		log.Info().
			Str("database", cfg.Mongo.Database).
			Str("collection", cfg.Mongo.Collection).
			Msg("connected to mongo")
		closeFn := func() {
			_ = client.Disconnect(context.Background())
		}
		return repository.NewMongoRepository(coll), closeFn, nil
	}
}
