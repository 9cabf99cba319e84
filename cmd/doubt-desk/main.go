package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YusovID/doubt-desk/internal/auth"
	"github.com/YusovID/doubt-desk/internal/config"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/YusovID/doubt-desk/internal/repository"
	"github.com/YusovID/doubt-desk/internal/repository/postgres"
	"github.com/YusovID/doubt-desk/internal/repository/redis"
	"github.com/YusovID/doubt-desk/internal/service"
	myhttp "github.com/YusovID/doubt-desk/internal/transport/http"
	"github.com/YusovID/doubt-desk/pkg/logger/sl"
	"github.com/YusovID/doubt-desk/pkg/logger/slogpretty"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.MustLoad()
	log := slogpretty.SetupLogger(cfg.Env)

	log.Info("starting doubt-desk", slog.String("env", cfg.Env))

	db, err := postgres.NewDB(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("failed to init db: %v", err)
	}
	defer func() {
		if err := db.DB().Close(); err != nil {
			log.Error("db close failed", sl.Err(err))
		}
	}()

	var profileCache repository.ProfileCache
	if cfg.Redis.Enabled {
		cache, err := redis.NewProfileCache(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn("profile cache disabled", sl.Err(err))
		} else {
			defer cache.Close()
			profileCache = cache
		}
	}

	questionRepo := postgres.NewQuestionRepository(db.DB(), log)
	userRepo := postgres.NewUserRepository(db.DB(), log)

	profiles := service.NewProfileDirectory(log, userRepo, profileCache, cfg.Redis.ProfileTTL)
	questions := service.NewQuestionService(log, questionRepo, questionRepo, profiles, domain.DefaultPolicy())
	resolver := auth.NewTokenResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	srv := myhttp.NewServer(log, questions, resolver, db)
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	errChan := make(chan error, 1)

	go startServer(log, httpServer, errChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("http server error: %v", err)

	case <-ctx.Done():
		log.Info("stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down http server: %v", err)
	}

	return nil
}

func startServer(log *slog.Logger, httpServer *http.Server, errChan chan error) {
	defer close(errChan)

	log.Info("service started", slog.String("addr", httpServer.Addr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errChan <- fmt.Errorf("error listening and serving: %v", err)
	}
}
