package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/esttuapp/painel/internal/admin"
	"github.com/esttuapp/painel/internal/auth"
	"github.com/esttuapp/painel/internal/config"
	"github.com/esttuapp/painel/internal/db"
	internalhttp "github.com/esttuapp/painel/internal/http"
	"github.com/esttuapp/painel/internal/payment"
	"github.com/esttuapp/painel/internal/service"
	"github.com/esttuapp/painel/internal/user"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	registry, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = registry.Close(closeCtx)
	}()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	if err != nil {
		return fmt.Errorf("jwt: %w", err)
	}

	adminDB, err := registry.App("admin")
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	adminService := admin.NewService(admin.NewRepository(adminDB))
	authService := service.NewAuthService(adminService, redisClient, jwtManager, cfg.JWTRefreshTTL)

	users := make(map[string]*user.Service, len(internalhttp.ConsumerApps))
	payments := make(map[string]*payment.Service, len(internalhttp.ConsumerApps))
	for _, app := range internalhttp.ConsumerApps {
		appDB, err := registry.App(app)
		if err != nil {
			return fmt.Errorf("registry: %w", err)
		}
		users[app] = user.NewService(user.NewRepository(app, appDB))
		payments[app] = payment.NewService(payment.NewRepository(app, appDB))
	}

	handler := internalhttp.NewRouter(cfg, authService, adminService, users, payments)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
