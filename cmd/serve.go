package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chakula-api/config"
	"chakula-api/logger"
	"chakula-api/middlewares"
	"chakula-api/routes"
	"chakula-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"
	"golang.org/x/sync/errgroup"
)

type serveFlags struct {
	envFile string
	port    int
	env     string
}

func (f *serveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.envFile, "env-file", "", "env file to load (default .env)")
	cmd.Flags().IntVar(&f.port, "port", 0, "listen port, overrides PORT")
	cmd.Flags().StringVar(&f.env, "env", "", "development or production, overrides APP_ENV")
}

func (f *serveFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("port") {
		cfg.Port = f.port
	}
	if cmd.Flags().Changed("env") {
		cfg.Env = f.env
	}
	return cfg.Validate()
}

func runServe(ctx context.Context, cmd *cobra.Command, flags serveFlags) error {
	var envFiles []string
	if flags.envFile != "" {
		envFiles = append(envFiles, flags.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return err
	}

	logger.Init(&logger.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON, Output: os.Stderr})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	store, err := middlewares.NewLimiterStore(cfg.RedisURL)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := routes.SetupRouter(routes.Options{
		Keys:           services.NewAPIKeyService(db, cfg.QueryTimeout),
		Meals:          services.NewMealService(db, cfg.QueryTimeout),
		Health:         services.NewHealthService(db),
		LimiterStore:   store,
		GeneralRate:    limiter.Rate{Period: cfg.GeneralRateWindow, Limit: cfg.GeneralRateLimit},
		StrictRate:     limiter.Rate{Period: cfg.StrictRateWindow, Limit: cfg.StrictRateLimit},
		ExposeErrors:   !cfg.IsProduction(),
		MealsMaxLimit:  cfg.MealsMaxLimit,
		TrustedProxies: cfg.TrustedProxies,
		Registry:       registry,
	})
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           withCORS(router, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Env, "redis", cfg.RedisURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "err", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// withCORS wraps h when an origin allow-list is configured.
func withCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "x-api-key"},
		ExposedHeaders: []string{
			"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset",
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
			"Retry-After", middlewares.HeaderRequestID,
		},
	}).Handler(h)
}
