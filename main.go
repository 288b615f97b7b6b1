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

	"nefllix/src/config"
	"nefllix/src/logger"
	"nefllix/src/middleware"
	authModels "nefllix/src/modules/auth/models"
	file "nefllix/src/modules/files/services"
	"nefllix/src/routes"
	"nefllix/src/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintln(os.Stderr, "could not load .env file:", err)
		}
	}

	app := &cli.Command{
		Name:   "nefllix",
		Usage:  "Streaming catalog, profile and playback API",
		Before: setup,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP and websocket server with background jobs",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Run database migrations and exit",
				Action: migrate,
			},
			{
				Name:   "cleanup",
				Usage:  "Remove expired sessions and verification tokens once",
				Action: cleanup,
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Log.Fatal("application error", "err", err)
	}
}

func setup(ctx context.Context, _ *cli.Command) (context.Context, error) {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	logger.Info("[App] starting", "env", cfg.Env)

	if err := authModels.InitEncryption(cfg.TokenEncryptionKey); err != nil {
		return ctx, err
	}
	if cfg.TokenEncryptionKey == "" {
		logger.Warn("[Auth] TOKEN_ENCRYPTION_KEY not set, provider tokens are stored in plain text")
	}
	return ctx, nil
}

func migrate(_ context.Context, _ *cli.Command) error {
	if _, err := config.ConnectDatabase(); err != nil {
		return err
	}
	logger.Info("[DB] migrations applied")
	return nil
}

func cleanup(ctx context.Context, _ *cli.Command) error {
	if _, err := config.ConnectDatabase(); err != nil {
		return err
	}
	return services.CleanupExpired(ctx)
}

func serve(ctx context.Context, _ *cli.Command) error {
	if _, err := config.ConnectDatabase(); err != nil {
		return err
	}
	if _, err := config.ConnectRedis(ctx); err != nil {
		logger.Warn("[Redis] unavailable, caching disabled", "err", err)
	}
	if _, err := config.ConnectMinio(ctx); err != nil {
		logger.Warn("[Minio] unavailable, using in-memory object store", "err", err)
		file.SetStore(file.NewMemoryStore())
	}

	if config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.CORS())
	routes.RegisterRoutes(router)

	scheduler, err := services.SetupBackgroundJobs()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", config.App.Host, config.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[App] listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("could not start server: %w", err)
		}
	case <-sigCtx.Done():
	}

	logger.Info("[App] shutting down")
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
