// Package server initializes and runs the letter service: it wires config,
// logging, the database (with migrations), the artifact store, the AI
// generator and the HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lexdraft/lexdraft/internal/logging"
	"github.com/lexdraft/lexdraft/internal/server/config"
	"github.com/lexdraft/lexdraft/internal/server/db"
	"github.com/lexdraft/lexdraft/internal/server/httpapi"
	"github.com/lexdraft/lexdraft/internal/server/repositories/repomanager"
	"github.com/lexdraft/lexdraft/internal/server/services"
	"github.com/lexdraft/lexdraft/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	conn, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := storage.NewS3Store(ctx, storage.S3Config{
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("artifact store init error: %w", err)
	}

	llm, err := services.NewOpenAILLMFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()

	letterService := services.NewLetterService(conn, m, store, logger)
	generatorService := services.NewGeneratorService(conn, m, llm, logger)
	templateService := services.NewTemplateService(conn, m, logger)
	userService := services.NewUserService(conn, m, cfg)

	srv := httpapi.NewServer(cfg.EndpointAddr, logger,
		letterService, generatorService, templateService, userService,
		[]byte(cfg.SecretKey))

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until an OS signal or server failure stops the app.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	app.logger.Info(ctx, "app stopped")
}
