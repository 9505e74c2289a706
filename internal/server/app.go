// Package server initializes and runs the main application server.
// It wires the object store, database, upload orchestrator and HTTP
// endpoint, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/trippix/attractions/internal/logging"
	"github.com/trippix/attractions/internal/server/config"
	httpapi "github.com/trippix/attractions/internal/server/http"
	"github.com/trippix/attractions/internal/server/repositories/repomanager"
	"github.com/trippix/attractions/internal/server/services"
	"github.com/trippix/attractions/internal/storage"
	"github.com/trippix/attractions/internal/transform"
	"github.com/trippix/attractions/internal/upload"
)

type App struct {
	config *config.Config
	logger logging.Logger

	repos        *repomanager.PostgresManager
	imageService *services.ImageService
	orchestrator *upload.Orchestrator
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := repomanager.NewPostgresManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs := storage.NewPresignUploader(storage.Config{
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		PublicBaseURL: cfg.PublicBaseURL,
		PresignTTL:    cfg.PresignTTL,
	})

	is := services.NewImageService(rm.Conn(), rm, blobs, logger)

	orch := upload.NewOrchestrator(
		upload.Config{MaxSizeMB: cfg.MaxUploadSizeMB, MaxFiles: cfg.MaxFilesPerBatch},
		blobs,
		transform.New(cfg.TransformEndpoint),
		is,
		upload.Callbacks{},
		logger,
	)

	return &App{
		config:       cfg,
		logger:       logger,
		repos:        rm,
		imageService: is,
		orchestrator: orch,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	srv := httpapi.NewServer(app.config.EndpointAddr, app.imageService, app.orchestrator, app.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	err := g.Wait()

	if closeErr := app.repos.Close(); closeErr != nil {
		app.logger.Error(ctx, "db close error", "error", closeErr.Error())
	}

	return err
}
