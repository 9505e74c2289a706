// Package http exposes the image pipeline over a JSON API for the browser
// UI: batch upload, progress polling, gallery reads, primary promotion and
// deletion.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trippix/attractions/internal/logging"
	"github.com/trippix/attractions/internal/models"
	"github.com/trippix/attractions/internal/query"
	"github.com/trippix/attractions/internal/upload"
)

// ImageStore is the slice of the metadata service the handlers need.
type ImageStore interface {
	query.Source
	SetPrimary(ctx context.Context, imageID, attractionID string) error
	Delete(ctx context.Context, imageID, storageKey string) error
}

// Processor runs upload batches and reports live progress.
type Processor interface {
	Process(ctx context.Context, attractionID string, files []upload.File)
	Tasks() map[string]models.UploadTask
}

type Server struct {
	addr   string
	router *gin.Engine
	srv    *http.Server

	images ImageStore
	orch   Processor
	log    logging.Logger
}

func NewServer(addr string, images ImageStore, orch Processor, log logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{addr: addr, router: r, images: images, orch: orch, log: log}

	api := r.Group("/api")
	{
		api.POST("/attractions/:id/images", s.handleUpload)
		api.GET("/attractions/:id/images", s.handleListImages)
		api.PUT("/images/:id/primary", s.handleSetPrimary)
		api.DELETE("/images/:id", s.handleDeleteImage)
		api.GET("/uploads", s.handleUploadTasks)
		api.GET("/stock-images", s.handleStockImage)
	}

	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{Addr: s.addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
