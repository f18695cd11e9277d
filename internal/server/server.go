package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/DocStoreAPI/internal/adapter/utils"
	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/middleware"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string, mcpHandler http.Handler) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Post("/ingest", middleware.IngestDocumentHandler)
	r.Router.Post("/upload", middleware.UploadDocumentHandler)
	r.Router.Get("/jobs/{id}", middleware.GetJobStatusHandler)
	r.Router.Post("/query", middleware.QueryDocumentsHandler)
	r.Router.Post("/documents/list", middleware.ListDocumentsHandler)
	r.Router.Post("/documents/content", middleware.DocumentContentHandler)
	r.Router.Post("/documents/delete", middleware.DeleteDocumentHandler)
	r.Router.Post("/collections/reset", middleware.ResetCollectionsHandler)
	r.Router.Get("/status", middleware.StatusHandler)
	r.Router.Get("/health", middleware.HealthHandler)

	r.Router.Post("/sessions", middleware.CreateSessionHandler)
	r.Router.Get("/sessions", middleware.ListSessionsHandler)
	r.Router.Get("/sessions/{id}", middleware.GetSessionHandler)
	r.Router.Put("/sessions/{id}", middleware.UpdateSessionHandler)
	r.Router.Delete("/sessions/{id}", middleware.DeleteSessionHandler)

	if mcpHandler != nil {
		r.Router.Handle("/mcp", mcpHandler)
	}

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
