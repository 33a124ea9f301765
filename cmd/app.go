package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ordercore/api"
	"ordercore/config"
	"ordercore/pkg/logger"

	"go.uber.org/zap"
)

// App is the runnable HTTP application: a configured router behind a
// graceful-shutdown-aware server, plus whatever the selected journal
// backend needs closed on exit.
type App struct {
	config *config.Config
	router *api.Router
	server *http.Server
	closer func() error
}

// NewApp is kept for callers that want the default wiring; everything
// interesting happens in Builder.
func NewApp(cfg *config.Config) (*App, error) {
	return NewBuilder(cfg).Build()
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then
// shuts down within the configured timeout.
func (a *App) Run() error {
	a.startHTTPServer()
	a.waitForShutdownSignal()

	logger.Info("shutting down server")

	if err := a.shutdownHTTPServer(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	a.closeBackend()

	logger.Info("server exited properly")
	return nil
}

func (a *App) startHTTPServer() {
	go func() {
		logger.Info("server started",
			zap.String("port", a.config.Server.Port),
			zap.String("health", "http://localhost:"+a.config.Server.Port+"/api/v1/health"))

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()
}

func (a *App) waitForShutdownSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

func (a *App) shutdownHTTPServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	return a.server.Shutdown(ctx)
}

func (a *App) closeBackend() {
	if a.closer == nil {
		return
	}
	if err := a.closer(); err != nil {
		logger.Error("error closing journal backend", zap.Error(err))
	}
}

func (a *App) GetServer() *http.Server {
	return a.server
}
