// Package server initializes and runs the jobassist server: it opens the
// configured record store, builds the services and serves them over REST
// and gRPC until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/ai"
	"github.com/dmitrijs2005/jobassist/internal/server/config"
	"github.com/dmitrijs2005/jobassist/internal/server/httpapi"
	"github.com/dmitrijs2005/jobassist/internal/server/jobsource"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobassist/internal/server/services"

	gs "github.com/dmitrijs2005/jobassist/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	manager  repomanager.RepositoryManager
	services *services.Set
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	m, err := repomanager.NewFromConfig(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	assistant, err := ai.NewGemini(ctx, c.GeminiAPIKey, c.GeminiModel, logger)
	if err != nil {
		logger.Warn(ctx, "ai model unavailable, using fallbacks", "error", err)
		assistant = ai.New(nil, logger)
	}

	set := services.NewSet(m, jobsource.NewCatalog(), assistant, c, logger)

	return &App{config: c, logger: logger, manager: m, services: set}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           httpapi.NewRouter(app.services, app.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown failed", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context) error {
	return gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.services).Run(ctx)
}

// Run serves both transports until a signal arrives or one of them fails,
// then closes the store.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.startHTTPServer(gctx) })
	g.Go(func() error { return app.startGRPCServer(gctx) })

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped with error", "error", err)
	}

	if cerr := app.manager.Close(); cerr != nil {
		app.logger.Error(ctx, "store close failed", "error", cerr)
	}

	return err
}
