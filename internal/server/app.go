// Package server wires the account server together: storage backend and
// migrations, password hasher, notifier, the account engine, and the gRPC
// and HTTP transports, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/accountkeeper/internal/server/notify"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/accountkeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	grpcServer  *gs.GRPCServer
	httpServer  *httpapi.HTTPServer
}

// logOutput is where the server logs go.
var logOutput io.Writer = os.Stdout

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(logOutput, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	rm, err := repomanager.Open(ctx, c.StorageBackend, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, err
	}

	hasher, err := auth.NewPasswordHasher(c.PasswordHasher, c.BcryptCost)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	notifier, err := notify.New(c, logger)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("notifier init error: %w", err)
	}

	accounts := services.NewAccountService(rm, hasher, notifier, logger, c.VerificationTokenTTL)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		grpcServer:  gs.NewGRPCServer(c.EndpointAddrGRPC, logger, accounts),
		httpServer:  httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, accounts),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves both transports until ctx is cancelled, a signal arrives or one
// of the servers fails, then closes the store.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"storage", app.config.StorageBackend, "notifier", app.config.Notifier)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, "server failed", "server", name, "error", err)
			errOnce.Do(func() { firstErr = fmt.Errorf("%s server: %w", name, err) })
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("grpc", app.grpcServer.Run)
	go run("http", app.httpServer.Run)
	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
	return firstErr
}
