package core

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// App is the composition shell: a root Container, a lifecycle Manager, and
// the shared Context handed to every module's Initialize hook.
type App struct {
	Manager   *Manager
	Container *Container
	Logger    *slog.Logger
	// Config is stashed on the Context unchanged; the app decides its type.
	Config any

	// ShutdownTimeout bounds the stop sweep; NewApp defaults it to 15s.
	ShutdownTimeout time.Duration
}

func NewApp(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		Manager:         NewManager(logger),
		Container:       NewContainer(),
		Logger:          logger,
		ShutdownTimeout: 15 * time.Second,
	}
}

// Register adds modules to the lifecycle manager.
func (a *App) Register(mods ...Module) error {
	for _, m := range mods {
		if err := a.Manager.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Context builds the shared lifecycle context for this app.
func (a *App) Context() *Context {
	return &Context{
		Container: a.Container,
		Manager:   a.Manager,
		Logger:    a.Logger,
		Config:    a.Config,
	}
}

// Run initializes and starts all modules, then blocks until ctx is done or a
// SIGINT/SIGTERM arrives, and stops everything in reverse order. A start
// failure triggers a best-effort stop of whatever already came up before the
// original error is returned.
func (a *App) Run(ctx context.Context) error {
	if err := a.Manager.InitializeAll(ctx, a.Context()); err != nil {
		return err
	}
	if err := a.Manager.StartAll(ctx); err != nil {
		a.Logger.Error("startup failed, stopping started modules", "error", err)
		_ = a.stop()
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-ctx.Done():
	case <-quit:
	}
	signal.Stop(quit)

	return a.stop()
}

func (a *App) stop() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
	defer cancel()

	err := a.Manager.StopAll(shutdownCtx)
	if derr := a.Container.Dispose(); derr != nil {
		a.Logger.Error("container dispose failed", "error", derr)
		if err == nil {
			err = derr
		}
	}
	return err
}
