package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keelframework/keel/config"
	"github.com/keelframework/keel/core"
)

const Name = "web"

// Engine fetches the gin engine the web module registered, so dependent
// modules can mount routes during their own Initialize.
func Engine(c *core.Container) *gin.Engine {
	return core.MustResolve[*gin.Engine](c)
}

func Module(opts ...Option) core.Module {
	var options Options
	for _, o := range opts {
		o(&options)
	}
	return &webModule{opts: options}
}

type webModule struct {
	opts   Options
	logger *slog.Logger
	server *http.Server
}

func (m *webModule) Name() string        { return Name }
func (m *webModule) DependsOn() []string { return nil }

func (m *webModule) Initialize(_ context.Context, rc *core.Context) error {
	cfg, ok := rc.Config.(*config.Root)
	if !ok {
		return errors.New("web: lifecycle context carries no *config.Root")
	}
	m.logger = rc.Logger

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(RequestID())
	r.Use(RecoveryProblem(rc.Logger))
	r.Use(AccessLog(rc.Logger))
	r.Use(RequestScope(rc.Container, rc.Logger))
	for _, mw := range m.opts.Middlewares {
		r.Use(mw)
	}
	for _, reg := range m.opts.Routes {
		reg(r)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	core.ProvideValue(rc.Container, r)
	core.ProvideValue(rc.Container, srv)
	m.server = srv
	return nil
}

func (m *webModule) Start(_ context.Context) error {
	go func() {
		m.logger.Info("http server starting", "addr", m.server.Addr)
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("http server error", "error", err)
		}
	}()
	return nil
}

func (m *webModule) Stop(ctx context.Context) error {
	// Initialize may have failed before the server was built; there is
	// nothing to shut down then and the stop sweep must go on.
	if m.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := m.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
