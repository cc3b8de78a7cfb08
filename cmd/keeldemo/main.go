package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/keelframework/keel/actuator"
	"github.com/keelframework/keel/config"
	"github.com/keelframework/keel/config/source"
	"github.com/keelframework/keel/core"
	"github.com/keelframework/keel/logging"
	"github.com/keelframework/keel/web"
)

// orderRepo is resolved once per request through the scoped binding below;
// its id makes the per-request identity visible in responses.
type orderRepo struct {
	id string
}

func (r *orderRepo) List() []string {
	return []string{"order-1", "order-2"}
}

func (r *orderRepo) Close() error { return nil }

// storeModule registers the repository binding during Initialize so modules
// initialized after it (and request handlers) can resolve it.
type storeModule struct{}

func (s *storeModule) Name() string        { return "store" }
func (s *storeModule) DependsOn() []string { return nil }

func (s *storeModule) Initialize(_ context.Context, rc *core.Context) error {
	core.Provide(rc.Container, core.Scoped, func(*core.Container) (*orderRepo, error) {
		return &orderRepo{id: uuid.NewString()}, nil
	})
	return nil
}

func main() {
	cfg, err := config.Load(
		&source.FileSource{BasePath: "configs", Profile: config.Profile()},
		&source.EnvSource{},
		&source.CLISource{},
	)
	if err != nil {
		panic(err)
	}

	logger := logging.New().With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)

	app := core.NewApp(logger)
	app.Config = cfg
	app.ShutdownTimeout = cfg.Lifecycle.ShutdownTimeout

	available := []core.Module{
		&storeModule{},
		web.Module(
			web.WithRoutes(func(r web.Router) {
				r.GET("/orders", func(c *gin.Context) {
					repo := core.MustResolve[*orderRepo](web.Scope(c))
					c.JSON(http.StatusOK, gin.H{
						"orders": repo.List(),
						"repo":   repo.id,
					})
				})
			}),
		),
		actuator.Module(),
	}
	for _, mod := range available {
		if !cfg.ModuleEnabled(mod.Name()) {
			logger.Info("module disabled by configuration", "module", mod.Name())
			continue
		}
		if err := app.Register(mod); err != nil {
			logger.Error("module registration failed", "error", err)
			os.Exit(1)
		}
	}

	if err := app.Run(context.Background()); err != nil {
		logger.Error("app error", "error", err)
		os.Exit(1)
	}
}
