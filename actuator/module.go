package actuator

import (
	"context"
	"errors"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keelframework/keel/config"
	"github.com/keelframework/keel/core"
	"github.com/keelframework/keel/web"
)

const Name = "actuator"

type module struct {
	manager *core.Manager
	cfg     *config.Root
}

func Module() core.Module { return &module{} }

func (m *module) Name() string        { return Name }
func (m *module) DependsOn() []string { return []string{web.Name} }

func (m *module) Initialize(_ context.Context, rc *core.Context) error {
	cfg, ok := rc.Config.(*config.Root)
	if !ok {
		return errors.New("actuator: lifecycle context carries no *config.Root")
	}
	m.cfg = cfg
	m.manager = rc.Manager

	engine := web.Engine(rc.Container)
	group := engine.Group(cfg.Actuator.BasePath)

	group.GET("/health", m.health)
	group.GET("/info", m.info)

	if cfg.Observability.Metrics.Enabled {
		group.GET("/metrics", gin.WrapH(promhttp.Handler()))
		rc.Manager.AddObserver(NewMetrics(prometheus.DefaultRegisterer))
	}
	return nil
}

// health reports the manager's global phase and one check per module. The
// endpoint answers 503 until every module reached Started, which makes it
// usable as a readiness probe.
func (m *module) health(ctx *gin.Context) {
	checks := make([]gin.H, 0, len(m.manager.Modules()))
	for _, name := range m.manager.Modules() {
		checks = append(checks, gin.H{
			"name":  name,
			"phase": m.manager.ModulePhase(name).String(),
		})
	}

	status := http.StatusOK
	overall := "UP"
	if m.manager.Phase() != core.Started {
		status = http.StatusServiceUnavailable
		overall = "DOWN"
	}

	ctx.JSON(status, gin.H{
		"status": overall,
		"phase":  m.manager.Phase().String(),
		"checks": checks,
	})
}

func (m *module) info(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"app": gin.H{
			"name":    m.cfg.App.Name,
			"version": m.cfg.App.Version,
		},
		"runtime": gin.H{
			"go":           runtime.Version(),
			"numGoroutine": runtime.NumGoroutine(),
			"time":         time.Now().UTC().Format(time.RFC3339),
			"pid":          os.Getpid(),
		},
	})
}
