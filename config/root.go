package config

import "time"

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

type ServerConfig struct {
	Addr         string        `config:"addr"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	BasePath string `config:"basePath"`
}

// LifecycleConfig tunes the module orchestration shell.
type LifecycleConfig struct {
	// ShutdownTimeout bounds the reverse-order stop sweep on app shutdown.
	ShutdownTimeout time.Duration `config:"shutdownTimeout"`
}

// Root is the default configuration schema for a keel application. Apps with
// their own sections embed Root or define their own struct and bind it with a
// Manager directly.
type Root struct {
	App           AppInfo             `config:"app"`
	Server        ServerConfig        `config:"server"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
	Lifecycle     LifecycleConfig     `config:"lifecycle"`

	// Modules lists the enabled built-in modules by name. An empty list
	// enables everything the app wires in.
	Modules []string `config:"modules"`
}

// ModuleEnabled reports whether the named module should be registered. With
// no modules section configured, every module is enabled.
func (r *Root) ModuleEnabled(name string) bool {
	if len(r.Modules) == 0 {
		return true
	}
	for _, m := range r.Modules {
		if m == name {
			return true
		}
	}
	return false
}

// ApplyDefaults fills the zero-value fields that have sensible defaults.
func (r *Root) ApplyDefaults() {
	if r.Server.Addr == "" {
		r.Server.Addr = ":8080"
	}
	if r.Actuator.BasePath == "" {
		r.Actuator.BasePath = "/actuator"
	}
	if r.Observability.Metrics.Path == "" {
		r.Observability.Metrics.Path = "/actuator/metrics"
	}
	if r.Lifecycle.ShutdownTimeout == 0 {
		r.Lifecycle.ShutdownTimeout = 15 * time.Second
	}
}
