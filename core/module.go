package core

import (
	"context"
	"log/slog"
)

// Module is a named unit that participates in the app lifecycle.
type Module interface {
	Name() string
	// DependsOn declares hard dependencies by module name. Dependencies are
	// initialized and started before this module, and stopped after it.
	DependsOn() []string
}

// Initializer is the optional initialize hook. It runs first, in dependency
// order, and receives the shared Context so the module can register services
// that later modules resolve.
type Initializer interface {
	Initialize(ctx context.Context, rc *Context) error
}

// Starter is the optional start hook for long-running work or servers.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper is the optional stop hook. Stop failures never block the shutdown
// of other modules.
type Stopper interface {
	Stop(ctx context.Context) error
}

// Context is passed unchanged to every module's Initialize hook.
type Context struct {
	Container *Container
	Manager   *Manager
	Logger    *slog.Logger
	// Config is the application configuration; modules assert it to the
	// concrete type the app loaded.
	Config any
}
