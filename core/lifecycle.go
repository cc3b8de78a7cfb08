package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Phase is a discrete lifecycle state, tracked globally and per module.
type Phase int

const (
	Uninitialized Phase = iota
	Initializing
	Initialized
	Starting
	Started
	Stopping
	Stopped
)

var phaseNames = [...]string{
	Uninitialized: "uninitialized",
	Initializing:  "initializing",
	Initialized:   "initialized",
	Starting:      "starting",
	Started:       "started",
	Stopping:      "stopping",
	Stopped:       "stopped",
}

func (p Phase) String() string {
	if p < Uninitialized || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Hook names carried by LifecycleError.Phase.
const (
	HookInitialize = "initialize"
	HookStart      = "start"
	HookStop       = "stop"
)

// Observer receives lifecycle notifications, e.g. for metrics export.
type Observer interface {
	ModulePhaseChanged(module string, phase Phase)
	HookFinished(module, hook string, elapsed time.Duration, err error)
}

// Manager drives registered modules through initialize, start, and stop in
// dependency order. Hooks run strictly sequentially on the calling goroutine:
// module N+1's hook never begins before module N's has returned. No timeouts
// are imposed; callers wanting bounded hooks wrap them externally.
type Manager struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	graph     *Graph
	modules   map[string]Module
	phases    map[string]Phase
	phase     Phase
	observers []Observer
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:  logger,
		graph:   NewGraph(),
		modules: make(map[string]Module),
		phases:  make(map[string]Phase),
	}
}

// Register adds a module. The descriptor (name and dependency list) is
// immutable after registration; duplicate names are rejected.
func (m *Manager) Register(mod Module) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := mod.Name()
	if name == "" {
		return errors.New("module name must not be empty")
	}
	if _, dup := m.modules[name]; dup {
		return fmt.Errorf("duplicate module name: %s", name)
	}
	m.modules[name] = mod
	m.graph.Add(name, mod.DependsOn())
	return nil
}

// AddObserver attaches a lifecycle observer. Safe to call at any point,
// including from a module's Initialize hook.
func (m *Manager) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Phase returns the furthest global phase reached.
func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// ModulePhase returns the module's current phase. Unknown names yield
// Uninitialized: absence of knowledge means nothing has happened to it yet.
func (m *Manager) ModulePhase(name string) Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phases[name]
}

// Modules returns the registered module names in registration order.
func (m *Manager) Modules() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.graph.order...)
}

// InitializeAll runs every module's Initialize hook in topological order,
// passing rc to each unchanged. The walk is fail-fast: a failing hook aborts
// the remaining modules, the error is wrapped in *LifecycleError, and the
// global phase stays Initializing to signal inconsistent state. Calling again
// once Initialized (or later) is a no-op.
func (m *Manager) InitializeAll(ctx context.Context, rc *Context) error {
	if m.Phase() >= Initialized {
		return nil
	}

	order, err := m.graph.TopologicalOrder()
	if err != nil {
		return err
	}
	m.setPhase(Initializing)

	for _, name := range order {
		if m.ModulePhase(name) >= Initialized {
			continue
		}
		mod := m.modules[name]
		init, ok := mod.(Initializer)
		if !ok {
			m.setModulePhase(name, Initialized)
			continue
		}

		m.setModulePhase(name, Initializing)
		m.logger.Debug("initializing module", "module", name)
		begin := time.Now()
		err := init.Initialize(ctx, rc)
		m.notifyHook(name, HookInitialize, time.Since(begin), err)
		if err != nil {
			return &LifecycleError{Module: name, Phase: HookInitialize, Err: err}
		}
		m.setModulePhase(name, Initialized)
	}

	m.setPhase(Initialized)
	return nil
}

// StartAll runs every module's Start hook in topological order with the same
// fail-fast discipline as InitializeAll. It refuses to run before
// InitializeAll has completed.
func (m *Manager) StartAll(ctx context.Context) error {
	switch {
	case m.Phase() >= Started:
		return nil
	case m.Phase() < Initialized:
		return fmt.Errorf("cannot start: initializeAll has not completed (phase %s)", m.Phase())
	}

	order, err := m.graph.TopologicalOrder()
	if err != nil {
		return err
	}
	m.setPhase(Starting)

	for _, name := range order {
		if m.ModulePhase(name) >= Started {
			continue
		}
		mod := m.modules[name]
		starter, ok := mod.(Starter)
		if !ok {
			m.setModulePhase(name, Started)
			continue
		}

		m.setModulePhase(name, Starting)
		m.logger.Info("starting module", "module", name)
		begin := time.Now()
		err := starter.Start(ctx)
		m.notifyHook(name, HookStart, time.Since(begin), err)
		if err != nil {
			return &LifecycleError{Module: name, Phase: HookStart, Err: err}
		}
		m.setModulePhase(name, Started)
	}

	m.setPhase(Started)
	return nil
}

// StopAll runs Stop hooks in reverse topological order, so dependents are
// torn down before their dependencies. Unlike startup, a failing Stop never
// aborts the sweep: errors are logged, collected, and returned joined after
// every module has been given its chance. StopAll is legal from any phase;
// modules that never reached a phase simply skip it.
func (m *Manager) StopAll(ctx context.Context) error {
	order, err := m.graph.ReverseOrder()
	if err != nil {
		return err
	}
	m.setPhase(Stopping)

	var errs []error
	for _, name := range order {
		phase := m.ModulePhase(name)
		if phase == Uninitialized || phase >= Stopped {
			continue
		}
		mod := m.modules[name]
		stopper, ok := mod.(Stopper)
		if !ok {
			m.setModulePhase(name, Stopped)
			continue
		}

		m.setModulePhase(name, Stopping)
		m.logger.Info("stopping module", "module", name)
		begin := time.Now()
		err := stopper.Stop(ctx)
		m.notifyHook(name, HookStop, time.Since(begin), err)
		if err != nil {
			m.logger.Error("module stop failed", "module", name, "error", err)
			errs = append(errs, &LifecycleError{Module: name, Phase: HookStop, Err: err})
		}
		m.setModulePhase(name, Stopped)
	}

	m.setPhase(Stopped)
	return errors.Join(errs...)
}

func (m *Manager) setPhase(p Phase) {
	m.mu.Lock()
	m.phase = p
	m.mu.Unlock()
}

func (m *Manager) setModulePhase(name string, p Phase) {
	m.mu.Lock()
	m.phases[name] = p
	observers := append([]Observer(nil), m.observers...)
	m.mu.Unlock()

	for _, o := range observers {
		o.ModulePhaseChanged(name, p)
	}
}

func (m *Manager) notifyHook(name, hook string, elapsed time.Duration, err error) {
	m.mu.RLock()
	observers := append([]Observer(nil), m.observers...)
	m.mu.RUnlock()

	for _, o := range observers {
		o.HookFinished(name, hook, elapsed, err)
	}
}
