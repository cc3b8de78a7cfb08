package config

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Manager loads configuration from an ordered list of sources, binds and
// validates it, and notifies subscribers when a reload changes anything.
// Updates are atomic: a reload that fails to load, decode, or validate leaves
// the current configuration untouched. All methods are safe for concurrent
// use.
type Manager struct {
	sources   []Source
	config    any
	binder    *Binder
	mu        sync.RWMutex
	subs      []chan Event
	autoWatch bool
}

// Options configures a Manager.
type Options struct {
	// AutoReload starts a watcher per source (where supported) and reloads
	// the configuration whenever one reports a change.
	AutoReload bool
}

// NewManager binds the sources into cfg, which must be a pointer to a struct
// tagged with `config` (mapping) and `validate` (rules). Sources are merged
// in order, later ones overriding earlier ones, so a typical chain is
// [file, env, cli]. The initial load happens here; an invalid initial
// configuration fails construction.
func NewManager(cfg any, opts Options, sources ...Source) (*Manager, error) {
	m := &Manager{
		sources:   sources,
		config:    cfg,
		binder:    NewBinder(),
		autoWatch: opts.AutoReload,
	}

	if err := m.Reload(context.Background()); err != nil {
		return nil, err
	}
	if m.autoWatch {
		m.startWatchers()
	}
	return m, nil
}

// Reload loads every source, merges the results, binds them into a fresh
// instance, and swaps it in atomically if validation passes. Subscribers are
// notified only when field values actually changed.
func (m *Manager) Reload(ctx context.Context) error {
	merged := map[string]any{}
	for _, src := range m.sources {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		mergeMaps(merged, vals)
	}

	// Bind into a throwaway instance first so a failure cannot corrupt the
	// live struct.
	fresh := reflect.New(reflect.TypeOf(m.config).Elem()).Interface()
	if err := m.binder.Bind(merged, fresh); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}

	m.mu.Lock()
	previous := reflect.New(reflect.TypeOf(m.config).Elem()).Interface()
	reflect.ValueOf(previous).Elem().Set(reflect.ValueOf(m.config).Elem())
	reflect.ValueOf(m.config).Elem().Set(reflect.ValueOf(fresh).Elem())
	m.mu.Unlock()

	if !reflect.DeepEqual(previous, fresh) {
		m.notify(diffEvent(previous, fresh))
	}
	return nil
}

// Subscribe registers a channel for change events. The channel should be
// buffered; events that would block are dropped. The Manager never closes it.
func (m *Manager) Subscribe(ch chan Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, ch)
}

func (m *Manager) notify(evt Event) {
	m.mu.RLock()
	subs := append([]chan Event(nil), m.subs...)
	m.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

func (m *Manager) startWatchers() {
	for _, src := range m.sources {
		ch := make(chan Event, 1)
		go func(src Source) {
			_ = src.Watch(context.Background(), ch)
		}(src)
		go func() {
			for range ch {
				_ = m.Reload(context.Background())
			}
		}()
	}
}
