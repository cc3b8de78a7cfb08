package config

import "context"

// Source is a provider of configuration data: a YAML file, the process
// environment, CLI flags, or anything else that can produce a string-keyed
// map. Sources are merged in order, later sources overriding earlier ones.
type Source interface {
	// Load retrieves the source's data as a (possibly nested) map. Load must
	// be safe for concurrent use and must return a copy the caller may own.
	// A cancelled context returns ctx.Err().
	Load(ctx context.Context) (map[string]any, error)

	// Watch monitors the source for changes and sends events on ch until the
	// context is cancelled. Sources that cannot watch return nil immediately.
	// Implementations must never close ch.
	Watch(ctx context.Context, ch chan<- Event) error

	// Name identifies the source in errors and logs, e.g. "file", "env".
	Name() string
}

// Event describes a configuration change detected during reload.
type Event struct {
	// ChangedKeys lists the top-level struct fields whose values differ
	// between OldConfig and NewConfig.
	ChangedKeys []string

	// OldConfig and NewConfig are snapshots of the bound configuration
	// before and after the reload.
	OldConfig any
	NewConfig any
}
