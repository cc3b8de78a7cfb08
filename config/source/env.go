package source

import (
	"context"
	"os"
	"strings"

	"github.com/keelframework/keel/config"
)

// EnvPrefix is the required prefix for environment variables; anything else
// is ignored.
const EnvPrefix = "KEEL_"

// EnvSource loads configuration from KEEL_* environment variables. The part
// after the prefix is lowercased and split on underscores into a nested path:
//
//	KEEL_SERVER_ADDR=:9090   -> {server: {addr: ":9090"}}
//	KEEL_APP_NAME=orders     -> {app: {name: "orders"}}
//
// Values are strings; type conversion happens when the Binder decodes them.
// When a leaf value and a nested path collide, whichever was seen first wins.
type EnvSource struct{}

func (e *EnvSource) Name() string { return "env" }

func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)

	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}

		path := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		segments := strings.Split(path, "_")
		setNestedValue(result, segments, value)
	}
	return result, nil
}

// Watch is not supported: the environment does not change for the lifetime
// of the process.
func (e *EnvSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

// setNestedValue walks segments creating nested maps, setting value at the
// leaf. A non-map already present along the path aborts the write.
func setNestedValue(m map[string]any, segments []string, value string) {
	current := m
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if i == len(segments)-1 {
			current[segment] = value
			return
		}

		existing, ok := current[segment]
		if !ok {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
			continue
		}
		nested, ok := existing.(map[string]any)
		if !ok {
			return
		}
		current = nested
	}
}
