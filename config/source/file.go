package source

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/keelframework/keel/config"
)

// FileSource loads YAML configuration from a directory: application.yaml (or
// .yml) as the base, optionally overlaid with application.{Profile}.yaml.
// The overlay merges recursively into the base, so a profile file only needs
// the keys it overrides.
//
//	configs/
//	  application.yaml       base
//	  application.prod.yaml  production overrides
type FileSource struct {
	// BasePath is the directory holding the configuration files.
	BasePath string

	// Profile selects an optional overlay file. A missing overlay is not an
	// error; a missing base file is.
	Profile string
}

func (f *FileSource) Name() string { return "file" }

// Load reads the base file and, if Profile is set and the overlay exists,
// merges the overlay on top. Returns os.ErrNotExist when the base file is
// absent.
func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	base := findYAML(f.BasePath, "application")
	if base == "" {
		return nil, os.ErrNotExist
	}

	data := map[string]any{}
	if err := readYAML(base, data); err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if overlay := findYAML(f.BasePath, "application."+f.Profile); overlay != "" {
			layer := map[string]any{}
			if err := readYAML(overlay, layer); err != nil {
				return nil, err
			}
			mergeLayer(data, layer)
		}
	}
	return data, nil
}

// Watch is not supported; file change detection would need fsnotify or
// polling, and callers reload explicitly instead.
func (f *FileSource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func findYAML(dir, basename string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readYAML(path string, out map[string]any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, &out)
}

// mergeLayer deep-merges overlay into base, overlay winning on conflicts.
func mergeLayer(base, overlay map[string]any) {
	for key, val := range overlay {
		ov, ovIsMap := val.(map[string]any)
		bv, bvIsMap := base[key].(map[string]any)
		if ovIsMap && bvIsMap {
			mergeLayer(bv, ov)
			continue
		}
		base[key] = val
	}
}
