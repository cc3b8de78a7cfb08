package config

import "os"

// Load is the batteries-included entry point: it binds a Root from the given
// source chain (typically file, then env, then cli) and applies defaults.
//
// Apps that need their own schema or reload semantics should build a Manager
// with explicit sources instead.
func Load(sources ...Source) (*Root, error) {
	var cfg Root
	if _, err := NewManager(&cfg, Options{}, sources...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Profile returns the active configuration profile from the environment, or
// the empty string when unset.
func Profile() string {
	return os.Getenv("APP_PROFILE")
}
