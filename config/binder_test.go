package config_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/keelframework/keel/config"
)

func TestBinder_Bind(t *testing.T) {
	type ServerConfig struct {
		Addr    string        `config:"addr" validate:"required"`
		Port    int           `config:"port" validate:"min=1,max=65535"`
		Timeout time.Duration `config:"timeout"`
		Debug   bool          `config:"debug"`
	}

	tests := []struct {
		name    string
		source  map[string]any
		want    ServerConfig
		wantErr bool
	}{
		{
			name: "typed values",
			source: map[string]any{
				"addr":    ":8080",
				"port":    8080,
				"timeout": "5s",
				"debug":   true,
			},
			want: ServerConfig{Addr: ":8080", Port: 8080, Timeout: 5 * time.Second, Debug: true},
		},
		{
			name: "weak conversion from strings",
			source: map[string]any{
				"addr":  ":8080",
				"port":  "8080",
				"debug": "true",
			},
			want: ServerConfig{Addr: ":8080", Port: 8080, Debug: true},
		},
		{
			name:    "missing required field",
			source:  map[string]any{"port": 8080},
			wantErr: true,
		},
		{
			name: "port out of range",
			source: map[string]any{
				"addr": ":8080",
				"port": 99999,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binder := config.NewBinder()
			var got ServerConfig

			err := binder.Bind(tt.source, &got)
			if (err != nil) != tt.wantErr {
				t.Errorf("Bind() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Bind() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBinder_Bind_Nested(t *testing.T) {
	type Database struct {
		Host string `config:"host" validate:"required"`
		Port int    `config:"port" validate:"min=1,max=65535"`
	}
	type AppConfig struct {
		Name     string   `config:"name" validate:"required"`
		Database Database `config:"database"`
		Tags     []string `config:"tags"`
	}

	binder := config.NewBinder()
	var got AppConfig
	err := binder.Bind(map[string]any{
		"name": "orders",
		"database": map[string]any{
			"host": "db.local",
			"port": "5432",
		},
		"tags": "a,b,c",
	}, &got)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}

	want := AppConfig{
		Name:     "orders",
		Database: Database{Host: "db.local", Port: 5432},
		Tags:     []string{"a", "b", "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Bind() got = %+v, want %+v", got, want)
	}
}

func TestBinder_Bind_ErrorStages(t *testing.T) {
	type Config struct {
		Port int `config:"port" validate:"min=1"`
	}
	binder := config.NewBinder()

	var cfg Config
	err := binder.Bind(map[string]any{"port": map[string]any{"nested": true}}, &cfg)
	var bindErr *config.BindError
	if !errors.As(err, &bindErr) || bindErr.Stage != "decode" {
		t.Errorf("expected decode-stage BindError, got %v", err)
	}

	err = binder.Bind(map[string]any{"port": 0}, &cfg)
	if !errors.As(err, &bindErr) || bindErr.Stage != "validate" {
		t.Errorf("expected validate-stage BindError, got %v", err)
	}
}
