package source

import (
	"context"
	"reflect"
	"testing"
)

func TestCLISource_Name(t *testing.T) {
	s := &CLISource{}
	if got := s.Name(); got != "cli" {
		t.Errorf("Name() = %v, want cli", got)
	}
}

func TestCLISource_Load(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{
			name: "flat flags",
			args: []string{"--addr=:8080", "--debug=true"},
			want: map[string]any{
				"addr":  ":8080",
				"debug": "true",
			},
		},
		{
			name: "dot notation nests",
			args: []string{"--server.addr=:8080", "--app.name=orders", "--app.version=1.2.0"},
			want: map[string]any{
				"server": map[string]any{"addr": ":8080"},
				"app": map[string]any{
					"name":    "orders",
					"version": "1.2.0",
				},
			},
		},
		{
			name: "space separated value",
			args: []string{"--server.addr", ":9090"},
			want: map[string]any{
				"server": map[string]any{"addr": ":9090"},
			},
		},
		{
			name: "single dash long flag",
			args: []string{"-server.addr=:9090"},
			want: map[string]any{
				"server": map[string]any{"addr": ":9090"},
			},
		},
		{
			name: "explicit empty value kept",
			args: []string{"--server.addr="},
			want: map[string]any{
				"server": map[string]any{"addr": ""},
			},
		},
		{
			name: "non-flag arguments ignored",
			args: []string{"serve", "--server.addr=:8080", "positional"},
			want: map[string]any{
				"server": map[string]any{"addr": ":8080"},
			},
		},
		{
			name: "no arguments",
			args: []string{},
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &CLISource{Args: tt.args}
			got, err := s.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Load() = %v, want %v", got, tt.want)
			}
		})
	}
}
