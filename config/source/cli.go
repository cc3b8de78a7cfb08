package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/keelframework/keel/config"
)

// CLISource loads configuration from command-line flags using dot notation
// for nesting:
//
//	--server.addr=:9090 --app.name orders
//	  -> {server: {addr: ":9090"}, app: {name: "orders"}}
//
// Both --flag=value and --flag value are accepted, and a single leading dash
// is tolerated for long flags. Values are strings until the Binder converts
// them; an explicitly empty value (--flag=) overrides earlier sources with
// the empty string. CLISource should sit last in the source chain so flags
// override files and the environment.
type CLISource struct {
	// Args overrides os.Args[1:] in tests; nil means the real command line.
	Args []string
}

func (c *CLISource) Name() string { return "cli" }

func (c *CLISource) Load(ctx context.Context) (map[string]any, error) {
	args := c.Args
	if args == nil {
		args = os.Args[1:]
	}
	return parseFlags(args), nil
}

// Watch is not supported: the command line is fixed for the process lifetime.
func (c *CLISource) Watch(ctx context.Context, ch chan<- config.Event) error { return nil }

func parseFlags(args []string) map[string]any {
	result := make(map[string]any)
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	args = normalizeArgs(args)

	// pflag refuses unknown flags, so register every flag-looking token as a
	// string before parsing.
	registered := make(map[string]bool)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := flagName(arg)
		if name == "" {
			continue
		}
		if !registered[name] {
			fs.String(name, "", fmt.Sprintf("config value for %s", name))
			registered[name] = true
		}
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++ // the next token is this flag's value
		}
	}

	_ = fs.Parse(args)

	fs.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			return
		}
		setNestedValue(result, strings.Split(flag.Name, "."), flag.Value.String())
	})
	return result
}

// normalizeArgs promotes single-dash long flags (-server.addr) to the
// double-dash form pflag expects.
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") {
			rest := strings.TrimPrefix(arg, "-")
			if len(rest) > 1 && rest[0] != '=' {
				out[i] = "-" + arg
				continue
			}
		}
		out[i] = arg
	}
	return out
}

func flagName(arg string) string {
	name := strings.TrimLeft(arg, "-")
	if idx := strings.Index(name, "="); idx != -1 {
		name = name[:idx]
	}
	return name
}
