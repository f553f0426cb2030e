// Package scenario parses scenario command flags and runs a Lua script
// against a fresh notebook.
package scenario

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"

	"github.com/louisbranch/alchemists/internal/alchemy/scenario"
	entrypoint "github.com/louisbranch/alchemists/internal/platform/cmd"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string `env:"ALCHEMISTS_SCENARIO_FILE"`
	Assertions bool   `env:"ALCHEMISTS_SCENARIO_ASSERT"  envDefault:"true"`
	Verbose    bool   `env:"ALCHEMISTS_SCENARIO_VERBOSE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log every step and the final board")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Scenario == "" && fs.NArg() > 0 {
		cfg.Scenario = fs.Arg(0)
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	logger := log.New(errOut, "", 0)
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenario, func(ctx context.Context) error {
		if err := scenario.RunFile(ctx, scenario.Config{
			Assertions: mode,
			Verbose:    cfg.Verbose,
			Logger:     logger,
		}, cfg.Scenario); err != nil {
			return err
		}
		_, err := io.WriteString(out, "scenario passed: "+cfg.Scenario+"\n")
		return err
	})
}
