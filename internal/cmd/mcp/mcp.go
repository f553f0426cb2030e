// Package mcp parses MCP command flags and serves a notebook over stdio.
package mcp

import (
	"context"
	"flag"
	"log"

	"github.com/louisbranch/alchemists/internal/alchemy/notebook"
	"github.com/louisbranch/alchemists/internal/mcp/service"
	entrypoint "github.com/louisbranch/alchemists/internal/platform/cmd"
)

// Config holds MCP command configuration.
type Config struct {
	Name string `env:"ALCHEMISTS_MCP_NAME"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Name, "name", cfg.Name, "server name reported to MCP clients")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves an empty notebook over stdio until ctx ends. Log output goes to
// stderr since stdout carries the protocol.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		nb := notebook.New(notebook.WithLogger(log.Default()))
		return service.New(cfg.Name, nb).Serve(ctx)
	})
}
