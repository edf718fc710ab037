// Command greenroomd runs the interview daemon in the foreground without
// the CLI wrapper. Most users start the daemon via `greenroom start`; this
// binary exists for service managers that want a dedicated executable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"greenroom/internal/config"
	"greenroom/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (defaults to ~/.config/greenroom/config.toml)")
	diagnostic := flag.Bool("diagnostic", false, "enable verbose debug logging to the debug log directory")
	flag.Parse()

	cfg, resolvedPath, exists, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !exists {
		fmt.Fprintf(os.Stderr, "no config at %s, running with defaults (see `greenroom config init`)\n", resolvedPath)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{
		LogLevel:   cfg.Logging.Level,
		Diagnostic: *diagnostic,
	}); err != nil {
		log.Fatalf("greenroomd: %v", err)
	}
}
