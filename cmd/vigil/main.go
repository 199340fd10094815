package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/had-nu/vigil/internal/hook"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, hook.ErrSecretsFound) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		format     = flag.String("format", "", "Output format (text, json, sarif); overrides the config file")
		configPath = flag.String("config", "", "Path to the config file (default <repo root>/.vigil.yaml)")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getwd: %w", err)
	}

	return hook.Run(ctx, hook.Options{
		SearchDirs: filepath.SplitList(os.Getenv("PATH")),
		WorkDir:    workDir,
		Format:     *format,
		ConfigPath: *configPath,
		Debug:      *debug,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	})
}
