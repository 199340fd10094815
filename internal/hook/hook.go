// Package hook wires the pre-commit pipeline: locate git, resolve the
// repository, list staged files, filter to readable ones, scan, report.
package hook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/had-nu/vigil/internal/config"
	"github.com/had-nu/vigil/internal/deps"
	"github.com/had-nu/vigil/internal/detector"
	"github.com/had-nu/vigil/internal/gitrepo"
	"github.com/had-nu/vigil/internal/reporter"
	"github.com/had-nu/vigil/internal/scanner"
)

// ErrSecretsFound is the designed terminal condition: findings were reported
// and the commit must be aborted.
var ErrSecretsFound = errors.New("secrets found in staged files")

// Options parameterizes one hook invocation. Everything the pipeline touches
// comes in through here so tests never depend on ambient process state.
type Options struct {
	SearchDirs []string // executable search directories, usually from PATH
	WorkDir    string   // ambient working directory of the invocation
	Format     string   // report format override; empty uses the config value
	ConfigPath string   // config file override; empty uses <root>/.vigil.yaml
	Debug      bool
	Gateway    gitrepo.Gateway // repository access override for tests
	Stdout     io.Writer
	Stderr     io.Writer
}

// Run executes one pre-commit scan. It returns nil when the commit may
// proceed, ErrSecretsFound when findings block it, and any other error for a
// fatal environment failure. All three cases are distinguishable by the
// caller, which maps them onto the process exit status.
func Run(ctx context.Context, opts Options) error {
	log := logrus.New()
	log.SetOutput(opts.Stderr)
	if opts.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	gateway := opts.Gateway
	if gateway == nil {
		paths, err := deps.New(opts.SearchDirs).Locate("git")
		if err != nil {
			return err
		}
		gateway = gitrepo.NewCLI(paths["git"], opts.WorkDir)
	}

	root, err := gateway.Root(ctx)
	if err != nil {
		return err
	}
	log.Debugf("repository root: %s", root)

	staged, err := gateway.StagedFiles(ctx, root)
	if err != nil {
		return err
	}
	if len(staged) == 0 {
		fmt.Fprintln(opts.Stdout, "No staged files to scan.")
		return nil
	}
	log.Debugf("%d staged file(s)", len(staged))

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.Path(root)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	format := opts.Format
	if format == "" {
		format = cfg.Format
	}

	readable := scanner.FilterReadable(root, staged)
	if len(readable) == 0 {
		fmt.Fprintln(opts.Stdout, "No readable staged files to scan.")
		return nil
	}

	det, err := buildDetector(root, cfg)
	if err != nil {
		return err
	}

	allow, err := scanner.NewAllowlist(cfg.Allow.Paths, cfg.Allow.Patterns)
	if err != nil {
		return err
	}

	result, err := scanner.New(det, allow, log).Scan(ctx, root, readable)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	// Surface per-file skips so the operator knows what was not scanned.
	for _, se := range result.Errors {
		log.Warnf("skipped %s", se)
	}

	if err := reporter.Report(opts.Stdout, result.Findings, format); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if len(result.Findings) > 0 {
		return ErrSecretsFound
	}
	return nil
}

func buildDetector(root string, cfg config.Config) (scanner.Detector, error) {
	if cfg.Engine == "gitleaks" {
		return detector.NewGitleaks()
	}

	patterns := detector.DefaultPatterns()
	if cfg.RulesFile != "" {
		extra, err := detector.LoadRules(filepath.Join(root, cfg.RulesFile))
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, extra...)
	}
	return detector.New(patterns), nil
}
