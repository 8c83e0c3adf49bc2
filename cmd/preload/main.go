// Command preload fetches, renders and executes preload scripts against a SQL database.
//
// Usage:
//
//	preload [-config preload.yaml] [-driver sqlite] [-dsn :memory:] [-log-level info] [-dry-run] [-trace]
//
// Flags override PRELOAD_* environment variables (and a .env file, when present),
// which override preload.settings.yaml. With -trace, spans are written to stderr as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	_ "modernc.org/sqlite"

	"github.com/skosovsky/preload"
	"github.com/skosovsky/preload/internal/logging"
	"github.com/skosovsky/preload/internal/settings"
	"github.com/skosovsky/preload/internal/telemetry"
	"github.com/skosovsky/preload/manifest"
	"github.com/skosovsky/preload/sources"
	"github.com/skosovsky/preload/sqlexec"
)

// settingsFile is the optional YAML settings file read from the working directory.
const settingsFile = "preload.settings.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses flags, builds the combined script and executes it (or prints it with -dry-run).
// It returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	s, err := settings.Load(settingsFile, ".env")
	if err != nil {
		fmt.Fprintf(stderr, "load settings: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("preload", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&s.ConfigPath, "config", s.ConfigPath, "preload manifest (YAML)")
	fs.StringVar(&s.Driver, "driver", s.Driver, "database/sql driver name")
	fs.StringVar(&s.DSN, "dsn", s.DSN, "database DSN")
	fs.StringVar(&s.LogLevel, "log-level", s.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&s.DryRun, "dry-run", s.DryRun, "print the combined script instead of executing it")
	fs.BoolVar(&s.Trace, "trace", s.Trace, "write OpenTelemetry spans to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := logging.New(s.LogLevel, stderr)

	cfg, err := manifest.ParseFile(s.ConfigPath)
	if err != nil {
		logger.Error("failed to load manifest", "path", s.ConfigPath, "error", err)
		return 1
	}
	opts := []preload.Option{preload.WithLogger(logger)}
	if s.Trace {
		tp, shutdown, err := telemetry.InitTracer("preload", stderr, logger)
		if err != nil {
			logger.Error("failed to initialize tracing", "error", err)
			return 1
		}
		defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()
		opts = append(opts, preload.WithTracerProvider(tp))
	}
	runner := preload.NewRunner(sources.NewRegistry(sources.WithFS("file", os.DirFS("."))), opts...)

	if s.DryRun {
		script, err := runner.Build(ctx, cfg)
		if err != nil {
			logger.Error("failed to build preload script", "error", err)
			return 1
		}
		fmt.Fprintln(stdout, script)
		return 0
	}

	db, err := sqlexec.Open(ctx, s.Driver, s.DSN)
	if err != nil {
		logger.Error("failed to open database", "driver", s.Driver, "error", err)
		return 1
	}
	defer func() { _ = db.Close() }()

	if err := runner.Apply(ctx, sqlexec.New(db), cfg); err != nil {
		logger.Error("preload failed", "error", err)
		return 1
	}
	logger.Info("preload complete", "locations", len(cfg.OrderedLocations()))
	return 0
}
