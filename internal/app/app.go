// Package app implements the hyperarmor command line tool.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/samdwyer/hyperarmor/internal/config"
	"github.com/samdwyer/hyperarmor/internal/fetch"
	"github.com/samdwyer/hyperarmor/internal/gamedata"
	"github.com/samdwyer/hyperarmor/internal/telemetry"
)

// env is shared by every subcommand.
type env struct {
	cfg        config.Config
	poiseTable string
	logger     *zap.Logger
	stdout     io.Writer
	stderr     io.Writer

	registry *gamedata.Registry
}

type command struct {
	name    string
	summary string
	// needsData loads the registry before run is called.
	needsData bool
	run       func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{name: "attacks", summary: "list every attack identifier", run: runAttacks},
	{name: "classes", summary: "list weapon classes with their weapons and innate poise", needsData: true, run: runClasses},
	{name: "weapon", summary: "show the full poise damage table of a weapon", needsData: true, run: runWeapon},
	{name: "damage", summary: "show the poise damage of one weapon attack", needsData: true, run: runDamage},
	{name: "hyperarmor", summary: "show the weapon hyperarmor of one weapon attack", needsData: true, run: runHyperarmor},
	{name: "resolve", summary: "show hyperarmor and incoming damage for a loadout", needsData: true, run: runResolve},
	{name: "survey", summary: "compare one attack across every weapon", needsData: true, run: runSurvey},
	{name: "export-xlsx", summary: "write attack surveys to a spreadsheet", needsData: true, run: runExportXLSX},
	{name: "export-sqlite", summary: "write all poise damage to a SQLite database", needsData: true, run: runExportSQLite},
	{name: "fetch", summary: "download the poise damage sheet again", run: runFetch},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// Run executes the tool with args (without the program name) and returns the
// process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := run(ctx, args, stdout, stderr); err != nil {
		if ee, ok := asExitError(err); ok {
			if ee.Err != nil && ee.Code != ExitOK {
				fmt.Fprintln(stderr, ee.Err)
			}
			return ee.Code
		}
		fmt.Fprintln(stderr, err)
		return ExitError
	}
	return ExitOK
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Not fatal: variables may be set directly.
	if err := config.LoadDotenv(); err != nil {
		fmt.Fprintf(stderr, "note: .env file not loaded: %v\n", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return exitWithError(ExitError, err)
	}

	e := &env{cfg: cfg, stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet("hyperarmor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&e.cfg.DataFile, "data", cfg.DataFile, "cached poise damage CSV")
	fs.StringVar(&e.cfg.DataURL, "url", cfg.DataURL, "sheet CSV export to download when the cache is missing")
	fs.StringVar(&e.cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&e.cfg.LogDevelopment, "log-dev", cfg.LogDevelopment, "development logging")
	fs.StringVar(&e.poiseTable, "poise-table", "", "innate poise YAML replacing the built-in table")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return exitWithError(ExitUsage, err)
	}
	if fs.NArg() == 0 {
		usage(fs)
		return usageErrorf("missing command")
	}

	cmd, ok := lookupCommand(fs.Arg(0))
	if !ok {
		return usageErrorf("unknown command %q", fs.Arg(0))
	}

	logger, err := telemetry.NewLogger(e.cfg.LogLevel, e.cfg.LogDevelopment)
	if err != nil {
		return exitWithError(ExitUsage, err)
	}
	defer logger.Sync()
	e.logger = logger

	if e.cfg.TelemetryEnabled() {
		shutdown, err := telemetry.Setup(ctx, e.cfg.Telemetry, logger)
		if err != nil {
			logger.Warn("telemetry setup failed, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("telemetry shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	tracer := telemetry.Tracer("app")
	ctx, span := tracer.Start(ctx, "app."+cmd.name)
	defer span.End()

	if cmd.needsData {
		reg, err := e.loadRegistry(ctx)
		if err != nil {
			span.RecordError(err)
			return exitWithError(ExitError, err)
		}
		e.registry = reg
	}

	return cmd.run(ctx, e, fs.Args()[1:])
}

func (e *env) loadRegistry(ctx context.Context) (*gamedata.Registry, error) {
	src := gamedata.Source{
		Path:    e.cfg.DataFile,
		Fetcher: fetch.NewHTTPFetcher(e.cfg.DataURL, e.logger),
	}
	if e.poiseTable != "" {
		content, err := os.ReadFile(e.poiseTable)
		if err != nil {
			return nil, fmt.Errorf("failed to read innate poise table: %w", err)
		}
		overrides, err := gamedata.ParsePoiseOverrides(content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.poiseTable, err)
		}
		src.Overrides = &overrides
	}
	return gamedata.LoadRegistry(ctx, src, gamedata.WithLogger(e.logger))
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "usage: hyperarmor [flags] <command> [command flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	width := 0
	for _, c := range commands {
		names = append(names, c.name)
		width = max(width, len(c.name))
	}
	sort.Strings(names)
	for _, name := range names {
		c, _ := lookupCommand(name)
		fmt.Fprintf(w, "  %-*s  %s\n", width, c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fs.PrintDefaults()
}

// newFlagSet returns a subcommand flag set writing to stderr.
func (e *env) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// parse parses subcommand flags, mapping failures to usage errors.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitError{Code: ExitOK}
		}
		return exitWithError(ExitUsage, err)
	}
	return nil
}

func joinArgs(fs *flag.FlagSet) string {
	return strings.TrimSpace(strings.Join(fs.Args(), " "))
}
