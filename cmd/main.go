// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"textmark/internal/catalog"
	"textmark/internal/config"
	"textmark/internal/core"
	"textmark/internal/export"
	"textmark/internal/help"
	"textmark/internal/history"
	"textmark/internal/logging"
	"textmark/internal/observability"
	"textmark/internal/sources"
	"textmark/internal/version"
	"textmark/internal/watch"

	"textmark/internal/formatters"
	_ "textmark/internal/formatters/csv"
	_ "textmark/internal/formatters/json"
	_ "textmark/internal/formatters/junit"
	_ "textmark/internal/formatters/text"
	_ "textmark/internal/formatters/yaml"
)

// cliFlags holds command line flag values
type cliFlags struct {
	inputFile     string
	configFile    string
	profileName   string
	catalogFiles  string
	outputFormat  string
	outputFile    string
	exportFile    string
	caseSensitive bool
	noColor       bool
	verbose       bool
	debug         bool
	recordHistory bool
	showHistory   bool
	watch         bool
	showVersion   bool
	listCatalogs  bool
	listProfiles  bool
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format        string
	noColor       bool
	verbose       bool
	debug         bool
	caseSensitive bool
	exportPath    string
	history       bool
}

func parseFlags() *cliFlags {
	f := &cliFlags{}
	flag.StringVar(&f.inputFile, "file", "", "Document to mark (.txt, .md, .docx, .odt, .pdf); the example story is used when empty")
	flag.StringVar(&f.configFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&f.profileName, "profile", "", "Profile name to use from config file")
	flag.StringVar(&f.catalogFiles, "catalogs", "", "Comma separated catalog files (YAML, TOML or JSON) added after the configured catalogs")
	flag.StringVar(&f.outputFormat, "format", "", "Report format: "+strings.Join(formatters.List(), ", ")+" (default: text)")
	flag.StringVar(&f.outputFile, "output", "", "Path to report file (if not specified, report to stdout)")
	flag.StringVar(&f.exportFile, "export", "", "Write the marked document to this path (.docx, .odt, or .pdf for PDF input)")
	flag.BoolVar(&f.caseSensitive, "case-sensitive", false, "Match patterns case sensitively")
	flag.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&f.verbose, "verbose", false, "Report every pattern and operation timings")
	flag.BoolVar(&f.debug, "debug", false, "Enable debug logging and step output")
	flag.BoolVar(&f.recordHistory, "history", false, "Record the run in the history database")
	flag.BoolVar(&f.showHistory, "show-history", false, "Print recorded runs and exit")
	flag.BoolVar(&f.watch, "watch", false, "Re-run whenever --file changes")
	flag.BoolVar(&f.showVersion, "version", false, "Show version information")
	flag.BoolVar(&f.listCatalogs, "list-catalogs", false, "Print the catalogs of this run and exit")
	flag.BoolVar(&f.listProfiles, "list-profiles", false, "List available profiles in config file")
	flag.Usage = func() {
		help.NewSystem(os.Stderr, !isTerminal(os.Stderr)).ShowGeneralHelp(help.Capabilities{
			Formats:    formatters.List(),
			Sources:    sources.DefaultRegistry().Extensions(),
			Exporters:  export.DefaultRegistry().Extensions(),
			ConfigFile: config.FindConfigFile(),
		})
	}
	flag.Parse()
	return f
}

// loadConfiguration loads the named config file, or searches standard
// locations. A named file that fails to load is fatal.
func loadConfiguration(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadConfig(configFile)
	}

	configPath := config.FindConfigFile()
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file %s: %v\n", configPath, err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		return config.LoadConfigOrDefault(""), nil
	}
	return cfg, nil
}

// resolveConfiguration resolves final values from config file, profile and command line flags
func resolveConfiguration(cfg *config.Config, flags *cliFlags) *finalConfiguration {
	final := &finalConfiguration{
		format:        cfg.Defaults.Format,
		noColor:       cfg.Defaults.NoColor,
		verbose:       cfg.Defaults.Verbose,
		debug:         cfg.Defaults.Debug,
		caseSensitive: cfg.Defaults.CaseSensitive,
		exportPath:    cfg.Export.Path,
		history:       cfg.History.Enabled,
	}
	if final.format == "" {
		final.format = "text"
	}

	if isFlagSet("format") {
		final.format = flags.outputFormat
	}
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}
	if isFlagSet("debug") {
		final.debug = flags.debug
	}
	if isFlagSet("case-sensitive") {
		final.caseSensitive = flags.caseSensitive
	}
	if isFlagSet("export") {
		final.exportPath = flags.exportFile
	}
	if isFlagSet("history") {
		final.history = flags.recordHistory
	}
	return final
}

func main() {
	os.Exit(run(parseFlags()))
}

// run executes the command and returns the process exit code. Deferred
// cleanup runs before main exits.
func run(flags *cliFlags) int {
	if flags.showVersion {
		fmt.Println(version.Info())
		return 0
	}

	cfg, err := loadConfiguration(flags.configFile)
	if err != nil {
		return fail(err)
	}

	if flags.listProfiles {
		for _, name := range cfg.ListProfiles() {
			fmt.Printf("%-12s %s\n", name, cfg.Profiles[name].Description)
		}
		return 0
	}
	if flags.profileName != "" {
		if err := cfg.ApplyProfile(flags.profileName); err != nil {
			return fail(err)
		}
	}

	final := resolveConfiguration(cfg, flags)

	// Auto-detect non-interactive environment
	if !isTerminal(os.Stdout) || os.Getenv("NO_COLOR") != "" {
		final.noColor = true
	}

	var debugObs *observability.DebugObserver
	if final.debug {
		debugObs = observability.NewDebugObserver(os.Stderr)
		debugObs.LogDetail("main", fmt.Sprintf("Command line arguments: %v", os.Args))
	}

	logConfig := cfg.Logging
	if final.verbose {
		logConfig.Level = "info"
	}
	if final.debug {
		logConfig.Level = "debug"
	}
	provider, err := logging.NewProvider(logConfig)
	if err != nil {
		return fail(err)
	}
	logger := provider.GetLogger("textmark")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flags.showHistory {
		if err := printHistory(ctx, cfg, final); err != nil {
			return fail(err)
		}
		return 0
	}

	catalogs, err := core.BuildCatalogSet(cfg, core.SplitList(flags.catalogFiles))
	if err != nil {
		return fail(err)
	}
	if debugObs != nil {
		debugObs.LogMetric("main", "catalogs", len(catalogs))
	}

	if flags.listCatalogs {
		help.NewSystem(os.Stdout, final.noColor).ShowCatalogs(catalogs)
		return 0
	}

	if _, ok := formatters.Get(final.format); !ok {
		return fail(fmt.Errorf("unsupported format '%s'. Available formats: %s",
			final.format, strings.Join(formatters.List(), ", ")))
	}

	var store *history.Store
	if final.history {
		store, err = history.OpenFile(ctx, cfg.HistoryPath())
		if err != nil {
			return fail(err)
		}
		defer store.Close()
	}

	runner := &runner{
		flags:    flags,
		final:    final,
		catalogs: catalogs,
		logger:   logger,
		store:    store,
		sources:  sources.DefaultRegistry(),
		export:   export.DefaultRegistry(),
	}

	if err := runner.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !flags.watch {
			return 1
		}
	}

	if flags.watch {
		if err := watchFile(ctx, runner, cfg, logger); err != nil {
			return fail(err)
		}
	}
	return 0
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// runner performs one marking run per call
type runner struct {
	flags    *cliFlags
	final    *finalConfiguration
	catalogs []catalog.Catalog
	logger   logging.Logger
	store    *history.Store
	sources  *sources.Registry
	export   *export.Registry
}

// observers returns fresh observers so every run reports its own run id
// and timings. The debug observer is nil unless --debug is active.
func (r *runner) observers() (*observability.StandardObserver, *observability.DebugObserver) {
	if r.final.debug {
		debugObs := observability.NewDebugObserver(os.Stderr)
		return debugObs.StandardObserver, debugObs
	}
	return observability.NewStandardObserver(observability.ObservabilityMetrics, os.Stderr), nil
}

func (r *runner) run(ctx context.Context) error {
	observer, debugObs := r.observers()

	var done func(bool, string)
	if debugObs != nil {
		done = debugObs.StartStep("main", "mark", r.flags.inputFile)
	}

	// Bookmark lines belong to the text report; other formats keep stdout parseable
	var announce io.Writer = io.Discard
	if r.final.format == "text" && r.flags.outputFile == "" {
		announce = os.Stdout
	}

	result, err := core.MarkFile(ctx, core.MarkConfig{
		FilePath:      r.flags.inputFile,
		Catalogs:      r.catalogs,
		CaseSensitive: r.final.caseSensitive,
		ExportPath:    r.final.exportPath,
		Output:        announce,
		Color:         !r.final.noColor,
		Logger:        r.logger,
		Observer:      observer,
		Sources:       r.sources,
		Exporters:     r.export,
		History:       r.store,
	})
	if err != nil {
		if done != nil {
			done(false, err.Error())
		}
		return err
	}

	report := result.Report(observer)
	output, err := formatters.Export(r.final.format, report, formatters.FormatterOptions{
		Verbose: r.final.verbose,
		NoColor: r.final.noColor || r.flags.outputFile != "",
	})
	if err != nil {
		return err
	}

	if done != nil {
		s := report.Summary()
		done(true, fmt.Sprintf("%d created, %d warnings", s.Created, s.Warnings))
	}
	return writeOutput(r.flags.outputFile, output)
}

func writeOutput(path, output string) error {
	if path == "" {
		fmt.Println(output)
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(output+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func watchFile(ctx context.Context, r *runner, cfg *config.Config, logger logging.Logger) error {
	if r.flags.inputFile == "" {
		return fmt.Errorf("--watch requires --file")
	}
	w, err := watch.New(r.flags.inputFile, watch.WithDelay(cfg.Watch.Delay), watch.WithLogger(logger))
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", w.Path())
	return w.Run(ctx, func(ctx context.Context) error {
		fmt.Fprintf(os.Stderr, "\n%s changed, re-running\n", r.flags.inputFile)
		return r.run(ctx)
	})
}

func printHistory(ctx context.Context, cfg *config.Config, final *finalConfiguration) error {
	store, err := history.OpenFile(ctx, cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(ctx, cfg.History.Limit)
	if err != nil {
		return err
	}
	out, err := history.Format(runs, final.format)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
