// This defines the maze command-line tool: it generates mazes, draws them as
// text or PNG images, and keeps a journal of past runs so that any of them can
// be replayed.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yalue/textmaze/internal/config"
	"github.com/yalue/textmaze/internal/journal"
	"github.com/yalue/textmaze/internal/metrics"
	"github.com/yalue/textmaze/internal/ux"
)

// State shared by every subcommand. Populated by the root command's
// PersistentPreRunE.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// Persistent flags.
	configPath  string
	logLevel    string
	color       string
	journalPath string
	metricsFile string
	noJournal   bool

	cfg      config.Config
	logger   *slog.Logger
	printer  *ux.Printer
	recorder *metrics.Recorder
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout: stdout,
		stderr: stderr,
	}
	root := &cobra.Command{
		Use:   "maze",
		Short: "Generate, solve and draw random mazes",
		Long: `maze builds perfect mazes with randomized Kruskal's algorithm,
optionally shaped by a mask image, and prints them as text art or PNG images.
Every run is recorded in a journal so it can be listed and replayed.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.finish,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "",
		"Path to a YAML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "",
		"Log level: debug, info, warn or error")
	pf.StringVar(&a.color, "color", "",
		"Color text output: auto, always or never")
	pf.StringVar(&a.journalPath, "journal", "",
		"Directory of the run journal")
	pf.BoolVar(&a.noJournal, "no-journal", false,
		"Do not read or write the run journal")
	pf.StringVar(&a.metricsFile, "metrics-file", "",
		"Write Prometheus metrics to this textfile when done")

	root.AddCommand(
		a.newGenerateCmd(),
		a.newImageCmd(),
		a.newBatchCmd(),
		a.newHistoryCmd(),
		a.newReplayCmd(),
	)
	return root
}

// Loads the configuration, applies persistent flag overrides and builds the
// logger, printer and metrics recorder.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, e := config.Load(a.configPath)
	if e != nil {
		return fmt.Errorf("Error loading configuration: %w", e)
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("color") {
		cfg.Color = config.ColorMode(a.color)
	}
	if flags.Changed("journal") {
		cfg.JournalPath = a.journalPath
	}
	if a.noJournal {
		cfg.JournalPath = ""
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = a.metricsFile
	}
	e = cfg.Validate()
	if e != nil {
		return e
	}
	level, e := config.ParseLogLevel(cfg.LogLevel)
	if e != nil {
		return e
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.stderr,
		&slog.HandlerOptions{Level: level}))
	palette := ux.NewPalette(a.stdout, a.colorEnabled())
	a.printer = ux.NewPrinter(a.stdout, palette)
	a.recorder = metrics.NewRecorder()
	return nil
}

// Writes the metrics textfile, if one is configured.
func (a *app) finish(cmd *cobra.Command, args []string) error {
	if a.cfg.MetricsFile == "" {
		return nil
	}
	e := a.recorder.WriteTextfile(a.cfg.MetricsFile)
	if e != nil {
		return fmt.Errorf("Error writing metrics to %s: %w", a.cfg.MetricsFile,
			e)
	}
	a.logger.Debug("Wrote metrics", "path", a.cfg.MetricsFile)
	return nil
}

func (a *app) colorEnabled() bool {
	f, ok := a.stdout.(*os.File)
	if !ok {
		return a.cfg.Color == config.ColorAlways
	}
	return ux.ColorEnabled(a.cfg.Color, f)
}

// Opens the run journal. Returns nil, with no error, if the journal is
// disabled. The caller must close a non-nil journal.
func (a *app) openJournal() (*journal.Journal, error) {
	if a.cfg.JournalPath == "" {
		return nil, nil
	}
	jcfg := journal.DefaultConfig(a.cfg.JournalPath)
	jcfg.Logger = a.logger
	j, e := journal.Open(jcfg)
	if e != nil {
		return nil, fmt.Errorf("Error opening the run journal: %w", e)
	}
	return j, nil
}

// Like openJournal, but fails if the journal is disabled.
func (a *app) requireJournal() (*journal.Journal, error) {
	j, e := a.openJournal()
	if e != nil {
		return nil, e
	}
	if j == nil {
		return nil, errors.New("the run journal is disabled")
	}
	return j, nil
}

// Prints a command's failure. Runs outside of the command, so the configured
// color mode is unavailable and auto detection is used.
func printError(f *os.File, e error) {
	color := ux.ColorEnabled(config.ColorAuto, f)
	ux.NewPrinter(f, ux.NewPalette(f, color)).Error("Error: %s", e)
}

func run() int {
	root := newRootCmd(os.Stdout, os.Stderr)
	e := root.Execute()
	if e != nil {
		printError(os.Stderr, e)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
