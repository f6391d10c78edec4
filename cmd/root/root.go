// Package root contains the root command for the application
package root

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"oposiciones/quiz-extract/internal/config"
	"oposiciones/quiz-extract/internal/container"
	"oposiciones/quiz-extract/internal/logging"
	"oposiciones/quiz-extract/internal/models"

	"github.com/spf13/cobra"
)

// ExtractFlags holds the flags of the extraction run.
type ExtractFlags struct {
	Tema    int
	All     bool
	DryRun  bool
	Output  string
	Workers int
	Report  string
	SQLite  string
}

// GlobalFlags holds the flags shared with every subcommand.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	Base       string
}

// flagBindings maps configuration keys to the flag that overrides them.
var flagBindings = map[string]string{
	"log.level":             "log-level",
	"log.format":            "log-format",
	"extraction.base_dir":   "base",
	"extraction.output_dir": "output",
	"extraction.workers":    "workers",
	"output.report_path":    "report",
	"output.sqlite_path":    "sqlite",
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "quiz-extract",
		Short: "Extract quiz questions from exam PDFs into JSON bundles.",
		Long: `quiz-extract reads the exam PDFs stored under <base>/Tema <N>/, recovers
the numbered questions, their options and the answer key, classifies every
PDF by its file name and writes one tema<N>.json bundle per topic plus a
modules.config.json index for the quiz application.`,
		Example: `  quiz-extract --tema 3
  quiz-extract --all --dry-run
  quiz-extract --all --output quiz/src/data --report run.csv`,
		RunE:          runExtract,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Flags are the extraction flags of the root command.
	Flags = ExtractFlags{}

	// SharedFlags are the persistent flags available to every command.
	SharedFlags = GlobalFlags{}

	initOnce sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		pf := Cmd.PersistentFlags()
		pf.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.quiz-extract, .quiz-extract or .)")
		pf.StringVar(&SharedFlags.LogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
		pf.StringVar(&SharedFlags.LogFormat, "log-format", "text", "Log format (text or json)")
		pf.StringVar(&SharedFlags.Base, "base", "Test", "Directory containing the 'Tema <N>' folders")

		f := Cmd.Flags()
		f.IntVarP(&Flags.Tema, "tema", "t", 0, "Process a single topic number")
		f.BoolVarP(&Flags.All, "all", "a", false, "Process every topic found under the base directory (overrides --tema)")
		f.BoolVar(&Flags.DryRun, "dry-run", false, "Run the whole pipeline without writing any file")
		f.StringVarP(&Flags.Output, "output", "o", "quiz/src/data", "Directory receiving tema<N>.json and modules.config.json")
		f.IntVarP(&Flags.Workers, "workers", "w", 1, "Number of topics processed concurrently")
		f.StringVar(&Flags.Report, "report", "", "Write a per-PDF run report (.csv or .json)")
		f.StringVar(&Flags.SQLite, "sqlite", "", "Also store the extracted questions in this SQLite database")
	})
}

// LoadConfig builds the configuration for cmd: defaults, config file,
// QUIZ_* environment variables, then any flag set on the command line.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.NewViper(SharedFlags.ConfigFile)
	for key, name := range flagBindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return config.Load(v)
}

// NewContainer loads the configuration of cmd and wires the application.
func NewContainer(cmd *cobra.Command) (*container.Container, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return container.NewContainer(cfg)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if !Flags.All && !cmd.Flags().Changed("tema") {
		return cmd.Help()
	}
	if !Flags.All && Flags.Tema < 1 {
		return fmt.Errorf("--tema must be a positive topic number, got %d", Flags.Tema)
	}

	app, err := NewContainer(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	logger := app.GetLogger()
	processor := app.GetProcessor()

	temas := []int{Flags.Tema}
	if Flags.All {
		temas, err = processor.DiscoverTopics()
		if err != nil {
			return err
		}
		if len(temas) == 0 {
			logger.Warn("No topic directories found",
				logging.F(logging.FieldDirectory, processor.Options().BaseDir))
			return nil
		}
	}

	summary, err := app.Run(cmd.Context(), temas, Flags.DryRun)
	if summary != nil {
		logSummary(logger, summary, Flags.DryRun)
		PrintSummary(cmd.OutOrStdout(), summary, Flags.DryRun)
	}
	return err
}

func logSummary(logger logging.Logger, s *models.RunSummary, dryRun bool) {
	logger.Info("Extraction finished",
		logging.F(logging.FieldDryRun, dryRun),
		logging.F("topics_processed", len(s.TopicsProcessed)),
		logging.F("topics_skipped", len(s.TopicsSkipped)),
		logging.F("pdfs", s.PDFsProcessed),
		logging.F(logging.FieldQuestions, s.Questions),
		logging.F("warnings", s.Warnings))
}

// PrintSummary writes the human-readable end-of-run summary.
func PrintSummary(w io.Writer, s *models.RunSummary, dryRun bool) {
	mode := "Extraction"
	if dryRun {
		mode = "Dry run"
	}
	_, _ = fmt.Fprintf(w, "%s complete: %d/%d topics, %d PDFs, %d questions, %d warnings\n",
		mode, len(s.TopicsProcessed), s.TopicsRequested, s.PDFsProcessed, s.Questions, s.Warnings)
	if len(s.TopicsSkipped) > 0 {
		_, _ = fmt.Fprintf(w, "Skipped topics: %s\n", joinInts(s.TopicsSkipped))
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
