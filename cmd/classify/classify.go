// Package classify handles the file name classification command
package classify

import (
	"fmt"
	"path/filepath"

	"oposiciones/quiz-extract/cmd/root"
	"oposiciones/quiz-extract/internal/classifier"
	"oposiciones/quiz-extract/internal/config"

	"github.com/spf13/cobra"
)

// Tema is the topic used for the fallback label.
var Tema int

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify <filename>...",
	Short: "Show the superblock and subblock assigned to PDF file names",
	Long: `Classify PDF file names with the same rules used during extraction,
including any rules file configured in classifier.rules_file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: classifyFunc,
}

func init() {
	Cmd.Flags().IntVarP(&Tema, "tema", "t", 1, "Topic number used when no rule matches")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	cfg, err := root.LoadConfig(cmd)
	if err != nil {
		return err
	}
	logger := config.NewLoggerFromConfig(cfg)

	rules, err := classifier.LoadRules(cfg.Classifier.RulesFile, logger)
	if err != nil {
		return err
	}
	cls := classifier.New(logger, rules...)

	out := cmd.OutOrStdout()
	for _, name := range args {
		category, rule := cls.Explain(filepath.Base(name), Tema)
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\t[%s]\n", name, category.Superblock, category.Subblock, rule); err != nil {
			return err
		}
	}
	return nil
}
