// Package inspect handles the single PDF inspection command
package inspect

import (
	"fmt"
	"io"
	"sort"

	"oposiciones/quiz-extract/cmd/root"
	"oposiciones/quiz-extract/internal/container"
	"oposiciones/quiz-extract/internal/models"
	"oposiciones/quiz-extract/internal/topic"

	"github.com/spf13/cobra"
)

var (
	// Raw prints the extracted text instead of the breakdown.
	Raw bool
	// Tema is the topic used for classification and the fallback label.
	Tema int
)

// Cmd represents the inspect command
var Cmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Show what the extractor recovers from a single PDF",
	Long: `Run one PDF through text extraction, answer key parsing, question
segmentation and classification and print the result. Nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: inspectFunc,
}

func init() {
	Cmd.Flags().BoolVar(&Raw, "raw", false, "Print the extracted text only")
	Cmd.Flags().IntVarP(&Tema, "tema", "t", 1, "Topic number used for classification")
}

func inspectFunc(cmd *cobra.Command, args []string) error {
	cfg, err := root.LoadConfig(cmd)
	if err != nil {
		return err
	}
	// inspection never writes
	cfg.Output.ReportPath = ""
	cfg.Output.SQLitePath = ""

	app, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	ins, err := app.GetProcessor().Inspect(args[0], Tema)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if Raw {
		_, err = io.WriteString(out, ins.Text)
		return err
	}
	return PrintInspection(out, ins)
}

// PrintInspection writes the per-stage breakdown of a PDF.
func PrintInspection(w io.Writer, ins *topic.Inspection) error {
	p := &printer{w: w}
	p.printf("File:       %s\n", ins.File)
	p.printf("Rule:       %s\n", ins.Rule)
	p.printf("Superblock: %s\n", ins.Category.Superblock)
	p.printf("Subblock:   %s\n", ins.Category.Subblock)
	p.printf("Answers:    %d\n", len(ins.Answers))
	p.printf("Questions:  %d (dropped without options: %d)\n\n", len(ins.Questions), ins.Dropped)

	for _, q := range ins.Questions {
		answer, ok := ins.Answers.Lookup(q.Number)
		p.printf("%d. %s\n", q.Number, q.Text)
		for i, opt := range q.Options {
			mark := " "
			if ok && i == answer {
				mark = "*"
			}
			p.printf("  %s %c) %s\n", mark, 'a'+rune(i), opt)
		}
		if !ok {
			p.printf("  (no answer, defaults to a)\n")
		}
		if len(q.Options) > models.OptionsPerQuestion {
			p.printf("  (%d options, only the first %d are kept)\n", len(q.Options), models.OptionsPerQuestion)
		}
	}

	if orphans := orphanAnswers(ins); len(orphans) > 0 {
		p.printf("\nAnswer key entries without a question: %v\n", orphans)
	}
	return p.err
}

func orphanAnswers(ins *topic.Inspection) []int {
	seen := make(map[int]bool, len(ins.Questions))
	for _, q := range ins.Questions {
		seen[q.Number] = true
	}
	var orphans []int
	for n := range ins.Answers {
		if !seen[n] {
			orphans = append(orphans, n)
		}
	}
	sort.Ints(orphans)
	return orphans
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
