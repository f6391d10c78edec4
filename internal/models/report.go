package models

// FileReport records the outcome of processing a single PDF.
type FileReport struct {
	Topic      int    `csv:"topic" json:"topic"`
	File       string `csv:"file" json:"file"`
	Superblock string `csv:"superblock" json:"superblock"`
	Subblock   string `csv:"subblock" json:"subblock"`
	Questions  int    `csv:"questions" json:"questions"`
	Answers    int    `csv:"answers" json:"answers"`
	Defaulted  int    `csv:"defaulted_answers" json:"defaulted_answers"`
	Status     string `csv:"status" json:"status"`
	Message    string `csv:"message" json:"message,omitempty"`
}

// Degraded reports whether the file produced a warning.
func (r FileReport) Degraded() bool {
	return r.Status != StatusOK
}

// RunSummary aggregates the counts printed at the end of a run. Dry runs
// produce the same summary as normal runs.
type RunSummary struct {
	TopicsRequested int
	TopicsProcessed []int
	TopicsSkipped   []int
	PDFsProcessed   int
	Questions       int
	Warnings        int
	Files           []FileReport
}

// Merge folds the outcome of one topic into the summary.
func (s *RunSummary) Merge(tema int, files []FileReport, questions int) {
	s.TopicsProcessed = append(s.TopicsProcessed, tema)
	s.PDFsProcessed += len(files)
	s.Questions += questions
	for _, f := range files {
		if f.Degraded() {
			s.Warnings++
		}
	}
	s.Files = append(s.Files, files...)
}

// Skip records a topic that could not be processed.
func (s *RunSummary) Skip(tema int) {
	s.TopicsSkipped = append(s.TopicsSkipped, tema)
	s.Warnings++
}
