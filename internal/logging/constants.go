package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file"
	FieldTopic      = "tema"
	FieldDirectory  = "directory"
	FieldCount      = "count"
	FieldQuestions  = "questions"
	FieldAnswers    = "answers"
	FieldDefaulted  = "defaulted_answers"
	FieldSuperblock = "superblock"
	FieldSubblock   = "subblock"
	FieldRule       = "rule"
	FieldExtractor  = "extractor"
	FieldStatus     = "status"
	FieldDryRun     = "dry_run"
	FieldOutputFile = "output_file"
	FieldRunID      = "run_id"
	FieldWorkers    = "workers"
)
