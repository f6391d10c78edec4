package models

// Fixed record content
const (
	OptionsPerQuestion  = 4
	MissingOptionText   = "[Opción no disponible]"
	DefaultExplanation  = "Consulta el material de estudio para más detalles."
	DefaultCorrectIndex = 0
)

// Output file names
const (
	ModuleIndexFileName = "modules.config.json"
)

// File processing statuses reported per PDF
const (
	StatusOK          = "ok"
	StatusNoText      = "no_text"
	StatusNoAnswerKey = "no_answer_key"
	StatusNoQuestions = "no_questions"
	StatusReadError   = "read_error"
)

// File permissions
const (
	PermissionOutputFile = 0644
	PermissionDirectory  = 0750
)
