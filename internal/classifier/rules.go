package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"oposiciones/quiz-extract/internal/models"
)

var (
	testNumberPattern = regexp.MustCompile(`test\s*(\d+)`)
	setNumberPattern  = regexp.MustCompile(`\((\d+)\)`)
)

// Rule is one entry of the ordered classification table. Match and Label
// receive the normalized file name (see Normalize).
type Rule struct {
	Name  string
	Match func(name string) bool
	Label func(name, stem string, tema int) models.Category
}

// DefaultRules returns the built-in table, in priority order. The fallback
// rule is not part of the table. Keywords are plain substrings, so "titulo i"
// also claims "titulo iv" and "titulo ix" names unless they use the short
// "titiv" form.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "repaso",
			Match: contains("repaso"),
			Label: func(name, _ string, _ int) models.Category {
				return models.Category{
					Superblock: "Repaso General CE",
					Subblock:   "Repaso CE - Test " + TestNumber(name, "1"),
				}
			},
		},
		{
			Name:  "titulo-preliminar",
			Match: contains("preliminar"),
			Label: numberedTest("Título Preliminar", "Título Preliminar"),
		},
		{
			Name:  "titulo-i",
			Match: contains("titulo i"),
			Label: numberedTest("Título I: Derechos y Deberes Fundamentales", "Título I"),
		},
		{
			Name:  "titulo-iv",
			Match: contains("titulo iv", "titiv"),
			Label: numberedTest("Título IV: Gobierno y Administración", "Título IV"),
		},
		{
			Name:  "titulo-viii",
			Match: contains("titulo viii", "titviii"),
			Label: numberedTest("Título VIII: Organización Territorial del Estado", "Título VIII"),
		},
		{
			Name:  "titulo-ix",
			Match: contains("titulo ix"),
			Label: fixed("Título IX: Tribunal Constitucional", "Título IX - Tribunal Constitucional"),
		},
		{
			Name:  "titulo-x",
			Match: contains("titulo x"),
			Label: fixed("Título X: Reforma Constitucional", "Título X - Reforma Constitucional"),
		},
		{
			Name:  "estabilizacion",
			Match: contains("estabilizacion"),
			Label: func(name, _ string, _ int) models.Category {
				return models.Category{
					Superblock: "Preguntas de Estabilización",
					Subblock:   "Preguntas Estabilización - Set " + SetNumber(name, "1"),
				}
			},
		},
	}
}

// FallbackCategory labels files no rule recognises.
func FallbackCategory(stem string, tema int) models.Category {
	return models.Category{
		Superblock: models.TopicName(tema),
		Subblock:   stem,
	}
}

// TestNumber returns the number following "test" in name, or def.
func TestNumber(name, def string) string {
	if m := testNumberPattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return def
}

// SetNumber returns the first parenthesised number in name, or def.
func SetNumber(name, def string) string {
	if m := setNumberPattern.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return def
}

func contains(keywords ...string) func(string) bool {
	return func(name string) bool {
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return true
			}
		}
		return false
	}
}

func numberedTest(superblock, prefix string) func(string, string, int) models.Category {
	return func(name, _ string, _ int) models.Category {
		return models.Category{
			Superblock: superblock,
			Subblock:   fmt.Sprintf("%s - Test %s", prefix, TestNumber(name, "Principal")),
		}
	}
}

func fixed(superblock, subblock string) func(string, string, int) models.Category {
	return func(string, string, int) models.Category {
		return models.Category{Superblock: superblock, Subblock: subblock}
	}
}
