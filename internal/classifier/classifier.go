// Package classifier derives the superblock/subblock labels of a question
// from the name of the PDF it came from.
package classifier

import (
	"oposiciones/quiz-extract/internal/logging"
	"oposiciones/quiz-extract/internal/models"
)

// FallbackRuleName is reported when no rule matched.
const FallbackRuleName = "fallback"

// Classifier evaluates an ordered rule table; the first matching rule wins.
type Classifier struct {
	rules  []Rule
	logger logging.Logger
}

// New creates a Classifier. Extra rules are evaluated before the built-in ones.
func New(logger logging.Logger, extra ...Rule) *Classifier {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	rules := make([]Rule, 0, len(extra)+8)
	rules = append(rules, extra...)
	rules = append(rules, DefaultRules()...)
	return &Classifier{rules: rules, logger: logger}
}

// Classify returns the category for filename within topic tema.
func (c *Classifier) Classify(filename string, tema int) models.Category {
	category, _ := c.Explain(filename, tema)
	return category
}

// Explain is Classify that also reports the name of the rule that matched.
func (c *Classifier) Explain(filename string, tema int) (models.Category, string) {
	stem := Stem(filename)
	name := Normalize(stem)

	for _, rule := range c.rules {
		if rule.Match(name) {
			category := rule.Label(name, stem, tema)
			c.logger.Debug("File classified",
				logging.F(logging.FieldFile, filename),
				logging.F(logging.FieldRule, rule.Name),
				logging.F(logging.FieldSuperblock, category.Superblock),
				logging.F(logging.FieldSubblock, category.Subblock))
			return category, rule.Name
		}
	}

	category := FallbackCategory(stem, tema)
	c.logger.Debug("No classification rule matched, using file name",
		logging.F(logging.FieldFile, filename),
		logging.F(logging.FieldSubblock, category.Subblock))
	return category, FallbackRuleName
}

// Rules returns the rule names in evaluation order.
func (c *Classifier) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}
