package classifier

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"oposiciones/quiz-extract/internal/extracterror"
	"oposiciones/quiz-extract/internal/logging"
	"oposiciones/quiz-extract/internal/models"

	"gopkg.in/yaml.v3"
)

// RuleConfig is a classification rule as written in a rules file:
//
//	rules:
//	  - name: simulacros
//	    keywords: ["simulacro"]
//	    superblock: "Simulacros"
//	    subblock: "Simulacro - Test {test}"
//
// Keywords are matched case- and accent-insensitively against the file name.
// Subblock and superblock may use {test}, {set}, {tema} and {stem}.
type RuleConfig struct {
	Name        string   `yaml:"name"`
	Keywords    []string `yaml:"keywords"`
	Superblock  string   `yaml:"superblock"`
	Subblock    string   `yaml:"subblock"`
	DefaultTest string   `yaml:"default_test"`
	DefaultSet  string   `yaml:"default_set"`
}

// RulesFile is the top-level structure of a rules file.
type RulesFile struct {
	Rules []RuleConfig `yaml:"rules"`
}

// LoadRules reads extra classification rules from a YAML file. An empty path
// yields no rules; a missing file is logged and yields no rules.
func LoadRules(path string, logger logging.Logger) ([]Rule, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided rules file
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("Classifier rules file not found, using built-in rules only",
				logging.F(logging.FieldFile, path))
			return nil, nil
		}
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, rc := range file.Rules {
		rule, err := rc.compile()
		if err != nil {
			return nil, &extracterror.InvalidRuleError{FilePath: path, Index: i + 1, Reason: err.Error()}
		}
		rules = append(rules, rule)
	}

	logger.Debug("Loaded classifier rules",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(rules)))
	return rules, nil
}

func (rc RuleConfig) compile() (Rule, error) {
	if strings.TrimSpace(rc.Superblock) == "" {
		return Rule{}, errors.New("superblock is required")
	}

	var keywords []string
	for _, k := range rc.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, Normalize(k))
		}
	}
	if len(keywords) == 0 {
		return Rule{}, errors.New("at least one keyword is required")
	}

	name := rc.Name
	if name == "" {
		name = keywords[0]
	}

	defTest := rc.DefaultTest
	if defTest == "" {
		defTest = "1"
	}
	defSet := rc.DefaultSet
	if defSet == "" {
		defSet = "1"
	}

	return Rule{
		Name:  name,
		Match: contains(keywords...),
		Label: func(normalized, stem string, tema int) models.Category {
			r := strings.NewReplacer(
				"{test}", TestNumber(normalized, defTest),
				"{set}", SetNumber(normalized, defSet),
				"{tema}", strconv.Itoa(tema),
				"{stem}", stem,
			)
			subblock := rc.Subblock
			if subblock == "" {
				subblock = "{stem}"
			}
			return models.Category{
				Superblock: r.Replace(rc.Superblock),
				Subblock:   r.Replace(subblock),
			}
		},
	}, nil
}
