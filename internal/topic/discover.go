package topic

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"

	"oposiciones/quiz-extract/internal/logging"
)

var topicDirPattern = regexp.MustCompile(`(?i)tema\s*(\d+)`)

// DiscoverTopics lists the topic numbers of every directory under the base
// directory whose name contains "tema <N>", deduplicated and ascending.
func (p *Processor) DiscoverTopics() ([]int, error) {
	entries, err := os.ReadDir(p.opts.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan base directory '%s': %w", p.opts.BaseDir, err)
	}

	seen := make(map[int]bool)
	var temas []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := topicDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		tema, err := strconv.Atoi(m[1])
		if err != nil || seen[tema] {
			continue
		}
		seen[tema] = true
		temas = append(temas, tema)
	}
	sort.Ints(temas)

	p.logger.Info("Discovered topics",
		logging.F(logging.FieldDirectory, p.opts.BaseDir),
		logging.F(logging.FieldCount, len(temas)))
	return temas, nil
}
