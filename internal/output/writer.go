// Package output writes the per-topic question bundles and the module index
// consumed by the quiz application.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"oposiciones/quiz-extract/internal/extracterror"
	"oposiciones/quiz-extract/internal/fileutils"
	"oposiciones/quiz-extract/internal/models"
)

// TopicPath returns the bundle path of topic tema inside dir.
func TopicPath(dir string, tema int) string {
	return filepath.Join(dir, models.TopicFileName(tema))
}

// IndexPath returns the module index path inside dir.
func IndexPath(dir string) string {
	return filepath.Join(dir, models.ModuleIndexFileName)
}

// WriteTopic writes bundle to <dir>/tema<N>.json and returns the written path.
// The directory is created when missing.
func WriteTopic(dir string, tema int, bundle *models.TopicBundle) (string, error) {
	path := TopicPath(dir, tema)
	if bundle == nil {
		bundle = models.NewTopicBundle(tema, nil)
	}
	if err := writeJSON(path, bundle); err != nil {
		return "", err
	}
	return path, nil
}

// ReadTopic loads a bundle previously written by WriteTopic.
func ReadTopic(path string) (*models.TopicBundle, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the output directory
	if err != nil {
		return nil, &extracterror.OutputError{FilePath: path, Op: "read", Err: err}
	}
	var bundle models.TopicBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, &extracterror.OutputError{FilePath: path, Op: "decode", Err: err}
	}
	return &bundle, nil
}

// WriteModuleIndex overwrites <dir>/modules.config.json with one entry per
// topic, sorted by topic number. Duplicate topics are listed once.
func WriteModuleIndex(dir string, temas []int) (string, error) {
	sorted := append([]int(nil), temas...)
	sort.Ints(sorted)

	index := models.ModuleIndex{Modules: []models.ModuleEntry{}}
	for i, tema := range sorted {
		if i > 0 && sorted[i-1] == tema {
			continue
		}
		index.Modules = append(index.Modules, models.NewModuleEntry(tema))
	}

	path := IndexPath(dir)
	if err := writeJSON(path, index); err != nil {
		return "", err
	}
	return path, nil
}

// ReadModuleIndex loads modules.config.json from dir.
func ReadModuleIndex(dir string) (*models.ModuleIndex, error) {
	path := IndexPath(dir)
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the output directory
	if err != nil {
		return nil, &extracterror.OutputError{FilePath: path, Op: "read", Err: err}
	}
	var index models.ModuleIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, &extracterror.OutputError{FilePath: path, Op: "decode", Err: err}
	}
	return &index, nil
}

// Encode renders v the way every generated file is written: two-space
// indentation with non-ASCII and HTML characters kept literal.
func Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return buf.Bytes(), nil
}

func writeJSON(path string, v interface{}) error {
	data, err := Encode(v)
	if err != nil {
		return &extracterror.OutputError{FilePath: path, Op: "encode", Err: err}
	}
	if err := fileutils.WriteFile(path, data, models.PermissionOutputFile); err != nil {
		return &extracterror.OutputError{FilePath: path, Op: "write", Err: err}
	}
	return nil
}
