// Package notes collects raw meeting notes from files, literal strings,
// and directories, and provides the text utilities the pipeline needs
// (word counts, token estimates, truncation).
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrEmpty is returned when an input source yields no usable text.
var ErrEmpty = fmt.Errorf("meeting notes are empty")

// ReadFile reads meeting notes from a file. Files with an .html or .htm
// extension get readable-text extraction; everything else is read
// verbatim. Returns ErrEmpty when the file holds no usable text.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read notes file: %w", err)
	}

	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		_, text = ExtractHTML(text)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return text, nil
}

// FromString validates literal notes text.
func FromString(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// batchExtensions are the file types batch mode processes.
var batchExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// ListDir returns the notes files in dir, sorted by name. Subdirectories
// and files with other extensions are skipped.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read notes directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !batchExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	sort.Strings(files)
	return files, nil
}
