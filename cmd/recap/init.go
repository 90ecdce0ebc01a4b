package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nugget/recap/internal/defaults"
)

// runInit initializes a Recap working directory with default files.
// It creates the output and data subdirectories and copies the bundled
// example config and sample notes. Existing files are never
// overwritten.
func runInit(w io.Writer, dir string) error {
	fmt.Fprintf(w, "Initializing Recap workspace in %s\n", dir)

	// Create the base directory and subdirectories.
	for _, sub := range []string{"output", "data"} {
		path := filepath.Join(dir, sub)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
	}

	// Write config example if no config exists.
	configPath := filepath.Join(dir, "config.yaml")
	if err := writeIfMissing(configPath, defaults.ConfigYAML); err != nil {
		return err
	}
	fmt.Fprintf(w, "  ✓ %s\n", configPath)

	// Sample notes give a first run something to summarize.
	samplePath := filepath.Join(dir, "sample_meeting.txt")
	if err := writeIfMissing(samplePath, defaults.SampleNotes); err != nil {
		return err
	}
	fmt.Fprintf(w, "  ✓ %s\n", samplePath)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit config.yaml to set your API keys, then try:")
	fmt.Fprintf(w, "  recap run -input %s\n", samplePath)
	return nil
}

// writeIfMissing writes content to path only if the file does not already
// exist. This ensures init never overwrites user customizations.
func writeIfMissing(path string, content []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil // already exists, skip
	}
	return os.WriteFile(path, content, 0o644)
}
