package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// writeJSON writes v as indented JSON to <runDir>/name. Each phase writes
// exactly one artifact; the file's existence marks the phase as committed.
func writeJSON(runDir, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("pipeline: marshal %s: %w", name, err)
	}
	return writeFile(runDir, name, data)
}

func writeText(runDir, name, content string) error {
	return writeFile(runDir, name, []byte(content))
}

func writeFile(runDir, name string, data []byte) error {
	path := filepath.Join(runDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pipeline: write %s: %w", name, err)
	}
	return nil
}
