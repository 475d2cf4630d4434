package fileutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileExists checks if a regular file exists at the given path
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteFileWithOverwrite writes data to a file, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteFileWithOverwrite(filePath string, data []byte, perm os.FileMode, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		return false, nil
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, perm); err != nil {
		return false, fmt.Errorf("failed to write file: %w", err)
	}

	return true, nil
}

// WriteJSONFile writes data as indented JSON, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteJSONFile(data any, filePath string, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("JSON file already exists, skipping", "filename", filePath, "overwrite", overwrite)
		return false, nil
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	slog.Info("Writing JSON file", "filename", filePath, "overwrite", overwrite)
	return WriteFileWithOverwrite(filePath, append(jsonData, '\n'), 0644, true)
}

// WriteYAMLFile writes data as YAML, respecting the overwrite flag
// Returns true if the file was written, false if it was skipped
func WriteYAMLFile(data any, filePath string, overwrite bool) (bool, error) {
	if FileExists(filePath) && !overwrite {
		slog.Info("YAML file already exists, skipping", "filename", filePath, "overwrite", overwrite)
		return false, nil
	}

	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return false, fmt.Errorf("failed to marshal YAML: %w", err)
	}

	slog.Info("Writing YAML file", "filename", filePath, "overwrite", overwrite)
	return WriteFileWithOverwrite(filePath, yamlData, 0644, true)
}
