package testutil

import (
	"testing"

	"github.com/lepinkainen/furnish/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	DBFile         string
	ExportFile     string
	ImportFile     string
	OverwriteFiles bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		DBFile:         config.DBFile,
		ExportFile:     config.ExportFile,
		ImportFile:     config.ImportFile,
		OverwriteFiles: config.OverwriteFiles,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.DBFile = state.DBFile
	config.ExportFile = state.ExportFile
	config.ImportFile = state.ImportFile
	config.OverwriteFiles = state.OverwriteFiles
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig resets the configuration and points the database at dbPath.
// The previous state is restored when the test completes.
func SetTestConfig(t *testing.T, dbPath string) {
	t.Helper()

	ResetConfig(t)
	config.InitConfig()
	config.SetDBFile(dbPath)
	config.OverwriteFiles = true
}
