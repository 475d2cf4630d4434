package config

import (
	"github.com/spf13/viper"
)

// Default locations, relative to the working directory
const (
	DefaultDBFile     = "./furniture.db"
	DefaultExportFile = "./furniture.csv"
)

// Global configuration variables
var (
	// DBFile is the SQLite database holding the inventory
	DBFile string
	// ExportFile is the default target of the export command
	ExportFile string
	// ImportFile is the default source of the import command
	ImportFile string
	// OverwriteFiles controls whether JSON and YAML exports replace existing files.
	// Delimited exports always overwrite.
	OverwriteFiles bool
)

// SetDefaults registers default values for every known key
func SetDefaults() {
	viper.SetDefault("database.file", DefaultDBFile)
	viper.SetDefault("export.file", DefaultExportFile)
	viper.SetDefault("import.file", "")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("log.level", "info")

	viper.SetDefault("datasette.url", "")
	viper.SetDefault("datasette.token", "")
	viper.SetDefault("datasette.database", "inventory")
	viper.SetDefault("datasette.table", "furniture")
	viper.SetDefault("datasette.batchsize", 100)
	viper.SetDefault("datasette.rps", 2)
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	DBFile = viper.GetString("database.file")
	ExportFile = viper.GetString("export.file")
	ImportFile = viper.GetString("import.file")
	OverwriteFiles = viper.GetBool("OverwriteFiles")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// SetDBFile points the application at a different database file. Empty values are ignored.
func SetDBFile(path string) {
	if path == "" {
		return
	}
	DBFile = path
	viper.Set("database.file", path)
}
