package cmd

import (
	stdErrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/furnish/internal/config"
	"github.com/lepinkainen/furnish/internal/datastore"
	"github.com/lepinkainen/furnish/internal/errors"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var (
	// stdout receives command output; logs go to stderr
	stdout io.Writer = os.Stdout

	openStore = func(path string) (datastore.Store, error) {
		return datastore.Open(path)
	}
)

// CLI represents the complete command structure for the furnish application
type CLI struct {
	// Global flags
	DB        string `help:"Path to the SQLite inventory database (default from database.file)" type:"path"`
	LogLevel  string `help:"Log level: debug, info, warn or error (default from log.level)"`
	Overwrite bool   `help:"Overwrite existing JSON/YAML export files"`

	Init    InitCmd    `cmd:"" help:"Create the inventory database and table"`
	Add     AddCmd     `cmd:"" help:"Add a furniture record"`
	List    ListCmd    `cmd:"" help:"List all furniture records"`
	Show    ShowCmd    `cmd:"" help:"Show one furniture record by name"`
	Update  UpdateCmd  `cmd:"" help:"Update a furniture record by name"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a furniture record by name"`
	Export  ExportCmd  `cmd:"" help:"Export the inventory to a file"`
	Import  ImportCmd  `cmd:"" help:"Import furniture from a semicolon-delimited file"`
	Publish PublishCmd `cmd:"" help:"Publish the inventory to a Datasette instance"`
	Browse  BrowseCmd  `cmd:"" help:"Browse and edit the inventory interactively"`
}

func kongOptions() []kong.Option {
	return []kong.Option{
		kong.Name("furnish"),
		kong.Description("Manage a furniture store's inventory."),
		kong.UsageOnError(),
	}
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)
	initConfig()

	var cli CLI
	ctx := kong.Parse(&cli, kongOptions()...)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error(describeError(err), "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !stdErrors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	config.SetDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.BindEnv("database.file", "FURNISH_DB"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("datasette.token", "DATASETTE_TOKEN"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stdErrors.As(err, &notFound) {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
		slog.Debug("Config file not found, writing default config file")
		if err := viper.SafeWriteConfig(); err != nil {
			slog.Warn("Error writing config file", "error", err)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	level := cli.LogLevel
	if level == "" {
		level = viper.GetString("log.level")
	}
	initLogging(parseLogLevel(level))

	config.SetDBFile(cli.DB)
	config.SetOverwriteFiles(cli.Overwrite || config.OverwriteFiles)
}

func initLogging(level slog.Level) {
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// describeError turns an error category into the message shown to the user.
// Categories are kept apart so "not found" never reads like a crash.
func describeError(err error) string {
	switch {
	case errors.IsNotFoundError(err):
		return "Furniture not found"
	case errors.IsUniqueConstraintError(err):
		return "Furniture with this name already exists"
	case errors.IsValidationError(err):
		return "Invalid input"
	case errors.IsParseError(err):
		return "Import file is malformed"
	case errors.IsStorageUnavailableError(err):
		return "Inventory database is unavailable"
	case errors.IsRateLimitError(err):
		return "Remote service is rate limiting requests"
	default:
		return "Command failed"
	}
}

// withStore opens the configured database for the duration of fn.
func withStore(fn func(store datastore.Store) error) error {
	store, err := openStore(config.DBFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}()

	return fn(store)
}

func printf(format string, args ...any) {
	_, _ = fmt.Fprintf(stdout, format, args...)
}
