package cmd

import (
	"bytes"
	stdErrors "errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/furnish/internal/config"
	"github.com/lepinkainen/furnish/internal/errors"
	"github.com/lepinkainen/furnish/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCmdState(t *testing.T) *bytes.Buffer {
	t.Helper()

	testutil.ResetConfig(t)
	config.InitConfig()

	origStdout := stdout
	origLogger := slog.Default()
	out := &bytes.Buffer{}
	stdout = out
	t.Cleanup(func() {
		stdout = origStdout
		slog.SetDefault(origLogger)
	})

	return out
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	cli := &CLI{}
	parser, err := kong.New(cli, append(kongOptions(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)...)
	require.NoError(t, err)

	ctx, err := parser.Parse(args)
	require.NoError(t, err)

	return cli, ctx
}

// run parses args against a database in a fresh temp dir and executes the command.
func run(t *testing.T, dbPath string, args ...string) error {
	t.Helper()

	cli, ctx := parseCLI(t, append([]string{"--db", dbPath}, args...)...)
	updateGlobalConfig(cli)
	return ctx.Run()
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{
		DB:        "/tmp/furniture-test.db",
		LogLevel:  "debug",
		Overwrite: true,
	}

	updateGlobalConfig(cli)

	assert.True(t, config.OverwriteFiles)
	assert.Equal(t, "/tmp/furniture-test.db", config.DBFile)
	assert.Equal(t, "/tmp/furniture-test.db", viper.GetString("database.file"))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}

func TestUpdateGlobalConfigKeepsConfiguredDB(t *testing.T) {
	resetCmdState(t)

	updateGlobalConfig(&CLI{LogLevel: "info"})

	assert.Equal(t, config.DefaultDBFile, config.DBFile)
	assert.False(t, config.OverwriteFiles)
}

func TestUpdateGlobalConfigReadsLogLevelFromConfig(t *testing.T) {
	resetCmdState(t)

	viper.Set("log.level", "debug")
	cli, _ := parseCLI(t, "list")
	assert.Empty(t, cli.LogLevel)

	updateGlobalConfig(cli)
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))

	updateGlobalConfig(&CLI{LogLevel: "error"})
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelWarn))
}

func TestGlobalFlagParsing(t *testing.T) {
	resetCmdState(t)

	dbPath := filepath.Join(t.TempDir(), "inventory.db")
	cli, ctx := parseCLI(t, "--db", dbPath, "--log-level", "warn", "list", "--json")

	assert.Equal(t, dbPath, cli.DB)
	assert.Equal(t, "warn", cli.LogLevel)
	assert.True(t, cli.List.JSON)
	assert.Equal(t, "list", ctx.Command())
}

func TestCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "add", "-n", "Chair", "-d", "Wooden chair", "-p", "49.99", "--height", "90", "--width", "45", "--length", "45")
	assert.Equal(t, "Chair", cli.Add.Name)
	assert.Equal(t, "49.99", cli.Add.Price)
	assert.Equal(t, "45", cli.Add.Length)

	cli, ctx := parseCLI(t, "update", "Chair", "--price", "10")
	assert.Equal(t, "Chair", cli.Update.Name)
	assert.Equal(t, "10", cli.Update.Price)
	assert.Empty(t, cli.Update.Description)
	assert.Equal(t, "update <name>", ctx.Command())

	cli, _ = parseCLI(t, "export", "-f", "out.json", "--format", "json")
	assert.Equal(t, "out.json", cli.Export.File)
	assert.Equal(t, FormatJSON, cli.Export.Format)

	cli, _ = parseCLI(t, "export")
	assert.Equal(t, FormatDelimited, cli.Export.Format)

	cli, _ = parseCLI(t, "publish", "--url", "http://localhost:8001", "--rps", "5", "--batch-size", "10")
	assert.Equal(t, "http://localhost:8001", cli.Publish.URL)
	assert.Equal(t, 5.0, cli.Publish.RPS)
	assert.Equal(t, 10, cli.Publish.BatchSize)

	cli, _ = parseCLI(t, "publish")
	assert.Equal(t, -1.0, cli.Publish.RPS)
}

func TestPublishDefaultsKeepExplicitZeroRate(t *testing.T) {
	resetCmdState(t)
	viper.Set("datasette.rps", 2)

	unpaced := &PublishCmd{RPS: 0}
	unpaced.applyDefaults()
	assert.Equal(t, 0.0, unpaced.RPS)

	configured := &PublishCmd{RPS: -1}
	configured.applyDefaults()
	assert.Equal(t, 2.0, configured.RPS)
	assert.Equal(t, "inventory", configured.Database)
	assert.Equal(t, "furniture", configured.Table)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, parseLogLevel(input), input)
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", errors.NewNotFoundError("Chair"), "Furniture not found"},
		{"duplicate", errors.NewUniqueConstraintError("Chair", nil), "Furniture with this name already exists"},
		{"validation", errors.NewValidationError("price", "must not be negative"), "Invalid input"},
		{"parse", errors.NewParseError(3, "price", stdErrors.New("bad")), "Import file is malformed"},
		{"storage", errors.NewStorageUnavailableError("x.db", stdErrors.New("denied")), "Inventory database is unavailable"},
		{"rate limited", errors.NewRateLimitError("datasette", 0), "Remote service is rate limiting requests"},
		{"other", stdErrors.New("boom"), "Command failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeError(tt.err))
		})
	}
}
