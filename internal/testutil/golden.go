package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GoldenHelper compares generated output with files under a testdata
// directory. Setting UPDATE_GOLDEN=true rewrites the golden files instead.
type GoldenHelper struct {
	t          *testing.T
	goldenDir  string
	updateMode bool
}

// NewGoldenHelper creates a new golden file helper rooted at goldenDir.
func NewGoldenHelper(t *testing.T, goldenDir string) *GoldenHelper {
	t.Helper()

	return &GoldenHelper{
		t:          t,
		goldenDir:  goldenDir,
		updateMode: os.Getenv("UPDATE_GOLDEN") == "true",
	}
}

// GoldenPath returns the full path to a golden file.
func (g *GoldenHelper) GoldenPath(name string) string {
	return filepath.Join(g.goldenDir, name)
}

// AssertGolden compares actual with the named golden file, or rewrites it in update mode.
func (g *GoldenHelper) AssertGolden(name string, actual []byte) {
	g.t.Helper()

	goldenPath := g.GoldenPath(name)

	if g.updateMode {
		require.NoError(g.t, os.MkdirAll(filepath.Dir(goldenPath), 0o755), "failed to create golden file directory")
		require.NoError(g.t, os.WriteFile(goldenPath, actual, 0o644), "failed to update golden file")
		g.t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	golden, err := os.ReadFile(goldenPath)
	require.NoError(g.t, err, "failed to read golden file %s", goldenPath)

	assert.Equal(g.t, string(golden), string(actual),
		"content does not match golden file %s", name)
}

// AssertGoldenFile compares the content of an actual file with a golden file.
func (g *GoldenHelper) AssertGoldenFile(actualPath, goldenName string) {
	g.t.Helper()

	actual, err := os.ReadFile(actualPath)
	require.NoError(g.t, err, "failed to read actual file %s", actualPath)

	g.AssertGolden(goldenName, actual)
}

// MustReadGoldenString reads a golden file as a string, failing the test on error.
func (g *GoldenHelper) MustReadGoldenString(name string) string {
	g.t.Helper()

	content, err := os.ReadFile(g.GoldenPath(name))
	require.NoError(g.t, err, "failed to read golden file %s", name)

	return string(content)
}
