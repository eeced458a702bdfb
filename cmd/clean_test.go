package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail-pipeline/internal/cliargs"
)

// setupWorkspace points the package-level config at a temp output tree with a
// single marker file and restores the globals afterwards.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	root := filepath.Join(dir, "output")
	marker := filepath.Join(root, "data", "main.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(marker), 0755))
	require.NoError(t, os.WriteFile(marker, []byte("data"), 0644))

	yamlPath := filepath.Join(dir, "pipeline.yaml")
	content := fmt.Sprintf("pipeline:\n  output_root: %s\n", root)
	require.NoError(t, os.WriteFile(yamlPath, []byte(content), 0644))

	prevConfig, prevDryRun, prevDebug := configPath, dryRun, debug
	configPath = yamlPath
	t.Cleanup(func() {
		configPath, dryRun, debug = prevConfig, prevDryRun, prevDebug
	})

	return marker
}

func TestCleanCommandRejectsInvalidFlagWithoutDeleting(t *testing.T) {
	marker := setupWorkspace(t)

	err := cleanCmd.RunE(cleanCmd, []string{"-q"})
	require.Error(t, err)

	var exitErr *cliargs.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, exitErr.Message, "-q")

	// The invalid token must abort before any deletion pass runs.
	_, statErr := os.Stat(marker)
	assert.NoError(t, statErr)
}

func TestCleanCommandNoArgsWipesOutput(t *testing.T) {
	marker := setupWorkspace(t)

	require.NoError(t, cleanCmd.RunE(cleanCmd, nil))

	_, err := os.Stat(marker)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanCommandDryRunFlag(t *testing.T) {
	marker := setupWorkspace(t)

	require.NoError(t, cleanCmd.RunE(cleanCmd, []string{"--dry-run"}))

	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestRunCommandRejectsInvalidFlag(t *testing.T) {
	setupWorkspace(t)

	err := runCmd.RunE(runCmd, []string{"--phase_3"})
	require.Error(t, err)

	var exitErr *cliargs.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.Contains(t, exitErr.Message, "--phase_3")
}
