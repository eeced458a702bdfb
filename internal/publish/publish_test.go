package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail-pipeline/internal/config"
)

var testEnv = config.DeployEnv{
	VMName:    "analysis-vm",
	ProjectID: "rail-study",
	Zone:      "europe-west4-a",
}

// makeArtifacts lays out the publishable files and dirs in a temp dir and
// returns a matching publish config.
func makeArtifacts(t *testing.T) config.Publish {
	t.Helper()
	dir := t.TempDir()

	mainCSV := filepath.Join(dir, "main.csv")
	index := filepath.Join(dir, "index.html")
	maps := filepath.Join(dir, "maps")
	figures := filepath.Join(dir, "figures")

	require.NoError(t, os.WriteFile(mainCSV, []byte("municipality,m2_price\n"), 0644))
	require.NoError(t, os.WriteFile(index, []byte("<html></html>"), 0644))
	require.NoError(t, os.MkdirAll(maps, 0755))
	require.NoError(t, os.MkdirAll(figures, 0755))

	return config.Publish{
		WebRoot: "/var/www/html",
		Files:   []string{mainCSV, index},
		Dirs:    []string{maps, figures},
	}
}

func TestCheckArtifactsNamesMissingOne(t *testing.T) {
	pub := makeArtifacts(t)
	missing := filepath.Join(t.TempDir(), "figures")
	pub.Dirs = []string{pub.Dirs[0], missing}

	err := New(testEnv, pub, false).CheckArtifacts()
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestCheckArtifactsAllPresent(t *testing.T) {
	pub := makeArtifacts(t)
	assert.NoError(t, New(testEnv, pub, false).CheckArtifacts())
}

func TestStepsSequence(t *testing.T) {
	pub := makeArtifacts(t)
	p := New(testEnv, pub, false)

	steps := p.Steps()
	require.Len(t, steps, 4)

	// Step 1: staging dir creation over ssh.
	assert.Equal(t, "create staging directory", steps[0].Name)
	assert.Equal(t, []string{"compute", "ssh", "analysis-vm",
		"--project", "rail-study", "--zone", "europe-west4-a",
		"--command", "mkdir -p " + p.staging}, steps[0].Argv)

	// Step 2: both files copied in one scp invocation.
	assert.Equal(t, "copy artifact files", steps[1].Name)
	assert.Equal(t, "scp", steps[1].Argv[1])
	for _, f := range pub.Files {
		assert.Contains(t, steps[1].Argv, f)
	}
	assert.Contains(t, steps[1].Argv, "analysis-vm:"+p.staging+"/")

	// Step 3: recursive directory copy.
	assert.Equal(t, "copy artifact directories", steps[2].Name)
	assert.Contains(t, steps[2].Argv, "--recurse")
	for _, d := range pub.Dirs {
		assert.Contains(t, steps[2].Argv, d)
	}

	// Step 4: privileged mirror sync into the web root, then staging cleanup.
	assert.Equal(t, "sync into web root", steps[3].Name)
	command := steps[3].Argv[len(steps[3].Argv)-1]
	assert.Contains(t, command, "sudo rsync -a --delete")
	assert.Contains(t, command, pub.WebRoot)
	assert.Contains(t, command, "rm -rf "+p.staging)
}

func TestStagingDirUniquePerRun(t *testing.T) {
	pub := makeArtifacts(t)

	first := New(testEnv, pub, false)
	second := New(testEnv, pub, false)

	assert.NotEqual(t, first.staging, second.staging)
	assert.True(t, strings.HasPrefix(first.staging, "~/rail-publish-"))
}

func TestRunExecutesEachStepSeparately(t *testing.T) {
	pub := makeArtifacts(t)
	p := New(testEnv, pub, false)

	var names []string
	p.execute = func(name string, args ...string) ([]byte, error) {
		names = append(names, name)
		return nil, nil
	}

	require.NoError(t, p.Run())
	assert.Equal(t, []string{"gcloud", "gcloud", "gcloud", "gcloud"}, names)
}

func TestRunHaltsOnFailedStep(t *testing.T) {
	pub := makeArtifacts(t)
	p := New(testEnv, pub, false)

	count := 0
	p.execute = func(name string, args ...string) ([]byte, error) {
		count++
		if count == 2 {
			return []byte("scp: connection reset"), errors.New("exit status 1")
		}
		return nil, nil
	}

	err := p.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy artifact files")
	// No step after the failing one runs.
	assert.Equal(t, 2, count)
}

func TestRunRefusesWithMissingArtifact(t *testing.T) {
	pub := makeArtifacts(t)
	pub.Files = append(pub.Files, filepath.Join(t.TempDir(), "absent.csv"))
	p := New(testEnv, pub, false)

	executed := false
	p.execute = func(name string, args ...string) ([]byte, error) {
		executed = true
		return nil, nil
	}

	err := p.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.csv")
	// Precondition failures must happen before any remote call.
	assert.False(t, executed)
}

func TestRunDryRunMakesNoRemoteCalls(t *testing.T) {
	pub := makeArtifacts(t)
	p := New(testEnv, pub, true)

	executed := false
	p.execute = func(name string, args ...string) ([]byte, error) {
		executed = true
		return nil, nil
	}

	require.NoError(t, p.Run())
	assert.False(t, executed)
}
