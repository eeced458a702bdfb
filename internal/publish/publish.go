// Package publish copies result artifacts to the study's cloud VM and
// relocates them into the web served directory. Every remote operation is a
// separate gcloud invocation so a failed step can be retried on its own;
// there is no rollback, completed steps simply stay in place. The staging
// directory name is unique per run, so a publish that died halfway never
// collides with the next attempt.
package publish

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"

	"rail-pipeline/internal/config"
	"rail-pipeline/internal/logger"
)

// Step is one remote operation: a full argv, executed as its own process.
type Step struct {
	Name string
	Argv []string
}

// Publisher ships the configured artifacts to the remote VM.
type Publisher struct {
	Env     config.DeployEnv
	WebRoot string
	Files   []string
	Dirs    []string
	DryRun  bool

	staging string // per-run remote staging directory

	// execute runs an external command and returns its combined output.
	// Overridable in tests so no gcloud process is spawned.
	execute func(name string, args ...string) ([]byte, error)
}

// New returns a Publisher for the given deployment environment and publish
// config, with a fresh per-run staging directory.
func New(env config.DeployEnv, pub config.Publish, dryRun bool) *Publisher {
	return &Publisher{
		Env:     env,
		WebRoot: pub.WebRoot,
		Files:   pub.Files,
		Dirs:    pub.Dirs,
		DryRun:  dryRun,
		staging: "~/rail-publish-" + uuid.NewString(),
		execute: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
	}
}

// CheckArtifacts verifies every configured local artifact exists, returning
// an error that names the first missing one. Nothing remote happens until
// this passes.
func (p *Publisher) CheckArtifacts() error {
	for _, path := range append(append([]string{}, p.Files...), p.Dirs...) {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("required artifact %s is missing", path)
		}
	}
	return nil
}

// Steps builds the remote operation sequence. Exposed separately from Run so
// the exact commands can be inspected (and tested) without executing them.
func (p *Publisher) Steps() []Step {
	target := p.Env.VMName + ":" + p.staging + "/"

	scpFiles := []string{"compute", "scp"}
	scpFiles = append(scpFiles, p.Files...)
	scpFiles = append(scpFiles, target, "--project", p.Env.ProjectID, "--zone", p.Env.Zone)

	scpDirs := []string{"compute", "scp", "--recurse"}
	scpDirs = append(scpDirs, p.Dirs...)
	scpDirs = append(scpDirs, target, "--project", p.Env.ProjectID, "--zone", p.Env.Zone)

	return []Step{
		{
			Name: "create staging directory",
			Argv: p.ssh("mkdir -p " + p.staging),
		},
		{
			Name: "copy artifact files",
			Argv: scpFiles,
		},
		{
			Name: "copy artifact directories",
			Argv: scpDirs,
		},
		{
			Name: "sync into web root",
			Argv: p.ssh(fmt.Sprintf("sudo rsync -a --delete %s/ %s/ && rm -rf %s",
				p.staging, p.WebRoot, p.staging)),
		},
	}
}

// ssh wraps a remote shell command into a gcloud compute ssh argv.
func (p *Publisher) ssh(command string) []string {
	return []string{
		"compute", "ssh", p.Env.VMName,
		"--project", p.Env.ProjectID,
		"--zone", p.Env.Zone,
		"--command", command,
	}
}

// Run checks preconditions, then executes each step in sequence. The first
// failing step halts the run with the step named; earlier steps' effects are
// left in place.
func (p *Publisher) Run() error {
	if err := p.CheckArtifacts(); err != nil {
		return err
	}

	for _, step := range p.Steps() {
		if p.DryRun {
			logger.Info("[DRY-RUN] %s: gcloud %s\n", step.Name, strings.Join(step.Argv, " "))
			continue
		}

		logger.Info("[INFO] %s...\n", step.Name)
		logger.Debug("[DEBUG] gcloud %s\n", strings.Join(step.Argv, " "))

		output, err := p.execute("gcloud", step.Argv...)
		if err != nil {
			return fmt.Errorf("publish step %q failed: %w\nOutput: %s", step.Name, err, output)
		}
		logger.Debug("[DEBUG] %s\n", output)
	}

	if !p.DryRun {
		logger.Info("[INFO] Publish completed.\n")
	}
	return nil
}
