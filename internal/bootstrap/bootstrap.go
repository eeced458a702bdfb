// Package bootstrap prepares the Python analysis environment and hands
// validated flags to the pipeline entrypoint. Setup is idempotent and driven
// by the state file: the virtualenv is created once, and pip only runs again
// when the pinned requirements actually change.
package bootstrap

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"rail-pipeline/internal/config"
	"rail-pipeline/internal/logger"
	"rail-pipeline/internal/state"
)

// Bootstrapper manages the virtualenv and pipeline invocation for one run.
type Bootstrapper struct {
	cfg    config.Config
	st     *state.State
	dryRun bool

	// execute runs an external command and returns its combined output.
	// Overridable in tests so no python/pip process is spawned.
	execute func(name string, args ...string) ([]byte, error)
}

// New returns a Bootstrapper over the given config and state.
func New(cfg config.Config, st *state.State, dryRun bool) *Bootstrapper {
	return &Bootstrapper{
		cfg:    cfg,
		st:     st,
		dryRun: dryRun,
		execute: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
	}
}

// EnsureEnv makes the virtualenv and its dependencies match the requirements
// file. Both steps are skipped when the state file shows them already done.
func (b *Bootstrapper) EnsureEnv() error {
	if err := b.ensureVenv(); err != nil {
		return err
	}
	return b.ensureRequirements()
}

// ensureVenv creates the virtualenv if its interpreter is not present.
// Checking the interpreter on disk instead of VIRTUAL_ENV means the result is
// the same no matter what shell the operator runs from.
func (b *Bootstrapper) ensureVenv() error {
	if _, err := os.Stat(b.cfg.VenvPython()); err == nil {
		logger.Debug("[DEBUG] Virtualenv %s already present\n", b.cfg.Python.VenvDir)
		return nil
	}

	if b.dryRun {
		logger.Info("[DRY-RUN] Would create virtualenv: %s -m venv %s\n",
			b.cfg.Python.Interpreter, b.cfg.Python.VenvDir)
		return nil
	}

	logger.Info("[INFO] Creating virtualenv in %s\n", b.cfg.Python.VenvDir)
	output, err := b.execute(b.cfg.Python.Interpreter, "-m", "venv", b.cfg.Python.VenvDir)
	if err != nil {
		return fmt.Errorf("failed to create virtualenv: %w\nOutput: %s", err, output)
	}

	b.st.VenvCreated = true
	return nil
}

// ensureRequirements installs the pinned dependencies when the requirements
// file changed since the last recorded install. Pip's "already satisfied"
// noise is filtered out of the echoed output.
func (b *Bootstrapper) ensureRequirements() error {
	hash, err := hashFile(b.cfg.Python.Requirements)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", b.cfg.Python.Requirements, err)
	}

	if hash == b.st.RequirementsHash {
		logger.Info("[INFO] Dependencies are current. Skipping install.\n")
		return nil
	}

	if b.dryRun {
		logger.Info("[DRY-RUN] Would install dependencies: %s install -r %s\n",
			b.cfg.VenvPip(), b.cfg.Python.Requirements)
		return nil
	}

	logger.Info("[INFO] Installing dependencies from %s\n", b.cfg.Python.Requirements)
	output, err := b.execute(b.cfg.VenvPip(), "install", "-r", b.cfg.Python.Requirements)
	if err != nil {
		return fmt.Errorf("pip install failed: %w\nOutput: %s", err, output)
	}

	for _, line := range FilterPipOutput(string(output)) {
		logger.Debug("[DEBUG] pip: %s\n", line)
	}

	b.st.RequirementsHash = hash
	return nil
}

// RunPipeline invokes the analysis entrypoint inside the virtualenv,
// forwarding the validated flags unchanged and in order. The pipeline's
// stdout and stderr stream straight through to the operator.
func (b *Bootstrapper) RunPipeline(flags []string) error {
	argv := append([]string{b.cfg.Python.Entrypoint}, flags...)

	if b.dryRun {
		logger.Info("[DRY-RUN] Would run pipeline: %s %s\n",
			b.cfg.VenvPython(), strings.Join(argv, " "))
		return nil
	}

	logger.Info("[INFO] Running pipeline: %s %s\n", b.cfg.VenvPython(), strings.Join(argv, " "))

	cmd := exec.Command(b.cfg.VenvPython(), argv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	return nil
}

// FilterPipOutput drops pip's "already satisfied" lines and empty lines,
// keeping only output worth showing.
func FilterPipOutput(output string) []string {
	var kept []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.Contains(line, "already satisfied") {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// hashFile returns the hex sha256 of the file's contents.
func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
