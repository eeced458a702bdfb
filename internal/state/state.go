package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"os"            // For file system operations like reading and writing files

	"rail-pipeline/internal/logger"
)

// State records what the bootstrapper has already done, so repeated runs are
// idempotent without inspecting ambient shell state like VIRTUAL_ENV.
// - VenvCreated: the virtualenv was created by this tool.
// - RequirementsHash: sha256 of the requirements file last installed; pip is
//   only re-invoked when the pinned dependencies actually change.
type State struct {
	VenvCreated      bool   `json:"venv_created"`
	RequirementsHash string `json:"requirements_hash"`
}

// Load reads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be read, it returns a new empty State,
// which makes the first run do the full environment setup.
func Load(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		// File missing or unreadable: behave as if nothing was set up yet.
		return &State{}
	}

	var st State
	_ = json.Unmarshal(file, &st)
	return &st
}

// Save writes the given State to a JSON file at the given path.
// It pretty-prints the JSON with indentation for readability.
// Errors during marshalling or writing are logged but not propagated: a lost
// state file only costs a redundant pip run next time.
func Save(path string, st *State) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.WriteFile(path, file, 0644); err != nil {
		logger.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}
