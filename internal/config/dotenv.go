package config

import (
	"fmt"

	"github.com/joho/godotenv"
)

// DeployEnv holds the remote deployment parameters read from the dotenv file.
// All three values are required before the publisher makes any remote call.
type DeployEnv struct {
	VMName    string // name of the cloud VM instance
	ProjectID string // cloud project the instance lives in
	Zone      string // compute zone of the instance
}

// LoadDeployEnv parses KEY=VALUE lines from the given dotenv file, ignoring
// comment lines, and validates that every required key is set. The returned
// error names the first missing key so the operator knows exactly what to fix.
func LoadDeployEnv(path string) (DeployEnv, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return DeployEnv{}, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	env := DeployEnv{
		VMName:    values["VM_NAME"],
		ProjectID: values["PROJECT_ID"],
		Zone:      values["ZONE"],
	}

	required := []struct {
		key   string
		value string
	}{
		{"VM_NAME", env.VMName},
		{"PROJECT_ID", env.ProjectID},
		{"ZONE", env.Zone},
	}
	for _, r := range required {
		if r.value == "" {
			return DeployEnv{}, fmt.Errorf("%s is not set in %s", r.key, path)
		}
	}

	return env, nil
}
