package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the pipeline config file looked up when --config is not given.
const DefaultPath = "pipeline.yaml"

// StationFileName is the protected station dataset inside the data directory.
// It is expensive to rebuild (scraped train traffic counts), so bulk dataset
// deletion skips it unless asked for explicitly.
const StationFileName = "stations.csv"

// Python groups everything needed to bootstrap and invoke the analysis program.
// - Interpreter: system python used to create the virtualenv.
// - VenvDir: virtualenv location, created on first run.
// - Requirements: pinned dependency file installed into the venv.
// - Entrypoint: the pipeline script that validated flags are forwarded to.
type Python struct {
	Interpreter  string `yaml:"interpreter"`
	VenvDir      string `yaml:"venv_dir"`
	Requirements string `yaml:"requirements"`
	Entrypoint   string `yaml:"entrypoint"`
}

// Publish describes what the remote publisher ships and where it lands.
// Files and Dirs are local artifacts that must all exist before any remote
// call is made; WebRoot is the server directory the staging copy is
// mirror-synced into.
type Publish struct {
	WebRoot string   `yaml:"web_root"`
	Files   []string `yaml:"files"`
	Dirs    []string `yaml:"dirs"`
}

// Config is the top-level structure returned after loading pipeline.yaml.
type Config struct {
	OutputRoot string  `yaml:"output_root"`
	EnvFile    string  `yaml:"env_file"`
	StateFile  string  `yaml:"state_file"`
	Python     Python  `yaml:"python"`
	Publish    Publish `yaml:"publish"`
}

// Default returns the built-in configuration matching the study's repository
// layout. Used verbatim when no pipeline.yaml is present.
func Default() Config {
	return Config{
		OutputRoot: "output",
		EnvFile:    ".env",
		StateFile:  "state.json",
		Python: Python{
			Interpreter:  "python3",
			VenvDir:      ".venv",
			Requirements: "requirements.txt",
			Entrypoint:   "main.py",
		},
		Publish: Publish{
			WebRoot: "/var/www/html",
			Files: []string{
				filepath.Join("output", "data", "main.csv"),
				filepath.Join("web", "index.html"),
			},
			Dirs: []string{
				filepath.Join("output", "maps"),
				filepath.Join("output", "figures"),
			},
		},
	}
}

// Load reads the pipeline config from the given path. A missing file at the
// default path falls back to Default(); any other read or parse failure
// panics, since nothing sensible can run without a valid config.
func Load(path string) Config {
	if path == "" {
		path = DefaultPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
			return Default()
		}
		panic("Failed to read " + path + ": " + err.Error())
	}

	// The file holds a single top-level `pipeline:` key, mirroring how the
	// rest of the repo namespaces its YAML documents.
	wrapper := struct {
		Pipeline Config `yaml:"pipeline"`
	}{Pipeline: Default()}

	if err := yaml.Unmarshal(raw, &wrapper); err != nil {
		panic("Failed to unmarshal " + path + ": " + err.Error())
	}

	return wrapper.Pipeline
}

// DataDir is the dataset subtree under the output root.
func (c Config) DataDir() string {
	return filepath.Join(c.OutputRoot, "data")
}

// MapsDir holds the generated HTML choropleth maps.
func (c Config) MapsDir() string {
	return filepath.Join(c.OutputRoot, "maps")
}

// StationFile is the full path of the protected station dataset.
func (c Config) StationFile() string {
	return filepath.Join(c.DataDir(), StationFileName)
}

// VenvPython is the interpreter inside the managed virtualenv.
func (c Config) VenvPython() string {
	return filepath.Join(c.Python.VenvDir, "bin", "python")
}

// VenvPip is the pip executable inside the managed virtualenv.
func (c Config) VenvPip() string {
	return filepath.Join(c.Python.VenvDir, "bin", "pip")
}
