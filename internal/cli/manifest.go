package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes one verification run: which interface document to
// check, against which rules, and whether to record the run. Command
// line flags override manifest values.
type Manifest struct {
	// Interface is the path to the JSON interface document.
	Interface string `yaml:"interface"`

	// Rules is the path to the CUE rule document (file or directory).
	Rules string `yaml:"rules"`

	// DB is the optional history database path.
	DB string `yaml:"db,omitempty"`

	// Record enables writing this run to the history database.
	Record bool `yaml:"record,omitempty"`
}

// LoadManifest reads and parses a parity.yaml run manifest. Relative
// paths inside the manifest resolve against the manifest's directory.
// Unknown fields are rejected so typos surface as errors.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if manifest.Interface == "" {
		return nil, fmt.Errorf("invalid manifest: interface path is required")
	}
	if manifest.Rules == "" {
		return nil, fmt.Errorf("invalid manifest: rules path is required")
	}

	base := filepath.Dir(path)
	manifest.Interface = resolvePath(base, manifest.Interface)
	manifest.Rules = resolvePath(base, manifest.Rules)
	if manifest.DB != "" {
		manifest.DB = resolvePath(base, manifest.DB)
	}

	return &manifest, nil
}

func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
