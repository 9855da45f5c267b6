package envboot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the optional on-disk form of the dependency configuration,
// for projects that prefer a committed file over CI environment variables:
//
//	manager: pip
//	python: "3.11"
//	deps: [requests, numpy>=1.18]
//	test_deps: [pytest]
//	channels: [conda-forge]
type Manifest struct {
	Manager  string   `yaml:"manager"`
	Python   string   `yaml:"python"`
	Deps     []string `yaml:"deps"`
	TestDeps []string `yaml:"test_deps"`
	Channels []string `yaml:"channels"`
}

// LoadManifest reads and parses a YAML manifest. Unknown keys are an error,
// so a typoed "test-deps" fails loudly instead of being silently ignored.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("envboot: opening manifest: %w", err)
	}
	defer f.Close()
	return parseManifest(f, path)
}

func parseManifest(r io.Reader, path string) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &Manifest{}, nil // empty manifest
		}
		return nil, fmt.Errorf("envboot: parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// ApplyDefaults fills cfg fields that are still unset from the manifest.
// Explicit configuration (environment variables, CLI flags) wins: only
// empty dependency lists, an empty PythonVersion, and empty Channels are
// taken from the manifest. The manager key is left to the caller, which
// knows whether the manager was set explicitly.
func (m *Manifest) ApplyDefaults(cfg *Config) {
	if len(cfg.RuntimeDeps) == 0 && len(m.Deps) > 0 {
		cfg.RuntimeDeps = append([]string(nil), m.Deps...)
	}
	if len(cfg.TestDeps) == 0 && len(m.TestDeps) > 0 {
		cfg.TestDeps = append([]string(nil), m.TestDeps...)
	}
	if cfg.PythonVersion == "" {
		cfg.PythonVersion = m.Python
	}
	if len(cfg.Channels) == 0 && len(m.Channels) > 0 {
		cfg.Channels = append([]string(nil), m.Channels...)
	}
}
