// Package config loads the optional vesuvius.yaml project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/lhaig/vesuvius/internal/constraint"
	"github.com/lhaig/vesuvius/internal/diagnostic"
)

// FileName is the name of the project file looked up next to the input
const FileName = "vesuvius.yaml"

// Config represents the top-level vesuvius.yaml configuration.
type Config struct {
	Project Project `yaml:"project"`
	Verify  Verify  `yaml:"verify"`
	Output  Output  `yaml:"output"`
}

// Project describes the program being checked.
type Project struct {
	// Name is the root scope name and the first segment of the entry point
	// path. Defaults to the stem of the input file.
	Name string `yaml:"name,omitempty"`

	// Version is a semantic version such as "v1.2.0". The leading v may be
	// omitted.
	Version string `yaml:"version,omitempty"`
}

// Verify tunes the verifier.
type Verify struct {
	// MaxEnumerated bounds how many ranges a numeric constraint may hold
	// before it is widened. Defaults to 64.
	MaxEnumerated int `yaml:"max_enumerated,omitempty"`

	// WarningsAsErrors promotes every warning to an error.
	WarningsAsErrors bool `yaml:"warnings_as_errors,omitempty"`
}

// Output controls how notes are rendered.
type Output struct {
	// Color is one of auto, always or never. Defaults to auto.
	Color string `yaml:"color,omitempty"`
}

// Default returns the configuration used when no project file exists
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses a vesuvius.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses vesuvius.yaml content from bytes.
// The path argument is used only for error messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// an empty file decodes to io.EOF and means all defaults
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Find returns the path of the project file next to the input file, or ""
// if there is none
func Find(inputPath string) (string, error) {
	dir, err := filepath.Abs(filepath.Dir(inputPath))
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for _, name := range []string{FileName, "vesuvius.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// ForInput loads the configuration for inputPath: explicit if set, else the
// project file next to the input, else the defaults. A missing project name
// is taken from the input file stem.
func ForInput(inputPath, explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		found, err := Find(inputPath)
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cfg.Project.Name == "" {
		cfg.Project.Name = Stem(inputPath)
	}
	return cfg, nil
}

// Stem returns the file name of path without directory or extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if name := c.Project.Name; name != "" && !isIdentifier(name) {
		return fmt.Errorf("%s: project.name %q is not a valid identifier", path, name)
	}
	if v := c.Project.Version; v != "" && !semver.IsValid(canonicalVersion(v)) {
		return fmt.Errorf("%s: project.version %q is not a semantic version", path, v)
	}
	if c.Verify.MaxEnumerated < 0 {
		return fmt.Errorf("%s: verify.max_enumerated must be positive, got %d", path, c.Verify.MaxEnumerated)
	}
	if c.Output.Color != "" {
		if _, err := diagnostic.ParseColorMode(c.Output.Color); err != nil {
			return fmt.Errorf("%s: output.color: %w", path, err)
		}
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Verify.MaxEnumerated == 0 {
		c.Verify.MaxEnumerated = constraint.DefaultLimit
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
}

// ColorMode returns the parsed output.color setting
func (c *Config) ColorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(c.Output.Color)
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

// IsUnstable reports whether the project version is a pre-release or below
// v1.0.0. An empty version is not unstable.
func (c *Config) IsUnstable() bool {
	if c.Project.Version == "" {
		return false
	}
	v := canonicalVersion(c.Project.Version)
	return semver.Prerelease(v) != "" || semver.Major(v) == "v0"
}

// Check queues notes about the configuration itself
func (c *Config) Check(notes *diagnostic.Queue) {
	if c.IsUnstable() {
		notes.Enqueue(diagnostic.Warning, diagnostic.UnstableVersion, diagnostic.Always,
			diagnostic.Text("project version %s is not a stable release", c.Project.Version))
	}
}

func canonicalVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
