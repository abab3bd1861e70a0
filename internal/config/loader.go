package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadResult is a loaded config plus where it came from.
type LoadResult struct {
	Config *Config
	Path   string
	// Exists is false when Path was missing and defaults were used.
	Exists bool
}

// DefaultConfigPath returns ~/.config/winpick/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "winpick", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads the configuration from the standard location and
// reports the file it used.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path over the defaults. A missing file is not an error.
func LoadFromPath(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &LoadResult{Config: DefaultConfig(), Path: path}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := decodeStrictYAML(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, path, data)
	}

	return &LoadResult{Config: cfg, Path: path, Exists: true}, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func normalize(cfg *Config) {
	if strings.TrimSpace(string(cfg.Host)) == "" {
		cfg.Host = HostAuto
	}
	cfg.Host = HostMode(strings.ToLower(strings.TrimSpace(string(cfg.Host))))
	if strings.TrimSpace(string(cfg.Frontend)) == "" {
		cfg.Frontend = FrontendTUI
	}
	cfg.Frontend = Frontend(strings.ToLower(strings.TrimSpace(string(cfg.Frontend))))
	if strings.TrimSpace(cfg.PaletteBackend) == "" {
		cfg.PaletteBackend = "auto"
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

// attachSourceContext adds file:line to validation errors when the key can be
// located in the YAML document.
func attachSourceContext(err error, path string, data []byte) error {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	var root yaml.Node
	if yaml.Unmarshal(data, &root) != nil {
		return err
	}
	if line := findLine(&root, verr.Path); line > 0 {
		verr.File = path
		verr.Line = line
	}
	return verr
}

// findLine returns the line of the value at a dotted YAML path, or 0.
func findLine(node *yaml.Node, path string) int {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	parts := strings.Split(path, ".")
	for i, part := range parts {
		if node.Kind != yaml.MappingNode {
			return 0
		}
		var next *yaml.Node
		for j := 0; j+1 < len(node.Content); j += 2 {
			if node.Content[j].Value == part {
				next = node.Content[j+1]
				break
			}
		}
		if next == nil {
			return 0
		}
		if i == len(parts)-1 {
			return next.Line
		}
		node = next
	}
	return 0
}
