package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type step struct {
	Op    string `yaml:"op" toml:"op" mapstructure:"op"`
	Path  string `yaml:"path" toml:"path" mapstructure:"path"`
	Value any    `yaml:"value" toml:"value" mapstructure:"value"`
}

// readFile decodes a YAML or TOML file into a generic map.
func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read failed (%s): %w", path, err)
	}

	out := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	case ".toml":
		err = toml.Unmarshal(data, &out)
	default:
		err = fmt.Errorf("unsupported extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse failed (%s): %w", path, err)
	}

	return out, nil
}

// readScript reads the "steps" list of a script file.
func readScript(path string) ([]step, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var script struct {
		Steps []step `mapstructure:"steps"`
	}
	if err := mapstructure.Decode(raw, &script); err != nil {
		return nil, fmt.Errorf("parse failed (%s): %w", path, err)
	}

	for i, s := range script.Steps {
		switch s.Op {
		case opSet, opAppend, opDelete:
		default:
			return nil, fmt.Errorf("step %d: unknown op %q", i+1, s.Op)
		}
	}

	return script.Steps, nil
}

// splitPath turns "friends/0/id" into its keys. The empty path is the root.
func splitPath(path string) []string {
	var keys []string
	for _, k := range strings.Split(path, "/") {
		if k != "" {
			keys = append(keys, k)
		}
	}

	return keys
}
