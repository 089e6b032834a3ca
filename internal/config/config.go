// Package config loads the whitelist, blacklist and exclude patterns from
// a JSON, YAML or TOML file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ethanolivertroy/validpack/internal/models"
)

// ErrUnsupportedFormat is returned for config files with an unknown extension
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Load reads the configuration at path, choosing the decoder by file
// extension. On any failure it returns an empty Configuration together
// with the error, so callers can log it and carry on.
func Load(path string) (models.Configuration, error) {
	var cfg models.Configuration

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Configuration{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := decode(path, data, &cfg); err != nil {
		return models.Configuration{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *models.Configuration) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Example returns the sample configuration written by WriteExample
func Example() models.Configuration {
	return models.Configuration{
		Whitelist: []string{"internal-company-package", "my-private-package"},
		Blacklist: []string{"Newtonsoft.Json", "moment"},
		Exclude:   []string{"test-projects/**", "samples/**"},
	}
}

// WriteExample writes the sample configuration to path in the format
// implied by its extension
func WriteExample(path string) error {
	cfg := Example()

	var (
		data []byte
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		data = buf.Bytes()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode example config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
