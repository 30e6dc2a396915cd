// Package config loads the optional qbridge TOML config file.
//
// Keys present in the file override the defaults; command-line flags the
// user set explicitly override both (see cli).
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/roach88/qbridge/internal/circuit"
	"github.com/roach88/qbridge/internal/importer"
)

// DefaultPath is the config file looked up in the working directory when
// --config is not given.
const DefaultPath = "qbridge.toml"

// Config holds the settings a qbridge command runs with.
type Config struct {
	Namespace        string
	LibraryNamespace string
	DB               string
	Format           string
}

type fileConfig struct {
	Namespace        string `toml:"namespace"`
	LibraryNamespace string `toml:"library_namespace"`
	DB               string `toml:"db"`
	Format           string `toml:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Namespace:        circuit.DefaultNamespace,
		LibraryNamespace: importer.DefaultLibraryNamespace,
		DB:               "qbridge.db",
		Format:           "text",
	}
}

// Load overlays the file at path onto Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("namespace") {
		cfg.Namespace = strings.TrimSpace(raw.Namespace)
	}
	if meta.IsDefined("library_namespace") {
		cfg.LibraryNamespace = strings.TrimSpace(raw.LibraryNamespace)
	}
	if meta.IsDefined("db") {
		cfg.DB = strings.TrimSpace(raw.DB)
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.TrimSpace(raw.Format)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func Validate(cfg Config) error {
	if cfg.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if cfg.LibraryNamespace == "" {
		return fmt.Errorf("library_namespace must not be empty")
	}
	if cfg.DB == "" {
		return fmt.Errorf("db must not be empty")
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return fmt.Errorf("format %q must be text or json", cfg.Format)
	}
	return nil
}
