// Package config loads the optional YAML configuration file.
//
// Precedence, lowest to highest: built-in defaults, config file,
// command-line flags. A missing config file is not an error.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/myfox/dedup/internal/fingerprint"
	"github.com/myfox/dedup/internal/store"
)

// DefaultFile is the config filename probed in the working directory
// when --config is not given.
const DefaultFile = ".dedup.yaml"

// Config is the file-level configuration.
//
// Hash picks the digest algorithm ("xxhash" or "sha256"). An index
// built with one algorithm cannot be meaningfully queried with records
// from another; rebuild the index after changing it.
type Config struct {
	Database    string   `yaml:"database"`
	Hash        string   `yaml:"hash"`
	ChunkSize   int      `yaml:"chunk_size"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:    store.DefaultPath,
		Hash:        "xxhash",
		ChunkSize:   fingerprint.DefaultChunkSize,
		ExcludeDirs: []string{".git", "node_modules"},
	}
}

// Load reads the config file at path, filling unset fields from
// Default. If path is empty, DefaultFile is probed; a probe miss (or a
// missing explicit path) yields the defaults rather than an error.
func Load(fsys afero.Fs, path string) (Config, error) {
	cfg := Default()

	probe := path
	if probe == "" {
		probe = DefaultFile
	}

	data, err := afero.ReadFile(fsys, probe)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", probe, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", probe, err)
	}

	if fileCfg.Database != "" {
		cfg.Database = fileCfg.Database
	}
	if fileCfg.Hash != "" {
		cfg.Hash = fileCfg.Hash
	}
	if fileCfg.ChunkSize > 0 {
		cfg.ChunkSize = fileCfg.ChunkSize
	}
	if fileCfg.ExcludeDirs != nil {
		cfg.ExcludeDirs = fileCfg.ExcludeDirs
	}

	if _, err := fingerprint.New(cfg.Hash, cfg.ChunkSize); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", probe, err)
	}
	return cfg, nil
}
