// Package config holds project-wide constants and the rootscope.yaml loader.
//
// The configuration covers the three tunable parts of the runtime core:
//   - the collector (root stack capacity, collection frequency, strict checks)
//   - the resolver (completion limits for interactive tooling)
//   - logging and checkpoint storage
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level rootscope.yaml configuration.
type Config struct {
	GC         GCConfig         `yaml:"gc"`
	Resolver   ResolverConfig   `yaml:"resolver"`
	Log        LogConfig        `yaml:"log"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
}

// GCConfig tunes the heap and its root protocol checks. It is passed to
// gc.NewHeap by every embedder that builds a runtime, including the
// rootscope array command.
type GCConfig struct {
	// RootStackCapacity is the initial capacity of the root stack.
	// The stack grows on demand; this only avoids early reallocation.
	RootStackCapacity int `yaml:"root_stack_capacity"`

	// CollectEvery is the number of allocations between automatic collections.
	// 1 collects on every allocation ("stress mode"), which is how missing
	// roots are found in tests.
	CollectEvery int `yaml:"collect_every"`

	// Strict enables the debug-build protocol checks: guard depth
	// verification on release and poisoning of swept objects.
	Strict *bool `yaml:"strict,omitempty"`
}

// ResolverConfig tunes the scope resolver's tooling surface.
type ResolverConfig struct {
	// CompletionLimit bounds the number of names returned per completion request.
	CompletionLimit int `yaml:"completion_limit"`

	// Builtins are declared in the outermost scope of every compilation unit.
	Builtins []string `yaml:"builtins,omitempty"`
}

// LogConfig configures commonlog.
type LogConfig struct {
	// Verbosity is passed to commonlog.Configure (0 = errors only).
	Verbosity int `yaml:"verbosity"`

	// File is the log file path. Empty logs to stderr.
	File string `yaml:"file,omitempty"`
}

// CheckpointConfig locates the counter checkpoint database.
type CheckpointConfig struct {
	// Path is the sqlite database path, relative to the config file.
	// ":memory:" keeps checkpoints for the life of the process only.
	Path string `yaml:"path"`
}

// Default returns the configuration used when no rootscope.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// IsStrict reports whether strict protocol checks are enabled (default true).
func (g GCConfig) IsStrict() bool {
	if g.Strict == nil {
		return true
	}
	return *g.Strict
}

// LoadConfig reads and parses a rootscope.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// ParseConfig parses rootscope.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for rootscope.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// LoadNearest loads the nearest rootscope.yaml above dir, or the defaults.
func LoadNearest(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return LoadConfig(path)
}

// validate checks the configuration for semantic errors.
// Zero values are allowed everywhere; they are replaced by defaults.
func (c *Config) validate(path string) error {
	if c.GC.RootStackCapacity < 0 {
		return fmt.Errorf("%s: gc.root_stack_capacity must not be negative (got %d)", path, c.GC.RootStackCapacity)
	}
	if c.GC.CollectEvery < 0 {
		return fmt.Errorf("%s: gc.collect_every must not be negative (got %d)", path, c.GC.CollectEvery)
	}
	if c.Resolver.CompletionLimit < 0 {
		return fmt.Errorf("%s: resolver.completion_limit must not be negative (got %d)", path, c.Resolver.CompletionLimit)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("%s: log.verbosity must not be negative (got %d)", path, c.Log.Verbosity)
	}
	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.GC.RootStackCapacity == 0 {
		c.GC.RootStackCapacity = DefaultRootStackCapacity
	}
	if c.GC.CollectEvery == 0 {
		c.GC.CollectEvery = DefaultCollectEvery
	}
	if c.Resolver.CompletionLimit == 0 {
		c.Resolver.CompletionLimit = DefaultCompletionLimit
	}
	if c.Checkpoint.Path == "" {
		c.Checkpoint.Path = DefaultCheckpointPath
	}
}

// resolvePaths makes relative paths relative to the config file's directory.
func (c *Config) resolvePaths(dir string) {
	if c.Checkpoint.Path != MemoryCheckpointPath && !filepath.IsAbs(c.Checkpoint.Path) {
		c.Checkpoint.Path = filepath.Join(dir, c.Checkpoint.Path)
	}
	if c.Log.File != "" && !filepath.IsAbs(c.Log.File) {
		c.Log.File = filepath.Join(dir, c.Log.File)
	}
}
