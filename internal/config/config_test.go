package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig_Full(t *testing.T) {
	yaml := `
gc:
  root_stack_capacity: 32
  collect_every: 1
  strict: false
resolver:
  completion_limit: 10
  builtins: [print, len]
log:
  verbosity: 2
checkpoint:
  path: ":memory:"
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GC.RootStackCapacity != 32 {
		t.Errorf("root_stack_capacity = %d, want 32", cfg.GC.RootStackCapacity)
	}
	if cfg.GC.CollectEvery != StressCollectEvery {
		t.Errorf("collect_every = %d, want 1", cfg.GC.CollectEvery)
	}
	if cfg.GC.IsStrict() {
		t.Error("expected strict to be false")
	}
	if cfg.Resolver.CompletionLimit != 10 {
		t.Errorf("completion_limit = %d, want 10", cfg.Resolver.CompletionLimit)
	}
	if len(cfg.Resolver.Builtins) != 2 || cfg.Resolver.Builtins[1] != "len" {
		t.Errorf("builtins = %v, want [print len]", cfg.Resolver.Builtins)
	}
	if cfg.Log.Verbosity != 2 {
		t.Errorf("verbosity = %d, want 2", cfg.Log.Verbosity)
	}
	if cfg.Checkpoint.Path != MemoryCheckpointPath {
		t.Errorf("checkpoint.path = %q, want :memory:", cfg.Checkpoint.Path)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GC.RootStackCapacity != DefaultRootStackCapacity {
		t.Errorf("root_stack_capacity = %d, want %d", cfg.GC.RootStackCapacity, DefaultRootStackCapacity)
	}
	if cfg.GC.CollectEvery != DefaultCollectEvery {
		t.Errorf("collect_every = %d, want %d", cfg.GC.CollectEvery, DefaultCollectEvery)
	}
	if !cfg.GC.IsStrict() {
		t.Error("strict should default to true")
	}
	if cfg.Resolver.CompletionLimit != DefaultCompletionLimit {
		t.Errorf("completion_limit = %d, want %d", cfg.Resolver.CompletionLimit, DefaultCompletionLimit)
	}
	if cfg.Checkpoint.Path != DefaultCheckpointPath {
		t.Errorf("checkpoint.path = %q, want %q", cfg.Checkpoint.Path, DefaultCheckpointPath)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative capacity", "gc:\n  root_stack_capacity: -1\n"},
		{"negative collect_every", "gc:\n  collect_every: -5\n"},
		{"negative completion limit", "resolver:\n  completion_limit: -1\n"},
		{"negative verbosity", "log:\n  verbosity: -1\n"},
		{"malformed", "gc: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.yaml), "bad.yaml"); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestFindConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, ConfigFileName)
	if err := os.WriteFile(cfgPath, []byte("checkpoint:\n  path: state.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if found != cfgPath {
		t.Errorf("FindConfig = %q, want %q", found, cfgPath)
	}

	cfg, err := LoadNearest(nested)
	if err != nil {
		t.Fatalf("LoadNearest: %v", err)
	}
	want := filepath.Join(root, "state.db")
	if cfg.Checkpoint.Path != want {
		t.Errorf("checkpoint.path = %q, want %q", cfg.Checkpoint.Path, want)
	}
}

func TestLoadNearest_NoFile(t *testing.T) {
	cfg, err := LoadNearest(t.TempDir())
	if err != nil {
		t.Fatalf("LoadNearest: %v", err)
	}
	if cfg.GC.CollectEvery != DefaultCollectEvery {
		t.Errorf("expected defaults, got collect_every = %d", cfg.GC.CollectEvery)
	}
}
