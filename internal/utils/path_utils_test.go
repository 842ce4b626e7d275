package utils

import (
	"path/filepath"
	"testing"
)

func TestExtractModuleName(t *testing.T) {
	tests := map[string]string{
		"lib.yaml":                   "lib",
		filepath.Join("a", "b.yaml"): "b",
		"noext":                      "noext",
	}
	for path, want := range tests {
		if got := ExtractModuleName(path); got != want {
			t.Errorf("ExtractModuleName(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestGetModuleDir(t *testing.T) {
	if got := GetModuleDir(filepath.Join("proj", "main.yaml")); got != "proj" {
		t.Errorf("script path gave %q", got)
	}
	if got := GetModuleDir("proj"); got != "proj" {
		t.Errorf("directory gave %q", got)
	}
}

func TestURIToPath(t *testing.T) {
	if got := URIToPath("file:///tmp/x.yaml"); got != "/tmp/x.yaml" {
		t.Errorf("got %q", got)
	}
	if got := URIToPath("untitled:1"); got != "untitled:1" {
		t.Errorf("non-file uri changed to %q", got)
	}
}
