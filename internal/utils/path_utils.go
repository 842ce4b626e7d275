package utils

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/rootscope/internal/config"
)

// ExtractModuleName derives a module name from a script path: the base
// file name without the script extension.
func ExtractModuleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), config.ScriptExt)
}

// GetModuleDir returns the directory imports of a module path are loaded
// from. A script path yields its directory; any other path is a directory.
func GetModuleDir(path string) string {
	if strings.HasSuffix(path, config.ScriptExt) {
		return filepath.Dir(path)
	}
	return path
}

// URIToPath strips the file:// scheme editors send.
func URIToPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
