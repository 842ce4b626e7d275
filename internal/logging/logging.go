// Package logging configures commonlog for the rootscope tools.
package logging

import (
	"github.com/tliron/commonlog"

	"github.com/funvibe/rootscope/internal/config"

	_ "github.com/tliron/commonlog/simple"
)

// Configure sets up the commonlog backend from the log section of the config.
// It is called once by each entry point before any logger is used.
func Configure(cfg config.LogConfig) {
	var path *string
	if cfg.File != "" {
		file := cfg.File
		path = &file
	}
	commonlog.Configure(cfg.Verbosity, path)
}

// Get returns the named logger. Names follow the config.Log* constants.
func Get(name string) commonlog.Logger {
	return commonlog.GetLogger(name)
}
