package main

import (
	"fmt"
	"os"

	"github.com/funvibe/rootscope/internal/config"
	"github.com/funvibe/rootscope/internal/logging"
	"github.com/funvibe/rootscope/internal/lsp"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.LoadNearest(cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// stdout carries the protocol; commonlog writes to stderr or the configured file.
	logging.Configure(cfg.Log)

	if err := lsp.NewServer(cfg, cfg.Resolver.Builtins...).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
