package pipeline

import (
	"github.com/funvibe/rootscope/internal/frontend"
	"github.com/funvibe/rootscope/internal/modules"
)

// PipelineContext carries a document through the stages.
type PipelineContext struct {
	FilePath string
	Source   []byte
	Builtins []string

	// Loader is the compilation unit the document resolves in. When nil,
	// ResolveProcessor starts a session loading imports next to FilePath.
	Loader *modules.Loader

	Script  *frontend.Script
	Result  *frontend.Result
	Encoded []byte

	Errors []error
}

func NewPipelineContext(path string, source []byte) *PipelineContext {
	return &PipelineContext{FilePath: path, Source: source}
}

// Failed reports whether any stage recorded an error.
func (c *PipelineContext) Failed() bool {
	return len(c.Errors) > 0
}
