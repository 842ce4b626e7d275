// Package pipeline chains the stages that turn a scope script into
// resolved references and encoded layouts. Every stage runs even after an
// earlier one failed, skipping itself when its input is missing, so tools
// collect every diagnostic a document produces.
package pipeline

// Processor is one stage of a pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Default is parse, resolve, encode.
func Default() *Pipeline {
	return New(&ParseProcessor{}, &ResolveProcessor{}, &EncodeProcessor{})
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages.
	}
	return ctx
}
