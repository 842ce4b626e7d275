package pipeline

import (
	"github.com/funvibe/rootscope/internal/emit"
	"github.com/funvibe/rootscope/internal/frontend"
	"github.com/funvibe/rootscope/internal/utils"
)

// ParseProcessor parses the source into a script. An unnamed script takes
// its name from the file.
type ParseProcessor struct{}

func (p *ParseProcessor) Process(ctx *PipelineContext) *PipelineContext {
	script, err := frontend.Parse(ctx.Source, ctx.FilePath)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	if script.Module == "" {
		script.Module = utils.ExtractModuleName(ctx.FilePath)
	}
	ctx.Script = script
	return ctx
}

// ResolveProcessor runs the script through the resolver.
type ResolveProcessor struct{}

func (p *ResolveProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Script == nil {
		return ctx
	}
	if ctx.Loader == nil {
		ctx.Loader = frontend.NewSession(utils.GetModuleDir(ctx.FilePath), ctx.Builtins...)
	}
	res, err := frontend.Run(ctx.Loader, ctx.Script)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}
	ctx.Result = res
	return ctx
}

// EncodeProcessor encodes the function layouts for the emitter.
type EncodeProcessor struct{}

func (p *EncodeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	if ctx.Result == nil {
		return ctx
	}
	ctx.Encoded = emit.EncodeLayouts(ctx.Result.Layouts)
	return ctx
}
