package analyzer

import "github.com/bloch-lang/bloch/internal/pipeline"

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() || ctx.AstRoot == nil {
		return ctx
	}

	if err := New().Analyze(ctx.AstRoot); err != nil {
		ctx.AddError(err)
	}
	return ctx
}
