package lexer

import "github.com/bloch-lang/bloch/internal/pipeline"

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Failed() {
		return ctx
	}
	tokens, err := New(ctx.SourceCode).Tokenize()
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.TokenStream = tokens
	return ctx
}
