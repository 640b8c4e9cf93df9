package backend

import (
	"errors"

	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/evaluator"
	"github.com/bloch-lang/bloch/internal/pipeline"
	"github.com/bloch-lang/bloch/internal/token"
	"github.com/google/uuid"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.AstRoot == nil || ctx.Failed() {
		return ctx
	}

	ctx.RunID = uuid.NewString()

	result, err := p.Backend.Run(ctx)
	if err != nil {
		p.handleError(ctx, err)
		return ctx
	}

	ctx.Seed = result.Seed
	ctx.Qasm = result.Qasm
	ctx.Measurements = result.Measurements
	ctx.Qubits = make([]pipeline.QubitRecord, len(result.Qubits))
	for i, q := range result.Qubits {
		ctx.Qubits[i] = pipeline.QubitRecord{Index: i, Name: q.Name, Measured: q.Measured}
	}
	ctx.Unmeasured = nil
	for _, q := range result.Unmeasured {
		ctx.Unmeasured = append(ctx.Unmeasured, q.Name)
	}
	return ctx
}

func (p *ExecutionProcessor) handleError(ctx *pipeline.PipelineContext, err error) {
	var rerr *evaluator.RuntimeError
	if !errors.As(err, &rerr) {
		// Location is missing for errors raised outside the evaluator
		ctx.AddError(diagnostics.NewError(diagnostics.ErrR001, token.Token{}, "%s", err.Error()))
		return
	}

	msg := rerr.Message
	if trace := rerr.Trace(); trace != "" {
		msg += "\n" + trace
	}
	ctx.AddError(diagnostics.NewError(diagnostics.ErrR001, rerr.Token, "%s", msg))
}
