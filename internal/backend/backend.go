// Package backend executes analysed programs and copies the run artefacts
// into the pipeline context.
package backend

import (
	"github.com/bloch-lang/bloch/internal/evaluator"
	"github.com/bloch-lang/bloch/internal/pipeline"
)

// Result is what a successful run leaves behind.
type Result struct {
	Seed         uint64
	Qasm         string
	Measurements []pipeline.Measurement
	Qubits       []evaluator.TrackedQubit

	// Unmeasured is only filled when the backend is configured to sweep
	// for qubits that were never measured.
	Unmeasured []evaluator.TrackedQubit
}

// Backend is the interface for execution backends
type Backend interface {
	// Run executes ctx.AstRoot. Echo output goes to ctx.Output.
	Run(ctx *pipeline.PipelineContext) (*Result, error)

	// Name returns the backend name for display
	Name() string
}
