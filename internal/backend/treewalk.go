package backend

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/evaluator"
	"github.com/bloch-lang/bloch/internal/pipeline"
	"github.com/bloch-lang/bloch/internal/qsim"
)

// Options configures a TreeWalkBackend.
type Options struct {
	// Seed fixes the simulator RNG. Nil picks a random seed per run.
	Seed *uint64

	// MaxQubits caps the simulator. Zero means qsim.DefaultMaxQubits.
	MaxQubits int

	// WarnUnmeasured runs the unmeasured-qubit sweep after a successful run.
	WarnUnmeasured bool

	Logger  *slog.Logger
	Context context.Context
}

// TreeWalkBackend runs the evaluator directly over the AST against a fresh
// state-vector simulator. Each Run gets its own simulator.
type TreeWalkBackend struct {
	opts Options
}

func NewTreeWalk(opts Options) *TreeWalkBackend {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &TreeWalkBackend{opts: opts}
}

func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (*Result, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no AST to execute")
	}

	seed := rand.Uint64()
	if b.opts.Seed != nil {
		seed = *b.opts.Seed
	}
	sim := qsim.New(qsim.Options{MaxQubits: b.opts.MaxQubits, Seed: seed})

	eval := evaluator.New(sim)
	eval.Logger = b.opts.Logger
	eval.Context = b.opts.Context
	if ctx.Output != nil {
		eval.Out = ctx.Output
	} else {
		eval.Out = os.Stdout
	}

	if err := eval.Execute(ctx.AstRoot); err != nil {
		return nil, err
	}

	result := &Result{
		Seed:         seed,
		Qasm:         eval.Qasm(),
		Measurements: flattenMeasurements(eval.Measurements()),
		Qubits:       eval.Qubits(),
	}
	if b.opts.WarnUnmeasured {
		result.Unmeasured = eval.WarnUnmeasured()
	}
	return result, nil
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}

// flattenMeasurements turns the expression-keyed trace into records ordered
// by source position.
func flattenMeasurements(trace map[ast.Expression]int) []pipeline.Measurement {
	out := make([]pipeline.Measurement, 0, len(trace))
	for expr, bit := range trace {
		kind := "measure"
		if _, ok := expr.(*ast.CallExpression); ok {
			kind = "call"
		}
		tok := expr.GetToken()
		out = append(out, pipeline.Measurement{Line: tok.Line, Column: tok.Column, Kind: kind, Bit: bit})
	}
	slices.SortFunc(out, func(a, b pipeline.Measurement) int {
		return cmp.Or(
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Kind, b.Kind),
		)
	})
	return out
}
