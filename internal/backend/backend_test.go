package backend_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bloch-lang/bloch/internal/analyzer"
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/backend"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/pipeline"
	"github.com/google/uuid"
	"github.com/nalgeon/be"
)

func run(t *testing.T, src string, opts backend.Options) (*pipeline.PipelineContext, string) {
	t.Helper()
	var out bytes.Buffer
	ctx := pipeline.NewPipelineContext(src)
	ctx.FilePath = "test.bloch"
	ctx.Output = &out
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		backend.NewExecutionProcessor(backend.NewTreeWalk(opts)),
	).Run(ctx)
	return ctx, out.String()
}

func seed(n uint64) *uint64 { return &n }

func TestRunRecordsArtefacts(t *testing.T) {
	src := `@quantum
function one() -> bit {
    qubit q;
    x(q);
    return measure q;
}

function main() -> void {
    qubit spare;
    bit b = one();
    echo(b);
}
`
	ctx, out := run(t, src, backend.Options{Seed: seed(7), WarnUnmeasured: true})
	be.Equal(t, len(ctx.Errors), 0)
	be.Equal(t, out, "1\n")

	_, err := uuid.Parse(ctx.RunID)
	be.Err(t, err, nil)
	be.Equal(t, ctx.Seed, uint64(7))

	be.True(t, strings.Contains(ctx.Qasm, "qreg q[2];"))
	be.True(t, strings.Contains(ctx.Qasm, "x q[1];\nmeasure q[1] -> c[1];\n"))

	be.Equal(t, ctx.Measurements, []pipeline.Measurement{
		{Line: 5, Column: 12, Kind: "measure", Bit: 1},
		{Line: 10, Column: 13, Kind: "call", Bit: 1},
	})
	be.Equal(t, ctx.Qubits, []pipeline.QubitRecord{
		{Index: 0, Name: "spare", Measured: false},
		{Index: 1, Name: "q", Measured: true},
	})
	be.Equal(t, ctx.Unmeasured, []string{"spare"})
}

func TestUnmeasuredSweepIsOptional(t *testing.T) {
	ctx, _ := run(t, "function main() -> void { qubit q; h(q); }", backend.Options{Seed: seed(1)})
	be.Equal(t, len(ctx.Errors), 0)
	be.Equal(t, len(ctx.Unmeasured), 0)
	be.Equal(t, len(ctx.Qubits), 1)
}

func TestRuntimeErrorBecomesDiagnostic(t *testing.T) {
	src := "function half(int n) -> int {\n    return n / 0;\n}\n\nfunction main() -> void {\n    echo(half(4));\n}\n"
	ctx, out := run(t, src, backend.Options{Seed: seed(1)})

	be.Equal(t, out, "")
	be.Equal(t, len(ctx.Errors), 1)
	err := ctx.Errors[0]
	be.Equal(t, err.Code, diagnostics.ErrR001)
	be.Equal(t, err.File, "test.bloch")
	be.Equal(t, err.Token.Line, 2)
	be.Equal(t, err.Message, "division by zero\nStack trace:\n  at half (1:1)\n  at main (5:1)")
	be.Equal(t, ctx.Qasm, "")
}

func TestCapacityIsEnforced(t *testing.T) {
	ctx, _ := run(t, "function main() -> void { qubit a; qubit b; }", backend.Options{MaxQubits: 1})
	be.Equal(t, len(ctx.Errors), 1)
	be.Equal(t, ctx.Errors[0].Code, diagnostics.ErrR001)
	be.True(t, strings.Contains(ctx.Errors[0].Message, "cannot allocate qubit 'b'"))
}

func TestSkippedAfterEarlierFailure(t *testing.T) {
	ctx, out := run(t, "function main() -> void { echo(y); }", backend.Options{})
	be.Equal(t, len(ctx.Errors), 1)
	be.Equal(t, ctx.Errors[0].Code, diagnostics.ErrA001)
	be.Equal(t, ctx.RunID, "")
	be.Equal(t, out, "")
}

func TestSameSeedSameOutcome(t *testing.T) {
	src := `function main() -> void {
    for (int i = 0; i < 8; i = i + 1) {
        qubit q;
        h(q);
        bit b = measure q;
        echo(b);
    }
}
`
	_, first := run(t, src, backend.Options{Seed: seed(99), MaxQubits: 8})
	_, second := run(t, src, backend.Options{Seed: seed(99), MaxQubits: 8})
	be.Equal(t, first, second)
}

type failingBackend struct{}

func (failingBackend) Run(*pipeline.PipelineContext) (*backend.Result, error) {
	return nil, errors.New("backend unavailable")
}
func (failingBackend) Name() string { return "failing" }

func TestPlainErrorHasNoPosition(t *testing.T) {
	ctx := pipeline.NewPipelineContext("")
	ctx.AstRoot = parseOK(t, "function main() -> void { }")
	backend.NewExecutionProcessor(failingBackend{}).Process(ctx)

	be.Equal(t, len(ctx.Errors), 1)
	be.Equal(t, ctx.Errors[0].Message, "backend unavailable")
	be.Equal(t, ctx.Errors[0].Token.Line, 0)
}

func TestName(t *testing.T) {
	be.Equal(t, backend.NewTreeWalk(backend.Options{}).Name(), "tree-walk")
}

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(pipeline.NewPipelineContext(src))
	if ctx.Failed() {
		t.Fatalf("parse failed: %v", ctx.Errors[0])
	}
	return ctx.AstRoot
}
