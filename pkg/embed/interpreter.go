// Package bloch embeds the Bloch interpreter in Go programs.
package bloch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bloch-lang/bloch/internal/analyzer"
	"github.com/bloch-lang/bloch/internal/backend"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/pipeline"
)

// Options configures an Interpreter. The zero value runs with a random seed
// and the default qubit limit.
type Options struct {
	Seed           *uint64
	MaxQubits      int
	WarnUnmeasured bool
	// Output additionally receives echo output as it is produced.
	Output io.Writer
	Logger *slog.Logger
}

// Measurement is one recorded measurement outcome.
type Measurement = pipeline.Measurement

// Result holds the artefacts of a successful run.
type Result struct {
	RunID        string
	Seed         uint64
	Output       string
	Qasm         string
	Measurements []Measurement
	Unmeasured   []string
}

// Diagnostic is a single compile or runtime error.
type Diagnostic struct {
	Code    string
	File    string
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: [%s] %s", d.File, d.Line, d.Column, d.Code, d.Message)
}

// Error is returned when a program fails to compile or run.
type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.String()
	}
	return strings.Join(msgs, "\n")
}

// Interpreter runs Bloch programs. It holds no per-run state and is safe for
// concurrent use.
type Interpreter struct {
	opts Options
}

func New(opts Options) *Interpreter {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Interpreter{opts: opts}
}

// Check lexes, parses and analyses source without running it.
func (in *Interpreter) Check(source string) error {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = "<eval>"
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(ctx)
	return toError(ctx)
}

// Eval runs source as a complete program.
func (in *Interpreter) Eval(ctx context.Context, source string) (*Result, error) {
	return in.run(ctx, source, "<eval>")
}

// LoadFile reads and runs the program at path.
func (in *Interpreter) LoadFile(ctx context.Context, path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return in.run(ctx, string(content), path)
}

func (in *Interpreter) run(ctx context.Context, source, path string) (*Result, error) {
	var out bytes.Buffer
	pctx := pipeline.NewPipelineContext(source)
	pctx.FilePath = path
	pctx.Output = &out
	if in.opts.Output != nil {
		pctx.Output = io.MultiWriter(&out, in.opts.Output)
	}

	exec := backend.NewTreeWalk(backend.Options{
		Seed:           in.opts.Seed,
		MaxQubits:      in.opts.MaxQubits,
		WarnUnmeasured: in.opts.WarnUnmeasured,
		Logger:         in.opts.Logger,
		Context:        ctx,
	})
	pctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		backend.NewExecutionProcessor(exec),
	).Run(pctx)
	if err := toError(pctx); err != nil {
		return nil, err
	}

	return &Result{
		RunID:        pctx.RunID,
		Seed:         pctx.Seed,
		Output:       out.String(),
		Qasm:         pctx.Qasm,
		Measurements: pctx.Measurements,
		Unmeasured:   pctx.Unmeasured,
	}, nil
}

func toError(ctx *pipeline.PipelineContext) error {
	if !ctx.Failed() {
		return nil
	}
	e := &Error{}
	for _, d := range ctx.Errors {
		e.Diagnostics = append(e.Diagnostics, fromDiagnostic(d))
	}
	return e
}

func fromDiagnostic(d *diagnostics.DiagnosticError) Diagnostic {
	return Diagnostic{
		Code:    string(d.Code),
		File:    d.File,
		Line:    d.Token.Line,
		Column:  d.Token.Column,
		Message: d.Message,
	}
}
