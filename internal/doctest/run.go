package doctest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bloch-lang/bloch/internal/analyzer"
	"github.com/bloch-lang/bloch/internal/backend"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/pipeline"
)

// Result is what running a case produced.
type Result struct {
	Output      string
	Qasm        string
	Diagnostics []*diagnostics.DiagnosticError
}

// Run executes the case's program with a fixed simulator seed.
func (c Case) Run(seed uint64) *Result {
	var out bytes.Buffer
	ctx := pipeline.NewPipelineContext(c.Source)
	ctx.FilePath = c.Name
	ctx.Output = &out
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		backend.NewExecutionProcessor(backend.NewTreeWalk(backend.Options{Seed: &seed})),
	).Run(ctx)

	return &Result{Output: out.String(), Qasm: ctx.Qasm, Diagnostics: ctx.Errors}
}

// Check compares r with the case's expectations and describes the first
// mismatch.
func (c Case) Check(r *Result) error {
	if c.Error != "" {
		return c.checkError(r)
	}
	if len(r.Diagnostics) > 0 {
		return fmt.Errorf("unexpected error: %v", r.Diagnostics[0])
	}
	if c.HasOutput && r.Output != c.Output {
		return fmt.Errorf("output mismatch\nwant:\n%s\ngot:\n%s", c.Output, r.Output)
	}
	if c.HasQasm {
		if got := strings.TrimRight(r.Qasm, "\n"); got != c.Qasm {
			return fmt.Errorf("qasm mismatch\nwant:\n%s\ngot:\n%s", c.Qasm, got)
		}
	}
	return nil
}

func (c Case) checkError(r *Result) error {
	code, detail, _ := strings.Cut(c.Error, " ")
	if len(r.Diagnostics) == 0 {
		return fmt.Errorf("expected error %s, program succeeded with output %q", code, r.Output)
	}
	got := r.Diagnostics[0]
	if string(got.Code) != code {
		return fmt.Errorf("expected error %s, got %v", code, got)
	}
	if detail = strings.TrimSpace(detail); detail != "" && !strings.Contains(got.Message, detail) {
		return fmt.Errorf("error message %q does not contain %q", got.Message, detail)
	}
	return nil
}
