package pipeline

import (
	"io"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/token"
)

// Measurement is one entry of the measurement trace, flattened to the source
// position of the expression that produced it.
type Measurement struct {
	Line   int
	Column int
	Kind   string // "measure" or "call"
	Bit    int
}

// QubitRecord mirrors one row of the evaluator's qubit tracking table.
type QubitRecord struct {
	Index    int
	Name     string
	Measured bool
}

// PipelineContext carries the state shared between pipeline stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	TokenStream []token.Token
	AstRoot     *ast.Program
	Errors      []*diagnostics.DiagnosticError

	// Output receives echo output. Nil means os.Stdout.
	Output io.Writer

	// Run artefacts, filled in by the execution stage.
	RunID        string
	Seed         uint64
	Qasm         string
	Measurements []Measurement
	Qubits       []QubitRecord
	Unmeasured   []string
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// Failed reports whether any stage recorded an error.
func (c *PipelineContext) Failed() bool {
	return len(c.Errors) > 0
}

// AddError records err, stamping it with the current file path.
func (c *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = c.FilePath
	}
	c.Errors = append(c.Errors, err)
}
