package evaluator

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/config"
	"github.com/bloch-lang/bloch/internal/symbols"
)

// MaxCallDepth bounds user function recursion.
const MaxCallDepth = 10000

// Simulator is the quantum backend the evaluator drives. Indices are the
// ones returned by AllocateQubit.
type Simulator interface {
	AllocateQubit() (int, error)
	H(q int) error
	X(q int) error
	Y(q int) error
	Z(q int) error
	RX(q int, theta float64) error
	RY(q int, theta float64) error
	RZ(q int, theta float64) error
	CX(control, target int) error
	Measure(q int) (int, error)
	Qasm() string
}

// Evaluator executes an analysed program. It trusts the analyser: scoping
// and types are not re-checked. One Evaluator owns one simulator and must
// not be used from several goroutines.
type Evaluator struct {
	// Context is checked on every call and loop iteration. Nil means
	// context.Background().
	Context context.Context

	// Out receives echo output.
	Out io.Writer

	Logger *slog.Logger

	sim       Simulator
	env       *symbols.Stack[Value]
	functions map[string]*ast.FunctionDeclaration

	measurements map[ast.Expression]int
	qubits       []TrackedQubit

	returnValue Value
	returning   bool

	callStack []StackFrame
}

func New(sim Simulator) *Evaluator {
	return &Evaluator{
		Out:          os.Stdout,
		Logger:       slog.Default(),
		sim:          sim,
		env:          symbols.NewStack[Value](),
		functions:    make(map[string]*ast.FunctionDeclaration),
		measurements: make(map[ast.Expression]int),
	}
}

// Execute registers the program's top-level functions and calls main with no
// arguments. Without a main function nothing happens. Top-level statements
// are not executed.
func (e *Evaluator) Execute(program *ast.Program) error {
	for _, fn := range program.Functions {
		e.functions[fn.Name] = fn
	}

	main, ok := e.functions[config.EntryFunctionName]
	if !ok {
		e.Logger.Debug("no main function; nothing to execute", "file", program.File)
		return nil
	}

	_, err := e.call(main, nil)
	return err
}

// Measurements returns a copy of the measurement trace, keyed by the
// expression that produced each bit.
func (e *Evaluator) Measurements() map[ast.Expression]int {
	return maps.Clone(e.measurements)
}

func (e *Evaluator) Qasm() string {
	return e.sim.Qasm()
}

func (e *Evaluator) context() context.Context {
	if e.Context == nil {
		return context.Background()
	}
	return e.Context
}

// call runs fn in a fresh frame pushed on top of the caller's frames. The
// return flag never leaks back into the caller.
func (e *Evaluator) call(fn *ast.FunctionDeclaration, args []Value) (Value, error) {
	if err := e.context().Err(); err != nil {
		return Void(), e.wrapError(fn.Token, err, "execution of '%s' interrupted", fn.Name)
	}
	if len(e.callStack) >= MaxCallDepth {
		return Void(), e.newError(fn.Token, "maximum call depth of %d exceeded in '%s'", MaxCallDepth, fn.Name)
	}

	e.callStack = append(e.callStack, StackFrame{Name: fn.Name, Line: fn.Token.Line, Column: fn.Token.Column})
	e.env.BeginScope()
	defer func() {
		e.env.EndScope()
		e.callStack = e.callStack[:len(e.callStack)-1]
	}()

	for i, param := range fn.Params {
		if i < len(args) {
			e.env.Declare(param.Name, args[i])
		}
	}

	e.returning = false
	e.returnValue = Void()

	if fn.Body != nil {
		for _, stmt := range fn.Body.Statements {
			if err := e.exec(stmt); err != nil {
				return Void(), err
			}
			if e.returning {
				break
			}
		}
	}

	ret := e.returnValue
	e.returning = false
	e.returnValue = Void()
	return ret, nil
}

func (e *Evaluator) lookup(name string) Value {
	v, ok := e.env.Lookup(name)
	if !ok {
		return Void()
	}
	return v
}

// assign updates the innermost binding of name, creating one in the current
// frame when there is none.
func (e *Evaluator) assign(name string, v Value) {
	if !e.env.Assign(name, v) {
		e.env.Declare(name, v)
	}
}
