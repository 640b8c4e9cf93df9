package evaluator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bloch-lang/bloch/internal/analyzer"
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/pipeline"
	"github.com/bloch-lang/bloch/internal/qsim"
	"github.com/nalgeon/be"
)

// fakeSim records every call and returns scripted measurement results.
type fakeSim struct {
	n       int
	calls   []string
	results []int // consumed by Measure, default 0
	failOn  string
}

func (f *fakeSim) AllocateQubit() (int, error) {
	f.calls = append(f.calls, "alloc")
	f.n++
	return f.n - 1, nil
}

func (f *fakeSim) op(name string, qs ...any) error {
	call := name + fmt.Sprint(qs...)
	f.calls = append(f.calls, call)
	if f.failOn == name {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeSim) H(q int) error                  { return f.op("h", q) }
func (f *fakeSim) X(q int) error                  { return f.op("x", q) }
func (f *fakeSim) Y(q int) error                  { return f.op("y", q) }
func (f *fakeSim) Z(q int) error                  { return f.op("z", q) }
func (f *fakeSim) RX(q int, theta float64) error  { return f.op("rx", q, " ", theta) }
func (f *fakeSim) RY(q int, theta float64) error  { return f.op("ry", q, " ", theta) }
func (f *fakeSim) RZ(q int, theta float64) error  { return f.op("rz", q, " ", theta) }
func (f *fakeSim) CX(c, t int) error              { return f.op("cx", c, " ", t) }
func (f *fakeSim) Qasm() string                   { return strings.Join(f.calls, "\n") }
func (f *fakeSim) Measure(q int) (int, error) {
	if err := f.op("measure", q); err != nil {
		return 0, err
	}
	if q < 0 || q >= f.n {
		return 0, errors.New("invalid qubit")
	}
	if len(f.results) == 0 {
		return 0, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r, nil
}

// compile runs the front end and the analyser, failing the test on any
// diagnostic.
func compile(t *testing.T, src string) *ast.Program {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(ctx)
	if ctx.Failed() {
		t.Fatalf("program rejected: %v\nsource: %s", ctx.Errors[0], src)
	}
	return ctx.AstRoot
}

func runMain(t *testing.T, body string, sim Simulator) (*Evaluator, string) {
	t.Helper()
	return runProgram(t, "function main() -> void {\n"+body+"\n}", sim)
}

func runProgram(t *testing.T, src string, sim Simulator) (*Evaluator, string) {
	t.Helper()
	program := compile(t, src)
	var out bytes.Buffer
	e := New(sim)
	e.Out = &out
	if err := e.Execute(program); err != nil {
		t.Fatalf("execution failed: %v", err)
	}
	return e, out.String()
}

func TestArithmeticAndEcho(t *testing.T) {
	_, out := runMain(t, `
int a = 7;
int b = 3;
echo(a + b);
echo(a - b * 2);
echo(a / b);
echo(a % b);
echo(-a);
echo((a + b) * 2);
`, &fakeSim{})
	be.Equal(t, out, "10\n1\n2\n1\n-7\n20\n")
}

func TestComparisonsYieldBits(t *testing.T) {
	_, out := runMain(t, `
echo(1 < 2);
echo(2 < 1);
echo(3 >= 3);
echo(3 <= 2);
echo(4 == 4);
echo(4 != 4);
echo(5 > 1);
`, &fakeSim{})
	be.Equal(t, out, "1\n0\n1\n0\n1\n0\n1\n")
}

func TestEchoPrintsBitFieldForNonInts(t *testing.T) {
	_, out := runMain(t, `
bit b = 1b;
float f = 2.5f;
qubit q;
echo(b);
echo(f);
echo(q);
`, &fakeSim{})
	be.Equal(t, out, "1\n0\n0\n")
}

func TestUnaryBangReturnsOperand(t *testing.T) {
	_, out := runMain(t, "int x = 3; echo(!x);", &fakeSim{})
	be.Equal(t, out, "3\n")
}

func TestDefaultsAndAssignment(t *testing.T) {
	_, out := runMain(t, `
int x;
echo(x);
x = 4;
echo(x);
int y;
x = y = 9;
echo(x);
echo(y);
`, &fakeSim{})
	be.Equal(t, out, "0\n4\n9\n9\n")
}

func TestIfElse(t *testing.T) {
	_, out := runMain(t, `
int x = 2;
if (x == 2) echo(1); else echo(0);
if (x == 3) { echo(1); } else { echo(0); }
if (0) echo(5);
if (1b) echo(6);
`, &fakeSim{})
	be.Equal(t, out, "1\n0\n6\n")
}

func TestForLoop(t *testing.T) {
	_, out := runMain(t, `
for (int i = 0; i < 3; i = i + 1) {
    echo(i);
}
`, &fakeSim{})
	be.Equal(t, out, "0\n1\n2\n")
}

func TestForWithoutConditionRunsZeroTimes(t *testing.T) {
	_, out := runMain(t, `
int n = 0;
for (;;) { n = n + 1; echo(n); }
echo(n);
`, &fakeSim{})
	be.Equal(t, out, "0\n")
}

func TestFunctionCallsAndReturn(t *testing.T) {
	_, out := runProgram(t, `
function add(int a, int b) -> int {
    return a + b;
}

function fact(int n) -> int {
    if (n <= 1) {
        return 1;
    }
    return n * fact(n - 1);
}

function main() -> void {
    echo(add(2, 3));
    echo(fact(5));
}
`, &fakeSim{})
	be.Equal(t, out, "5\n120\n")
}

func TestReturnStopsLoopsAndBlocks(t *testing.T) {
	_, out := runProgram(t, `
function first() -> int {
    for (int i = 0; i < 10; i = i + 1) {
        {
            if (i == 3) return i;
        }
        echo(i);
    }
    return 99;
}

function main() -> void {
    echo(first());
    echo(7);
}
`, &fakeSim{})
	be.Equal(t, out, "0\n1\n2\n3\n7\n")
}

func TestReturnFlagDoesNotLeakIntoCaller(t *testing.T) {
	_, out := runProgram(t, `
function one() -> int { return 1; }

function main() -> void {
    int x = one();
    echo(x);
    echo(2);
}
`, &fakeSim{})
	be.Equal(t, out, "1\n2\n")
}

func TestVoidFunctionYieldsVoidNotStaleValue(t *testing.T) {
	e := New(&fakeSim{})
	program := compile(t, `
function seven() -> int { return 7; }
function nothing() -> void { }
function main() -> void { seven(); nothing(); }
`)
	be.Err(t, e.Execute(program), nil)

	fn := e.functions["nothing"]
	v, err := e.call(fn, nil)
	be.Err(t, err, nil)
	be.True(t, v.IsVoid())
}

func TestExtraArgumentsAreIgnored(t *testing.T) {
	e := New(&fakeSim{})
	var out bytes.Buffer
	e.Out = &out
	program := compile(t, `
function show(int a) -> void { echo(a); }
function main() -> void { }
`)
	be.Err(t, e.Execute(program), nil)

	_, err := e.call(e.functions["show"], []Value{IntValue(4), IntValue(5)})
	be.Err(t, err, nil)
	be.Equal(t, out.String(), "4\n")
}

func TestMissingArgumentsLeaveParametersUnbound(t *testing.T) {
	e := New(&fakeSim{})
	program := compile(t, `
function show(int a) -> int { return a; }
function main() -> void { }
`)
	be.Err(t, e.Execute(program), nil)

	v, err := e.call(e.functions["show"], nil)
	be.Err(t, err, nil)
	be.True(t, v.IsVoid())
}

func TestCalleeSeesCallerFrames(t *testing.T) {
	// Lookup walks every frame on the stack, so a callee can read the
	// locals of whoever called it.
	e := New(&fakeSim{})
	var out bytes.Buffer
	e.Out = &out
	program := compile(t, `
function peek() -> void { }
function main() -> void { }
`)
	be.Err(t, e.Execute(program), nil)

	e.env.BeginScope()
	e.env.Declare("hidden", IntValue(11))
	peek := &ast.FunctionDeclaration{
		Name: "peek",
		Body: &ast.BlockStatement{Statements: []ast.Statement{
			&ast.EchoStatement{Value: &ast.VariableExpression{Name: "hidden"}},
		}},
	}
	_, err := e.call(peek, nil)
	be.Err(t, err, nil)
	be.Equal(t, out.String(), "11\n")
}

func TestAssignFallsBackToCurrentFrame(t *testing.T) {
	e := New(&fakeSim{})
	e.env.BeginScope()
	e.assign("ghost", IntValue(1))
	be.Equal(t, e.lookup("ghost"), IntValue(1))
	be.Equal(t, e.env.Names(), []string{"ghost"})
}

func TestNoMainDoesNothing(t *testing.T) {
	sim := &fakeSim{}
	_, out := runProgram(t, "function helper() -> void { qubit q; h(q); }\nint x = 1;", sim)
	be.Equal(t, out, "")
	be.Equal(t, len(sim.calls), 0)
}

func TestTopLevelStatementsAreNotExecuted(t *testing.T) {
	sim := &fakeSim{}
	_, out := runProgram(t, "qubit top; echo(1);\nfunction main() -> void { echo(2); }", sim)
	be.Equal(t, out, "2\n")
	be.Equal(t, len(sim.calls), 0)
}

func TestGateDispatch(t *testing.T) {
	sim := &fakeSim{}
	runMain(t, `
qubit a;
qubit b;
h(a);
x(b);
y(a);
z(b);
rx(a, 1.5f);
ry(b, 0.25f);
rz(a, 2.0f);
cx(a, b);
`, sim)
	be.Equal(t, sim.calls, []string{
		"alloc", "alloc",
		"h0", "x1", "y0", "z1",
		"rx0 1.5", "ry1 0.25", "rz0 2",
		"cx0 1",
	})
}

func TestGateCallYieldsVoid(t *testing.T) {
	e := New(&fakeSim{})
	e.env.BeginScope()
	e.env.Declare("q", QubitValue(0))
	sim := e.sim.(*fakeSim)
	sim.n = 1

	v, err := e.eval(&ast.CallExpression{
		Callee:    &ast.VariableExpression{Name: "h"},
		Arguments: []ast.Expression{&ast.VariableExpression{Name: "q"}},
	})
	be.Err(t, err, nil)
	be.True(t, v.IsVoid())
}

func TestLiteralValues(t *testing.T) {
	tests := []struct {
		lit  *ast.LiteralExpression
		want Value
	}{
		{&ast.LiteralExpression{Value: "42", LiteralType: ast.LiteralInt}, IntValue(42)},
		{&ast.LiteralExpression{Value: "1", LiteralType: ast.LiteralBit}, BitValue(1)},
		{&ast.LiteralExpression{Value: "1.5f", LiteralType: ast.LiteralFloat}, FloatValue(1.5)},
		{&ast.LiteralExpression{Value: "2", LiteralType: ast.LiteralFloat}, FloatValue(2)},
		{&ast.LiteralExpression{Value: "hi", LiteralType: ast.LiteralString}, Void()},
		{&ast.LiteralExpression{Value: "c", LiteralType: ast.LiteralChar}, Void()},
	}

	e := New(&fakeSim{})
	for _, tt := range tests {
		t.Run(tt.lit.LiteralType+" "+tt.lit.Value, func(t *testing.T) {
			v, err := e.eval(tt.lit)
			be.Err(t, err, nil)
			be.Equal(t, v, tt.want)
		})
	}
}

func TestStringAndCharLiteralsEvaluateToVoid(t *testing.T) {
	_, out := runMain(t, `
string s = "hello";
char c = 'x';
echo(s);
echo(c);
`, &fakeSim{})
	be.Equal(t, out, "0\n0\n")
}

func TestFloatLiteralReachesRotation(t *testing.T) {
	sim := &fakeSim{}
	runMain(t, "qubit q; float theta = 0.5f; rx(q, theta);", sim)
	be.Equal(t, sim.calls, []string{"alloc", "rx0 0.5"})
}

func TestQubitDeclarationAllocatesAndTracks(t *testing.T) {
	sim := &fakeSim{}
	e, _ := runMain(t, "qubit q; h(q);", sim)

	be.Equal(t, sim.calls, []string{"alloc", "h0"})
	be.Equal(t, e.Qubits(), []TrackedQubit{{Name: "q", Measured: false}})
	be.Equal(t, len(e.Measurements()), 0)
}

func TestQubitWithInitializerStillAllocates(t *testing.T) {
	sim := &fakeSim{}
	e, _ := runMain(t, "qubit a; qubit b = a; h(b);", sim)

	be.Equal(t, sim.calls, []string{"alloc", "alloc", "h0"})
	be.Equal(t, len(e.Qubits()), 2)
}

func TestMeasureStatementMarksButDoesNotRecord(t *testing.T) {
	sim := &fakeSim{results: []int{1}}
	e, _ := runMain(t, "qubit q; measure q;", sim)

	be.Equal(t, e.Qubits(), []TrackedQubit{{Name: "q", Measured: true}})
	be.Equal(t, len(e.Measurements()), 0)
	be.Equal(t, len(e.WarnUnmeasured()), 0)
}

func TestMeasureExpressionRecordsBit(t *testing.T) {
	sim := &fakeSim{results: []int{1}}
	e, out := runMain(t, "qubit q; x(q); bit b = measure q; echo(b);", sim)

	be.Equal(t, out, "1\n")
	trace := e.Measurements()
	be.Equal(t, len(trace), 1)
	for expr, bit := range trace {
		_, ok := expr.(*ast.MeasureExpression)
		be.True(t, ok)
		be.Equal(t, bit, 1)
	}
	be.True(t, e.Qubits()[0].Measured)
}

func TestQuantumFunctionResultIsRecorded(t *testing.T) {
	sim := &fakeSim{results: []int{1, 0}}
	e, out := runProgram(t, `
@quantum
function flip() -> bit {
    qubit q;
    h(q);
    return measure q;
}

function plain() -> bit {
    return 1b;
}

function main() -> void {
    flip();
    bit b = plain();
    echo(b);
}
`, sim)

	be.Equal(t, out, "1\n")
	trace := e.Measurements()
	// One entry for the measure expression, one for the quantum call.
	be.Equal(t, len(trace), 2)
	kinds := map[string]int{}
	for expr, bit := range trace {
		kinds[fmt.Sprintf("%T", expr)] = bit
	}
	be.Equal(t, kinds["*ast.CallExpression"], 1)
	be.Equal(t, kinds["*ast.MeasureExpression"], 1)
}

func TestMeasurementsIsACopy(t *testing.T) {
	sim := &fakeSim{results: []int{1}}
	e, _ := runMain(t, "qubit q; bit b = measure q;", sim)

	trace := e.Measurements()
	for k := range trace {
		delete(trace, k)
	}
	be.Equal(t, len(e.Measurements()), 1)
}

func TestResetIsANoOp(t *testing.T) {
	sim := &fakeSim{}
	e, _ := runMain(t, "qubit q; reset q; reset q;", sim)

	be.Equal(t, sim.calls, []string{"alloc"})
	be.True(t, !e.Qubits()[0].Measured)
}

func TestWarnUnmeasured(t *testing.T) {
	sim := &fakeSim{}
	e, _ := runMain(t, "qubit a; qubit b; qubit c; measure b;", sim)

	left := e.WarnUnmeasured()
	be.Equal(t, left, []TrackedQubit{{Name: "a"}, {Name: "c"}})
}

func TestIndexConstructorAndMemberAccessYieldVoid(t *testing.T) {
	_, out := runProgram(t, `
class P { @members: int n; }
function main() -> void {
    int[] xs;
    P p = P(1);
    echo(xs[0]);
    echo(p.n);
}
`, &fakeSim{})
	be.Equal(t, out, "0\n0\n")
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		sim  *fakeSim
		want string
	}{
		{"division by zero", "int z = 0; echo(1 / z);", &fakeSim{}, "division by zero"},
		{"modulo by zero", "int z = 0; echo(1 % z);", &fakeSim{}, "division by zero"},
		{"measuring a non-qubit", "int n = 0; qubit q = n; measure q;", &fakeSim{}, "measurement failed"},
		{"simulator failure", "qubit q; h(q);", &fakeSim{failOn: "h"}, "gate 'h' failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := compile(t, "function main() -> void {\n"+tt.body+"\n}")
			e := New(tt.sim)
			e.Out = &bytes.Buffer{}
			err := e.Execute(program)

			var rerr *RuntimeError
			be.True(t, errors.As(err, &rerr))
			be.True(t, strings.Contains(rerr.Message, tt.want))
			be.True(t, rerr.Token.Line > 0)
			be.Equal(t, len(rerr.StackTrace), 1)
			be.Equal(t, rerr.StackTrace[0].Name, "main")
		})
	}
}

func TestRuntimeErrorTrace(t *testing.T) {
	program := compile(t, `
function inner(int d) -> int { return 10 / d; }
function main() -> void { echo(inner(0)); }
`)
	e := New(&fakeSim{})
	err := e.Execute(program)

	var rerr *RuntimeError
	be.True(t, errors.As(err, &rerr))
	be.Equal(t, len(rerr.StackTrace), 2)
	be.Equal(t, rerr.Trace(), "Stack trace:\n  at inner (2:1)\n  at main (3:1)")
}

func TestCancelledContext(t *testing.T) {
	program := compile(t, "function main() -> void { for (int i = 0; 1 == 1; i = i + 1) { } }")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(&fakeSim{})
	e.Context = ctx
	err := e.Execute(program)
	be.Err(t, err, context.Canceled)
}

func TestRecursionDepthIsBounded(t *testing.T) {
	program := compile(t, `
function down(int n) -> int { return down(n + 1); }
function main() -> void { down(0); }
`)
	e := New(&fakeSim{})
	err := e.Execute(program)
	be.Err(t, err, "maximum call depth")
}

func TestWithStateVectorSimulator(t *testing.T) {
	sim := qsim.New(qsim.Options{Seed: 1})
	e, out := runProgram(t, `
@quantum
function bell() -> bit {
    qubit a;
    qubit b;
    h(a);
    cx(a, b);
    bit ma = measure a;
    bit mb = measure b;
    if (ma == mb) return 1b;
    return 0b;
}

function main() -> void {
    bit same = bell();
    echo(same);
}
`, sim)

	be.Equal(t, out, "1\n")
	be.Equal(t, len(e.WarnUnmeasured()), 0)
	qasm := e.Qasm()
	be.True(t, strings.HasPrefix(qasm, "OPENQASM 2.0;\n"))
	be.True(t, strings.Contains(qasm, "h q[0];\ncx q[0],q[1];\nmeasure q[0] -> c[0];\nmeasure q[1] -> c[1];\n"))
}

func TestCapacityErrorOnAllocation(t *testing.T) {
	program := compile(t, "function main() -> void { qubit a; qubit b; }")
	e := New(qsim.New(qsim.Options{MaxQubits: 1}))
	err := e.Execute(program)
	be.Err(t, err, qsim.ErrCapacity)
}

func TestValueHelpers(t *testing.T) {
	be.Equal(t, QubitValue(3).QubitIndex(), 3)
	be.Equal(t, IntValue(3).QubitIndex(), -1)
	be.Equal(t, Value{}.QubitIndex(), -1)
	be.True(t, Value{}.IsVoid())
	be.True(t, BitValue(1).Truthy())
	be.True(t, !FloatValue(2).Truthy())
	be.Equal(t, IntValue(-4).EchoString(), "-4")
	be.Equal(t, BitValue(1).Inspect(), "1b")
	be.Equal(t, FloatValue(0.5).Inspect(), "0.5")
	be.Equal(t, QubitValue(2).Inspect(), "q[2]")
	be.Equal(t, Void().Inspect(), "void")
}
