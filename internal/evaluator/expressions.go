package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/builtins"
	"github.com/bloch-lang/bloch/internal/token"
)

func (e *Evaluator) evalOptional(expr ast.Expression) (Value, error) {
	if expr == nil {
		return Void(), nil
	}
	return e.eval(expr)
}

func (e *Evaluator) eval(expr ast.Expression) (Value, error) {
	switch ex := expr.(type) {
	case *ast.LiteralExpression:
		return e.evalLiteral(ex)
	case *ast.VariableExpression:
		return e.lookup(ex.Name), nil
	case *ast.BinaryExpression:
		return e.evalBinary(ex)
	case *ast.UnaryExpression:
		right, err := e.evalOptional(ex.Right)
		if err != nil {
			return Void(), err
		}
		if ex.Op == "-" {
			return IntValue(-right.Int), nil
		}
		return right, nil
	case *ast.CallExpression:
		return e.evalCall(ex)
	case *ast.ParenthesizedExpression:
		return e.evalOptional(ex.Expression)
	case *ast.MeasureExpression:
		q, err := e.evalOptional(ex.Qubit)
		if err != nil {
			return Void(), err
		}
		bit, err := e.measure(ex.Token, q)
		if err != nil {
			return Void(), err
		}
		e.measurements[ex] = bit
		return BitValue(bit), nil
	case *ast.AssignmentExpression:
		v, err := e.evalOptional(ex.Value)
		if err != nil {
			return Void(), err
		}
		e.assign(ex.Name, v)
		return v, nil
	case *ast.IndexExpression, *ast.ConstructorCallExpression, *ast.MemberAccessExpression:
		e.Logger.Debug("expression kind has no runtime semantics; yielding void",
			"kind", fmt.Sprintf("%T", expr), "line", expr.GetToken().Line)
		return Void(), nil
	default:
		panic(fmt.Sprintf("evaluator: unhandled expression %T", expr))
	}
}

func (e *Evaluator) evalLiteral(lit *ast.LiteralExpression) (Value, error) {
	switch lit.LiteralType {
	case ast.LiteralInt, ast.LiteralBit:
		n, err := strconv.Atoi(lit.Value)
		if err != nil {
			return Void(), e.wrapError(lit.Token, err, "invalid integer literal %q", lit.Value)
		}
		if lit.LiteralType == ast.LiteralBit {
			return BitValue(n), nil
		}
		return IntValue(n), nil
	case ast.LiteralFloat:
		f, err := strconv.ParseFloat(strings.TrimSuffix(lit.Value, "f"), 64)
		if err != nil {
			return Void(), e.wrapError(lit.Token, err, "invalid float literal %q", lit.Value)
		}
		return FloatValue(f), nil
	}
	// No runtime value kind holds text, so string and char literals are Void.
	e.Logger.Debug("literal has no runtime value; yielding void", "type", lit.LiteralType, "line", lit.Token.Line)
	return Void(), nil
}

// evalBinary works on the integer fields of both operands. Comparisons
// yield bits.
func (e *Evaluator) evalBinary(bin *ast.BinaryExpression) (Value, error) {
	left, err := e.evalOptional(bin.Left)
	if err != nil {
		return Void(), err
	}
	right, err := e.evalOptional(bin.Right)
	if err != nil {
		return Void(), err
	}
	l, r := left.Int, right.Int

	switch bin.Op {
	case "+":
		return IntValue(l + r), nil
	case "-":
		return IntValue(l - r), nil
	case "*":
		return IntValue(l * r), nil
	case "/", "%":
		if r == 0 {
			return Void(), e.newError(bin.Token, "division by zero")
		}
		if bin.Op == "/" {
			return IntValue(l / r), nil
		}
		return IntValue(l % r), nil
	case ">":
		return boolBit(l > r), nil
	case "<":
		return boolBit(l < r), nil
	case ">=":
		return boolBit(l >= r), nil
	case "<=":
		return boolBit(l <= r), nil
	case "==":
		return boolBit(l == r), nil
	case "!=":
		return boolBit(l != r), nil
	}
	return Void(), nil
}

func boolBit(b bool) Value {
	if b {
		return BitValue(1)
	}
	return BitValue(0)
}

// evalCall dispatches gates to the simulator and everything else to user
// functions. Calls to unknown names, or through a non-name callee, yield void.
func (e *Evaluator) evalCall(call *ast.CallExpression) (Value, error) {
	name, ok := call.CalleeName()
	if !ok {
		e.Logger.Debug("call through a non-name callee; yielding void", "line", call.Token.Line)
		return Void(), nil
	}

	args := make([]Value, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		v, err := e.eval(arg)
		if err != nil {
			return Void(), err
		}
		args = append(args, v)
	}

	if gate, ok := builtins.Lookup(name); ok {
		if err := e.applyGate(call.Token, gate, args); err != nil {
			return Void(), err
		}
		return Void(), nil
	}

	fn, ok := e.functions[name]
	if !ok {
		e.Logger.Debug("call to unregistered function; yielding void", "name", name, "line", call.Token.Line)
		return Void(), nil
	}

	result, err := e.call(fn, args)
	if err != nil {
		return Void(), err
	}
	if fn.HasQuantumAnnotation && result.Type == BIT_VAL {
		e.measurements[call] = result.Bit
	}
	return result, nil
}

func (e *Evaluator) applyGate(tok token.Token, gate builtins.Gate, args []Value) error {
	if len(args) < len(gate.ParamTypes) {
		return e.newError(tok, "gate '%s' expects %d argument(s)", gate.Name, len(gate.ParamTypes))
	}

	q := args[0].QubitIndex()
	var err error
	switch gate.Name {
	case "h":
		err = e.sim.H(q)
	case "x":
		err = e.sim.X(q)
	case "y":
		err = e.sim.Y(q)
	case "z":
		err = e.sim.Z(q)
	case "rx":
		err = e.sim.RX(q, args[1].Float)
	case "ry":
		err = e.sim.RY(q, args[1].Float)
	case "rz":
		err = e.sim.RZ(q, args[1].Float)
	case "cx":
		err = e.sim.CX(q, args[1].QubitIndex())
	default:
		return e.newError(tok, "gate '%s' is not supported by the evaluator", gate.Name)
	}
	if err != nil {
		return e.wrapError(tok, err, "gate '%s' failed", gate.Name)
	}
	return nil
}
