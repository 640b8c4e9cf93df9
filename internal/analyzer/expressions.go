package analyzer

import (
	"fmt"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/diagnostics"
)

func (a *Analyzer) analyzeOptional(expr ast.Expression) *diagnostics.DiagnosticError {
	if expr == nil {
		return nil
	}
	return a.analyzeExpression(expr)
}

func (a *Analyzer) analyzeExpression(expr ast.Expression) *diagnostics.DiagnosticError {
	switch e := expr.(type) {
	case *ast.LiteralExpression:
		return nil
	case *ast.VariableExpression:
		if !a.scopes.IsDeclared(e.Name) {
			return undeclared(e.Token, e.Name)
		}
		return nil
	case *ast.BinaryExpression:
		if err := a.analyzeOptional(e.Left); err != nil {
			return err
		}
		return a.analyzeOptional(e.Right)
	case *ast.UnaryExpression:
		return a.analyzeOptional(e.Right)
	case *ast.CallExpression:
		return a.analyzeCall(e)
	case *ast.IndexExpression:
		if err := a.analyzeOptional(e.Collection); err != nil {
			return err
		}
		return a.analyzeOptional(e.Index)
	case *ast.ParenthesizedExpression:
		return a.analyzeOptional(e.Expression)
	case *ast.MeasureExpression:
		return a.analyzeOptional(e.Qubit)
	case *ast.AssignmentExpression:
		return a.analyzeAssignment(e.Token, e.Name, e.Value, e)
	case *ast.ConstructorCallExpression:
		return a.analyzeArguments(e.Arguments)
	case *ast.MemberAccessExpression:
		return a.analyzeOptional(e.Object)
	default:
		panic(fmt.Sprintf("analyzer: unhandled expression %T", expr))
	}
}

// analyzeCall resolves a named callee and checks the call against its
// signature. Argument types are only compared for bare variables and
// literals, and only when both sides have a known type.
func (a *Analyzer) analyzeCall(call *ast.CallExpression) *diagnostics.DiagnosticError {
	callee, ok := call.Callee.(*ast.VariableExpression)
	if !ok {
		if err := a.analyzeOptional(call.Callee); err != nil {
			return err
		}
		return a.analyzeArguments(call.Arguments)
	}

	name := callee.Name
	if !a.scopes.IsDeclared(name) && !a.isFunctionDeclared(name) {
		return undeclared(callee.Token, name)
	}

	sig, _ := a.signature(name)
	if len(sig.ParamTypes) != len(call.Arguments) {
		return diagnostics.NewError(diagnostics.ErrA004, call.Token,
			"Function '%s' expects %d argument(s)", name, len(sig.ParamTypes))
	}

	for i, arg := range call.Arguments {
		expected := sig.ParamTypes[i]
		if expected == "" {
			continue
		}

		var actual string
		switch arg := arg.(type) {
		case *ast.VariableExpression:
			actual = a.variableType(arg.Name)
		case *ast.LiteralExpression:
			actual = arg.LiteralType
		default:
			continue
		}
		if actual != "" && actual != expected {
			return diagnostics.NewError(diagnostics.ErrA005, arg.GetToken(),
				"Argument %d of '%s' expects type '%s'", i+1, name, expected)
		}
	}

	return a.analyzeArguments(call.Arguments)
}

func (a *Analyzer) analyzeArguments(args []ast.Expression) *diagnostics.DiagnosticError {
	for _, arg := range args {
		if err := a.analyzeExpression(arg); err != nil {
			return err
		}
	}
	return nil
}
