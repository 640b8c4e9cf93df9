package analyzer

import (
	"fmt"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/token"
)

func (a *Analyzer) analyzeStatement(stmt ast.Statement) *diagnostics.DiagnosticError {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		return a.analyzeVariableDeclaration(s)
	case *ast.BlockStatement:
		return a.analyzeBlock(s)
	case *ast.ExpressionStatement:
		return a.analyzeOptional(s.Expression)
	case *ast.ReturnStatement:
		return a.analyzeReturn(s)
	case *ast.IfStatement:
		return a.analyzeIf(s)
	case *ast.ForStatement:
		return a.analyzeFor(s)
	case *ast.EchoStatement:
		return a.analyzeOptional(s.Value)
	case *ast.ResetStatement:
		return a.analyzeOptional(s.Target)
	case *ast.MeasureStatement:
		return a.analyzeOptional(s.Qubit)
	case *ast.AssignmentStatement:
		return a.analyzeAssignment(s.Token, s.Name, s.Value, s)
	default:
		panic(fmt.Sprintf("analyzer: unhandled statement %T", stmt))
	}
}

func (a *Analyzer) analyzeBlock(block *ast.BlockStatement) *diagnostics.DiagnosticError {
	a.scopes.BeginScope()
	defer a.scopes.EndScope()

	for _, stmt := range block.Statements {
		if err := a.analyzeStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// analyzeReturn checks the statement against the enclosing function. At the
// top level there is no function, and a bare return is rejected.
func (a *Analyzer) analyzeReturn(ret *ast.ReturnStatement) *diagnostics.DiagnosticError {
	isVoid := ast.IsVoid(a.returnType)
	if ret.Value != nil && isVoid {
		return diagnostics.NewError(diagnostics.ErrA006, ret.Token, "Void function cannot return a value")
	}
	if ret.Value == nil && !isVoid {
		return diagnostics.NewError(diagnostics.ErrA007, ret.Token, "Non-void function must return a value")
	}
	return a.analyzeOptional(ret.Value)
}

func (a *Analyzer) analyzeIf(stmt *ast.IfStatement) *diagnostics.DiagnosticError {
	if err := a.analyzeOptional(stmt.Condition); err != nil {
		return err
	}
	if stmt.Then != nil {
		if err := a.analyzeStatement(stmt.Then); err != nil {
			return err
		}
	}
	if stmt.Else != nil {
		return a.analyzeStatement(stmt.Else)
	}
	return nil
}

// analyzeFor opens a scope around the whole loop so that the initializer's
// declaration is visible to the condition, increment and body only.
func (a *Analyzer) analyzeFor(stmt *ast.ForStatement) *diagnostics.DiagnosticError {
	a.scopes.BeginScope()
	defer a.scopes.EndScope()

	if stmt.Initializer != nil {
		if err := a.analyzeStatement(stmt.Initializer); err != nil {
			return err
		}
	}
	if err := a.analyzeOptional(stmt.Condition); err != nil {
		return err
	}
	if err := a.analyzeOptional(stmt.Increment); err != nil {
		return err
	}
	if stmt.Body != nil {
		return a.analyzeStatement(stmt.Body)
	}
	return nil
}

// analyzeAssignment serves both the statement and the expression form.
func (a *Analyzer) analyzeAssignment(tok token.Token, name string, value ast.Expression, node ast.Node) *diagnostics.DiagnosticError {
	sym, ok := a.scopes.Lookup(name)
	if !ok {
		return undeclared(tok, name)
	}
	if sym.IsFinal {
		return diagnostics.NewError(diagnostics.ErrA003, tok, "Cannot assign to final variable '%s'", name)
	}

	if value == nil {
		return nil
	}
	if a.isVoidCall(value) {
		return voidAssignment(node)
	}
	return a.analyzeExpression(value)
}
