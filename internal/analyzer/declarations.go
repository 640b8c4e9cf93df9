package analyzer

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/config"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/symbols"
)

func (a *Analyzer) analyzeFunction(fn *ast.FunctionDeclaration) *diagnostics.DiagnosticError {
	if fn.HasQuantumAnnotation && !validQuantumReturn(fn.ReturnType) {
		return diagnostics.NewError(diagnostics.ErrA008, fn.Token, "@quantum functions must return 'bit' or 'void'")
	}

	prevReturn := a.returnType
	a.returnType = fn.ReturnType
	defer func() { a.returnType = prevReturn }()

	a.scopes.BeginScope()
	defer a.scopes.EndScope()

	for _, param := range fn.Params {
		sym := symbols.Symbol{TypeName: ast.TypeName(param.Type)}
		if err := a.declare("Parameter", param.Name, param.Token, sym); err != nil {
			return err
		}
	}

	if fn.Body == nil {
		return nil
	}
	return a.analyzeBlock(fn.Body)
}

func validQuantumReturn(t ast.Type) bool {
	switch t := t.(type) {
	case *ast.VoidType:
		return true
	case *ast.PrimitiveType:
		return t.Name == config.BitTypeName
	}
	return false
}

// analyzeClass declares members in the enclosing scope, then visits methods.
func (a *Analyzer) analyzeClass(cls *ast.ClassDeclaration) *diagnostics.DiagnosticError {
	for _, member := range cls.Members {
		if err := a.analyzeVariableDeclaration(member); err != nil {
			return err
		}
	}
	for _, method := range cls.Methods {
		if err := a.analyzeFunction(method); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeVariableDeclaration(decl *ast.VariableDeclaration) *diagnostics.DiagnosticError {
	sym := symbols.Symbol{IsFinal: decl.IsFinal, TypeName: ast.TypeName(decl.VarType)}
	if err := a.declare("Variable", decl.Name, decl.Token, sym); err != nil {
		return err
	}

	if decl.Initializer == nil {
		return nil
	}
	if a.isVoidCall(decl.Initializer) {
		return voidAssignment(decl)
	}
	return a.analyzeExpression(decl.Initializer)
}

// isVoidCall reports whether expr is literally a call to a void function or
// gate. Calls nested inside larger expressions are not detected.
func (a *Analyzer) isVoidCall(expr ast.Expression) bool {
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		return false
	}
	name, ok := call.CalleeName()
	return ok && a.returnsVoid(name)
}

func voidAssignment(node ast.Node) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrA009, node.GetToken(), "Cannot assign result of void function")
}
