package analyzer

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/builtins"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/symbols"
	"github.com/bloch-lang/bloch/internal/token"
)

// Analyzer validates a parsed program before execution. It stops at the
// first violation; the AST is never modified.
type Analyzer struct {
	scopes *symbols.Stack[symbols.Symbol]

	// functions is one flat namespace for top-level functions and class
	// methods, filled in before any body is visited.
	functions map[string]symbols.Signature

	// returnType is the declared return type of the innermost function being
	// visited; nil at the top level.
	returnType ast.Type
}

func New() *Analyzer {
	return &Analyzer{}
}

// Analyze checks program and returns the first semantic error found, or nil
// when the program is accepted. An Analyzer may be reused.
func (a *Analyzer) Analyze(program *ast.Program) *diagnostics.DiagnosticError {
	a.scopes = symbols.NewStack[symbols.Symbol]()
	a.functions = make(map[string]symbols.Signature)
	a.returnType = nil

	a.scopes.BeginScope()
	defer a.scopes.EndScope()

	err := a.analyzeProgram(program)
	if err != nil && err.File == "" {
		err.File = program.File
	}
	return err
}

func (a *Analyzer) analyzeProgram(program *ast.Program) *diagnostics.DiagnosticError {
	if err := a.hoist(program); err != nil {
		return err
	}

	// Imports are accepted as-is; there is no module linking.
	for _, fn := range program.Functions {
		if err := a.analyzeFunction(fn); err != nil {
			return err
		}
	}
	for _, cls := range program.Classes {
		if err := a.analyzeClass(cls); err != nil {
			return err
		}
	}
	for _, stmt := range program.Statements {
		if err := a.analyzeStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// hoist registers every function and method signature so that calls may
// appear before the callee's declaration.
func (a *Analyzer) hoist(program *ast.Program) *diagnostics.DiagnosticError {
	for _, fn := range program.Functions {
		if err := a.declareFunction(fn); err != nil {
			return err
		}
	}
	for _, cls := range program.Classes {
		for _, method := range cls.Methods {
			if err := a.declareFunction(method); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Analyzer) declareFunction(fn *ast.FunctionDeclaration) *diagnostics.DiagnosticError {
	if a.isFunctionDeclared(fn.Name) {
		return diagnostics.NewError(diagnostics.ErrA010, fn.Token, "Function '%s' redeclared", fn.Name)
	}

	sig := symbols.Signature{ReturnType: ast.TypeName(fn.ReturnType)}
	for _, param := range fn.Params {
		sig.ParamTypes = append(sig.ParamTypes, ast.TypeName(param.Type))
	}
	a.functions[fn.Name] = sig
	return nil
}

// isFunctionDeclared treats built-in gates as declared functions.
func (a *Analyzer) isFunctionDeclared(name string) bool {
	if _, ok := a.functions[name]; ok {
		return true
	}
	return builtins.IsGate(name)
}

func (a *Analyzer) signature(name string) (symbols.Signature, bool) {
	if sig, ok := a.functions[name]; ok {
		return sig, true
	}
	if g, ok := builtins.Lookup(name); ok {
		return g.Signature(), true
	}
	return symbols.Signature{}, false
}

func (a *Analyzer) returnsVoid(name string) bool {
	sig, ok := a.signature(name)
	return ok && sig.ReturnsVoid()
}

// declare binds a variable or parameter, enforcing the no-shadow rule: a name
// visible from any enclosing scope cannot be declared again.
func (a *Analyzer) declare(kind, name string, tok token.Token, sym symbols.Symbol) *diagnostics.DiagnosticError {
	if a.scopes.IsDeclared(name) {
		return diagnostics.NewError(diagnostics.ErrA002, tok, "%s '%s' redeclared", kind, name)
	}
	a.scopes.Declare(name, sym)
	return nil
}

func (a *Analyzer) variableType(name string) string {
	sym, _ := a.scopes.Lookup(name)
	return sym.TypeName
}

func undeclared(tok token.Token, name string) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrA001, tok, "Variable '%s' not declared", name)
}
