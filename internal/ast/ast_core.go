// Package ast defines the closed set of syntax tree nodes consumed by the
// analyzer and the evaluator. Node categories are sealed through unexported
// marker methods, so the only implementations are the ones in this package.
package ast

import "github.com/bloch-lang/bloch/internal/token"

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Type is a Node that represents a type annotation.
type Type interface {
	Node
	typeNode()
	String() string
}

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string
	Imports    []*ImportStatement
	Functions  []*FunctionDeclaration
	Classes    []*ClassDeclaration
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

// ImportStatement represents `import a.b.c;`. Imports are parsed but not resolved.
type ImportStatement struct {
	Token token.Token // The 'import' token
	Path  string
}

func (is *ImportStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *ImportStatement) GetToken() token.Token { return is.Token }

// Parameter is a single typed function parameter.
type Parameter struct {
	Token token.Token // The parameter name token
	Name  string
	Type  Type
}

func (p *Parameter) TokenLiteral() string  { return p.Token.Lexeme }
func (p *Parameter) GetToken() token.Token { return p.Token }

// FunctionDeclaration represents a top-level function or a class method.
//
//	@quantum function flip(qubit q) -> bit { ... }
type FunctionDeclaration struct {
	Token                token.Token // The 'function' token
	Name                 string
	Params               []*Parameter
	ReturnType           Type
	Body                 *BlockStatement
	Annotations          []string // e.g. "quantum", "adjoint"
	HasQuantumAnnotation bool
	Visibility           string // "public", "private" or "" (methods only)
}

func (fd *FunctionDeclaration) TokenLiteral() string  { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token { return fd.Token }

// ClassDeclaration holds the @members and @methods sections of a class.
type ClassDeclaration struct {
	Token   token.Token // The 'class' token
	Name    string
	Members []*VariableDeclaration
	Methods []*FunctionDeclaration
}

func (cd *ClassDeclaration) TokenLiteral() string  { return cd.Token.Lexeme }
func (cd *ClassDeclaration) GetToken() token.Token { return cd.Token }
