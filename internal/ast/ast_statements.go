package ast

import "github.com/bloch-lang/bloch/internal/token"

// VariableDeclaration: `final int x = 1;`
type VariableDeclaration struct {
	Token       token.Token // The token the declaration starts at
	Name        string
	VarType     Type
	Initializer Expression // Optional
	IsFinal     bool
	Visibility  string // class members only
}

func (vd *VariableDeclaration) statementNode()        {}
func (vd *VariableDeclaration) TokenLiteral() string  { return vd.Token.Lexeme }
func (vd *VariableDeclaration) GetToken() token.Token { return vd.Token }

type BlockStatement struct {
	Token      token.Token // The '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()        {}
func (bs *BlockStatement) TokenLiteral() string  { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token { return bs.Token }

type ExpressionStatement struct {
	Token      token.Token // The first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }

type ReturnStatement struct {
	Token token.Token // The 'return' token
	Value Expression  // Optional
}

func (rs *ReturnStatement) statementNode()        {}
func (rs *ReturnStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token { return rs.Token }

type IfStatement struct {
	Token     token.Token // The 'if' token
	Condition Expression
	Then      Statement
	Else      Statement // Optional
}

func (is *IfStatement) statementNode()        {}
func (is *IfStatement) TokenLiteral() string  { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token { return is.Token }

// ForStatement: `for (init; cond; incr) body`. Every clause is optional.
type ForStatement struct {
	Token       token.Token // The 'for' token
	Initializer Statement
	Condition   Expression
	Increment   Expression
	Body        Statement
}

func (fs *ForStatement) statementNode()        {}
func (fs *ForStatement) TokenLiteral() string  { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token { return fs.Token }

type EchoStatement struct {
	Token token.Token // The 'echo' token
	Value Expression
}

func (es *EchoStatement) statementNode()        {}
func (es *EchoStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *EchoStatement) GetToken() token.Token { return es.Token }

type ResetStatement struct {
	Token  token.Token // The 'reset' token
	Target Expression
}

func (rs *ResetStatement) statementNode()        {}
func (rs *ResetStatement) TokenLiteral() string  { return rs.Token.Lexeme }
func (rs *ResetStatement) GetToken() token.Token { return rs.Token }

// MeasureStatement: `measure q;` (the result is discarded).
type MeasureStatement struct {
	Token token.Token // The 'measure' token
	Qubit Expression
}

func (ms *MeasureStatement) statementNode()        {}
func (ms *MeasureStatement) TokenLiteral() string  { return ms.Token.Lexeme }
func (ms *MeasureStatement) GetToken() token.Token { return ms.Token }

// AssignmentStatement: `x = expr;`
type AssignmentStatement struct {
	Token token.Token // The identifier token
	Name  string
	Value Expression
}

func (as *AssignmentStatement) statementNode()        {}
func (as *AssignmentStatement) TokenLiteral() string  { return as.Token.Lexeme }
func (as *AssignmentStatement) GetToken() token.Token { return as.Token }
