package ast

import "github.com/bloch-lang/bloch/internal/token"

// Literal types as recorded on LiteralExpression.
const (
	LiteralInt    = "int"
	LiteralFloat  = "float"
	LiteralString = "string"
	LiteralChar   = "char"
	LiteralBit    = "bit"
)

// LiteralExpression keeps the literal's source text; Value has the bit
// suffix and string quotes stripped.
type LiteralExpression struct {
	Token       token.Token
	Value       string
	LiteralType string
}

func (le *LiteralExpression) expressionNode()       {}
func (le *LiteralExpression) TokenLiteral() string  { return le.Token.Lexeme }
func (le *LiteralExpression) GetToken() token.Token { return le.Token }

type VariableExpression struct {
	Token token.Token
	Name  string
}

func (ve *VariableExpression) expressionNode()       {}
func (ve *VariableExpression) TokenLiteral() string  { return ve.Token.Lexeme }
func (ve *VariableExpression) GetToken() token.Token { return ve.Token }

type BinaryExpression struct {
	Token token.Token // The operator token
	Op    string
	Left  Expression
	Right Expression
}

func (be *BinaryExpression) expressionNode()       {}
func (be *BinaryExpression) TokenLiteral() string  { return be.Token.Lexeme }
func (be *BinaryExpression) GetToken() token.Token { return be.Token }

type UnaryExpression struct {
	Token token.Token // The operator token
	Op    string
	Right Expression
}

func (ue *UnaryExpression) expressionNode()       {}
func (ue *UnaryExpression) TokenLiteral() string  { return ue.Token.Lexeme }
func (ue *UnaryExpression) GetToken() token.Token { return ue.Token }

type CallExpression struct {
	Token     token.Token // The callee's first token
	Callee    Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }

// CalleeName returns the callee identifier when the callee is a bare variable.
func (ce *CallExpression) CalleeName() (string, bool) {
	if v, ok := ce.Callee.(*VariableExpression); ok {
		return v.Name, true
	}
	return "", false
}

type IndexExpression struct {
	Token      token.Token // The '[' token
	Collection Expression
	Index      Expression
}

func (ie *IndexExpression) expressionNode()       {}
func (ie *IndexExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token { return ie.Token }

type ParenthesizedExpression struct {
	Token      token.Token // The '(' token
	Expression Expression
}

func (pe *ParenthesizedExpression) expressionNode()       {}
func (pe *ParenthesizedExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *ParenthesizedExpression) GetToken() token.Token { return pe.Token }

// MeasureExpression: `measure q` used as a value.
type MeasureExpression struct {
	Token token.Token // The 'measure' token
	Qubit Expression
}

func (me *MeasureExpression) expressionNode()       {}
func (me *MeasureExpression) TokenLiteral() string  { return me.Token.Lexeme }
func (me *MeasureExpression) GetToken() token.Token { return me.Token }

// AssignmentExpression: `x = expr` used as a value, e.g. in a for increment.
type AssignmentExpression struct {
	Token token.Token // The identifier token
	Name  string
	Value Expression
}

func (ae *AssignmentExpression) expressionNode()       {}
func (ae *AssignmentExpression) TokenLiteral() string  { return ae.Token.Lexeme }
func (ae *AssignmentExpression) GetToken() token.Token { return ae.Token }

type ConstructorCallExpression struct {
	Token     token.Token // The class name token
	ClassName string
	Arguments []Expression
}

func (cc *ConstructorCallExpression) expressionNode()       {}
func (cc *ConstructorCallExpression) TokenLiteral() string  { return cc.Token.Lexeme }
func (cc *ConstructorCallExpression) GetToken() token.Token { return cc.Token }

type MemberAccessExpression struct {
	Token  token.Token // The '.' token
	Object Expression
	Member string
}

func (ma *MemberAccessExpression) expressionNode()       {}
func (ma *MemberAccessExpression) TokenLiteral() string  { return ma.Token.Lexeme }
func (ma *MemberAccessExpression) GetToken() token.Token { return ma.Token }
