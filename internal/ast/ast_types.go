package ast

import (
	"strconv"

	"github.com/bloch-lang/bloch/internal/token"
)

// PrimitiveType: int, float, string, char, qubit or bit.
type PrimitiveType struct {
	Token token.Token
	Name  string
}

func (pt *PrimitiveType) typeNode()             {}
func (pt *PrimitiveType) TokenLiteral() string  { return pt.Token.Lexeme }
func (pt *PrimitiveType) GetToken() token.Token { return pt.Token }
func (pt *PrimitiveType) String() string        { return pt.Name }

type LogicalType struct {
	Token token.Token
}

func (lt *LogicalType) typeNode()             {}
func (lt *LogicalType) TokenLiteral() string  { return lt.Token.Lexeme }
func (lt *LogicalType) GetToken() token.Token { return lt.Token }
func (lt *LogicalType) String() string        { return "logical" }

// ArrayType: `int[]` or `qubit[4]`. Size is -1 when omitted.
type ArrayType struct {
	Token   token.Token
	Element Type
	Size    int
}

func (at *ArrayType) typeNode()             {}
func (at *ArrayType) TokenLiteral() string  { return at.Token.Lexeme }
func (at *ArrayType) GetToken() token.Token { return at.Token }
func (at *ArrayType) String() string {
	if at.Size < 0 {
		return at.Element.String() + "[]"
	}
	return at.Element.String() + "[" + strconv.Itoa(at.Size) + "]"
}

type VoidType struct {
	Token token.Token
}

func (vt *VoidType) typeNode()             {}
func (vt *VoidType) TokenLiteral() string  { return vt.Token.Lexeme }
func (vt *VoidType) GetToken() token.Token { return vt.Token }
func (vt *VoidType) String() string        { return "void" }

// ObjectType names a user class.
type ObjectType struct {
	Token     token.Token
	ClassName string
}

func (ot *ObjectType) typeNode()             {}
func (ot *ObjectType) TokenLiteral() string  { return ot.Token.Lexeme }
func (ot *ObjectType) GetToken() token.Token { return ot.Token }
func (ot *ObjectType) String() string        { return ot.ClassName }

// TypeName returns the name used for best-effort type comparison: the
// primitive name, "void", or the class name. Arrays, logical types and a nil
// type yield "", meaning unknown.
func TypeName(t Type) string {
	switch t := t.(type) {
	case *PrimitiveType:
		return t.Name
	case *VoidType:
		return "void"
	case *ObjectType:
		return t.ClassName
	}
	return ""
}

// IsVoid reports whether t is the void type.
func IsVoid(t Type) bool {
	_, ok := t.(*VoidType)
	return ok
}
