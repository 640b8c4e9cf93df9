package parser

import (
	"strconv"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/token"
)

// parseType expects curToken on the first token of a type and leaves it on
// the last one.
func (p *Parser) parseType() ast.Type {
	var typ ast.Type

	switch {
	case token.IsPrimitiveType(p.curToken.Type):
		typ = &ast.PrimitiveType{Token: p.curToken, Name: p.curToken.Lexeme}
	case p.curTokenIs(token.TYPE_LOGICAL):
		typ = &ast.LogicalType{Token: p.curToken}
	case p.curTokenIs(token.VOID):
		return &ast.VoidType{Token: p.curToken}
	case p.curTokenIs(token.IDENT):
		typ = &ast.ObjectType{Token: p.curToken, ClassName: p.curToken.Lexeme}
	default:
		p.addError(diagnostics.ErrP003, p.curToken, "expected a type, got %s", describeToken(p.curToken))
		return nil
	}

	if !p.peekTokenIs(token.LBRACKET) {
		return typ
	}

	p.nextToken()
	arr := &ast.ArrayType{Token: p.curToken, Element: typ, Size: -1}
	if p.peekTokenIs(token.INT) {
		p.nextToken()
		size, err := strconv.Atoi(p.curToken.Lexeme)
		if err != nil {
			p.addError(diagnostics.ErrP003, p.curToken, "invalid array size %s", describeToken(p.curToken))
			return nil
		}
		arr.Size = size
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return arr
}
