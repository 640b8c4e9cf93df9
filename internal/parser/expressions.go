package parser

import (
	"strings"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	if p.failed() {
		return nil
	}

	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.ErrP001, p.curToken, "expression nested too deeply")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) parseVariable() ast.Expression {
	return &ast.VariableExpression{Token: p.curToken, Name: p.curToken.Lexeme}
}

func (p *Parser) parseLiteral() ast.Expression {
	lit := &ast.LiteralExpression{Token: p.curToken, Value: p.curToken.Lexeme}

	switch p.curToken.Type {
	case token.INT:
		lit.LiteralType = ast.LiteralInt
	case token.FLOAT:
		lit.LiteralType = ast.LiteralFloat
	case token.STRING:
		lit.LiteralType = ast.LiteralString
		lit.Value = strings.Trim(lit.Value, `"`)
	case token.CHAR:
		lit.LiteralType = ast.LiteralChar
		lit.Value = strings.Trim(lit.Value, "'")
	case token.BIT:
		lit.LiteralType = ast.LiteralBit
		lit.Value = strings.TrimSuffix(lit.Value, "b")
	}
	return lit
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	paren := &ast.ParenthesizedExpression{Token: p.curToken}
	p.nextToken()

	paren.Expression = p.parseExpression(LOWEST)
	if paren.Expression == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return paren
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	expr := &ast.UnaryExpression{Token: p.curToken, Op: p.curToken.Lexeme}
	p.nextToken()

	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseMeasureExpression() ast.Expression {
	expr := &ast.MeasureExpression{Token: p.curToken}
	p.nextToken()

	expr.Qubit = p.parseExpression(PREFIX)
	if expr.Qubit == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryExpression{Token: p.curToken, Op: p.curToken.Lexeme, Left: left}

	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseAssignmentExpression is right-associative: a = b = c is a = (b = c).
func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	target, ok := left.(*ast.VariableExpression)
	if !ok {
		p.addError(diagnostics.ErrP001, p.curToken, "invalid assignment target")
		return nil
	}

	expr := &ast.AssignmentExpression{Token: target.Token, Name: target.Name}
	p.nextToken()
	expr.Value = p.parseExpression(ASSIGN - 1)
	if expr.Value == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	args := p.parseExpressionList(token.RPAREN)
	if args == nil {
		return nil
	}

	if v, ok := callee.(*ast.VariableExpression); ok && p.classNames[v.Name] {
		return &ast.ConstructorCallExpression{Token: v.Token, ClassName: v.Name, Arguments: args}
	}
	return &ast.CallExpression{Token: callee.GetToken(), Callee: callee, Arguments: args}
}

func (p *Parser) parseIndexExpression(collection ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Collection: collection}
	p.nextToken()

	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil || !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseMemberAccess(object ast.Expression) ast.Expression {
	expr := &ast.MemberAccessExpression{Token: p.curToken, Object: object}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.Member = p.curToken.Lexeme
	return expr
}

// parseExpressionList expects curToken on the opening delimiter and leaves
// it on end. The result is non-nil unless an error was recorded.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	list = append(list, expr)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}
