package parser

import (
	"strings"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/token"
)

func (p *Parser) parseImportStatement() *ast.ImportStatement {
	stmt := &ast.ImportStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	parts := []string{p.curToken.Lexeme}
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		parts = append(parts, p.curToken.Lexeme)
	}
	stmt.Path = strings.Join(parts, ".")

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func isAnnotation(t token.TokenType) bool {
	return t == token.QUANTUM || t == token.STATE || t == token.ADJOINT
}

// parseFunctionDeclaration expects curToken on '@', a visibility keyword or 'function'.
func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	fn := &ast.FunctionDeclaration{}

	for p.curTokenIs(token.AT) {
		if !isAnnotation(p.peekToken.Type) {
			p.addError(diagnostics.ErrP003, p.peekToken, "unknown annotation %s", describeToken(p.peekToken))
			return nil
		}
		p.nextToken()
		fn.Annotations = append(fn.Annotations, p.curToken.Lexeme)
		if p.curTokenIs(token.QUANTUM) {
			fn.HasQuantumAnnotation = true
		}
		p.nextToken()
	}

	if p.curTokenIs(token.PUBLIC) || p.curTokenIs(token.PRIVATE) {
		fn.Visibility = p.curToken.Lexeme
		p.nextToken()
	}

	if !p.curTokenIs(token.FUNCTION) {
		p.addError(diagnostics.ErrP002, p.curToken, "expected 'function', got %s", describeToken(p.curToken))
		return nil
	}
	fn.Token = p.curToken

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = p.curToken.Lexeme

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	fn.Params = p.parseParameters()
	if p.failed() {
		return nil
	}

	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.nextToken()
	fn.ReturnType = p.parseType()
	if fn.ReturnType == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlockStatement()
	if fn.Body == nil {
		return nil
	}
	return fn
}

// parseParameters expects curToken on '(' and leaves it on ')'.
func (p *Parser) parseParameters() []*ast.Parameter {
	params := []*ast.Parameter{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	for {
		p.nextToken()
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		params = append(params, &ast.Parameter{Token: p.curToken, Name: p.curToken.Lexeme, Type: typ})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseClassDeclaration() *ast.ClassDeclaration {
	cls := &ast.ClassDeclaration{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	cls.Name = p.curToken.Lexeme

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.failed() {
		switch {
		case p.curTokenIs(token.EOF):
			p.addError(diagnostics.ErrP002, p.curToken, "expected '}' to close class %s", cls.Name)
			return nil

		case p.curTokenIs(token.AT) && (p.peekTokenIs(token.MEMBERS) || p.peekTokenIs(token.METHODS)):
			p.nextToken()
			if !p.expectPeek(token.COLON) {
				return nil
			}

		case p.startsFunction():
			if fn := p.parseFunctionDeclaration(); fn != nil {
				cls.Methods = append(cls.Methods, fn)
			}

		default:
			visibility := ""
			if p.curTokenIs(token.PUBLIC) || p.curTokenIs(token.PRIVATE) {
				visibility = p.curToken.Lexeme
				p.nextToken()
			}
			if decl := p.parseVariableDeclaration(); decl != nil {
				decl.Visibility = visibility
				cls.Members = append(cls.Members, decl)
			}
		}
		p.nextToken()
	}

	if p.failed() {
		return nil
	}
	return cls
}

func (p *Parser) startsFunction() bool {
	switch p.curToken.Type {
	case token.FUNCTION, token.AT:
		return true
	case token.PUBLIC, token.PRIVATE:
		return p.peekTokenIs(token.FUNCTION)
	}
	return false
}

func (p *Parser) startsDeclaration() bool {
	switch {
	case p.curTokenIs(token.FINAL), p.curTokenIs(token.TYPE_LOGICAL):
		return true
	case token.IsPrimitiveType(p.curToken.Type):
		return true
	case p.curTokenIs(token.IDENT):
		// `Foo f;` declares an object-typed variable
		return p.peekTokenIs(token.IDENT)
	}
	return false
}

func (p *Parser) parseStatement() ast.Statement {
	var stmt ast.Statement
	switch {
	case p.curTokenIs(token.LBRACE):
		stmt = p.parseBlockStatement()
	case p.startsDeclaration():
		stmt = p.parseVariableDeclaration()
	case p.curTokenIs(token.RETURN):
		stmt = p.parseReturnStatement()
	case p.curTokenIs(token.IF):
		stmt = p.parseIfStatement()
	case p.curTokenIs(token.FOR):
		stmt = p.parseForStatement()
	case p.curTokenIs(token.ECHO):
		stmt = p.parseEchoStatement()
	case p.curTokenIs(token.RESET):
		stmt = p.parseResetStatement()
	case p.curTokenIs(token.MEASURE):
		stmt = p.parseMeasureStatement()
	case p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN):
		stmt = p.parseAssignmentStatement()
	case p.curTokenIs(token.FUNCTION), p.curTokenIs(token.CLASS), p.curTokenIs(token.IMPORT):
		p.addError(diagnostics.ErrP001, p.curToken, "%s is only allowed at the top level", describeToken(p.curToken))
	default:
		stmt = p.parseExpressionStatement()
	}

	// A failed parse leaves a typed nil behind; never hand it out.
	if p.failed() {
		return nil
	}
	return stmt
}

// parseBlockStatement expects curToken on '{' and leaves it on '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.addError(diagnostics.ErrP002, p.curToken, "expected '}', got end of input")
			return nil
		}
		stmt := p.parseStatement()
		if p.failed() {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		p.nextToken()
	}
	return block
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	decl := &ast.VariableDeclaration{Token: p.curToken}

	if p.curTokenIs(token.FINAL) {
		decl.IsFinal = true
		p.nextToken()
	}

	decl.VarType = p.parseType()
	if decl.VarType == nil {
		return nil
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = p.curToken.Lexeme

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		decl.Initializer = p.parseExpression(LOWEST)
		if decl.Initializer == nil {
			return nil
		}
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return decl
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}

	p.nextToken()
	stmt.Then = p.parseStatement()
	if stmt.Then == nil {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.Else = p.parseStatement()
		if stmt.Else == nil {
			return nil
		}
	}
	return stmt
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	// Initializer: declaration, expression or nothing. Each form leaves
	// curToken on its ';'.
	switch {
	case p.curTokenIs(token.SEMICOLON):
	case p.startsDeclaration():
		if decl := p.parseVariableDeclaration(); decl != nil {
			stmt.Initializer = decl
		}
	default:
		if es := p.parseExpressionStatement(); es != nil {
			stmt.Initializer = es
		}
	}
	if p.failed() {
		return nil
	}

	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		stmt.Condition = p.parseExpression(LOWEST)
		if stmt.Condition == nil || !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}

	p.nextToken()
	if !p.curTokenIs(token.RPAREN) {
		stmt.Increment = p.parseExpression(LOWEST)
		if stmt.Increment == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	p.nextToken()
	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseEchoStatement() *ast.EchoStatement {
	stmt := &ast.EchoStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil || !p.expectPeek(token.RPAREN) || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseResetStatement() *ast.ResetStatement {
	stmt := &ast.ResetStatement{Token: p.curToken}
	p.nextToken()
	stmt.Target = p.parseExpression(LOWEST)
	if stmt.Target == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseMeasureStatement() *ast.MeasureStatement {
	stmt := &ast.MeasureStatement{Token: p.curToken}
	p.nextToken()
	stmt.Qubit = p.parseExpression(LOWEST)
	if stmt.Qubit == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseAssignmentStatement() *ast.AssignmentStatement {
	stmt := &ast.AssignmentStatement{Token: p.curToken, Name: p.curToken.Lexeme}
	p.nextToken() // '='
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}
