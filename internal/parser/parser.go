package parser

import (
	"fmt"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/pipeline"
	"github.com/bloch-lang/bloch/internal/token"
)

// MaxRecursionDepth bounds expression nesting.
const MaxRecursionDepth = 1000

const (
	_ int = iota
	LOWEST
	ASSIGN      // =
	EQUALS      // == !=
	LESSGREATER // > < >= <=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x measure x
	CALL        // f(x) a[i] o.m
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGN,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.DOT:      CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int // index of peekToken in tokens

	curToken  token.Token
	peekToken token.Token

	ctx   *pipeline.PipelineContext
	depth int

	// classNames holds every class declared in the token stream, so that
	// `Foo(...)` can be recognised as a constructor call before Foo is seen.
	classNames map[string]bool

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{
		tokens:     tokens,
		ctx:        ctx,
		classNames: make(map[string]bool),
	}

	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Type == token.CLASS && tokens[i+1].Type == token.IDENT {
			p.classNames[tokens[i+1].Lexeme] = true
		}
	}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:   p.parseVariable,
		token.INT:     p.parseLiteral,
		token.FLOAT:   p.parseLiteral,
		token.STRING:  p.parseLiteral,
		token.CHAR:    p.parseLiteral,
		token.BIT:     p.parseLiteral,
		token.LPAREN:  p.parseGroupedExpression,
		token.MINUS:   p.parseUnaryExpression,
		token.BANG:    p.parseUnaryExpression,
		token.MEASURE: p.parseMeasureExpression,
	}

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ,
	} {
		p.infixParseFns[t] = p.parseBinaryExpression
	}
	p.infixParseFns[token.ASSIGN] = p.parseAssignmentExpression
	p.infixParseFns[token.LPAREN] = p.parseCallExpression
	p.infixParseFns[token.LBRACKET] = p.parseIndexExpression
	p.infixParseFns[token.DOT] = p.parseMemberAccess

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
		return
	}
	p.peekToken = token.Token{Type: token.EOF, Line: p.curToken.Line, Column: p.curToken.Column}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.failed() {
		return false
	}
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) failed() bool { return len(p.ctx.Errors) > 0 }

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, format string, args ...any) {
	if p.failed() {
		return
	}
	p.ctx.AddError(diagnostics.NewError(code, tok, format, args...))
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.ErrP002, p.peekToken, "expected %s, got %s", describe(t), describeToken(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(diagnostics.ErrP001, tok, "unexpected %s", describeToken(tok))
}

func describe(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of input"
	}
	return fmt.Sprintf("'%s'", t)
}

func describeToken(tok token.Token) string {
	if tok.Type == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram parses the whole token stream. Parsing stops at the first
// error, which is recorded in the pipeline context.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{File: p.ctx.FilePath}

	for !p.curTokenIs(token.EOF) && !p.failed() {
		switch {
		case p.curTokenIs(token.IMPORT):
			if imp := p.parseImportStatement(); imp != nil {
				program.Imports = append(program.Imports, imp)
			}
		case p.curTokenIs(token.FUNCTION) || p.curTokenIs(token.AT):
			if fn := p.parseFunctionDeclaration(); fn != nil {
				program.Functions = append(program.Functions, fn)
			}
		case p.curTokenIs(token.CLASS):
			if cls := p.parseClassDeclaration(); cls != nil {
				program.Classes = append(program.Classes, cls)
			}
		default:
			if stmt := p.parseStatement(); stmt != nil {
				program.Statements = append(program.Statements, stmt)
			}
		}
		p.nextToken()
	}

	return program
}
