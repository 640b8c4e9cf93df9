package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/bloch-lang/bloch/internal/diagnostics"
	"github.com/bloch-lang/bloch/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// Tokenize scans the whole input. The returned slice always ends with an EOF
// token unless an error is reported.
func (l *Lexer) Tokenize() ([]token.Token, *diagnostics.DiagnosticError) {
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) NextToken() (token.Token, *diagnostics.DiagnosticError) {
	l.skipWhitespace()

	line, col := l.line, l.column
	if l.atEnd() {
		return token.Token{Type: token.EOF, Line: line, Column: col}, nil
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber()
	case isLetter(l.ch):
		ident := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Line: line, Column: col}, nil
	case l.ch == '"':
		return l.readString()
	case l.ch == '\'':
		return l.readCharLiteral()
	}

	var tok token.Token
	switch l.ch {
	case '=':
		tok = l.twoCharToken('=', token.EQ, token.ASSIGN)
	case '!':
		tok = l.twoCharToken('=', token.NOT_EQ, token.BANG)
	case '>':
		tok = l.twoCharToken('=', token.GT_EQ, token.GT)
	case '<':
		tok = l.twoCharToken('=', token.LT_EQ, token.LT)
	case '-':
		tok = l.twoCharToken('>', token.ARROW, token.MINUS)
	case '+':
		tok = l.singleCharToken(token.PLUS)
	case '*':
		tok = l.singleCharToken(token.ASTERISK)
	case '/':
		tok = l.singleCharToken(token.SLASH)
	case '%':
		tok = l.singleCharToken(token.PERCENT)
	case ';':
		tok = l.singleCharToken(token.SEMICOLON)
	case ',':
		tok = l.singleCharToken(token.COMMA)
	case '.':
		tok = l.singleCharToken(token.DOT)
	case ':':
		tok = l.singleCharToken(token.COLON)
	case '@':
		tok = l.singleCharToken(token.AT)
	case '(':
		tok = l.singleCharToken(token.LPAREN)
	case ')':
		tok = l.singleCharToken(token.RPAREN)
	case '{':
		tok = l.singleCharToken(token.LBRACE)
	case '}':
		tok = l.singleCharToken(token.RBRACE)
	case '[':
		tok = l.singleCharToken(token.LBRACKET)
	case ']':
		tok = l.singleCharToken(token.RBRACKET)
	default:
		tok = l.singleCharToken(token.ILLEGAL)
	}
	l.readChar()
	return tok, nil
}

func (l *Lexer) singleCharToken(t token.TokenType) token.Token {
	return token.Token{Type: t, Lexeme: string(l.ch), Line: l.line, Column: l.column}
}

// twoCharToken returns long if the next char is second, otherwise short.
func (l *Lexer) twoCharToken(second rune, long, short token.TokenType) token.Token {
	line, col := l.line, l.column
	if l.peekChar() == second {
		first := l.ch
		l.readChar()
		return token.Token{Type: long, Lexeme: string(first) + string(second), Line: line, Column: col}
	}
	return token.Token{Type: short, Lexeme: string(l.ch), Line: line, Column: col}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for !l.atEnd() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber scans integer (42), float (4.2f) and bit (0b, 1b) literals.
// A fractional part must be terminated by 'f'.
func (l *Lexer) readNumber() (token.Token, *diagnostics.DiagnosticError) {
	line, col := l.line, l.column
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch != 'f' {
			return token.Token{}, diagnostics.NewError(diagnostics.ErrL001,
				token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: line, Column: col},
				"Float literal must end with 'f'")
		}
		l.readChar()
		return token.Token{Type: token.FLOAT, Lexeme: l.input[start:l.position], Line: line, Column: col}, nil
	}

	digits := l.input[start:l.position]
	if l.ch == 'b' && (digits == "0" || digits == "1") && !isLetter(l.peekChar()) && !isDigit(l.peekChar()) {
		l.readChar()
		return token.Token{Type: token.BIT, Lexeme: l.input[start:l.position], Line: line, Column: col}, nil
	}
	return token.Token{Type: token.INT, Lexeme: digits, Line: line, Column: col}, nil
}

// readString keeps the surrounding quotes in the lexeme. Strings may span lines.
func (l *Lexer) readString() (token.Token, *diagnostics.DiagnosticError) {
	line, col := l.line, l.column
	start := l.position
	l.readChar() // opening quote
	for !l.atEnd() && l.ch != '"' {
		l.readChar()
	}
	if l.atEnd() {
		return token.Token{}, diagnostics.NewError(diagnostics.ErrL001,
			token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:], Line: line, Column: col},
			"Unterminated string literal")
	}
	l.readChar() // closing quote
	return token.Token{Type: token.STRING, Lexeme: l.input[start:l.position], Line: line, Column: col}, nil
}

func (l *Lexer) readCharLiteral() (token.Token, *diagnostics.DiagnosticError) {
	line, col := l.line, l.column
	start := l.position
	l.readChar() // opening quote
	if !l.atEnd() {
		l.readChar()
	}
	if l.ch != '\'' {
		return token.Token{}, diagnostics.NewError(diagnostics.ErrL001,
			token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: line, Column: col},
			"Unterminated char literal")
	}
	l.readChar()
	return token.Token{Type: token.CHAR, Lexeme: l.input[start:l.position], Line: line, Column: col}, nil
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
