package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + literals
	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	STRING TokenType = "STRING"
	CHAR   TokenType = "CHAR"
	BIT    TokenType = "BIT"

	// Type keywords
	TYPE_INT     TokenType = "int"
	TYPE_FLOAT   TokenType = "float"
	TYPE_STRING  TokenType = "string"
	TYPE_CHAR    TokenType = "char"
	TYPE_QUBIT   TokenType = "qubit"
	TYPE_BIT     TokenType = "bit"
	TYPE_LOGICAL TokenType = "logical"
	VOID         TokenType = "void"

	// Keywords
	FUNCTION TokenType = "function"
	IMPORT   TokenType = "import"
	RETURN   TokenType = "return"
	IF       TokenType = "if"
	ELSE     TokenType = "else"
	FOR      TokenType = "for"
	CLASS    TokenType = "class"
	MEASURE  TokenType = "measure"
	FINAL    TokenType = "final"
	RESET    TokenType = "reset"
	PUBLIC   TokenType = "public"
	PRIVATE  TokenType = "private"
	ECHO     TokenType = "echo"

	// Annotation words (only meaningful after '@')
	QUANTUM TokenType = "quantum"
	STATE   TokenType = "state"
	ADJOINT TokenType = "adjoint"
	MEMBERS TokenType = "members"
	METHODS TokenType = "methods"

	// Operators
	ASSIGN   TokenType = "="
	EQ       TokenType = "=="
	BANG     TokenType = "!"
	NOT_EQ   TokenType = "!="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ARROW    TokenType = "->"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	GT       TokenType = ">"
	GT_EQ    TokenType = ">="
	LT       TokenType = "<"
	LT_EQ    TokenType = "<="

	// Delimiters
	SEMICOLON TokenType = ";"
	COMMA     TokenType = ","
	DOT       TokenType = "."
	COLON     TokenType = ":"
	AT        TokenType = "@"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
)

var keywords = map[string]TokenType{
	"int":      TYPE_INT,
	"float":    TYPE_FLOAT,
	"string":   TYPE_STRING,
	"char":     TYPE_CHAR,
	"qubit":    TYPE_QUBIT,
	"bit":      TYPE_BIT,
	"logical":  TYPE_LOGICAL,
	"void":     VOID,
	"function": FUNCTION,
	"import":   IMPORT,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"for":      FOR,
	"class":    CLASS,
	"measure":  MEASURE,
	"final":    FINAL,
	"reset":    RESET,
	"public":   PUBLIC,
	"private":  PRIVATE,
	"quantum":  QUANTUM,
	"state":    STATE,
	"adjoint":  ADJOINT,
	"members":  MEMBERS,
	"methods":  METHODS,
	"echo":     ECHO,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsPrimitiveType reports whether t names one of the primitive type keywords.
func IsPrimitiveType(t TokenType) bool {
	switch t {
	case TYPE_INT, TYPE_FLOAT, TYPE_STRING, TYPE_CHAR, TYPE_QUBIT, TYPE_BIT:
		return true
	}
	return false
}

type Token struct {
	Type   TokenType
	Lexeme string // Raw text as it appears in the source
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}
