// Package diagnostics defines the error values reported by every stage of the
// Bloch pipeline. A diagnostic always carries the source position of the
// offending token.
package diagnostics

import (
	"fmt"

	"github.com/bloch-lang/bloch/internal/token"
)

type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // malformed literal

	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // expected token missing
	ErrP003 ErrorCode = "P003" // invalid type

	// Semantic analysis
	ErrA001 ErrorCode = "A001" // undeclared variable or callee
	ErrA002 ErrorCode = "A002" // variable or parameter redeclared
	ErrA003 ErrorCode = "A003" // assignment to final variable
	ErrA004 ErrorCode = "A004" // wrong argument count
	ErrA005 ErrorCode = "A005" // argument type mismatch
	ErrA006 ErrorCode = "A006" // void function returns a value
	ErrA007 ErrorCode = "A007" // non-void function returns nothing
	ErrA008 ErrorCode = "A008" // invalid @quantum return type
	ErrA009 ErrorCode = "A009" // result of void call assigned
	ErrA010 ErrorCode = "A010" // function or method redeclared

	// Runtime
	ErrR001 ErrorCode = "R001"
)

// Stage returns the pipeline stage that reports errors with this code.
func (c ErrorCode) Stage() string {
	if c == "" {
		return "unknown"
	}
	switch c[0] {
	case 'L':
		return "lexer"
	case 'P':
		return "parser"
	case 'A':
		return "semantic"
	case 'R':
		return "runtime"
	}
	return "unknown"
}

// DiagnosticError is a positioned error produced by the lexer, parser,
// analyzer or evaluator.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...any) *DiagnosticError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

func (e *DiagnosticError) Line() int   { return e.Token.Line }
func (e *DiagnosticError) Column() int { return e.Token.Column }

func (e *DiagnosticError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: [%s] %s", file, e.Token.Line, e.Token.Column, e.Code, e.Message)
}
