package evaluator

import (
	"fmt"
	"strings"

	"github.com/bloch-lang/bloch/internal/token"
)

// StackFrame is one active user function call at the time of an error.
type StackFrame struct {
	Name   string
	Line   int
	Column int
}

// RuntimeError is a fault the analyser cannot rule out statically, such as
// division by zero or a simulator failure.
type RuntimeError struct {
	Message    string
	Token      token.Token
	StackTrace []StackFrame
	Err        error
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Trace renders the stack, innermost call first.
func (e *RuntimeError) Trace() string {
	if len(e.StackTrace) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Stack trace:")
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		f := e.StackTrace[i]
		fmt.Fprintf(&sb, "\n  at %s (%d:%d)", f.Name, f.Line, f.Column)
	}
	return sb.String()
}

func (e *Evaluator) newError(tok token.Token, format string, args ...any) *RuntimeError {
	return e.wrapError(tok, nil, format, args...)
}

func (e *Evaluator) wrapError(tok token.Token, cause error, format string, args ...any) *RuntimeError {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg += ": " + cause.Error()
	}
	err := &RuntimeError{Message: msg, Token: tok, Err: cause}
	if len(e.callStack) > 0 {
		err.StackTrace = make([]StackFrame, len(e.callStack))
		copy(err.StackTrace, e.callStack)
	}
	return err
}
