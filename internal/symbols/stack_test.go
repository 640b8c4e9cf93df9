package symbols

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestDeclareAndLookup(t *testing.T) {
	s := NewStack[Symbol]()
	s.BeginScope()
	s.Declare("x", Symbol{TypeName: "int"})

	sym, ok := s.Lookup("x")
	be.True(t, ok)
	be.Equal(t, sym.TypeName, "int")
	be.True(t, s.IsDeclared("x"))
	be.True(t, !s.IsDeclared("y"))
}

func TestInnerScopeSeesOuter(t *testing.T) {
	s := NewStack[Symbol]()
	s.BeginScope()
	s.Declare("x", Symbol{IsFinal: true})
	s.BeginScope()

	be.True(t, s.IsDeclared("x"))
	sym, _ := s.Lookup("x")
	be.True(t, sym.IsFinal)
}

func TestNamesVanishWithTheirScope(t *testing.T) {
	s := NewStack[Symbol]()
	s.BeginScope()
	s.BeginScope()
	s.Declare("y", Symbol{})
	s.EndScope()

	be.True(t, !s.IsDeclared("y"))
	be.Equal(t, s.Depth(), 1)
}

func TestLookupIsInnermostFirst(t *testing.T) {
	s := NewStack[int]()
	s.BeginScope()
	s.Declare("v", 1)
	s.BeginScope()
	s.Declare("v", 2)

	v, _ := s.Lookup("v")
	be.Equal(t, v, 2)
	s.EndScope()
	v, _ = s.Lookup("v")
	be.Equal(t, v, 1)
}

func TestDeclareOverwritesTopFrameOnly(t *testing.T) {
	s := NewStack[int]()
	s.BeginScope()
	s.Declare("a", 1)
	s.Declare("b", 2)
	s.Declare("a", 3)

	v, _ := s.Lookup("a")
	be.Equal(t, v, 3)
	be.Equal(t, s.Names(), []string{"a", "b"})
}

func TestAssignTargetsInnermostBinding(t *testing.T) {
	s := NewStack[int]()
	s.BeginScope()
	s.Declare("n", 1)
	s.BeginScope()

	be.True(t, s.Assign("n", 5))
	be.True(t, !s.Assign("missing", 5))
	be.Equal(t, len(s.Names()), 0)

	s.EndScope()
	v, _ := s.Lookup("n")
	be.Equal(t, v, 5)
}

func TestDeclareWithoutScope(t *testing.T) {
	s := NewStack[int]()
	s.Declare("x", 1)
	be.True(t, !s.IsDeclared("x"))
	be.Equal(t, len(s.Names()), 0)
}

func TestEndScopeOnEmptyStackPanics(t *testing.T) {
	defer func() {
		be.True(t, recover() != nil)
	}()
	NewStack[int]().EndScope()
}

func TestSignatureReturnsVoid(t *testing.T) {
	be.True(t, Signature{ReturnType: "void"}.ReturnsVoid())
	be.True(t, !Signature{ReturnType: "bit"}.ReturnsVoid())
	be.True(t, !Signature{}.ReturnsVoid())
}
