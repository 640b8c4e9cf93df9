package builtins

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestGateTable(t *testing.T) {
	tests := []struct {
		name   string
		params []string
	}{
		{"h", []string{"qubit"}},
		{"x", []string{"qubit"}},
		{"y", []string{"qubit"}},
		{"z", []string{"qubit"}},
		{"rx", []string{"qubit", "float"}},
		{"ry", []string{"qubit", "float"}},
		{"rz", []string{"qubit", "float"}},
		{"cx", []string{"qubit", "qubit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := Lookup(tt.name)
			be.True(t, ok)
			be.Equal(t, g.ParamTypes, tt.params)
			be.Equal(t, g.ReturnType, "void")
			be.True(t, g.Signature().ReturnsVoid())
		})
	}
	be.Equal(t, len(Names()), len(tests))
}

func TestUnknownGate(t *testing.T) {
	_, ok := Lookup("ccx")
	be.True(t, !ok)
	be.True(t, !IsGate("main"))
	be.True(t, IsGate("cx"))
}
