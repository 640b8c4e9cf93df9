package symbols

import "github.com/bloch-lang/bloch/internal/config"

// Symbol is the analysis-time metadata of a declared variable or parameter.
type Symbol struct {
	IsFinal bool
	// TypeName is a primitive name, "void" or a class name. Empty means the
	// type is unknown and disables type comparison for this symbol.
	TypeName string
}

// Signature is the hoisted shape of a function, method or built-in gate.
type Signature struct {
	ReturnType string   // "void", a primitive name, a class name or "" (unknown)
	ParamTypes []string // "" entries are unchecked
}

func (s Signature) ReturnsVoid() bool {
	return s.ReturnType == config.VoidTypeName
}
