package builtins

import (
	"sort"

	"github.com/bloch-lang/bloch/internal/config"
	"github.com/bloch-lang/bloch/internal/symbols"
)

// Gate describes a built-in quantum gate as seen by both the analyser and
// the evaluator.
type Gate struct {
	Name       string
	ParamTypes []string
	ReturnType string
}

func (g Gate) Signature() symbols.Signature {
	return symbols.Signature{ReturnType: g.ReturnType, ParamTypes: g.ParamTypes}
}

const (
	qubit = config.QubitTypeName
	float = config.FloatTypeName
	void  = config.VoidTypeName
)

var gates = map[string]Gate{
	"h":  {Name: "h", ParamTypes: []string{qubit}, ReturnType: void},
	"x":  {Name: "x", ParamTypes: []string{qubit}, ReturnType: void},
	"y":  {Name: "y", ParamTypes: []string{qubit}, ReturnType: void},
	"z":  {Name: "z", ParamTypes: []string{qubit}, ReturnType: void},
	"rx": {Name: "rx", ParamTypes: []string{qubit, float}, ReturnType: void},
	"ry": {Name: "ry", ParamTypes: []string{qubit, float}, ReturnType: void},
	"rz": {Name: "rz", ParamTypes: []string{qubit, float}, ReturnType: void},
	"cx": {Name: "cx", ParamTypes: []string{qubit, qubit}, ReturnType: void},
}

// Lookup returns the gate registered under name.
func Lookup(name string) (Gate, bool) {
	g, ok := gates[name]
	return g, ok
}

func IsGate(name string) bool {
	_, ok := gates[name]
	return ok
}

// Names returns the gate names in sorted order.
func Names() []string {
	names := make([]string, 0, len(gates))
	for name := range gates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
