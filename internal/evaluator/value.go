package evaluator

import (
	"strconv"

	"github.com/bloch-lang/bloch/internal/config"
)

type ValueType string

const (
	VOID_VAL  ValueType = "VOID"
	INT_VAL   ValueType = "INT"
	FLOAT_VAL ValueType = "FLOAT"
	BIT_VAL   ValueType = "BIT"
	QUBIT_VAL ValueType = "QUBIT"
)

// Value is the tagged runtime value every expression produces. Only the field
// matching Type is meaningful; the zero Value is Void.
type Value struct {
	Type  ValueType
	Int   int
	Float float64
	Bit   int
	qubit int // simulator index, valid only when Type is QUBIT_VAL
}

func Void() Value                { return Value{Type: VOID_VAL} }
func IntValue(n int) Value       { return Value{Type: INT_VAL, Int: n} }
func FloatValue(f float64) Value { return Value{Type: FLOAT_VAL, Float: f} }
func BitValue(b int) Value       { return Value{Type: BIT_VAL, Bit: b} }
func QubitValue(index int) Value { return Value{Type: QUBIT_VAL, qubit: index} }

func (v Value) IsVoid() bool { return v.Type == "" || v.Type == VOID_VAL }

// QubitIndex returns the simulator index of a qubit value, or -1.
func (v Value) QubitIndex() int {
	if v.Type != QUBIT_VAL {
		return -1
	}
	return v.qubit
}

// Truthy reports whether the integer or bit field is non-zero.
func (v Value) Truthy() bool {
	return v.Int != 0 || v.Bit != 0
}

// EchoString is what an echo statement prints: the integer field for Int
// values and the bit field for everything else.
func (v Value) EchoString() string {
	if v.Type == INT_VAL {
		return strconv.Itoa(v.Int)
	}
	return strconv.Itoa(v.Bit)
}

func (v Value) Inspect() string {
	switch v.Type {
	case INT_VAL:
		return strconv.Itoa(v.Int)
	case FLOAT_VAL:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case BIT_VAL:
		return strconv.Itoa(v.Bit) + "b"
	case QUBIT_VAL:
		return "q[" + strconv.Itoa(v.qubit) + "]"
	}
	return "void"
}

// defaultValue is the value of a declaration without initializer.
func defaultValue(typeName string) Value {
	switch typeName {
	case config.IntTypeName:
		return IntValue(0)
	case config.BitTypeName:
		return BitValue(0)
	case config.FloatTypeName:
		return FloatValue(0)
	}
	return Void()
}
