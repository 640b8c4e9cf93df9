package qsim

import (
	"fmt"
	"strconv"
	"strings"
)

// Qasm returns the OPENQASM 2.0 program for every operation applied so far.
func (s *Simulator) Qasm() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", s.numQubits)
	fmt.Fprintf(&sb, "creg c[%d];\n", s.numQubits)
	for _, op := range s.ops {
		sb.WriteString(op)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatAngle(theta float64) string {
	return strconv.FormatFloat(theta, 'g', -1, 64)
}
