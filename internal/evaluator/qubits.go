package evaluator

import (
	"github.com/bloch-lang/bloch/internal/token"
)

// TrackedQubit is one row of the qubit table. Once Measured is set it stays
// set; reset does not clear it.
type TrackedQubit struct {
	Name     string
	Measured bool
}

func (e *Evaluator) allocateTrackedQubit(name string) (int, error) {
	index, err := e.sim.AllocateQubit()
	if err != nil {
		return -1, err
	}
	for len(e.qubits) <= index {
		e.qubits = append(e.qubits, TrackedQubit{})
	}
	e.qubits[index] = TrackedQubit{Name: name}
	e.Logger.Debug("qubit allocated", "name", name, "index", index)
	return index, nil
}

func (e *Evaluator) markMeasured(index int) {
	if index >= 0 && index < len(e.qubits) {
		e.qubits[index].Measured = true
	}
}

// measure samples the qubit held by q and marks it measured.
func (e *Evaluator) measure(tok token.Token, q Value) (int, error) {
	index := q.QubitIndex()
	bit, err := e.sim.Measure(index)
	if err != nil {
		return 0, e.wrapError(tok, err, "measurement failed")
	}
	e.markMeasured(index)
	return bit, nil
}

// Qubits returns a copy of the qubit table, indexed by simulator index.
func (e *Evaluator) Qubits() []TrackedQubit {
	out := make([]TrackedQubit, len(e.qubits))
	copy(out, e.qubits)
	return out
}

// WarnUnmeasured reports every qubit that was allocated but never measured,
// logging one warning per qubit. Execute does not call it; the host decides
// whether to.
func (e *Evaluator) WarnUnmeasured() []TrackedQubit {
	var unmeasured []TrackedQubit
	for _, q := range e.qubits {
		if !q.Measured {
			e.Logger.Warn("qubit left unmeasured", "name", q.Name)
			unmeasured = append(unmeasured, q)
		}
	}
	return unmeasured
}
