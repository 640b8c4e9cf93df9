package qsim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultMaxQubits caps the state vector at 2^20 amplitudes.
const DefaultMaxQubits = 20

var (
	ErrInvalidQubit  = errors.New("invalid qubit index")
	ErrCapacity      = errors.New("qubit capacity exceeded")
	ErrSameQubit     = errors.New("control and target must differ")
	ErrZeroAmplitude = errors.New("measurement on a zero state")
)

type Options struct {
	MaxQubits int // <= 0 means DefaultMaxQubits
	Seed      uint64
}

// Simulator is a dense state-vector simulator. Qubit i is bit i of the basis
// state index, so a newly allocated qubit becomes the high bit. A Simulator
// must not be shared between goroutines.
type Simulator struct {
	amps      []complex128
	numQubits int
	maxQubits int
	rng       *rand.Rand
	ops       []string // QASM instruction lines
}

func New(opts Options) *Simulator {
	maxQubits := opts.MaxQubits
	if maxQubits <= 0 {
		maxQubits = DefaultMaxQubits
	}
	return &Simulator{
		amps:      []complex128{1},
		maxQubits: maxQubits,
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
}

func (s *Simulator) NumQubits() int { return s.numQubits }

// AllocateQubit adds a qubit in state |0> and returns its index.
func (s *Simulator) AllocateQubit() (int, error) {
	if s.numQubits >= s.maxQubits {
		return -1, fmt.Errorf("%w: limit is %d", ErrCapacity, s.maxQubits)
	}
	grown := make([]complex128, len(s.amps)*2)
	copy(grown, s.amps)
	s.amps = grown
	s.numQubits++
	return s.numQubits - 1, nil
}

func (s *Simulator) check(q int) error {
	if q < 0 || q >= s.numQubits {
		return fmt.Errorf("%w: %d (allocated: %d)", ErrInvalidQubit, q, s.numQubits)
	}
	return nil
}

// apply multiplies qubit q by the 2x2 unitary [[u00 u01] [u10 u11]].
func (s *Simulator) apply(q int, u00, u01, u10, u11 complex128) {
	mask := 1 << q
	for i := range s.amps {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a0, a1 := s.amps[i], s.amps[j]
		s.amps[i] = u00*a0 + u01*a1
		s.amps[j] = u10*a0 + u11*a1
	}
}

func (s *Simulator) gate(name string, q int, u00, u01, u10, u11 complex128) error {
	if err := s.check(q); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	s.apply(q, u00, u01, u10, u11)
	s.ops = append(s.ops, fmt.Sprintf("%s q[%d];", name, q))
	return nil
}

func (s *Simulator) rotation(name string, q int, theta float64, u00, u01, u10, u11 complex128) error {
	if err := s.check(q); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	s.apply(q, u00, u01, u10, u11)
	s.ops = append(s.ops, fmt.Sprintf("%s(%s) q[%d];", name, formatAngle(theta), q))
	return nil
}

func (s *Simulator) H(q int) error {
	r := complex(1/math.Sqrt2, 0)
	return s.gate("h", q, r, r, r, -r)
}

func (s *Simulator) X(q int) error { return s.gate("x", q, 0, 1, 1, 0) }
func (s *Simulator) Y(q int) error { return s.gate("y", q, 0, -1i, 1i, 0) }
func (s *Simulator) Z(q int) error { return s.gate("z", q, 1, 0, 0, -1) }

func (s *Simulator) RX(q int, theta float64) error {
	c, sn := halfAngle(theta)
	return s.rotation("rx", q, theta, complex(c, 0), complex(0, -sn), complex(0, -sn), complex(c, 0))
}

func (s *Simulator) RY(q int, theta float64) error {
	c, sn := halfAngle(theta)
	return s.rotation("ry", q, theta, complex(c, 0), complex(-sn, 0), complex(sn, 0), complex(c, 0))
}

func (s *Simulator) RZ(q int, theta float64) error {
	c, sn := halfAngle(theta)
	return s.rotation("rz", q, theta, complex(c, -sn), 0, 0, complex(c, sn))
}

func halfAngle(theta float64) (float64, float64) {
	return math.Cos(theta / 2), math.Sin(theta / 2)
}

// CX flips target wherever control is |1>.
func (s *Simulator) CX(control, target int) error {
	if err := s.check(control); err != nil {
		return fmt.Errorf("cx: %w", err)
	}
	if err := s.check(target); err != nil {
		return fmt.Errorf("cx: %w", err)
	}
	if control == target {
		return fmt.Errorf("cx: %w", ErrSameQubit)
	}

	cmask, tmask := 1<<control, 1<<target
	for i := range s.amps {
		if i&cmask != 0 && i&tmask == 0 {
			j := i | tmask
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
	s.ops = append(s.ops, fmt.Sprintf("cx q[%d],q[%d];", control, target))
	return nil
}

// Measure samples qubit q in the computational basis and collapses the state.
func (s *Simulator) Measure(q int) (int, error) {
	if err := s.check(q); err != nil {
		return 0, fmt.Errorf("measure: %w", err)
	}

	mask := 1 << q
	var p1 float64
	for i, a := range s.amps {
		if i&mask != 0 {
			p1 += norm(a)
		}
	}

	bit := 0
	if s.rng.Float64() < p1 {
		bit = 1
	}
	p := p1
	if bit == 0 {
		p = 1 - p1
	}
	if p <= 0 {
		return 0, fmt.Errorf("measure: %w", ErrZeroAmplitude)
	}

	scale := complex(1/math.Sqrt(p), 0)
	for i := range s.amps {
		if (i&mask != 0) == (bit == 1) {
			s.amps[i] *= scale
		} else {
			s.amps[i] = 0
		}
	}

	s.ops = append(s.ops, fmt.Sprintf("measure q[%d] -> c[%d];", q, q))
	return bit, nil
}

// Probabilities returns the Born probability of every basis state.
func (s *Simulator) Probabilities() []float64 {
	out := make([]float64, len(s.amps))
	for i, a := range s.amps {
		out[i] = norm(a)
	}
	return out
}

func norm(a complex128) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}
