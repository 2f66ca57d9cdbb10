package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// StateVector represents the quantum state of n qubits as 2^n complex
// amplitudes. Basis index i carries qubit q's value at bit position q,
// so qubit 0 is the least significant bit.
type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

// NewStateVector creates a state vector initialized to |00...0>.
func NewStateVector(numQubits int) *StateVector {
	size := 1 << numQubits
	amplitudes := make([]Complex, size)
	amplitudes[0] = 1
	return &StateVector{Amplitudes: amplitudes, NumQubits: numQubits}
}

// Clone returns a deep copy of the state vector.
func (s *StateVector) Clone() *StateVector {
	amplitudes := make([]Complex, len(s.Amplitudes))
	copy(amplitudes, s.Amplitudes)
	return &StateVector{Amplitudes: amplitudes, NumQubits: s.NumQubits}
}

// Norm returns the total squared magnitude of the state.
func (s *StateVector) Norm() float64 {
	total := 0.0
	for _, amp := range s.Amplitudes {
		total += real(amp * cmplx.Conj(amp))
	}
	return total
}

// Probabilities returns the squared magnitude of every basis amplitude.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, amp := range s.Amplitudes {
		probs[i] = real(amp * cmplx.Conj(amp))
	}
	return probs
}

// QubitProbability returns the probability of measuring the given qubit as 1.
func (s *StateVector) QubitProbability(qubit int) float64 {
	prob := 0.0
	bit := 1 << qubit
	for i, amp := range s.Amplitudes {
		if i&bit != 0 {
			prob += real(amp * cmplx.Conj(amp))
		}
	}
	return prob
}

// GetQubitProbabilities returns the probability of measuring each qubit as 1.
func (s *StateVector) GetQubitProbabilities() []float64 {
	probs := make([]float64, s.NumQubits)
	for q := range s.NumQubits {
		probs[q] = s.QubitProbability(q)
	}
	return probs
}

// ApplySingleQubitGate applies a 2x2 gate matrix to one qubit, updating
// the amplitudes in place. Every basis-state pair differing only in the
// target bit is visited exactly once.
func (s *StateVector) ApplySingleQubitGate(qubit int, m *Matrix) error {
	if m == nil {
		return fmt.Errorf("single-qubit gate requires a 2x2 matrix, got none")
	}
	if m.Rows != 2 || m.Cols != 2 {
		return fmt.Errorf("single-qubit gate requires a 2x2 matrix, got %dx%d", m.Rows, m.Cols)
	}
	if qubit < 0 || qubit >= s.NumQubits {
		return fmt.Errorf("qubit %d out of range for %d-qubit state", qubit, s.NumQubits)
	}
	bit := 1 << qubit
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a0 := s.Amplitudes[i]
			a1 := s.Amplitudes[j]
			s.Amplitudes[i] = m.At(0, 0)*a0 + m.At(0, 1)*a1
			s.Amplitudes[j] = m.At(1, 0)*a0 + m.At(1, 1)*a1
		}
	}
	return nil
}

// ApplyCNOT flips the target bit of every basis state whose control bit
// is set. The permuted amplitudes are placed into a fresh array so no
// value is read after its slot has been overwritten, then swapped in
// wholesale.
func (s *StateVector) ApplyCNOT(control, target int) error {
	if control == target {
		return fmt.Errorf("cnot control and target must differ, got qubit %d twice", control)
	}
	if control < 0 || control >= s.NumQubits {
		return fmt.Errorf("cnot control %d out of range for %d-qubit state", control, s.NumQubits)
	}
	if target < 0 || target >= s.NumQubits {
		return fmt.Errorf("cnot target %d out of range for %d-qubit state", target, s.NumQubits)
	}
	controlBit := 1 << control
	targetBit := 1 << target
	next := make([]Complex, len(s.Amplitudes))
	for i, amp := range s.Amplitudes {
		if i&controlBit != 0 {
			next[i^targetBit] = amp
		} else {
			next[i] = amp
		}
	}
	s.Amplitudes = next
	return nil
}

// MeasurementResult records one projective measurement outcome.
type MeasurementResult struct {
	Qubit int
	Bit   int
	Prob0 float64
	Prob1 float64
}

// MeasureQubit measures one qubit in the computational basis, collapsing
// the state onto the observed outcome and renormalizing in place. draw
// supplies the single uniform sample in [0, 1) that decides the outcome;
// it is the only source of randomness in the engine.
func (s *StateVector) MeasureQubit(qubit int, draw func() float64) (*MeasurementResult, error) {
	if qubit < 0 || qubit >= s.NumQubits {
		return nil, fmt.Errorf("qubit %d out of range for %d-qubit state", qubit, s.NumQubits)
	}
	if len(s.Amplitudes) != 1<<s.NumQubits {
		return nil, fmt.Errorf("state vector holds %d amplitudes, want %d for %d qubits",
			len(s.Amplitudes), 1<<s.NumQubits, s.NumQubits)
	}

	bit := 1 << qubit
	prob0 := 0.0
	prob1 := 0.0
	for i, amp := range s.Amplitudes {
		p := real(amp * cmplx.Conj(amp))
		if i&bit == 0 {
			prob0 += p
		} else {
			prob1 += p
		}
	}
	total := prob0 + prob1
	if total == 0 {
		prob0, prob1 = 1, 0
	} else {
		prob0 /= total
		prob1 /= total
	}

	outcome := 1
	if draw() < prob0 {
		outcome = 0
	}

	normSquared := 0.0
	for i, amp := range s.Amplitudes {
		observed := 0
		if i&bit != 0 {
			observed = 1
		}
		if observed != outcome {
			s.Amplitudes[i] = 0
		} else {
			normSquared += real(amp * cmplx.Conj(amp))
		}
	}
	factor := complex(1, 0)
	if normSquared > 0 {
		factor = complex(1/math.Sqrt(normSquared), 0)
	}
	for i := range s.Amplitudes {
		s.Amplitudes[i] *= factor
	}

	return &MeasurementResult{Qubit: qubit, Bit: outcome, Prob0: prob0, Prob1: prob1}, nil
}
