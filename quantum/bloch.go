package quantum

import "math"

// BlochAngles fixes one qubit's pure state by its Bloch-sphere angles:
// theta is the polar angle from |0>, phi the azimuthal phase.
type BlochAngles struct {
	Theta float64
	Phi   float64
}

// Amplitudes returns the qubit's local state (alpha, beta) where
// alpha = cos(theta/2) and beta = sin(theta/2) * e^(i*phi).
func (a BlochAngles) Amplitudes() (Complex, Complex) {
	alpha := complex(math.Cos(a.Theta/2), 0)
	beta := complex(math.Sin(a.Theta/2)*math.Cos(a.Phi), math.Sin(a.Theta/2)*math.Sin(a.Phi))
	return alpha, beta
}

// StateFromBlochAngles builds the tensor product of numQubits independent
// qubits. Qubits beyond len(angles) default to theta=0, phi=0, which is
// |0>. Basis index i takes qubit q's beta amplitude when bit q of i is
// set and alpha otherwise.
func StateFromBlochAngles(numQubits int, angles []BlochAngles) *StateVector {
	alphas := make([]Complex, numQubits)
	betas := make([]Complex, numQubits)
	for q := range numQubits {
		var a BlochAngles
		if q < len(angles) {
			a = angles[q]
		}
		alphas[q], betas[q] = a.Amplitudes()
	}

	size := 1 << numQubits
	amplitudes := make([]Complex, size)
	for i := range size {
		amp := complex(1, 0)
		for q := range numQubits {
			if i&(1<<q) != 0 {
				amp *= betas[q]
			} else {
				amp *= alphas[q]
			}
		}
		amplitudes[i] = amp
	}
	return &StateVector{Amplitudes: amplitudes, NumQubits: numQubits}
}
