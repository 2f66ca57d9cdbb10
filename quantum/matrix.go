package quantum

import (
	"fmt"
	"math"
)

// Complex is an alias for Go's native complex128 type.
type Complex = complex128

// Matrix is a dense complex matrix stored in row-major order.
type Matrix struct {
	Rows int
	Cols int
	Data []Complex
}

// NewMatrix builds a rows x cols matrix from row-major data.
func NewMatrix(rows, cols int, data []Complex) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid matrix shape %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("matrix data holds %d values, want %d for shape %dx%d", len(data), rows*cols, rows, cols)
	}
	return &Matrix{Rows: rows, Cols: cols, Data: data}, nil
}

// At returns the element at row r, column c.
func (m *Matrix) At(r, c int) Complex {
	return m.Data[r*m.Cols+c]
}

// Mul returns the matrix product of m and other. The inner dimensions
// must agree.
func (m *Matrix) Mul(other *Matrix) (*Matrix, error) {
	if m.Cols != other.Rows {
		return nil, fmt.Errorf("cannot multiply %dx%d by %dx%d", m.Rows, m.Cols, other.Rows, other.Cols)
	}
	out := &Matrix{Rows: m.Rows, Cols: other.Cols, Data: make([]Complex, m.Rows*other.Cols)}
	for r := range m.Rows {
		for c := range other.Cols {
			var sum Complex
			for k := range m.Cols {
				sum += m.At(r, k) * other.At(k, c)
			}
			out.Data[r*out.Cols+c] = sum
		}
	}
	return out, nil
}

// GateKind identifies a placeable gate.
type GateKind string

const (
	GateH       GateKind = "H"
	GateX       GateKind = "X"
	GateY       GateKind = "Y"
	GateZ       GateKind = "Z"
	GateMeasure GateKind = "MEASURE"
	GateCNOT    GateKind = "CNOT"
)

// GateMatrix returns a fresh 2x2 matrix for a single-qubit gate kind.
// MEASURE and CNOT are not single-qubit unitaries and yield nil, as does
// any unknown kind.
func GateMatrix(kind GateKind) *Matrix {
	switch kind {
	case GateH:
		hFactor := complex(1.0/math.Sqrt2, 0)
		return &Matrix{Rows: 2, Cols: 2, Data: []Complex{hFactor, hFactor, hFactor, -hFactor}}
	case GateX:
		return &Matrix{Rows: 2, Cols: 2, Data: []Complex{0, 1, 1, 0}}
	case GateY:
		return &Matrix{Rows: 2, Cols: 2, Data: []Complex{0, -1i, 1i, 0}}
	case GateZ:
		return &Matrix{Rows: 2, Cols: 2, Data: []Complex{1, 0, 0, -1}}
	default:
		return nil
	}
}
