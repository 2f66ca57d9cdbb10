package quantum

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestNewMatrix(t *testing.T) {
	m, err := NewMatrix(2, 3, []Complex{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("NewMatrix returned error: %v", err)
	}
	if m.At(0, 2) != 3 || m.At(1, 0) != 4 {
		t.Errorf("At returned wrong elements: got %v and %v, want 3 and 4", m.At(0, 2), m.At(1, 0))
	}

	if _, err := NewMatrix(2, 2, []Complex{1, 2, 3}); err == nil {
		t.Errorf("expected error for data length 3 with shape 2x2")
	}
	if _, err := NewMatrix(0, 2, nil); err == nil {
		t.Errorf("expected error for zero-row shape")
	}
}

func TestMatrixMul(t *testing.T) {
	a, _ := NewMatrix(2, 2, []Complex{1, 2, 3, 4})
	b, _ := NewMatrix(2, 2, []Complex{5, 6, 7, 8})
	got, err := a.Mul(b)
	if err != nil {
		t.Fatalf("Mul returned error: %v", err)
	}
	want := []Complex{19, 22, 43, 50}
	for i, w := range want {
		if got.Data[i] != w {
			t.Errorf("product[%d] = %v, want %v", i, got.Data[i], w)
		}
	}
}

func TestMatrixMulRectangular(t *testing.T) {
	a, _ := NewMatrix(2, 3, []Complex{1, 0, 2, 0, 3, 0})
	b, _ := NewMatrix(3, 1, []Complex{4, 5, 6})
	got, err := a.Mul(b)
	if err != nil {
		t.Fatalf("Mul returned error: %v", err)
	}
	if got.Rows != 2 || got.Cols != 1 {
		t.Fatalf("product shape = %dx%d, want 2x1", got.Rows, got.Cols)
	}
	if got.Data[0] != 16 || got.Data[1] != 15 {
		t.Errorf("product = %v, want [16 15]", got.Data)
	}
}

func TestMatrixMulShapeMismatch(t *testing.T) {
	a, _ := NewMatrix(2, 3, make([]Complex, 6))
	b, _ := NewMatrix(2, 2, make([]Complex, 4))
	if _, err := a.Mul(b); err == nil {
		t.Errorf("expected error multiplying 2x3 by 2x2")
	}
}

func TestGateMatrixEntries(t *testing.T) {
	h := 1.0 / math.Sqrt2
	tests := []struct {
		kind GateKind
		want []Complex
	}{
		{GateH, []Complex{complex(h, 0), complex(h, 0), complex(h, 0), complex(-h, 0)}},
		{GateX, []Complex{0, 1, 1, 0}},
		{GateY, []Complex{0, -1i, 1i, 0}},
		{GateZ, []Complex{1, 0, 0, -1}},
	}
	for _, tt := range tests {
		m := GateMatrix(tt.kind)
		if m == nil {
			t.Fatalf("GateMatrix(%s) = nil, want a 2x2 matrix", tt.kind)
		}
		if m.Rows != 2 || m.Cols != 2 {
			t.Fatalf("GateMatrix(%s) shape = %dx%d, want 2x2", tt.kind, m.Rows, m.Cols)
		}
		for i, w := range tt.want {
			if cmplx.Abs(m.Data[i]-w) > 1e-12 {
				t.Errorf("GateMatrix(%s).Data[%d] = %v, want %v", tt.kind, i, m.Data[i], w)
			}
		}
	}
}

func TestGateMatrixNonUnitaryKinds(t *testing.T) {
	for _, kind := range []GateKind{GateMeasure, GateCNOT, GateKind("BOGUS")} {
		if m := GateMatrix(kind); m != nil {
			t.Errorf("GateMatrix(%s) = %v, want nil", kind, m)
		}
	}
}

func TestGateMatrixSelfInverse(t *testing.T) {
	for _, kind := range []GateKind{GateH, GateX, GateY, GateZ} {
		m := GateMatrix(kind)
		sq, err := m.Mul(m)
		if err != nil {
			t.Fatalf("Mul returned error for %s: %v", kind, err)
		}
		identity := []Complex{1, 0, 0, 1}
		for i, w := range identity {
			if cmplx.Abs(sq.Data[i]-w) > 1e-12 {
				t.Errorf("%s squared [%d] = %v, want %v", kind, i, sq.Data[i], w)
			}
		}
	}
}
