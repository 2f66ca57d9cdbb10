package sim

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"

	"qgridlab/circuit"
	"qgridlab/quantum"
)

func assertAmplitudes(t *testing.T, want []quantum.Complex, got *quantum.StateVector) {
	t.Helper()
	if !assert.Equal(t, len(want), len(got.Amplitudes)) {
		return
	}
	for i, w := range want {
		assert.LessOrEqual(t, cmplx.Abs(got.Amplitudes[i]-w), 1e-10, "amplitude %d", i)
	}
}

func bellCircuit() circuit.Circuit {
	c := circuit.New(2, 2)
	c = c.WithCell(0, 0, &circuit.Cell{Kind: quantum.GateH})
	c = c.WithCell(0, 1, &circuit.Cell{Kind: quantum.GateCNOT, HasTarget: true, TargetRow: 1})
	c = c.WithCell(1, 1, &circuit.Cell{Kind: quantum.GateCNOT})
	return c
}

func TestRunBellCircuit(t *testing.T) {
	s := NewSimulator(1)
	rec, err := s.Run(bellCircuit(), nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, 2, rec.NumQubits)
	assert.Len(t, rec.Snapshots, 2)
	assert.Empty(t, rec.Warnings)
	assert.Empty(t, rec.Measured)

	h := complex(1.0/math.Sqrt2, 0)
	assertAmplitudes(t, []quantum.Complex{h, h, 0, 0}, rec.Snapshots[0])
	assertAmplitudes(t, []quantum.Complex{h, 0, 0, h}, rec.Snapshots[1])
	for _, snap := range rec.Snapshots {
		assert.InDelta(t, 1.0, snap.Norm(), 1e-9)
	}
}

func TestRunEmptyColumnsCopyStateForward(t *testing.T) {
	c := circuit.New(1, 3)
	c = c.WithCell(0, 1, &circuit.Cell{Kind: quantum.GateH})
	s := NewSimulator(1)

	initial := quantum.StateFromBlochAngles(1, []quantum.BlochAngles{{Theta: math.Pi}})
	rec, err := s.Run(c, initial)
	assert.NoError(t, err)
	assert.Len(t, rec.Snapshots, 3)

	h := complex(1.0/math.Sqrt2, 0)
	assertAmplitudes(t, []quantum.Complex{0, 1}, rec.Snapshots[0])
	assertAmplitudes(t, []quantum.Complex{h, -h}, rec.Snapshots[1])
	assertAmplitudes(t, []quantum.Complex{h, -h}, rec.Snapshots[2])

	// The caller's state is cloned up front and stays untouched.
	assertAmplitudes(t, []quantum.Complex{0, 1}, initial)
}

func TestRunSnapshotsAreIndependent(t *testing.T) {
	c := circuit.New(1, 2).WithCell(0, 0, &circuit.Cell{Kind: quantum.GateX})
	s := NewSimulator(1)
	rec, err := s.Run(c, nil)
	assert.NoError(t, err)

	rec.Snapshots[0].Amplitudes[0] = 42
	assertAmplitudes(t, []quantum.Complex{0, 1}, rec.Snapshots[1])
}

func TestRunRecordsMeasurementsByCell(t *testing.T) {
	c := circuit.New(1, 2).WithCell(0, 1, &circuit.Cell{Kind: quantum.GateMeasure})
	s := NewSimulator(1)

	initial := quantum.StateFromBlochAngles(1, []quantum.BlochAngles{{Theta: math.Pi}})
	rec, err := s.Run(c, initial)
	assert.NoError(t, err)
	assert.Equal(t, MeasurementMap{"0:1": 1}, rec.Measured)
	assertAmplitudes(t, []quantum.Complex{0, 1}, rec.Snapshots[1])
}

func TestRunSkipsMalformedCNOT(t *testing.T) {
	tests := []struct {
		name string
		circ circuit.Circuit
	}{
		{
			"self target",
			circuit.New(2, 1).WithCell(0, 0, &circuit.Cell{Kind: quantum.GateCNOT, HasTarget: true, TargetRow: 0}),
		},
		{
			"target outside grid",
			circuit.New(2, 1).WithCell(0, 0, &circuit.Cell{Kind: quantum.GateCNOT, HasTarget: true, TargetRow: 5}),
		},
		{
			"orphan target half",
			circuit.New(2, 1).WithCell(1, 0, &circuit.Cell{Kind: quantum.GateCNOT}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSimulator(1)
			rec, err := s.Run(tt.circ, nil)
			assert.NoError(t, err)
			assert.Len(t, rec.Snapshots, 1)
			assertAmplitudes(t, []quantum.Complex{1, 0, 0, 0}, rec.Snapshots[0])
			assert.NotEmpty(t, rec.Warnings)
		})
	}
}

func TestRunQubitCountMismatch(t *testing.T) {
	s := NewSimulator(1)
	initial := quantum.NewStateVector(3)
	_, err := s.Run(bellCircuit(), initial)
	assert.Error(t, err)
}

func TestRunSameSeedSameOutcomes(t *testing.T) {
	c := circuit.New(2, 2)
	c = c.WithCell(0, 0, &circuit.Cell{Kind: quantum.GateH})
	c = c.WithCell(1, 0, &circuit.Cell{Kind: quantum.GateH})
	c = c.WithCell(0, 1, &circuit.Cell{Kind: quantum.GateMeasure})
	c = c.WithCell(1, 1, &circuit.Cell{Kind: quantum.GateMeasure})

	recA, err := NewSimulator(7).Run(c, nil)
	assert.NoError(t, err)
	recB, err := NewSimulator(7).Run(c, nil)
	assert.NoError(t, err)
	assert.Equal(t, recA.Measured, recB.Measured)
}

func TestRunRecordClone(t *testing.T) {
	s := NewSimulator(1)
	rec, err := s.Run(bellCircuit(), nil)
	assert.NoError(t, err)

	clone := rec.Clone()
	assert.Equal(t, rec.ID, clone.ID)
	assert.Equal(t, rec.Snapshots[1].Amplitudes, clone.Snapshots[1].Amplitudes)

	clone.Snapshots[1].Amplitudes[0] = 42
	clone.Measured["9:9"] = 1
	assert.NotEqual(t, rec.Snapshots[1].Amplitudes[0], clone.Snapshots[1].Amplitudes[0])
	assert.NotContains(t, rec.Measured, "9:9")
}

func TestRunSummary(t *testing.T) {
	s := NewSimulator(1)
	rec, err := s.Run(bellCircuit(), nil)
	assert.NoError(t, err)

	sum := rec.Summary()
	assert.Equal(t, rec.ID, sum.ID)
	assert.Len(t, sum.Columns, 2)
	for _, col := range sum.Columns {
		assert.InDelta(t, 1.0, col.Total, 1e-9)
	}

	var decoded map[string]interface{}
	assert.NoError(t, jsonIter.Unmarshal([]byte(sum.String()), &decoded))
	assert.Equal(t, rec.ID, decoded["id"])
}

func TestCellKey(t *testing.T) {
	assert.Equal(t, "2:5", CellKey(2, 5))
}
