package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"qgridlab/circuit"
	"qgridlab/quantum"
)

// Simulator executes circuits column by column. The held rand source
// supplies the measurement draws; everything else is deterministic, so a
// fixed seed reproduces a whole session.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator creates a simulator. Seed 0 (or below) draws the seed
// from the wall clock.
func NewSimulator(seed int64) *Simulator {
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Run simulates the circuit from the given initial state and returns a
// record holding one snapshot per column plus all measurement outcomes.
// A nil initial state means |00...0>. The caller's state is cloned up
// front and never touched. Any engine error aborts the run; partial
// results are discarded.
func (s *Simulator) Run(circ circuit.Circuit, initial *quantum.StateVector) (*RunRecord, error) {
	if initial == nil {
		initial = quantum.NewStateVector(circ.NumQubits)
	}
	if initial.NumQubits != circ.NumQubits {
		return nil, fmt.Errorf("initial state has %d qubits, circuit has %d", initial.NumQubits, circ.NumQubits)
	}

	started := time.Now()
	state := initial.Clone()
	rec := &RunRecord{
		ID:        uuid.New().String(),
		NumQubits: circ.NumQubits,
		NumCols:   circ.NumCols,
		Started:   started,
		Measured:  MeasurementMap{},
		Warnings:  circ.Validate(),
	}
	for col := range circ.NumCols {
		if err := s.applyColumn(circ, state, col, rec); err != nil {
			return nil, err
		}
		rec.Snapshots = append(rec.Snapshots, state.Clone())
	}
	rec.Elapsed = time.Since(started)
	zap.L().Debug(fmt.Sprintf("run %s finished in %s", rec.ID, rec.Elapsed))
	return rec, nil
}

// applyColumn advances the working state through one column. Each column
// runs in three phases: single-qubit unitaries, then CNOT pairs, then
// measurements, each by increasing row.
func (s *Simulator) applyColumn(circ circuit.Circuit, state *quantum.StateVector, col int, rec *RunRecord) error {
	for row := range circ.NumQubits {
		cell := circ.CellAt(row, col)
		if cell == nil {
			continue
		}
		m := quantum.GateMatrix(cell.Kind)
		if m == nil {
			continue
		}
		if err := state.ApplySingleQubitGate(row, m); err != nil {
			return fmt.Errorf("column %d: %w", col, err)
		}
	}

	for row := range circ.NumQubits {
		cell := circ.CellAt(row, col)
		if cell == nil || cell.Kind != quantum.GateCNOT || !cell.HasTarget {
			continue
		}
		target := cell.TargetRow
		if target == row || target < 0 || target >= circ.NumQubits {
			zap.L().Debug(fmt.Sprintf("skipping malformed cnot at %s", CellKey(row, col)))
			continue
		}
		if err := state.ApplyCNOT(row, target); err != nil {
			return fmt.Errorf("column %d: %w", col, err)
		}
	}

	for row := range circ.NumQubits {
		cell := circ.CellAt(row, col)
		if cell == nil || cell.Kind != quantum.GateMeasure {
			continue
		}
		res, err := state.MeasureQubit(row, s.rng.Float64)
		if err != nil {
			return fmt.Errorf("column %d: %w", col, err)
		}
		rec.Measured[CellKey(row, col)] = res.Bit
	}
	return nil
}
