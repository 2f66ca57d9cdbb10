package sim

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"qgridlab/quantum"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// CellKey is the identity of a grid slot in measurement maps and logs.
func CellKey(row, col int) string {
	return fmt.Sprintf("%d:%d", row, col)
}

// MeasurementMap holds measured bits keyed by the "row:col" identity of
// the MEASURE cell that produced them. Cells never reached by a run have
// no entry.
type MeasurementMap map[string]int

// String returns the map as compact JSON.
func (m MeasurementMap) String() string {
	mapJSON, err := jsonIter.Marshal(m)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal measurement map. Reason:%s", err))
		return ""
	}
	return string(mapJSON)
}

// RunRecord is the complete result of one simulation run: one state
// snapshot per column plus every measurement outcome. All fields are
// exported so Clone copies the whole record.
type RunRecord struct {
	ID        string
	NumQubits int
	NumCols   int
	Started   time.Time
	Elapsed   time.Duration
	Snapshots []*quantum.StateVector
	Measured  MeasurementMap
	Warnings  []string
}

// Clone returns a deep copy of the record, so holders can keep it past
// the worker's own use.
func (r *RunRecord) Clone() *RunRecord {
	return deepcopy.Copy(r).(*RunRecord)
}

// Summary projects the record into its JSON-friendly form.
func (r *RunRecord) Summary() *RunSummary {
	s := &RunSummary{
		ID:        r.ID,
		NumQubits: r.NumQubits,
		NumCols:   r.NumCols,
		ElapsedMS: float64(r.Elapsed) / float64(time.Millisecond),
		Measured:  r.Measured,
		Warnings:  r.Warnings,
	}
	for i, snap := range r.Snapshots {
		probs := snap.Probabilities()
		s.Columns = append(s.Columns, ColumnSummary{
			Column:        i,
			Probabilities: probs,
			Total:         floats.Sum(probs),
		})
	}
	return s
}

// ColumnSummary describes one snapshot by its basis-state probabilities.
// Total is their sum; drift from 1 surfaces here.
type ColumnSummary struct {
	Column        int       `json:"column"`
	Probabilities []float64 `json:"probabilities"`
	Total         float64   `json:"total"`
}

// RunSummary is the JSON projection of a RunRecord. Complex amplitudes
// do not marshal, so probabilities stand in for them.
type RunSummary struct {
	ID        string          `json:"id"`
	NumQubits int             `json:"num_qubits"`
	NumCols   int             `json:"num_cols"`
	ElapsedMS float64         `json:"elapsed_ms"`
	Measured  MeasurementMap  `json:"measured"`
	Warnings  []string        `json:"warnings,omitempty"`
	Columns   []ColumnSummary `json:"columns"`
}

// String returns the summary as pretty-printed JSON.
func (s *RunSummary) String() string {
	summaryJSON, err := jsonIter.Marshal(s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal run summary. Reason:%s", err))
		return ""
	}
	return string(pretty.Pretty(summaryJSON))
}
