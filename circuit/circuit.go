package circuit

import (
	"fmt"

	"qgridlab/quantum"
)

// Cell is one occupied slot in the circuit grid. For CNOT the control
// half carries HasTarget plus TargetRow; the paired half on the target
// row is a CNOT cell with HasTarget false. Other kinds ignore both
// fields.
type Cell struct {
	Kind      quantum.GateKind
	Row       int
	Col       int
	HasTarget bool
	TargetRow int
}

// Circuit is a fixed-size grid of nullable gate cells: one row per
// qubit, one column per time step. Edits return new circuits; a Circuit
// value is never mutated once built, so held copies stay valid.
type Circuit struct {
	NumQubits int
	NumCols   int
	grid      [][]*Cell
}

// New creates an empty circuit grid.
func New(numQubits, numCols int) Circuit {
	grid := make([][]*Cell, numQubits)
	for r := range grid {
		grid[r] = make([]*Cell, numCols)
	}
	return Circuit{NumQubits: numQubits, NumCols: numCols, grid: grid}
}

func (c Circuit) inRange(row, col int) bool {
	return row >= 0 && row < c.NumQubits && col >= 0 && col < c.NumCols
}

// CellAt returns the cell at row, col, or nil when the slot is empty or
// out of range.
func (c Circuit) CellAt(row, col int) *Cell {
	if !c.inRange(row, col) {
		return nil
	}
	return c.grid[row][col]
}

// WithCell returns a copy of the circuit with the slot at row, col set
// to cell; nil clears the slot. The stored cell's Row and Col are
// rewritten to the addressed slot. An out-of-range slot returns the
// circuit unchanged. No validity checks happen here: inconsistent CNOT
// halves are accepted and left to Validate and the simulator.
func (c Circuit) WithCell(row, col int, cell *Cell) Circuit {
	if !c.inRange(row, col) {
		return c
	}
	next := c.copyGrid()
	if cell == nil {
		next.grid[row][col] = nil
		return next
	}
	stored := *cell
	stored.Row = row
	stored.Col = col
	next.grid[row][col] = &stored
	return next
}

// WithQubits returns a copy resized to n qubit rows, keeping cells that
// stay in range. Controls whose target row is cut off become malformed
// and are reported by Validate.
func (c Circuit) WithQubits(n int) Circuit {
	if n < 1 || n == c.NumQubits {
		return c
	}
	next := New(n, c.NumCols)
	for r := range min(n, c.NumQubits) {
		copy(next.grid[r], c.grid[r])
	}
	return next
}

// WithColumns returns a copy resized to n columns, keeping cells that
// stay in range.
func (c Circuit) WithColumns(n int) Circuit {
	if n < 1 || n == c.NumCols {
		return c
	}
	next := New(c.NumQubits, n)
	for r := range c.grid {
		copy(next.grid[r], c.grid[r])
	}
	return next
}

func (c Circuit) copyGrid() Circuit {
	grid := make([][]*Cell, c.NumQubits)
	for r := range c.grid {
		grid[r] = make([]*Cell, c.NumCols)
		copy(grid[r], c.grid[r])
	}
	return Circuit{NumQubits: c.NumQubits, NumCols: c.NumCols, grid: grid}
}

// Validate reports advisory warnings for cells the simulator will skip,
// currently the malformed CNOT shapes. The grid itself accepts any cell.
func (c Circuit) Validate() []string {
	var warnings []string
	for col := range c.NumCols {
		targeted := make(map[int]bool)
		for row := range c.NumQubits {
			cell := c.grid[row][col]
			if cell == nil || cell.Kind != quantum.GateCNOT || !cell.HasTarget {
				continue
			}
			switch {
			case cell.TargetRow == row:
				warnings = append(warnings, fmt.Sprintf("cnot at %d:%d targets its own row", row, col))
			case cell.TargetRow < 0 || cell.TargetRow >= c.NumQubits:
				warnings = append(warnings, fmt.Sprintf("cnot at %d:%d targets row %d, outside the grid", row, col, cell.TargetRow))
			default:
				targeted[cell.TargetRow] = true
			}
		}
		for row := range c.NumQubits {
			cell := c.grid[row][col]
			if cell != nil && cell.Kind == quantum.GateCNOT && !cell.HasTarget && !targeted[row] {
				warnings = append(warnings, fmt.Sprintf("cnot target at %d:%d has no control", row, col))
			}
		}
	}
	return warnings
}

// Info describes what occupies a slot for rendering: the cell itself
// plus how CNOT verticals pass through or terminate at this row.
type Info struct {
	Cell        *Cell
	IsControl   bool
	IsTarget    bool
	VertAbove   bool
	VertBelow   bool
	PassThrough bool
}

// Info returns render information for the slot at row, col. Only
// well-formed CNOT pairs contribute verticals, matching what the
// simulator will actually apply.
func (c Circuit) Info(row, col int) Info {
	info := Info{Cell: c.CellAt(row, col)}
	if !c.inRange(row, col) {
		return info
	}
	for r := range c.NumQubits {
		cell := c.grid[r][col]
		if cell == nil || cell.Kind != quantum.GateCNOT || !cell.HasTarget {
			continue
		}
		t := cell.TargetRow
		if t == r || t < 0 || t >= c.NumQubits {
			continue
		}
		if r == row {
			info.IsControl = true
		}
		if t == row {
			info.IsTarget = true
		}
		lo, hi := min(r, t), max(r, t)
		if row >= lo && row < hi {
			info.VertBelow = true
		}
		if row > lo && row <= hi {
			info.VertAbove = true
		}
		if row > lo && row < hi && info.Cell == nil {
			info.PassThrough = true
		}
	}
	return info
}
