package main

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"qgridlab/circuit"
	"qgridlab/quantum"
	"qgridlab/sim"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns a short display name for a gate kind.
func gateDisplayName(kind quantum.GateKind) string {
	switch kind {
	case quantum.GateMeasure:
		return "M"
	default:
		return string(kind)
	}
}

// basisLabel prints a basis index with qubit 0 as the leftmost character.
func basisLabel(index, numQubits int) string {
	b := make([]byte, numQubits)
	for q := range numQubits {
		b[q] = '0'
		if index&(1<<q) != 0 {
			b[q] = '1'
		}
	}
	return string(b)
}

// formatAmp prints one complex amplitude, dropping a negligible imaginary part.
func formatAmp(amp quantum.Complex) string {
	if math.Abs(imag(amp)) < 1e-9 {
		return fmt.Sprintf("%.3f", real(amp))
	}
	return fmt.Sprintf("%.3f%+.3fi", real(amp), imag(amp))
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// renderCell returns 3 lines (top, mid, bot) for a single grid slot.
// Each line is exactly cellW (11) visual characters wide.
func renderCell(info circuit.Info, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	// ── Highlighted cell (cursor or target selection) ──
	if hl == hlCursor || hl == hlTargetSelect {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.IsControl:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.IsTarget:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("⊕") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.Cell != nil:
			name := padCenter(gateDisplayName(info.Cell.Kind), gateNameW)
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(name) + "├─" + bdr.Render("║")
		case info.PassThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}

		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.IsControl:
		top = emptyRow
		if info.VertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.VertBelow {
			bot = vertRow
		}

	case info.IsTarget:
		top = emptyRow
		if info.VertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render("⊕") + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.VertBelow {
			bot = vertRow
		}

	case info.Cell != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(gateDisplayName(info.Cell.Kind), gateNameW)

		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)

	case info.PassThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		// Empty wire
		top = emptyRow
		if info.VertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
		if info.VertBelow {
			bot = vertRow
		}
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	sb.WriteString("\n\n")

	// How many columns fit
	availWidth := width - labelVisualW - 4
	maxCols := max(availWidth/cellW, 1)

	focusCol := m.cursorCol
	if m.focus == focusResults && m.record != nil {
		focusCol = m.playCol
	}
	startCol := 0
	if focusCol >= maxCols {
		startCol = focusCol - maxCols + 1
	}
	displayCols := min(maxCols, m.circ.NumCols-startCol)

	if startCol > 0 {
		fmt.Fprintf(&sb, "  ◀ showing columns %d–%d\n", startCol, startCol+displayCols-1)
	}

	// Column number header
	header := strings.Repeat(" ", labelVisualW)
	for col := startCol; col < startCol+displayCols; col++ {
		label := padCenter(fmt.Sprintf("%d", col), cellW)
		if m.focus == focusResults && m.record != nil && col == m.playCol {
			header += activeGateStyle.Render(label)
		} else {
			header += dimStyle.Render(label)
		}
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range m.circ.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for col := startCol; col < startCol+displayCols; col++ {
			info := m.circ.Info(qubit, col)

			hl := hlNone
			if col == m.cursorCol && qubit == m.cursorRow && (m.focus == focusGrid || m.focus == focusSelectTarget || m.focus == focusMenu) {
				hl = hlCursor
			} else if col == m.cursorCol && qubit == m.targetRow && m.focus == focusSelectTarget {
				hl = hlTargetSelect
			}

			top, mid, bot := renderCell(info, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	if m.focus == focusSelectTarget {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", activeGateStyle.Render("CNOT"))
		sb.WriteString("  Select target qubit: ")
		fmt.Fprintf(&sb, "%s", targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetRow)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Position: %d:%d", m.cursorRow, m.cursorCol)
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", activeGateStyle.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderStatePanel renders the state inspector: prepared angles before a
// run, snapshot probabilities and measurement outcomes after one.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder

	title := "State"
	if m.focus == focusResults {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	if m.record == nil {
		sb.WriteString(dimStyle.Render("No run yet. Press r to simulate."))
		sb.WriteString("\n\n")
		sb.WriteString("Prepared qubits:\n")
		for q := range m.circ.NumQubits {
			a := m.angleAt(q)
			fmt.Fprintf(&sb, "  %s theta=%s phi=%s\n",
				qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)),
				formatAngle(a.Theta), formatAngle(a.Phi))
		}
		return stateStyle.Width(width).Height(height).Render(sb.String())
	}

	snap := m.record.Snapshots[m.playCol]

	playState := "paused"
	if m.playing {
		playState = "playing"
	}
	fmt.Fprintf(&sb, "run %s\n", dimStyle.Render(m.record.ID[:8]))
	fmt.Fprintf(&sb, "column %d/%d  %s\n\n", m.playCol, m.record.NumCols-1, dimStyle.Render(playState))

	// Basis-state probabilities, qubit 0 leftmost in each label
	barW := max(width-2*snap.NumQubits-18, 4)
	for i, p := range snap.Probabilities() {
		filled := min(int(math.Round(p*float64(barW))), barW)
		bar := barFillStyle.Render(strings.Repeat("█", filled)) +
			barTrackStyle.Render(strings.Repeat("░", barW-filled))
		fmt.Fprintf(&sb, "|%s⟩ %s %5.1f%%\n", basisLabel(i, snap.NumQubits), bar, p*100)
	}

	sb.WriteString("\n")
	for q, p := range snap.GetQubitProbabilities() {
		fmt.Fprintf(&sb, "%s P(1)=%5.1f%%\n", qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)), p*100)
	}

	if lines := m.measurementLines(); len(lines) > 0 {
		sb.WriteString("\nMeasured:\n")
		for _, line := range lines {
			sb.WriteString("  " + line + "\n")
		}
	}

	if len(m.record.Warnings) > 0 {
		sb.WriteString("\n")
		for _, w := range m.record.Warnings {
			fmt.Fprintf(&sb, "%s %s\n", activeGateStyle.Render("!"), dimStyle.Render(w))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Space Play/Pause  ←→ Step  Tab Back"))

	return stateStyle.Width(width).Height(height).Render(sb.String())
}

// measurementLines lists the run's measurement outcomes in grid order,
// hiding bits the playback has not reached yet.
func (m Model) measurementLines() []string {
	type entry struct {
		row, col, bit int
	}
	var entries []entry
	for key, bit := range m.record.Measured {
		var row, col int
		if _, err := fmt.Sscanf(key, "%d:%d", &row, &col); err != nil {
			continue
		}
		entries = append(entries, entry{row: row, col: col, bit: bit})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].col != entries[j].col {
			return entries[i].col < entries[j].col
		}
		return entries[i].row < entries[j].row
	})

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		key := sim.CellKey(e.row, e.col)
		if e.col <= m.playCol {
			lines = append(lines, fmt.Sprintf("%s → %s", key, measuredStyle.Render(fmt.Sprintf("%d", e.bit))))
		} else {
			lines = append(lines, fmt.Sprintf("%s → %s", key, dimStyle.Render("no result yet")))
		}
	}
	return lines
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeGateStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Row  ←→/hl Column  +/- Qubits  </> Columns\n")

	sb.WriteString(activeGateStyle.Render("Actions:  "))
	sb.WriteString("⏎ Add gate  x Delete  b Bloch  r Run  Tab Results  ^R Clear  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
// It properly handles ANSI escape sequences in the background line.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	var suffix strings.Builder

	col := 0
	i := 0
	inEsc := false

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			inEsc = true
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				if inEsc && runes[i] != '\x1b' && runes[i] != '[' && ((runes[i] >= 'A' && runes[i] <= 'Z') || (runes[i] >= 'a' && runes[i] <= 'z')) {
					inEsc = false
					i++
					break
				}
				i++
			}
		} else {
			prefix.WriteRune(runes[i])
			col++
			i++
		}
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if i > 0 && runes[i-1] != '\x1b' && runes[i-1] != '[' && ((runes[i-1] >= 'A' && runes[i-1] <= 'Z') || (runes[i-1] >= 'a' && runes[i-1] <= 'z')) {
					break
				}
			}
		} else {
			skipped++
			i++
		}
	}

	// Collect suffix: rest of the background line
	for i < len(runes) {
		suffix.WriteRune(runes[i])
		i++
	}

	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
