package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qgridlab/circuit"
	"qgridlab/core"
	"qgridlab/quantum"
	"qgridlab/sim"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusGrid focus = iota
	focusMenu
	focusSelectTarget
	focusAngles
	focusResults
)

// maxColumns matches the clamp applied to the setting file.
const maxColumns = 32

// Model represents the TUI application state.
type Model struct {
	conf   *core.Conf
	runner *sim.Runner

	circ   circuit.Circuit
	angles []quantum.BlochAngles

	cursorRow int
	cursorCol int
	width     int
	height    int
	focus     focus
	statusMsg string // transient status message (e.g. run confirmation)

	// Menu state
	menuIdx int

	// Target-selection state for CNOT placement
	targetRow int

	// Bloch-angle dialog state
	thetaInput textinput.Model
	phiInput   textinput.Model
	angleField int

	// Last finished run and its playback position
	record   *sim.RunRecord
	playCol  int
	playing  bool
	interval time.Duration
}

// runDoneMsg delivers a finished run (or the error that stopped it) from
// the queue worker.
type runDoneMsg struct {
	record *sim.RunRecord
	err    error
}

// playTickMsg advances playback by one column.
type playTickMsg struct{}

func playTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return playTickMsg{}
	})
}

func initialModel(conf *core.Conf, setting core.Setting, runner *sim.Runner) Model {
	theta := textinput.New()
	theta.Prompt = "theta: "
	theta.Placeholder = "0"
	theta.CharLimit = 32
	theta.Width = 16

	phi := textinput.New()
	phi.Prompt = "phi:   "
	phi.Placeholder = "0"
	phi.CharLimit = 32
	phi.Width = 16

	return Model{
		conf:       conf,
		runner:     runner,
		circ:       circuit.New(setting.Workspace.Qubits, setting.Workspace.Columns),
		angles:     make([]quantum.BlochAngles, setting.Workspace.Qubits),
		focus:      focusGrid,
		thetaInput: theta,
		phiInput:   phi,
		interval:   time.Duration(setting.Playback.IntervalMillis) * time.Millisecond,
	}
}

// angleAt returns the prepared Bloch angles for a qubit row.
func (m Model) angleAt(row int) quantum.BlochAngles {
	if row >= 0 && row < len(m.angles) {
		return m.angles[row]
	}
	return quantum.BlochAngles{}
}

// clearCell removes the cell at row:col. Deleting either half of a CNOT
// removes its partner too, so no orphan halves are left behind.
func (m *Model) clearCell(row, col int) {
	cell := m.circ.CellAt(row, col)
	if cell == nil {
		return
	}
	if cell.Kind == quantum.GateCNOT {
		if cell.HasTarget {
			partner := m.circ.CellAt(cell.TargetRow, col)
			if partner != nil && partner.Kind == quantum.GateCNOT && !partner.HasTarget {
				m.circ = m.circ.WithCell(cell.TargetRow, col, nil)
			}
		} else {
			for r := range m.circ.NumQubits {
				other := m.circ.CellAt(r, col)
				if other != nil && other.Kind == quantum.GateCNOT && other.HasTarget && other.TargetRow == row {
					m.circ = m.circ.WithCell(r, col, nil)
				}
			}
		}
	}
	m.circ = m.circ.WithCell(row, col, nil)
}

// placeGate puts a single-cell gate at the cursor, replacing whatever was
// there before.
func (m *Model) placeGate(kind quantum.GateKind) {
	m.clearCell(m.cursorRow, m.cursorCol)
	m.circ = m.circ.WithCell(m.cursorRow, m.cursorCol, &circuit.Cell{Kind: kind})
}

// placeCNOT writes both halves of a CNOT: the control cell at the cursor
// column and the plain target half on the selected row.
func (m *Model) placeCNOT(control, target int) {
	m.clearCell(control, m.cursorCol)
	m.clearCell(target, m.cursorCol)
	m.circ = m.circ.WithCell(control, m.cursorCol, &circuit.Cell{
		Kind:      quantum.GateCNOT,
		HasTarget: true,
		TargetRow: target,
	})
	m.circ = m.circ.WithCell(target, m.cursorCol, &circuit.Cell{Kind: quantum.GateCNOT})
}

// resizeQubits grows or shrinks the grid within [1, MaxQubits], keeping
// prepared angles for rows that survive.
func (m *Model) resizeQubits(n int) {
	if n < 1 || n > m.conf.MaxQubits || n == m.circ.NumQubits {
		return
	}
	m.circ = m.circ.WithQubits(n)
	next := make([]quantum.BlochAngles, n)
	copy(next, m.angles)
	m.angles = next
	if m.cursorRow >= n {
		m.cursorRow = n - 1
	}
}

func (m *Model) resizeColumns(n int) {
	if n < 1 || n > maxColumns || n == m.circ.NumCols {
		return
	}
	m.circ = m.circ.WithColumns(n)
	if m.cursorCol >= n {
		m.cursorCol = n - 1
	}
}

// submitRun snapshots the current workspace into a run request. The
// circuit value is already immutable; the angles need their own copy.
func (m *Model) submitRun() {
	angles := make([]quantum.BlochAngles, len(m.angles))
	copy(angles, m.angles)
	if err := m.runner.Submit(&sim.RunRequest{Circuit: m.circ, Angles: angles}); err != nil {
		m.statusMsg = fmt.Sprintf("Run rejected: %v", err)
		return
	}
	m.statusMsg = "Run queued"
}

// openAngleDialog primes the Bloch inputs with the cursor row's angles.
func (m *Model) openAngleDialog() {
	a := m.angleAt(m.cursorRow)
	m.thetaInput.SetValue(formatAngle(a.Theta))
	m.phiInput.SetValue(formatAngle(a.Phi))
	m.angleField = 0
	m.thetaInput.Focus()
	m.phiInput.Blur()
	m.focus = focusAngles
}

// dialogAngles parses both dialog fields. An empty field reads as 0.
func (m Model) dialogAngles() (theta, phi float64, ok bool) {
	thetaStr := m.thetaInput.Value()
	if strings.TrimSpace(thetaStr) == "" {
		thetaStr = "0"
	}
	phiStr := m.phiInput.Value()
	if strings.TrimSpace(phiStr) == "" {
		phiStr = "0"
	}
	theta, ok = parseAngleExpr(thetaStr)
	if !ok {
		return 0, 0, false
	}
	phi, ok = parseAngleExpr(phiStr)
	if !ok {
		return 0, 0, false
	}
	return theta, phi, true
}

// commitAngles stores the dialog values for the cursor row. Returns false
// when either expression fails to parse.
func (m *Model) commitAngles() bool {
	theta, phi, ok := m.dialogAngles()
	if !ok {
		return false
	}
	m.angles[m.cursorRow] = quantum.BlochAngles{Theta: theta, Phi: phi}
	return true
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case runDoneMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Run failed: %v", msg.err)
			break
		}
		m.record = msg.record
		m.playCol = 0
		m.playing = len(msg.record.Snapshots) > 1
		m.focus = focusResults
		if m.playing {
			cmds = append(cmds, playTick(m.interval))
		}

	case playTickMsg:
		if m.playing && m.record != nil {
			if m.playCol < len(m.record.Snapshots)-1 {
				m.playCol++
				cmds = append(cmds, playTick(m.interval))
			} else {
				m.playing = false
			}
		}

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusGrid:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				if m.record != nil {
					m.focus = focusResults
				}
			case "ctrl+r":
				m.circ = circuit.New(m.circ.NumQubits, m.circ.NumCols)
				m.angles = make([]quantum.BlochAngles, m.circ.NumQubits)
				m.record = nil
				m.playing = false
				m.statusMsg = "Workspace cleared"
			case "up", "k":
				if m.cursorRow > 0 {
					m.cursorRow--
				}
			case "down", "j":
				if m.cursorRow < m.circ.NumQubits-1 {
					m.cursorRow++
				}
			case "left", "h":
				if m.cursorCol > 0 {
					m.cursorCol--
				}
			case "right", "l":
				if m.cursorCol < m.circ.NumCols-1 {
					m.cursorCol++
				}
			case "+", "=":
				m.resizeQubits(m.circ.NumQubits + 1)
			case "-":
				m.resizeQubits(m.circ.NumQubits - 1)
			case ">", ".":
				m.resizeColumns(m.circ.NumCols + 1)
			case "<", ",":
				m.resizeColumns(m.circ.NumCols - 1)
			case "enter", "a":
				m.focus = focusMenu
				m.menuIdx = 0
			case "x", "backspace", "delete":
				m.clearCell(m.cursorRow, m.cursorCol)
			case "b":
				m.openAngleDialog()
			case "r":
				m.submitRun()
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusGrid
			case "up", "k":
				if m.menuIdx > 0 {
					m.menuIdx--
				}
			case "down", "j":
				if m.menuIdx < len(gateMenu)-1 {
					m.menuIdx++
				}
			case "enter":
				item := gateMenu[m.menuIdx]
				if item.needsTarget {
					if m.circ.NumQubits < 2 {
						m.statusMsg = "CNOT needs a second qubit"
						m.focus = focusGrid
						break
					}
					m.focus = focusSelectTarget
					m.targetRow = m.cursorRow + 1
					if m.targetRow >= m.circ.NumQubits {
						m.targetRow = m.cursorRow - 1
					}
					break
				}
				m.placeGate(item.kind)
				m.focus = focusGrid
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusGrid
			case "up", "k":
				for next := m.targetRow - 1; next >= 0; next-- {
					if next != m.cursorRow {
						m.targetRow = next
						break
					}
				}
			case "down", "j":
				for next := m.targetRow + 1; next < m.circ.NumQubits; next++ {
					if next != m.cursorRow {
						m.targetRow = next
						break
					}
				}
			case "enter":
				m.placeCNOT(m.cursorRow, m.targetRow)
				m.focus = focusGrid
			}

		case focusAngles:
			switch key {
			case "esc":
				m.focus = focusGrid
			case "tab", "up", "down":
				m.angleField = 1 - m.angleField
				if m.angleField == 0 {
					m.thetaInput.Focus()
					m.phiInput.Blur()
				} else {
					m.phiInput.Focus()
					m.thetaInput.Blur()
				}
			case "enter":
				if !m.commitAngles() {
					m.statusMsg = "Invalid angle — use numbers or pi expressions (e.g. pi/2, 3*pi/4)"
					break
				}
				m.focus = focusGrid
			default:
				var cmd tea.Cmd
				if m.angleField == 0 {
					m.thetaInput, cmd = m.thetaInput.Update(msg)
				} else {
					m.phiInput, cmd = m.phiInput.Update(msg)
				}
				cmds = append(cmds, cmd)
			}

		case focusResults:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab", "esc":
				m.focus = focusGrid
			case " ":
				if m.record == nil {
					break
				}
				m.playing = !m.playing
				if m.playing {
					if m.playCol >= len(m.record.Snapshots)-1 {
						m.playCol = 0
					}
					cmds = append(cmds, playTick(m.interval))
				}
			case "left", "h":
				m.playing = false
				if m.playCol > 0 {
					m.playCol--
				}
			case "right", "l":
				m.playing = false
				if m.record != nil && m.playCol < len(m.record.Snapshots)-1 {
					m.playCol++
				}
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	stateWidth := m.width / 3
	circuitWidth := m.width - stateWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	statePanel := m.renderStatePanel(stateWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, statePanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}

	if m.focus == focusAngles {
		frame = overlayAt(frame, m.renderAngleDialog(), 2, 2)
	}

	return frame
}

// renderAngleDialog renders the Bloch-angle input overlay.
func (m Model) renderAngleDialog() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Prepare q[%d]", m.cursorRow)))
	sb.WriteString("\n\n")
	sb.WriteString(m.thetaInput.View())
	sb.WriteString("\n")
	sb.WriteString(m.phiInput.View())
	sb.WriteString("\n\n")

	if theta, phi, ok := m.dialogAngles(); ok {
		local := quantum.StateFromBlochAngles(1, []quantum.BlochAngles{{Theta: theta, Phi: phi}})
		fmt.Fprintf(&sb, "|0⟩ %s   |1⟩ %s\n", formatAmp(local.Amplitudes[0]), formatAmp(local.Amplitudes[1]))
	} else {
		sb.WriteString(dimStyle.Render("enter valid angles for a preview"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Tab Switch  ⏎ Ok  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
