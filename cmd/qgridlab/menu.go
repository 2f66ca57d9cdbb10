package main

import (
	"fmt"
	"strings"

	"qgridlab/quantum"
)

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name        string
	kind        quantum.GateKind
	symbol      string
	needsTarget bool
}

// gateMenu defines the gate picker items.
var gateMenu = []menuItem{
	{name: "Hadamard", kind: quantum.GateH, symbol: "H"},
	{name: "Pauli-X (NOT)", kind: quantum.GateX, symbol: "X"},
	{name: "Pauli-Y", kind: quantum.GateY, symbol: "Y"},
	{name: "Pauli-Z", kind: quantum.GateZ, symbol: "Z"},
	{name: "CNOT", kind: quantum.GateCNOT, symbol: "●─⊕", needsTarget: true},
	{name: "Measure", kind: quantum.GateMeasure, symbol: "M"},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 34)))
	sb.WriteString("\n")

	for i, item := range gateMenu {
		if i == m.menuIdx {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsTarget {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
