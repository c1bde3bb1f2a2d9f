package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/bpmnlayout/pkg/graph"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

var inspectHeaders = []string{"", "Node", "Category", "Layer", "X", "Y", "W", "H"}

// =============================================================================
// InspectModel - Interactive layout browser
// =============================================================================

// InspectModel is the bubbletea model of the inspect command: a scrollable
// table of placed nodes with the edges of the selected one.
type InspectModel struct {
	Title  string
	Layout graph.Layout
	Cursor int
	Height int
	Offset int
}

// NewInspectModel creates a model over l.
func NewInspectModel(title string, l graph.Layout) InspectModel {
	return InspectModel{Title: title, Layout: l, Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Layout.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Layout.Nodes)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(layoutSummary(m.Layout)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Layout.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, nodeRow(m.Layout.Nodes[i])...))
	}

	t := nodeTable(inspectHeaders, rows, func(row int) bool { return m.Offset+row == m.Cursor })
	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.Cursor < len(m.Layout.Nodes) {
		b.WriteString(m.edgeDetail(m.Layout.Nodes[m.Cursor].ID))
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Layout.Nodes)), len(m.Layout.Nodes))))

	return b.String()
}

// edgeDetail lists the incoming and outgoing edges of id.
func (m InspectModel) edgeDetail(id string) string {
	var in, out []string
	for _, r := range m.Layout.Edges {
		label := r.To
		if r.From != id {
			label = r.From
		}
		if r.Back {
			label += " (back)"
		}
		switch id {
		case r.From:
			out = append(out, label)
		case r.To:
			in = append(in, label)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render("in: "), strings.Join(orDash(in), ", "))
	fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render("out:"), strings.Join(orDash(out), ", "))
	return b.String()
}

// =============================================================================
// Plain Table
// =============================================================================

// renderPlainTable renders every node as a lipgloss table without the
// interactive frame.
func renderPlainTable(l graph.Layout) string {
	rows := make([][]string, len(l.Nodes))
	for i, n := range l.Nodes {
		rows[i] = nodeRow(n)
	}
	return nodeTable(inspectHeaders[1:], rows, nil).Render()
}

// =============================================================================
// Helpers
// =============================================================================

func nodeTable(headers []string, rows [][]string, selected func(row int) bool) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			style := lipgloss.NewStyle().PaddingRight(1)
			if row >= len(rows) {
				return style
			}
			if selected != nil && selected(row) {
				return style.Foreground(colorGreen).Bold(true)
			}
			// Nodes placed by a fallback tier have no layer.
			if rows[row][len(rows[row])-5] == "-1" {
				return style.Foreground(colorDim)
			}
			return style
		})
}

// nodeRow formats a node as ID, category, layer, x, y, width and height.
func nodeRow(n graph.PlacedNode) []string {
	category := n.Category
	if category == "" {
		category = "—"
	}
	return []string{
		n.ID,
		category,
		strconv.Itoa(n.Layer),
		formatCoord(n.X),
		formatCoord(n.Y),
		formatCoord(n.Width),
		formatCoord(n.Height),
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func layoutSummary(l graph.Layout) string {
	return fmt.Sprintf("tier %s · %d nodes · %d edges · %d back edges · %d crossings",
		l.Tier, len(l.Nodes), len(l.Edges), len(l.BackEdges), l.Crossings)
}

func orDash(s []string) []string {
	if len(s) == 0 {
		return []string{"—"}
	}
	return s
}
