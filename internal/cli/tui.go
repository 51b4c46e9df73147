package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/stabilizer/pkg/io"
	"github.com/matzehuels/stabilizer/pkg/stability"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PointListModel - Interactive support point browser
// =============================================================================

// PointListModel is the bubbletea model for browsing the support points
// of a report. Tab cycles through the causes present in the report.
type PointListModel struct {
	Report *io.Report
	Cursor int
	Height int
	Offset int

	causes  []stability.Cause // causes with at least one point
	filter  int               // index into causes, -1 for all
	visible []int             // report point indices after filtering
}

// NewPointListModel creates a browser over r's points.
func NewPointListModel(r *io.Report) PointListModel {
	m := PointListModel{Report: r, Height: 15, filter: -1}
	seen := make(map[stability.Cause]bool)
	for _, p := range r.Points {
		seen[p.Cause] = true
	}
	for _, c := range stability.AllCauses {
		if seen[c] {
			m.causes = append(m.causes, c)
		}
	}
	m.applyFilter()
	return m
}

// Filter returns the selected cause, or zero when all points are shown.
func (m PointListModel) Filter() stability.Cause {
	if m.filter < 0 {
		return 0
	}
	return m.causes[m.filter]
}

// Visible returns the number of points passing the filter.
func (m PointListModel) Visible() int { return len(m.visible) }

func (m *PointListModel) applyFilter() {
	m.visible = nil
	want := m.Filter()
	for i, p := range m.Report.Points {
		if want == 0 || p.Cause == want {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m PointListModel) Init() tea.Cmd {
	return nil
}

func (m PointListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			m.filter++
			if m.filter >= len(m.causes) {
				m.filter = -1
			}
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m PointListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Support Points"))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(m.Report.Object))
	b.WriteString("\n")
	b.WriteString(m.summary())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⇥ filter  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Report.Points[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor + fmt.Sprint(m.visible[i]+1),
			p.Cause.String(),
			fmt.Sprintf("%.2f", p.Position[0]),
			fmt.Sprintf("%.2f", p.Position[1]),
			fmt.Sprintf("%.2f", p.Position[2]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Cause", "X", "Y", "Z").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			current := m.Offset+row == m.Cursor
			switch {
			case current && col == 1:
				return StyleHighlight.Bold(true).Padding(0, 1)
			case current:
				return base.Foreground(colorWhite).Bold(true)
			case col >= 2:
				return StyleNumber.Padding(0, 1)
			}
			return base.Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.visible) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.visible))))

	return b.String()
}

// summary lists the point count per cause, highlighting the active filter.
func (m PointListModel) summary() string {
	counts := make(map[stability.Cause]int)
	for _, p := range m.Report.Points {
		counts[p.Cause]++
	}
	parts := make([]string, 0, len(m.causes)+1)
	all := fmt.Sprintf("all %d", len(m.Report.Points))
	if m.filter < 0 {
		all = StyleHighlight.Render(all)
	}
	parts = append(parts, all)
	for i, c := range m.causes {
		s := fmt.Sprintf("%s %d", c, counts[c])
		if i == m.filter {
			s = StyleHighlight.Render(s)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
