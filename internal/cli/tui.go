package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pipeflow/pkg/cost"
	"github.com/matzehuels/pipeflow/pkg/optimize"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	barStyle     = lipgloss.NewStyle().Foreground(colorCyan)
)

// barWidth is the width of the longest cost bar in the browser.
const barWidth = 24

// =============================================================================
// CurveBrowserModel - Interactive cost curve inspection
// =============================================================================

// CurveBrowserModel is the bubbletea model for browsing a sweep's cost curve.
// Enter picks a diameter; b jumps back to the optimum.
type CurveBrowserModel struct {
	Result   *optimize.Result
	Cursor   int
	Selected *cost.Point
	Height   int
	Offset   int
}

// NewCurveBrowserModel creates a browser positioned on the optimum.
func NewCurveBrowserModel(res *optimize.Result) CurveBrowserModel {
	m := CurveBrowserModel{Result: res, Height: 15}
	m.Cursor = m.bestIndex()
	m.scroll()
	return m
}

func (m CurveBrowserModel) Init() tea.Cmd {
	return nil
}

func (m CurveBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Result.Curve)-1 {
				m.Cursor++
			}
		case "b":
			m.Cursor = m.bestIndex()
		case "enter":
			p := m.Result.Curve[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *CurveBrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m CurveBrowserModel) bestIndex() int {
	for i, p := range m.Result.Curve {
		if p.Diameter == m.Result.Best.Diameter {
			return i
		}
	}
	return 0
}

func (m CurveBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Cost Curve"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  b optimum  ⏎ select  q quit"))
	b.WriteString("\n\n")

	curve := m.Result.Curve
	end := min(m.Offset+m.Height, len(curve))

	maxTotal := 0.0
	for _, p := range curve {
		maxTotal = max(maxTotal, p.Total)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := curve[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := ""
		if p.Diameter == m.Result.Best.Diameter {
			marker = iconBest
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%.2f", p.Inches()),
			fmt.Sprintf("%.2f", p.Total),
			barStyle.Render(costBar(p.Total, maxTotal)),
			marker,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("", "D (in)", "TAC ($/yr)", "", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
			case idx < len(curve) && curve[idx].Diameter == m.Result.Best.Diameter:
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	p := curve[m.Cursor]
	b.WriteString(fmt.Sprintf("  AOC $%.2f/yr  ACC $%.2f/yr  D %.5f m\n", p.Operating, p.Capital, p.Diameter))
	if n := len(m.Result.Skipped); n > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  %d diameters did not converge\n", n)))
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(curve))))

	return b.String()
}

// costBar draws v as a horizontal bar scaled so that hi fills barWidth.
func costBar(v, hi float64) string {
	if hi <= 0 {
		return ""
	}
	n := int(v / hi * barWidth)
	return strings.Repeat("█", max(n, 1))
}
