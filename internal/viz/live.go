package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/contlab/internal/contin"
)

const (
	graphWidth  = 70
	graphHeight = 12
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	stalledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// PointMsg carries one accepted continuation point into the view.
type PointMsg contin.Point

// DoneMsg signals the end of the trace.
type DoneMsg struct {
	Err error
}

// Model renders a running continuation trace. Points arrive over the feed
// channel from the driver callback running in another goroutine; the view
// itself stays single-threaded under bubbletea's event loop.
type Model struct {
	problem string
	feed    <-chan tea.Msg

	points []contin.Point
	done   bool
	err    error
}

func NewModel(problem string, feed <-chan tea.Msg) Model {
	return Model{problem: problem, feed: feed}
}

func (m Model) Init() tea.Cmd {
	return m.waitForPoint()
}

func (m Model) waitForPoint() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.feed
		if !ok {
			return DoneMsg{}
		}
		return msg
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case PointMsg:
		m.points = append(m.points, contin.Point(msg))
		return m, m.waitForPoint()
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("contlab · %s", m.problem)))
	b.WriteString("\n")

	if len(m.points) > 0 {
		last := m.points[len(m.points)-1]
		dl := 0.0
		if n := len(m.points); n >= 2 {
			dl = last.Lambda - m.points[n-2].Lambda
		}
		rows := []struct {
			label string
			value string
		}{
			{"step", fmt.Sprintf("%d", last.Step)},
			{"lambda", fmt.Sprintf("%.6e", last.Lambda)},
			{"last advance", fmt.Sprintf("%.3e", dl)},
			{"||u||", fmt.Sprintf("%.6e", last.U.Norm())},
		}
		for _, r := range rows {
			b.WriteString(labelStyle.Render(r.label))
			b.WriteString(valueStyle.Render(r.value))
			b.WriteString("\n")
		}

		if len(m.points) >= 2 {
			norms := make([]float64, len(m.points))
			for i, p := range m.points {
				norms[i] = p.U.Norm()
			}
			graph := asciigraph.Plot(norms,
				asciigraph.Height(graphHeight),
				asciigraph.Width(graphWidth),
				asciigraph.Caption("||u|| per accepted step"),
			)
			b.WriteString(graphStyle.Render(graph))
			b.WriteString("\n")
		}
	}

	if m.done {
		if m.err != nil {
			b.WriteString(stalledStyle.Render(fmt.Sprintf("stalled: %v", m.err)))
		} else {
			b.WriteString(doneStyle.Render("trace complete"))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")
	return b.String()
}
