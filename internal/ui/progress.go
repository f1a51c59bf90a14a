// Package ui renders interactive progress while packs are lowered.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"vlower/internal/driver"
)

type packState uint8

const (
	stateQueued packState = iota
	stateLoading
	stateLowering
	stateDone
	stateFailed
)

var stateViews = [...]struct {
	label  string
	weight float64
	style  lipgloss.Style
}{
	stateQueued:   {"queued", 0, lipgloss.NewStyle().Foreground(lipgloss.Color("7"))},
	stateLoading:  {"loading", 0.2, lipgloss.NewStyle().Foreground(lipgloss.Color("6"))},
	stateLowering: {"lowering", 0.5, lipgloss.NewStyle().Foreground(lipgloss.Color("6"))},
	stateDone:     {"done", 1, lipgloss.NewStyle().Foreground(lipgloss.Color("2"))},
	stateFailed:   {"error", 1, lipgloss.NewStyle().Foreground(lipgloss.Color("1"))},
}

func (s packState) finished() bool { return s == stateDone || s == stateFailed }

// stateOf maps a driver event onto the row state.
func stateOf(ev driver.Event) packState {
	switch ev.Status {
	case driver.StatusQueued:
		return stateQueued
	case driver.StatusDone:
		if ev.Stage == driver.StageLoad {
			return stateLowering
		}
		return stateDone
	case driver.StatusError:
		return stateFailed
	}
	if ev.Stage == driver.StageLoad {
		return stateLoading
	}
	return stateLowering
}

type packRow struct {
	path    string
	state   packState
	elapsed time.Duration
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []packRow
	byPath  map[string]int
	width   int
	closed  bool
	aborted bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel lists every pack with its state and an overall bar. The
// program quits once events is closed.
func NewProgressModel(title string, packs []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		rows:    make([]packRow, len(packs)),
		byPath:  make(map[string]int, len(packs)),
		width:   80,
	}
	for i, p := range packs {
		m.rows[i] = packRow{path: p}
		m.byPath[p] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		if k := msg.String(); k == "ctrl+c" || k == "q" {
			m.aborted = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	finished := 0
	for _, r := range m.rows {
		if r.state.finished() {
			finished++
		}
	}
	head := fmt.Sprintf("%s %s %d/%d", m.spinner.View(), m.title, finished, len(m.rows))
	if m.closed {
		head = fmt.Sprintf("done: %s %d/%d", m.title, finished, len(m.rows))
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(head))
	b.WriteString("\n\n")
	nameWidth := max(m.width-24, 20)
	for _, r := range m.rows {
		v := stateViews[r.state]
		fmt.Fprintf(&b, "  %s %s", v.style.Render(fmt.Sprintf("%9s", v.label)), runewidth.Truncate(r.path, nameWidth, "…"))
		if r.state.finished() && r.elapsed > 0 {
			fmt.Fprintf(&b, " (%s)", r.elapsed.Round(time.Millisecond))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if m.closed {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// Aborted reports whether the user quit the view before lowering finished.
func Aborted(model tea.Model) bool {
	m, ok := model.(*progressModel)
	return ok && m.aborted
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	m.rows[i].state = stateOf(ev)
	m.rows[i].elapsed = ev.Elapsed

	sum := 0.0
	for _, r := range m.rows {
		sum += stateViews[r.state].weight
	}
	return m.bar.SetPercent(sum / float64(len(m.rows)))
}
