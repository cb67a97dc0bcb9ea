package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jv-marek/radsim/internal/spectrum"
)

var (
	liveFrame  = lipgloss.NewStyle().Padding(1, 2)
	liveStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1)
	liveDone   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
)

// Progress is one snapshot of a running sweep: how many traces have
// been folded in and the spectrum accumulated so far.
type Progress struct {
	Done, Total int
	Partial     *spectrum.Result
}

// Live is a Bubble Tea model that follows a sweep over a channel of
// Progress snapshots and redraws the on-axis spectrum as traces
// accumulate. The sweep runs elsewhere; the view only reads.
type Live struct {
	updates  <-chan Progress
	latest   Progress
	finished bool
	quit     bool
	width    int
	height   int
}

func NewLive(updates <-chan Progress) *Live {
	return &Live{updates: updates, width: 72, height: 14}
}

type progressMsg Progress

type sweepDoneMsg struct{}

func (l *Live) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-l.updates
		if !ok {
			return sweepDoneMsg{}
		}
		return progressMsg(p)
	}
}

func (l *Live) Init() tea.Cmd {
	return l.waitForUpdate()
}

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			l.quit = true
			return l, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			l.width = msg.Width - 12
		}
	case progressMsg:
		l.latest = Progress(msg)
		return l, l.waitForUpdate()
	case sweepDoneMsg:
		l.finished = true
		return l, tea.Quit
	}
	return l, nil
}

func (l *Live) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("radsim sweep"))
	b.WriteString("\n\n")

	if l.latest.Partial != nil {
		b.WriteString(Graph(l.latest.Partial.Omega, l.latest.Partial.OnAxis(), l.width, l.height))
		b.WriteString("\n")
	}

	switch {
	case l.quit:
		b.WriteString(liveStatus.Render("aborting..."))
	case l.finished:
		b.WriteString(liveDone.Render("sweep complete"))
	default:
		b.WriteString(liveStatus.Render(fmt.Sprintf(
			"traces %d/%d  (q to abort)", l.latest.Done, l.latest.Total)))
	}

	return liveFrame.Render(b.String())
}

// Aborted reports whether the user quit before the sweep finished.
func (l *Live) Aborted() bool { return l.quit && !l.finished }
