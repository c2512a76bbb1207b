package main

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"dbdeck/internal/ui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const logo = `
   █▀▄ █▄▄ █▀▄ █▀▀ █▀▀ █▄▀
   █▄▀ █▄█ █▄▀ ██▄ █▄▄ █░█
`

// stageMsg replaces the line next to the spinner.
type stageMsg string

// finishMsg clears the display and quits.
type finishMsg struct{}

type connectSpinner struct {
	spin     spinner.Model
	stage    string
	finished bool
}

func newConnectSpinner() connectSpinner {
	s := spinner.New(spinner.WithSpinner(spinner.Points))
	s.Style = lipgloss.NewStyle().Foreground(theme.Current().Secondary)
	return connectSpinner{spin: s, stage: "Starting"}
}

func (m connectSpinner) Init() tea.Cmd {
	return m.spin.Tick
}

func (m connectSpinner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageMsg:
		m.stage = string(msg)
	case finishMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m connectSpinner) View() string {
	if m.finished {
		return ""
	}
	palette := theme.Current()
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(palette.Primary).Render(logo))
	b.WriteString("\n")
	b.WriteString(m.spin.View() + " " + lipgloss.NewStyle().Foreground(palette.Text).Render(m.stage))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// StartupDisplay animates the logo on stderr while dbdeck connects. Input
// and signals stay with the caller.
type StartupDisplay struct {
	program *tea.Program
	exited  chan struct{}
	stop    sync.Once
}

func NewStartupDisplay(w io.Writer) *StartupDisplay {
	d := &StartupDisplay{
		program: tea.NewProgram(newConnectSpinner(),
			tea.WithOutput(w),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		exited: make(chan struct{}),
	}
	go func() {
		defer close(d.exited)
		_, _ = d.program.Run()
	}()
	return d
}

// Stage updates the status text. Calls after Stop are ignored.
func (d *StartupDisplay) Stage(detail string) {
	select {
	case <-d.exited:
	default:
		d.program.Send(stageMsg(detail))
	}
}

// Stop clears the display, killing the program if it has not exited
// within half a second.
func (d *StartupDisplay) Stop() {
	d.stop.Do(func() {
		go d.program.Send(finishMsg{})
		select {
		case <-d.exited:
		case <-time.After(500 * time.Millisecond):
			d.program.Kill()
			<-d.exited
		}
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
