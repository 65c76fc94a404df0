package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/boundary"
	"github.com/san-kum/rigidmc/internal/export"
	"github.com/san-kum/rigidmc/internal/interaction"
	"github.com/san-kum/rigidmc/internal/montecarlo"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Frame is what the view needs from one sweep.
type Frame struct {
	Sample montecarlo.Sample
	Scene  export.Scene
}

type frameMsg Frame

type doneMsg struct{ err error }

// Feed is a montecarlo.Observer that hands frames to a Model. It runs on the
// sampler goroutine and drops frames the view has not caught up with.
type Feed struct {
	bd     boundary.Boundary
	ev     *interaction.Evaluator
	frames chan Frame
	done   chan error
}

func NewFeed(bd boundary.Boundary, ev *interaction.Evaluator) *Feed {
	return &Feed{
		bd:     bd,
		ev:     ev,
		frames: make(chan Frame, 1),
		done:   make(chan error, 1),
	}
}

func (f *Feed) OnSweep(s montecarlo.Sample, bodies []*body.Body) {
	scene, err := export.NewScene(f.bd, f.ev, bodies)
	if err != nil {
		return
	}
	select {
	case f.frames <- Frame{Sample: s, Scene: scene}:
	default:
	}
}

// Finish reports the end of the run. It must be called once, after the
// sampler has returned.
func (f *Feed) Finish(err error) {
	close(f.frames)
	f.done <- err
}

func waitFrame(frames <-chan Frame) tea.Cmd {
	return func() tea.Msg {
		fr, ok := <-frames
		if !ok {
			return nil
		}
		return frameMsg(fr)
	}
}

func waitDone(done <-chan error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: <-done}
	}
}

// Model shows the latest configuration of a running sampler next to its
// energy trace.
type Model struct {
	title    string
	sweeps   int
	feed     *Feed
	cancel   context.CancelFunc
	canvas   *Canvas
	frame    *Frame
	energies []float64
	finished bool
	err      error
	showHelp bool
}

// NewModel builds a view of a run of the given number of sweeps. cancel stops
// the run when the user quits.
func NewModel(title string, sweeps int, feed *Feed, cancel context.CancelFunc) Model {
	return Model{
		title:    title,
		sweeps:   sweeps,
		feed:     feed,
		cancel:   cancel,
		canvas:   NewCanvas(width, height),
		energies: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitFrame(m.feed.frames), waitDone(m.feed.done))
}

// Err is the error the run finished with, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		}
	case frameMsg:
		fr := Frame(msg)
		m.frame = &fr
		if len(m.energies) == historyCapacity {
			m.energies = m.energies[1:]
		}
		m.energies = append(m.energies, fr.Sample.Energy)
		m.draw()
		return m, waitFrame(m.feed.frames)
	case doneMsg:
		m.finished = true
		m.err = msg.err
	}
	return m, nil
}

func (m Model) draw() {
	m.canvas.Clear()
	if m.frame == nil {
		return
	}
	scene := m.frame.Scene
	vp := Fit(m.canvas, scene.Bounds)

	outline := scene.Outline
	if len(outline) == 0 {
		v := scene.Bounds.Vertices()
		outline = v[:]
	}
	for i, p := range outline {
		x0, y0 := vp.Project(p)
		x1, y1 := vp.Project(outline[(i+1)%len(outline)])
		m.canvas.DrawLine(x0, y0, x1, y1)
	}

	for _, discs := range scene.Bodies {
		for i, d := range discs {
			x, y := vp.Project(d.Center)
			m.canvas.DrawCircle(x, y, vp.Length(d.Radius))
			if i > 0 {
				px, py := vp.Project(discs[i-1].Center)
				m.canvas.DrawLine(px, py, x, y)
			}
		}
	}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("FAILED: " + m.err.Error())
	case m.finished:
		return "FINISHED"
	case m.frame == nil:
		return "PRIMING"
	default:
		return "RUNNING"
	}
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energies) > 1 {
		chart := asciigraph.Plot(m.energies, asciigraph.Height(6), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	if m.frame != nil {
		smp := m.frame.Sample
		ratio := 0.0
		if n := smp.Accepted + smp.Rejected; n > 0 {
			ratio = float64(smp.Accepted) / float64(n)
		}
		s.WriteString(labelStyle.Render("Sweep") + valueStyle.Render(fmt.Sprintf("%d/%d", smp.Sweep, m.sweeps)) + "\n")
		s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f", smp.Energy)) + "\n")
		s.WriteString(labelStyle.Render("Acceptance") + valueStyle.Render(fmt.Sprintf("%.3f", ratio)) + "\n")
		s.WriteString(labelStyle.Render("Area") + valueStyle.Render(fmt.Sprintf("%.2f", smp.Volume)) + "\n")
		s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", len(m.frame.Scene.Bodies))) + "\n")
	}
	s.WriteString(helpStyle.Render("Q:Quit ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
	if m.showHelp {
		help := lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 2).Render(
			"Q / Esc  - Stop the run and quit\n?        - Toggle this help\n\nThe run keeps going while the\nview drops frames it cannot show.")
		return help + "\n\n" + mainView
	}
	return mainView
}
