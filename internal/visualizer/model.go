// SPDX-License-Identifier: MIT
package visualizer

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/escanorganic/music-viz1/internal/analysis"
	"github.com/escanorganic/music-viz1/internal/transport"
)

type tickMsg time.Time

// Recorder is the optional capture-to-disk control surface. The audio
// engine satisfies it; tests substitute a stub.
type Recorder interface {
	StartRecording(dir string) error
	StopRecording() error
}

// Model is the bubbletea model for the live visualizer. It owns the
// frame loop: every tick runs one analysis cycle and feeds the result to
// all renderers.
type Model struct {
	analyzer  *analysis.Analyzer
	renderers []Renderer
	publisher *transport.Publisher // nil when websocket publishing is off
	recorder  Recorder             // nil when recording is disabled
	recordDir string

	fps      int
	focus    int // -1 = all panes
	paused   bool
	quitting bool

	recording bool
	statusMsg string

	width  int
	height int

	// Reused per-frame history buffers, one per category.
	history [analysis.NumCategories][]float64
}

// Option configures optional Model collaborators.
type Option func(*Model)

// WithPublisher attaches a snapshot publisher fed once per frame.
func WithPublisher(p *transport.Publisher) Option {
	return func(m *Model) { m.publisher = p }
}

// WithRecorder enables the recording toggle, writing WAV files to dir.
func WithRecorder(r Recorder, dir string) Option {
	return func(m *Model) { m.recorder = r; m.recordDir = dir }
}

// New creates a visualizer model ticking at fps frames per second.
func New(analyzer *analysis.Analyzer, fps int, opts ...Option) Model {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		analyzer:  analyzer,
		renderers: Renderers(fps),
		fps:       fps,
		focus:     -1,
	}
	for i := range m.history {
		m.history[i] = make([]float64, 0, analysis.DefaultHistoryFrames)
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), tea.SetWindowTitle("music-viz"))
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		case " ":
			m.paused = !m.paused
			return m, nil
		case "a", "0":
			m.focus = -1
			return m, nil
		case "1", "2", "3", "4":
			m.focus = int(msg.String()[0] - '1')
			return m, nil
		case "r":
			return m.toggleRecording()
		}
		return m, nil

	case tickMsg:
		if !m.paused {
			m.runCycle()
		}
		return m, m.tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// runCycle advances the analyzer one frame and pushes the result through
// every renderer and the publisher.
func (m *Model) runCycle() {
	m.analyzer.Cycle()

	frame := Frame{
		Energies: m.analyzer.Energies(),
		Peaks:    m.analyzer.Peaks(),
	}
	for _, c := range analysis.Categories() {
		frame.History[c] = m.analyzer.HistoryValues(c, m.history[c])
	}

	w, h := m.paneSize()
	for _, r := range m.renderers {
		r.Update(frame, w, h)
	}

	if m.publisher != nil {
		m.publisher.Update(transport.NewSnapshot(frame.Energies, frame.Peaks))
	}
}

func (m Model) toggleRecording() (tea.Model, tea.Cmd) {
	if m.recorder == nil {
		return m, nil
	}
	if m.recording {
		if err := m.recorder.StopRecording(); err != nil {
			m.statusMsg = fmt.Sprintf("stop recording: %v", err)
			return m, nil
		}
		m.recording = false
		m.statusMsg = "recording stopped"
		return m, nil
	}
	if err := m.recorder.StartRecording(m.recordDir); err != nil {
		m.statusMsg = fmt.Sprintf("start recording: %v", err)
		return m, nil
	}
	m.recording = true
	m.statusMsg = "recording..."
	return m, nil
}

// paneSize returns the drawable size of one renderer pane given the
// current layout (grid of four, or a single focused pane).
func (m *Model) paneSize() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	// Title row + help row + pane borders.
	if m.focus >= 0 {
		return max(4, w-4), max(3, h-6)
	}
	return max(4, w/2-4), max(3, (h-4)/2-2)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.focus >= 0 && m.focus < len(m.renderers) {
		r := m.renderers[m.focus]
		body = paneStyle.Render(titleStyle.Render(r.Name()) + "\n" + r.View())
	} else {
		panes := make([]string, len(m.renderers))
		for i, r := range m.renderers {
			panes[i] = paneStyle.Render(titleStyle.Render(r.Name()) + "\n" + r.View())
		}
		top := lipgloss.JoinHorizontal(lipgloss.Top, panes[0], panes[1])
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, panes[2], panes[3])
		body = lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}

	help := "1-4: focus pane • a: all • space: pause • r: record • q: quit"
	status := m.statusMsg
	if m.paused {
		status = "paused"
	}
	footer := helpStyle.Render(help)
	if status != "" {
		footer = helpStyle.Render(help) + "  " + dimStyle.Render(status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}
