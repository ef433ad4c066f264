// Package preview renders the island in a terminal so the coordinator can
// be watched without a desktop shell.
package preview

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dynamic-island/internal/audio"
	"dynamic-island/internal/island"
)

// Source is the coordinator surface the preview needs.
type Source interface {
	Latest() island.Frame
	Subscribe(buffer int) (<-chan island.Frame, func())
	Submit(ctx context.Context, sig island.Signal) error
}

// Terminal cells per device-independent pixel.
const (
	pxPerColumn = 8.0
	pxPerRow    = 16.0
)

type frameMsg island.Frame

type closedMsg struct{}

// Model is the bubbletea model for the preview.
type Model struct {
	src    Source
	frames <-chan island.Frame
	cancel func()
	frame  island.Frame
	width  int
}

// New subscribes to src and returns the preview model.
func New(src Source) Model {
	frames, cancel := src.Subscribe(1)
	return Model{src: src, frames: frames, cancel: cancel, frame: src.Latest()}
}

func waitForFrame(frames <-chan island.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return closedMsg{}
		}
		return frameMsg(f)
	}
}

func dismissCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		_ = src.Submit(context.Background(), island.DismissSignal{})
		return nil
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = island.Frame(msg)
		return m, waitForFrame(m.frames)
	case closedMsg:
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case "d", "enter":
			return m, dismissCmd(m.src)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	f := m.frame
	cols := max(int(f.Width/pxPerColumn), 6)
	rows := max(int(f.Height/pxPerRow), 1)

	border := lipgloss.Color("#3F3F46")
	if f.Accent != "" {
		border = lipgloss.Color(f.Accent)
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(lipgloss.Color("#000000")).
		Foreground(lipgloss.Color("#FFFFFF")).
		Width(cols).
		Height(rows).
		Align(lipgloss.Center, lipgloss.Center)
	if !f.Active {
		style = style.Faint(true)
	}

	body := truncate(f.Text, cols)
	if f.Kind == island.KindMedia {
		body = truncate(f.Text, cols-audio.BarCount-1) + " " + bars(f.Bars)
	}

	capsule := style.Render(body)
	if m.width > 0 {
		capsule = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, capsule)
	}

	help := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).
		Render(string(f.Kind) + "  ·  d dismiss  ·  q quit")
	return capsule + "\n" + help + "\n"
}

var barGlyphs = []rune("▁▂▃▄▅▆▇█")

// bars draws visualizer heights as block glyphs.
func bars(h [audio.BarCount]float64) string {
	const tallest = audio.MinBarHeight + 40
	var b strings.Builder
	for _, v := range h {
		i := int((v - audio.MinBarHeight) / (tallest - audio.MinBarHeight) * float64(len(barGlyphs)-1))
		i = min(max(i, 0), len(barGlyphs)-1)
		b.WriteRune(barGlyphs[i])
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// Run draws the preview until the user quits or ctx is cancelled.
func Run(ctx context.Context, src Source) error {
	p := tea.NewProgram(New(src), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
