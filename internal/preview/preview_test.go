package preview

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynamic-island/internal/island"
)

type fakeSource struct {
	frames    chan island.Frame
	cancelled bool
	submitted []island.Signal
}

func newFakeSource() *fakeSource {
	return &fakeSource{frames: make(chan island.Frame, 1)}
}

func (f *fakeSource) Latest() island.Frame {
	return island.Frame{Kind: island.KindStandby, Width: 120, Height: 35}
}

func (f *fakeSource) Subscribe(int) (<-chan island.Frame, func()) {
	return f.frames, func() { f.cancelled = true }
}

func (f *fakeSource) Submit(_ context.Context, sig island.Signal) error {
	f.submitted = append(f.submitted, sig)
	return nil
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestInitWaitsForFrames(t *testing.T) {
	src := newFakeSource()
	m := New(src)

	src.frames <- island.Frame{Kind: island.KindMedia, Text: "Song"}
	msg := m.Init()()
	assert.Equal(t, frameMsg(island.Frame{Kind: island.KindMedia, Text: "Song"}), msg)
}

func TestFrameUpdatesView(t *testing.T) {
	m := New(newFakeSource())
	assert.Contains(t, m.View(), "standby")

	m, cmd := update(m, frameMsg(island.Frame{
		Kind:   island.KindNotification,
		Text:   "Bluetooth: Pixel Buds",
		Accent: island.AccentConnect,
		Width:  320,
		Height: 50,
		Active: true,
	}))
	require.NotNil(t, cmd, "keeps listening for frames")
	assert.Contains(t, m.View(), "Bluetooth: Pixel Buds")
	assert.Contains(t, m.View(), "notification")
}

func TestClosedSubscriptionQuits(t *testing.T) {
	src := newFakeSource()
	m := New(src)
	close(src.frames)

	_, cmd := update(m, m.Init()())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestKeys(t *testing.T) {
	src := newFakeSource()
	m := New(src)

	_, cmd := update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []island.Signal{island.DismissSignal{}}, src.submitted)

	_, cmd = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, src.cancelled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "…", truncate("hello", 1))
	assert.Equal(t, "", truncate("hello", 0))
	assert.Equal(t, "微信…", truncate("微信消息", 3))
}

func TestBars(t *testing.T) {
	assert.Equal(t, "▁▁▁▁▁", bars([5]float64{4, 4, 4, 4, 4}))
	assert.Equal(t, "█████", bars([5]float64{44, 44, 50, 44, 44}))
}
