package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	snaps []Snapshot
}

func (p *recordingPublisher) PublishMedia(ctx context.Context, snap Snapshot) error {
	p.snaps = append(p.snaps, snap)
	return nil
}

// failingAdapter rejects every command and every query.
type failingAdapter struct{}

func (failingAdapter) CurrentSession(ctx context.Context) (*Session, error) {
	return nil, errors.New("session manager unavailable")
}
func (failingAdapter) SkipPrevious(ctx context.Context) error    { return errors.New("nope") }
func (failingAdapter) SkipNext(ctx context.Context) error        { return errors.New("nope") }
func (failingAdapter) TogglePlayPause(ctx context.Context) error { return errors.New("nope") }

func TestController_FailedCommandRequeries(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewController(failingAdapter{}, pub)

	c.Do(context.Background(), CommandToggle)

	require.Len(t, pub.snaps, 1)
	assert.Nil(t, pub.snaps[0].Session)
	assert.Error(t, pub.snaps[0].Err)
}

func TestController_SuccessfulCommandDoesNotPublish(t *testing.T) {
	pub := &recordingPublisher{}
	remote := NewRemote()
	remote.Update(&Session{Title: "Clair de Lune", Playing: true})
	c := NewController(remote, pub)

	c.Do(context.Background(), CommandNext)
	assert.Empty(t, pub.snaps)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	cmd, ok := remote.NextCommand(ctx)
	require.True(t, ok)
	assert.Equal(t, CommandNext, cmd)
}

func TestRemote_CommandWithoutSessionFails(t *testing.T) {
	pub := &recordingPublisher{}
	remote := NewRemote()
	c := NewController(remote, pub)

	c.Do(context.Background(), CommandPrevious)

	require.Len(t, pub.snaps, 1)
	assert.Nil(t, pub.snaps[0].Session)
	assert.NoError(t, pub.snaps[0].Err)
}

func TestRemote_QueueFull(t *testing.T) {
	remote := NewRemote()
	remote.Update(&Session{Title: "x"})
	for i := 0; i < cap(remote.commands); i++ {
		require.NoError(t, remote.SkipNext(context.Background()))
	}
	assert.ErrorIs(t, remote.SkipNext(context.Background()), ErrNoHelper)
}

func TestRemote_SessionIsCopied(t *testing.T) {
	remote := NewRemote()
	s := &Session{Title: "Original"}
	remote.Update(s)
	s.Title = "Mutated"

	got, err := remote.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)
}

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("toggle")
	assert.True(t, ok)
	assert.Equal(t, CommandToggle, cmd)

	_, ok = ParseCommand("rewind")
	assert.False(t, ok)
}
