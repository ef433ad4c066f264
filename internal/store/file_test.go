package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynamic-island/internal/reminder"
)

func TestFileStore_MissingFileReturnsDefaults(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "settings.yaml"))
	assert.Equal(t, reminder.Defaults(), s.Load(context.Background()))
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "settings.yaml")
	s := NewFileStore(path)

	want := sampleSettings()
	require.NoError(t, s.Save(ctx, want))
	assertSettingsEqual(t, want, s.Load(ctx))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files are left behind")
	assert.Equal(t, "settings.yaml", entries[0].Name())
}

func TestFileStore_CorruptFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drink_enabled: [not, a, bool"), 0o600))

	s := NewFileStore(path)
	assert.Equal(t, reminder.Defaults(), s.Load(context.Background()))
}

func TestFileStore_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("drink_enabled: true\ncustom_times: [\"930\"]\n"), 0o600))

	got := NewFileStore(path).Load(context.Background())
	assert.True(t, got.DrinkEnabled)
	assert.Equal(t, 30, got.IntervalMinutes)
	assert.Equal(t, "09:00", got.ActiveStart)
	assert.Equal(t, []string{"09:30"}, got.CustomTimes)
}

func TestFileStore_GeneratedTodoIDsAreStable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	body := "todo_enabled: true\ntodos:\n  - content: Pay rent\n    reminder_time: 2024-05-01T09:00:00Z\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	s := NewFileStore(path)
	first := s.Load(ctx)
	require.Len(t, first.Todos, 1)
	require.NotEmpty(t, first.Todos[0].ID)

	second := s.Load(ctx)
	require.Len(t, second.Todos, 1)
	assert.Equal(t, first.Todos[0].ID, second.Todos[0].ID)
	assert.Equal(t, "Pay rent", second.Todos[0].Content)
}
