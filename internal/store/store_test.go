package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"dynamic-island/internal/db"
	"dynamic-island/internal/reminder"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func newSQLiteDB(t *testing.T) *gorm.DB {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func sampleSettings() reminder.Settings {
	due := time.Date(2026, 6, 1, 18, 30, 0, 0, time.UTC)
	return reminder.Settings{
		DrinkEnabled:    true,
		DrinkMode:       reminder.DrinkModeCustom,
		IntervalMinutes: 45,
		ActiveStart:     "08:00",
		ActiveEnd:       "23:30",
		CustomTimes:     []string{"14:00", "09:30", "20:15"},
		TodoEnabled:     true,
		Todos: []reminder.Todo{
			{ID: "b", ReminderTime: due, Content: "Buy milk"},
			{ID: "a", ReminderTime: due.Add(time.Hour), Content: "Call mom", Completed: true},
		},
	}
}

func assertSettingsEqual(t *testing.T, want, got reminder.Settings) {
	t.Helper()
	require.Len(t, got.Todos, len(want.Todos))
	for i := range want.Todos {
		assert.True(t, want.Todos[i].ReminderTime.Equal(got.Todos[i].ReminderTime), "todo %d time", i)
		got.Todos[i].ReminderTime = want.Todos[i].ReminderTime
	}
	assert.Equal(t, want, got)
}

func TestGormStore_LoadEmptyReturnsDefaults(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))
	assert.Equal(t, reminder.Defaults(), s.Load(context.Background()))
}

func TestGormStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSQLiteDB(t))

	want := sampleSettings()
	require.NoError(t, s.Save(ctx, want))
	assertSettingsEqual(t, want, s.Load(ctx))
}

func TestGormStore_SaveReplacesLists(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSQLiteDB(t))

	require.NoError(t, s.Save(ctx, sampleSettings()))

	next := sampleSettings()
	next.DrinkEnabled = false
	next.CustomTimes = []string{"10:00"}
	next.Todos = next.Todos[1:]
	require.NoError(t, s.Save(ctx, next))

	got := s.Load(ctx)
	assert.False(t, got.DrinkEnabled)
	assert.Equal(t, []string{"10:00"}, got.CustomTimes)
	require.Len(t, got.Todos, 1)
	assert.Equal(t, "a", got.Todos[0].ID)
}

func TestGormStore_SaveNormalizes(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSQLiteDB(t))

	in := reminder.Defaults()
	in.IntervalMinutes = 0
	in.CustomTimes = []string{"930", "09:30", "bogus"}
	in.Todos = []reminder.Todo{{Content: "No id yet", ReminderTime: time.Now()}}
	require.NoError(t, s.Save(ctx, in))

	got := s.Load(ctx)
	assert.Equal(t, 1, got.IntervalMinutes)
	assert.Equal(t, []string{"09:30"}, got.CustomTimes)
	require.Len(t, got.Todos, 1)
	assert.NotEmpty(t, got.Todos[0].ID)
}

func TestGormStore_LoadFailureReturnsDefaults(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .* FROM "reminder_configs"`).
		WillReturnError(errors.New("connection refused"))

	s := NewGormStore(gormDB)
	assert.Equal(t, reminder.Defaults(), s.Load(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_LoadListFailureReturnsDefaults(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .* FROM "reminder_configs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "drink_enabled", "drink_mode", "interval_minutes", "active_start", "active_end", "todo_enabled"}).
			AddRow(1, true, "interval", 20, "09:00", "22:00", false))
	mock.ExpectQuery(`SELECT .* FROM "custom_times"`).
		WillReturnError(errors.New("relation does not exist"))

	s := NewGormStore(gormDB)
	assert.Equal(t, reminder.Defaults(), s.Load(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SaveFailure(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("db down"))

	s := NewGormStore(gormDB)
	assert.Error(t, s.Save(context.Background(), sampleSettings()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SaveRollsBackOnInsertFailure(t *testing.T) {
	gormDB, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "reminder_configs"`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := NewGormStore(gormDB)
	err := s.Save(context.Background(), sampleSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert reminder config")
	assert.NoError(t, mock.ExpectationsWereMet())
}
