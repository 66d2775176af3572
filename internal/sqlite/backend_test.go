package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// setupBackend creates an attached Backend on a fresh data directory and
// detaches it when the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// mustCreateHabit creates a habit or fails the test.
func mustCreateHabit(t *testing.T, b *Backend, name, icon string) types.Habit {
	t.Helper()
	h, err := b.CreateHabit(context.Background(), types.HabitInput{Name: name, Icon: icon})
	require.NoError(t, err)
	return h
}

// countEntries returns the number of entry rows for a habit and date.
func countEntries(t *testing.T, b *Backend, habitID int64, date string) int {
	t.Helper()
	var n int
	require.NoError(t, b.db.QueryRow(
		"SELECT COUNT(*) FROM habit_entries WHERE habit_id = ? AND entry_date = ?",
		habitID, date,
	).Scan(&n))
	return n
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend(nil)
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(tmpDir, types.DatabaseFile))
	assert.NoError(t, err, "database file should be created")

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachCreatesDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested", "data")

	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	defer b.Detach()

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend(nil)
	err := b.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	ctx := context.Background()
	_, err := b.ListHabits(ctx)
	assert.ErrorIs(t, err, types.ErrDetached)
	_, err = b.RemoveDuplicates(ctx)
	assert.ErrorIs(t, err, types.ErrDetached)
}

func TestBackend_ForeignKeysEnabled(t *testing.T) {
	b := setupBackend(t)

	var on int
	require.NoError(t, b.db.QueryRow("PRAGMA foreign_keys").Scan(&on))
	assert.Equal(t, 1, on)
}

func TestBackend_DataSurvivesReattach(t *testing.T) {
	ctx := context.Background()
	config := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	b := NewBackend(nil)
	require.NoError(t, b.Attach(config))
	h, err := b.CreateHabit(ctx, types.HabitInput{Name: "Read", Icon: "📚"})
	require.NoError(t, err)
	require.NoError(t, b.UpsertEntry(ctx, types.HabitEntry{HabitID: h.ID, Date: "2024-03-01", Value: "20 pages"}))
	require.NoError(t, b.Detach())

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	day, err := b.EntriesForDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "20 pages", day[0].Value)
}
