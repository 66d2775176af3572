package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/habits/pkg/types"
)

func TestNewBackend(t *testing.T) {
	ctx := context.Background()
	tracker := NewBackend(nil)

	_, err := tracker.ListHabits(ctx)
	assert.ErrorIs(t, err, types.ErrDetached)

	require.NoError(t, tracker.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer tracker.Detach()

	h, err := tracker.CreateHabit(ctx, types.HabitInput{Name: "Stretch", Icon: "🤸"})
	require.NoError(t, err)
	require.NoError(t, tracker.UpsertEntry(ctx, types.HabitEntry{HabitID: h.ID, Date: "2024-05-01", Value: "10 min"}))

	month, err := tracker.EntriesForMonth(ctx, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, types.MonthEntries{h.ID: {"2024-05-01": "10 min"}}, month)
}
