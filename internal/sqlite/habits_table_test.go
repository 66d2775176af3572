package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/habits/pkg/types"
)

func TestCreateHabit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		input     types.HabitInput
		wantErr   error
		wantColor string
	}{
		{
			name:      "default color applied",
			input:     types.HabitInput{Name: "Exercise", Icon: "🏃"},
			wantColor: types.DefaultColor,
		},
		{
			name:      "explicit color kept",
			input:     types.HabitInput{Name: "Sleep", Icon: "😴", Color: "#6f42c1"},
			wantColor: "#6f42c1",
		},
		{
			name:      "short hex color accepted",
			input:     types.HabitInput{Name: "Water", Icon: "💧", Color: "#0af"},
			wantColor: "#0af",
		},
		{
			name:    "empty name rejected",
			input:   types.HabitInput{Name: "", Icon: "🏃"},
			wantErr: types.ErrInvalidName,
		},
		{
			name:    "blank icon rejected",
			input:   types.HabitInput{Name: "Exercise", Icon: "  "},
			wantErr: types.ErrInvalidIcon,
		},
		{
			name:    "malformed color rejected",
			input:   types.HabitInput{Name: "Exercise", Icon: "🏃", Color: "blue"},
			wantErr: types.ErrInvalidColor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)

			h, err := b.CreateHabit(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				habits, err := b.ListHabits(ctx)
				require.NoError(t, err)
				assert.Empty(t, habits, "rejected input must not be stored")
				return
			}
			require.NoError(t, err)
			assert.Positive(t, h.ID)
			assert.Equal(t, tt.input.Name, h.Name)
			assert.Equal(t, tt.input.Icon, h.Icon)
			assert.Equal(t, tt.wantColor, h.Color)
			assert.Equal(t, time.Now().UTC().Format(types.DateLayout), h.CreatedDate)
		})
	}
}

func TestListHabits(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	habits, err := b.ListHabits(ctx)
	require.NoError(t, err)
	assert.NotNil(t, habits, "empty store lists an empty slice")
	assert.Empty(t, habits)

	first := mustCreateHabit(t, b, "Read", "📚")
	second := mustCreateHabit(t, b, "Exercise", "🏃")

	habits, err = b.ListHabits(ctx)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, []types.Habit{first, second}, habits, "ordered by id, not name")
}

func TestCreateHabit_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	first := mustCreateHabit(t, b, "Read", "📚")
	require.NoError(t, b.DeleteHabit(ctx, first.ID))

	second := mustCreateHabit(t, b, "Read", "📚")
	assert.Greater(t, second.ID, first.ID)
}

func TestUpdateHabit(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	h, err := b.CreateHabit(ctx, types.HabitInput{Name: "Read", Icon: "📚", Color: "#28a745"})
	require.NoError(t, err)

	t.Run("replaces mutable fields", func(t *testing.T) {
		require.NoError(t, b.UpdateHabit(ctx, h.ID, types.HabitInput{Name: "Read more", Icon: "📖", Color: "#dc3545"}))

		habits, err := b.ListHabits(ctx)
		require.NoError(t, err)
		require.Len(t, habits, 1)
		assert.Equal(t, h.ID, habits[0].ID)
		assert.Equal(t, "Read more", habits[0].Name)
		assert.Equal(t, "📖", habits[0].Icon)
		assert.Equal(t, "#dc3545", habits[0].Color)
		assert.Equal(t, h.CreatedDate, habits[0].CreatedDate)
	})

	t.Run("omitted color resets to default", func(t *testing.T) {
		require.NoError(t, b.UpdateHabit(ctx, h.ID, types.HabitInput{Name: "Read", Icon: "📚"}))

		habits, err := b.ListHabits(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.DefaultColor, habits[0].Color)
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		err := b.UpdateHabit(ctx, h.ID, types.HabitInput{Name: "", Icon: "📚"})
		assert.ErrorIs(t, err, types.ErrInvalidName)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := b.UpdateHabit(ctx, h.ID+100, types.HabitInput{Name: "Ghost", Icon: "👻"})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestDeleteHabit(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	keep := mustCreateHabit(t, b, "Read", "📚")
	drop := mustCreateHabit(t, b, "Exercise", "🏃")

	for _, date := range []string{"2024-01-15", "2024-01-16"} {
		require.NoError(t, b.UpsertEntry(ctx, types.HabitEntry{HabitID: keep.ID, Date: date, Value: "yes"}))
		require.NoError(t, b.UpsertEntry(ctx, types.HabitEntry{HabitID: drop.ID, Date: date, Value: "30 min"}))
	}

	require.NoError(t, b.DeleteHabit(ctx, drop.ID))

	habits, err := b.ListHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Habit{keep}, habits)

	var orphans int
	require.NoError(t, b.db.QueryRow(
		"SELECT COUNT(*) FROM habit_entries WHERE habit_id = ?", drop.ID,
	).Scan(&orphans))
	assert.Zero(t, orphans, "entries of the deleted habit must be gone")

	assert.Equal(t, 1, countEntries(t, b, keep.ID, "2024-01-15"))
	assert.Equal(t, 1, countEntries(t, b, keep.ID, "2024-01-16"))

	assert.ErrorIs(t, b.DeleteHabit(ctx, drop.ID), types.ErrNotFound)
}
