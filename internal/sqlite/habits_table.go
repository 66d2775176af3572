package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// DATE columns are read through CAST so the driver returns the stored ISO
// text rather than a parsed time.Time.
const selectHabits = `SELECT id, name, icon, COALESCE(color, '` + types.DefaultColor + `'),
    COALESCE(CAST(created_date AS TEXT), '')
FROM habits ORDER BY id`

// ListHabits returns every habit ordered by ID.
func (b *Backend) ListHabits(ctx context.Context) ([]types.Habit, error) {
	var habits []types.Habit
	err := b.withDB("list_habits", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, selectHabits)
		if err != nil {
			return fmt.Errorf("querying habits: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var h types.Habit
			if err := rows.Scan(&h.ID, &h.Name, &h.Icon, &h.Color, &h.CreatedDate); err != nil {
				return fmt.Errorf("scanning habit: %w", err)
			}
			habits = append(habits, h)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if habits == nil {
		habits = []types.Habit{}
	}
	return habits, nil
}

// CreateHabit validates the input and inserts a new habit. The default
// color is applied when none is given.
func (b *Backend) CreateHabit(ctx context.Context, in types.HabitInput) (types.Habit, error) {
	in, err := in.Normalize()
	if err != nil {
		return types.Habit{}, err
	}

	habit := types.Habit{Name: in.Name, Icon: in.Icon, Color: in.Color}
	err = b.withDB("create_habit", func(db *sql.DB) error {
		id, created, err := insertHabit(ctx, db, in)
		if err != nil {
			return err
		}
		habit.ID = id
		habit.CreatedDate = created
		return nil
	})
	if err != nil {
		return types.Habit{}, err
	}
	return habit, nil
}

// insertHabit stores a normalized habit and returns its ID and creation date.
func insertHabit(ctx context.Context, q execer, in types.HabitInput) (int64, string, error) {
	var (
		id      int64
		created string
	)
	err := q.QueryRowContext(ctx,
		`INSERT INTO habits (name, icon, color) VALUES (?, ?, ?)
RETURNING id, COALESCE(CAST(created_date AS TEXT), '')`,
		in.Name, in.Icon, in.Color,
	).Scan(&id, &created)
	if err != nil {
		return 0, "", fmt.Errorf("inserting habit: %w", err)
	}
	return id, created, nil
}

// UpdateHabit replaces name, icon and color of an existing habit.
// An omitted color resets the habit to the default color.
// Returns ErrNotFound if no habit has the given ID.
func (b *Backend) UpdateHabit(ctx context.Context, id int64, in types.HabitInput) error {
	in, err := in.Normalize()
	if err != nil {
		return err
	}

	return b.withDB("update_habit", func(db *sql.DB) error {
		res, err := db.ExecContext(ctx,
			"UPDATE habits SET name = ?, icon = ?, color = ? WHERE id = ?",
			in.Name, in.Icon, in.Color, id,
		)
		if err != nil {
			return fmt.Errorf("updating habit %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("updating habit %d: %w", id, err)
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
}

// DeleteHabit removes a habit and all of its entries in one transaction.
// Entries go first: the foreign key has no ON DELETE action, so removing
// the habit while entries reference it is rejected.
// Returns ErrNotFound if no habit has the given ID.
func (b *Backend) DeleteHabit(ctx context.Context, id int64) error {
	return b.withDB("delete_habit", func(db *sql.DB) error {
		return withTx(ctx, db, func(tx *sql.Tx) error {
			var exists bool
			err := tx.QueryRowContext(ctx, "SELECT 1 FROM habits WHERE id = ?", id).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return types.ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("checking habit %d: %w", id, err)
			}

			if _, err := tx.ExecContext(ctx, "DELETE FROM habit_entries WHERE habit_id = ?", id); err != nil {
				return fmt.Errorf("deleting entries of habit %d: %w", id, err)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id); err != nil {
				return fmt.Errorf("deleting habit %d: %w", id, err)
			}
			return nil
		})
	})
}
