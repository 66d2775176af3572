package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// selectDay left-joins every habit against its entry on one date, so habits
// without an entry still produce a row with a NULL value.
const selectDay = `SELECT h.id, h.name, h.icon, COALESCE(h.color, '` + types.DefaultColor + `'),
    COALESCE(he.value, '')
FROM habits h
LEFT JOIN habit_entries he ON h.id = he.habit_id AND he.entry_date = ?
ORDER BY h.id`

const selectMonth = `SELECT habit_id, CAST(entry_date AS TEXT), COALESCE(value, '')
FROM habit_entries
WHERE entry_date >= ? AND entry_date < ?
ORDER BY habit_id, entry_date`

// upsertEntry relies on idx_habit_date_unique as the conflict target: a
// second write for the same pair updates the existing row in place.
const upsertEntry = `INSERT INTO habit_entries (habit_id, entry_date, value)
VALUES (?, ?, ?)
ON CONFLICT (habit_id, entry_date) DO UPDATE SET value = excluded.value`

// EntriesForDate returns one DayEntry per habit for the given date, with an
// empty value for habits that have no entry that day.
func (b *Backend) EntriesForDate(ctx context.Context, date string) ([]types.DayEntry, error) {
	if err := types.ValidateDate(date); err != nil {
		return nil, err
	}

	entries := []types.DayEntry{}
	err := b.withDB("entries_for_date", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, selectDay, date)
		if err != nil {
			return fmt.Errorf("querying entries for %s: %w", date, err)
		}
		defer rows.Close()

		for rows.Next() {
			var e types.DayEntry
			if err := rows.Scan(&e.HabitID, &e.Name, &e.Icon, &e.Color, &e.Value); err != nil {
				return fmt.Errorf("scanning entry: %w", err)
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// EntriesForMonth returns the values recorded in [first of month, first of
// next month). The result is pre-seeded with an empty map for every habit.
func (b *Backend) EntriesForMonth(ctx context.Context, year, month int) (types.MonthEntries, error) {
	start, end, err := types.MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	result := types.MonthEntries{}
	err = b.withDB("entries_for_month", func(db *sql.DB) error {
		// The habit id rows are closed before the entry query runs: the pool
		// holds a single connection.
		ids, err := habitIDs(ctx, db)
		if err != nil {
			return err
		}
		for _, id := range ids {
			result[id] = map[string]string{}
		}

		rows, err := db.QueryContext(ctx, selectMonth, start, end)
		if err != nil {
			return fmt.Errorf("querying entries for %s: %w", start[:7], err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				habitID     int64
				date, value string
			)
			if err := rows.Scan(&habitID, &date, &value); err != nil {
				return fmt.Errorf("scanning entry: %w", err)
			}
			// Orphaned rows from legacy files have no habit key and are skipped.
			if days, ok := result[habitID]; ok {
				days[date] = value
			}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpsertEntry writes the value for (HabitID, Date), replacing any existing
// value. Constraint violations, including an unknown habit, are reported as
// ErrEntryRejected.
func (b *Backend) UpsertEntry(ctx context.Context, entry types.HabitEntry) error {
	if entry.HabitID <= 0 {
		return types.ErrInvalidHabitID
	}
	if err := types.ValidateDate(entry.Date); err != nil {
		return err
	}

	return b.withDB("upsert_entry", func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, upsertEntry, entry.HabitID, entry.Date, entry.Value)
		if isConstraintError(err) {
			return fmt.Errorf("%w: habit %d on %s", types.ErrEntryRejected, entry.HabitID, entry.Date)
		}
		if err != nil {
			return fmt.Errorf("writing entry for habit %d on %s: %w", entry.HabitID, entry.Date, err)
		}
		return nil
	})
}

// DeleteEntry removes the entry for the habit and date. A missing entry is
// not an error.
func (b *Backend) DeleteEntry(ctx context.Context, habitID int64, date string) error {
	if err := types.ValidateDate(date); err != nil {
		return err
	}

	return b.withDB("delete_entry", func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			"DELETE FROM habit_entries WHERE habit_id = ? AND entry_date = ?",
			habitID, date,
		)
		if err != nil {
			return fmt.Errorf("deleting entry for habit %d on %s: %w", habitID, date, err)
		}
		return nil
	})
}

// habitIDs returns every habit ID in ascending order.
func habitIDs(ctx context.Context, q execer) ([]int64, error) {
	rows, err := q.QueryContext(ctx, "SELECT id FROM habits ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying habit ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning habit id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
