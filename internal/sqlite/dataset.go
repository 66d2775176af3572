package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// selectExport yields every habit at least once: the left join keeps habits
// without entries, with NULL date and value.
const selectExport = `SELECT h.name, h.icon,
    COALESCE(CAST(he.entry_date AS TEXT), ''), COALESCE(he.value, '')
FROM habits h
LEFT JOIN habit_entries he ON h.id = he.habit_id
ORDER BY h.name, he.entry_date, h.id`

// ExportRecords returns the dataset as CSV interchange records, ordered by
// habit name then entry date.
func (b *Backend) ExportRecords(ctx context.Context) ([]types.Record, error) {
	records := []types.Record{}
	err := b.withDB("export_records", func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, selectExport)
		if err != nil {
			return fmt.Errorf("querying export rows: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var r types.Record
			if err := rows.Scan(&r.Name, &r.Icon, &r.Date, &r.Value); err != nil {
				return fmt.Errorf("scanning export row: %w", err)
			}
			records = append(records, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceAll deletes every entry and habit and rebuilds the dataset from
// records, all in one transaction. Each record creates a new habit with the
// default color; an entry is added when the record's trimmed date is not
// empty. Any invalid record aborts the import and the previous dataset is
// kept.
func (b *Backend) ReplaceAll(ctx context.Context, records []types.Record) (types.ImportSummary, error) {
	var summary types.ImportSummary
	err := b.withDB("replace_all", func(db *sql.DB) error {
		return withTx(ctx, db, func(tx *sql.Tx) error {
			summary = types.ImportSummary{}

			if _, err := tx.ExecContext(ctx, "DELETE FROM habit_entries"); err != nil {
				return fmt.Errorf("clearing entries: %w", err)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM habits"); err != nil {
				return fmt.Errorf("clearing habits: %w", err)
			}

			for i, rec := range records {
				in, err := types.HabitInput{Name: rec.Name, Icon: rec.Icon}.Normalize()
				if err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
				habitID, _, err := insertHabit(ctx, tx, in)
				if err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
				summary.Habits++

				date := strings.TrimSpace(rec.Date)
				if date == "" {
					continue
				}
				if err := types.ValidateDate(date); err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO habit_entries (habit_id, entry_date, value) VALUES (?, ?, ?)",
					habitID, date, rec.Value,
				); err != nil {
					return fmt.Errorf("record %d: inserting entry: %w", i+1, err)
				}
				summary.Entries++
			}
			return nil
		})
	})
	if err != nil {
		return types.ImportSummary{}, err
	}

	b.logger.Info("dataset replaced",
		zap.Int("habits", summary.Habits),
		zap.Int("entries", summary.Entries),
	)
	return summary, nil
}

// RemoveDuplicates deletes all but the newest entry of every
// (habit_id, entry_date) group and returns the number of rows deleted.
// With the unique index in place it normally finds nothing; running it
// twice always reports zero the second time.
func (b *Backend) RemoveDuplicates(ctx context.Context) (int64, error) {
	var deleted int64
	err := b.withDB("remove_duplicates", func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, deleteDuplicateEntries)
		if err != nil {
			return fmt.Errorf("removing duplicate entries: %w", err)
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}
