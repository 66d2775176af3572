package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// currentSchemaVersion is stored in PRAGMA user_version once every
// migration below has been applied.
const currentSchemaVersion = 2

// errDuplicatesRemain aborts the unique index migration when cleanup left
// duplicate (habit_id, entry_date) groups behind.
var errDuplicatesRemain = errors.New("duplicate entries remain after cleanup")

// migrate creates missing tables and applies versioned migrations in a
// single transaction. Running it against an up-to-date file is a no-op.
func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		for _, ddl := range schemaDDL {
			if _, err := tx.ExecContext(ctx, ddl); err != nil {
				return fmt.Errorf("creating tables: %w", err)
			}
		}

		var version int
		if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
			return fmt.Errorf("reading user_version: %w", err)
		}

		if version < 1 {
			if err := migrateToV1(ctx, tx, logger); err != nil {
				return err
			}
		}
		if version < 2 {
			if err := migrateToV2(ctx, tx, logger); err != nil {
				return err
			}
		}

		if version != currentSchemaVersion {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
				return fmt.Errorf("setting user_version: %w", err)
			}
			logger.Info("schema migrated",
				zap.Int("from_version", version),
				zap.Int("to_version", currentSchemaVersion),
			)
		}
		return nil
	})
}

// migrateToV1 adds habits.color to files created before the column existed.
func migrateToV1(ctx context.Context, tx *sql.Tx, logger *zap.Logger) error {
	added, err := addColumnIfNotExists(ctx, tx, "habits", "color",
		fmt.Sprintf("TEXT DEFAULT '%s'", types.DefaultColor))
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	if added {
		logger.Info("added habits.color column")
	}
	return nil
}

// migrateToV2 removes duplicate entries and then creates the unique index.
// The index must never be attempted while duplicates exist.
func migrateToV2(ctx context.Context, tx *sql.Tx, logger *zap.Logger) error {
	res, err := tx.ExecContext(ctx, deleteDuplicateEntries)
	if err != nil {
		return fmt.Errorf("migrate to v2: removing duplicates: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.Info("removed duplicate entries before creating unique index", zap.Int64("deleted", n))
	}

	var groups int
	if err := tx.QueryRowContext(ctx, countDuplicateGroups).Scan(&groups); err != nil {
		return fmt.Errorf("migrate to v2: counting duplicates: %w", err)
	}
	if groups > 0 {
		return fmt.Errorf("migrate to v2: %w (%d groups)", errDuplicatesRemain, groups)
	}

	if _, err := tx.ExecContext(ctx, idxHabitDateUnique); err != nil {
		return fmt.Errorf("migrate to v2: creating unique index: %w", err)
	}
	return nil
}

// addColumnIfNotExists checks PRAGMA table_info before altering the table,
// so the migration does not depend on catching a "duplicate column" error.
func addColumnIfNotExists(ctx context.Context, q execer, table, column, definition string) (bool, error) {
	exists, err := hasColumn(ctx, q, table, column)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := q.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)); err != nil {
		return false, fmt.Errorf("adding %s.%s: %w", table, column, err)
	}
	return true, nil
}

// hasColumn reports whether table has a column with the given name.
func hasColumn(ctx context.Context, q execer, table, column string) (bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("reading %s columns: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid          int
			name, typ    string
			notNull      int
			defaultValue any
			pk           int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultValue, &pk); err != nil {
			return false, fmt.Errorf("scanning %s columns: %w", table, err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
