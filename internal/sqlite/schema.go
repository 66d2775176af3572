package sqlite

// Schema DDL. Tables are created only when missing so an existing store
// keeps its data; later columns and constraints arrive through migrate.
// habit_entries carries no inline UNIQUE clause: the named index
// idx_habit_date_unique enforces (habit_id, entry_date) for fresh and
// legacy files alike.
const (
	createHabits = `CREATE TABLE IF NOT EXISTS habits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    icon TEXT NOT NULL,
    color TEXT DEFAULT '#007bff',
    created_date DATE DEFAULT CURRENT_DATE
);`

	createHabitEntries = `CREATE TABLE IF NOT EXISTS habit_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    habit_id INTEGER NOT NULL,
    entry_date DATE NOT NULL,
    value TEXT DEFAULT '',
    FOREIGN KEY (habit_id) REFERENCES habits (id)
);`
)

// Index DDL.
const (
	idxHabitDateUnique = `CREATE UNIQUE INDEX IF NOT EXISTS idx_habit_date_unique ON habit_entries(habit_id, entry_date);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createHabits,
	createHabitEntries,
}

// Duplicate handling. Within each (habit_id, entry_date) group the row with
// the highest id is the most recent write and is the one kept.
const (
	deleteDuplicateEntries = `DELETE FROM habit_entries
WHERE id NOT IN (
    SELECT MAX(id) FROM habit_entries GROUP BY habit_id, entry_date
);`

	countDuplicateGroups = `SELECT COUNT(*) FROM (
    SELECT 1 FROM habit_entries GROUP BY habit_id, entry_date HAVING COUNT(*) > 1
);`
)
