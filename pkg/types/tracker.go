package types

import (
	"context"
	"errors"
)

// HabitStore manages habit records.
type HabitStore interface {
	// ListHabits returns every habit ordered by ID (creation order).
	ListHabits(ctx context.Context) ([]Habit, error)

	// CreateHabit validates the input, applies the default color and returns
	// the stored habit with its assigned ID.
	CreateHabit(ctx context.Context, in HabitInput) (Habit, error)

	// UpdateHabit replaces name, icon and color. Returns ErrNotFound if no
	// habit has the given ID.
	UpdateHabit(ctx context.Context, id int64, in HabitInput) error

	// DeleteHabit removes the habit and all of its entries, entries first.
	// Returns ErrNotFound if no habit has the given ID.
	DeleteHabit(ctx context.Context, id int64) error
}

// EntryStore manages habit entries.
type EntryStore interface {
	// EntriesForDate returns one DayEntry per habit for the given date.
	EntriesForDate(ctx context.Context, date string) ([]DayEntry, error)

	// EntriesForMonth returns the entries recorded in the given month,
	// keyed by habit, with every habit present.
	EntriesForMonth(ctx context.Context, year, month int) (MonthEntries, error)

	// UpsertEntry inserts the entry or replaces the value of the existing
	// entry for the same habit and date. Returns ErrEntryRejected when a
	// storage constraint refuses the write.
	UpsertEntry(ctx context.Context, entry HabitEntry) error

	// DeleteEntry removes the entry for the habit and date if present.
	DeleteEntry(ctx context.Context, habitID int64, date string) error
}

// DatasetStore covers whole-dataset operations.
type DatasetStore interface {
	// ExportRecords returns one record per habit/entry pair, ordered by
	// habit name then entry date. Habits without entries appear once.
	ExportRecords(ctx context.Context) ([]Record, error)

	// ReplaceAll atomically deletes every habit and entry and rebuilds the
	// dataset from records. A failure leaves the previous dataset intact.
	ReplaceAll(ctx context.Context, records []Record) (ImportSummary, error)

	// RemoveDuplicates deletes all but the newest entry of every
	// (habit, date) group and returns the number of rows deleted.
	RemoveDuplicates(ctx context.Context) (int64, error)
}

// ImportSummary reports what ReplaceAll created.
type ImportSummary struct {
	Habits  int `json:"habits"`
	Entries int `json:"entries"`
}

// Store is the full data surface used by the HTTP server and the CLI.
type Store interface {
	HabitStore
	EntryStore
	DatasetStore
}

// Tracker is a Store with an attach/detach lifecycle.
type Tracker interface {
	Store

	// Attach opens the backend described by config, creating DataDir and
	// running schema migrations. Returns ErrAlreadyAttached if attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrDetached.
	Detach() error
}

// Tracker lifecycle errors.
var (
	ErrDetached        = errors.New("tracker is detached")
	ErrAlreadyAttached = errors.New("tracker is already attached")
)
