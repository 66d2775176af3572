// Package sqlite provides the public constructor for the SQLite habit store
// while keeping the implementation internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/internal/sqlite"
	"github.com/mesh-intelligence/habits/pkg/types"
)

// NewBackend creates a detached SQLite tracker. A nil logger discards
// output.
//
// Example:
//
//	tracker := sqlite.NewBackend(nil)
//	err := tracker.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/var/lib/habits",
//	})
//	defer tracker.Detach()
func NewBackend(logger *zap.Logger) types.Tracker {
	return sqlite.NewBackend(logger)
}
