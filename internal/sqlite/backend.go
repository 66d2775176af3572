// Package sqlite implements the SQLite storage backend for the habit tracker.
// The backend owns a single database file inside the configured data
// directory and exposes the types.Tracker interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/habits/internal/metrics"
	"github.com/mesh-intelligence/habits/pkg/types"
)

// Compile-time interface check: Backend must implement Tracker.
var _ types.Tracker = (*Backend)(nil)

// connPragmas are applied by the driver to every new connection.
const connPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Backend implements the Tracker interface on top of a SQLite file.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.Logger
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
// A nil logger discards all log output.
func NewBackend(logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{logger: logger}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, opens the database file and runs
// schema migrations. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, types.DatabaseFile)
	db, err := sql.Open("sqlite", dbPath+connPragmas)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}

	// SQLite benefits from a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("pinging %s: %w", dbPath, err)
	}

	if err := migrate(ctx, db, b.logger); err != nil {
		db.Close()
		return fmt.Errorf("migrating schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	b.logger.Debug("backend attached", zap.String("path", dbPath))
	return nil
}

// Detach releases all resources held by the backend.
// After Detach, all operations return ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.logger.Debug("backend detached")
	return nil
}

// withDB runs fn against the open database while holding the read lock,
// so Detach cannot close the handle mid-operation. The operation name is
// recorded in the storage latency histogram.
func (b *Backend) withDB(op string, fn func(db *sql.DB) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrDetached
	}

	start := time.Now()
	err := fn(b.db)
	metrics.ObserveStorage(op, err, time.Since(start))
	return err
}
