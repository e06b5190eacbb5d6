package catalog

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"pizzahunt/internal/logging"
	"pizzahunt/internal/sqlitedb"
)

// Store manages pizza and comment persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	trace  bool
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for statement tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStatementLog logs every statement at debug level.
func WithStatementLog(enabled bool) Option {
	return func(s *Store) {
		s.trace = enabled
	}
}

// Open initializes or connects to the catalog database at path.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sqlitedb.Open(path)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, path: path, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(store)
	}
	store.logger = logging.NewComponentLogger(store.logger, "catalog")

	if err := store.initSchema(sqlitedb.EnsureContext(ctx)); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) traceStatement(ctx context.Context, op, query string, args ...any) {
	if !s.trace {
		return
	}
	s.logger.DebugContext(ctx, "catalog statement",
		logging.String("op", op),
		logging.String("query", query),
		logging.Int("args", len(args)),
	)
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
