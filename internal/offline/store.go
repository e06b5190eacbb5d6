package offline

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pizzahunt/internal/sqlitedb"
)

const (
	// StoreName is the logical name of the local record store.
	StoreName = "pizza_hunt"
	// StoreVersion is the schema version the store is opened at.
	StoreVersion = 1
	// Partition is the table holding pending records.
	Partition = "new_pizza"
)

// Record is a pending creation payload. Key is local to the store and is
// never sent to the server.
type Record struct {
	Key      int64
	Payload  json.RawMessage
	QueuedAt time.Time
}

// Store is the local record store backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates the store at path and migrates it to
// StoreVersion.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sqlitedb.Open(path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, path: path}
	if err := store.migrate(sqlitedb.EnsureContext(ctx)); err != nil {
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

// Path returns the store file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Version returns the schema version recorded in the store.
func (s *Store) Version(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(sqlitedb.EnsureContext(ctx), "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read store version: %w", err)
	}
	return version, nil
}

// Add appends payload under a new auto-increment key.
func (s *Store) Add(ctx context.Context, payload json.RawMessage) (int64, error) {
	compacted, err := compactJSON(payload)
	if err != nil {
		return 0, err
	}
	res, err := sqlitedb.Exec(ctx, s.db,
		"INSERT INTO "+Partition+" (payload, created_at) VALUES (?, ?)",
		compacted,
		sqlitedb.FormatTime(time.Now()),
	)
	if err != nil {
		return 0, fmt.Errorf("add record: %w", err)
	}
	key, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return key, nil
}

// All returns every pending record in key order.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	var records []Record
	err := sqlitedb.RetryOnBusy(ctx, func() error {
		records = records[:0]
		rows, err := s.db.QueryContext(ctx, "SELECT id, payload, created_at FROM "+Partition+" ORDER BY id")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				rec        Record
				payload    string
				createdRaw string
			)
			if err := rows.Scan(&rec.Key, &payload, &createdRaw); err != nil {
				return err
			}
			rec.Payload = json.RawMessage(payload)
			if created, err := sqlitedb.ParseTime(createdRaw); err == nil {
				rec.QueuedAt = created
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return records, nil
}

// Count returns the number of pending records.
func (s *Store) Count(ctx context.Context) (int, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	var count int
	err := sqlitedb.RetryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM "+Partition).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// Clear removes every pending record.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := sqlitedb.Exec(ctx, s.db, "DELETE FROM "+Partition)
	if err != nil {
		return 0, fmt.Errorf("clear records: %w", err)
	}
	return res.RowsAffected()
}

// ClearThrough removes every record with a key up to and including key.
// Records appended after a flush read them keep larger keys and survive.
func (s *Store) ClearThrough(ctx context.Context, key int64) (int64, error) {
	res, err := sqlitedb.Exec(ctx, s.db, "DELETE FROM "+Partition+" WHERE id <= ?", key)
	if err != nil {
		return 0, fmt.Errorf("clear records: %w", err)
	}
	return res.RowsAffected()
}

func compactJSON(payload json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return "", errors.New("payload is empty")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return "", fmt.Errorf("payload is not valid JSON: %w", err)
	}
	return buf.String(), nil
}
