package state

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite snapshot store. A nil logger
// discards all tracing.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("store opened", "path", path)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema initializes the database schema.
func (s *SQLiteStore) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// SaveSession inserts a snapshot, or overwrites the existing one for
// the same session id. The original created_at is preserved on update.
func (s *SQLiteStore) SaveSession(record *SessionRecord) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	record.UpdatedAt = now

	var createdAt time.Time
	err := s.db.QueryRow(`SELECT created_at FROM sessions WHERE id = ?`, record.ID).Scan(&createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		record.CreatedAt = now
	case err != nil:
		return fmt.Errorf("failed to check existing session: %w", err)
	default:
		record.CreatedAt = createdAt
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO sessions (id, name, object_count, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.Name, record.ObjectCount, record.Payload, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Debug("session saved", "id", record.ID, "name", record.Name, "objects", record.ObjectCount)
	return nil
}

// GetSession retrieves a snapshot by session id.
func (s *SQLiteStore) GetSession(id string) (*SessionRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	record := &SessionRecord{}
	err := s.db.QueryRow(
		`SELECT id, name, object_count, payload, created_at, updated_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&record.ID, &record.Name, &record.ObjectCount, &record.Payload, &record.CreatedAt, &record.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return record, nil
}

// ListSessions retrieves all snapshots, newest first.
func (s *SQLiteStore) ListSessions() ([]*SessionRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, name, object_count, payload, created_at, updated_at
		 FROM sessions ORDER BY updated_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []*SessionRecord
	for rows.Next() {
		record := &SessionRecord{}
		err := rows.Scan(&record.ID, &record.Name, &record.ObjectCount, &record.Payload,
			&record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeleteSession removes a snapshot by session id.
func (s *SQLiteStore) DeleteSession(id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.logger.Debug("session deleted", "id", id)
	return nil
}

// Ensure SQLiteStore implements the Store interface.
var _ Store = (*SQLiteStore)(nil)
