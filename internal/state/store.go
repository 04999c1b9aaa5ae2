// Package state persists session snapshots in SQLite. Each snapshot is
// the session's JSON form plus a few queryable columns.
package state

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a snapshot id is unknown.
var ErrNotFound = errors.New("session not found")

// SessionRecord is one stored snapshot. ID is the session guid, so
// saving the same session again overwrites its previous snapshot.
type SessionRecord struct {
	ID          string
	Name        string
	ObjectCount int
	Payload     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store is the snapshot storage interface.
type Store interface {
	Open(path string) error
	Close() error
	InitSchema() error

	SaveSession(record *SessionRecord) error
	GetSession(id string) (*SessionRecord, error)
	ListSessions() ([]*SessionRecord, error)
	DeleteSession(id string) error
}
