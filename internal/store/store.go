// Package store persists the small amount of client state that must
// survive process restarts: the session id, the install referrer, the
// current attribution referrer token, and the one-shot flag recording
// that the deferred deep-link check already ran.
//
// State is a namespaced key/value table in SQLite. Every field is
// independently idempotent: setting a field to the empty string is a
// no-op and the existing value is preserved, so writes never have to be
// coordinated across fields.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// namespacePrefix scopes all linkback rows; the full namespace is
// namespacePrefix + "." + applicationID.
const namespacePrefix = "linkback"

// Field keys within a namespace.
const (
	keySessionID       = "session-id"
	keyInstallReferrer = "install-referrer"
	keyDeferredChecked = "deferred-checked"
	keyReferrer        = "referrer"
)

const currentSchemaVersion = 1

// Store provides durable storage for one application id's client state.
type Store struct {
	db *sql.DB
	ns string
}

// Open creates or opens the state database at path, scoped to the
// given application id.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// Safe to call multiple times for the same path; the schema is applied
// idempotently.
func Open(path, applicationID string) (*Store, error) {
	if applicationID == "" {
		return nil, fmt.Errorf("open store: application id is required")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, ns: namespacePrefix + "." + applicationID}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("exec %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables and records the schema version.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}

	var version int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version > currentSchemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}
	return nil
}

// get returns the stored value for key, or "" when unset.
func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM state WHERE ns = ? AND key = ?", s.ns, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

// set writes value for key. Empty values are a no-op: an existing
// value is never cleared by writing "".
func (s *Store) set(key, value string) error {
	if value == "" {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO state (ns, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (ns, key) DO UPDATE SET
		   value = excluded.value,
		   updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		s.ns, key, value,
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// SessionID retrieves the previously-saved session id, or "".
func (s *Store) SessionID() (string, error) {
	return s.get(keySessionID)
}

// SetSessionID sets the session id. Empty ids are ignored.
func (s *Store) SetSessionID(id string) error {
	return s.set(keySessionID, id)
}

// InstallReferrer returns the referrer captured at install time, if
// one was forwarded from the store listing.
func (s *Store) InstallReferrer() (string, error) {
	return s.get(keyInstallReferrer)
}

// SetInstallReferrer stores the referrer provided through the
// installation process. Empty values are ignored.
func (s *Store) SetInstallReferrer(referrer string) error {
	return s.set(keyInstallReferrer, referrer)
}

// Referrer retrieves the current attribution referrer token, or "".
func (s *Store) Referrer() (string, error) {
	return s.get(keyReferrer)
}

// SetReferrer sets the referrer received from an inbound deep link or
// a recovered deferred attribution. Empty values are ignored.
func (s *Store) SetReferrer(referrer string) error {
	return s.set(keyReferrer, referrer)
}

// MarkDeferredChecked records that an attempt was made to recover a
// deferred deep link, preventing all subsequent attempts.
func (s *Store) MarkDeferredChecked() error {
	return s.set(keyDeferredChecked, "true")
}

// DidCheckDeferred reports whether the deferred deep-link check has
// ever run for this application id.
func (s *Store) DidCheckDeferred() (bool, error) {
	v, err := s.get(keyDeferredChecked)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// Clear removes all state for this store's namespace. Other
// application ids sharing the database file are untouched.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM state WHERE ns = ?", s.ns); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}
