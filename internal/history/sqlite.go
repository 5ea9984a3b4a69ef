package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobmatch/internal/model"
)

// Ensure SQLiteStore implements model.SessionStore.
var _ model.SessionStore = (*SQLiteStore)(nil)

// SQLiteStore keeps completed searches in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the sessions table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS sessions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		query      TEXT NOT NULL,
		keywords   TEXT NOT NULL DEFAULT '[]',
		location   TEXT NOT NULL DEFAULT '',
		remote     INTEGER NOT NULL DEFAULT 0,
		job_count  INTEGER NOT NULL DEFAULT 0,
		advice     TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Record inserts a session and returns its ID.
func (s *SQLiteStore) Record(sess model.Session) (int64, error) {
	keywords, err := json.Marshal(sess.Preferences.Keywords)
	if err != nil {
		return 0, fmt.Errorf("encoding keywords: %w", err)
	}
	createdAt := sess.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.Exec(
		`INSERT INTO sessions (query, keywords, location, remote, job_count, advice, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.Query, string(keywords), sess.Preferences.Location, sess.Preferences.Remote,
		sess.JobCount, sess.Advice, createdAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("recording session for %q: %w", sess.Query, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading session id: %w", err)
	}
	return id, nil
}

// AttachAdvice stores the match advice on an existing session.
func (s *SQLiteStore) AttachAdvice(id int64, advice string) error {
	res, err := s.db.Exec("UPDATE sessions SET advice = ? WHERE id = ?", advice, id)
	if err != nil {
		return fmt.Errorf("attaching advice to session %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("attaching advice to session %d: no such session", id)
	}
	return nil
}

// Recent returns up to limit sessions, newest first.
func (s *SQLiteStore) Recent(limit int) ([]model.Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, query, keywords, location, remote, job_count, advice, created_at
		 FROM sessions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var (
			sess      model.Session
			keywords  string
			createdAt int64
		)
		if err := rows.Scan(&sess.ID, &sess.Query, &keywords, &sess.Preferences.Location,
			&sess.Preferences.Remote, &sess.JobCount, &sess.Advice, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if err := json.Unmarshal([]byte(keywords), &sess.Preferences.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords of session %d: %w", sess.ID, err)
		}
		sess.CreatedAt = time.Unix(createdAt, 0)
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// Cleanup deletes sessions older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).Unix()
	_, err := s.db.Exec("DELETE FROM sessions WHERE created_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up sessions older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
