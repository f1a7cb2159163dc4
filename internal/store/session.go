package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session represents one installation run.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
}

// KeyChange records one confirmed key selection within a session.
type KeyChange struct {
	ID        string
	SessionID string
	KeyName   string
	ChangedAt time.Time
}

// SessionRepository provides access to sessions and their key-change log.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start creates a new session.
func (r *SessionRepository) Start() (*Session, error) {
	sess := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)`,
		sess.ID, sess.StartedAt,
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// End marks a session as finished.
func (r *SessionRepository) End(id string) error {
	now := time.Now()
	res, err := r.db.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.StartedAt, &ended)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if ended.Valid {
		sess.EndedAt = &ended.Time
	}
	return sess, nil
}

// RecordKeyChange appends a key selection to a session's log.
func (r *SessionRepository) RecordKeyChange(sessionID, keyName string) error {
	_, err := r.db.Exec(
		`INSERT INTO key_changes (id, session_id, key_name, changed_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), sessionID, keyName, time.Now(),
	)
	return err
}

// KeyChanges returns a session's key selections in chronological order.
func (r *SessionRepository) KeyChanges(sessionID string) ([]KeyChange, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, key_name, changed_at
		 FROM key_changes WHERE session_id = ? ORDER BY changed_at, rowid`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var changes []KeyChange
	for rows.Next() {
		var kc KeyChange
		if err := rows.Scan(&kc.ID, &kc.SessionID, &kc.KeyName, &kc.ChangedAt); err != nil {
			return nil, err
		}
		changes = append(changes, kc)
	}

	return changes, rows.Err()
}
