package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one recorded capture session. EndedAt is nil while the
// session is still recording.
type Session struct {
	ID         string
	Name       string
	RigVersion string
	Frames     int
	StartedAt  time.Time
	EndedAt    *time.Time
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(s *Session) error {
	s.StartedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, name, rig_version, frames, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.RigVersion, s.Frames, s.StartedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	s := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, name, rig_version, frames, started_at, ended_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&s.ID, &s.Name, &s.RigVersion, &s.Frames, &s.StartedAt, &endedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		s.EndedAt = &endedAt.Time
	}
	return s, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, name, rig_version, frames, started_at, ended_at
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s := &Session{}
		var endedAt sql.NullTime

		if err := rows.Scan(&s.ID, &s.Name, &s.RigVersion, &s.Frames, &s.StartedAt, &endedAt); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			s.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// End marks a session as finished and records its final frame count.
func (r *SessionRepository) End(id string, frames int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ? WHERE id = ? AND ended_at IS NULL`,
		time.Now(), frames, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a session from the database by its ID. Frames cascade.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
