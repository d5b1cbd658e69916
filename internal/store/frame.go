package store

import (
	"database/sql"
	"encoding/json"
)

// FrameRecord is one recorded pipeline frame. Input holds the detector
// landmark groups as JSON; Output holds the solved raw and smoothed poses as
// JSON. Both sides are kept so solver changes can be replayed offline
// against the exact landmarks that produced a glitch.
type FrameRecord struct {
	ID          int64           `json:"id"`
	SessionID   string          `json:"session_id"`
	Sequence    int             `json:"sequence"`
	TimestampMs int64           `json:"timestamp_ms"`
	Input       json.RawMessage `json:"input"`
	Output      json.RawMessage `json:"output"`
}

// FrameRepository provides operations for recorded frames.
type FrameRepository struct {
	db *sql.DB
}

// Frames returns the frame repository for this store.
func (s *Store) Frames() *FrameRepository {
	return &FrameRepository{db: s.db}
}

// Append inserts one frame for a session.
func (r *FrameRepository) Append(f *FrameRecord) error {
	result, err := r.db.Exec(
		`INSERT INTO frames (session_id, sequence, timestamp_ms, input, output)
		 VALUES (?, ?, ?, ?, ?)`,
		f.SessionID, f.Sequence, f.TimestampMs, string(f.Input), string(f.Output),
	)
	if err != nil {
		return err
	}

	f.ID, err = result.LastInsertId()
	return err
}

// AppendBatch inserts a buffered run of frames in a single transaction. The
// recorder flushes in batches so a 30 FPS session does not issue one
// transaction per frame.
func (r *FrameRepository) AppendBatch(frames []*FrameRecord) error {
	if len(frames) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO frames (session_id, sequence, timestamp_ms, input, output)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range frames {
		if _, err := stmt.Exec(f.SessionID, f.Sequence, f.TimestampMs, string(f.Input), string(f.Output)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListBySession retrieves all frames for a session in capture order.
func (r *FrameRepository) ListBySession(sessionID string) ([]*FrameRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, sequence, timestamp_ms, input, output
		 FROM frames
		 WHERE session_id = ?
		 ORDER BY sequence`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []*FrameRecord
	for rows.Next() {
		f := &FrameRecord{}
		var input, output string
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Sequence, &f.TimestampMs, &input, &output); err != nil {
			return nil, err
		}
		f.Input = json.RawMessage(input)
		f.Output = json.RawMessage(output)
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return frames, nil
}

// CountBySession returns the number of frames recorded for a session.
func (r *FrameRepository) CountBySession(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM frames WHERE session_id = ?`, sessionID).Scan(&count)
	return count, err
}
