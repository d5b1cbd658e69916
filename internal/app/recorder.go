package app

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/kathak/internal/detector"
	"github.com/ayusman/kathak/internal/rig"
	"github.com/ayusman/kathak/internal/solver"
	"github.com/ayusman/kathak/internal/store"
)

// ErrNoStore is returned when recording is requested without a database.
var ErrNoStore = errors.New("no store configured")

// recordBatchSize is how many frames the recorder buffers before flushing
// to the database in one transaction.
const recordBatchSize = 30

// recorder buffers solved frames and writes them to the store in batches.
// Both the landmark input and the solved output are stored, so a session can
// be replayed offline against a changed solver.
type recorder struct {
	store     *store.Store
	sessionID string
	seq       int
	buf       []*store.FrameRecord
}

// recordedOutput is the JSON shape of a frame's output column.
type recordedOutput struct {
	Raw      *rig.Pose `json:"raw"`
	Smoothed *rig.Pose `json:"smoothed"`
}

// newRecorder creates a session row and returns a recorder appending to it.
func newRecorder(st *store.Store, name string, version rig.Version) (*recorder, error) {
	if name == "" {
		name = "Take " + time.Now().Format("2006-01-02 15:04:05")
	}
	session := &store.Session{
		ID:         uuid.New().String(),
		Name:       name,
		RigVersion: version.String(),
	}
	if err := st.Sessions().Create(session); err != nil {
		return nil, err
	}

	return &recorder{
		store:     st,
		sessionID: session.ID,
		buf:       make([]*store.FrameRecord, 0, recordBatchSize),
	}, nil
}

// record buffers one frame, flushing when the batch is full.
func (r *recorder) record(in *detector.Frame, res *solver.Result) error {
	input, err := json.Marshal(in)
	if err != nil {
		return err
	}
	output, err := json.Marshal(recordedOutput{Raw: res.Raw, Smoothed: res.Smoothed})
	if err != nil {
		return err
	}

	r.buf = append(r.buf, &store.FrameRecord{
		SessionID:   r.sessionID,
		Sequence:    r.seq,
		TimestampMs: in.TimestampMs,
		Input:       input,
		Output:      output,
	})
	r.seq++

	if len(r.buf) >= recordBatchSize {
		return r.flush()
	}
	return nil
}

func (r *recorder) flush() error {
	if len(r.buf) == 0 {
		return nil
	}
	if err := r.store.Frames().AppendBatch(r.buf); err != nil {
		return err
	}
	r.buf = r.buf[:0]
	return nil
}

// close flushes the remaining buffer and seals the session row.
func (r *recorder) close() error {
	if err := r.flush(); err != nil {
		return err
	}
	return r.store.Sessions().End(r.sessionID, r.seq)
}
