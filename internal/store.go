package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	title TEXT,
	mode TEXT NOT NULL,
	started_at TEXT NOT NULL,
	ended_at TEXT NOT NULL,
	capabilities TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS steps (
	session_id TEXT NOT NULL REFERENCES sessions(id),
	sequence INTEGER NOT NULL,
	description TEXT,
	similarity REAL NOT NULL,
	mode TEXT NOT NULL,
	detection_method TEXT NOT NULL,
	captured_at TEXT NOT NULL,
	element TEXT,
	redactions TEXT,
	before_path TEXT,
	after_path TEXT,
	PRIMARY KEY (session_id, sequence)
);
`

// Store persists sealed sessions to SQLite. Sessions are written whole after
// sealing; the read path serves the list/show/export commands.
type Store struct {
	db *sql.DB
}

// DefaultStorePath returns the default session database location under the
// user's home directory.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".docugen", "sessions.db"), nil
}

// OpenStore opens (creating if needed) the session database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Err: err}
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Err: err}
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open database handle. Used by tests with an
// in-memory database.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(storeSchema); err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession writes a sealed session and all its steps in one transaction.
func (s *Store) SaveSession(session *Session) error {
	capsJSON, err := json.Marshal(session.Capabilities)
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, title, mode, started_at, ended_at, capabilities) VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.Title, string(session.Mode),
		session.StartedAt.Format(time.RFC3339Nano),
		session.EndedAt.Format(time.RFC3339Nano),
		string(capsJSON),
	)
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}

	for i := range session.Steps {
		if err := insertStep(tx, session.ID, &session.Steps[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}

func insertStep(tx *sql.Tx, sessionID string, step *StepRecord) error {
	var elementJSON, redactionsJSON sql.NullString
	if step.Element != nil {
		data, err := json.Marshal(step.Element)
		if err != nil {
			return &StoreError{Op: "save", Err: err}
		}
		elementJSON = sql.NullString{String: string(data), Valid: true}
	}
	if len(step.Redactions) > 0 {
		data, err := json.Marshal(step.Redactions)
		if err != nil {
			return &StoreError{Op: "save", Err: err}
		}
		redactionsJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := tx.Exec(
		`INSERT INTO steps (session_id, sequence, description, similarity, mode, detection_method, captured_at, element, redactions, before_path, after_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, step.Sequence, step.Description, step.Similarity,
		string(step.Mode), string(step.DetectionMethod),
		step.CapturedAt.Format(time.RFC3339Nano),
		elementJSON, redactionsJSON, step.BeforePath, step.AfterPath,
	)
	if err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	ID        string
	Title     string
	Mode      Mode
	StartedAt time.Time
	StepCount int
}

// ListSessions returns summaries of all stored sessions, newest first.
func (s *Store) ListSessions() ([]SessionSummary, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.title, s.mode, s.started_at, COUNT(st.sequence)
		FROM sessions s LEFT JOIN steps st ON st.session_id = s.id
		GROUP BY s.id ORDER BY s.started_at DESC`)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var mode, started string
		if err := rows.Scan(&sum.ID, &sum.Title, &mode, &started, &sum.StepCount); err != nil {
			return nil, &StoreError{Op: "list", Err: err}
		}
		sum.Mode = Mode(mode)
		sum.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return out, nil
}

// LoadSession reads one session and its steps by ID or unique ID prefix.
func (s *Store) LoadSession(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, title, mode, started_at, ended_at, capabilities
		 FROM sessions WHERE id = ? OR id LIKE ? || '%'`, id, id)

	var session Session
	var mode, started, ended, capsJSON string
	if err := row.Scan(&session.ID, &session.Title, &mode, &started, &ended, &capsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, &StoreError{Op: "load", Err: fmt.Errorf("session %s not found", id)}
		}
		return nil, &StoreError{Op: "load", Err: err}
	}
	session.Mode = Mode(mode)
	session.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	session.EndedAt, _ = time.Parse(time.RFC3339Nano, ended)
	if err := json.Unmarshal([]byte(capsJSON), &session.Capabilities); err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}

	steps, err := s.loadSteps(session.ID)
	if err != nil {
		return nil, err
	}
	session.Steps = steps
	return &session, nil
}

func (s *Store) loadSteps(sessionID string) ([]StepRecord, error) {
	rows, err := s.db.Query(
		`SELECT sequence, description, similarity, mode, detection_method, captured_at, element, redactions, before_path, after_path
		 FROM steps WHERE session_id = ? ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	defer rows.Close()

	var steps []StepRecord
	for rows.Next() {
		var step StepRecord
		var mode, method, captured string
		var elementJSON, redactionsJSON sql.NullString
		if err := rows.Scan(&step.Sequence, &step.Description, &step.Similarity,
			&mode, &method, &captured, &elementJSON, &redactionsJSON,
			&step.BeforePath, &step.AfterPath); err != nil {
			return nil, &StoreError{Op: "load", Err: err}
		}
		step.Mode = Mode(mode)
		step.DetectionMethod = DetectionMethod(method)
		step.CapturedAt, _ = time.Parse(time.RFC3339Nano, captured)
		if elementJSON.Valid {
			var elem ElementDescriptor
			if err := json.Unmarshal([]byte(elementJSON.String), &elem); err == nil {
				step.Element = &elem
			} else {
				LogWarn("step %d: skipping malformed element metadata: %v", step.Sequence, err)
			}
		}
		if redactionsJSON.Valid {
			if err := json.Unmarshal([]byte(redactionsJSON.String), &step.Redactions); err != nil {
				LogWarn("step %d: skipping malformed redaction flags: %v", step.Sequence, err)
			}
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "load", Err: err}
	}
	return steps, nil
}
