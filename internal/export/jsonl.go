package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/asachs01/claudeDocugen/internal"
)

// JSONLExporter exports sessions in JSONL format: a header line with the
// session envelope, then one line per step. Suited to piping into line
// processors and append-only logs.
type JSONLExporter struct{}

// Export serializes the session to w, one JSON value per line.
func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)

	header := map[string]interface{}{
		"id":           session.ID,
		"mode":         session.Mode,
		"started_at":   session.StartedAt,
		"ended_at":     session.EndedAt,
		"step_count":   session.StepCount(),
		"capabilities": session.Capabilities,
	}
	if session.Title != "" {
		header["title"] = session.Title
	}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("failed to encode session header: %w", err)
	}

	for i := range session.Steps {
		if err := enc.Encode(&session.Steps[i]); err != nil {
			return fmt.Errorf("failed to encode step %d: %w", session.Steps[i].Sequence, err)
		}
	}

	return nil
}

// Extension returns the conventional file extension.
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
