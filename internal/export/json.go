package export

import (
	"encoding/json"
	"io"

	"github.com/asachs01/claudeDocugen/internal"
)

// JSONExporter writes the whole session as one indented JSON document.
type JSONExporter struct{}

// Export serializes the session to w.
func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(session)
}

// Extension returns the conventional file extension.
func (e *JSONExporter) Extension() string {
	return "json"
}
