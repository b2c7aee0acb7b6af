package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/asachs01/claudeDocugen/internal"
)

// YAMLExporter writes the session as a YAML document, the friendliest shape
// for hand editing before rendering.
type YAMLExporter struct{}

// Export serializes the session to w.
func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(session)
}

// Extension returns the conventional file extension.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
