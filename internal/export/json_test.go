package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/asachs01/claudeDocugen/internal"
	"github.com/asachs01/claudeDocugen/testutil"
)

func TestJSONExport(t *testing.T) {
	session := testutil.SampleSession(t)
	var buf bytes.Buffer

	e := &JSONExporter{}
	if err := e.Export(session, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded internal.Session
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.ID != session.ID {
		t.Errorf("ID = %q, want %q", decoded.ID, session.ID)
	}
	if len(decoded.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(decoded.Steps))
	}
	if decoded.Steps[1].Element.Role != "text_field" {
		t.Errorf("element role = %q, want text_field", decoded.Steps[1].Element.Role)
	}
	if len(decoded.Steps[1].Redactions) != 1 {
		t.Errorf("redactions = %d, want 1", len(decoded.Steps[1].Redactions))
	}
}

func TestJSONExportOmitsRawPixels(t *testing.T) {
	session := testutil.SampleSession(t)
	session.Steps[0].Before = &internal.Screenshot{Gray: []uint8{1, 2, 3}, Width: 3, Height: 1}

	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(session, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("Gray")) {
		t.Error("raw pixel data leaked into the export")
	}
}
