package testutil

import (
	"testing"
	"time"

	"github.com/asachs01/claudeDocugen/internal"
)

// SampleSession builds a sealed two-step session for store and export tests.
func SampleSession(t *testing.T) *internal.Session {
	t.Helper()
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &internal.Session{
		ID:        "11111111-2222-3333-4444-555555555555",
		Title:     "submit expense report",
		Mode:      internal.ModeWeb,
		StartedAt: started,
		EndedAt:   started.Add(2 * time.Minute),
		Capabilities: internal.Capabilities{
			OS:               "linux",
			Mode:             internal.ModeWeb,
			ScreenshotMethod: "devtools",
			Accessibility:    internal.BackendDOM,
			DPIScale:         1.0,
		},
		Steps: []internal.StepRecord{
			{
				Sequence:        1,
				Description:     "open the expenses page",
				Similarity:      0.42,
				Mode:            internal.ModeWeb,
				DetectionMethod: internal.DetectionSimilarity,
				CapturedAt:      started.Add(10 * time.Second),
				Element: &internal.ElementDescriptor{
					Name:       "Expenses",
					Role:       "link",
					Bounds:     internal.Rect{X: 40, Y: 120, Width: 90, Height: 24},
					Provenance: internal.ProvenanceAccessibility,
				},
			},
			{
				Sequence:        2,
				Description:     "enter the card number",
				Similarity:      0.81,
				Mode:            internal.ModeWeb,
				DetectionMethod: internal.DetectionSimilarity,
				CapturedAt:      started.Add(40 * time.Second),
				Element: &internal.ElementDescriptor{
					Name:       "Card number",
					Role:       "text_field",
					Bounds:     internal.Rect{X: 200, Y: 300, Width: 220, Height: 32},
					Provenance: internal.ProvenanceAccessibility,
					Label:      "Card number",
				},
				Redactions: []internal.RedactionFlag{
					{
						Bounds:   internal.Rect{X: 200, Y: 300, Width: 220, Height: 32},
						Reason:   internal.ReasonCreditCard,
						Approved: false,
					},
				},
			},
		},
	}
}
