package internal

import (
	"testing"
)

func newTestRedactor() *SensitiveRegionDetector {
	return NewSensitiveRegionDetector(RedactionConfig{})
}

func TestScanPasswordInputType(t *testing.T) {
	d := newTestRedactor()
	elem := &ElementDescriptor{
		Name:      "credentials",
		Role:      "text_field",
		Bounds:    Rect{X: 10, Y: 20, Width: 200, Height: 30},
		InputType: "password",
	}

	flags := d.Scan(elem)
	passwordFlags := 0
	for _, f := range flags {
		if f.Reason == ReasonPassword {
			passwordFlags++
			if !f.Approved {
				t.Error("structural password match must default to approved")
			}
			if f.Bounds != elem.Bounds {
				t.Errorf("flag bounds = %+v, want element bounds %+v", f.Bounds, elem.Bounds)
			}
		}
	}
	if passwordFlags != 1 {
		t.Errorf("password flags = %d, want exactly 1", passwordFlags)
	}
}

func TestScanHeuristicLabelMatch(t *testing.T) {
	d := newTestRedactor()
	elem := &ElementDescriptor{
		Name:   "Social Security Number",
		Role:   "text_field",
		Bounds: Rect{X: 0, Y: 0, Width: 150, Height: 30},
	}

	flags := d.Scan(elem)
	if len(flags) != 1 {
		t.Fatalf("flags = %d, want 1", len(flags))
	}
	if flags[0].Reason != ReasonSSN {
		t.Errorf("reason = %q, want %q", flags[0].Reason, ReasonSSN)
	}
	if flags[0].Approved {
		t.Error("heuristic match must default to pending review, not approved")
	}
}

func TestScanHeuristicHonorsAutoApprove(t *testing.T) {
	d := NewSensitiveRegionDetector(RedactionConfig{
		AutoApprove: map[string]bool{string(ReasonEmail): true},
	})
	elem := &ElementDescriptor{
		Name:   "E-mail address",
		Role:   "text_field",
		Bounds: Rect{X: 0, Y: 40, Width: 150, Height: 30},
	}

	flags := d.Scan(elem)
	if len(flags) != 1 {
		t.Fatalf("flags = %d, want 1", len(flags))
	}
	if flags[0].Reason != ReasonEmail {
		t.Errorf("reason = %q, want %q", flags[0].Reason, ReasonEmail)
	}
	if !flags[0].Approved {
		t.Error("configured auto_approve category must pre-approve the heuristic match")
	}

	// A category with no auto_approve entry stays pending even though the
	// password category normally defaults to approved on structural matches.
	flags = d.Scan(&ElementDescriptor{Name: "Password hint", Role: "text_field"})
	if len(flags) != 1 {
		t.Fatalf("flags = %d, want 1", len(flags))
	}
	if flags[0].Approved {
		t.Error("unconfigured heuristic match must stay pending review")
	}
}

func TestScanCategories(t *testing.T) {
	tests := []struct {
		label string
		want  RedactionReason
	}{
		{"Credit Card Number", ReasonCreditCard},
		{"CVV", ReasonCreditCard},
		{"API Key", ReasonAPIKey},
		{"Access Token", ReasonAPIKey},
		{"E-mail address", ReasonEmail},
		{"Tax ID", ReasonSSN},
	}
	d := newTestRedactor()
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			flags := d.Scan(&ElementDescriptor{Label: tt.label})
			if len(flags) != 1 {
				t.Fatalf("flags = %d, want 1", len(flags))
			}
			if flags[0].Reason != tt.want {
				t.Errorf("reason = %q, want %q", flags[0].Reason, tt.want)
			}
		})
	}
}

func TestScanCleanElement(t *testing.T) {
	d := newTestRedactor()
	flags := d.Scan(&ElementDescriptor{Name: "Search", Role: "text_field"})
	if len(flags) != 0 {
		t.Errorf("flags = %v, want none for a non-sensitive field", flags)
	}
}

func TestScanNilElement(t *testing.T) {
	d := newTestRedactor()
	if flags := d.Scan(nil); flags != nil {
		t.Errorf("Scan(nil) = %v, want nil", flags)
	}
}

func TestScanIsDeterministic(t *testing.T) {
	d := newTestRedactor()
	elem := &ElementDescriptor{
		Name:  "password and ssn and credit card",
		Label: "api key e-mail",
	}
	first := d.Scan(elem)
	for i := 0; i < 10; i++ {
		again := d.Scan(elem)
		if len(again) != len(first) {
			t.Fatalf("run %d: flag count changed: %d vs %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j].Reason != first[j].Reason {
				t.Fatalf("run %d: flag order changed at %d: %q vs %q", i, j, again[j].Reason, first[j].Reason)
			}
		}
	}
}

func TestUserFlagDefaultsApproved(t *testing.T) {
	d := newTestRedactor()
	flag := d.UserFlag(Rect{X: 5, Y: 5, Width: 50, Height: 20})
	if flag.Reason != ReasonUserSpecified {
		t.Errorf("reason = %q, want %q", flag.Reason, ReasonUserSpecified)
	}
	if !flag.Approved {
		t.Error("user-specified regions are taken at face value and must be approved")
	}
}

func TestReview(t *testing.T) {
	d := newTestRedactor()
	pending := []RedactionFlag{
		{Reason: ReasonSSN, Approved: false},
		{Reason: ReasonPassword, Approved: true},
		{Reason: ReasonEmail, Approved: false},
	}

	var prompts []string
	reviewed := d.Review(pending, func(prompt string) bool {
		prompts = append(prompts, prompt)
		return len(prompts) == 1 // approve the first, reject the second
	})

	if len(prompts) != 2 {
		t.Fatalf("confirm called %d times, want 2 (already-approved flags skipped)", len(prompts))
	}
	if !reviewed[0].Approved {
		t.Error("first pending flag should have been approved")
	}
	if !reviewed[1].Approved {
		t.Error("pre-approved flag must stay approved")
	}
	if reviewed[2].Approved {
		t.Error("second pending flag should have stayed rejected")
	}
	if pending[0].Approved {
		t.Error("Review must not mutate its input")
	}
}

func TestReviewNilConfirm(t *testing.T) {
	d := newTestRedactor()
	pending := []RedactionFlag{{Reason: ReasonSSN}}
	reviewed := d.Review(pending, nil)
	if reviewed[0].Approved {
		t.Error("nil confirm must leave flags pending")
	}
}
