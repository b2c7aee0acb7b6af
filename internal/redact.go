package internal

import (
	"regexp"
	"strings"
)

// sensitivePatterns maps redaction categories to the label patterns that
// mark a field as likely containing secrets. All matching is
// case-insensitive against element name, label, and input-type hint.
var sensitivePatterns = map[RedactionReason]*regexp.Regexp{
	ReasonPassword:   regexp.MustCompile(`(?i)password|passwd|pwd|secret`),
	ReasonSSN:        regexp.MustCompile(`(?i)ssn|social.?security|tax.?id`),
	ReasonCreditCard: regexp.MustCompile(`(?i)credit.?card|card.?number|cvv|cvc|expir`),
	ReasonAPIKey:     regexp.MustCompile(`(?i)api.?key|access.?token|secret.?key|auth.?token`),
	ReasonEmail:      regexp.MustCompile(`(?i)e-?mail`),
}

// scanOrder keeps flag output deterministic across runs.
var scanOrder = []RedactionReason{
	ReasonPassword, ReasonSSN, ReasonCreditCard, ReasonAPIKey, ReasonEmail,
}

// ConfirmFunc asks the operator to approve or reject a pending redaction
// flag. Supplied by the orchestrator; the engine assumes nothing about the
// interaction surface (console, GUI, chat).
type ConfirmFunc func(prompt string) bool

// SensitiveRegionDetector flags element regions that likely contain secrets
// for later blurring. Precision over recall: with no structured metadata it
// produces no automatic flags, because a wrong "sensitive" blurs meaningful
// content with no recourse while a wrong "not sensitive" is fixable in
// review.
type SensitiveRegionDetector struct {
	policy RedactionConfig
}

// NewSensitiveRegionDetector creates a detector with the given approval
// policy.
func NewSensitiveRegionDetector(policy RedactionConfig) *SensitiveRegionDetector {
	return &SensitiveRegionDetector{policy: policy}
}

// Scan matches the element's name, label, and input-type hint against the
// category table and returns one flag per matching category, scoped to the
// element's bounding box. A structural password input type is a certainty
// and defaults to approved; label matches are guesses and default to
// pending review (subject to the configured policy). A nil element yields
// no flags.
func (s *SensitiveRegionDetector) Scan(elem *ElementDescriptor) []RedactionFlag {
	if elem == nil {
		return nil
	}

	var flags []RedactionFlag
	seen := make(map[RedactionReason]bool)

	inputType := strings.ToLower(elem.InputType)
	if inputType == "password" || inputType == "hidden" {
		flags = append(flags, RedactionFlag{
			Bounds:   elem.Bounds,
			Reason:   ReasonPassword,
			Approved: s.policy.ApproveDefault(ReasonPassword),
		})
		seen[ReasonPassword] = true
	}

	haystack := elem.Name + " " + elem.Label + " " + elem.InputType
	for _, reason := range scanOrder {
		if seen[reason] {
			continue
		}
		if sensitivePatterns[reason].MatchString(haystack) {
			flags = append(flags, RedactionFlag{
				Bounds:   elem.Bounds,
				Reason:   reason,
				Approved: s.policy.HeuristicApprove(reason),
			})
			seen[reason] = true
		}
	}

	return flags
}

// UserFlag builds a user-specified redaction flag for an arbitrary region.
// User regions are taken at face value and default to approved.
func (s *SensitiveRegionDetector) UserFlag(bounds Rect) RedactionFlag {
	return RedactionFlag{
		Bounds:   bounds,
		Reason:   ReasonUserSpecified,
		Approved: s.policy.ApproveDefault(ReasonUserSpecified),
	}
}

// Review walks pending (unapproved) flags through the supplied confirmation
// callback and returns the reviewed set. A nil confirm leaves flags pending.
func (s *SensitiveRegionDetector) Review(flags []RedactionFlag, confirm ConfirmFunc) []RedactionFlag {
	if confirm == nil {
		return flags
	}
	out := make([]RedactionFlag, len(flags))
	copy(out, flags)
	for i := range out {
		if out[i].Approved {
			continue
		}
		out[i].Approved = confirm("Blur " + string(out[i].Reason) + " region before publishing?")
	}
	return out
}
