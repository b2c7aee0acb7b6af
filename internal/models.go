package internal

import (
	"fmt"
	"time"
)

// Mode identifies which capture pipeline a session uses.
type Mode string

const (
	ModeWeb     Mode = "web"
	ModeDesktop Mode = "desktop"
)

// Valid reports whether the mode is one of the supported pipelines.
func (m Mode) Valid() bool {
	return m == ModeWeb || m == ModeDesktop
}

// Region describes what part of the display a screenshot covers.
type Region string

const (
	RegionFullScreen Region = "fullscreen"
	RegionMonitor    Region = "monitor"
	RegionWindow     Region = "window"
	RegionViewport   Region = "viewport"
)

// Screenshot is an immutable raster capture. Pixel data is written once at
// capture time and only read afterwards, so concurrent reads need no locking.
type Screenshot struct {
	// Gray holds luminance values row-major, Width*Height bytes.
	Gray []uint8
	// PNG holds the original encoded image when the capturer provides it.
	// Nil for synthetic screenshots built directly from pixel data.
	PNG []byte

	Width      int
	Height     int
	Region     Region
	CapturedAt time.Time
}

// At returns the luminance value at (x, y). Callers must stay in bounds.
func (s *Screenshot) At(x, y int) uint8 {
	return s.Gray[y*s.Width+x]
}

// Point is a pixel coordinate in screenshot space. Coordinates are
// display-relative; no global multi-monitor mapping is attempted.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Rect is a bounding rectangle in screenshot-pixel coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Contains reports whether the point falls inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Area returns the rectangle's area in pixels.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Provenance records how an ElementDescriptor was obtained.
type Provenance string

const (
	ProvenanceAccessibility Provenance = "accessibility"
	ProvenanceVisual        Provenance = "visual"
	ProvenanceUserSupplied  Provenance = "user-supplied"
	ProvenanceUnresolved    Provenance = "unresolved"
)

// ElementDescriptor is the resolved identity of the UI element a step acted
// upon. Created once per step by the resolver; immutable afterward.
type ElementDescriptor struct {
	Name   string `json:"name" yaml:"name"`
	Role   string `json:"role" yaml:"role"`
	Bounds Rect   `json:"bounds" yaml:"bounds"`
	// Provenance is "accessibility", "visual", "user-supplied" or
	// "unresolved".
	Provenance Provenance `json:"provenance" yaml:"provenance"`
	// Confidence is the oracle's certainty in [0,1]. Only meaningful when
	// Provenance is "visual"; accessibility answers are treated as maximal.
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	// Label and InputType carry structural hints (aria-label, input type
	// attribute) when the backend exposes them. Used by redaction scanning.
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	InputType string `json:"input_type,omitempty" yaml:"input_type,omitempty"`
}

// RedactionReason categorizes why a region was flagged.
type RedactionReason string

const (
	ReasonPassword      RedactionReason = "password"
	ReasonSSN           RedactionReason = "ssn"
	ReasonCreditCard    RedactionReason = "credit-card"
	ReasonAPIKey        RedactionReason = "api-key"
	ReasonEmail         RedactionReason = "email"
	ReasonUserSpecified RedactionReason = "user-specified"
)

// RedactionFlag marks a region slated for blurring prior to publication.
type RedactionFlag struct {
	Bounds   Rect            `json:"bounds" yaml:"bounds"`
	Reason   RedactionReason `json:"reason" yaml:"reason"`
	Approved bool            `json:"approved" yaml:"approved"`
}

// DetectionMethod records how a step boundary was identified.
type DetectionMethod string

const (
	DetectionSimilarity DetectionMethod = "similarity"
	DetectionManual     DetectionMethod = "manual"
)

// StepRecord is the durable unit of documentation: one detected action with
// its captures, resolved element, and redaction flags. Sequence numbers are
// 1-based, assigned in capture order, and never reused.
type StepRecord struct {
	Sequence        int                `json:"sequence" yaml:"sequence"`
	Description     string             `json:"description" yaml:"description"`
	Similarity      float64            `json:"similarity" yaml:"similarity"`
	Mode            Mode               `json:"mode" yaml:"mode"`
	DetectionMethod DetectionMethod    `json:"detection_method" yaml:"detection_method"`
	CapturedAt      time.Time          `json:"captured_at" yaml:"captured_at"`
	Element         *ElementDescriptor `json:"element,omitempty" yaml:"element,omitempty"`
	Redactions      []RedactionFlag    `json:"redactions,omitempty" yaml:"redactions,omitempty"`

	// Before and After reference the captures that bounded this step. The
	// raw pixels are not serialized; the saved PNG paths are.
	Before *Screenshot `json:"-" yaml:"-"`
	After  *Screenshot `json:"-" yaml:"-"`

	BeforePath string `json:"before_path,omitempty" yaml:"before_path,omitempty"`
	AfterPath  string `json:"after_path,omitempty" yaml:"after_path,omitempty"`
}

// Session is the root aggregate: one recording pass, sealed at the end and
// handed off whole to rendering.
type Session struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title,omitempty" yaml:"title,omitempty"`
	Mode         Mode         `json:"mode" yaml:"mode"`
	StartedAt    time.Time    `json:"started_at" yaml:"started_at"`
	EndedAt      time.Time    `json:"ended_at" yaml:"ended_at"`
	Steps        []StepRecord `json:"steps" yaml:"steps"`
	Capabilities Capabilities `json:"capabilities" yaml:"capabilities"`
}

// StepCount returns the number of committed steps.
func (s *Session) StepCount() int {
	return len(s.Steps)
}

// Step returns the step with the given 1-based sequence number.
func (s *Session) Step(seq int) (*StepRecord, error) {
	if seq < 1 || seq > len(s.Steps) {
		return nil, fmt.Errorf("session %s has no step %d (session has %d steps)", s.ID, seq, len(s.Steps))
	}
	return &s.Steps[seq-1], nil
}
