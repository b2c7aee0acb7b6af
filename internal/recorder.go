package internal

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// Capturer is the capture collaborator boundary: it produces screenshots of
// the current screen, window, or viewport. Timing guarantees (that a capture
// reflects post-action settled state) are the collaborator's responsibility.
type Capturer interface {
	TakeScreenshot(ctx context.Context) (*Screenshot, error)
}

// Recorder drives one recording session: an interactive loop alternating
// "wait for user to act" and "capture + analyze". It owns the detector,
// resolver, redaction scanner, and aggregator for the session, and is
// single-goroutine by design.
type Recorder struct {
	mode     Mode
	capturer Capturer
	detector *StepDetector
	resolver *ElementResolver
	redactor *SensitiveRegionDetector
	agg      *SessionAggregator
	confirm  ConfirmFunc

	caps      Capabilities
	outputDir string
	started   bool
}

// NewRecorder assembles a recording session. Configuration has already been
// validated by LoadConfig; the detector re-validates its own slice of it at
// construction.
func NewRecorder(cfg *Config, mode Mode, title string, capturer Capturer, resolver *ElementResolver, caps Capabilities, confirm ConfirmFunc) (*Recorder, error) {
	detector, err := NewStepDetector(mode, cfg.Detection.Threshold(mode), cfg.Detection.Debounce)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		mode:      mode,
		capturer:  capturer,
		detector:  detector,
		resolver:  resolver,
		redactor:  NewSensitiveRegionDetector(cfg.Redaction),
		agg:       NewSessionAggregator(title, mode, caps),
		confirm:   confirm,
		caps:      caps,
		outputDir: cfg.Capture.OutputDir,
	}, nil
}

// SessionID returns the session identifier assigned at construction.
func (r *Recorder) SessionID() string {
	return r.agg.SessionID()
}

// StepCount returns the number of committed steps so far.
func (r *Recorder) StepCount() int {
	return r.agg.StepCount()
}

// Begin takes the initial "before" screenshot and arms the detector.
func (r *Recorder) Begin(ctx context.Context) error {
	if r.started {
		return &StateError{Op: "capture_before", State: r.detector.State()}
	}
	shot, err := r.capturer.TakeScreenshot(ctx)
	if err != nil {
		return fmt.Errorf("initial capture failed: %w", err)
	}
	if err := r.detector.CaptureBefore(shot); err != nil {
		return err
	}
	if r.outputDir != "" {
		if err := os.MkdirAll(r.outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	r.started = true
	return nil
}

// Step captures the "after" state and evaluates it against the pending
// "before". On commit the step's element is resolved (when a click point is
// known), redaction flags are scanned and reviewed, screenshots are saved,
// and the step is appended to the session. On a sub-threshold delta the
// candidate is dropped and (nil, nil) is returned; force bypasses the
// threshold for actions the operator insists are meaningful.
//
// The recorder re-arms the detector before returning, so the loop is always
// ready for the next action. Cancellation is cooperative: a done context is
// honored between captures.
func (r *Recorder) Step(ctx context.Context, description string, click *Point, force bool) (*StepRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.started {
		return nil, &StateError{Op: "capture_after", State: r.detector.State()}
	}

	after, err := r.capturer.TakeScreenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture failed: %w", err)
	}

	var step *StepRecord
	if force {
		step, err = r.detector.CommitManual(after, description)
	} else {
		step, err = r.detector.CaptureAfter(after, description)
	}
	if err != nil {
		// Dimension mismatch or protocol misuse. The candidate is gone
		// either way; re-arm so the session can continue.
		if rearmErr := r.detector.CaptureBefore(after); rearmErr != nil {
			return nil, rearmErr
		}
		if _, ok := err.(*DimensionMismatchError); ok {
			return nil, nil
		}
		return nil, err
	}

	if step == nil {
		// No step: keep recording with the fresh capture as the new
		// baseline.
		if err := r.detector.CaptureBefore(after); err != nil {
			return nil, err
		}
		return nil, nil
	}

	r.annotate(ctx, step, click)

	if err := r.saveStepImages(step); err != nil {
		LogWarn("failed to save step %d screenshots: %v", step.Sequence, err)
	}

	if err := r.agg.Append(*step); err != nil {
		return nil, err
	}

	// The committed "after" becomes the next "before".
	if err := r.detector.CaptureBefore(after); err != nil {
		return nil, err
	}
	return step, nil
}

// UserRedactionFlag builds a pre-approved user-specified redaction flag for
// the given region. The caller attaches it to a step before Append.
func (r *Recorder) UserRedactionFlag(bounds Rect) RedactionFlag {
	return r.redactor.UserFlag(bounds)
}

// annotate resolves the element under the click point and scans it for
// sensitive regions. Resolution never fails the step: a backendless
// environment degrades to an unresolved descriptor.
func (r *Recorder) annotate(ctx context.Context, step *StepRecord, click *Point) {
	if click == nil || r.resolver == nil {
		return
	}
	desc := r.resolver.Resolve(ctx, *click, step.After, r.caps)
	step.Element = desc

	var flags []RedactionFlag
	if desc.Provenance == ProvenanceAccessibility {
		// Only structured metadata is scanned. Visual-only answers carry
		// no reliable field semantics, so they produce no automatic flags.
		flags = r.redactor.Scan(desc)
	}
	if len(flags) > 0 {
		flags = r.redactor.Review(flags, r.confirm)
	}
	step.Redactions = flags
}

// Finish seals the session and returns it. Partial results from an aborted
// recording are valid; a session with zero steps seals cleanly.
func (r *Recorder) Finish() (*Session, error) {
	return r.agg.Seal()
}

func (r *Recorder) saveStepImages(step *StepRecord) error {
	if r.outputDir == "" {
		return nil
	}
	beforePath := filepath.Join(r.outputDir, fmt.Sprintf("step-%02d-before.png", step.Sequence))
	afterPath := filepath.Join(r.outputDir, fmt.Sprintf("step-%02d-after.png", step.Sequence))
	if err := writePNG(beforePath, step.Before); err != nil {
		return err
	}
	if err := writePNG(afterPath, step.After); err != nil {
		return err
	}
	step.BeforePath = beforePath
	step.AfterPath = afterPath
	return nil
}

func writePNG(path string, shot *Screenshot) error {
	data := shot.PNG
	if data == nil {
		// Synthetic screenshots carry only the luminance plane.
		img := image.NewGray(image.Rect(0, 0, shot.Width, shot.Height))
		copy(img.Pix, shot.Gray)
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	return os.WriteFile(path, data, 0644)
}
