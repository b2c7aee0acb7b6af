package internal

import (
	"errors"
	"testing"
	"time"
)

// fakeClock drives the detector's time source deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestDetector(t *testing.T, mode Mode) (*StepDetector, *fakeClock) {
	t.Helper()
	d, err := NewStepDetector(mode, 0, 0)
	if err != nil {
		t.Fatalf("NewStepDetector() error = %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}
	d.now = clock.now
	return d, clock
}

func TestNewStepDetectorDefaults(t *testing.T) {
	web, _ := newTestDetector(t, ModeWeb)
	if web.Threshold() != DefaultWebThreshold {
		t.Errorf("web threshold = %v, want %v", web.Threshold(), DefaultWebThreshold)
	}
	desktop, _ := newTestDetector(t, ModeDesktop)
	if desktop.Threshold() != DefaultDesktopThreshold {
		t.Errorf("desktop threshold = %v, want %v", desktop.Threshold(), DefaultDesktopThreshold)
	}
}

func TestNewStepDetectorValidation(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		threshold float64
		debounce  time.Duration
	}{
		{"invalid mode", Mode("mobile"), 0.9, 0},
		{"threshold above one", ModeWeb, 1.5, 0},
		{"negative threshold", ModeWeb, -0.1, 0},
		{"negative debounce", ModeWeb, 0.9, -time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStepDetector(tt.mode, tt.threshold, tt.debounce); err == nil {
				t.Error("NewStepDetector() = nil error, want ConfigError")
			}
		})
	}
}

func TestCaptureAfterWithoutBefore(t *testing.T) {
	d, _ := newTestDetector(t, ModeWeb)
	_, err := d.CaptureAfter(makeUniform(32, 32, 100), "click")
	var stateErr *StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("error = %v, want *StateError", err)
	}
	if stateErr.State != StateIdle {
		t.Errorf("state in error = %q, want %q", stateErr.State, StateIdle)
	}
}

func TestDoubleCaptureBefore(t *testing.T) {
	d, _ := newTestDetector(t, ModeWeb)
	shot := makeUniform(32, 32, 100)
	if err := d.CaptureBefore(shot); err != nil {
		t.Fatalf("first CaptureBefore() error = %v", err)
	}
	if err := d.CaptureBefore(shot); err == nil {
		t.Error("second CaptureBefore() = nil error, want *StateError")
	}
}

func TestIdenticalStreamCommitsNothing(t *testing.T) {
	d, clock := newTestDetector(t, ModeWeb)
	shot := makeUniform(64, 48, 120)

	for i := 0; i < 5; i++ {
		if err := d.CaptureBefore(shot); err != nil {
			t.Fatalf("cycle %d: CaptureBefore() error = %v", i, err)
		}
		clock.advance(time.Second)
		step, err := d.CaptureAfter(shot, "noop")
		if err != nil {
			t.Fatalf("cycle %d: CaptureAfter() error = %v", i, err)
		}
		if step != nil {
			t.Fatalf("cycle %d: committed step %d for identical screenshots", i, step.Sequence)
		}
	}
}

func TestTinyChangeCommitsNothing(t *testing.T) {
	// A 10x10 repaint on a desktop frame stays above the desktop threshold
	// and must be dropped silently, like cursor blink or a clock tick.
	d, clock := newTestDetector(t, ModeDesktop)
	before := makeUniform(640, 480, 120)
	after := paintRect(before, Rect{X: 200, Y: 150, Width: 10, Height: 10}, 240)

	if err := d.CaptureBefore(before); err != nil {
		t.Fatalf("CaptureBefore() error = %v", err)
	}
	clock.advance(time.Second)
	step, err := d.CaptureAfter(after, "glance at the clock")
	if err != nil {
		t.Fatalf("CaptureAfter() error = %v", err)
	}
	if step != nil {
		t.Fatalf("committed step %d (similarity %v) for a 10x10 repaint", step.Sequence, step.Similarity)
	}
	if d.State() != StateIdle {
		t.Errorf("state after drop = %q, want %q", d.State(), StateIdle)
	}
}

func TestCommitOnLargeChange(t *testing.T) {
	d, clock := newTestDetector(t, ModeWeb)
	before := makeUniform(120, 100, 60)
	after := paintRect(before, Rect{X: 20, Y: 20, Width: 80, Height: 60}, 230)

	if err := d.CaptureBefore(before); err != nil {
		t.Fatalf("CaptureBefore() error = %v", err)
	}
	clock.advance(time.Second)
	step, err := d.CaptureAfter(after, "open dialog")
	if err != nil {
		t.Fatalf("CaptureAfter() error = %v", err)
	}
	if step == nil {
		t.Fatal("CaptureAfter() = nil step, want a committed step")
	}
	if step.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", step.Sequence)
	}
	if step.DetectionMethod != DetectionSimilarity {
		t.Errorf("detection method = %q, want %q", step.DetectionMethod, DetectionSimilarity)
	}
	if step.Similarity >= d.Threshold() {
		t.Errorf("similarity = %v, want below threshold %v", step.Similarity, d.Threshold())
	}
	if d.State() != StateIdle {
		t.Errorf("state after commit = %q, want %q", d.State(), StateIdle)
	}
}

func TestSequenceNumbersAreConsecutive(t *testing.T) {
	d, clock := newTestDetector(t, ModeWeb)
	a := makeUniform(120, 100, 60)
	b := paintRect(a, Rect{X: 20, Y: 20, Width: 80, Height: 60}, 230)

	shots := []*Screenshot{a, b, a, b}
	want := 1
	for i := 0; i < len(shots)-1; i++ {
		if err := d.CaptureBefore(shots[i]); err != nil {
			t.Fatalf("cycle %d: CaptureBefore() error = %v", i, err)
		}
		clock.advance(time.Second)
		step, err := d.CaptureAfter(shots[i+1], "toggle")
		if err != nil {
			t.Fatalf("cycle %d: CaptureAfter() error = %v", i, err)
		}
		if step == nil {
			t.Fatalf("cycle %d: expected a commit", i)
		}
		if step.Sequence != want {
			t.Errorf("cycle %d: sequence = %d, want %d", i, step.Sequence, want)
		}
		want++
	}
}

func TestDebounceSuppressesRapidCommits(t *testing.T) {
	d, clock := newTestDetector(t, ModeWeb)
	a := makeUniform(120, 100, 60)
	b := paintRect(a, Rect{X: 20, Y: 20, Width: 80, Height: 60}, 230)

	if err := d.CaptureBefore(a); err != nil {
		t.Fatal(err)
	}
	clock.advance(time.Second)
	step, err := d.CaptureAfter(b, "first")
	if err != nil || step == nil {
		t.Fatalf("first commit: step = %v, err = %v", step, err)
	}

	// Second change lands inside the debounce interval.
	if err := d.CaptureBefore(b); err != nil {
		t.Fatal(err)
	}
	clock.advance(100 * time.Millisecond)
	step, err = d.CaptureAfter(a, "too fast")
	if err != nil {
		t.Fatalf("CaptureAfter() error = %v", err)
	}
	if step != nil {
		t.Errorf("committed step %d inside debounce interval", step.Sequence)
	}

	// After the interval passes the next change commits, with no gap in
	// sequence numbers.
	if err := d.CaptureBefore(a); err != nil {
		t.Fatal(err)
	}
	clock.advance(DefaultDebounce)
	step, err = d.CaptureAfter(b, "after interval")
	if err != nil {
		t.Fatalf("CaptureAfter() error = %v", err)
	}
	if step == nil {
		t.Fatal("expected a commit after the debounce interval")
	}
	if step.Sequence != 2 {
		t.Errorf("sequence = %d, want 2", step.Sequence)
	}
}

func TestCommitManualBypassesThreshold(t *testing.T) {
	d, clock := newTestDetector(t, ModeDesktop)
	shot := makeUniform(64, 48, 120)

	if err := d.CaptureBefore(shot); err != nil {
		t.Fatal(err)
	}
	clock.advance(50 * time.Millisecond)
	step, err := d.CommitManual(shot, "press ctrl+s")
	if err != nil {
		t.Fatalf("CommitManual() error = %v", err)
	}
	if step == nil {
		t.Fatal("CommitManual() = nil step")
	}
	if step.DetectionMethod != DetectionManual {
		t.Errorf("detection method = %q, want %q", step.DetectionMethod, DetectionManual)
	}
	if step.Similarity != 1.0 {
		t.Errorf("similarity = %v, want 1.0 for identical frames", step.Similarity)
	}
}

func TestCaptureAfterDimensionMismatch(t *testing.T) {
	d, _ := newTestDetector(t, ModeWeb)
	if err := d.CaptureBefore(makeUniform(64, 48, 100)); err != nil {
		t.Fatal(err)
	}
	_, err := d.CaptureAfter(makeUniform(32, 48, 100), "resized")
	if err == nil {
		t.Fatal("CaptureAfter() = nil error, want DimensionMismatchError")
	}
	if d.State() != StateIdle {
		t.Errorf("state after failed comparison = %q, want %q", d.State(), StateIdle)
	}

	// The session continues: a fresh cycle still works.
	if err := d.CaptureBefore(makeUniform(32, 48, 100)); err != nil {
		t.Errorf("CaptureBefore() after failure error = %v", err)
	}
}
