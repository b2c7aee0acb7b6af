package internal

import (
	"sync/atomic"
	"time"
)

// DetectorState is the step detector's position in its capture cycle.
type DetectorState string

const (
	StateIdle          DetectorState = "idle"
	StateAwaitingAfter DetectorState = "awaiting-after"
	StateEvaluating    DetectorState = "evaluating"
)

// StepCandidate is the transient result of evaluating a before/after pair.
// It lives only until promoted to a StepRecord or discarded.
type StepCandidate struct {
	Before     *Screenshot
	After      *Screenshot
	Similarity float64
	Elapsed    time.Duration
}

// StepDetector decides where step boundaries fall in a stream of
// before/after screenshot pairs. It enforces the mode-dependent similarity
// threshold and minimum-interval debouncing, and assigns sequence numbers to
// committed steps.
//
// A detector is strictly single-goroutine: concurrent capture calls are a
// caller error and are rejected with a StateError rather than queued, so
// timing bugs stay visible.
type StepDetector struct {
	threshold float64
	debounce  time.Duration
	mode      Mode

	// busy guards against concurrent capture calls. It is a misuse trap,
	// not a synchronization mechanism.
	busy atomic.Bool

	state        DetectorState
	before       *Screenshot
	beforeAt     time.Time
	lastCommit   time.Time
	nextSequence int

	now func() time.Time
}

// NewStepDetector creates a detector for the given mode with validated
// per-session overrides. A zero threshold or debounce selects the
// mode-dependent default.
func NewStepDetector(mode Mode, threshold float64, debounce time.Duration) (*StepDetector, error) {
	if !mode.Valid() {
		return nil, &ConfigError{Field: "mode", Value: string(mode), Msg: "must be web or desktop"}
	}
	if threshold == 0 {
		if mode == ModeDesktop {
			threshold = DefaultDesktopThreshold
		} else {
			threshold = DefaultWebThreshold
		}
	}
	if threshold < 0 || threshold > 1 {
		return nil, &ConfigError{Field: "threshold", Value: threshold, Msg: "must be in [0,1]"}
	}
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	if debounce < 0 {
		return nil, &ConfigError{Field: "debounce", Value: debounce, Msg: "must not be negative"}
	}
	return &StepDetector{
		threshold:    threshold,
		debounce:     debounce,
		mode:         mode,
		state:        StateIdle,
		nextSequence: 1,
		now:          time.Now,
	}, nil
}

// State returns the detector's current state.
func (d *StepDetector) State() DetectorState {
	return d.state
}

// Threshold returns the effective similarity threshold.
func (d *StepDetector) Threshold() float64 {
	return d.threshold
}

// CaptureBefore stores the pending "before" screenshot and arms the
// detector. Fails with a StateError if a before capture is already pending.
func (d *StepDetector) CaptureBefore(shot *Screenshot) error {
	if !d.busy.CompareAndSwap(false, true) {
		return &StateError{Op: "capture_before", State: d.state}
	}
	defer d.busy.Store(false)

	if d.state != StateIdle {
		return &StateError{Op: "capture_before", State: d.state}
	}
	d.before = shot
	d.beforeAt = d.now()
	d.state = StateAwaitingAfter
	return nil
}

// CaptureAfter evaluates the pending pair. If the similarity score falls
// below the threshold and the debounce interval since the last committed
// step has elapsed, the candidate is promoted to a StepRecord with the next
// sequence number. Otherwise the candidate is silently discarded and nil is
// returned: sub-threshold deltas are dropped, not retried, and a caller
// whose action genuinely mattered must re-trigger manually (CommitManual).
//
// Either way the detector resets to Idle. A failed similarity comparison
// (dimension mismatch) discards the candidate and returns the error; the
// session continues.
func (d *StepDetector) CaptureAfter(shot *Screenshot, description string) (*StepRecord, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return nil, &StateError{Op: "capture_after", State: d.state}
	}
	defer d.busy.Store(false)

	if d.state != StateAwaitingAfter {
		return nil, &StateError{Op: "capture_after", State: d.state}
	}
	d.state = StateEvaluating
	before := d.before
	d.before = nil

	reset := func() {
		d.state = StateIdle
	}

	score, err := Similarity(before, shot)
	if err != nil {
		// Cannot evaluate this pair. Log, discard the candidate, keep
		// the session alive.
		LogWarn("similarity comparison failed, discarding candidate: %v", err)
		reset()
		return nil, err
	}

	now := d.now()
	cand := StepCandidate{
		Before:     before,
		After:      shot,
		Similarity: score,
		Elapsed:    now.Sub(d.beforeAt),
	}

	if score >= d.threshold {
		LogDebug("similarity %.4f >= threshold %.2f: no step", score, d.threshold)
		reset()
		return nil, nil
	}
	if !d.lastCommit.IsZero() && now.Sub(d.lastCommit) < d.debounce {
		LogDebug("debounced: %v since last step (< %v)", now.Sub(d.lastCommit), d.debounce)
		reset()
		return nil, nil
	}

	step := d.commit(cand, description, DetectionSimilarity, now)
	reset()
	return step, nil
}

// CommitManual force-commits the pending pair regardless of the similarity
// score. This is the explicit escape hatch for actions whose visual delta is
// too subtle for automatic detection (keyboard shortcuts, focus changes).
// Debouncing is not applied: an explicit trigger is taken at its word.
func (d *StepDetector) CommitManual(shot *Screenshot, description string) (*StepRecord, error) {
	if !d.busy.CompareAndSwap(false, true) {
		return nil, &StateError{Op: "capture_after", State: d.state}
	}
	defer d.busy.Store(false)

	if d.state != StateAwaitingAfter {
		return nil, &StateError{Op: "capture_after", State: d.state}
	}
	before := d.before
	d.before = nil
	d.state = StateIdle

	score, err := Similarity(before, shot)
	if err != nil {
		// Manual steps do not depend on the score; record it as zero.
		LogDebug("manual step: similarity unavailable: %v", err)
		score = 0
	}

	now := d.now()
	cand := StepCandidate{Before: before, After: shot, Similarity: score}
	return d.commit(cand, description, DetectionManual, now), nil
}

func (d *StepDetector) commit(cand StepCandidate, description string, method DetectionMethod, at time.Time) *StepRecord {
	step := &StepRecord{
		Sequence:        d.nextSequence,
		Description:     description,
		Similarity:      cand.Similarity,
		Mode:            d.mode,
		DetectionMethod: method,
		CapturedAt:      at,
		Before:          cand.Before,
		After:           cand.After,
	}
	d.nextSequence++
	d.lastCommit = at
	LogInfo("step %d committed (similarity %.4f, %s)", step.Sequence, step.Similarity, method)
	return step
}
