package internal

import (
	"time"

	"github.com/google/uuid"
)

// SessionAggregator assembles committed steps into the canonical session
// record. Appends are strictly in sequence order; the aggregator owns the
// only mutable reference to the step list.
type SessionAggregator struct {
	session Session
	sealed  bool
	last    int
}

// NewSessionAggregator opens a session record for a recording pass.
func NewSessionAggregator(title string, mode Mode, caps Capabilities) *SessionAggregator {
	return &SessionAggregator{
		session: Session{
			ID:           uuid.NewString(),
			Title:        title,
			Mode:         mode,
			StartedAt:    time.Now(),
			Capabilities: caps,
		},
	}
}

// SessionID returns the session's identifier.
func (a *SessionAggregator) SessionID() string {
	return a.session.ID
}

// StepCount returns the number of appended steps.
func (a *SessionAggregator) StepCount() int {
	return len(a.session.Steps)
}

// Append adds a completed step. The step's sequence number must be exactly
// one past the last appended step; anything else is orchestrator misuse and
// fails with OutOfOrderStepError without mutating the step list.
func (a *SessionAggregator) Append(step StepRecord) error {
	if a.sealed {
		return &SealedSessionError{SessionID: a.session.ID, Op: "append"}
	}
	if step.Sequence != a.last+1 {
		return &OutOfOrderStepError{Got: step.Sequence, Want: a.last + 1}
	}
	a.session.Steps = append(a.session.Steps, step)
	a.last = step.Sequence
	return nil
}

// Seal closes the session and returns it as a read-only value. A session
// with zero steps seals successfully; partial results from an aborted
// recording are valid, not discarded. A second Seal fails with
// SealedSessionError.
func (a *SessionAggregator) Seal() (*Session, error) {
	if a.sealed {
		return nil, &SealedSessionError{SessionID: a.session.ID, Op: "seal"}
	}
	a.sealed = true
	a.session.EndedAt = time.Now()
	out := a.session
	return &out, nil
}
