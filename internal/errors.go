package internal

import "fmt"

// DimensionMismatchError is returned when two screenshots with differing
// pixel dimensions are compared. The engine never resamples: resampling
// would corrupt the coordinate space element resolution depends on.
type DimensionMismatchError struct {
	BeforeWidth, BeforeHeight int
	AfterWidth, AfterHeight   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: before %dx%d, after %dx%d",
		e.BeforeWidth, e.BeforeHeight, e.AfterWidth, e.AfterHeight)
}

// StateError represents detector protocol misuse: a capture call made in a
// state that does not allow it. Always surfaced to the caller, never
// absorbed.
type StateError struct {
	Op    string // "capture_before", "capture_after"
	State DetectorState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error: %s not allowed in state %q", e.Op, e.State)
}

// OutOfOrderStepError is returned when a step is appended whose sequence
// number is not exactly one past the last appended step.
type OutOfOrderStepError struct {
	Got  int
	Want int
}

func (e *OutOfOrderStepError) Error() string {
	return fmt.Sprintf("out-of-order step: got sequence %d, want %d", e.Got, e.Want)
}

// SealedSessionError is returned when a sealed session is appended to or
// sealed again.
type SealedSessionError struct {
	SessionID string
	Op        string // "append", "seal"
}

func (e *SealedSessionError) Error() string {
	return fmt.Sprintf("session %s already sealed: cannot %s", e.SessionID, e.Op)
}

// ConfigError represents an invalid configuration value, rejected before any
// capture begins.
type ConfigError struct {
	Field string
	Value interface{}
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s=%v: %s", e.Field, e.Value, e.Msg)
}

// StoreError represents errors reading or writing the session store.
type StoreError struct {
	Op  string // "open", "save", "load", "list"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// BackendError records a single element-resolution backend failure. It is
// recovered locally by falling through the priority chain and never escapes
// Resolve.
type BackendError struct {
	Backend string // "accessibility", "visual"
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
