package internal

import (
	"context"
	"time"
)

// AccessibilityBackend queries a platform's structured element metadata. In
// web mode the DOM backend implements this over the DevTools protocol;
// desktop backends wrap the native accessibility APIs.
type AccessibilityBackend interface {
	// ElementAt returns the element at the given screenshot-space point.
	// Implementations must honor ctx cancellation.
	ElementAt(ctx context.Context, p Point) (*ElementDescriptor, error)
}

// VisionOracle describes the element at a point from pixels alone. Out of
// scope for this package beyond the interface boundary; implementations must
// return within ctx's deadline or be treated as failed.
type VisionOracle interface {
	DescribeElementAt(ctx context.Context, shot *Screenshot, p Point) (*ElementDescriptor, error)
}

// ElementResolver resolves what UI element a step acted upon, trying
// backends in strict priority order: accessibility, then visual inference,
// then the unresolved fallback which always succeeds. No backend is retried
// within one call; retries across steps are the caller's business.
type ElementResolver struct {
	accessibility AccessibilityBackend // nil when capabilities lack one
	oracle        VisionOracle         // nil disables visual inference
	axTimeout     time.Duration
	visualTimeout time.Duration
}

// NewElementResolver builds a resolver from the available backends. Either
// backend may be nil; the unresolved fallback keeps Resolve total.
func NewElementResolver(ax AccessibilityBackend, oracle VisionOracle, cfg ResolverConfig) *ElementResolver {
	axTimeout := cfg.AccessibilityTimeout
	if axTimeout <= 0 {
		axTimeout = DefaultAXTimeout
	}
	visualTimeout := cfg.VisualTimeout
	if visualTimeout <= 0 {
		visualTimeout = DefaultVisualTimeout
	}
	return &ElementResolver{
		accessibility: ax,
		oracle:        oracle,
		axTimeout:     axTimeout,
		visualTimeout: visualTimeout,
	}
}

// Resolve returns a best-effort descriptor for the element at p. It never
// fails: backend errors and timeouts fall through the chain, terminating at
// an unresolved descriptor with a degenerate bounding box at p. A failed
// element resolution must never block documentation generation.
func (r *ElementResolver) Resolve(ctx context.Context, p Point, shot *Screenshot, caps Capabilities) *ElementDescriptor {
	if caps.HasAccessibility() && r.accessibility != nil {
		if desc, err := r.tryAccessibility(ctx, p); err == nil && desc != nil {
			return desc
		} else if err != nil {
			LogInfo("accessibility backend failed at (%d,%d), falling back: %v", p.X, p.Y, err)
		}
	}

	if r.oracle != nil {
		if desc, err := r.tryVisual(ctx, p, shot); err == nil && desc != nil {
			return desc
		} else if err != nil {
			LogInfo("visual backend failed at (%d,%d), falling back: %v", p.X, p.Y, err)
		}
	}

	// Legitimate terminal outcome, not an error: documentation can still
	// reference the region by coordinate alone.
	return &ElementDescriptor{
		Name:       "",
		Role:       "unknown",
		Bounds:     Rect{X: p.X, Y: p.Y},
		Provenance: ProvenanceUnresolved,
	}
}

func (r *ElementResolver) tryAccessibility(ctx context.Context, p Point) (*ElementDescriptor, error) {
	desc, err := callWithTimeout(ctx, r.axTimeout, func(ctx context.Context) (*ElementDescriptor, error) {
		return r.accessibility.ElementAt(ctx, p)
	})
	if err != nil {
		return nil, &BackendError{Backend: "accessibility", Err: err}
	}
	if desc == nil {
		return nil, nil
	}
	out := *desc
	out.Provenance = ProvenanceAccessibility
	out.Confidence = 0 // accessibility answers carry no confidence value
	return &out, nil
}

func (r *ElementResolver) tryVisual(ctx context.Context, p Point, shot *Screenshot) (*ElementDescriptor, error) {
	desc, err := callWithTimeout(ctx, r.visualTimeout, func(ctx context.Context) (*ElementDescriptor, error) {
		return r.oracle.DescribeElementAt(ctx, shot, p)
	})
	if err != nil {
		return nil, &BackendError{Backend: "visual", Err: err}
	}
	if desc == nil {
		return nil, nil
	}
	out := *desc
	out.Provenance = ProvenanceVisual
	if out.Confidence <= 0 || out.Confidence > 1 {
		out.Confidence = deriveConfidence(out.Bounds, p)
	}
	return &out, nil
}

// callWithTimeout enforces the deadline even against a backend that ignores
// context cancellation: the call runs in its own goroutine and the resolver
// abandons it on timeout rather than blocking the pipeline.
func callWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) (*ElementDescriptor, error)) (*ElementDescriptor, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		desc *ElementDescriptor
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		desc, err := fn(ctx)
		ch <- result{desc, err}
	}()

	select {
	case res := <-ch:
		return res.desc, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// deriveConfidence estimates certainty when the oracle does not report its
// own: a box that tightly encloses the point scores higher than one that
// misses it entirely.
func deriveConfidence(bounds Rect, p Point) float64 {
	if bounds.Area() == 0 {
		return 0.3
	}
	if !bounds.Contains(p) {
		return 0.4
	}
	return 0.7
}
