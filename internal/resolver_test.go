package internal

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeAXBackend struct {
	desc *ElementDescriptor
	err  error
	hang bool
}

func (f *fakeAXBackend) ElementAt(ctx context.Context, p Point) (*ElementDescriptor, error) {
	if f.hang {
		// Ignores cancellation deliberately; the resolver must still
		// enforce its deadline.
		time.Sleep(10 * time.Second)
	}
	return f.desc, f.err
}

type fakeOracle struct {
	desc *ElementDescriptor
	err  error
}

func (f *fakeOracle) DescribeElementAt(ctx context.Context, shot *Screenshot, p Point) (*ElementDescriptor, error) {
	return f.desc, f.err
}

func webCaps() Capabilities {
	return Capabilities{Mode: ModeWeb, Accessibility: BackendDOM}
}

func TestResolveAccessibilityFirst(t *testing.T) {
	ax := &fakeAXBackend{desc: &ElementDescriptor{
		Name:   "Submit",
		Role:   "button",
		Bounds: Rect{X: 100, Y: 200, Width: 80, Height: 30},
	}}
	oracle := &fakeOracle{desc: &ElementDescriptor{Name: "wrong", Role: "button"}}
	r := NewElementResolver(ax, oracle, ResolverConfig{})

	desc := r.Resolve(context.Background(), Point{X: 120, Y: 210}, nil, webCaps())
	if desc.Provenance != ProvenanceAccessibility {
		t.Errorf("provenance = %q, want %q", desc.Provenance, ProvenanceAccessibility)
	}
	if desc.Name != "Submit" {
		t.Errorf("name = %q, want the accessibility answer", desc.Name)
	}
	if desc.Confidence != 0 {
		t.Errorf("confidence = %v, want 0 for structured answers", desc.Confidence)
	}
}

func TestResolveFallsBackToVisual(t *testing.T) {
	ax := &fakeAXBackend{err: errors.New("tree walk failed")}
	oracle := &fakeOracle{desc: &ElementDescriptor{
		Name:       "Save button",
		Role:       "button",
		Bounds:     Rect{X: 90, Y: 190, Width: 100, Height: 40},
		Confidence: 0.92,
	}}
	r := NewElementResolver(ax, oracle, ResolverConfig{})

	desc := r.Resolve(context.Background(), Point{X: 120, Y: 210}, nil, webCaps())
	if desc.Provenance != ProvenanceVisual {
		t.Errorf("provenance = %q, want %q", desc.Provenance, ProvenanceVisual)
	}
	if desc.Confidence != 0.92 {
		t.Errorf("confidence = %v, want the oracle's 0.92", desc.Confidence)
	}
}

func TestResolveHangingBackendTimesOut(t *testing.T) {
	ax := &fakeAXBackend{hang: true}
	oracle := &fakeOracle{desc: &ElementDescriptor{
		Name:       "Save button",
		Role:       "button",
		Bounds:     Rect{X: 0, Y: 0, Width: 50, Height: 20},
		Confidence: 0.9,
	}}
	r := NewElementResolver(ax, oracle, ResolverConfig{
		AccessibilityTimeout: 20 * time.Millisecond,
		VisualTimeout:        time.Second,
	})

	start := time.Now()
	desc := r.Resolve(context.Background(), Point{X: 10, Y: 10}, nil, webCaps())
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Resolve() blocked for %v on a hanging backend", elapsed)
	}
	if desc.Provenance != ProvenanceVisual {
		t.Errorf("provenance = %q, want fallback to %q", desc.Provenance, ProvenanceVisual)
	}
}

func TestResolveUnresolvedFallback(t *testing.T) {
	ax := &fakeAXBackend{err: errors.New("denied")}
	oracle := &fakeOracle{err: errors.New("api unreachable")}
	r := NewElementResolver(ax, oracle, ResolverConfig{})

	p := Point{X: 340, Y: 510}
	desc := r.Resolve(context.Background(), p, nil, webCaps())
	if desc == nil {
		t.Fatal("Resolve() = nil, must always return a descriptor")
	}
	if desc.Provenance != ProvenanceUnresolved {
		t.Errorf("provenance = %q, want %q", desc.Provenance, ProvenanceUnresolved)
	}
	if desc.Role != "unknown" {
		t.Errorf("role = %q, want %q", desc.Role, "unknown")
	}
	if desc.Bounds.X != p.X || desc.Bounds.Y != p.Y {
		t.Errorf("bounds = %+v, want degenerate box at %+v", desc.Bounds, p)
	}
}

func TestResolveNoBackends(t *testing.T) {
	r := NewElementResolver(nil, nil, ResolverConfig{})
	desc := r.Resolve(context.Background(), Point{X: 1, Y: 2}, nil, Capabilities{Mode: ModeDesktop})
	if desc.Provenance != ProvenanceUnresolved {
		t.Errorf("provenance = %q, want %q", desc.Provenance, ProvenanceUnresolved)
	}
}

func TestResolveSkipsAccessibilityWithoutCapability(t *testing.T) {
	ax := &fakeAXBackend{desc: &ElementDescriptor{Name: "should not be used", Role: "button"}}
	oracle := &fakeOracle{desc: &ElementDescriptor{Name: "panel", Role: "pane", Bounds: Rect{Width: 10, Height: 10}}}
	r := NewElementResolver(ax, oracle, ResolverConfig{})

	caps := Capabilities{Mode: ModeDesktop, Accessibility: BackendNone}
	desc := r.Resolve(context.Background(), Point{X: 5, Y: 5}, nil, caps)
	if desc.Provenance != ProvenanceVisual {
		t.Errorf("provenance = %q, want %q when capabilities lack accessibility", desc.Provenance, ProvenanceVisual)
	}
}

func TestDeriveConfidence(t *testing.T) {
	tests := []struct {
		name   string
		bounds Rect
		p      Point
		want   float64
	}{
		{"zero-area box", Rect{X: 5, Y: 5}, Point{X: 5, Y: 5}, 0.3},
		{"box missing the point", Rect{X: 0, Y: 0, Width: 10, Height: 10}, Point{X: 50, Y: 50}, 0.4},
		{"box containing the point", Rect{X: 0, Y: 0, Width: 100, Height: 100}, Point{X: 50, Y: 50}, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deriveConfidence(tt.bounds, tt.p); got != tt.want {
				t.Errorf("deriveConfidence() = %v, want %v", got, tt.want)
			}
		})
	}
}
