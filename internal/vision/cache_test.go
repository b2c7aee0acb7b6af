package vision

import (
	"fmt"
	"testing"

	"github.com/asachs01/claudeDocugen/internal"
)

func TestCacheKeyVariesByPoint(t *testing.T) {
	png := []byte("fake png bytes")
	a := CacheKey(png, internal.Point{X: 10, Y: 20})
	b := CacheKey(png, internal.Point{X: 10, Y: 21})
	if a == b {
		t.Error("keys for different points must differ")
	}
	if a != CacheKey(png, internal.Point{X: 10, Y: 20}) {
		t.Error("key is not stable for identical input")
	}
}

func TestCacheKeyVariesByImage(t *testing.T) {
	p := internal.Point{X: 10, Y: 20}
	if CacheKey([]byte("one"), p) == CacheKey([]byte("two"), p) {
		t.Error("keys for different images must differ")
	}
}

func TestCachePutGet(t *testing.T) {
	c := NewCache(4)
	desc := &internal.ElementDescriptor{Name: "Save", Role: "button"}
	c.Put("k1", desc)

	got, ok := c.Get("k1")
	if !ok {
		t.Fatal("Get() miss for stored key")
	}
	if got.Name != "Save" {
		t.Errorf("name = %q, want Save", got.Name)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get() hit for absent key")
	}
}

func TestCacheEvictsOldest(t *testing.T) {
	c := NewCache(2)
	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("k%d", i), &internal.ElementDescriptor{Role: "button"})
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok := c.Get("k2"); !ok {
		t.Error("newest entry missing")
	}
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache(0)
	c.Put("k", &internal.ElementDescriptor{})
	if c.Len() != 0 {
		t.Errorf("disabled cache stored %d entries", c.Len())
	}
}
