package capture

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/asachs01/claudeDocugen/internal"
)

func encodePNG(t *testing.T, shade uint8, width, height int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestFromPNG(t *testing.T) {
	data := encodePNG(t, 128, 16, 12)
	shot, err := FromPNG(data, internal.RegionViewport)
	if err != nil {
		t.Fatalf("FromPNG() error = %v", err)
	}
	if shot.Width != 16 || shot.Height != 12 {
		t.Errorf("dimensions = %dx%d, want 16x12", shot.Width, shot.Height)
	}
	if len(shot.Gray) != 16*12 {
		t.Errorf("luminance plane = %d bytes, want %d", len(shot.Gray), 16*12)
	}
	if shot.Gray[0] != 128 {
		t.Errorf("luminance = %d, want 128", shot.Gray[0])
	}
	if shot.Region != internal.RegionViewport {
		t.Errorf("region = %q, want %q", shot.Region, internal.RegionViewport)
	}
	if !bytes.Equal(shot.PNG, data) {
		t.Error("original PNG bytes not retained")
	}
}

func TestFromPNGColorLuminance(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255}) // pure red
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	shot, err := FromPNG(buf.Bytes(), internal.RegionFullScreen)
	if err != nil {
		t.Fatalf("FromPNG() error = %v", err)
	}
	// Rec. 601: red contributes 29.9% of luminance.
	if shot.Gray[0] < 70 || shot.Gray[0] > 80 {
		t.Errorf("red luminance = %d, want ~76", shot.Gray[0])
	}
}

func TestFromPNGRejectsGarbage(t *testing.T) {
	if _, err := FromPNG([]byte("not a png"), internal.RegionFullScreen); err == nil {
		t.Error("FromPNG() with garbage = nil error")
	}
}

func TestFileCapturerSequence(t *testing.T) {
	dir := t.TempDir()
	for i, shade := range []uint8{50, 150} {
		path := filepath.Join(dir, []string{"a.png", "b.png"}[i])
		if err := os.WriteFile(path, encodePNG(t, shade, 8, 8), 0644); err != nil {
			t.Fatal(err)
		}
	}

	c, err := NewFileCapturer(dir)
	if err != nil {
		t.Fatalf("NewFileCapturer() error = %v", err)
	}

	ctx := context.Background()
	first, err := c.TakeScreenshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.TakeScreenshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first.Gray[0] != 50 || second.Gray[0] != 150 {
		t.Errorf("shades = %d, %d; want 50, 150", first.Gray[0], second.Gray[0])
	}

	// Exhausted sequences repeat the last frame.
	third, err := c.TakeScreenshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if third.Gray[0] != 150 {
		t.Errorf("exhausted capturer shade = %d, want 150", third.Gray[0])
	}
}

func TestFileCapturerEmptyDir(t *testing.T) {
	if _, err := NewFileCapturer(t.TempDir()); err == nil {
		t.Error("NewFileCapturer() on empty dir = nil error")
	}
}

func TestNewDesktopCapturerValidation(t *testing.T) {
	if _, err := NewDesktopCapturer(internal.CaptureConfig{Command: "screenshot-tool --out"}); err == nil {
		t.Error("command without an output placeholder accepted")
	}
	c, err := NewDesktopCapturer(internal.CaptureConfig{Command: "true %s"})
	if err != nil {
		t.Fatalf("NewDesktopCapturer() error = %v", err)
	}
	// The placeholder command writes nothing; capture must fail cleanly.
	if _, err := c.TakeScreenshot(context.Background()); err == nil {
		t.Error("TakeScreenshot() with no-op command = nil error")
	}
}
