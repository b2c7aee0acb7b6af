package testutil

import (
	"testing"
	"time"

	"github.com/asachs01/claudeDocugen/internal"
)

// UniformScreenshot builds a synthetic screenshot filled with one luminance
// value. Comparing a uniform screenshot with itself scores 1.0.
func UniformScreenshot(t *testing.T, width, height int, shade uint8) *internal.Screenshot {
	t.Helper()
	gray := make([]uint8, width*height)
	for i := range gray {
		gray[i] = shade
	}
	return &internal.Screenshot{
		Gray:       gray,
		Width:      width,
		Height:     height,
		Region:     internal.RegionFullScreen,
		CapturedAt: time.Now(),
	}
}

// ScreenshotWithRect copies base and paints a rectangle of a different
// shade, simulating a localized UI change like a button press or dialog.
func ScreenshotWithRect(t *testing.T, base *internal.Screenshot, r internal.Rect, shade uint8) *internal.Screenshot {
	t.Helper()
	gray := make([]uint8, len(base.Gray))
	copy(gray, base.Gray)
	for y := r.Y; y < r.Y+r.Height && y < base.Height; y++ {
		for x := r.X; x < r.X+r.Width && x < base.Width; x++ {
			gray[y*base.Width+x] = shade
		}
	}
	return &internal.Screenshot{
		Gray:       gray,
		Width:      base.Width,
		Height:     base.Height,
		Region:     base.Region,
		CapturedAt: time.Now(),
	}
}

// ModalScreenshot paints a centered rectangle covering roughly 40% of the
// frame, simulating a modal dialog opening.
func ModalScreenshot(t *testing.T, base *internal.Screenshot, shade uint8) *internal.Screenshot {
	t.Helper()
	w := base.Width * 2 / 3
	h := base.Height * 3 / 5
	r := internal.Rect{
		X:      (base.Width - w) / 2,
		Y:      (base.Height - h) / 2,
		Width:  w,
		Height: h,
	}
	return ScreenshotWithRect(t, base, r, shade)
}

// NoiseScreenshot copies base and shifts every pixel by delta, simulating a
// global rendering artifact like an anti-aliasing or cursor-blink change.
func NoiseScreenshot(t *testing.T, base *internal.Screenshot, delta int) *internal.Screenshot {
	t.Helper()
	gray := make([]uint8, len(base.Gray))
	for i, v := range base.Gray {
		shifted := int(v) + delta
		if shifted < 0 {
			shifted = 0
		}
		if shifted > 255 {
			shifted = 255
		}
		gray[i] = uint8(shifted)
	}
	return &internal.Screenshot{
		Gray:       gray,
		Width:      base.Width,
		Height:     base.Height,
		Region:     base.Region,
		CapturedAt: time.Now(),
	}
}
