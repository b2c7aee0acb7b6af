// Package capture provides the screenshot collaborators for both recording
// pipelines: a headless-browser capturer for web mode and an external-command
// capturer for desktop mode.
package capture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"time"

	"github.com/asachs01/claudeDocugen/internal"
)

// FromPNG decodes an encoded screenshot into the engine's raster form. The
// original PNG bytes are retained so saved step images keep full color.
func FromPNG(data []byte, region internal.Region) (*internal.Screenshot, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	gray, w, h := internal.GrayFromImage(img)
	return &internal.Screenshot{
		Gray:       gray,
		PNG:        data,
		Width:      w,
		Height:     h,
		Region:     region,
		CapturedAt: time.Now(),
	}, nil
}
