package capture

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/asachs01/claudeDocugen/internal"
)

// WebCapturer drives a headless browser session over the DevTools protocol.
// It serves both capture roles of the web pipeline: viewport screenshots and
// the DOM accessibility backend.
type WebCapturer struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// NewWebCapturer starts a headless browser and navigates to url. The caller
// must Close the capturer to shut the browser down.
func NewWebCapturer(ctx context.Context, url string) (*WebCapturer, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("web capture requires a url")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	bctx, cancelBrowser := chromedp.NewContext(actx)

	if err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to open %s: %w", url, err)
	}

	return &WebCapturer{ctx: bctx, cancelBrowser: cancelBrowser, cancelAlloc: cancelAlloc}, nil
}

// Close shuts down the browser.
func (w *WebCapturer) Close() error {
	w.cancelBrowser()
	w.cancelAlloc()
	return nil
}

// TakeScreenshot captures the current viewport as PNG.
func (w *WebCapturer) TakeScreenshot(ctx context.Context) (*internal.Screenshot, error) {
	runCtx, release := w.run(ctx)
	defer release()

	var data []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		data, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("viewport capture failed: %w", err)
	}
	return FromPNG(data, internal.RegionViewport)
}

// domElement is the shape returned by the elementFromPoint probe.
type domElement struct {
	Tag       string  `json:"tag"`
	Role      string  `json:"role"`
	Name      string  `json:"name"`
	Label     string  `json:"label"`
	InputType string  `json:"inputType"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

const elementAtJS = `(() => {
	const el = document.elementFromPoint(%d, %d);
	if (!el) return null;
	const r = el.getBoundingClientRect();
	return {
		tag: el.tagName.toLowerCase(),
		role: el.getAttribute('role') || '',
		name: (el.getAttribute('aria-label') || el.innerText || el.value || '').trim().slice(0, 120),
		label: el.getAttribute('aria-label') || (el.labels && el.labels[0] ? el.labels[0].innerText.trim() : ''),
		inputType: el.type || '',
		x: r.x, y: r.y, width: r.width, height: r.height,
	};
})()`

// ElementAt queries the DOM for the element under a viewport point. It
// implements the structured-metadata backend of the resolver chain; a point
// over no element returns (nil, nil) so the resolver can fall through.
func (w *WebCapturer) ElementAt(ctx context.Context, p internal.Point) (*internal.ElementDescriptor, error) {
	runCtx, release := w.run(ctx)
	defer release()

	var elem *domElement
	err := chromedp.Run(runCtx,
		chromedp.Evaluate(fmt.Sprintf(elementAtJS, p.X, p.Y), &elem))
	if err != nil {
		return nil, fmt.Errorf("dom query failed: %w", err)
	}
	if elem == nil {
		return nil, nil
	}

	role := internal.NormalizeHTMLRole(elem.Role)
	if role == "unknown" {
		role = internal.NormalizeHTMLRole(elem.Tag)
	}
	return &internal.ElementDescriptor{
		Name: elem.Name,
		Role: role,
		Bounds: internal.Rect{
			X:      int(elem.X),
			Y:      int(elem.Y),
			Width:  int(elem.Width),
			Height: int(elem.Height),
		},
		Label:     elem.Label,
		InputType: strings.ToLower(elem.InputType),
	}, nil
}

// run scopes a browser action to the caller's context so resolver timeouts
// propagate into the protocol layer. The returned release func must be called
// when the action completes; it detaches the watch on the caller's context so
// nothing lingers for the life of the browser.
func (w *WebCapturer) run(ctx context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(w.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return merged, func() {
		stop()
		cancel()
	}
}
