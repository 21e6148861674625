package report

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper in inches, with margins approximating the legacy 10px setting.
const (
	paperWidthIn  = 8.27
	paperHeightIn = 11.69
	marginIn      = 0.1
)

// networkIdleTimeout caps how long a render waits for subresources before
// printing anyway, so a dead file:// reference cannot hang the request.
const networkIdleTimeout = 10 * time.Second

// Renderer rasterizes a composed HTML document into PDF bytes.
// It is a single-shot operation with no retry on failure.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer drives a headless Chrome instance over the DevTools
// protocol. Each render spins up its own browser process; there is no
// pooling or concurrency limit.
type ChromeRenderer struct {
	execPath string
}

// NewChromeRenderer creates a renderer. execPath optionally points at a
// Chrome/Chromium binary; empty means chromedp's default lookup.
func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{execPath: execPath}
}

func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	idle := make(chan struct{}, 1)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return page.SetLifecycleEventsEnabled(true).Do(ctx)
		}),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			// Discard any idle signal from the about:blank navigation so the
			// wait below observes the document we are about to set.
			select {
			case <-idle:
			default:
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		// The legacy renderer printed only after networkidle0; the file://
		// logo and fonts must finish loading before PrintToPDF or they
		// rasterize blank.
		awaitNetworkIdle(idle, networkIdleTimeout),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return pdf, nil
}

// awaitNetworkIdle blocks until the page reports network idle, the fallback
// duration elapses, or the context is cancelled.
func awaitNetworkIdle(idle <-chan struct{}, fallback time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		timer := time.NewTimer(fallback)
		defer timer.Stop()

		select {
		case <-idle:
			return nil
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Ensure ChromeRenderer implements Renderer
var _ Renderer = (*ChromeRenderer)(nil)
