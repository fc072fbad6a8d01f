package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

const rasterTimeout = 30 * time.Second

// BrowserRasterizer converts SVG documents to PNG and PDF with a headless
// Chromium instance. Each call spawns a fresh browser context so a crashed
// render cannot poison later ones.
type BrowserRasterizer struct {
	logger zerolog.Logger
}

func NewBrowserRasterizer(logger zerolog.Logger) *BrowserRasterizer {
	return &BrowserRasterizer{
		logger: logger.With().Str("component", "rasterizer").Logger(),
	}
}

// PNG renders the SVG at the given viewport size and screenshots it.
func (r *BrowserRasterizer) PNG(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	var buf []byte
	err := r.run(ctx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(svgDataURL(svg)),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("screenshot svg: %w", err)
	}
	return buf, nil
}

// PDF prints the SVG to a landscape PDF document.
func (r *BrowserRasterizer) PDF(ctx context.Context, svg []byte) ([]byte, error) {
	var buf []byte
	err := r.run(ctx,
		chromedp.Navigate(svgDataURL(svg)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithLandscape(true).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print svg to pdf: %w", err)
	}
	return buf, nil
}

func (r *BrowserRasterizer) run(ctx context.Context, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(ctx, rasterTimeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	err := chromedp.Run(browserCtx, actions...)
	r.logger.Debug().Dur("elapsed", time.Since(start)).Err(err).Msg("rasterization finished")
	return err
}

func svgDataURL(svg []byte) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
}
