// Package capture renders the HTML calendar page to PNG with headless
// Chromium.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "calgrid/internal/log"
)

const (
	DefaultWidth   = 800
	DefaultHeight  = 600
	DefaultTimeout = 30 * time.Second

	// ReadySelector matches the root element of /calendar once it is drawn.
	ReadySelector = `[data-ready="true"]`
)

// Options configures one capture.
type Options struct {
	// URL of the page, e.g. "http://127.0.0.1:8080/calendar".
	URL string

	// OutputPath receives the PNG. Only CaptureCalendarPNG uses it.
	OutputPath string

	// Viewport size in pixels; zero picks DefaultWidth/DefaultHeight.
	Width  int
	Height int

	// Timeout bounds the whole capture; zero means DefaultTimeout.
	Timeout time.Duration

	// ExecPath overrides the Chromium binary chromedp looks up.
	ExecPath string

	// NoSandbox disables the Chromium sandbox, needed when running as root
	// inside containers.
	NoSandbox bool
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return errors.New("capture: URL is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return nil
}

func (o Options) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.WindowSize(o.Width, o.Height))
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	if o.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	return opts
}

// CapturePNG navigates to opts.URL, waits for ReadySelector and returns a
// full-page screenshot.
func CapturePNG(parent context.Context, opts Options) ([]byte, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts.allocatorOptions()...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	start := time.Now()
	var png []byte
	err := chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	appLog.Debug("captured page", "url", opts.URL, "bytes", len(png), "elapsed", time.Since(start).String())
	return png, nil
}

// CaptureCalendarPNG captures opts.URL and writes the PNG to
// opts.OutputPath, creating its directory if needed.
func CaptureCalendarPNG(ctx context.Context, opts Options) error {
	if opts.OutputPath == "" {
		return errors.New("capture: OutputPath is required")
	}
	png, err := CapturePNG(ctx, opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(opts.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("capture: create output dir: %w", err)
		}
	}
	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	return nil
}
