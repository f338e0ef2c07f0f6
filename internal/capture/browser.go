// Package capture drives a headless browser to pull a live challenge off a
// page: the instruction markup and the candidate images, in on-page order.
package capture

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds one capture attempt end to end.
const DefaultTimeout = 30 * time.Second

// Default CSS selectors for challenge widgets. Override via Options when a
// page uses different markup.
const (
	DefaultInstructionSelector = ".challenge-instruction"
	DefaultImageSelector       = ".challenge-image img"
)

// Options configures a capture run.
type Options struct {
	Timeout             time.Duration
	InstructionSelector string
	ImageSelector       string
	Verbose             bool
}

// DefaultOptions returns sensible defaults for capturing.
func DefaultOptions() *Options {
	return &Options{
		Timeout:             DefaultTimeout,
		InstructionSelector: DefaultInstructionSelector,
		ImageSelector:       DefaultImageSelector,
	}
}

// Challenge is one captured widget: raw instruction markup plus the candidate
// images as data URLs, in on-page order.
type Challenge struct {
	URL         string
	Instruction string
	ImageURLs   []string
}

// Error represents a capture failure.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("capture error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("capture error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// imagesToDataURLs redraws each matched <img> onto a canvas and exports it as
// a PNG data URL, so images already decoded by the page need no second fetch.
const imagesToDataURLs = `
Array.from(document.querySelectorAll(%q)).map(img => {
	const canvas = document.createElement('canvas');
	canvas.width = img.naturalWidth;
	canvas.height = img.naturalHeight;
	canvas.getContext('2d').drawImage(img, 0, 0);
	return canvas.toDataURL('image/png');
})`

// FromPage renders the page in a headless browser and pulls the challenge
// widget out of it. Requires Chrome/Chromium to be installed on the system.
func FromPage(ctx context.Context, url string, opts *Options) (*Challenge, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var (
		instruction string
		imageURLs   []string
	)
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give the widget's scripts time to render the images
		chromedp.Sleep(2*time.Second),
		chromedp.WaitVisible(opts.InstructionSelector),
		chromedp.OuterHTML(opts.InstructionSelector, &instruction),
		chromedp.Evaluate(fmt.Sprintf(imagesToDataURLs, opts.ImageSelector), &imageURLs),
	)
	if err != nil {
		return nil, &Error{URL: url, Message: "challenge capture failed", Cause: err}
	}
	if len(imageURLs) == 0 {
		return nil, &Error{URL: url, Message: "no candidate images found"}
	}

	if opts.Verbose {
		log.Printf("[BROWSER] Captured instruction (%d bytes) and %d images", len(instruction), len(imageURLs))
	}

	return &Challenge{URL: url, Instruction: instruction, ImageURLs: imageURLs}, nil
}
