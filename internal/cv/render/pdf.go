package render

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/folio-studio/portfolio-api/internal/config"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"golang.org/x/sync/semaphore"
)

// ErrRender marks failures of the PDF engine, as opposed to data errors.
var ErrRender = errors.New("pdf render failed")

const (
	// A4 in inches
	paperWidth  = 8.27
	paperHeight = 11.69
	// 20px at 96 CSS px per inch
	marginInches = 20.0 / 96.0
	// no request in flight for this long counts as network idle
	idleQuiet = 500 * time.Millisecond
)

// PDFRenderer turns an HTML page into PDF bytes.
type PDFRenderer interface {
	PDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer prints HTML with a headless Chrome started per render. At most
// MaxConcurrent browsers run at once; each render is bounded by Timeout.
type ChromeRenderer struct {
	execPath string
	timeout  time.Duration
	sem      *semaphore.Weighted
}

func NewChromeRenderer(cfg config.RenderConfig) *ChromeRenderer {
	n := cfg.MaxConcurrent
	if n <= 0 {
		n = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromeRenderer{execPath: cfg.ChromePath, timeout: timeout, sem: semaphore.NewWeighted(n)}
}

func (r *ChromeRenderer) PDF(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: waiting for a render slot: %v", ErrRender, err)
	}
	defer r.sem.Release(1)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	tracker := newRequestTracker()
	chromedp.ListenTarget(browserCtx, tracker.observe)

	var buf []byte
	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(tracker.waitIdle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				WithMarginRight(marginInches).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		logger.Warnf("chrome render failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrRender)
	}
	return buf, nil
}

// requestTracker follows network events of one tab to detect idleness.
type requestTracker struct {
	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
	last     time.Time
}

func newRequestTracker() *requestTracker {
	return &requestTracker{inflight: map[network.RequestID]struct{}{}, last: time.Now()}
}

func (t *requestTracker) observe(ev interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		t.inflight[e.RequestID] = struct{}{}
	case *network.EventLoadingFinished:
		delete(t.inflight, e.RequestID)
	case *network.EventLoadingFailed:
		delete(t.inflight, e.RequestID)
	default:
		return
	}
	t.last = time.Now()
}

func (t *requestTracker) idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight) == 0 && time.Since(t.last) >= idleQuiet
}

// waitIdle blocks until no request has been in flight for idleQuiet.
func (t *requestTracker) waitIdle(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		if t.idle() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for network idle: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
