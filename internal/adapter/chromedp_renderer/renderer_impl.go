package chromedp_renderer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/user/urlsafety-service/internal/repository"
	"go.uber.org/zap"
)

// ErrRendererClosed is returned by Render after Close.
var ErrRendererClosed = errors.New("renderer is closed")

// ChromedpRenderer loads pages in headless Chrome so links injected by scripts are visible to a scan.
// Browser processes are started lazily, one per Render, and all share one exec allocator.
type ChromedpRenderer struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	slots       chan struct{}
	timeout     time.Duration
	logger      *zap.Logger

	closeOnce sync.Once
}

// NewChromedpRenderer creates a renderer that runs at most maxConcurrency pages at once.
func NewChromedpRenderer(maxConcurrency int, pageLoadTimeout time.Duration, logger *zap.Logger) *ChromedpRenderer {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpRenderer{
		allocCtx:    allocCtx,
		cancelAlloc: cancel,
		slots:       make(chan struct{}, maxConcurrency),
		timeout:     pageLoadTimeout,
		logger:      logger,
	}
}

// Close shuts down every browser started by the renderer. It is safe to call more than once.
func (c *ChromedpRenderer) Close() {
	c.closeOnce.Do(c.cancelAlloc)
}

// Render navigates to url and returns the document's outer HTML once the body is ready.
func (c *ChromedpRenderer) Render(ctx context.Context, url string) (string, error) {
	if c.allocCtx.Err() != nil {
		return "", ErrRendererClosed
	}
	select {
	case c.slots <- struct{}{}:
		defer func() { <-c.slots }()
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.allocCtx.Done():
		return "", ErrRendererClosed
	}

	taskCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, c.timeout)
	defer cancelTimeout()

	// Stop the browser task if the caller gives up first.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var html string
	start := time.Now()
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", repository.ErrRenderTimeout, url)
		}
		return "", fmt.Errorf("%w: %v", repository.ErrNavigationFailed, err)
	}

	c.logger.Debug("rendered page", zap.String("url", url), zap.Duration("took", time.Since(start)))
	return html, nil
}
