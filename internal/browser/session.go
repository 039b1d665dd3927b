package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// Session owns one Chrome instance for the lifetime of a controller. It is
// created lazily by the controller and must be closed exactly once; Close
// is safe to call on every exit path.
type Session struct {
	logger *logrus.Logger
	ctx    context.Context
	page   *chromePage

	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	closeOnce   sync.Once
}

// NewSession launches Chrome with the flags the router's admin console
// needs. The SSL interstitial is handled by navigation, not suppressed with
// a certificate flag, so the login sequence stays observable.
func NewSession(headless, debug bool, logger *logrus.Logger) (*Session, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1280, 720),
	)
	if !headless {
		opts = append(opts, chromedp.Flag("headless", false))
	} else {
		logger.Info("Running in headless mode")
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	var ctxOpts []chromedp.ContextOption
	if debug {
		ctxOpts = append(ctxOpts,
			chromedp.WithLogf(logger.Debugf),
			chromedp.WithErrorf(logger.Errorf),
		)
	}
	ctx, cancelCtx := chromedp.NewContext(allocCtx, ctxOpts...)

	// Run with no actions starts the browser process.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	logger.Info("Browser session started")

	return &Session{
		logger:      logger,
		ctx:         ctx,
		page:        newChromePage(logger),
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Context returns the chromedp context all Page calls must derive from.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Page returns the DOM surface bound to this session.
func (s *Session) Page() Page {
	return s.page
}

// Close shuts the browser down. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancelCtx()
		s.cancelAlloc()
		s.logger.Debug("Browser session closed")
	})
}
