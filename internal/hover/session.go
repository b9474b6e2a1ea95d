// Package hover implements the per-session hover debouncer that turns pointer
// events into at most one lookup per quiet period and presents the verdict.
package hover

import (
	"context"
	"sync"
	"time"

	"github.com/user/urlsafety-service/internal/entity"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a hovered link is looked up.
const DefaultDebounce = 400 * time.Millisecond

// State is the hover session state.
type State int

const (
	Idle State = iota
	Pending
	Displaying
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Displaying:
		return "displaying"
	default:
		return "idle"
	}
}

// LookupFunc resolves a URL to a verdict. ok is false when no response arrived.
type LookupFunc func(ctx context.Context, url string) (resp entity.LookupResponse, ok bool)

// Presenter renders the tooltip.
type Presenter interface {
	Show(text string, x, y int)
	Hide()
}

// Options configures a Session. Zero values take defaults.
type Options struct {
	Debounce  time.Duration
	Scheduler Scheduler
	Logger    *zap.Logger
}

// Session tracks one pointer's hover over hyperlinks. Arming always cancels the
// previous timer, so only the most recent hover can trigger a lookup.
type Session struct {
	lookup    LookupFunc
	presenter Presenter
	debounce  time.Duration
	scheduler Scheduler
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  State
	timer  Timer
	gen    uint64 // incremented on every arm and cancel
	closed bool
}

// NewSession creates an idle session. Lookups run with a context derived from ctx
// and are cancelled by Close.
func NewSession(ctx context.Context, lookup LookupFunc, presenter Presenter, opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	sctx, cancel := context.WithCancel(ctx)
	return &Session{
		lookup:    lookup,
		presenter: presenter,
		debounce:  opts.Debounce,
		scheduler: opts.Scheduler,
		logger:    opts.Logger,
		ctx:       sctx,
		cancel:    cancel,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PointerOver handles the pointer entering an element. href is the resolved
// target of the closest enclosing hyperlink, or empty when there is none.
func (s *Session) PointerOver(href string, x, y int) {
	if href == "" {
		s.PointerOut()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopTimerLocked()
	s.gen++
	gen := s.gen
	s.state = Pending
	s.timer = s.scheduler.AfterFunc(s.debounce, func() { s.fire(gen, href, x, y) })
}

// PointerOut hides the tooltip and cancels any pending lookup.
func (s *Session) PointerOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopTimerLocked()
	s.gen++
	s.state = Idle
	s.presenter.Hide()
}

// Close cancels the pending timer and any in-flight lookup. Responses that
// arrive afterwards are dropped, as are responses for a hover that has since
// been superseded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.state = Idle
	s.cancel()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// fire runs when a debounce timer elapses.
func (s *Session) fire(gen uint64, url string, x, y int) {
	s.mu.Lock()
	// A timer that lost the race with Stop must not fire a lookup.
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	resp, ok := s.lookup(s.ctx, url)
	if !ok {
		s.logger.Debug("no lookup response", zap.String("url", url))
		return
	}

	// Presenter calls happen under mu so show and hide reach the page in event order.
	s.mu.Lock()
	defer s.mu.Unlock()
	// The pointer moved on while the lookup was in flight.
	if s.closed || gen != s.gen {
		s.logger.Debug("dropping stale lookup response", zap.String("url", url))
		return
	}
	s.state = Displaying
	s.presenter.Show(entity.Verdict(resp.Safe).Label(), x, y)
}
