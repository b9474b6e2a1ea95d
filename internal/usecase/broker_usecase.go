package usecase

import (
	"context"
	"time"

	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/internal/repository"
	"github.com/user/urlsafety-service/pkg/metrics"
	"github.com/user/urlsafety-service/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// sideEffectTimeout bounds cache writes and audit writes, which outlive the caller's context.
const sideEffectTimeout = 5 * time.Second

// defaultSharedLookupTimeout bounds a deduplicated lookup when BrokerOptions.LookupTimeout is unset.
const defaultSharedLookupTimeout = 10 * time.Second

// Broker answers URL safety lookups, consulting the cache before the threat-intelligence API.
type Broker interface {
	// CheckURL returns the verdict for url. It never fails: lookup errors resolve to safe.
	CheckURL(ctx context.Context, url string) entity.Verdict
	// Handle answers a lookup message. ok is false when the message gets no response.
	Handle(ctx context.Context, req entity.LookupRequest) (resp entity.LookupResponse, ok bool)
}

// BrokerOptions tunes optional broker behaviour.
type BrokerOptions struct {
	// DedupeInFlight collapses concurrent network lookups of the same uncached URL.
	DedupeInFlight bool
	// LookupTimeout bounds a deduplicated lookup. The shared call does not belong to any
	// single caller, so it runs detached from their contexts.
	LookupTimeout time.Duration
}

type brokerUseCase struct {
	cache   repository.VerdictCacheRepository
	threats repository.ThreatLookupRepository
	events  repository.LookupEventRepository // optional
	metrics *metrics.Metrics
	logger  *zap.Logger
	group   *singleflight.Group // nil unless DedupeInFlight
	timeout time.Duration
}

// NewBroker creates a new Broker use case. events may be nil.
func NewBroker(
	cache repository.VerdictCacheRepository,
	threats repository.ThreatLookupRepository,
	events repository.LookupEventRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts BrokerOptions,
) Broker {
	b := &brokerUseCase{
		cache:   cache,
		threats: threats,
		events:  events,
		metrics: m,
		logger:  logger,
	}
	if opts.DedupeInFlight {
		b.group = &singleflight.Group{}
		b.timeout = opts.LookupTimeout
		if b.timeout <= 0 {
			b.timeout = defaultSharedLookupTimeout
		}
	}
	return b
}

func (b *brokerUseCase) Handle(ctx context.Context, req entity.LookupRequest) (entity.LookupResponse, bool) {
	if req.Type != entity.MessageTypeCheckURL || req.URL == "" {
		b.logger.Debug("ignoring lookup message", zap.String("type", req.Type))
		return entity.LookupResponse{}, false
	}
	return entity.LookupResponse{Safe: bool(b.CheckURL(ctx, req.URL))}, true
}

func (b *brokerUseCase) CheckURL(ctx context.Context, url string) entity.Verdict {
	safe, found, err := b.cache.Get(ctx, url)
	if err != nil {
		// An unavailable store is a miss.
		b.logger.Warn("verdict cache read failed, falling through to lookup", zap.String("url", url), zap.Error(err))
	}
	if err == nil && found {
		b.metrics.LookupsTotal.WithLabelValues(metrics.SourceCache).Inc()
		return b.observe(entity.Verdict(safe))
	}

	if b.group != nil {
		return b.observe(b.sharedLookup(ctx, url))
	}
	return b.observe(b.lookup(ctx, url))
}

// sharedLookup joins or starts the in-flight lookup for url. The lookup runs detached
// from ctx so one caller giving up does not fail the others. A caller whose own ctx
// ends first gets the fail-open verdict.
func (b *brokerUseCase) sharedLookup(ctx context.Context, url string) entity.Verdict {
	ch := b.group.DoChan(url, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
		defer cancel()
		return b.lookup(lookupCtx, url), nil
	})
	select {
	case res := <-ch:
		return res.Val.(entity.Verdict)
	case <-ctx.Done():
		b.logger.Debug("caller stopped waiting for shared lookup, treating URL as safe",
			zap.String("url", url), zap.Error(ctx.Err()))
		return true
	}
}

// lookup performs the network call and caches the result. Failures are fail-open and not cached.
func (b *brokerUseCase) lookup(ctx context.Context, url string) entity.Verdict {
	start := time.Now()
	matches, err := b.threats.Lookup(ctx, url)
	took := time.Since(start)
	b.metrics.ThreatAPIDuration.Observe(took.Seconds())

	if err != nil {
		b.metrics.LookupsTotal.WithLabelValues(metrics.SourceError).Inc()
		b.logger.Error("threat lookup failed, treating URL as safe", zap.String("url", url), zap.Error(err))
		b.record(ctx, url, true, nil, err, took)
		return true
	}

	b.metrics.LookupsTotal.WithLabelValues(metrics.SourceNetwork).Inc()
	verdict := entity.Verdict(len(matches) == 0)
	b.logger.Debug("threat lookup completed",
		zap.String("url", url),
		zap.Bool("safe", bool(verdict)),
		zap.Int("matches", len(matches)),
		zap.Duration("took", took),
	)

	// The write completes even if the caller stops waiting.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := b.cache.Set(writeCtx, url, bool(verdict)); err != nil {
		b.logger.Warn("failed to cache verdict", zap.String("url", url), zap.Error(err))
	}

	b.record(ctx, url, bool(verdict), matches, nil, took)
	return verdict
}

func (b *brokerUseCase) record(ctx context.Context, url string, safe bool, matches []repository.ThreatMatch, lookupErr error, took time.Duration) {
	if b.events == nil {
		return
	}
	event := &entity.LookupEvent{
		URL:        url,
		URLHash:    utils.HashURL(url),
		Safe:       safe,
		DurationMS: int(took.Milliseconds()),
		CheckedAt:  time.Now().UTC(),
	}
	for _, m := range matches {
		event.ThreatTypes = append(event.ThreatTypes, m.ThreatType)
	}
	if lookupErr != nil {
		event.Error = lookupErr.Error()
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()
	if err := b.events.Record(recordCtx, event); err != nil {
		b.logger.Warn("failed to record lookup event", zap.String("url", url), zap.Error(err))
	}
}

func (b *brokerUseCase) observe(v entity.Verdict) entity.Verdict {
	label := "safe"
	if !v {
		label = "unsafe"
	}
	b.metrics.VerdictsTotal.WithLabelValues(label).Inc()
	return v
}
