package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/internal/repository"
	"github.com/user/urlsafety-service/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// linkCheckConcurrency caps broker calls made for a single page.
	linkCheckConcurrency = 8
	// idlePollInterval is how long a worker waits after finding the queue empty.
	idlePollInterval = time.Second
)

// Scanner audits every link on a page through the broker.
type Scanner interface {
	// Enqueue schedules a page for a background scan.
	Enqueue(ctx context.Context, pageURL string) error
	// ProcessNext scans one page from the queue. It returns repository.ErrEmptyQueue when idle.
	ProcessNext(ctx context.Context) error
	// ScanPage renders and audits a page synchronously.
	ScanPage(ctx context.Context, pageURL string) (*entity.ScanReport, error)
	// Report returns the stored report for a page.
	Report(ctx context.Context, pageURL string) (*entity.ScanReport, error)
	// Run starts workers that drain the queue until ctx is cancelled.
	Run(ctx context.Context, workers int)
}

type scanUseCase struct {
	queue    repository.QueueRepository
	renderer repository.PageRendererRepository
	reports  repository.ScanReportRepository // optional
	broker   Broker
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewScanner creates a new Scanner use case. reports may be nil, in which case reports are not stored.
func NewScanner(
	queue repository.QueueRepository,
	renderer repository.PageRendererRepository,
	reports repository.ScanReportRepository,
	broker Broker,
	m *metrics.Metrics,
	logger *zap.Logger,
) Scanner {
	return &scanUseCase{
		queue:    queue,
		renderer: renderer,
		reports:  reports,
		broker:   broker,
		metrics:  m,
		logger:   logger,
	}
}

func (uc *scanUseCase) Enqueue(ctx context.Context, pageURL string) error {
	if err := uc.queue.Push(ctx, pageURL); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", pageURL, err)
	}
	if uc.reports != nil {
		pending := &entity.ScanReport{
			ID:        uuid.NewString(),
			PageURL:   pageURL,
			Status:    entity.ScanStatusPending,
			ScannedAt: time.Now().UTC(),
		}
		if err := uc.reports.Save(ctx, pending); err != nil {
			uc.logger.Warn("failed to mark scan as pending", zap.String("page_url", pageURL), zap.Error(err))
		}
	}
	uc.updateQueueGauge(ctx)
	return nil
}

func (uc *scanUseCase) ProcessNext(ctx context.Context) error {
	pageURL, err := uc.queue.Pop(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrEmptyQueue) {
			return err
		}
		return fmt.Errorf("failed to pop page from queue: %w", err)
	}
	uc.updateQueueGauge(ctx)

	uc.logger.Info("processing page from scan queue", zap.String("page_url", pageURL))
	_, err = uc.ScanPage(ctx, pageURL)
	return err
}

func (uc *scanUseCase) ScanPage(ctx context.Context, pageURL string) (*entity.ScanReport, error) {
	start := time.Now()
	report := &entity.ScanReport{
		ID:      uuid.NewString(),
		PageURL: pageURL,
	}

	links, err := uc.collectLinks(ctx, pageURL)
	if err != nil {
		report.Status = entity.ScanStatusFailed
		report.FailureReason = err.Error()
		report.ScannedAt = time.Now().UTC()
		uc.metrics.ScansTotal.WithLabelValues(entity.ScanStatusFailed).Inc()
		uc.logger.Error("page scan failed", zap.String("page_url", pageURL), zap.Error(err))
		uc.save(ctx, report)
		return report, err
	}

	report.Links = make([]entity.LinkVerdict, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(linkCheckConcurrency)
	for i, link := range links {
		g.Go(func() error {
			report.Links[i] = entity.LinkVerdict{URL: link, Safe: bool(uc.broker.CheckURL(gctx, link))}
			return nil
		})
	}
	_ = g.Wait() // CheckURL never fails

	report.FlaggedCount = len(report.Flagged())
	report.Status = entity.ScanStatusCompleted
	report.ScannedAt = time.Now().UTC()

	uc.metrics.ScansTotal.WithLabelValues(entity.ScanStatusCompleted).Inc()
	uc.metrics.ScanDuration.Observe(time.Since(start).Seconds())
	uc.logger.Info("page scan completed",
		zap.String("page_url", pageURL),
		zap.Int("links", len(report.Links)),
		zap.Int("flagged", report.FlaggedCount),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	uc.save(ctx, report)
	return report, nil
}

func (uc *scanUseCase) Report(ctx context.Context, pageURL string) (*entity.ScanReport, error) {
	if uc.reports == nil {
		return nil, repository.ErrScanNotFound
	}
	return uc.reports.FindByPageURL(ctx, pageURL)
}

func (uc *scanUseCase) Run(ctx context.Context, workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		go uc.worker(ctx, i)
	}
}

func (uc *scanUseCase) worker(ctx context.Context, id int) {
	log := uc.logger.With(zap.Int("worker", id))
	for {
		if ctx.Err() != nil {
			return
		}
		err := uc.ProcessNext(ctx)
		switch {
		case err == nil:
			continue
		case errors.Is(err, repository.ErrEmptyQueue):
		default:
			log.Warn("scan worker error", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(idlePollInterval):
		}
	}
}

func (uc *scanUseCase) collectLinks(ctx context.Context, pageURL string) ([]string, error) {
	html, err := uc.renderer.Render(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ExtractLinks(pageURL, html)
}

func (uc *scanUseCase) save(ctx context.Context, report *entity.ScanReport) {
	if uc.reports == nil {
		return
	}
	if err := uc.reports.Save(ctx, report); err != nil {
		uc.logger.Error("failed to save scan report", zap.String("page_url", report.PageURL), zap.Error(err))
	}
}

func (uc *scanUseCase) updateQueueGauge(ctx context.Context) {
	if size, err := uc.queue.Size(ctx); err == nil {
		uc.metrics.ScansInQueue.Set(float64(size))
	}
}
