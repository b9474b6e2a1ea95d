package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/urlsafety-service/internal/adapter/memory"
	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/internal/repository"
	"github.com/user/urlsafety-service/pkg/metrics"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	pages map[string]string
}

func (f *fakeRenderer) Render(_ context.Context, url string) (string, error) {
	html, ok := f.pages[url]
	if !ok {
		return "", repository.ErrNavigationFailed
	}
	return html, nil
}

type memReports struct {
	mu      sync.Mutex
	reports map[string]*entity.ScanReport
}

func (m *memReports) Save(_ context.Context, r *entity.ScanReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reports == nil {
		m.reports = make(map[string]*entity.ScanReport)
	}
	cp := *r
	m.reports[r.PageURL] = &cp
	return nil
}

func (m *memReports) FindByPageURL(_ context.Context, pageURL string) (*entity.ScanReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[pageURL]
	if !ok {
		return nil, repository.ErrScanNotFound
	}
	return r, nil
}

const testPage = `<html><body>
	<a href="/about">About</a>
	<a href="http://malicious.com/payload">Free stuff</a>
	<a href="/about">About again</a>
	<a href="mailto:someone@example.com">Mail</a>
	<a href="#top">Top</a>
</body></html>`

func newTestScanner(t *testing.T) (Scanner, *memory.Queue, *memReports) {
	t.Helper()
	cache := memory.NewVerdictCache()
	require.NoError(t, cache.Set(context.Background(), "http://malicious.com/payload", false))
	broker, _ := newTestBroker(cache, &fakeThreats{}, BrokerOptions{})

	queue := memory.NewQueue()
	reports := &memReports{}
	renderer := &fakeRenderer{pages: map[string]string{"https://example.com/": testPage}}
	scanner := NewScanner(queue, renderer, reports, broker, metrics.New(prometheus.NewRegistry()), zap.NewNop())
	return scanner, queue, reports
}

func TestScanner_ScanPage(t *testing.T) {
	scanner, _, reports := newTestScanner(t)

	report, err := scanner.ScanPage(context.Background(), "https://example.com/")
	require.NoError(t, err)

	assert.Equal(t, entity.ScanStatusCompleted, report.Status)
	assert.Equal(t, []entity.LinkVerdict{
		{URL: "https://example.com/about", Safe: true},
		{URL: "http://malicious.com/payload", Safe: false},
	}, report.Links)
	assert.Equal(t, 1, report.FlaggedCount)

	stored, err := reports.FindByPageURL(context.Background(), "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, report.ID, stored.ID)
}

func TestScanner_RenderFailureIsRecorded(t *testing.T) {
	scanner, _, _ := newTestScanner(t)

	report, err := scanner.ScanPage(context.Background(), "https://unreachable.example/")
	assert.ErrorIs(t, err, repository.ErrNavigationFailed)
	assert.Equal(t, entity.ScanStatusFailed, report.Status)
	assert.NotEmpty(t, report.FailureReason)

	stored, err := scanner.Report(context.Background(), "https://unreachable.example/")
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusFailed, stored.Status)
}

func TestScanner_QueueFlow(t *testing.T) {
	scanner, queue, _ := newTestScanner(t)
	ctx := context.Background()

	err := scanner.ProcessNext(ctx)
	assert.True(t, errors.Is(err, repository.ErrEmptyQueue))

	require.NoError(t, scanner.Enqueue(ctx, "https://example.com/"))
	pending, err := scanner.Report(ctx, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusPending, pending.Status)

	require.NoError(t, scanner.ProcessNext(ctx))
	size, _ := queue.Size(ctx)
	assert.Zero(t, size)

	done, err := scanner.Report(ctx, "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusCompleted, done.Status)
}
