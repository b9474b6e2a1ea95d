package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/user/urlsafety-service/internal/delivery/http/request"
	"github.com/user/urlsafety-service/internal/delivery/http/response"
	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/internal/repository"
	"github.com/user/urlsafety-service/internal/usecase"
	"github.com/user/urlsafety-service/pkg/metrics"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HoverOptions configures hover sessions opened over /ws/hover.
type HoverOptions struct {
	Debounce      time.Duration
	TooltipOffset int
}

type Handler struct {
	broker     usecase.Broker
	cacheAdmin usecase.CacheAdmin
	scanner    usecase.Scanner // nil when scanning is disabled
	history    usecase.LookupHistory
	health     map[string]Pinger
	hover      HoverOptions
	upgrader   websocket.Upgrader
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewHandler(
	broker usecase.Broker,
	cacheAdmin usecase.CacheAdmin,
	scanner usecase.Scanner,
	history usecase.LookupHistory,
	health map[string]Pinger,
	hover HoverOptions,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		broker:     broker,
		cacheAdmin: cacheAdmin,
		scanner:    scanner,
		history:    history,
		health:     health,
		hover:      hover,
		upgrader: websocket.Upgrader{
			// The extension page connects from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		metrics: m,
		logger:  logger,
	}
}

// HandleCheckURL answers a lookup message. Messages the broker does not answer get 204 No Content.
func (h *Handler) HandleCheckURL(w http.ResponseWriter, r *http.Request) {
	var req request.CheckURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, ok := h.broker.Handle(r.Context(), entity.LookupRequest{Type: req.Type, URL: req.URL})
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, response.CheckURLResponse{Safe: resp.Safe})
}

func (h *Handler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	res, err := h.cacheAdmin.Clear(r.Context())
	if err != nil {
		h.logger.Error("failed to clear cache", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, response.ClearCacheResponse{
		Status:       res.Message,
		DisplayForMS: res.DisplayFor.Milliseconds(),
	})
}

func (h *Handler) HandleSubmitScan(w http.ResponseWriter, r *http.Request) {
	if h.scanner == nil {
		h.writeJSONError(w, "Page scanning is not enabled", http.StatusServiceUnavailable)
		return
	}

	var req request.SubmitScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		return
	}

	if err := h.scanner.Enqueue(r.Context(), req.URL); err != nil {
		h.logger.Error("failed to submit scan", zap.String("url", req.URL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusAccepted, response.SubmitScanResponse{
		Status:  "success",
		Message: "Page submitted for scanning",
	})
}

func (h *Handler) HandleGetScan(w http.ResponseWriter, r *http.Request) {
	if h.scanner == nil {
		h.writeJSONError(w, "Page scanning is not enabled", http.StatusServiceUnavailable)
		return
	}

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	report, err := h.scanner.Report(r.Context(), rawURL)
	if err != nil {
		if errors.Is(err, repository.ErrScanNotFound) {
			h.writeJSONError(w, "Scan report not found for the given URL", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get scan report", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.ScanReportResponse{
		ID:            report.ID,
		PageURL:       report.PageURL,
		Status:        report.Status,
		Links:         make([]response.LinkVerdict, 0, len(report.Links)),
		FlaggedCount:  report.FlaggedCount,
		FailureReason: report.FailureReason,
		ScannedAt:     report.ScannedAt,
	}
	for _, l := range report.Links {
		resp.Links = append(resp.Links, response.LinkVerdict{URL: l.URL, Safe: l.Safe})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleLookupHistory lists recent network lookups for ?url=, newest first. ?limit= is optional.
func (h *Handler) HandleLookupHistory(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.writeJSONError(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := h.history.Recent(r.Context(), rawURL, limit)
	if err != nil {
		if errors.Is(err, usecase.ErrHistoryDisabled) {
			h.writeJSONError(w, "Lookup history is not enabled", http.StatusServiceUnavailable)
			return
		}
		h.logger.Error("failed to read lookup history", zap.String("url", rawURL), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]response.LookupEventResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, response.LookupEventResponse{
			URL:         ev.URL,
			Safe:        ev.Safe,
			ThreatTypes: ev.ThreatTypes,
			Error:       ev.Error,
			DurationMS:  ev.DurationMS,
			CheckedAt:   ev.CheckedAt,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok"}
	healthy := true
	for name, p := range h.health {
		if err := p.Ping(ctx); err != nil {
			status[name] = "unhealthy"
			healthy = false
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			continue
		}
		status[name] = "healthy"
	}
	if n, err := h.cacheAdmin.Size(ctx); err == nil {
		status["cache_entries"] = strconv.FormatInt(n, 10)
	}

	if !healthy {
		status["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
