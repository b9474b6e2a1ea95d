package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/user/urlsafety-service/internal/delivery/http/request"
	"github.com/user/urlsafety-service/internal/delivery/http/response"
	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/internal/hover"
	"github.com/user/urlsafety-service/internal/tooltip"
	"go.uber.org/zap"
)

const (
	hoverReadLimit    = 4 * 1024
	hoverWriteTimeout = 5 * time.Second
)

// wsPresenter renders the session's tooltip and pushes it to the page.
// Show is called from timer goroutines while Hide comes from the read loop,
// so writes are serialized.
type wsPresenter struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	tip    *tooltip.Tooltip
	logger *zap.Logger
}

func (p *wsPresenter) Show(text string, x, y int) {
	p.tip.Show(text, x, y)
	markup, err := p.tip.HTML()
	if err != nil {
		p.logger.Warn("failed to render tooltip", zap.Error(err))
		return
	}
	p.send(response.TooltipCommand{Action: response.ActionShow, Text: text, X: x, Y: y, HTML: markup})
}

func (p *wsPresenter) Hide() {
	p.tip.Hide()
	p.send(response.TooltipCommand{Action: response.ActionHide})
}

func (p *wsPresenter) send(cmd response.TooltipCommand) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(hoverWriteTimeout))
	if err := p.conn.WriteJSON(cmd); err != nil {
		p.logger.Debug("failed to send tooltip command", zap.String("action", cmd.Action), zap.Error(err))
	}
}

// HandleHoverSocket runs one hover session for the lifetime of a WebSocket connection.
func (h *Handler) HandleHoverSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		h.writeJSONError(w, "websocket upgrade required", http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	conn.SetReadLimit(hoverReadLimit)

	sessionID := uuid.NewString()
	log := h.logger.With(zap.String("session_id", sessionID))
	log.Debug("hover session opened", zap.String("remote_addr", r.RemoteAddr))
	h.metrics.HoverSessions.Inc()
	defer h.metrics.HoverSessions.Dec()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presenter := &wsPresenter{conn: conn, tip: tooltip.New(h.hover.TooltipOffset), logger: log}
	lookup := func(ctx context.Context, url string) (entity.LookupResponse, bool) {
		return h.broker.Handle(ctx, entity.LookupRequest{Type: entity.MessageTypeCheckURL, URL: url})
	}
	session := hover.NewSession(ctx, lookup, presenter, hover.Options{
		Debounce: h.hover.Debounce,
		Logger:   log,
	})
	defer session.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Debug("hover session closed", zap.Error(err))
			return
		}
		var ev request.PointerEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Debug("ignoring malformed pointer event", zap.Error(err))
			continue
		}
		switch ev.Type {
		case request.PointerOver:
			session.PointerOver(ev.Href, ev.X, ev.Y)
		case request.PointerOut:
			session.PointerOut()
		default:
			log.Debug("ignoring unknown pointer event", zap.String("type", ev.Type))
		}
	}
}
