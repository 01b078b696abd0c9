package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	mw "github.com/lorrc/glpi-dashboard/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/lorrc/glpi-dashboard/internal/adapters/primary/websocket"
	"github.com/lorrc/glpi-dashboard/internal/auth"
	"github.com/lorrc/glpi-dashboard/internal/config"
	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	"github.com/lorrc/glpi-dashboard/internal/core/ports"
	"github.com/lorrc/glpi-dashboard/internal/presentation"
)

// WebSocketHandler upgrades dashboard pages to their live channel
type WebSocketHandler struct {
	hub          *wsAdapter.Hub
	tm           *auth.TokenManager
	service      ports.DashboardService
	events       *mw.RateLimitByKey
	errorHandler *ErrorHandler
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler. events limits
// date-range events per viewer and may be nil.
func NewWebSocketHandler(
	hub *wsAdapter.Hub,
	tm *auth.TokenManager,
	service ports.DashboardService,
	events *mw.RateLimitByKey,
	errorHandler *ErrorHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		hub:          hub,
		tm:           tm,
		service:      service,
		events:       events,
		errorHandler: errorHandler,
		logger:       logger.With("component", "websocket_handler"),
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.WebSocket.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins
		if cfg.IsDevelopment() {
			if origin != "" {
				h.logger.Debug("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		// Check against allowed origins
		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		originHost := parsedOrigin.Host

		// The dashboard page itself
		if originHost == r.Host {
			return true
		}

		for _, allowed := range allowedOrigins {
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:] // Remove the "*", keep ".example.com"
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// ServeHTTP handles WebSocket connection requests
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// 1. Authenticate the connection via query parameter
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		h.logger.WarnContext(ctx, "websocket connection rejected: missing token",
			"remote_addr", r.RemoteAddr,
		)
		http.Error(w, "Missing authentication token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tm.ValidateToken(tokenString)
	if err != nil {
		h.logger.WarnContext(ctx, "websocket connection rejected: invalid token",
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	// 2. Upgrade the connection
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to upgrade websocket connection",
			"viewer_id", claims.ViewerID,
			"error", err,
		)
		return
	}

	h.logger.InfoContext(ctx, "websocket connection established",
		"viewer_id", claims.ViewerID,
		"remote_addr", r.RemoteAddr,
	)

	// 3. Create the client and start its pumps
	client := wsAdapter.NewClient(ctx, h.hub, conn, claims.ViewerID, h.summarize, h.logger)
	if h.events != nil {
		client.LimitEvents(h.events.AllowFunc(claims.ViewerID.String()))
	}
	if !client.Serve() {
		h.logger.WarnContext(ctx, "websocket connection dropped: hub stopped",
			"viewer_id", claims.ViewerID,
		)
	}
}

// summarize answers one date-range event from a page.
func (h *WebSocketHandler) summarize(ctx context.Context, start, end string) domain.Event {
	snap, err := h.service.Snapshot(ctx, start, end)
	if err != nil {
		message, code := h.errorHandler.ErrorEvent(err)
		h.logger.WarnContext(ctx, "date range event failed",
			"start", start,
			"end", end,
			"code", code,
			"error", err,
		)
		return domain.Event{Type: domain.EventError, Payload: domain.ErrorPayload{
			Message: message,
			Code:    code,
		}}
	}
	return domain.Event{Type: domain.EventSummaryUpdated, Payload: presentation.NewSummaryView(snap)}
}
