package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lorrc/glpi-dashboard/internal/adapters/primary/validation"
	"github.com/lorrc/glpi-dashboard/internal/auth"
	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
	"github.com/lorrc/glpi-dashboard/internal/core/ports"
	"github.com/lorrc/glpi-dashboard/internal/presentation"
)

// SocketPath is where dashboard pages open their live channel.
const SocketPath = "/api/v1/ws"

// DashboardHandler serves the dashboard page and its JSON API.
type DashboardHandler struct {
	service      ports.DashboardService
	events       ports.EventBroadcaster
	tokens       *auth.TokenManager
	title        string
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler. events may be nil when
// no live channel is running.
func NewDashboardHandler(
	service ports.DashboardService,
	events ports.EventBroadcaster,
	tokens *auth.TokenManager,
	title string,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		events:       events,
		tokens:       tokens,
		title:        title,
		errorHandler: errorHandler,
		logger:       logger.With("component", "dashboard_handler"),
	}
}

// RegisterAPIRoutes mounts the JSON endpoints under the API router.
func (h *DashboardHandler) RegisterAPIRoutes(r chi.Router) {
	r.Get("/summary", h.HandleSummary)
	r.Post("/cache/invalidate", h.HandleInvalidate)
}

// HandlePage renders the dashboard for the requested or default range.
func (h *DashboardHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dr, err := validation.ParseDateRange(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	snap, err := h.service.Snapshot(ctx, dr.Start, dr.End)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	viewerID := uuid.New()
	token, err := h.tokens.GenerateToken(viewerID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	page := presentation.DashboardPage{
		Title:      h.title,
		Summary:    presentation.NewSummaryView(snap),
		Token:      token,
		SocketPath: SocketPath,
	}
	err = WriteHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return presentation.RenderDashboard(buf, page)
	})
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewInternalError(err))
		return
	}

	h.logger.DebugContext(ctx, "dashboard page served",
		"viewer_id", viewerID,
		"start", snap.Start,
		"end", snap.End,
	)
}

// HandleSummary returns the cards and charts of a range as JSON.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	dr, err := validation.ParseDateRange(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	snap, err := h.service.Snapshot(r.Context(), dr.Start, dr.End)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, presentation.NewSummaryView(snap))
}

// HandleInvalidate drops cached summaries and tells live pages to refetch
// their range. With start or end in the query only that range is dropped.
func (h *DashboardHandler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if q.Has("start") || q.Has("end") {
		dr, err := validation.ParseDateRange(r)
		if HandleError(w, r, err, h.errorHandler) {
			return
		}
		h.service.Invalidate(dr.Start, dr.End)

		start, end := h.service.DefaultRange()
		if dr.Start != "" {
			start = dr.Start
		}
		if dr.End != "" {
			end = dr.End
		}
		h.logger.InfoContext(ctx, "summary invalidated", "start", start, "end", end)
	} else {
		h.service.InvalidateAll()
		h.logger.InfoContext(ctx, "summary cache invalidated")
	}

	if h.events != nil {
		if err := h.events.Broadcast(domain.Event{Type: domain.EventRefresh}); err != nil {
			h.logger.WarnContext(ctx, "failed to broadcast refresh", "error", err)
		}
	}

	WriteMessage(w, "summary cache invalidated")
}
