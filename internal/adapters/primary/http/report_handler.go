package http

import (
	"bytes"
	"log/slog"
	"net/http"

	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
	"github.com/lorrc/glpi-dashboard/internal/core/ports"
	"github.com/lorrc/glpi-dashboard/internal/presentation"
)

// ReportHandler renders the ticket to group report as a page.
type ReportHandler struct {
	service      ports.ReportService
	title        string
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ports.ReportService, title string, errorHandler *ErrorHandler, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service:      service,
		title:        title,
		errorHandler: errorHandler,
		logger:       logger.With("component", "report_handler"),
	}
}

// HandleReport runs one report build against GLPI.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Build(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	page, err := presentation.NewReportPage(h.title, report)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewInternalError(err))
		return
	}
	err = WriteHTML(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return presentation.RenderReport(buf, page)
	})
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewInternalError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "report served",
		"strategy", report.Strategy,
		"processed", report.Processed,
	)
}
