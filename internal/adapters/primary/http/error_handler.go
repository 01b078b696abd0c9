package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/lorrc/glpi-dashboard/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
)

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return mw.GetRequestID(ctx)
}

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse includes field-level validation errors
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, err)
		h.writeErrorResponse(w, appErr.StatusCode, ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}

	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.logError(r, http.StatusUnprocessableEntity, err)
		h.writeValidationErrorResponse(w, validationErrs)
		return
	}

	statusCode, response := h.mapDomainError(err)
	h.logError(r, statusCode, err)
	h.writeErrorResponse(w, statusCode, response)
}

// mapDomainError converts domain errors to HTTP status codes and responses
func (h *ErrorHandler) mapDomainError(err error) (int, ErrorResponse) {
	var discoveryErr *apperrors.DiscoveryError

	switch {
	case errors.Is(err, apperrors.ErrInvalidDateRange):
		return http.StatusBadRequest, ErrorResponse{
			Error: "Dates must be YYYY-MM-DD and start must not be after end",
			Code:  "INVALID_DATE_RANGE",
		}
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "BAD_REQUEST",
		}
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{
			Error: "Authentication required",
			Code:  "UNAUTHORIZED",
		}
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "Resource not found",
			Code:  "NOT_FOUND",
		}

	// GLPI failures
	case errors.As(err, &discoveryErr):
		entities := make([]string, 0, len(discoveryErr.Lookups))
		for _, p := range discoveryErr.Lookups {
			entities = append(entities, p.Entity)
		}
		return http.StatusBadGateway, ErrorResponse{
			Error:   "No strategy links tickets to groups on this GLPI instance",
			Code:    "NO_GROUP_STRATEGY",
			Details: map[string]interface{}{"searched": entities},
		}
	case errors.Is(err, apperrors.ErrNoGroupStrategy):
		return http.StatusBadGateway, ErrorResponse{
			Error: "No strategy links tickets to groups on this GLPI instance",
			Code:  "NO_GROUP_STRATEGY",
		}
	case errors.Is(err, apperrors.ErrSessionInit):
		return http.StatusBadGateway, ErrorResponse{
			Error: "Could not open a GLPI session",
			Code:  "GLPI_SESSION",
		}
	case errors.Is(err, apperrors.ErrCatalogMissing),
		errors.Is(err, apperrors.ErrTicketsMissing),
		errors.Is(err, apperrors.ErrInvalidPayload),
		errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway, ErrorResponse{
			Error: "GLPI request failed",
			Code:  "UPSTREAM_ERROR",
		}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{
			Error: "GLPI did not answer in time",
			Code:  "UPSTREAM_TIMEOUT",
		}

	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, ErrorResponse{
			Error: "Too many requests. Please try again later.",
			Code:  "RATE_LIMITED",
		}

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  "INTERNAL_ERROR",
		}
	}
}

// logError logs the error with appropriate context
func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error) {
	logAttrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
		"error", err.Error(),
	}

	ctx := r.Context()
	switch {
	case statusCode >= 500:
		h.logger.ErrorContext(ctx, "server error", logAttrs...)
	case statusCode >= 400:
		h.logger.WarnContext(ctx, "client error", logAttrs...)
	default:
		h.logger.InfoContext(ctx, "request error", logAttrs...)
	}
}

// writeErrorResponse writes a JSON error response
func (h *ErrorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	WriteJSON(w, statusCode, response)
}

// writeValidationErrorResponse writes a validation error response
func (h *ErrorHandler) writeValidationErrorResponse(w http.ResponseWriter, errs *apperrors.ValidationErrors) {
	WriteJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error:  "Validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: errs.Errors,
	})
}

// HandleError Helper function to handle errors inline in handlers
// Usage: if HandleError(w, r, err, h.errorHandler) { return }
func HandleError(w http.ResponseWriter, r *http.Request, err error, handler *ErrorHandler) bool {
	if err != nil {
		handler.Handle(w, r, err)
		return true
	}
	return false
}

// ErrorEvent maps err to the message and code pushed to a live page.
func (h *ErrorHandler) ErrorEvent(err error) (message, code string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message, appErr.Code
	}
	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		return "Validation failed", "VALIDATION_ERROR"
	}
	_, resp := h.mapDomainError(err)
	return resp.Error, resp.Code
}
