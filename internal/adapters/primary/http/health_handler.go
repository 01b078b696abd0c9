package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	sessionOpen   = "open"
	sessionClosed = "closed"
)

// GLPIStatus exposes the state of the dashboard's GLPI connection.
type GLPIStatus interface {
	Ping(ctx context.Context) error
	SessionOpen() bool
	FetchMode() string
}

// CacheStats reports how many date ranges the summary cache holds.
type CacheStats interface {
	CachedRanges() int
}

// PageCounter reports how many dashboard pages hold a live channel.
type PageCounter interface {
	GetClientCount() int
}

// HealthHandler serves the liveness, readiness and status endpoints.
type HealthHandler struct {
	glpi      GLPIStatus
	cache     CacheStats
	pages     PageCounter
	version   string
	startTime time.Time
	timeout   time.Duration
}

// NewHealthHandler creates a health handler. cache and pages may be nil.
func NewHealthHandler(glpi GLPIStatus, cache CacheStats, pages PageCounter, version string) *HealthHandler {
	return &HealthHandler{
		glpi:      glpi,
		cache:     cache,
		pages:     pages,
		version:   version,
		startTime: time.Now(),
		timeout:   5 * time.Second,
	}
}

// GLPIHealth describes the GLPI session as seen by the dashboard.
type GLPIHealth struct {
	Session   string `json:"session"`
	FetchMode string `json:"fetch_mode"`
	Reachable bool   `json:"reachable"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthReport is the body of /health and /health/ready.
type HealthReport struct {
	Status       string     `json:"status"`
	Version      string     `json:"version,omitempty"`
	Uptime       string     `json:"uptime,omitempty"`
	GLPI         GLPIHealth `json:"glpi"`
	CachedRanges int        `json:"cached_ranges"`
	LivePages    int        `json:"live_pages"`
}

// Ready reports whether the dashboard can serve fresh summaries.
func (r HealthReport) Ready() bool {
	return r.GLPI.Session == sessionOpen && r.GLPI.Reachable
}

// HandleLiveness answers as long as the process serves requests.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness answers 503 until the GLPI session is open and accepted.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	report := h.inspect(r.Context())

	status := http.StatusOK
	if !report.Ready() {
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, report)
}

// HandleHealth always answers 200; the body says whether the dashboard is
// degraded.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.inspect(r.Context()))
}

func (h *HealthHandler) inspect(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		GLPI:    h.checkGLPI(ctx),
	}
	if h.cache != nil {
		report.CachedRanges = h.cache.CachedRanges()
	}
	if h.pages != nil {
		report.LivePages = h.pages.GetClientCount()
	}
	if !report.Ready() {
		report.Status = "degraded"
	}
	return report
}

// checkGLPI pings GLPI only while a session is open; a closed session
// cannot be accepted.
func (h *HealthHandler) checkGLPI(ctx context.Context) GLPIHealth {
	if h.glpi == nil {
		return GLPIHealth{Session: sessionClosed, Error: "GLPI not configured"}
	}

	health := GLPIHealth{Session: sessionClosed, FetchMode: h.glpi.FetchMode()}
	if !h.glpi.SessionOpen() {
		health.Error = "no GLPI session"
		return health
	}
	health.Session = sessionOpen

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := h.glpi.Ping(ctx)
	health.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		health.Error = err.Error()
		return health
	}
	health.Reachable = true
	return health
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}
