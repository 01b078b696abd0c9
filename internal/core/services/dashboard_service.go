package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	"github.com/lorrc/glpi-dashboard/internal/core/ports"
)

// DashboardConfig holds the dashboard defaults.
type DashboardConfig struct {
	// Fields left empty default to the keys of FetchMode.
	Fields       FieldKeys
	FetchMode    string
	DefaultStart string
	DefaultEnd   string
	CacheSize    int
	// Now anchors the trend when a range has no end date. Defaults to time.Now.
	Now func() time.Time
}

// DashboardService builds and memoises dashboard snapshots.
type DashboardService struct {
	tickets ports.TicketSource
	cache   *SummaryCache
	cfg     DashboardConfig
	logger  *slog.Logger
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates a new dashboard service
func NewDashboardService(tickets ports.TicketSource, cfg DashboardConfig, logger *slog.Logger) (*DashboardService, error) {
	cfg.Fields = cfg.Fields.withDefaults(cfg.FetchMode)
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	cache, err := NewSummaryCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create summary cache: %w", err)
	}

	return &DashboardService{
		tickets: tickets,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.With("component", "dashboard_service"),
	}, nil
}

// Fields returns the keys the service aggregates on.
func (s *DashboardService) Fields() FieldKeys {
	return s.cfg.Fields
}

// CachedRanges returns how many date ranges are memoised.
func (s *DashboardService) CachedRanges() int {
	return s.cache.Len()
}

// DefaultRange returns the configured default dates.
func (s *DashboardService) DefaultRange() (string, string) {
	return s.cfg.DefaultStart, s.cfg.DefaultEnd
}

// Snapshot returns the per-level summary and trend of [start, end]. Empty
// bounds fall back to the defaults. Results are cached per range; failures
// are not.
func (s *DashboardService) Snapshot(ctx context.Context, start, end string) (*domain.Snapshot, error) {
	if start == "" {
		start = s.cfg.DefaultStart
	}
	if end == "" {
		end = s.cfg.DefaultEnd
	}
	if err := domain.ValidateDateRange(start, end); err != nil {
		return nil, err
	}

	if snap, ok := s.cache.Get(start, end); ok {
		s.logger.DebugContext(ctx, "summary cache hit", "start", start, "end", end)
		return snap, nil
	}

	tickets, err := s.tickets.FetchTickets(ctx, start, end)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		Start:   start,
		End:     end,
		Summary: Aggregate(tickets, s.cfg.Fields),
		Trend:   BuildTrend(tickets, s.trendAnchor(end), TrendDays),
	}
	s.cache.Put(snap)

	s.logger.InfoContext(ctx, "summary computed",
		"start", start,
		"end", end,
		"tickets", len(tickets),
	)
	return snap, nil
}

// Invalidate drops the cached snapshot of [start, end].
func (s *DashboardService) Invalidate(start, end string) {
	if start == "" {
		start = s.cfg.DefaultStart
	}
	if end == "" {
		end = s.cfg.DefaultEnd
	}
	s.cache.Remove(start, end)
}

// InvalidateAll empties the summary cache.
func (s *DashboardService) InvalidateAll() {
	s.cache.Purge()
	s.logger.Info("summary cache purged")
}

func (s *DashboardService) trendAnchor(end string) time.Time {
	if end != "" {
		if t, err := time.Parse(domain.DateLayout, end); err == nil {
			return t
		}
	}
	return s.cfg.Now()
}
