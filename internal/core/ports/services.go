package ports

import (
	"context"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
)

// DashboardService defines the port for building dashboard snapshots.
type DashboardService interface {
	Snapshot(ctx context.Context, start, end string) (*domain.Snapshot, error)
	DefaultRange() (start, end string)
	Invalidate(start, end string)
	InvalidateAll()
}

// ReportService defines the port for the ticket to group report.
type ReportService interface {
	Build(ctx context.Context) (*domain.Report, error)
}

// EventBroadcaster pushes events to every live dashboard page.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
