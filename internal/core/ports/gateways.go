package ports

import (
	"context"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
)

// TicketSource fetches the tickets of a date range. Empty bounds fall back to
// the source's configured defaults.
type TicketSource interface {
	FetchTickets(ctx context.Context, start, end string) ([]domain.Record, error)
}

// CatalogSource reads GLPI field catalogs.
type CatalogSource interface {
	ListSearchOptions(ctx context.Context, itemtype string) (*domain.FieldCatalog, error)
}

// ItemSource reads single items and runs searches against GLPI.
type ItemSource interface {
	GetItem(ctx context.Context, itemtype, id string) (domain.Record, error)
	SearchItems(ctx context.Context, itemtype string, query domain.SearchQuery) ([]domain.Record, error)
}
