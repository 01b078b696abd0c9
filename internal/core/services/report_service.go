package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
	"github.com/lorrc/glpi-dashboard/internal/core/ports"
)

// reportFields are the ticket columns requested for the report.
var reportFields = []string{"id", "name", "status"}

// ReportService builds the ticket to group report.
type ReportService struct {
	catalogs ports.CatalogSource
	items    ports.ItemSource
	logger   *slog.Logger
}

var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service
func NewReportService(catalogs ports.CatalogSource, items ports.ItemSource, logger *slog.Logger) *ReportService {
	return &ReportService{
		catalogs: catalogs,
		items:    items,
		logger:   logger.With("component", "report_service"),
	}
}

// Build resolves the owning group of every ticket. Each call discovers the
// group strategy afresh so concurrent runs do not share state.
func (s *ReportService) Build(ctx context.Context) (*domain.Report, error) {
	// 1. Ticket catalog
	s.logger.InfoContext(ctx, "loading ticket field catalog")
	ticketCatalog, err := s.catalogs.ListSearchOptions(ctx, "Ticket")
	if err != nil {
		return nil, catalogError("Ticket", err)
	}
	s.logger.InfoContext(ctx, "ticket fields",
		"title", ticketCatalog.DisplayName("name", "Título"),
		"status", ticketCatalog.DisplayName("status", "Status"),
	)

	// 2. Group strategy
	resolver := NewGroupResolver(s.catalogs, s.items, s.logger)
	resolver.fetched["Ticket"] = ticketCatalog
	strategy, err := resolver.Discover(ctx)
	if err != nil {
		return nil, err
	}

	// 3. User catalog
	s.logger.InfoContext(ctx, "loading user field catalog")
	userCatalog, err := s.catalogs.ListSearchOptions(ctx, "User")
	if err != nil {
		return nil, catalogError("User", err)
	}
	if field, ok := userCatalog.FindField(DefaultUserGroupField); ok {
		resolver.SetUserGroupField(field)
	}

	// 4. Group catalog, only used for labels
	s.logger.InfoContext(ctx, "loading group field catalog")
	groupCatalog, err := s.catalogs.ListSearchOptions(ctx, "Group")
	if err != nil {
		s.logger.WarnContext(ctx, "group field catalog unavailable, continuing", "error", err)
	} else {
		s.logger.InfoContext(ctx, "group fields", "name", groupCatalog.DisplayName("name", "name"))
	}

	// 5. Tickets
	s.logger.InfoContext(ctx, "loading tickets")
	tickets, err := s.items.SearchItems(ctx, "Ticket", domain.SearchQuery{Fields: reportFields})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrTicketsMissing, err)
	}
	s.logger.InfoContext(ctx, "tickets found", "count", len(tickets))

	// 6. Per ticket resolution
	report := &domain.Report{Strategy: strategy, Rows: make([]domain.ReportRow, 0, len(tickets))}
	for _, ticket := range tickets {
		id, ok := ticket.ID()
		if !ok {
			s.logger.WarnContext(ctx, "ticket without id skipped", "raw", ticket.Raw())
			continue
		}
		report.Processed++

		groupID := resolver.Resolve(ctx, ticket)
		groupName := domain.NotAvailable
		if groupID != domain.NotAvailable {
			groupName = resolver.GroupName(ctx, groupID)
		}

		s.logger.InfoContext(ctx, "ticket processed",
			"ticket_id", id,
			"group_id", groupID,
			"group_name", groupName,
		)
		report.Rows = append(report.Rows, domain.ReportRow{
			TicketID:  id,
			Title:     ticket.String("name"),
			Status:    ticket.String("status"),
			GroupID:   groupID,
			GroupName: groupName,
		})
	}

	return report, nil
}

func catalogError(entity string, err error) error {
	if errors.Is(err, apperrors.ErrCatalogMissing) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrCatalogMissing, entity, err)
}
