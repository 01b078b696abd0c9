package services_test

import (
	"context"
	"testing"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
	"github.com/lorrc/glpi-dashboard/internal/core/mocks"
	"github.com/lorrc/glpi-dashboard/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const userCatalog = `{"13":{"name":"Grupo","table":"glpi_groups","field":"groups_id"}}`

var reportQuery = domain.SearchQuery{Fields: []string{"id", "name", "status"}}

func TestReportService_Build(t *testing.T) {
	ctx := context.Background()

	t.Run("direct strategy end to end", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		items := mocks.NewMockItemSource()

		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogGroup), nil).Once()
		catalogs.On("ListSearchOptions", ctx, "User").Return(catalogOf("User", userCatalog), nil)
		catalogs.On("ListSearchOptions", ctx, "Group").Return(nil, apperrors.ErrUpstream)

		items.On("SearchItems", ctx, "Ticket", reportQuery).Return([]domain.Record{
			domain.ParseRecord(`{"id":1,"name":"Impressora","status":2,"group_tech_id":5}`),
			domain.ParseRecord(`{"name":"sem id"}`),
			domain.ParseRecord(`{"id":2,"name":"Rede","status":1}`),
			domain.ParseRecord(`{"id":3,"name":"VPN","status":5,"group_tech_id":6}`),
		}, nil)
		items.On("GetItem", ctx, "Group", "5").Return(domain.ParseRecord(`{"name":"Suporte"}`), nil)
		items.On("GetItem", ctx, "Group", "6").Return(nil, apperrors.ErrUpstream)

		svc := services.NewReportService(catalogs, items, discardLogger())
		report, err := svc.Build(ctx)
		require.NoError(t, err)

		assert.Equal(t, services.StrategyDirect, report.Strategy)
		assert.Equal(t, 3, report.Processed)
		require.Len(t, report.Rows, 3)
		assert.Equal(t, domain.ReportRow{TicketID: "1", Title: "Impressora", Status: "2", GroupID: "5", GroupName: "Suporte"}, report.Rows[0])
		assert.Equal(t, domain.ReportRow{TicketID: "2", Title: "Rede", Status: "1", GroupID: "N/A", GroupName: "N/A"}, report.Rows[1])
		assert.Equal(t, "6", report.Rows[2].GroupName)
		assert.Equal(t, 2, report.WithGroup())
		assert.Equal(t, 1, report.WithoutGroup())

		// The Ticket catalog is fetched once and shared with discovery.
		catalogs.AssertNumberOfCalls(t, "ListSearchOptions", 3)
	})

	t.Run("ticket catalog is mandatory", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(nil, apperrors.ErrUpstream)

		svc := services.NewReportService(catalogs, mocks.NewMockItemSource(), discardLogger())
		_, err := svc.Build(ctx)

		assert.ErrorIs(t, err, apperrors.ErrCatalogMissing)
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})

	t.Run("discovery failure aborts", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogNoGroup), nil)
		catalogs.On("ListSearchOptions", ctx, "Ticket_User").Return(nil, apperrors.ErrUpstream)
		catalogs.On("ListSearchOptions", ctx, "Ticket_Tgroup").Return(nil, apperrors.ErrUpstream)

		svc := services.NewReportService(catalogs, mocks.NewMockItemSource(), discardLogger())
		_, err := svc.Build(ctx)

		assert.ErrorIs(t, err, apperrors.ErrNoGroupStrategy)
		catalogs.AssertNotCalled(t, "ListSearchOptions", ctx, "User")
	})

	t.Run("user catalog is mandatory", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogGroup), nil)
		catalogs.On("ListSearchOptions", ctx, "User").Return(nil, apperrors.ErrUpstream)

		svc := services.NewReportService(catalogs, mocks.NewMockItemSource(), discardLogger())
		_, err := svc.Build(ctx)

		assert.ErrorIs(t, err, apperrors.ErrCatalogMissing)
	})

	t.Run("ticket search failure aborts", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		items := mocks.NewMockItemSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogGroup), nil)
		catalogs.On("ListSearchOptions", ctx, mock.Anything).Return(catalogOf("Any", `{}`), nil)
		items.On("SearchItems", ctx, "Ticket", reportQuery).Return(nil, apperrors.ErrInvalidPayload)

		svc := services.NewReportService(catalogs, items, discardLogger())
		_, err := svc.Build(ctx)

		assert.ErrorIs(t, err, apperrors.ErrTicketsMissing)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPayload)
	})

	t.Run("via_user reads the user's main group", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		items := mocks.NewMockItemSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogNoGroup), nil)
		catalogs.On("ListSearchOptions", ctx, "Ticket_User").Return(catalogOf("Ticket_User", ticketUserCatalog), nil)
		catalogs.On("ListSearchOptions", ctx, "User").Return(catalogOf("User", userCatalog), nil)
		catalogs.On("ListSearchOptions", ctx, "Group").Return(catalogOf("Group", `{"1":{"name":"Nome","field":"name"}}`), nil)

		items.On("SearchItems", ctx, "Ticket", reportQuery).Return([]domain.Record{
			domain.ParseRecord(`{"id":"11","name":"Senha","status":"1"}`),
		}, nil)
		items.On("SearchItems", ctx, "Ticket_User", mock.Anything).Return([]domain.Record{domain.ParseRecord(`{"id":4}`)}, nil)
		items.On("GetItem", ctx, "User", "4").Return(domain.ParseRecord(`{"groups_id":3}`), nil)
		items.On("GetItem", ctx, "Group", "3").Return(domain.ParseRecord(`{"name":"Service Desk"}`), nil)

		svc := services.NewReportService(catalogs, items, discardLogger())
		report, err := svc.Build(ctx)
		require.NoError(t, err)

		assert.Equal(t, services.StrategyViaUser, report.Strategy)
		require.Len(t, report.Rows, 1)
		assert.Equal(t, "Service Desk", report.Rows[0].GroupName)
		assert.Equal(t, 0, report.WithoutGroup())
	})
}
