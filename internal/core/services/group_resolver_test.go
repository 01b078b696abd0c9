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
	"github.com/tidwall/gjson"
)

func catalogOf(entity, raw string) *domain.FieldCatalog {
	return domain.ParseFieldCatalog(entity, gjson.Parse(raw))
}

const (
	ticketCatalogNoGroup = `{"common":"Características","1":{"name":"Título","table":"glpi_tickets","field":"name"},"2":{"name":"ID","table":"glpi_tickets","field":"id"},"12":{"name":"Status","table":"glpi_tickets","field":"status"}}`
	ticketCatalogGroup   = `{"2":{"name":"ID","table":"glpi_tickets","field":"id"},"71":{"name":"Grupo","table":"glpi_groups","field":"group_tech_id"}}`
	ticketUserCatalog    = `{"3":{"name":"Chamado","table":"glpi_tickets","field":"id"},"4":{"name":"Usuário","table":"glpi_users","field":"id"}}`
	ticketTgroupCatalog  = `{"3":{"name":"Chamado","table":"glpi_tickets","field":"tickets_id"},"4":{"name":"Grupo atribuído","table":"glpi_groups","field":"groups_id"}}`
)

func TestGroupResolver_Discover(t *testing.T) {
	ctx := context.Background()

	t.Run("direct strategy stops at Ticket", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		items := mocks.NewMockItemSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogGroup), nil)

		resolver := services.NewGroupResolver(catalogs, items, discardLogger())
		name, err := resolver.Discover(ctx)

		require.NoError(t, err)
		assert.Equal(t, services.StrategyDirect, name)
		assert.Equal(t, services.StrategyDirect, resolver.Strategy())
		catalogs.AssertNumberOfCalls(t, "ListSearchOptions", 1)
	})

	t.Run("falls through to via_user", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogNoGroup), nil)
		catalogs.On("ListSearchOptions", ctx, "Ticket_User").Return(catalogOf("Ticket_User", ticketUserCatalog), nil)

		resolver := services.NewGroupResolver(catalogs, mocks.NewMockItemSource(), discardLogger())
		name, err := resolver.Discover(ctx)

		require.NoError(t, err)
		assert.Equal(t, services.StrategyViaUser, name)
		catalogs.AssertNotCalled(t, "ListSearchOptions", ctx, "Ticket_Tgroup")
	})

	t.Run("unavailable catalogs are skipped", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(nil, apperrors.ErrUpstream)
		catalogs.On("ListSearchOptions", ctx, "Ticket_User").Return(&domain.FieldCatalog{Entity: "Ticket_User", Raw: `[]`}, apperrors.ErrCatalogMissing)
		catalogs.On("ListSearchOptions", ctx, "Ticket_Tgroup").Return(catalogOf("Ticket_Tgroup", ticketTgroupCatalog), nil)

		resolver := services.NewGroupResolver(catalogs, mocks.NewMockItemSource(), discardLogger())
		name, err := resolver.Discover(ctx)

		require.NoError(t, err)
		assert.Equal(t, services.StrategyViaGroupRelation, name)
	})

	t.Run("no strategy reports every catalog", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogNoGroup), nil)
		catalogs.On("ListSearchOptions", ctx, "Ticket_User").Return(catalogOf("Ticket_User", `{"1":{"name":"Outro","field":"id"}}`), nil)
		catalogs.On("ListSearchOptions", ctx, "Ticket_Tgroup").Return(nil, apperrors.ErrUpstream)

		resolver := services.NewGroupResolver(catalogs, mocks.NewMockItemSource(), discardLogger())
		_, err := resolver.Discover(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNoGroupStrategy)
		var discovery *apperrors.DiscoveryError
		require.ErrorAs(t, err, &discovery)
		require.Len(t, discovery.Lookups, 3)

		msg := err.Error()
		assert.Contains(t, msg, "--- listSearchOptions/Ticket ---")
		assert.Contains(t, msg, "--- listSearchOptions/Ticket_User ---")
		assert.Contains(t, msg, "--- listSearchOptions/Ticket_Tgroup ---\nnull")
		assert.Contains(t, msg, `"field": "status"`)
		assert.Empty(t, resolver.Strategy())
	})

	t.Run("group label match in relation catalog", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(nil, apperrors.ErrUpstream)
		catalogs.On("ListSearchOptions", ctx, "Ticket_User").Return(nil, apperrors.ErrUpstream)
		catalogs.On("ListSearchOptions", ctx, "Ticket_Tgroup").Return(catalogOf("Ticket_Tgroup",
			`{"1":{"name":"Ticket","field":"ticket_id"},"2":{"name":"Grupo técnico","field":"techgroup_id"}}`), nil)

		items := mocks.NewMockItemSource()
		items.On("SearchItems", ctx, "Ticket_Tgroup", mock.Anything).Return([]domain.Record{
			domain.ParseRecord(`{"techgroup_id":12}`),
		}, nil)

		resolver := services.NewGroupResolver(catalogs, items, discardLogger())
		_, err := resolver.Discover(ctx)
		require.NoError(t, err)

		assert.Equal(t, "12", resolver.Resolve(ctx, domain.ParseRecord(`{"id":5}`)))
	})
}

func TestGroupResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("direct reads the ticket", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogGroup), nil)
		resolver := services.NewGroupResolver(catalogs, mocks.NewMockItemSource(), discardLogger())
		_, err := resolver.Discover(ctx)
		require.NoError(t, err)

		assert.Equal(t, "8", resolver.Resolve(ctx, domain.ParseRecord(`{"id":1,"group_tech_id":8}`)))
		assert.Equal(t, domain.NotAvailable, resolver.Resolve(ctx, domain.ParseRecord(`{"id":2}`)))
	})

	t.Run("via_user follows assignment then user", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogNoGroup), nil)
		catalogs.On("ListSearchOptions", ctx, "Ticket_User").Return(catalogOf("Ticket_User", ticketUserCatalog), nil)

		items := mocks.NewMockItemSource()
		items.On("SearchItems", ctx, "Ticket_User", domain.SearchQuery{
			Criteria: []domain.SearchCriterion{
				{Field: "id", SearchType: "equals", Value: "10"},
				{Field: "type", SearchType: "equals", Value: "2"},
			},
			Range: "0-1",
		}).Return([]domain.Record{domain.ParseRecord(`{"id":42}`)}, nil)
		items.On("GetItem", ctx, "User", "42").Return(domain.ParseRecord(`{"id":42,"groups_id":7}`), nil)

		resolver := services.NewGroupResolver(catalogs, items, discardLogger())
		_, err := resolver.Discover(ctx)
		require.NoError(t, err)

		assert.Equal(t, "7", resolver.Resolve(ctx, domain.ParseRecord(`{"id":10}`)))
		items.AssertExpectations(t)
	})

	t.Run("failures degrade to N/A", func(t *testing.T) {
		catalogs := mocks.NewMockCatalogSource()
		catalogs.On("ListSearchOptions", ctx, "Ticket").Return(catalogOf("Ticket", ticketCatalogNoGroup), nil)
		catalogs.On("ListSearchOptions", ctx, "Ticket_User").Return(catalogOf("Ticket_User", ticketUserCatalog), nil)

		items := mocks.NewMockItemSource()
		items.On("SearchItems", ctx, "Ticket_User", mock.MatchedBy(func(q domain.SearchQuery) bool {
			return q.Criteria[0].Value == "1"
		})).Return([]domain.Record{}, nil)
		items.On("SearchItems", ctx, "Ticket_User", mock.MatchedBy(func(q domain.SearchQuery) bool {
			return q.Criteria[0].Value == "2"
		})).Return(nil, apperrors.ErrUpstream)
		items.On("SearchItems", ctx, "Ticket_User", mock.MatchedBy(func(q domain.SearchQuery) bool {
			return q.Criteria[0].Value == "3"
		})).Return([]domain.Record{domain.ParseRecord(`{"id":9}`)}, nil)
		items.On("GetItem", ctx, "User", "9").Return(domain.ParseRecord(`{"id":9,"groups_id":0}`), nil)

		resolver := services.NewGroupResolver(catalogs, items, discardLogger())
		_, err := resolver.Discover(ctx)
		require.NoError(t, err)

		assert.Equal(t, domain.NotAvailable, resolver.Resolve(ctx, domain.ParseRecord(`{"id":1}`)), "no assignment")
		assert.Equal(t, domain.NotAvailable, resolver.Resolve(ctx, domain.ParseRecord(`{"id":2}`)), "search failed")
		assert.Equal(t, "0", resolver.Resolve(ctx, domain.ParseRecord(`{"id":3}`)), "group id is passed through")
		assert.Equal(t, domain.NotAvailable, resolver.Resolve(ctx, domain.ParseRecord(`{"name":"no id"}`)))
	})

	t.Run("before discovery everything is N/A", func(t *testing.T) {
		resolver := services.NewGroupResolver(mocks.NewMockCatalogSource(), mocks.NewMockItemSource(), discardLogger())
		assert.Equal(t, domain.NotAvailable, resolver.Resolve(ctx, domain.ParseRecord(`{"id":1}`)))
	})
}

func TestGroupResolver_GroupName(t *testing.T) {
	ctx := context.Background()
	items := mocks.NewMockItemSource()
	items.On("GetItem", ctx, "Group", "5").Return(domain.ParseRecord(`{"id":5,"name":"Infraestrutura"}`), nil)
	items.On("GetItem", ctx, "Group", "6").Return(nil, apperrors.ErrUpstream)
	items.On("GetItem", ctx, "Group", "7").Return(domain.ParseRecord(`{"id":7}`), nil)

	resolver := services.NewGroupResolver(mocks.NewMockCatalogSource(), items, discardLogger())

	assert.Equal(t, "Infraestrutura", resolver.GroupName(ctx, "5"))
	assert.Equal(t, "6", resolver.GroupName(ctx, "6"))
	assert.Equal(t, "7", resolver.GroupName(ctx, "7"))
	assert.Equal(t, domain.NotAvailable, resolver.GroupName(ctx, domain.NotAvailable))
}
