package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/glpi-dashboard/internal/core/errors"
	"github.com/lorrc/glpi-dashboard/internal/core/ports"
)

// Strategy names, in discovery order.
const (
	StrategyDirect           = "direct"
	StrategyViaUser          = "via_user"
	StrategyViaGroupRelation = "via_group_relation"
)

// assignedType is the Ticket_User / Ticket_Tgroup type of an assignment.
const assignedType = "2"

// DefaultUserGroupField is the User field holding the user's main group.
const DefaultUserGroupField = "groups_id"

// groupBinding holds the field names a strategy committed to.
type groupBinding struct {
	ticketField string // field carrying the ticket id in the strategy entity
	groupField  string // field carrying the group id
	userField   string // field carrying the user id (via_user only)
}

// groupStrategy is one way of linking tickets to groups.
type groupStrategy struct {
	name    string
	entity  string
	match   func(catalog *domain.FieldCatalog) (groupBinding, bool)
	resolve func(ctx context.Context, r *GroupResolver, ticketID string, ticket domain.Record) (string, error)
}

var groupStrategies = []groupStrategy{
	{
		name:    StrategyDirect,
		entity:  "Ticket",
		match:   matchDirect,
		resolve: resolveDirect,
	},
	{
		name:    StrategyViaUser,
		entity:  "Ticket_User",
		match:   matchViaUser,
		resolve: resolveViaUser,
	},
	{
		name:    StrategyViaGroupRelation,
		entity:  "Ticket_Tgroup",
		match:   matchViaGroupRelation,
		resolve: resolveViaGroupRelation,
	},
}

func matchDirect(catalog *domain.FieldCatalog) (groupBinding, bool) {
	if !catalog.HasField("id") {
		return groupBinding{}, false
	}
	group, ok := catalog.FindField("groups_id", "group_tech_id", "group_id")
	if !ok {
		return groupBinding{}, false
	}
	return groupBinding{ticketField: "id", groupField: group}, true
}

func matchViaUser(catalog *domain.FieldCatalog) (groupBinding, bool) {
	relation := func(name, table string) func(domain.SearchOption) bool {
		return func(o domain.SearchOption) bool {
			return o.Name == name && o.Field == "id" && (o.Table == "" || o.Table == table)
		}
	}
	ticket, ok := catalog.FindOption(relation("Chamado", "glpi_tickets"))
	if !ok {
		return groupBinding{}, false
	}
	user, ok := catalog.FindOption(relation("Usuário", "glpi_users"))
	if !ok {
		return groupBinding{}, false
	}
	return groupBinding{ticketField: ticket.Field, userField: user.Field}, true
}

func matchViaGroupRelation(catalog *domain.FieldCatalog) (groupBinding, bool) {
	ticket, ok := catalog.FindField("tickets_id", "ticket_id")
	if !ok {
		return groupBinding{}, false
	}

	// An option whose label mentions a group and whose field is a foreign key
	// is accepted while scanning for the exact candidates.
	var group string
	for _, candidate := range []string{"groups_id", "group_id"} {
		opt, found := catalog.FindOption(func(o domain.SearchOption) bool {
			return o.Field == candidate || (o.NameContains("grupo") && strings.HasSuffix(o.Field, "_id"))
		})
		if found {
			group = opt.Field
			break
		}
	}
	if group == "" {
		return groupBinding{}, false
	}
	return groupBinding{ticketField: ticket, groupField: group}, true
}

func resolveDirect(_ context.Context, r *GroupResolver, _ string, ticket domain.Record) (string, error) {
	group := ticket.String(r.binding.groupField)
	if group == "" {
		return "", apperrors.ErrGroupNotFound
	}
	return group, nil
}

func resolveViaUser(ctx context.Context, r *GroupResolver, ticketID string, _ domain.Record) (string, error) {
	assignment, err := r.firstAssignment(ctx, ticketID)
	if err != nil {
		return "", err
	}
	userID := assignment.String(r.binding.userField)
	if userID == "" {
		return "", fmt.Errorf("%w: assignment has no user", apperrors.ErrAssignmentAbsent)
	}

	user, err := r.items.GetItem(ctx, "User", userID)
	if err != nil {
		return "", fmt.Errorf("read user %s: %w", userID, err)
	}
	group := user.String(r.userGroupField)
	if group == "" {
		return "", fmt.Errorf("%w: user %s has no main group", apperrors.ErrGroupNotFound, userID)
	}
	return group, nil
}

func resolveViaGroupRelation(ctx context.Context, r *GroupResolver, ticketID string, _ domain.Record) (string, error) {
	assignment, err := r.firstAssignment(ctx, ticketID)
	if err != nil {
		return "", err
	}
	group := assignment.String(r.binding.groupField)
	if group == "" {
		return "", apperrors.ErrGroupNotFound
	}
	return group, nil
}

// GroupResolver finds the group that owns each ticket. Discover commits to the
// first strategy the server supports; Resolve then reuses it for every ticket.
// A GroupResolver is meant for a single report run.
type GroupResolver struct {
	catalogs ports.CatalogSource
	items    ports.ItemSource
	logger   *slog.Logger

	strategy       *groupStrategy
	binding        groupBinding
	userGroupField string
	fetched        map[string]*domain.FieldCatalog
}

// NewGroupResolver creates a resolver with no strategy committed yet.
func NewGroupResolver(catalogs ports.CatalogSource, items ports.ItemSource, logger *slog.Logger) *GroupResolver {
	return &GroupResolver{
		catalogs:       catalogs,
		items:          items,
		logger:         logger.With("component", "group_resolver"),
		userGroupField: DefaultUserGroupField,
		fetched:        make(map[string]*domain.FieldCatalog),
	}
}

// Discover evaluates the strategies in order, fetching each entity's catalog
// only when its turn comes, and commits to the first that matches. When none
// matches the returned *apperrors.DiscoveryError carries every catalog seen.
func (r *GroupResolver) Discover(ctx context.Context) (string, error) {
	var lookups []apperrors.CatalogLookup

	for i := range groupStrategies {
		strategy := &groupStrategies[i]

		catalog, err := r.catalog(ctx, strategy.entity)
		if err != nil {
			r.logger.WarnContext(ctx, "field catalog unavailable, trying next strategy",
				"strategy", strategy.name,
				"entity", strategy.entity,
				"error", err,
			)
			lookup := apperrors.CatalogLookup{Entity: strategy.entity}
			if catalog != nil {
				lookup.Raw = catalog.Raw
			}
			lookups = append(lookups, lookup)
			continue
		}
		lookups = append(lookups, apperrors.CatalogLookup{Entity: strategy.entity, Raw: catalog.Raw})

		binding, ok := strategy.match(catalog)
		if !ok {
			r.logger.InfoContext(ctx, "strategy not supported", "strategy", strategy.name, "entity", strategy.entity)
			continue
		}

		r.strategy = strategy
		r.binding = binding
		r.logger.InfoContext(ctx, "group strategy committed",
			"strategy", strategy.name,
			"entity", strategy.entity,
			"ticket_field", binding.ticketField,
			"group_field", binding.groupField,
			"user_field", binding.userField,
		)
		return strategy.name, nil
	}

	return "", &apperrors.DiscoveryError{Lookups: lookups}
}

// Strategy returns the committed strategy name, or "" before Discover.
func (r *GroupResolver) Strategy() string {
	if r.strategy == nil {
		return ""
	}
	return r.strategy.name
}

// SetUserGroupField overrides the User field read by the via_user strategy.
func (r *GroupResolver) SetUserGroupField(field string) {
	if field != "" {
		r.userGroupField = field
	}
}

// Resolve returns the group id of ticket, or domain.NotAvailable when no
// group could be found. Lookup failures are logged, never returned.
func (r *GroupResolver) Resolve(ctx context.Context, ticket domain.Record) string {
	ticketID, ok := ticket.ID()
	if !ok || r.strategy == nil {
		return domain.NotAvailable
	}

	group, err := r.strategy.resolve(ctx, r, ticketID, ticket)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, apperrors.ErrGroupNotFound) || errors.Is(err, apperrors.ErrAssignmentAbsent) {
			level = slog.LevelInfo
		}
		r.logger.Log(ctx, level, "no group for ticket",
			"ticket_id", ticketID,
			"strategy", r.strategy.name,
			"error", err,
		)
		return domain.NotAvailable
	}
	return group
}

// GroupName returns the name of group id, falling back to the id itself.
func (r *GroupResolver) GroupName(ctx context.Context, id string) string {
	if id == "" || id == domain.NotAvailable {
		return domain.NotAvailable
	}
	group, err := r.items.GetItem(ctx, "Group", id)
	if err != nil {
		r.logger.WarnContext(ctx, "group name lookup failed", "group_id", id, "error", err)
		return id
	}
	name := group.String("name")
	if name == "" {
		return id
	}
	return name
}

// catalog fetches and memoises an entity's field catalog.
func (r *GroupResolver) catalog(ctx context.Context, entity string) (*domain.FieldCatalog, error) {
	if c, ok := r.fetched[entity]; ok {
		return c, nil
	}
	c, err := r.catalogs.ListSearchOptions(ctx, entity)
	if err != nil {
		return c, err
	}
	r.fetched[entity] = c
	return c, nil
}

// firstAssignment returns the first assigned relation row of ticketID in the
// committed strategy's entity.
func (r *GroupResolver) firstAssignment(ctx context.Context, ticketID string) (domain.Record, error) {
	rows, err := r.items.SearchItems(ctx, r.strategy.entity, domain.SearchQuery{
		Criteria: []domain.SearchCriterion{
			{Field: r.binding.ticketField, SearchType: "equals", Value: ticketID},
			{Field: "type", SearchType: "equals", Value: assignedType},
		},
		Range: "0-1",
	})
	if err != nil {
		return domain.Record{}, fmt.Errorf("search %s: %w", r.strategy.entity, err)
	}
	if len(rows) == 0 {
		return domain.Record{}, apperrors.ErrAssignmentAbsent
	}
	return rows[0], nil
}
