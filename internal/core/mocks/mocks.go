package mocks

import (
	"context"

	"github.com/lorrc/glpi-dashboard/internal/core/domain"
	"github.com/lorrc/glpi-dashboard/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

var (
	_ ports.TicketSource     = (*MockTicketSource)(nil)
	_ ports.CatalogSource    = (*MockCatalogSource)(nil)
	_ ports.ItemSource       = (*MockItemSource)(nil)
	_ ports.DashboardService = (*MockDashboardService)(nil)
	_ ports.ReportService    = (*MockReportService)(nil)
	_ ports.EventBroadcaster = (*MockEventBroadcaster)(nil)
)

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) FetchTickets(ctx context.Context, start, end string) ([]domain.Record, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

// MockCatalogSource is a mock implementation of ports.CatalogSource
type MockCatalogSource struct {
	mock.Mock
}

func NewMockCatalogSource() *MockCatalogSource {
	return &MockCatalogSource{}
}

func (m *MockCatalogSource) ListSearchOptions(ctx context.Context, itemtype string) (*domain.FieldCatalog, error) {
	args := m.Called(ctx, itemtype)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FieldCatalog), args.Error(1)
}

// MockItemSource is a mock implementation of ports.ItemSource
type MockItemSource struct {
	mock.Mock
}

func NewMockItemSource() *MockItemSource {
	return &MockItemSource{}
}

func (m *MockItemSource) GetItem(ctx context.Context, itemtype, id string) (domain.Record, error) {
	args := m.Called(ctx, itemtype, id)
	if args.Get(0) == nil {
		return domain.Record{}, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

func (m *MockItemSource) SearchItems(ctx context.Context, itemtype string, query domain.SearchQuery) ([]domain.Record, error) {
	args := m.Called(ctx, itemtype, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

// MockDashboardService is a mock implementation of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) Snapshot(ctx context.Context, start, end string) (*domain.Snapshot, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockDashboardService) DefaultRange() (string, string) {
	args := m.Called()
	return args.String(0), args.String(1)
}

func (m *MockDashboardService) Invalidate(start, end string) {
	m.Called(start, end)
}

func (m *MockDashboardService) InvalidateAll() {
	m.Called()
}

// MockReportService is a mock implementation of ports.ReportService
type MockReportService struct {
	mock.Mock
}

func NewMockReportService() *MockReportService {
	return &MockReportService{}
}

func (m *MockReportService) Build(ctx context.Context) (*domain.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
