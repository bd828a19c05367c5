package mocks

import (
	"context"

	"github.com/lorrc/kanban-board/internal/core/domain"
	"github.com/lorrc/kanban-board/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) FetchBoard(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

// MockPreferenceStore is a mock implementation of ports.PreferenceStore
type MockPreferenceStore struct {
	mock.Mock
}

func NewMockPreferenceStore() *MockPreferenceStore {
	return &MockPreferenceStore{}
}

func (m *MockPreferenceStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	args := m.Called(ctx, scope, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockPreferenceStore) SetAll(ctx context.Context, scope string, values map[string]string) error {
	args := m.Called(ctx, scope, values)
	return args.Error(0)
}

func (m *MockPreferenceStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
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

// MockBoardService is a mock implementation of ports.BoardService
type MockBoardService struct {
	mock.Mock
}

var _ ports.BoardService = (*MockBoardService)(nil)

func NewMockBoardService() *MockBoardService {
	return &MockBoardService{}
}

func (m *MockBoardService) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockBoardService) Snapshot() *domain.Snapshot {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Snapshot)
}

func (m *MockBoardService) GetBoard(ctx context.Context, params ports.GetBoardParams) (*domain.Board, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Board), args.Error(1)
}

func (m *MockBoardService) GetPreferences(ctx context.Context, scope string) (domain.Preferences, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(domain.Preferences), args.Error(1)
}

func (m *MockBoardService) UpdatePreferences(ctx context.Context, params ports.UpdatePreferencesParams) (domain.Preferences, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.Preferences), args.Error(1)
}
