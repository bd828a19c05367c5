package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/kanban-board/internal/adapters/primary/terminal"
	"github.com/lorrc/kanban-board/internal/core/domain"
	apperrors "github.com/lorrc/kanban-board/internal/core/errors"
	"github.com/lorrc/kanban-board/internal/core/mocks"
	"github.com/lorrc/kanban-board/internal/core/ports"
)

func TestShowBoard_FetchFailureRendersEmptyBoard(t *testing.T) {
	ctx := context.Background()
	svc := mocks.NewMockBoardService()
	svc.On("Refresh", ctx).Return(nil, apperrors.ErrUpstreamUnavailable)
	svc.On("GetBoard", ctx, ports.GetBoardParams{Scope: ports.DefaultScope}).
		Return(&domain.Board{Grouping: domain.GroupByStatus, SortOption: domain.SortByPriority}, nil)

	var out, logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	err := showBoard(ctx, svc, terminal.NewRenderer(&out, 0), &out, logger)

	require.NoError(t, err)
	assert.Equal(t, "No tickets.\n", out.String())
	assert.Contains(t, logs.String(), "board fetch failed")
	svc.AssertExpectations(t)
}

func TestShowBoard_RendersFetchedBoard(t *testing.T) {
	ctx := context.Background()
	svc := mocks.NewMockBoardService()
	svc.On("Refresh", ctx).Return(&domain.Snapshot{Version: 1}, nil)
	svc.On("GetBoard", ctx, mock.Anything).Return(&domain.Board{
		Version:  1,
		Grouping: domain.GroupByStatus,
		Groups: domain.OrderedGroups{
			Mode:   domain.GroupByStatus,
			Groups: []domain.Group{{Key: "Todo", Tickets: []domain.Ticket{{ID: "CAM-1", Title: "Fix login", Status: domain.StatusTodo}}}},
		},
	}, nil)

	var out, logs bytes.Buffer
	err := showBoard(ctx, svc, terminal.NewRenderer(&out, 0), &out, slog.New(slog.NewJSONHandler(&logs, nil)))

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Todo")
	assert.Contains(t, out.String(), "CAM-1")
	assert.Empty(t, logs.String())
}

func TestShowBoard_PreferenceStoreFailure(t *testing.T) {
	ctx := context.Background()
	svc := mocks.NewMockBoardService()
	svc.On("Refresh", ctx).Return(&domain.Snapshot{Version: 1}, nil)
	svc.On("GetBoard", ctx, mock.Anything).Return(nil, apperrors.ErrPreferenceStore)

	var out bytes.Buffer
	err := showBoard(ctx, svc, terminal.NewRenderer(&out, 0), &out, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

	assert.ErrorIs(t, err, apperrors.ErrPreferenceStore)
	assert.Empty(t, out.String())
}
