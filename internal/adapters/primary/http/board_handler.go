package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/lorrc/kanban-board/internal/adapters/primary/http/middleware"
	"github.com/lorrc/kanban-board/internal/adapters/primary/validation"
	"github.com/lorrc/kanban-board/internal/core/domain"
	"github.com/lorrc/kanban-board/internal/core/ports"
)

// BoardHandler serves the grouped board and the viewer's display preferences.
type BoardHandler struct {
	boardService ports.BoardService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(
	boardService ports.BoardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "board"),
	}
}

// RegisterRoutes sets up the board endpoints. refresh wraps the upstream
// refresh route, typically with a stricter rate limiter.
func (h *BoardHandler) RegisterRoutes(r chi.Router, refresh ...func(http.Handler) http.Handler) {
	r.Get("/", h.HandleGetBoard)
	r.Get("/preferences", h.HandleGetPreferences)
	r.Put("/preferences", h.HandleUpdatePreferences)
	r.With(refresh...).Post("/refresh", h.HandleRefresh)
}

// --- Request/Response DTOs ---

// BoardResponse is the rendered board
type BoardResponse struct {
	Version     uint64           `json:"version"`
	Grouping    string           `json:"grouping"`
	SortOption  string           `json:"sortOption"`
	PassThrough bool             `json:"passThrough,omitempty"`
	TicketCount int              `json:"ticketCount"`
	FetchedAt   *time.Time       `json:"fetchedAt,omitempty"`
	Columns     []ColumnResponse `json:"columns"`
}

// ColumnResponse is one board column
type ColumnResponse struct {
	Key     string         `json:"key"`
	Title   string         `json:"title"`
	Icon    string         `json:"icon,omitempty"`
	Count   int            `json:"count"`
	Tickets []CardResponse `json:"tickets"`
}

// CardResponse is one ticket card
type CardResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Tags          []string `json:"tags"`
	Status        string   `json:"status"`
	StatusIcon    string   `json:"statusIcon,omitempty"`
	Priority      int      `json:"priority"`
	PriorityLabel string   `json:"priorityLabel"`
	PriorityIcon  string   `json:"priorityIcon"`
	UserID        string   `json:"userId"`
	UserName      string   `json:"userName,omitempty"`
	UserAvailable bool     `json:"userAvailable"`
}

// PreferencesResponse is the viewer's current display modes
type PreferencesResponse struct {
	Grouping   string `json:"grouping"`
	SortOption string `json:"sortOption"`
}

// UpdatePreferencesRequest is a partial preference update
type UpdatePreferencesRequest struct {
	Grouping   *string `json:"grouping"`
	SortOption *string `json:"sortOption"`
}

// RefreshResponse describes the snapshot installed by a refresh
type RefreshResponse struct {
	Version     uint64    `json:"version"`
	TicketCount int       `json:"ticketCount"`
	UserCount   int       `json:"userCount"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

func toBoardResponse(b *domain.Board) BoardResponse {
	users := make(map[string]domain.User, len(b.Users))
	for _, u := range b.Users {
		if _, seen := users[u.ID]; !seen {
			users[u.ID] = u
		}
	}

	columns := make([]ColumnResponse, 0, b.Groups.Len())
	total := 0
	for _, g := range b.Groups.Groups {
		heading := domain.HeadingFor(b.Groups.Mode, g.Key)
		cards := make([]CardResponse, 0, len(g.Tickets))
		for _, t := range g.Tickets {
			cards = append(cards, toCardResponse(t, users))
		}
		total += len(cards)
		columns = append(columns, ColumnResponse{
			Key:     string(g.Key),
			Title:   heading.Title,
			Icon:    heading.Icon,
			Count:   len(cards),
			Tickets: cards,
		})
	}

	resp := BoardResponse{
		Version:     b.Version,
		Grouping:    string(b.Grouping),
		SortOption:  string(b.SortOption),
		PassThrough: b.Groups.IsPassThrough(),
		TicketCount: total,
		Columns:     columns,
	}
	if !b.FetchedAt.IsZero() {
		fetchedAt := b.FetchedAt
		resp.FetchedAt = &fetchedAt
	}
	return resp
}

func toCardResponse(t domain.Ticket, users map[string]domain.User) CardResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	card := CardResponse{
		ID:            t.ID,
		Title:         t.Title,
		Tags:          tags,
		Status:        string(t.Status),
		StatusIcon:    t.Status.Icon(),
		Priority:      int(t.Priority),
		PriorityLabel: t.Priority.Label(),
		PriorityIcon:  t.Priority.Icon(),
		UserID:        t.UserID,
	}
	if u, ok := users[t.UserID]; ok {
		card.UserName = u.Name
		card.UserAvailable = u.Available
	}
	return card
}

func toPreferencesResponse(p domain.Preferences) PreferencesResponse {
	return PreferencesResponse{
		Grouping:   string(p.Grouping),
		SortOption: string(p.SortOption),
	}
}

// --- Handlers ---

// HandleGetBoard returns the board grouped and sorted for the viewer.
// Query modes override stored preferences for this request only.
func (h *BoardHandler) HandleGetBoard(w http.ResponseWriter, r *http.Request) {
	params := ports.GetBoardParams{Scope: mw.ViewerScope(r.Context())}
	if grouping := validation.ParseStringQueryParam(r, domain.PreferenceGrouping); grouping != nil {
		params.Grouping = domain.GroupMode(*grouping)
	}
	if sortOption := validation.ParseStringQueryParam(r, domain.PreferenceSortOption); sortOption != nil {
		params.SortOption = domain.SortMode(*sortOption)
	}

	b, err := h.boardService.GetBoard(r.Context(), params)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toBoardResponse(b))
}

// HandleGetPreferences returns the viewer's display modes
func (h *BoardHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.boardService.GetPreferences(r.Context(), mw.ViewerScope(r.Context()))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toPreferencesResponse(prefs))
}

// HandleUpdatePreferences persists new display modes for the viewer
func (h *BoardHandler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[UpdatePreferencesRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	v := validation.NewValidator().
		GroupMode(domain.PreferenceGrouping, req.Grouping).
		SortMode(domain.PreferenceSortOption, req.SortOption).
		Custom("body", req.Grouping != nil || req.SortOption != nil, "At least one of grouping or sortOption is required")
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	params := ports.UpdatePreferencesParams{Scope: mw.ViewerScope(r.Context())}
	if req.Grouping != nil {
		grouping := domain.GroupMode(*req.Grouping)
		params.Grouping = &grouping
	}
	if req.SortOption != nil {
		sortOption := domain.SortMode(*req.SortOption)
		params.SortOption = &sortOption
	}

	prefs, err := h.boardService.UpdatePreferences(r.Context(), params)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.InfoContext(r.Context(), "preferences updated",
		"scope", params.Scope,
		"grouping", prefs.Grouping,
		"sort_option", prefs.SortOption,
	)

	WriteJSON(w, http.StatusOK, toPreferencesResponse(prefs))
}

// HandleRefresh re-fetches the upstream snapshot
func (h *BoardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.boardService.Refresh(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, RefreshResponse{
		Version:     snapshot.Version,
		TicketCount: len(snapshot.Tickets),
		UserCount:   len(snapshot.Users),
		FetchedAt:   snapshot.FetchedAt,
	})
}
