package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	mw "github.com/lorrc/kanban-board/internal/adapters/primary/http/middleware"
	"github.com/lorrc/kanban-board/internal/auth"
)

// SessionHandler issues viewer tokens. A viewer token only scopes board
// preferences; there are no accounts or passwords.
type SessionHandler struct {
	tm           *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(tm *auth.TokenManager, errorHandler *ErrorHandler, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		tm:           tm,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "session"),
	}
}

// SessionResponse carries a freshly minted viewer token
type SessionResponse struct {
	Token     string    `json:"token"`
	ViewerID  string    `json:"viewerId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HandleCreateSession mints a token. A caller that already presents a valid
// token gets a renewed token for the same viewer.
func (h *SessionHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	viewerID := uuid.New()
	status := http.StatusCreated
	if claims, ok := mw.ClaimsFromContext(r.Context()); ok {
		viewerID = claims.ViewerID
		status = http.StatusOK
	}

	token, expiresAt, err := h.tm.GenerateToken(viewerID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.InfoContext(r.Context(), "viewer session issued",
		"viewer_id", viewerID,
		"renewed", status == http.StatusOK,
	)

	WriteJSON(w, status, SessionResponse{
		Token:     token,
		ViewerID:  viewerID.String(),
		ExpiresAt: expiresAt.UTC(),
	})
}
