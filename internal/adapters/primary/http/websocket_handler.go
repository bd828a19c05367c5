package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	wsAdapter "github.com/lorrc/kanban-board/internal/adapters/primary/websocket"
	"github.com/lorrc/kanban-board/internal/auth"
	"github.com/lorrc/kanban-board/internal/config"
	"github.com/lorrc/kanban-board/internal/core/ports"
)

// WebSocketHandler upgrades connections for the board event feed
type WebSocketHandler struct {
	hub       *wsAdapter.Hub
	tm        *auth.TokenManager
	upgrader  websocket.Upgrader
	clientCfg wsAdapter.ClientConfig
	logger    *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *wsAdapter.Hub,
	tm *auth.TokenManager,
	cfg *config.Config,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		hub: hub,
		tm:  tm,
		clientCfg: wsAdapter.ClientConfig{
			PingInterval: cfg.WebSocket.PingInterval,
			PongWait:     cfg.WebSocket.PongWait,
		},
		logger: logger.With("handler", "websocket"),
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg.WebSocket.AllowedOrigins, cfg.IsDevelopment()),
	}

	return handler
}

// makeOriginChecker accepts exact hosts and "*.example.com" wildcards.
// Development mode accepts any origin.
func (h *WebSocketHandler) makeOriginChecker(allowedOrigins []string, development bool) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// No origin header (same-origin request or non-browser client)
		if origin == "" || development {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin", "origin", origin, "error", err)
			return false
		}
		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			if strings.HasPrefix(allowed, "*.") {
				if strings.HasSuffix(originHost, allowed[1:]) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
		)
		return false
	}
}

// ServeHTTP handles WebSocket connection requests. The token query
// parameter is optional; without it the connection joins the shared
// anonymous scope.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope := ports.DefaultScope

	if tokenString := r.URL.Query().Get("token"); tokenString != "" {
		claims, err := h.tm.ValidateToken(tokenString)
		if err != nil {
			h.logger.WarnContext(r.Context(), "websocket connection rejected: invalid token",
				"remote_addr", r.RemoteAddr,
				"error", err,
			)
			WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token", Code: "INVALID_TOKEN"})
			return
		}
		scope = claims.Scope()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.WarnContext(r.Context(), "failed to upgrade websocket connection", "error", err)
		return
	}

	h.logger.InfoContext(r.Context(), "websocket connection established",
		"scope", scope,
		"remote_addr", r.RemoteAddr,
	)

	client := wsAdapter.NewClient(h.hub, conn, scope, h.clientCfg, h.logger)
	if !h.hub.Attach(client) {
		h.logger.InfoContext(r.Context(), "websocket hub stopped, closing connection", "scope", scope)
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
