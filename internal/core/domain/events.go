package domain

// EventType defines the type of real-time event.
type EventType string

const (
	EventBoardRefreshed     EventType = "BOARD_REFRESHED"
	EventPreferencesUpdated EventType = "PREFERENCES_UPDATED"
	EventPong               EventType = "PONG"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Scope   string      `json:"-"` // viewer scope the event is routed to; empty means everyone
}

// BoardRefreshedPayload announces a new snapshot.
type BoardRefreshedPayload struct {
	Version     uint64 `json:"version"`
	TicketCount int    `json:"ticketCount"`
	UserCount   int    `json:"userCount"`
}

// PreferencesUpdatedPayload carries a viewer's new display modes.
type PreferencesUpdatedPayload struct {
	Grouping   string `json:"grouping"`
	SortOption string `json:"sortOption"`
}
