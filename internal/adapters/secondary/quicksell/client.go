// Package quicksell fetches the board's tickets and users from the
// QuickSell frontend-assignment endpoint.
package quicksell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lorrc/kanban-board/internal/core/domain"
	apperrors "github.com/lorrc/kanban-board/internal/core/errors"
	"github.com/lorrc/kanban-board/internal/core/ports"
)

// DefaultURL is the public endpoint the board was built against.
const DefaultURL = "https://api.quicksell.co/v1/internal/frontend-assignment"

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 512

// Client is the secondary adapter for the upstream ticket source.
type Client struct {
	url    string
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.TicketSource = (*Client)(nil)

// Config holds client configuration.
type Config struct {
	URL     string
	Timeout time.Duration
}

// NewClient creates a client. A zero timeout means no client-side timeout
// beyond the caller's context.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("component", "quicksell_client"),
		now:    time.Now,
	}
}

// flexibleID accepts an identifier sent as either a JSON string or number.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = flexibleID(n.String())
	return nil
}

type ticketPayload struct {
	ID       flexibleID `json:"id"`
	Title    string     `json:"title"`
	Tag      []string   `json:"tag"`
	UserID   flexibleID `json:"userId"`
	Status   string     `json:"status"`
	Priority int        `json:"priority"`
}

type userPayload struct {
	ID        flexibleID `json:"id"`
	Name      string     `json:"name"`
	Available bool       `json:"available"`
}

type boardPayload struct {
	Tickets []ticketPayload `json:"tickets"`
	Users   []userPayload   `json:"users"`
}

// FetchBoard performs one GET and decodes the ticket and user collections.
// There is no retry; a failed fetch is reported to the caller as is.
func (c *Client) FetchBoard(ctx context.Context) (*domain.Snapshot, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", apperrors.ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}

	var payload boardPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamPayload, err)
	}

	snapshot := toSnapshot(payload)
	snapshot.FetchedAt = c.now().UTC()

	if unknown := unknownStatuses(snapshot.Tickets); len(unknown) > 0 {
		c.logger.WarnContext(ctx, "tickets with unrecognised status, grouped under their raw value",
			"statuses", unknown,
		)
	}

	c.logger.DebugContext(ctx, "fetched board",
		"tickets", len(snapshot.Tickets),
		"users", len(snapshot.Users),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return snapshot, nil
}

func toSnapshot(payload boardPayload) *domain.Snapshot {
	tickets := make([]domain.Ticket, 0, len(payload.Tickets))
	for _, t := range payload.Tickets {
		tickets = append(tickets, domain.Ticket{
			ID:       string(t.ID),
			Title:    t.Title,
			Tags:     t.Tag,
			Status:   domain.TicketStatus(t.Status),
			Priority: domain.TicketPriority(t.Priority),
			UserID:   string(t.UserID),
		})
	}

	users := make([]domain.User, 0, len(payload.Users))
	for _, u := range payload.Users {
		users = append(users, domain.User{
			ID:        string(u.ID),
			Name:      u.Name,
			Available: u.Available,
		})
	}

	return &domain.Snapshot{Tickets: tickets, Users: users}
}

// unknownStatuses lists, once each and in first-seen order, the statuses
// the board has no icon for.
func unknownStatuses(tickets []domain.Ticket) []string {
	var out []string
	seen := make(map[domain.TicketStatus]bool)
	for _, t := range tickets {
		if t.Status.IsKnown() || seen[t.Status] {
			continue
		}
		seen[t.Status] = true
		out = append(out, string(t.Status))
	}
	return out
}
