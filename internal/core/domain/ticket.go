package domain

import (
	"strconv"
	"time"
)

// TicketStatus represents the workflow state of a ticket.
type TicketStatus string

const (
	StatusBacklog    TicketStatus = "Backlog"
	StatusTodo       TicketStatus = "Todo"
	StatusInProgress TicketStatus = "In progress"
	StatusDone       TicketStatus = "Done"
	StatusCancelled  TicketStatus = "Cancelled"
)

// IsKnown reports whether the status is one of the workflow states the board
// has an icon for. Unknown statuses are still grouped under their raw value.
func (s TicketStatus) IsKnown() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// TicketPriority is the urgency level of a ticket. Higher means more urgent.
type TicketPriority int

// PriorityNone is the "No priority" sentinel. It ranks below every numbered
// level, and a payload that omits priority decodes to it.
const (
	PriorityNone   TicketPriority = 0
	PriorityLow    TicketPriority = 1
	PriorityMedium TicketPriority = 2
	PriorityHigh   TicketPriority = 3
	PriorityUrgent TicketPriority = 4
)

// String renders the raw level, which is what the board groups by.
func (p TicketPriority) String() string {
	return strconv.Itoa(int(p))
}

// Ticket is a card on the board.
type Ticket struct {
	ID       string
	Title    string
	Tags     []string
	Status   TicketStatus
	Priority TicketPriority
	UserID   string
}

// User is a person tickets can be assigned to.
type User struct {
	ID        string
	Name      string
	Available bool
}

// Snapshot is one fetched copy of the ticket and user collections. A
// snapshot is never modified after it is installed; a later fetch replaces
// it wholesale with a higher Version.
type Snapshot struct {
	Version   uint64
	Tickets   []Ticket
	Users     []User
	FetchedAt time.Time
}

// IsLoaded reports whether any fetch has succeeded yet.
func (s *Snapshot) IsLoaded() bool {
	return s != nil && s.Version > 0
}
