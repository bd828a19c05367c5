package domain_test

import (
	"testing"

	"github.com/lorrc/kanban-board/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_IsKnown(t *testing.T) {
	tests := []struct {
		name   string
		status domain.TicketStatus
		want   bool
	}{
		{"Backlog is known", domain.StatusBacklog, true},
		{"Todo is known", domain.StatusTodo, true},
		{"In progress is known", domain.StatusInProgress, true},
		{"Done is known", domain.StatusDone, true},
		{"Cancelled is known", domain.StatusCancelled, true},
		{"empty is unknown", domain.TicketStatus(""), false},
		{"lowercase is unknown", domain.TicketStatus("todo"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsKnown())
		})
	}
}

func TestTicketPriority_LabelAndIcon(t *testing.T) {
	tests := []struct {
		priority domain.TicketPriority
		label    string
		icon     string
	}{
		{domain.PriorityNone, "No priority", domain.IconNoPriority},
		{domain.PriorityLow, "Low", domain.IconLowPriority},
		{domain.PriorityMedium, "Medium", domain.IconMediumPriority},
		{domain.PriorityHigh, "High", domain.IconHighPriority},
		{domain.PriorityUrgent, "Urgent", domain.IconUrgentColour},
		{domain.TicketPriority(9), "9", domain.IconNoPriority},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.label, tt.priority.Label())
			assert.Equal(t, tt.icon, tt.priority.Icon())
		})
	}
}

func TestModes_IsValid(t *testing.T) {
	for _, m := range domain.GroupModes {
		assert.True(t, m.IsValid(), string(m))
	}
	for _, m := range domain.SortModes {
		assert.True(t, m.IsValid(), string(m))
	}

	assert.False(t, domain.GroupMode("bogus-mode").IsValid())
	assert.False(t, domain.GroupMode("").IsValid())
	assert.False(t, domain.SortMode("created").IsValid())
}

func TestHeadingFor(t *testing.T) {
	tests := []struct {
		name string
		mode domain.GroupMode
		key  domain.GroupKey
		want domain.ColumnHeading
	}{
		{"status column", domain.GroupByStatus, "Todo", domain.ColumnHeading{Title: "Todo", Icon: domain.IconTodo}},
		{"unknown status column", domain.GroupByStatus, "Review", domain.ColumnHeading{Title: "Review"}},
		{"urgent column", domain.GroupByPriority, "4", domain.ColumnHeading{Title: "Urgent", Icon: domain.IconUrgentColour}},
		{"no priority column", domain.GroupByPriority, "0", domain.ColumnHeading{Title: "No priority", Icon: domain.IconNoPriority}},
		{"out of range priority", domain.GroupByPriority, "7", domain.ColumnHeading{Title: "7", Icon: domain.IconNoPriority}},
		{"user column", domain.GroupByUser, "Anoop sharma", domain.ColumnHeading{Title: "Anoop sharma", Icon: domain.IconUser}},
		{"pass-through column", domain.GroupMode("bogus"), "", domain.ColumnHeading{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.HeadingFor(tt.mode, tt.key))
		})
	}
}

func TestOrderedGroups_Accessors(t *testing.T) {
	groups := domain.OrderedGroups{
		Mode: domain.GroupByStatus,
		Groups: []domain.Group{
			{Key: "Todo", Tickets: []domain.Ticket{{ID: "a"}, {ID: "b"}}},
			{Key: "Done", Tickets: []domain.Ticket{{ID: "c"}}},
		},
	}

	assert.Equal(t, 2, groups.Len())
	assert.Equal(t, []domain.GroupKey{"Todo", "Done"}, groups.Keys())
	assert.False(t, groups.IsPassThrough())

	done, ok := groups.Lookup("Done")
	assert.True(t, ok)
	assert.Equal(t, []domain.Ticket{{ID: "c"}}, done)

	_, ok = groups.Lookup("Backlog")
	assert.False(t, ok)

	flat := groups.Flatten()
	assert.Equal(t, []string{"a", "b", "c"}, []string{flat[0].ID, flat[1].ID, flat[2].ID})
}

func TestDefaultPreferences(t *testing.T) {
	prefs := domain.DefaultPreferences()
	assert.Equal(t, domain.GroupByStatus, prefs.Grouping)
	assert.Equal(t, domain.SortByPriority, prefs.SortOption)
	assert.Equal(t, map[string]string{"grouping": "status", "sortOption": "priority"}, prefs.Values())
}
