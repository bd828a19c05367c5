// Package board implements the grouping and sorting engine behind the
// Kanban view. Everything here is pure: no I/O, no shared state, and no
// mutation of the caller's slices.
package board

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lorrc/kanban-board/internal/core/domain"
)

// titleLanguage drives the locale-aware title comparison.
var titleLanguage = language.English

// Sort returns a new slice holding tickets ordered by mode.
//
// Priority sorts descending, title sorts ascending under English collation.
// Both are stable, so ties keep their input order. Any other mode returns a
// copy in input order.
func Sort(tickets []domain.Ticket, mode domain.SortMode) []domain.Ticket {
	sorted := make([]domain.Ticket, len(tickets))
	copy(sorted, tickets)

	switch mode {
	case domain.SortByPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority > sorted[j].Priority
		})
	case domain.SortByTitle:
		// A Collator keeps scratch buffers, so each call gets its own.
		c := collate.New(titleLanguage)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	}

	return sorted
}

// Group partitions sorted tickets into columns by mode, preserving order.
//
// Unrecognized modes produce a single pass-through group with an empty key
// holding every ticket in input order. Empty input yields no groups.
func Group(sorted []domain.Ticket, users []domain.User, mode domain.GroupMode) domain.OrderedGroups {
	result := domain.OrderedGroups{Mode: mode}
	if len(sorted) == 0 {
		return result
	}

	var keyOf func(domain.Ticket) domain.GroupKey
	switch mode {
	case domain.GroupByStatus:
		keyOf = func(t domain.Ticket) domain.GroupKey { return domain.GroupKey(t.Status) }
	case domain.GroupByPriority:
		keyOf = func(t domain.Ticket) domain.GroupKey { return domain.GroupKey(t.Priority.String()) }
	case domain.GroupByUser:
		names := userNames(users)
		keyOf = func(t domain.Ticket) domain.GroupKey {
			// A matched user with a blank name is no more useful than no match.
			if name := names[t.UserID]; name != "" {
				return domain.GroupKey(name)
			}
			return domain.UnknownUserKey
		}
	default:
		tickets := make([]domain.Ticket, len(sorted))
		copy(tickets, sorted)
		result.Groups = []domain.Group{{Tickets: tickets}}
		return result
	}

	index := make(map[domain.GroupKey]int)
	for _, ticket := range sorted {
		key := keyOf(ticket)
		i, ok := index[key]
		if !ok {
			i = len(result.Groups)
			index[key] = i
			result.Groups = append(result.Groups, domain.Group{Key: key})
		}
		result.Groups[i].Tickets = append(result.Groups[i].Tickets, ticket)
	}

	return result
}

// View sorts then groups. The order matters: grouping a sorted list keeps
// each column in sort order.
func View(tickets []domain.Ticket, users []domain.User, groupMode domain.GroupMode, sortMode domain.SortMode) domain.OrderedGroups {
	return Group(Sort(tickets, sortMode), users, groupMode)
}

// userNames indexes users by ID. When IDs repeat, the first user wins, which
// matches a linear search over the collection.
func userNames(users []domain.User) map[string]string {
	names := make(map[string]string, len(users))
	for _, u := range users {
		if _, seen := names[u.ID]; !seen {
			names[u.ID] = u.Name
		}
	}
	return names
}
