package domain

import "time"

// GroupMode is the dimension tickets are partitioned by.
type GroupMode string

const (
	GroupByStatus   GroupMode = "status"
	GroupByUser     GroupMode = "user"
	GroupByPriority GroupMode = "priority"
)

// GroupModes lists the grouping modes in menu order.
var GroupModes = []GroupMode{GroupByStatus, GroupByUser, GroupByPriority}

// IsValid reports whether the mode is a known grouping mode. Unknown modes
// are not errors for the engine; they select pass-through grouping.
func (m GroupMode) IsValid() bool {
	switch m {
	case GroupByStatus, GroupByUser, GroupByPriority:
		return true
	}
	return false
}

// SortMode is the ordering applied to the full ticket list before grouping.
type SortMode string

const (
	SortByPriority SortMode = "priority"
	SortByTitle    SortMode = "title"
)

// SortModes lists the sort modes in menu order.
var SortModes = []SortMode{SortByPriority, SortByTitle}

// IsValid reports whether the mode is a known sort mode.
func (m SortMode) IsValid() bool {
	return m == SortByPriority || m == SortByTitle
}

// UnknownUserKey labels tickets whose user is not in the user collection.
const UnknownUserKey GroupKey = "Unknown"

// GroupKey identifies one column of the board.
type GroupKey string

// Group is one column: a key and its tickets in sorted order.
type Group struct {
	Key     GroupKey
	Tickets []Ticket
}

// OrderedGroups is the engine's output. Groups appear in the order their
// first ticket appears in the sorted input.
type OrderedGroups struct {
	Mode   GroupMode
	Groups []Group
}

// Len returns the number of groups.
func (g OrderedGroups) Len() int {
	return len(g.Groups)
}

// Keys returns the group keys in order.
func (g OrderedGroups) Keys() []GroupKey {
	keys := make([]GroupKey, 0, len(g.Groups))
	for _, group := range g.Groups {
		keys = append(keys, group.Key)
	}
	return keys
}

// Lookup returns the tickets for key.
func (g OrderedGroups) Lookup(key GroupKey) ([]Ticket, bool) {
	for _, group := range g.Groups {
		if group.Key == key {
			return group.Tickets, true
		}
	}
	return nil, false
}

// Flatten concatenates all groups in order.
func (g OrderedGroups) Flatten() []Ticket {
	var n int
	for _, group := range g.Groups {
		n += len(group.Tickets)
	}
	out := make([]Ticket, 0, n)
	for _, group := range g.Groups {
		out = append(out, group.Tickets...)
	}
	return out
}

// IsPassThrough reports whether the groups came from an unrecognized mode.
func (g OrderedGroups) IsPassThrough() bool {
	return !g.Mode.IsValid()
}

// Preference keys understood by the preference store.
const (
	PreferenceGrouping   = "grouping"
	PreferenceSortOption = "sortOption"
)

// Preferences is a viewer's chosen display modes.
type Preferences struct {
	Grouping   GroupMode
	SortOption SortMode
}

// DefaultPreferences is what a viewer sees before choosing anything.
func DefaultPreferences() Preferences {
	return Preferences{
		Grouping:   GroupByStatus,
		SortOption: SortByPriority,
	}
}

// Values returns the preferences keyed for storage.
func (p Preferences) Values() map[string]string {
	return map[string]string{
		PreferenceGrouping:   string(p.Grouping),
		PreferenceSortOption: string(p.SortOption),
	}
}

// Board is a computed view of one snapshot.
type Board struct {
	Version    uint64
	Grouping   GroupMode
	SortOption SortMode
	Groups     OrderedGroups
	Users      []User
	FetchedAt  time.Time
}
