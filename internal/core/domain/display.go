package domain

// Icon names match the asset file names shipped with the board front end.
const (
	IconBacklog        = "backlog"
	IconTodo           = "to-do"
	IconInProgress     = "in-progress"
	IconDone           = "done"
	IconCancelled      = "cancelled"
	IconNoPriority     = "no-priority"
	IconLowPriority    = "low-priority"
	IconMediumPriority = "medium-priority"
	IconHighPriority   = "high-priority"
	IconUrgentColour   = "urgent-priority-colour"
	IconUrgentGrey     = "urgent-priority-grey"
	IconUser           = "user"
)

var priorityLabels = map[TicketPriority]string{
	PriorityNone:   "No priority",
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

var priorityIcons = map[TicketPriority]string{
	PriorityNone:   IconNoPriority,
	PriorityLow:    IconLowPriority,
	PriorityMedium: IconMediumPriority,
	PriorityHigh:   IconHighPriority,
	PriorityUrgent: IconUrgentColour,
}

var statusIcons = map[TicketStatus]string{
	StatusBacklog:    IconBacklog,
	StatusTodo:       IconTodo,
	StatusInProgress: IconInProgress,
	StatusDone:       IconDone,
	StatusCancelled:  IconCancelled,
}

// Label returns the display label for the level, or the raw number for
// levels outside the known range.
func (p TicketPriority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return p.String()
}

// Icon returns the icon name for the level. Unknown levels get the
// "no priority" icon.
func (p TicketPriority) Icon() string {
	if icon, ok := priorityIcons[p]; ok {
		return icon
	}
	return IconNoPriority
}

// Icon returns the icon name for the status, or "" for unknown statuses.
func (s TicketStatus) Icon() string {
	return statusIcons[s]
}

// ColumnHeading is how a column is titled and decorated on screen.
type ColumnHeading struct {
	Title string
	Icon  string
}

// HeadingFor maps a group key to its heading under mode. Priority keys are
// the raw level, so they are translated back to a label here.
func HeadingFor(mode GroupMode, key GroupKey) ColumnHeading {
	switch mode {
	case GroupByStatus:
		return ColumnHeading{Title: string(key), Icon: TicketStatus(key).Icon()}
	case GroupByPriority:
		for level, label := range priorityLabels {
			if level.String() == string(key) {
				return ColumnHeading{Title: label, Icon: level.Icon()}
			}
		}
		return ColumnHeading{Title: string(key), Icon: IconNoPriority}
	case GroupByUser:
		return ColumnHeading{Title: string(key), Icon: IconUser}
	default:
		return ColumnHeading{Title: string(key)}
	}
}
