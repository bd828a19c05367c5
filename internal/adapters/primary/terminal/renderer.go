// Package terminal draws a board as side-by-side columns for a terminal.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lorrc/kanban-board/internal/core/domain"
)

const (
	defaultColumnWidth = 32
	minColumnWidth     = 16
)

// glyphs stands in for the web icons.
var glyphs = map[string]string{
	domain.IconBacklog:        "◌",
	domain.IconTodo:           "○",
	domain.IconInProgress:     "◐",
	domain.IconDone:           "●",
	domain.IconCancelled:      "⊘",
	domain.IconNoPriority:     "···",
	domain.IconLowPriority:    "▂",
	domain.IconMediumPriority: "▂▄",
	domain.IconHighPriority:   "▂▄▆",
	domain.IconUrgentColour:   "!",
	domain.IconUrgentGrey:     "!",
	domain.IconUser:           "◉",
}

var priorityColors = map[domain.TicketPriority]lipgloss.Color{
	domain.PriorityUrgent: lipgloss.Color("196"),
	domain.PriorityHigh:   lipgloss.Color("208"),
	domain.PriorityMedium: lipgloss.Color("220"),
	domain.PriorityLow:    lipgloss.Color("244"),
	domain.PriorityNone:   lipgloss.Color("240"),
}

// Renderer turns a board into a string of columns.
type Renderer struct {
	columnWidth int

	header   lipgloss.Style
	count    lipgloss.Style
	card     lipgloss.Style
	id       lipgloss.Style
	title    lipgloss.Style
	tag      lipgloss.Style
	faint    lipgloss.Style
	priority func(domain.TicketPriority) lipgloss.Style
}

// NewRenderer creates a renderer whose colour support is detected from out.
// A columnWidth below the minimum selects the default width.
func NewRenderer(out io.Writer, columnWidth int) *Renderer {
	if columnWidth < minColumnWidth {
		columnWidth = defaultColumnWidth
	}
	lr := lipgloss.NewRenderer(out)

	return &Renderer{
		columnWidth: columnWidth,
		header:      lr.NewStyle().Bold(true).Width(columnWidth).MaxWidth(columnWidth),
		count:       lr.NewStyle().Faint(true),
		card: lr.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(columnWidth - 2),
		id:    lr.NewStyle().Faint(true),
		title: lr.NewStyle(),
		tag:   lr.NewStyle().Foreground(lipgloss.Color("245")),
		faint: lr.NewStyle().Faint(true),
		priority: func(p domain.TicketPriority) lipgloss.Style {
			return lr.NewStyle().Foreground(priorityColors[p]).Bold(p == domain.PriorityUrgent)
		},
	}
}

// Render draws every group as a column, left to right in group order.
func (r *Renderer) Render(b *domain.Board) string {
	if b.Groups.Len() == 0 {
		return r.faint.Render("No tickets.") + "\n"
	}

	users := make(map[string]domain.User, len(b.Users))
	for _, u := range b.Users {
		if _, seen := users[u.ID]; !seen {
			users[u.ID] = u
		}
	}

	columns := make([]string, 0, b.Groups.Len())
	for _, g := range b.Groups.Groups {
		columns = append(columns, r.renderColumn(b.Groups.Mode, g, users))
	}

	footer := r.faint.Render(fmt.Sprintf("grouping: %s  sort: %s  snapshot: v%d", b.Grouping, b.SortOption, b.Version))
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		"",
		footer,
	) + "\n"
}

func (r *Renderer) renderColumn(mode domain.GroupMode, g domain.Group, users map[string]domain.User) string {
	heading := domain.HeadingFor(mode, g.Key)
	title := heading.Title
	if title == "" {
		title = "All tickets"
	}
	if glyph := glyphs[heading.Icon]; glyph != "" {
		title = glyph + " " + title
	}

	rows := []string{
		r.header.Render(title + " " + r.count.Render(fmt.Sprintf("%d", len(g.Tickets)))),
	}
	for _, t := range g.Tickets {
		rows = append(rows, r.renderCard(mode, t, users))
	}

	return lipgloss.NewStyle().MarginRight(1).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (r *Renderer) renderCard(mode domain.GroupMode, t domain.Ticket, users map[string]domain.User) string {
	top := r.id.Render(t.ID)
	if mode != domain.GroupByUser {
		if u, ok := users[t.UserID]; ok {
			availability := "○"
			if u.Available {
				availability = "●"
			}
			top += "  " + r.faint.Render(availability+" "+initials(u.Name))
		}
	}

	meta := []string{}
	if mode != domain.GroupByPriority {
		meta = append(meta, r.priority(t.Priority).Render(glyphs[t.Priority.Icon()]))
	}
	if mode != domain.GroupByStatus {
		if glyph := glyphs[t.Status.Icon()]; glyph != "" {
			meta = append(meta, glyph)
		}
	}
	for _, tag := range t.Tags {
		meta = append(meta, r.tag.Render("• "+tag))
	}

	lines := []string{top, r.title.Render(t.Title)}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, " "))
	}
	return r.card.Render(strings.Join(lines, "\n"))
}

// initials returns up to two upper-case initials of name.
func initials(name string) string {
	var out []rune
	for _, field := range strings.Fields(name) {
		for _, c := range field {
			out = append(out, []rune(strings.ToUpper(string(c)))...)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
