// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"kboard/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// DueLayout is the display format of card deadlines.
	DueLayout = "Jan 2, 2006"
)

// Printer writes styled text to one writer. Styling degrades to plain text
// when the writer is not a terminal.
type Printer struct {
	w   io.Writer
	now func() time.Time

	title    lipgloss.Style
	muted    lipgloss.Style
	overdue  lipgloss.Style
	priority map[service.Priority]lipgloss.Style
}

// New creates a Printer bound to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		now:     time.Now,
		title:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Faint(true),
		overdue: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		priority: map[service.Priority]lipgloss.Style{
			service.PriorityLow:    r.NewStyle().Faint(true),
			service.PriorityMedium: r.NewStyle().Foreground(lipgloss.Color("11")),
			service.PriorityHigh:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		},
	}
}

// WithClock replaces the clock used for overdue markers (for testing).
func (p *Printer) WithClock(now func() time.Time) *Printer {
	p.now = now
	return p
}

// BoardLine formats a board line for the boards command.
// Format: "{N:>4}  {TITLE}[ [default]]\n"
func (p *Printer) BoardLine(num int, board service.Board, isDefault bool) {
	title := normalizeTitle(board.Title)
	if isDefault {
		title += " [default]"
	}
	fmt.Fprintf(p.w, "%4d  %s\n", num, title)
}

// BoardHeader formats the title and description of an opened board.
func (p *Printer) BoardHeader(board service.Board) {
	fmt.Fprintln(p.w, p.title.Render(normalizeTitle(board.Title)))
	if desc := strings.TrimSpace(board.Description); desc != "" {
		fmt.Fprintln(p.w, p.muted.Render(flatten(desc)))
	}
}

// ListHeader formats a list section header with its letter.
func (p *Printer) ListHeader(letter rune, list service.List) {
	fmt.Fprintln(p.w, ListSeparator)
	fmt.Fprintf(p.w, "%c  %s\n", letter, p.title.Render(normalizeTitle(list.Title)))
	fmt.Fprintln(p.w, ListSeparator)
}

// Card formats a card line within a list section.
// Format: "    {N:>4}  {TITLE}[ [priority]][ due {DATE}][ OVERDUE]\n"
func (p *Printer) Card(num int, card service.Card) {
	fmt.Fprintf(p.w, "    %4d  %s\n", num, p.cardText(card))
}

// CardDetail formats every field of a single card.
func (p *Printer) CardDetail(ref string, card service.Card) {
	fmt.Fprintf(p.w, "%s  %s\n", ref, p.cardText(card))
	if desc := strings.TrimSpace(card.Description); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintf(p.w, "      %s\n", p.muted.Render(strings.TrimRight(line, "\r")))
		}
	}
}

// Board formats a whole board: header, then each list lettered a..z in the
// given order with its cards numbered from 1.
func (p *Printer) Board(board service.Board, lists []service.List, cards map[string][]service.Card) {
	p.BoardHeader(board)
	for i, list := range lists {
		p.ListHeader(ListLetter(i), list)
		for j, card := range cards[list.ID] {
			p.Card(j+1, card)
		}
	}
}

func (p *Printer) cardText(card service.Card) string {
	var b strings.Builder
	b.WriteString(normalizeTitle(card.Title))
	if card.Priority != "" {
		style, ok := p.priority[card.Priority]
		if !ok {
			style = p.muted
		}
		b.WriteString(" ")
		b.WriteString(style.Render("[" + string(card.Priority) + "]"))
	}
	if card.HasDeadline() {
		b.WriteString(" ")
		due := card.Deadline.Raw
		if due == "" {
			due = card.Deadline.Time.Format(DueLayout)
		}
		b.WriteString(p.muted.Render("due " + due))
		if card.Overdue(p.now()) {
			b.WriteString(" ")
			b.WriteString(p.overdue.Render("OVERDUE"))
		}
	}
	return b.String()
}

// ListLetter returns the letter of the list at index i (0 -> 'a').
func ListLetter(i int) rune {
	return rune('a' + i)
}

// MaxLists is the number of lists addressable by a letter.
const MaxLists = 26

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
