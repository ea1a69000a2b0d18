// Package service defines the backend-agnostic data model for kanban operations.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority is a card priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority parses a user-supplied priority (case-insensitive, trimmed).
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("invalid priority: %s", s)
}

// PositionStep is the spacing between dense positions written after a reorder.
const PositionStep = 1000

// dateLayout is the date-only deadline format the backend round-trips.
const dateLayout = "2006-01-02"

// Zone-less timestamp layouts written by datetime-local inputs. They are
// read as local time.
const (
	minuteLayout = "2006-01-02T15:04"
	secondLayout = "2006-01-02T15:04:05"
)

// Deadline is an optional card due date.
// The backend stores whatever the client sent, so date-only values, local
// and zoned timestamps are accepted. A stored value no layout matches is
// kept verbatim in Raw.
type Deadline struct {
	time.Time
	DateOnly bool

	// Layout is the layout Time was parsed with; empty means RFC 3339.
	Layout string

	// Raw is an unparseable stored value. Time is zero when Raw is set.
	Raw string
}

// ParseDeadline parses "YYYY-MM-DD", a local "YYYY-MM-DDTHH:MM[:SS]"
// timestamp or an RFC 3339 timestamp.
func ParseDeadline(s string) (Deadline, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Deadline{Time: t, DateOnly: true, Layout: dateLayout}, nil
	}
	for _, layout := range []string{minuteLayout, secondLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Deadline{Time: t, Layout: layout}, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Deadline{Time: t}, nil
	}
	return Deadline{}, fmt.Errorf("invalid deadline: %s", s)
}

// IsSet reports whether the deadline holds a time or a raw stored value.
func (d Deadline) IsSet() bool {
	return !d.Time.IsZero() || d.Raw != ""
}

// String returns the wire form of the deadline.
func (d Deadline) String() string {
	switch {
	case d.Raw != "":
		return d.Raw
	case d.DateOnly:
		return d.Time.Format(dateLayout)
	case d.Layout != "":
		return d.Time.Format(d.Layout)
	}
	return d.Time.Format(time.RFC3339)
}

// PassedAt reports whether the deadline has passed at now.
// A date-only deadline lasts until the end of that day. Raw values never pass.
func (d Deadline) PassedAt(now time.Time) bool {
	if d.Time.IsZero() {
		return false
	}
	if d.DateOnly {
		y, m, day := d.Time.Date()
		end := time.Date(y, m, day+1, 0, 0, 0, 0, now.Location())
		return !now.Before(end)
	}
	return d.Time.Before(now)
}

// MarshalJSON implements json.Marshaler. The zero deadline encodes as "",
// which the backend stores as "no deadline"; null would leave it unchanged.
func (d Deadline) MarshalJSON() ([]byte, error) {
	if !d.IsSet() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. Null and the empty string
// decode to the zero deadline; unknown formats are kept in Raw.
func (d *Deadline) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Deadline{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Deadline{Raw: string(data)}
		return nil
	}
	if strings.TrimSpace(s) == "" {
		*d = Deadline{}
		return nil
	}
	parsed, err := ParseDeadline(s)
	if err != nil {
		*d = Deadline{Raw: s}
		return nil
	}
	*d = parsed
	return nil
}

// User is the account a session belongs to.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Board is a top-level kanban container.
type Board struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"user_id,omitempty"`
}

// List is an ordered column within a board.
type List struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	BoardID  string `json:"board_id"`
	Position int    `json:"position"`
}

// Card is a task item within a list.
type Card struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    *Deadline `json:"deadline"`
	Priority    Priority  `json:"priority,omitempty"`
	ListID      string    `json:"list_id"`
	Position    int       `json:"position"`
}

// HasDeadline reports whether the card has a deadline set.
func (c Card) HasDeadline() bool {
	return c.Deadline != nil && c.Deadline.IsSet()
}

// Overdue reports whether the card's deadline passed at now.
// Cards without a deadline are never overdue.
func (c Card) Overdue(now time.Time) bool {
	return c.HasDeadline() && c.Deadline.PassedAt(now)
}

// Credentials are the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account creation payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// BoardInput is the create/update payload for a board.
type BoardInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListInput is the create payload for a list.
type ListInput struct {
	Title   string `json:"title"`
	BoardID string `json:"board_id"`
}

// CardInput is the create/update payload for a card.
type CardInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    *Deadline `json:"deadline"`
	Priority    Priority  `json:"priority,omitempty"`
	ListID      string    `json:"list_id,omitempty"`
}

// InputFromCard returns a CardInput carrying the card's editable fields.
func InputFromCard(c Card) CardInput {
	return CardInput{
		Title:       c.Title,
		Description: c.Description,
		Deadline:    c.Deadline,
		Priority:    c.Priority,
	}
}

// ListOrder is the payload persisting a board's list order.
type ListOrder struct {
	BoardID string   `json:"board_id"`
	ListIDs []string `json:"list_ids"`
}

// CardOrder is the payload persisting a destination list's card order.
type CardOrder struct {
	SourceListID      string   `json:"source_list_id"`
	DestinationListID string   `json:"destination_list_id"`
	Cards             []string `json:"cards"`
}
