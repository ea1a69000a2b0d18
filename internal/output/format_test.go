package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kboard/internal/service"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestPrinter(buf *bytes.Buffer) *Printer {
	return New(buf).WithClock(func() time.Time { return testNow })
}

func deadline(t *testing.T, s string) *service.Deadline {
	t.Helper()
	d, err := service.ParseDeadline(s)
	if err != nil {
		t.Fatalf("ParseDeadline(%q): %v", s, err)
	}
	return &d
}

func TestCard_HighPriorityNoDeadline(t *testing.T) {
	var buf bytes.Buffer
	newTestPrinter(&buf).Card(1, service.Card{Title: "Ship v1", Priority: service.PriorityHigh})

	assert.Equal(t, "       1  Ship v1 [high]\n", buf.String())
	assert.NotContains(t, buf.String(), "OVERDUE")
	assert.NotContains(t, buf.String(), "due")
}

func TestCard_Overdue(t *testing.T) {
	var buf bytes.Buffer
	newTestPrinter(&buf).Card(2, service.Card{
		Title:    "Write docs",
		Priority: service.PriorityMedium,
		Deadline: deadline(t, "2026-03-09"),
	})

	assert.Equal(t, "       2  Write docs [medium] due Mar 9, 2026 OVERDUE\n", buf.String())
}

func TestCard_DueTodayIsNotOverdue(t *testing.T) {
	var buf bytes.Buffer
	newTestPrinter(&buf).Card(1, service.Card{
		Title:    "Standup",
		Priority: service.PriorityLow,
		Deadline: deadline(t, "2026-03-10"),
	})

	assert.Equal(t, "       1  Standup [low] due Mar 10, 2026\n", buf.String())
}

func TestCard_TimestampDeadline(t *testing.T) {
	var buf bytes.Buffer
	newTestPrinter(&buf).Card(1, service.Card{
		Title:    "Release",
		Deadline: deadline(t, "2026-03-10T09:00:00Z"),
	})

	assert.Equal(t, "       1  Release due Mar 10, 2026 OVERDUE\n", buf.String())
}

func TestCard_UnparsedDeadlineShownAsStored(t *testing.T) {
	var buf bytes.Buffer
	newTestPrinter(&buf).Card(1, service.Card{
		Title:    "Retro",
		Deadline: &service.Deadline{Raw: "end of sprint"},
	})

	assert.Equal(t, "       1  Retro due end of sprint\n", buf.String())
}

func TestCard_UntitledAndNewlines(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf)
	p.Card(1, service.Card{Title: "   "})
	p.Card(2, service.Card{Title: "line one\nline two"})

	assert.Equal(t, "       1  (untitled)\n       2  line one line two\n", buf.String())
}

func TestBoardLine(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf)
	p.BoardLine(1, service.Board{Title: "Roadmap"}, true)
	p.BoardLine(2, service.Board{Title: "Home"}, false)

	assert.Equal(t, "   1  Roadmap [default]\n   2  Home\n", buf.String())
}

func TestBoard(t *testing.T) {
	var buf bytes.Buffer
	board := service.Board{ID: "b1", Title: "Roadmap", Description: "Q3 planning"}
	lists := []service.List{
		{ID: "l1", Title: "Todo"},
		{ID: "l2", Title: ""},
	}
	cards := map[string][]service.Card{
		"l1": {
			{ID: "c1", Title: "Ship v1", Priority: service.PriorityHigh},
			{ID: "c2", Title: "Fix login", Priority: service.PriorityLow},
		},
	}

	newTestPrinter(&buf).Board(board, lists, cards)

	want := "Roadmap\n" +
		"Q3 planning\n" +
		"------------\n" +
		"a  Todo\n" +
		"------------\n" +
		"       1  Ship v1 [high]\n" +
		"       2  Fix login [low]\n" +
		"------------\n" +
		"b  (untitled)\n" +
		"------------\n"
	assert.Equal(t, want, buf.String())
}

func TestCardDetail(t *testing.T) {
	var buf bytes.Buffer
	newTestPrinter(&buf).CardDetail("a1", service.Card{
		Title:       "Ship v1",
		Description: "tag the release\npublish notes",
		Priority:    service.PriorityHigh,
	})

	assert.Equal(t, "a1  Ship v1 [high]\n      tag the release\n      publish notes\n", buf.String())
}

func TestListLetter(t *testing.T) {
	assert.Equal(t, 'a', ListLetter(0))
	assert.Equal(t, 'z', ListLetter(MaxLists-1))
}
