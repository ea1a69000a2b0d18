// Package rest implements the service.Service interface over the kanban REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"kboard/internal/service"
)

// DefaultTimeout is the timeout for API calls when none is configured.
const DefaultTimeout = 10 * time.Second

// Client implements service.Service against the REST backend.
type Client struct {
	baseURL string
	timeout time.Duration
	log     *zap.Logger

	// anon serves /auth calls; authed adds the bearer token.
	anon   *http.Client
	authed *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the debug logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the base HTTP client (for testing).
// The bearer transport is layered on top of its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.anon = hc }
}

// New creates a client for baseURL. tokens supplies the bearer token for
// every call except login and register.
func New(baseURL string, tokens oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
		anon:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.anon.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.authed = &http.Client{
		Transport: &oauth2.Transport{
			Source: tokenSource{tokens},
			Base:   base,
		},
		CheckRedirect: c.anon.CheckRedirect,
		Jar:           c.anon.Jar,
	}
	return c
}

// tokenSource marks token lookup failures so they are reported as
// request-construction errors rather than network errors.
type tokenSource struct {
	src oauth2.TokenSource
}

type tokenError struct{ err error }

func (e *tokenError) Error() string { return "bearer token unavailable: " + e.err.Error() }
func (e *tokenError) Unwrap() error { return e.err }

func (t tokenSource) Token() (*oauth2.Token, error) {
	if t.src == nil {
		return nil, &tokenError{errors.New("no token source")}
	}
	tok, err := t.src.Token()
	if err != nil {
		return nil, &tokenError{err}
	}
	return tok, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.AuthResult, error) {
	var res service.AuthResult
	err := c.do(ctx, c.anon, http.MethodPost, "/auth/login", creds, &res)
	return res, err
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg service.Registration) (service.AuthResult, error) {
	var res service.AuthResult
	err := c.do(ctx, c.anon, http.MethodPost, "/auth/register", reg, &res)
	return res, err
}

// ListBoards returns the current user's boards.
func (c *Client) ListBoards(ctx context.Context) ([]service.Board, error) {
	var boards []service.Board
	if err := c.do(ctx, c.authed, http.MethodGet, "/boards/", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// GetBoard returns one board.
func (c *Client) GetBoard(ctx context.Context, boardID string) (service.Board, error) {
	var b service.Board
	err := c.do(ctx, c.authed, http.MethodGet, "/boards/"+url.PathEscape(boardID), nil, &b)
	return b, err
}

// CreateBoard creates a board.
func (c *Client) CreateBoard(ctx context.Context, in service.BoardInput) (service.Board, error) {
	var b service.Board
	err := c.do(ctx, c.authed, http.MethodPost, "/boards/", in, &b)
	return b, err
}

// UpdateBoard updates a board's title and description.
func (c *Client) UpdateBoard(ctx context.Context, boardID string, in service.BoardInput) (service.Board, error) {
	var b service.Board
	err := c.do(ctx, c.authed, http.MethodPut, "/boards/"+url.PathEscape(boardID), in, &b)
	return b, err
}

// DeleteBoard deletes a board.
func (c *Client) DeleteBoard(ctx context.Context, boardID string) error {
	return c.do(ctx, c.authed, http.MethodDelete, "/boards/"+url.PathEscape(boardID), nil, nil)
}

// ListLists returns a board's lists.
func (c *Client) ListLists(ctx context.Context, boardID string) ([]service.List, error) {
	var lists []service.List
	if err := c.do(ctx, c.authed, http.MethodGet, "/lists/board/"+url.PathEscape(boardID), nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateList creates a list.
func (c *Client) CreateList(ctx context.Context, in service.ListInput) (service.List, error) {
	var l service.List
	err := c.do(ctx, c.authed, http.MethodPost, "/lists/", in, &l)
	return l, err
}

// RenameList changes a list's title.
func (c *Client) RenameList(ctx context.Context, listID, title string) (service.List, error) {
	var l service.List
	body := struct {
		Title string `json:"title"`
	}{title}
	err := c.do(ctx, c.authed, http.MethodPut, "/lists/"+url.PathEscape(listID)+"/", body, &l)
	return l, err
}

// DeleteList deletes a list.
func (c *Client) DeleteList(ctx context.Context, listID string) error {
	return c.do(ctx, c.authed, http.MethodDelete, "/lists/"+url.PathEscape(listID), nil, nil)
}

// ReorderLists persists a board's list order. The response body is ignored.
func (c *Client) ReorderLists(ctx context.Context, order service.ListOrder) error {
	return c.do(ctx, c.authed, http.MethodPut, "/lists/reorder/", order, nil)
}

// ListCards returns a list's cards.
func (c *Client) ListCards(ctx context.Context, listID string) ([]service.Card, error) {
	var cards []service.Card
	if err := c.do(ctx, c.authed, http.MethodGet, "/cards/list/"+url.PathEscape(listID), nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateCard creates a card.
func (c *Client) CreateCard(ctx context.Context, in service.CardInput) (service.Card, error) {
	var card service.Card
	err := c.do(ctx, c.authed, http.MethodPost, "/cards/", in, &card)
	return card, err
}

// UpdateCard updates a card's title, description, deadline and priority.
func (c *Client) UpdateCard(ctx context.Context, cardID string, in service.CardInput) (service.Card, error) {
	var card service.Card
	in.ListID = ""
	err := c.do(ctx, c.authed, http.MethodPut, "/cards/"+url.PathEscape(cardID)+"/", in, &card)
	return card, err
}

// DeleteCard deletes a card.
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	return c.do(ctx, c.authed, http.MethodDelete, "/cards/"+url.PathEscape(cardID), nil, nil)
}

// ReorderCards persists a destination list's card order.
func (c *Client) ReorderCards(ctx context.Context, order service.CardOrder) error {
	return c.do(ctx, c.authed, http.MethodPost, "/cards/reorder/", order, nil)
}

// do sends one JSON request and decodes the JSON response into out.
// Failures are classified into the three service.ErrorKind values.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return service.RequestFailed(fmt.Errorf("encode %s %s: %w", method, path, err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return service.RequestFailed(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if err := googleapi.CheckResponse(resp); err != nil {
		return rejection(resp.StatusCode, err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return service.NoResponse(err)
		}
		return service.RequestFailed(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

// classifyTransportError separates token lookup failures (the request could
// not be constructed) from everything else (no response).
func classifyTransportError(err error) error {
	var te *tokenError
	if errors.As(err, &te) {
		return service.RequestFailed(err)
	}
	return service.NoResponse(err)
}

// rejection extracts the server's message field from a non-2xx response.
func rejection(status int, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return service.Rejected(status, "")
	}
	var reply struct {
		Message string `json:"message"`
	}
	msg := gerr.Message
	if json.Unmarshal([]byte(gerr.Body), &reply) == nil && reply.Message != "" {
		msg = reply.Message
	}
	e := service.Rejected(gerr.Code, msg)
	e.Err = gerr
	return e
}
