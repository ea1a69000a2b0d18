package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"kboard/internal/service"
)

// FakeBackend is an HTTP server speaking the kanban REST API over an
// in-memory FakeService. Tokens are HS256 JWTs signed with Secret.
type FakeBackend struct {
	*httptest.Server

	// Service holds the backend state; seed it directly.
	Service *FakeService

	// Secret signs and verifies bearer tokens.
	Secret []byte

	mu       sync.Mutex
	requests []RecordedRequest
	failures []cannedResponse
}

// RecordedRequest is one request the backend received.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

type cannedResponse struct {
	status int
	body   string
}

// NewFakeBackend starts a FakeBackend. It is closed when the test ends.
func NewFakeBackend(t interface{ Cleanup(func()) }) *FakeBackend {
	b := &FakeBackend{
		Service: NewFakeService(),
		Secret:  []byte("kboard-test-secret"),
	}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Close)
	return b
}

// BaseURL is the API root to hand to a client.
func (b *FakeBackend) BaseURL() string {
	return b.URL + "/api"
}

// FailNext makes the next request answer status with body, whatever its route.
func (b *FakeBackend) FailNext(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, cannedResponse{status: status, body: body})
}

// Requests returns every request received so far.
func (b *FakeBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// LastRequest returns the most recent request.
func (b *FakeBackend) LastRequest() (RecordedRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return RecordedRequest{}, false
	}
	return b.requests[len(b.requests)-1], true
}

// SignToken issues a token for subject valid for ttl.
func (b *FakeBackend) SignToken(subject string, ttl time.Duration) string {
	return SignToken(b.Secret, subject, ttl)
}

// SignToken issues an HS256 JWT for subject valid for ttl. A negative ttl
// yields an already expired token.
func SignToken(secret []byte, subject string, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (b *FakeBackend) router() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", b.register).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(b.requireToken)

	authed.HandleFunc("/boards/", b.listBoards).Methods(http.MethodGet)
	authed.HandleFunc("/boards/", b.createBoard).Methods(http.MethodPost)
	authed.HandleFunc("/boards/{id}", b.getBoard).Methods(http.MethodGet)
	authed.HandleFunc("/boards/{id}", b.updateBoard).Methods(http.MethodPut)
	authed.HandleFunc("/boards/{id}", b.deleteBoard).Methods(http.MethodDelete)

	authed.HandleFunc("/lists/reorder/", b.reorderLists).Methods(http.MethodPut)
	authed.HandleFunc("/lists/board/{id}", b.listLists).Methods(http.MethodGet)
	authed.HandleFunc("/lists/", b.createList).Methods(http.MethodPost)
	authed.HandleFunc("/lists/{id}/", b.renameList).Methods(http.MethodPut)
	authed.HandleFunc("/lists/{id}", b.deleteList).Methods(http.MethodDelete)

	authed.HandleFunc("/cards/reorder/", b.reorderCards).Methods(http.MethodPost)
	authed.HandleFunc("/cards/list/{id}", b.listCards).Methods(http.MethodGet)
	authed.HandleFunc("/cards/", b.createCard).Methods(http.MethodPost)
	authed.HandleFunc("/cards/{id}/", b.updateCard).Methods(http.MethodPut)
	authed.HandleFunc("/cards/{id}", b.deleteCard).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	})
	return r
}

// record stores the request and serves a queued failure if one is pending.
func (b *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		var canned *cannedResponse
		if len(b.failures) > 0 {
			canned = &b.failures[0]
			b.failures = b.failures[1:]
		}
		b.mu.Unlock()

		if canned != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(canned.status)
			_, _ = io.WriteString(w, canned.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireToken rejects requests without a valid bearer token the way
// flask-jwt-extended does: 401 with a "msg" field.
func (b *FakeBackend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || raw == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Missing Authorization Header"})
			return
		}
		_, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
			return b.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": err.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResult writes v, or the FakeService error as a JSON message body.
func writeResult(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		code := http.StatusInternalServerError
		msg := err.Error()
		var se *service.Error
		if errors.As(err, &se) && se.Kind == service.KindRejected && se.Status != 0 {
			code = se.Status
			msg = se.Message
		}
		writeJSON(w, code, map[string]string{"message": msg})
		return
	}
	writeJSON(w, status, v)
}

// decode reads the JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON"})
		return false
	}
	return true
}

func (b *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if !decode(w, r, &creds) {
		return
	}
	res, err := b.Service.Login(r.Context(), creds)
	if err == nil {
		res.Token = b.SignToken(res.User.ID, time.Hour)
	}
	writeResult(w, http.StatusOK, res, err)
}

func (b *FakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var reg service.Registration
	if !decode(w, r, &reg) {
		return
	}
	res, err := b.Service.Register(r.Context(), reg)
	if err == nil {
		res.Token = b.SignToken(res.User.ID, time.Hour)
	}
	writeResult(w, http.StatusCreated, res, err)
}

func (b *FakeBackend) listBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := b.Service.ListBoards(r.Context())
	writeResult(w, http.StatusOK, boards, err)
}

func (b *FakeBackend) getBoard(w http.ResponseWriter, r *http.Request) {
	board, err := b.Service.GetBoard(r.Context(), mux.Vars(r)["id"])
	writeResult(w, http.StatusOK, board, err)
}

func (b *FakeBackend) createBoard(w http.ResponseWriter, r *http.Request) {
	var in service.BoardInput
	if !decode(w, r, &in) {
		return
	}
	board, err := b.Service.CreateBoard(r.Context(), in)
	writeResult(w, http.StatusCreated, board, err)
}

func (b *FakeBackend) updateBoard(w http.ResponseWriter, r *http.Request) {
	var in service.BoardInput
	if !decode(w, r, &in) {
		return
	}
	board, err := b.Service.UpdateBoard(r.Context(), mux.Vars(r)["id"], in)
	writeResult(w, http.StatusOK, board, err)
}

func (b *FakeBackend) deleteBoard(w http.ResponseWriter, r *http.Request) {
	err := b.Service.DeleteBoard(r.Context(), mux.Vars(r)["id"])
	writeResult(w, http.StatusOK, map[string]string{"message": "Board deleted"}, err)
}

func (b *FakeBackend) listLists(w http.ResponseWriter, r *http.Request) {
	lists, err := b.Service.ListLists(r.Context(), mux.Vars(r)["id"])
	writeResult(w, http.StatusOK, lists, err)
}

func (b *FakeBackend) createList(w http.ResponseWriter, r *http.Request) {
	var in service.ListInput
	if !decode(w, r, &in) {
		return
	}
	list, err := b.Service.CreateList(r.Context(), in)
	writeResult(w, http.StatusCreated, list, err)
}

func (b *FakeBackend) renameList(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title string `json:"title"`
	}
	if !decode(w, r, &in) {
		return
	}
	list, err := b.Service.RenameList(r.Context(), mux.Vars(r)["id"], in.Title)
	writeResult(w, http.StatusOK, list, err)
}

func (b *FakeBackend) deleteList(w http.ResponseWriter, r *http.Request) {
	err := b.Service.DeleteList(r.Context(), mux.Vars(r)["id"])
	writeResult(w, http.StatusOK, map[string]string{"message": "List deleted"}, err)
}

func (b *FakeBackend) reorderLists(w http.ResponseWriter, r *http.Request) {
	var order service.ListOrder
	if !decode(w, r, &order) {
		return
	}
	err := b.Service.ReorderLists(r.Context(), order)
	writeResult(w, http.StatusOK, map[string]string{"message": "Lists reordered"}, err)
}

func (b *FakeBackend) listCards(w http.ResponseWriter, r *http.Request) {
	cards, err := b.Service.ListCards(r.Context(), mux.Vars(r)["id"])
	writeResult(w, http.StatusOK, cards, err)
}

func (b *FakeBackend) createCard(w http.ResponseWriter, r *http.Request) {
	var in service.CardInput
	if !decode(w, r, &in) {
		return
	}
	card, err := b.Service.CreateCard(r.Context(), in)
	writeResult(w, http.StatusCreated, card, err)
}

// updateCard merges the non-null body fields over the stored card, so a
// null field keeps its value and "" clears it.
func (b *FakeBackend) updateCard(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if !decode(w, r, &fields) {
		return
	}
	for k, v := range fields {
		if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			delete(fields, k)
		}
	}

	id := mux.Vars(r)["id"]
	var in service.CardInput
	if current, ok := b.Service.Card(id); ok {
		in = service.InputFromCard(current)
		if in.Deadline != nil {
			d := *in.Deadline
			in.Deadline = &d
		}
	}
	merged, _ := json.Marshal(fields)
	if err := json.Unmarshal(merged, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON"})
		return
	}
	card, err := b.Service.UpdateCard(r.Context(), id, in)
	writeResult(w, http.StatusOK, card, err)
}

func (b *FakeBackend) deleteCard(w http.ResponseWriter, r *http.Request) {
	err := b.Service.DeleteCard(r.Context(), mux.Vars(r)["id"])
	writeResult(w, http.StatusOK, map[string]string{"message": "Card deleted"}, err)
}

func (b *FakeBackend) reorderCards(w http.ResponseWriter, r *http.Request) {
	var order service.CardOrder
	if !decode(w, r, &order) {
		return
	}
	err := b.Service.ReorderCards(r.Context(), order)
	writeResult(w, http.StatusOK, map[string]string{"message": "Cards reordered"}, err)
}
