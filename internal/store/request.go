package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"kboard/internal/service"
)

// State is the lifecycle state of one cache operation.
type State int

const (
	Pending State = iota
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Request is the handle of one cache operation. Each handle carries its own
// state, so concurrent operations on one cache stay distinguishable.
type Request struct {
	ID      uint64
	Op      string
	State   State
	Message string
	Err     error
	Started time.Time
	Ended   time.Time
}

// historySize bounds the finished requests kept per cache.
const historySize = 32

// tracker records request handles for one cache and derives the shared
// loading/error view from them.
type tracker struct {
	mu       sync.Mutex
	name     string
	log      *zap.Logger
	seq      uint64
	inflight map[uint64]*Request
	history  []Request
	err      string
}

func newTracker(name string, log *zap.Logger) *tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &tracker{
		name:     name,
		log:      log.With(zap.String("cache", name)),
		inflight: make(map[uint64]*Request),
	}
}

// start opens a handle. Starting any operation clears the shared error.
func (t *tracker) start(op string) *Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	r := &Request{ID: t.seq, Op: op, State: Pending, Started: time.Now()}
	t.inflight[r.ID] = r
	t.err = ""
	return r
}

// finish closes a handle. A failure sets the shared error to its message,
// or fallback when the backend gave none.
func (t *tracker) finish(r *Request, err error, fallback string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inflight, r.ID)
	r.Ended = time.Now()
	if err != nil {
		r.State = Failed
		r.Err = err
		r.Message = service.Message(err, fallback)
		t.err = r.Message
		t.log.Debug("request failed", zap.String("op", r.Op), zap.String("message", r.Message), zap.Error(err))
	} else {
		r.State = Succeeded
		t.log.Debug("request done", zap.String("op", r.Op), zap.Duration("elapsed", r.Ended.Sub(r.Started)))
	}
	t.history = append(t.history, *r)
	if len(t.history) > historySize {
		t.history = t.history[len(t.history)-historySize:]
	}
}

// run wraps fn in a request handle.
func (t *tracker) run(ctx context.Context, op, fallback string, fn func(ctx context.Context) error) error {
	r := t.start(op)
	err := fn(ctx)
	t.finish(r, err, fallback)
	return err
}

// Loading reports whether any operation on the cache is in flight.
func (t *tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight) > 0
}

// Err returns the shared error message: cleared when any operation starts,
// set when any operation fails.
func (t *tracker) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// ClearError resets the shared error message.
func (t *tracker) ClearError() {
	t.mu.Lock()
	t.err = ""
	t.mu.Unlock()
}

// Requests returns the in-flight handles followed by recent finished ones,
// oldest first within each group.
func (t *tracker) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Request, 0, len(t.inflight)+len(t.history))
	for _, r := range t.inflight {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return append(out, t.history...)
}
