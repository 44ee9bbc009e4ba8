// Package feed implements the paginated feed controller behind the home page:
// an append-only list of papers, a page cursor and the loading/exhaustion
// flags that decide when another page is requested.
package feed

import (
	"context"
	"log"
	"sync"

	"github.com/csheth/arxivsocial/internal/papers"
)

// Lister fetches one page of papers. *papers.Client satisfies it.
type Lister interface {
	ListPapers(ctx context.Context, query papers.PageQuery) ([]papers.Paper, error)
}

// State is the controller's position in the Idle/Loading/Exhausted machine.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateExhausted:
		return "exhausted"
	default:
		return "idle"
	}
}

// Outcome reports what applying a page result did.
type Outcome int

const (
	// OutcomeSkipped means no request was issued: a fetch was already in
	// flight or the feed is exhausted.
	OutcomeSkipped Outcome = iota
	OutcomeAppended
	OutcomeExhausted
	OutcomeFailed
	// OutcomeStale means the result belonged to a filter session that has
	// since been reset and was discarded.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAppended:
		return "appended"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "skipped"
	}
}

const firstPage = 1

// Request is an in-flight page fetch tagged with the epoch it was issued in.
type Request struct {
	Query papers.PageQuery
	Epoch uint64
}

// Result carries the response for a Request.
type Result struct {
	Request Request
	Papers  []papers.Paper
	Err     error
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	Papers []papers.Paper
	Page   int
	State  State
	Filter papers.Filter
}

// Loading reports whether a page request is outstanding.
func (s Snapshot) Loading() bool { return s.State == StateLoading }

// Exhausted reports whether the server signalled the end of the feed.
func (s Snapshot) Exhausted() bool { return s.State == StateExhausted }

// Option customises a Controller.
type Option func(*Controller)

// WithPageSize overrides the limit sent with every page request.
func WithPageSize(limit int) Option {
	return func(c *Controller) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// WithFilter sets the criteria used for the first session.
func WithFilter(filter papers.Filter) Option {
	return func(c *Controller) {
		c.filter = filter.Normalize()
	}
}

// Controller owns the feed sequence for one view. A second trigger while a
// page is in flight is dropped, never queued.
type Controller struct {
	lister Lister
	limit  int

	mu        sync.Mutex
	items     []papers.Paper
	page      int
	loading   bool
	exhausted bool
	filter    papers.Filter
	epoch     uint64
}

// New returns a controller positioned before the first page.
func New(lister Lister, opts ...Option) *Controller {
	c := &Controller{
		lister: lister,
		limit:  papers.DefaultPageSize,
		page:   firstPage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin claims the single in-flight slot. It returns false when a fetch is
// already outstanding or the feed is exhausted.
func (c *Controller) Begin() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginLocked()
}

func (c *Controller) beginLocked() (Request, bool) {
	if c.loading || c.exhausted {
		return Request{}, false
	}
	c.loading = true
	return Request{
		Query: papers.PageQuery{Page: c.page, Limit: c.limit, Filter: c.filter},
		Epoch: c.epoch,
	}, true
}

// Fetch performs the HTTP request for req without touching controller state.
func (c *Controller) Fetch(ctx context.Context, req Request) Result {
	page, err := c.lister.ListPapers(ctx, req.Query)
	return Result{Request: req, Papers: page, Err: err}
}

// Complete applies a result. Failures are logged and otherwise ignored; the
// page is not retried.
func (c *Controller) Complete(res Result) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Request.Epoch != c.epoch {
		log.Printf("[feed] dropping page %d from stale session %d (current %d)", res.Request.Query.Page, res.Request.Epoch, c.epoch)
		return OutcomeStale
	}
	c.loading = false
	if res.Err != nil {
		log.Printf("[feed] page %d failed: %v", res.Request.Query.Page, res.Err)
		return OutcomeFailed
	}
	if len(res.Papers) == 0 {
		c.exhausted = true
		return OutcomeExhausted
	}
	c.items = append(c.items, res.Papers...)
	c.page = res.Request.Query.Page + 1
	return OutcomeAppended
}

// LoadNextPage fetches and applies the next page synchronously.
func (c *Controller) LoadNextPage(ctx context.Context) Outcome {
	req, ok := c.Begin()
	if !ok {
		return OutcomeSkipped
	}
	return c.Complete(c.Fetch(ctx, req))
}

// OnViewportSentinelVisible is called when the end of the rendered list comes
// into view.
func (c *Controller) OnViewportSentinelVisible() (Request, bool) {
	return c.Begin()
}

// OnFilterChanged switches to new criteria. With papers already loaded it
// clears the sequence, rewinds the cursor, starts a new session and claims
// exactly one fetch. With nothing loaded it only records the criteria; the
// next sentinel trigger loads them.
func (c *Controller) OnFilterChanged(filter papers.Filter) (Request, bool) {
	filter = filter.Normalize()

	c.mu.Lock()
	defer c.mu.Unlock()

	if filter == c.filter {
		return Request{}, false
	}
	c.filter = filter
	if len(c.items) == 0 {
		// An outstanding or exhausted session for the old criteria must not
		// leak into the new one.
		if c.loading || c.exhausted {
			c.resetLocked()
		}
		return Request{}, false
	}
	c.resetLocked()
	return c.beginLocked()
}

// Search replaces the free-text term of the current filter.
func (c *Controller) Search(term string) (Request, bool) {
	filter := c.Filter()
	filter.Search = term
	return c.OnFilterChanged(filter)
}

func (c *Controller) resetLocked() {
	c.items = nil
	c.page = firstPage
	c.exhausted = false
	c.loading = false
	c.epoch++
}

// Filter returns the active criteria.
func (c *Controller) Filter() papers.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]papers.Paper, len(c.items))
	copy(items, c.items)
	state := StateIdle
	switch {
	case c.loading:
		state = StateLoading
	case c.exhausted:
		state = StateExhausted
	}
	return Snapshot{Papers: items, Page: c.page, State: state, Filter: c.filter}
}

// Len returns the number of loaded papers.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
