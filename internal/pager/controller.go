// internal/pager/controller.go

// Package pager owns the paging state of one listings view: the committed
// filter, the cursor, the accumulated result list and the loading state
// machine. One fetch may be outstanding at a time; load-more and retry
// triggers arriving while a fetch is in flight are ignored, and a filter
// commit supersedes the in-flight fetch by invalidating its result.
package pager

import (
	"context"
	"sync"

	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/common/metrics"
	"marketplace-admin/internal/filter"
	"marketplace-admin/internal/models"
	"marketplace-admin/internal/query"
)

// State is the loading state of the hosting view.
type State int

const (
	Idle State = iota
	Loading
	LoadingMore
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case LoadingMore:
		return "loading_more"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time copy of the view state for rendering. An
// empty Listings slice with a nil Err is the "no results" presentation,
// which is distinct from the error presentation.
type Snapshot struct {
	State    State
	Listings []models.Listing
	HasMore  bool
	Err      error
}

// Controller drives paged fetches for a single view. It is not shared
// across views; each hosting page constructs its own. Methods may be
// called from multiple goroutines because fetch completions race with
// new commits, and the generation counter decides which of them wins.
type Controller struct {
	source   query.ListingSource
	pageSize int
	logger   logger.Logger

	mu         sync.Mutex
	state      State
	filter     filter.ListingFilter
	cursor     string
	hasMore    bool
	results    []models.Listing
	lastErr    error
	generation uint64
}

// NewController creates a controller for one hosting view.
func NewController(source query.ListingSource, pageSize int, log logger.Logger) *Controller {
	return &Controller{
		source:   source,
		pageSize: pageSize,
		logger:   log,
		state:    Idle,
		hasMore:  true,
	}
}

// Commit replaces the active filter, rewinds the cursor to the beginning
// and fetches the first page, which replaces the displayed list. A commit
// is accepted in any state: a filter change invalidates whatever fetch
// was outstanding, so that fetch's late result is discarded on arrival.
func (c *Controller) Commit(ctx context.Context, f filter.ListingFilter) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.filter = f
	c.cursor = ""
	c.hasMore = true
	c.lastErr = nil
	c.state = Loading
	c.mu.Unlock()

	return c.fetch(ctx, gen, f, "", true, "commit")
}

// LoadMore fetches the next page under the committed filter and appends
// it to the displayed list. Ignored unless the view is Idle with more
// results available.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Idle || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	f := c.filter
	cursor := c.cursor
	c.state = LoadingMore
	c.mu.Unlock()

	return c.fetch(ctx, gen, f, cursor, false, "load_more")
}

// Retry replays the failed fetch. Ignored unless the view is in the
// error state. A failed first page is replayed as a replace, a failed
// load-more as an append; the stored cursor tells them apart.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Failed {
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	f := c.filter
	cursor := c.cursor
	replace := cursor == ""
	if replace {
		c.state = Loading
	} else {
		c.state = LoadingMore
	}
	c.mu.Unlock()

	return c.fetch(ctx, gen, f, cursor, replace, "retry")
}

// Reset drops constraints (optionally keeping the search string), then
// commits the reset filter.
func (c *Controller) Reset(ctx context.Context, preserveSearch bool) error {
	c.mu.Lock()
	f := c.filter.Reset(preserveSearch)
	c.mu.Unlock()
	return c.Commit(ctx, f)
}

// Close invalidates any outstanding fetch; its late result will not be
// applied. Used when the hosting view unmounts.
func (c *Controller) Close() {
	c.mu.Lock()
	c.generation++
	c.state = Idle
	c.mu.Unlock()
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := Snapshot{
		State:   c.state,
		HasMore: c.hasMore,
		Err:     c.lastErr,
	}
	out.Listings = make([]models.Listing, len(c.results))
	copy(out.Listings, c.results)
	return out
}

// Filter returns the committed filter driving fetches.
func (c *Controller) Filter() filter.ListingFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// fetch runs one page fetch and applies the result unless the generation
// moved on while the request was in flight.
func (c *Controller) fetch(ctx context.Context, gen uint64, f filter.ListingFilter, cursor string, replace bool, kind string) error {
	page, err := c.source.FetchPage(ctx, f, c.pageSize, cursor)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// The filter changed or the view went away while this fetch was
		// in flight. The response is stale and must not touch the list.
		metrics.StaleResponsesDropped.Inc()
		c.logger.Debug("discarding stale fetch response", map[string]interface{}{
			"kind": kind,
		})
		return nil
	}

	if err != nil {
		c.state = Failed
		c.lastErr = err
		metrics.PagerFetches.WithLabelValues(kind, "error").Inc()
		c.logger.WithError(err).Warn("listing fetch failed", map[string]interface{}{
			"kind": kind,
		})
		return err
	}

	if replace {
		c.results = page.Listings
	} else {
		c.results = append(c.results, page.Listings...)
	}
	c.cursor = page.NextCursor
	c.hasMore = page.NextCursor != "" && len(page.Listings) == c.pageSize
	c.lastErr = nil
	c.state = Idle
	metrics.PagerFetches.WithLabelValues(kind, "success").Inc()

	return nil
}
