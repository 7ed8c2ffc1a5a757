package flow

import (
	"context"
	"sync"
	"time"
)

// Sort names a whitelisted sort field and direction for a query.
type Sort struct {
	Field string
	Desc  bool
}

// Query is one generation-tagged request handed to the backend query
// function. The generation identifies the attempt; the response is applied
// only if it still matches the coordinator's current generation on arrival.
type Query struct {
	Generation    uint64
	Text          string
	Filters       map[string]string
	Sort          Sort
	Page          int
	PageSize      int
	IncludeImages bool
}

// Page is one page of results from the backend.
type Page[T any] struct {
	Items      []T
	TotalCount int
	HasMore    bool
}

// QueryFunc performs the actual search against the data store. It must
// respect ctx; a superseded request's context is cancelled, but the
// settlement is discarded by generation either way.
type QueryFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

// SearchConfig configures a Search coordinator.
type SearchConfig[T any] struct {
	Query         QueryFunc[T]
	Debounce      time.Duration
	PageSize      int
	Filters       map[string]string
	Sort          Sort
	IncludeImages bool

	// OnUpdate fires after any visible-state change (loading, data, error,
	// page). Fire-and-forget; the TUI uses it to wake the program loop.
	OnUpdate func()

	// Observer may be nil.
	Observer Observer
}

// Search converts a (text, filters, sort, page, pageSize) configuration
// into a stream of backend queries that is debounced on free-text input and
// immune to out-of-order responses.
//
// Rules:
//   - any effective configuration change (settled text, filter, sort, page
//     size) advances the generation and resets the page to 1
//   - page navigation alone advances the generation but keeps the page
//   - a response is applied iff its generation is still current on arrival;
//     stale responses are dropped without touching any state
//   - a failed current query sets Err, clears loading and keeps the last
//     known data (no flash-to-empty); there is no automatic retry
//
// Used by: TUI products page (and any other searchable listing)
type Search[T any] struct {
	mu       sync.Mutex
	gen      Generation
	cancel   context.CancelFunc
	queryFn  QueryFunc[T]
	onUpdate func()
	observer Observer
	debounce *Debouncer[string]

	text          string
	filters       map[string]string
	sort          Sort
	page          int
	pageSize      int
	includeImages bool

	data    []T
	total   int
	hasMore bool
	loading bool
	err     error
	stopped bool
}

// NewSearch creates a coordinator and issues the initial query for the
// starting configuration.
func NewSearch[T any](cfg SearchConfig[T]) *Search[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	obs := cfg.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	s := &Search[T]{
		queryFn:       cfg.Query,
		onUpdate:      cfg.OnUpdate,
		observer:      obs,
		filters:       cloneFilters(cfg.Filters),
		sort:          cfg.Sort,
		page:          1,
		pageSize:      cfg.PageSize,
		includeImages: cfg.IncludeImages,
	}
	s.debounce = NewDebouncer("", cfg.Debounce, s.textSettled)

	s.mu.Lock()
	s.dispatch(false)
	s.mu.Unlock()
	s.notify()
	return s
}

// SetText feeds the free-text input through the debounce window. The query
// fires only once the text has been quiet for the configured delay.
func (s *Search[T]) SetText(text string) {
	s.debounce.Set(text)
}

// textSettled runs when the debounced text stabilizes.
func (s *Search[T]) textSettled(text string) {
	s.mu.Lock()
	if s.stopped || text == s.text {
		s.mu.Unlock()
		return
	}
	s.text = text
	s.dispatch(true)
	s.mu.Unlock()
	s.notify()
}

// SetFilter updates a discrete filter field. Not debounced; filters change
// via selection, not keystrokes. Resets to page 1.
func (s *Search[T]) SetFilter(key, value string) {
	s.mu.Lock()
	if s.stopped || s.filters[key] == value {
		s.mu.Unlock()
		return
	}
	if s.filters == nil {
		s.filters = make(map[string]string)
	}
	if value == "" {
		delete(s.filters, key)
	} else {
		s.filters[key] = value
	}
	s.dispatch(true)
	s.mu.Unlock()
	s.notify()
}

// SetSort updates the sort spec. Resets to page 1.
func (s *Search[T]) SetSort(sort Sort) {
	s.mu.Lock()
	if s.stopped || sort == s.sort {
		s.mu.Unlock()
		return
	}
	s.sort = sort
	s.dispatch(true)
	s.mu.Unlock()
	s.notify()
}

// SetPageSize updates the page size. Resets to page 1.
func (s *Search[T]) SetPageSize(size int) {
	s.mu.Lock()
	if s.stopped || size <= 0 || size == s.pageSize {
		s.mu.Unlock()
		return
	}
	s.pageSize = size
	s.dispatch(true)
	s.mu.Unlock()
	s.notify()
}

// SetPage jumps to page n. Page navigation does not reset the
// configuration and does not force the page back to 1.
func (s *Search[T]) SetPage(n int) {
	s.mu.Lock()
	if n < 1 {
		n = 1
	}
	if limit := s.totalPagesLocked(); n > limit {
		n = limit
	}
	if s.stopped || n == s.page {
		s.mu.Unlock()
		return
	}
	s.page = n
	s.dispatch(false)
	s.mu.Unlock()
	s.notify()
}

// NextPage advances one page if there is one.
func (s *Search[T]) NextPage() {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	s.SetPage(page + 1)
}

// PrevPage goes back one page if there is one.
func (s *Search[T]) PrevPage() {
	s.mu.Lock()
	page := s.page
	s.mu.Unlock()
	s.SetPage(page - 1)
}

// Refetch re-issues the query for the current configuration, bypassing the
// debounce delay. The generation advances, so any in-flight response is
// discarded on arrival.
func (s *Search[T]) Refetch() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.dispatch(false)
	s.mu.Unlock()
	s.notify()
}

// Data returns the last applied result items.
func (s *Search[T]) Data() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Loading reports whether the current generation's query is outstanding.
func (s *Search[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the current query failure, or nil.
func (s *Search[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// TotalCount returns the backend's total match count for the current
// configuration.
func (s *Search[T]) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// HasMore reports whether pages remain after the current one.
func (s *Search[T]) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Page returns the current 1-based page.
func (s *Search[T]) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// PageSize returns the current page size.
func (s *Search[T]) PageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageSize
}

// TotalPages returns the page count for the current total, at least 1.
func (s *Search[T]) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPagesLocked()
}

// Text returns the effective (settled) free-text query.
func (s *Search[T]) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Stop tears the coordinator down: cancels the debounce timer and any
// in-flight query. No state changes and no OnUpdate calls happen after
// Stop.
func (s *Search[T]) Stop() {
	s.debounce.Stop()
	s.mu.Lock()
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
}

// dispatch issues a generation-tagged query for the current configuration.
// Caller holds s.mu.
func (s *Search[T]) dispatch(resetPage bool) {
	if resetPage {
		s.page = 1
	}
	if s.cancel != nil {
		// Supersede the outstanding request before starting the next.
		s.cancel()
		s.cancel = nil
	}
	id := s.gen.Next()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.loading = true

	q := Query{
		Generation:    id,
		Text:          s.text,
		Filters:       cloneFilters(s.filters),
		Sort:          s.sort,
		Page:          s.page,
		PageSize:      s.pageSize,
		IncludeImages: s.includeImages,
	}
	s.observer.QueryIssued(id)
	go s.run(ctx, id, q)
}

// run awaits one query's settlement and reconciles it against the current
// generation. Stale settlements are dropped without touching any state,
// including loading; the newer request's own arrival governs that.
func (s *Search[T]) run(ctx context.Context, id uint64, q Query) {
	started := time.Now()
	page, err := s.queryFn(ctx, q)

	s.mu.Lock()
	if s.stopped || !s.gen.IsCurrent(id) {
		s.mu.Unlock()
		s.observer.QueryDiscarded(id)
		return
	}
	s.cancel = nil
	s.loading = false
	if err != nil {
		// Keep the last known data; no flash-to-empty, no retry.
		s.err = err
		s.mu.Unlock()
		s.observer.QueryFailed(id, err)
		s.notify()
		return
	}
	s.data = page.Items
	s.total = page.TotalCount
	s.hasMore = page.HasMore
	s.err = nil
	s.mu.Unlock()
	s.observer.QueryApplied(id, time.Since(started))
	s.notify()
}

func (s *Search[T]) totalPagesLocked() int {
	if s.pageSize <= 0 || s.total <= 0 {
		return 1
	}
	pages := (s.total + s.pageSize - 1) / s.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

func (s *Search[T]) notify() {
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

func cloneFilters(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
