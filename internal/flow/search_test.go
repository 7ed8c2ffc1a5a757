package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeBackend records queries and answers them according to a per-text
// script: blocked texts wait on a release channel, failing texts error.
type fakeBackend struct {
	mu      sync.Mutex
	calls   []Query
	items   map[string][]string
	total   int
	blocked map[string]chan struct{}
	failing bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		items:   make(map[string][]string),
		blocked: make(map[string]chan struct{}),
	}
}

func (f *fakeBackend) query(ctx context.Context, q Query) (Page[string], error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	gate := f.blocked[q.Text]
	failing := f.failing
	items := f.items[q.Text]
	total := f.total
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			// Cooperative cancellation; the settlement is discarded by
			// generation either way.
		}
	}
	if failing {
		return Page[string]{}, errors.New("query failed")
	}
	if total == 0 {
		total = len(items)
	}
	return Page[string]{Items: items, TotalCount: total, HasMore: q.Page*q.PageSize < total}, nil
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) callTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts := make([]string, len(f.calls))
	for i, c := range f.calls {
		texts[i] = c.Text
	}
	return texts
}

func (f *fakeBackend) lastCall() (Query, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Query{}, false
	}
	return f.calls[len(f.calls)-1], true
}

func TestSearch_InitialQueryIssued(t *testing.T) {
	backend := newFakeBackend()
	backend.items[""] = []string{"hammer", "nails"}

	s := NewSearch(SearchConfig[string]{Query: backend.query, PageSize: 10})
	defer s.Stop()

	waitFor(t, time.Second, func() bool { return !s.Loading() })

	if backend.callCount() != 1 {
		t.Fatalf("got %d queries, want 1 initial", backend.callCount())
	}
	if len(s.Data()) != 2 {
		t.Errorf("Data() has %d items, want 2", len(s.Data()))
	}
	if s.TotalCount() != 2 {
		t.Errorf("TotalCount() = %d, want 2", s.TotalCount())
	}
}

func TestSearch_TextIsDebounced(t *testing.T) {
	backend := newFakeBackend()
	s := NewSearch(SearchConfig[string]{
		Query:    backend.query,
		Debounce: 80 * time.Millisecond,
		PageSize: 10,
	})
	defer s.Stop()

	waitFor(t, time.Second, func() bool { return backend.callCount() == 1 })

	// "sh" then "shoe" inside the debounce window: the backend must see
	// exactly one keystroke-driven query, with the final text.
	s.SetText("sh")
	time.Sleep(20 * time.Millisecond)
	s.SetText("shoe")

	waitFor(t, time.Second, func() bool { return backend.callCount() == 2 })
	time.Sleep(150 * time.Millisecond)

	for _, text := range backend.callTexts() {
		if text == "sh" {
			t.Error("backend saw intermediate text \"sh\"")
		}
	}
	if last, _ := backend.lastCall(); last.Text != "shoe" {
		t.Errorf("last query text = %q, want %q", last.Text, "shoe")
	}
	if backend.callCount() != 2 {
		t.Errorf("got %d queries, want 2 (initial + settled text)", backend.callCount())
	}
}

func TestSearch_StaleResponseDiscarded(t *testing.T) {
	backend := newFakeBackend()
	backend.items["slow"] = []string{"OLD"}
	backend.items["fast"] = []string{"NEW"}
	release := make(chan struct{})
	backend.blocked["slow"] = release

	obs := &countingObserver{}
	s := NewSearch(SearchConfig[string]{
		Query:    backend.query,
		Observer: obs,
		PageSize: 10,
	})
	defer s.Stop()
	waitFor(t, time.Second, func() bool { return !s.Loading() })

	// R1 hangs; R2 issued after it resolves first.
	s.SetText("slow")
	waitFor(t, time.Second, func() bool { return backend.callCount() == 2 })
	s.SetText("fast")
	waitFor(t, time.Second, func() bool { return !s.Loading() })

	data := s.Data()
	if len(data) != 1 || data[0] != "NEW" {
		t.Fatalf("Data() = %v, want the newer request's result", data)
	}

	// Now let R1 settle: its result must be dropped without touching state.
	close(release)
	waitFor(t, time.Second, func() bool { return obs.discarded.Load() >= 1 })

	data = s.Data()
	if len(data) != 1 || data[0] != "NEW" {
		t.Errorf("stale response mutated data: %v", data)
	}
	if s.Loading() {
		t.Error("stale response toggled loading")
	}
}

func TestSearch_FilterChangeResetsPage(t *testing.T) {
	backend := newFakeBackend()
	backend.total = 100

	s := NewSearch(SearchConfig[string]{Query: backend.query, PageSize: 10})
	defer s.Stop()
	waitFor(t, time.Second, func() bool { return !s.Loading() })

	s.SetPage(3)
	waitFor(t, time.Second, func() bool { return !s.Loading() })
	if s.Page() != 3 {
		t.Fatalf("Page() = %d after SetPage(3), want 3", s.Page())
	}
	if last, _ := backend.lastCall(); last.Page != 3 {
		t.Errorf("backend saw page %d, want 3", last.Page)
	}

	s.SetFilter("category", "tools")
	waitFor(t, time.Second, func() bool { return !s.Loading() })
	if s.Page() != 1 {
		t.Errorf("Page() = %d after filter change, want reset to 1", s.Page())
	}
	last, _ := backend.lastCall()
	if last.Page != 1 {
		t.Errorf("backend saw page %d after filter change, want 1", last.Page)
	}
	if last.Filters["category"] != "tools" {
		t.Errorf("backend filters = %v, want category=tools", last.Filters)
	}
}

func TestSearch_PageNavigationKeepsConfiguration(t *testing.T) {
	backend := newFakeBackend()
	backend.total = 50

	s := NewSearch(SearchConfig[string]{Query: backend.query, PageSize: 10})
	defer s.Stop()
	waitFor(t, time.Second, func() bool { return !s.Loading() })

	s.SetFilter("store", "main")
	waitFor(t, time.Second, func() bool { return !s.Loading() })

	s.NextPage()
	waitFor(t, time.Second, func() bool { return !s.Loading() })
	last, _ := backend.lastCall()
	if last.Page != 2 {
		t.Errorf("NextPage: backend saw page %d, want 2", last.Page)
	}
	if last.Filters["store"] != "main" {
		t.Errorf("NextPage dropped filters: %v", last.Filters)
	}

	s.PrevPage()
	waitFor(t, time.Second, func() bool { return !s.Loading() })
	if last, _ := backend.lastCall(); last.Page != 1 {
		t.Errorf("PrevPage: backend saw page %d, want 1", last.Page)
	}
	if s.Page() != 1 {
		t.Errorf("Page() = %d, want 1", s.Page())
	}
}

func TestSearch_FailureKeepsLastData(t *testing.T) {
	backend := newFakeBackend()
	backend.items[""] = []string{"keep", "me"}

	s := NewSearch(SearchConfig[string]{Query: backend.query, PageSize: 10})
	defer s.Stop()
	waitFor(t, time.Second, func() bool { return len(s.Data()) == 2 })

	backend.mu.Lock()
	backend.failing = true
	backend.mu.Unlock()

	s.Refetch()
	waitFor(t, time.Second, func() bool { return s.Err() != nil })

	if s.Loading() {
		t.Error("Loading() still true after failure")
	}
	if len(s.Data()) != 2 {
		t.Errorf("failure flushed data: %v", s.Data())
	}

	// Recovery clears the error.
	backend.mu.Lock()
	backend.failing = false
	backend.mu.Unlock()
	s.Refetch()
	waitFor(t, time.Second, func() bool { return s.Err() == nil && !s.Loading() })
}

func TestSearch_RefetchBypassesDebounce(t *testing.T) {
	backend := newFakeBackend()
	s := NewSearch(SearchConfig[string]{
		Query:    backend.query,
		Debounce: 10 * time.Second,
		PageSize: 10,
	})
	defer s.Stop()
	waitFor(t, time.Second, func() bool { return backend.callCount() == 1 })

	s.Refetch()
	waitFor(t, time.Second, func() bool { return backend.callCount() == 2 })
}

func TestSearch_StopSilencesInFlight(t *testing.T) {
	backend := newFakeBackend()
	backend.items["x"] = []string{"never applied"}
	release := make(chan struct{})
	backend.blocked["x"] = release

	var updates int
	var mu sync.Mutex
	s := NewSearch(SearchConfig[string]{
		Query:    backend.query,
		PageSize: 10,
		OnUpdate: func() {
			mu.Lock()
			updates++
			mu.Unlock()
		},
	})
	waitFor(t, time.Second, func() bool { return !s.Loading() })

	s.SetText("x")
	waitFor(t, time.Second, func() bool { return backend.callCount() == 2 })
	s.Stop()

	mu.Lock()
	before := updates
	mu.Unlock()

	close(release)
	time.Sleep(50 * time.Millisecond)

	if len(s.Data()) != 0 {
		t.Errorf("in-flight result applied after Stop: %v", s.Data())
	}
	mu.Lock()
	after := updates
	mu.Unlock()
	if after != before {
		t.Error("OnUpdate fired after Stop")
	}
}
