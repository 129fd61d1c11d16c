package listing

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
	"github.com/RaymondAhuren/swedru-konnect/internal/observability"
)

const (
	defaultPageSize = 10
	searchSettle    = 300 * time.Millisecond
	searchTimeout   = 15 * time.Second
)

// Snapshot is the published, read-only view of the listing query
type Snapshot struct {
	Filters    domain.Filters    `json:"filters"`
	Pagination domain.Pagination `json:"pagination"`
	Products   []domain.Product  `json:"products"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
}

// NoResults reports whether the query settled on an empty result while a
// search or filter was active. Views use this for the "no results" state.
func (s Snapshot) NoResults() bool {
	return len(s.Products) == 0 && !s.Loading &&
		(strings.TrimSpace(s.Filters.Search) != "" || s.Filters.Category != "")
}

// Manager owns the product search/filter/pagination state. Filter changes
// reset the page atomically and trigger a refetch; a failed fetch keeps
// the last good products visible. Responses are fenced by a monotonic
// sequence number so a slow stale fetch can never overwrite newer state.
type Manager struct {
	api domain.ProductAPI

	mu         sync.Mutex
	filters    domain.Filters
	pagination domain.Pagination
	products   []domain.Product
	loading    bool
	lastErr    string
	seq        uint64

	debounce *Debouncer

	subs    map[uint64]chan Snapshot
	nextSub uint64
}

// NewManager creates the listing query manager with the given page size
func NewManager(api domain.ProductAPI, pageSize int) *Manager {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Manager{
		api: api,
		pagination: domain.Pagination{
			Page:       1,
			Limit:      pageSize,
			TotalPages: 1,
		},
		products: []domain.Product{},
		debounce: NewDebouncer(searchSettle),
		subs:     make(map[uint64]chan Snapshot),
	}
}

// Snapshot returns a copy of the current query state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	products := make([]domain.Product, len(m.products))
	copy(products, m.products)
	return Snapshot{
		Filters:    m.filters,
		Pagination: m.pagination,
		Products:   products,
		Loading:    m.loading,
		Error:      m.lastErr,
	}
}

// Subscribe returns a channel receiving a snapshot on every state change,
// plus a cancel func
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Snapshot, 16)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (m *Manager) publishLocked() {
	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// UpdateFilters merges the patch into the current filters and resets the
// page to 1 in the same critical section, then refetches. A caller can
// never observe the old page against the new filters.
func (m *Manager) UpdateFilters(ctx context.Context, patch domain.FilterPatch) error {
	m.mu.Lock()
	patch.Apply(&m.filters)
	m.pagination.Page = 1
	q, seq := m.beginFetchLocked()
	m.mu.Unlock()

	return m.runFetch(ctx, q, seq)
}

// GoToPage moves to page n without touching filters, then refetches
func (m *Manager) GoToPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}

	m.mu.Lock()
	m.pagination.Page = n
	q, seq := m.beginFetchLocked()
	m.mu.Unlock()

	return m.runFetch(ctx, q, seq)
}

// Fetch re-runs the query with the current page and filters
func (m *Manager) Fetch(ctx context.Context) error {
	m.mu.Lock()
	q, seq := m.beginFetchLocked()
	m.mu.Unlock()

	return m.runFetch(ctx, q, seq)
}

// SearchDebounced applies a search-text change after keystrokes settle.
// Each call cancels the previously pending one.
func (m *Manager) SearchDebounced(query string) {
	m.debounce.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		if err := m.UpdateFilters(ctx, domain.FilterPatch{Search: &query}); err != nil {
			observability.FromContext(ctx).Warn("debounced search fetch failed",
				slog.String("query", query),
				slog.String("error", err.Error()))
		}
	})
}

// beginFetchLocked issues a new fetch sequence and marks the query loading
func (m *Manager) beginFetchLocked() (domain.ListQuery, uint64) {
	m.seq++
	m.loading = true
	m.lastErr = ""
	m.publishLocked()
	return domain.ListQuery{
		Page:    m.pagination.Page,
		Limit:   m.pagination.Limit,
		Filters: m.filters,
	}, m.seq
}

// runFetch performs the backend query and applies the result if it is
// still the latest issued fetch. On failure the previous products stay
// visible; stale-but-valid data beats an empty flash.
func (m *Manager) runFetch(ctx context.Context, q domain.ListQuery, seq uint64) error {
	page, err := m.api.ListProducts(ctx, q)

	m.mu.Lock()
	defer m.mu.Unlock()

	if seq != m.seq {
		// Superseded by a newer fetch; discard whatever this one returned
		observability.ListingFetchesTotal.WithLabelValues("stale_discarded").Inc()
		return nil
	}

	m.loading = false
	if err != nil {
		m.lastErr = domain.ErrorMessage(err, "Failed to fetch products")
		observability.ListingFetchesTotal.WithLabelValues("error").Inc()
		m.publishLocked()
		return err
	}

	m.products = page.Products
	m.pagination.Total = page.Total
	m.pagination.TotalPages = page.TotalPages
	m.lastErr = ""
	observability.ListingFetchesTotal.WithLabelValues("ok").Inc()
	m.publishLocked()
	return nil
}

// Close cancels any pending debounced search and drops all subscribers
func (m *Manager) Close() {
	m.debounce.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}
