// Package live binds a continuously-updated remote collection to a filtered,
// paginated client view. The same mirror drives the orders, users and admins
// tables; pagination slices the already-materialized filtered set and never
// re-fetches.
package live

import (
	"strings"
	"sync"
	"time"
)

// DefaultPageSize is the fixed dashboard table page size.
const DefaultPageSize = 10

// DateRange names the fixed creation-time filters.
type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
)

// rangeStart computes the inclusive lower bound for a named range. The upper
// bound is always now.
func rangeStart(r DateRange, now time.Time) time.Time {
	switch r {
	case RangeToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	case RangeMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// Config describes how to filter one record type.
type Config[T any] struct {
	// ID uniquely identifies a record; used for new-arrival detection.
	ID func(T) string
	// SearchFields returns the values free-text search matches against.
	SearchFields func(T) []string
	// Status returns the record's status value, or "" when the type has none.
	Status func(T) string
	// CreatedAt returns the record's creation time.
	CreatedAt func(T) time.Time
	// OnNewArrivals is invoked once per update batch that adds records to an
	// already-populated mirror. Never invoked on the first population.
	OnNewArrivals func(count int)
	// PageSize overrides DefaultPageSize when positive.
	PageSize int
	// Now is the clock; defaults to time.Now. Tests pin it.
	Now func() time.Time
}

// View is the in-memory mirror of one remote collection plus its active
// filters and page. All methods are safe for concurrent use; the remote
// subscription feeds SetRecords while HTTP handlers read pages.
type View[T any] struct {
	mu  sync.Mutex
	cfg Config[T]

	records  []T
	filtered []T

	search    string
	status    string
	dateRange DateRange
	page      int

	populated bool
	seen      map[string]struct{}
}

// NewView creates an empty view for cfg.
func NewView[T any](cfg Config[T]) *View[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &View[T]{
		cfg:       cfg,
		dateRange: RangeAll,
		page:      1,
		seen:      make(map[string]struct{}),
	}
}

// SetRecords replaces the mirror with the latest full snapshot from the
// remote stream. Source order (creation-time descending) is taken as given
// and preserved through filtering. Additions to a previously non-empty
// mirror fire the new-arrival callback once for the whole batch.
func (v *View[T]) SetRecords(records []T) {
	v.mu.Lock()

	newCount := 0
	if v.cfg.ID != nil {
		next := make(map[string]struct{}, len(records))
		for _, r := range records {
			id := v.cfg.ID(r)
			next[id] = struct{}{}
			if _, ok := v.seen[id]; !ok {
				newCount++
			}
		}
		if !v.populated || len(v.seen) == 0 {
			newCount = 0
		}
		v.seen = next
	}
	v.populated = true
	v.records = records
	v.refilterLocked()

	notify := v.cfg.OnNewArrivals
	v.mu.Unlock()

	if newCount > 0 && notify != nil {
		notify(newCount)
	}
}

// SetSearch sets the free-text filter and resets to page 1.
func (v *View[T]) SetSearch(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = strings.TrimSpace(term)
	v.page = 1
	v.refilterLocked()
}

// SetStatus sets the exact-match status filter; "all" or "" disables it.
// Resets to page 1.
func (v *View[T]) SetStatus(status string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if status == "all" {
		status = ""
	}
	v.status = status
	v.page = 1
	v.refilterLocked()
}

// SetDateRange sets the creation-time filter and resets to page 1.
func (v *View[T]) SetDateRange(r DateRange) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dateRange = r
	v.page = 1
	v.refilterLocked()
}

// refilterLocked recomputes the filtered set. A record matches when ALL
// active predicates match.
func (v *View[T]) refilterLocked() {
	now := v.cfg.Now()
	start := rangeStart(v.dateRange, now)
	term := strings.ToLower(v.search)

	v.filtered = v.filtered[:0]
	for _, r := range v.records {
		if term != "" && !matchesSearch(v.cfg.SearchFields(r), term) {
			continue
		}
		if v.status != "" && v.cfg.Status != nil && v.cfg.Status(r) != v.status {
			continue
		}
		if v.dateRange != RangeAll && v.cfg.CreatedAt != nil {
			created := v.cfg.CreatedAt(r)
			if created.Before(start) || created.After(now) {
				continue
			}
		}
		v.filtered = append(v.filtered, r)
	}

	if max := v.pageCountLocked(); v.page > max {
		v.page = max
	}
}

func matchesSearch(fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// SetPage moves to page n, clamped to the valid range.
func (v *View[T]) SetPage(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if max := v.pageCountLocked(); n > max {
		n = max
	}
	v.page = n
}

// Page returns the current page number.
func (v *View[T]) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// PageCount returns the number of pages in the filtered set, at least 1.
func (v *View[T]) PageCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageCountLocked()
}

func (v *View[T]) pageCountLocked() int {
	n := (len(v.filtered) + v.cfg.PageSize - 1) / v.cfg.PageSize
	if n < 1 {
		n = 1
	}
	return n
}

// PageRecords returns the current page slice of the filtered set.
func (v *View[T]) PageRecords() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	start := (v.page - 1) * v.cfg.PageSize
	if start >= len(v.filtered) {
		return []T{}
	}
	end := start + v.cfg.PageSize
	if end > len(v.filtered) {
		end = len(v.filtered)
	}
	out := make([]T, end-start)
	copy(out, v.filtered[start:end])
	return out
}

// Filtered returns a copy of the whole filtered set, e.g. for CSV export of
// the visible records.
func (v *View[T]) Filtered() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]T, len(v.filtered))
	copy(out, v.filtered)
	return out
}

// Len returns the size of the filtered set.
func (v *View[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.filtered)
}
