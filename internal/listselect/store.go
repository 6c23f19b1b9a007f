// Package listselect provides the client-side state machine behind every
// filterable list with bulk selection: search text, a resource-specific extra
// filter, pagination and the set of selected entity ids. One generic store is
// instantiated per resource (users, sessions).
package listselect

import (
	"sort"
	"sync"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// Filters is a snapshot of the current filter state. Extra carries the
// resource-specific fields (status/role for users, device type for sessions).
type Filters[F comparable] struct {
	Search   string
	Extra    F
	Page     int
	PageSize int
}

// Store holds filter and selection state for one resource list. All methods
// are safe for concurrent use, though in practice only the UI goroutine
// mutates it. Every filter transition except SetPage resets the page to 1 so
// a filter change can never leave the user on an out-of-range page.
type Store[F comparable] struct {
	mu       sync.RWMutex
	defaults Filters[F]
	filters  Filters[F]
	selected map[string]struct{}
}

func New[F comparable](defaultExtra F) *Store[F] {
	defaults := Filters[F]{
		Extra:    defaultExtra,
		Page:     defaultPage,
		PageSize: defaultPageSize,
	}
	return &Store[F]{
		defaults: defaults,
		filters:  defaults,
		selected: make(map[string]struct{}),
	}
}

func (s *Store[F]) Filters() Filters[F] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *Store[F]) SetSearch(search string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Search = search
	s.filters.Page = defaultPage
}

func (s *Store[F]) SetExtra(extra F) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.Extra = extra
	s.filters.Page = defaultPage
}

func (s *Store[F]) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = 1
	}
	s.filters.Page = page
}

func (s *Store[F]) SetPageSize(pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	s.filters.PageSize = pageSize
	s.filters.Page = defaultPage
}

func (s *Store[F]) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.defaults
}

// SelectedIDs returns the selection in sorted order.
func (s *Store[F]) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store[F]) Selected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

func (s *Store[F]) HasSelection() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected) > 0
}

func (s *Store[F]) SetSelected(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s.selected[id] = struct{}{}
	}
}

func (s *Store[F]) Toggle(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
}

func (s *Store[F]) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// Prune drops selected ids no longer present in the latest fetched result
// set, so entities removed by another admin cannot linger in a pending bulk
// action.
func (s *Store[F]) Prune(knownIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == 0 {
		return
	}
	known := make(map[string]struct{}, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := known[id]; !ok {
			delete(s.selected, id)
		}
	}
}
