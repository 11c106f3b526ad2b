// Package store provides a client-side state container over an entity
// resource: one page of items, pagination counters, per-operation loading
// flags and the last error, kept consistent by optimistic mutations.
package store

import (
	"context"
	"net/url"
	"sync"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// Backend is the slice of the entity client a store drives. The SDK's
// Resource type satisfies it for every entity.
type Backend[T any] interface {
	List(ctx context.Context, query url.Values) (*model.PageData[*T], error)
	Create(ctx context.Context, body interface{}) (*T, error)
	Update(ctx context.Context, id uint, body interface{}) (*T, error)
	Delete(ctx context.Context, id uint) error
	BatchDelete(ctx context.Context, ids []uint) error
	UpdateStatus(ctx context.Context, id uint, status string) (*T, error)
	BatchUpdateStatus(ctx context.Context, ids []uint, status string) error
	CheckSlug(ctx context.Context, slug string, excludeID uint) (bool, error)
}

// Config wires a store to its backend. ID extracts an item's identifier.
// SetStatus is optional; when set, batch status updates patch matching
// items in place instead of leaving them stale.
type Config[T any] struct {
	Backend   Backend[T]
	ID        func(*T) uint
	SetStatus func(*T, string)
}

// Flags reports which operations are in flight.
type Flags struct {
	List   bool
	Create bool
	Update bool
	Delete bool
	Batch  bool
}

// Pagination mirrors the server's page counters. TotalPages is recomputed
// whenever Total or Size changes.
type Pagination struct {
	Page       int
	Size       int
	Total      int64
	TotalPages int
}

// Store holds one listing's client-side state. All methods are safe for
// concurrent use; reads return copies so callers never alias internal state.
type Store[T any] struct {
	backend   Backend[T]
	idOf      func(*T) uint
	setStatus func(*T, string)

	mu         sync.Mutex
	items      []*T
	pagination Pagination
	loading    Flags
	lastErr    error
	lastQuery  url.Values

	// Fetch sequencing: results apply only when newer than the last
	// applied one, so a slow response never overwrites a fresher page.
	issuedSeq   uint64
	appliedSeq  uint64
	inflightGet int
}

// New builds a store. It panics when Backend or ID is missing since no
// operation can work without them.
func New[T any](cfg Config[T]) *Store[T] {
	if cfg.Backend == nil || cfg.ID == nil {
		panic("store: Config.Backend and Config.ID are required")
	}
	return &Store[T]{
		backend:   cfg.Backend,
		idOf:      cfg.ID,
		setStatus: cfg.SetStatus,
	}
}

// Fetch loads one page and replaces the store's items wholesale. When
// several fetches race, only the most recently issued one lands; stale
// responses are discarded without touching state or the recorded error.
func (s *Store[T]) Fetch(ctx context.Context, query url.Values) error {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.inflightGet++
	s.loading.List = true
	s.lastQuery = cloneQuery(query)
	s.mu.Unlock()

	page, err := s.backend.List(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflightGet--
	if s.inflightGet == 0 {
		s.loading.List = false
	}
	if seq <= s.appliedSeq {
		return nil
	}
	s.appliedSeq = seq
	if err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	s.items = page.List
	s.pagination = Pagination{Page: page.Page, Size: page.Size, Total: page.Total}
	s.recomputePages()
	return nil
}

// Refetch repeats the last fetch with the same query.
func (s *Store[T]) Refetch(ctx context.Context) error {
	s.mu.Lock()
	query := cloneQuery(s.lastQuery)
	s.mu.Unlock()
	return s.Fetch(ctx, query)
}

// Create posts the item and, on success, prepends the stored result to the
// current page. No refetch happens; the listing is patched in place.
func (s *Store[T]) Create(ctx context.Context, body interface{}) (*T, error) {
	s.setFlag(func(f *Flags) { f.Create = true })
	item, err := s.backend.Create(ctx, body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Create = false
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.lastErr = nil
	s.items = append([]*T{item}, s.items...)
	s.pagination.Total++
	s.recomputePages()
	return item, nil
}

// Update puts the partial body and replaces the matching item in place.
func (s *Store[T]) Update(ctx context.Context, id uint, body interface{}) (*T, error) {
	s.setFlag(func(f *Flags) { f.Update = true })
	item, err := s.backend.Update(ctx, id, body)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Update = false
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.lastErr = nil
	s.replaceLocked(item)
	return item, nil
}

// Delete removes the item server-side, then drops it from the page.
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	s.setFlag(func(f *Flags) { f.Delete = true })
	err := s.backend.Delete(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Delete = false
	if err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	s.removeLocked(map[uint]struct{}{id: {}})
	return nil
}

// BatchDelete removes the whole id set or nothing; on success every
// matching item is dropped from the page.
func (s *Store[T]) BatchDelete(ctx context.Context, ids []uint) error {
	s.setFlag(func(f *Flags) { f.Batch = true })
	err := s.backend.BatchDelete(ctx, ids)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Batch = false
	if err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.removeLocked(set)
	return nil
}

// UpdateStatus toggles one item's status and patches it in place.
func (s *Store[T]) UpdateStatus(ctx context.Context, id uint, status string) (*T, error) {
	s.setFlag(func(f *Flags) { f.Update = true })
	item, err := s.backend.UpdateStatus(ctx, id, status)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Update = false
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.lastErr = nil
	s.replaceLocked(item)
	return item, nil
}

// BatchUpdateStatus applies one status to the whole id set or nothing.
// With a SetStatus hook configured, matching items are patched in place.
func (s *Store[T]) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	s.setFlag(func(f *Flags) { f.Batch = true })
	err := s.backend.BatchUpdateStatus(ctx, ids, status)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Batch = false
	if err != nil {
		s.lastErr = err
		return err
	}
	s.lastErr = nil
	if s.setStatus != nil {
		set := make(map[uint]struct{}, len(ids))
		for _, id := range ids {
			set[id] = struct{}{}
		}
		for _, item := range s.items {
			if _, ok := set[s.idOf(item)]; ok {
				s.setStatus(item, status)
			}
		}
	}
	return nil
}

// CheckSlug passes through to the backend without touching store state.
func (s *Store[T]) CheckSlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return s.backend.CheckSlug(ctx, slug, excludeID)
}

// Items returns a copy of the current page.
func (s *Store[T]) Items() []*T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*T, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the item with the given id, nil when absent from the page.
func (s *Store[T]) Item(id uint) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if s.idOf(item) == id {
			return item
		}
	}
	return nil
}

// Pagination returns the current page counters.
func (s *Store[T]) Pagination() Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// Loading returns the in-flight flags.
func (s *Store[T]) Loading() Flags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error from the most recent operation, nil after any
// success.
func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store[T]) setFlag(set func(*Flags)) {
	s.mu.Lock()
	set(&s.loading)
	s.mu.Unlock()
}

func (s *Store[T]) replaceLocked(item *T) {
	id := s.idOf(item)
	for i, existing := range s.items {
		if s.idOf(existing) == id {
			s.items[i] = item
			return
		}
	}
}

func (s *Store[T]) removeLocked(ids map[uint]struct{}) {
	kept := s.items[:0]
	removed := int64(0)
	for _, item := range s.items {
		if _, ok := ids[s.idOf(item)]; ok {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.pagination.Total -= removed
	if s.pagination.Total < 0 {
		s.pagination.Total = 0
	}
	s.recomputePages()
}

func (s *Store[T]) recomputePages() {
	if s.pagination.Size <= 0 {
		s.pagination.TotalPages = 0
		return
	}
	s.pagination.TotalPages = int((s.pagination.Total + int64(s.pagination.Size) - 1) / int64(s.pagination.Size))
}

func cloneQuery(query url.Values) url.Values {
	if query == nil {
		return nil
	}
	out := make(url.Values, len(query))
	for k, vs := range query {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
