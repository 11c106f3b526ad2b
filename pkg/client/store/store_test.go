package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/pkg/client"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// fakeBackend is an in-memory categories API with the server's semantics:
// slug uniqueness, pagination, all-or-nothing batches and 404s shaped like
// the SDK's error taxonomy.
type fakeBackend struct {
	mu     sync.Mutex
	nextID uint
	items  []*model.CategoryResponse

	// barrier, when set, is waited on before List returns. Tests use it to
	// force out-of-order responses. gated receives one signal when a gated
	// List has been issued and is parked at its barrier.
	barrier map[string]chan struct{}
	gated   chan struct{}
	calls   int
}

func newFakeBackend(n int) *fakeBackend {
	b := &fakeBackend{barrier: map[string]chan struct{}{}}
	for i := 0; i < n; i++ {
		b.nextID++
		b.items = append(b.items, &model.CategoryResponse{
			ID:     b.nextID,
			Name:   fmt.Sprintf("Category %d", b.nextID),
			Slug:   fmt.Sprintf("category-%d", b.nextID),
			Status: model.CategoryStatusEnabled,
		})
	}
	return b
}

func notFoundErr() error {
	return &client.APIError{HTTPStatus: http.StatusNotFound, Code: 40400, Message: "resource not found"}
}

func conflictErr() error {
	return &client.ValidationError{APIError: client.APIError{
		HTTPStatus: http.StatusConflict, Code: 40900, Message: "slug already in use",
	}}
}

func (b *fakeBackend) List(ctx context.Context, query url.Values) (*model.PageData[*model.CategoryResponse], error) {
	b.mu.Lock()
	b.calls++
	gate := b.barrier[query.Get("marker")]
	snapshot := make([]*model.CategoryResponse, len(b.items))
	copy(snapshot, b.items)
	b.mu.Unlock()

	if gate != nil {
		if b.gated != nil {
			b.gated <- struct{}{}
		}
		<-gate
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(query.Get("pageSize"))
	if size < 1 {
		size = 10
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID > snapshot[j].ID })

	start := (page - 1) * size
	if start > len(snapshot) {
		start = len(snapshot)
	}
	end := start + size
	if end > len(snapshot) {
		end = len(snapshot)
	}
	return model.NewPageData(snapshot[start:end], int64(len(snapshot)), page, size), nil
}

func (b *fakeBackend) Create(ctx context.Context, body interface{}) (*model.CategoryResponse, error) {
	req := body.(model.CreateCategoryRequest)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range b.items {
		if item.Slug == req.Slug {
			return nil, conflictErr()
		}
	}
	b.nextID++
	item := &model.CategoryResponse{
		ID:     b.nextID,
		Name:   req.Name,
		Slug:   req.Slug,
		Status: model.CategoryStatusEnabled,
	}
	b.items = append(b.items, item)
	return item, nil
}

func (b *fakeBackend) Update(ctx context.Context, id uint, body interface{}) (*model.CategoryResponse, error) {
	req := body.(model.UpdateCategoryRequest)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range b.items {
		if item.ID == id {
			if req.Name != nil {
				item.Name = *req.Name
			}
			clone := *item
			return &clone, nil
		}
	}
	return nil, notFoundErr()
}

func (b *fakeBackend) Delete(ctx context.Context, id uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, item := range b.items {
		if item.ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return nil
		}
	}
	return notFoundErr()
}

func (b *fakeBackend) BatchDelete(ctx context.Context, ids []uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	byID := make(map[uint]int, len(b.items))
	for i, item := range b.items {
		byID[item.ID] = i
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return notFoundErr()
		}
	}
	kept := b.items[:0]
	drop := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	for _, item := range b.items {
		if _, ok := drop[item.ID]; !ok {
			kept = append(kept, item)
		}
	}
	b.items = kept
	return nil
}

func (b *fakeBackend) UpdateStatus(ctx context.Context, id uint, status string) (*model.CategoryResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range b.items {
		if item.ID == id {
			item.Status = status
			clone := *item
			return &clone, nil
		}
	}
	return nil, notFoundErr()
}

func (b *fakeBackend) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	byID := make(map[uint]*model.CategoryResponse, len(b.items))
	for _, item := range b.items {
		byID[item.ID] = item
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return notFoundErr()
		}
	}
	for _, id := range ids {
		byID[id].Status = status
	}
	return nil
}

func (b *fakeBackend) CheckSlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range b.items {
		if item.Slug == slug && item.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func newTestStore(backend *fakeBackend) *Store[model.CategoryResponse] {
	return New(Config[model.CategoryResponse]{
		Backend:   backend,
		ID:        func(c *model.CategoryResponse) uint { return c.ID },
		SetStatus: func(c *model.CategoryResponse, s string) { c.Status = s },
	})
}

func pageQuery(page, size int) url.Values {
	return url.Values{
		"page":     {strconv.Itoa(page)},
		"pageSize": {strconv.Itoa(size)},
	}
}

func TestFetchIsIdempotent(t *testing.T) {
	backend := newFakeBackend(7)
	s := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))
	first := s.Items()
	firstPages := s.Pagination()

	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))
	assert.Equal(t, first, s.Items())
	assert.Equal(t, firstPages, s.Pagination())
	assert.False(t, s.Loading().List)
}

func TestCreateAppearsWithoutRefetch(t *testing.T) {
	backend := newFakeBackend(3)
	s := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))
	before := backend.calls

	created, err := s.Create(ctx, model.CreateCategoryRequest{Name: "Notes", Slug: "notes"})
	require.NoError(t, err)

	assert.Equal(t, before, backend.calls, "create must not trigger a refetch")
	require.NotNil(t, s.Item(created.ID))
	assert.Equal(t, int64(4), s.Pagination().Total)
	assert.Equal(t, created.ID, s.Items()[0].ID, "new item is prepended")

	// A later refetch agrees with the optimistic state.
	require.NoError(t, s.Refetch(ctx))
	require.NotNil(t, s.Item(created.ID))
	assert.Equal(t, int64(4), s.Pagination().Total)
}

func TestDuplicateSlugCreateLeavesStateUntouched(t *testing.T) {
	backend := newFakeBackend(3)
	s := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))
	items := s.Items()
	pages := s.Pagination()

	_, err := s.Create(ctx, model.CreateCategoryRequest{Name: "Dup", Slug: "category-2"})
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
	assert.Equal(t, items, s.Items())
	assert.Equal(t, pages, s.Pagination())
	assert.Equal(t, err, s.Err())
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	backend := newFakeBackend(5)
	s := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))
	require.NoError(t, s.Delete(ctx, 3))

	assert.Nil(t, s.Item(3))
	assert.Len(t, s.Items(), 4)
	assert.Equal(t, int64(4), s.Pagination().Total)

	// Deleting the same id again is a 404, and state does not drift.
	err := s.Delete(ctx, 3)
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Len(t, s.Items(), 4)
	assert.Equal(t, int64(4), s.Pagination().Total)
}

func TestBatchDeleteAllOrNothing(t *testing.T) {
	backend := newFakeBackend(5)
	s := newTestStore(backend)
	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))

	// One missing id fails the whole batch.
	err := s.BatchDelete(ctx, []uint{1, 2, 99})
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Len(t, s.Items(), 5)
	require.NotNil(t, s.Item(1))
	require.NotNil(t, s.Item(2))

	require.NoError(t, s.BatchDelete(ctx, []uint{1, 2}))
	assert.Len(t, s.Items(), 3)
	assert.Equal(t, int64(3), s.Pagination().Total)
}

func TestBatchStatusAllOrNothing(t *testing.T) {
	backend := newFakeBackend(4)
	s := newTestStore(backend)
	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))

	err := s.BatchUpdateStatus(ctx, []uint{1, 99}, model.CategoryStatusDisabled)
	require.Error(t, err)
	assert.Equal(t, model.CategoryStatusEnabled, s.Item(1).Status)

	require.NoError(t, s.BatchUpdateStatus(ctx, []uint{1, 2}, model.CategoryStatusDisabled))
	assert.Equal(t, model.CategoryStatusDisabled, s.Item(1).Status)
	assert.Equal(t, model.CategoryStatusDisabled, s.Item(2).Status)
	assert.Equal(t, model.CategoryStatusEnabled, s.Item(3).Status)
}

func TestCheckSlug(t *testing.T) {
	backend := newFakeBackend(3)
	s := newTestStore(backend)
	ctx := context.Background()

	available, err := s.CheckSlug(ctx, "category-2", 0)
	require.NoError(t, err)
	assert.False(t, available, "taken slug is unavailable")

	available, err = s.CheckSlug(ctx, "category-2", 2)
	require.NoError(t, err)
	assert.True(t, available, "an item may keep its own slug while editing")

	available, err = s.CheckSlug(ctx, "brand-new", 0)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestPaginationInvariant(t *testing.T) {
	backend := newFakeBackend(25)
	s := newTestStore(backend)
	ctx := context.Background()

	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))
	p := s.Pagination()
	assert.Equal(t, int64(25), p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, s.Items(), 10)

	require.NoError(t, s.Fetch(ctx, pageQuery(3, 10)))
	assert.Len(t, s.Items(), 5, "last page carries the remainder")
	assert.Equal(t, 3, s.Pagination().TotalPages)

	// Deleting below a page boundary recomputes TotalPages.
	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))
	for _, id := range []uint{21, 22, 23, 24, 25} {
		require.NoError(t, s.Delete(ctx, id))
	}
	assert.Equal(t, int64(20), s.Pagination().Total)
	assert.Equal(t, 2, s.Pagination().TotalPages)
}

func TestLatestFetchWins(t *testing.T) {
	backend := newFakeBackend(25)
	s := newTestStore(backend)
	ctx := context.Background()

	// Fetch A is held at the barrier; fetch B lands first.
	hold := make(chan struct{})
	backend.barrier["a"] = hold
	backend.gated = make(chan struct{}, 1)

	queryA := pageQuery(1, 10)
	queryA.Set("marker", "a")
	done := make(chan error, 1)
	go func() { done <- s.Fetch(ctx, queryA) }()
	<-backend.gated

	queryB := pageQuery(2, 10)
	require.NoError(t, s.Fetch(ctx, queryB))
	require.Equal(t, 2, s.Pagination().Page)

	close(hold)
	require.NoError(t, <-done)

	// A finished after B but was issued earlier, so B's page stays.
	assert.Equal(t, 2, s.Pagination().Page)
	assert.Equal(t, uint(15), s.Items()[0].ID)
	assert.False(t, s.Loading().List)
}

func TestUpdatePatchesInPlace(t *testing.T) {
	backend := newFakeBackend(3)
	s := newTestStore(backend)
	ctx := context.Background()
	require.NoError(t, s.Fetch(ctx, pageQuery(1, 10)))

	name := "Renamed"
	updated, err := s.Update(ctx, 2, model.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Renamed", s.Item(2).Name)
	assert.Len(t, s.Items(), 3)
}
