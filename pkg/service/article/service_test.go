package article

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/pkg/markdown"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// fakeArticleRepo is an in-memory repository with the persistence layer's
// contract: soft delete, all-or-nothing batches, slug uniqueness scoped to
// live rows.
type fakeArticleRepo struct {
	nextID  uint
	byID    map[uint]*model.Article
	deleted map[uint]bool
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{byID: map[uint]*model.Article{}, deleted: map[uint]bool{}}
}

func (r *fakeArticleRepo) live(id uint) *model.Article {
	if r.deleted[id] {
		return nil
	}
	return r.byID[id]
}

func (r *fakeArticleRepo) List(ctx context.Context, options *model.ListArticlesOptions) ([]*model.Article, int64, error) {
	var out []*model.Article
	for id, a := range r.byID {
		if !r.deleted[id] {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeArticleRepo) GetByID(ctx context.Context, id uint) (*model.Article, error) {
	if a := r.live(id); a != nil {
		clone := *a
		return &clone, nil
	}
	return nil, constant.ErrNotFound
}

func (r *fakeArticleRepo) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	for id, a := range r.byID {
		if !r.deleted[id] && a.Slug == slug {
			clone := *a
			return &clone, nil
		}
	}
	return nil, constant.ErrNotFound
}

func (r *fakeArticleRepo) Create(ctx context.Context, a *model.Article) (*model.Article, error) {
	r.nextID++
	stored := *a
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.byID[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeArticleRepo) Update(ctx context.Context, a *model.Article) (*model.Article, error) {
	if r.live(a.ID) == nil {
		return nil, constant.ErrNotFound
	}
	stored := *a
	stored.UpdatedAt = time.Now()
	r.byID[a.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeArticleRepo) Delete(ctx context.Context, id uint) error {
	if r.live(id) == nil {
		return constant.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r *fakeArticleRepo) BatchDelete(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		if r.live(id) == nil {
			return fmt.Errorf("%w: id %d", constant.ErrNotFound, id)
		}
	}
	for _, id := range ids {
		r.deleted[id] = true
	}
	return nil
}

func (r *fakeArticleRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	a := r.live(id)
	if a == nil {
		return constant.ErrNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeArticleRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	for _, id := range ids {
		if r.live(id) == nil {
			return fmt.Errorf("%w: id %d", constant.ErrNotFound, id)
		}
	}
	for _, id := range ids {
		r.byID[id].Status = status
	}
	return nil
}

func (r *fakeArticleRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	for id, a := range r.byID {
		if !r.deleted[id] && a.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeArticleRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeArticleRepo) Stats(ctx context.Context) (*model.ArticleStats, error) {
	stats := &model.ArticleStats{}
	for id, a := range r.byID {
		if r.deleted[id] {
			continue
		}
		stats.Total++
		stats.TotalViews += int64(a.ViewCount)
		switch a.Status {
		case model.ArticleStatusDraft:
			stats.Draft++
		case model.ArticleStatusPublished:
			stats.Published++
		case model.ArticleStatusOffline:
			stats.Offline++
		}
	}
	return stats, nil
}

func (r *fakeArticleRepo) ListPublished(ctx context.Context, options *model.ListArticlesOptions) ([]*model.Article, int64, error) {
	var out []*model.Article
	for id, a := range r.byID {
		if !r.deleted[id] && a.Status == model.ArticleStatusPublished {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeArticleRepo) GetPublishedBySlug(ctx context.Context, slug string) (*model.Article, error) {
	a, err := r.GetBySlug(ctx, slug)
	if err != nil || a.Status != model.ArticleStatusPublished {
		return nil, constant.ErrNotFound
	}
	return a, nil
}

func (r *fakeArticleRepo) FindDueScheduled(ctx context.Context, now time.Time) ([]*model.Article, error) {
	var out []*model.Article
	for id, a := range r.byID {
		if r.deleted[id] || a.Status != model.ArticleStatusDraft || a.ScheduledAt == nil {
			continue
		}
		if !a.ScheduledAt.After(now) {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeArticleRepo) AddViews(ctx context.Context, deltas map[uint]int) error {
	for id, d := range deltas {
		if a := r.live(id); a != nil {
			a.ViewCount += d
		}
	}
	return nil
}

func (r *fakeArticleRepo) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	for id, a := range r.byID {
		if !r.deleted[id] && a.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *fakeArticleRepo) SumWords(ctx context.Context) (int64, error) {
	var n int64
	for id, a := range r.byID {
		if !r.deleted[id] && a.Status == model.ArticleStatusPublished {
			n += int64(a.WordCount)
		}
	}
	return n, nil
}

// fakeCategoryRepo covers the two category calls the article service makes
// plus the counter write.
type fakeCategoryRepo struct {
	cats   map[uint]*model.Category
	counts map[uint]int64
}

func newFakeCategoryRepo(cats ...*model.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{cats: map[uint]*model.Category{}, counts: map[uint]int64{}}
	for _, c := range cats {
		r.cats[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) List(ctx context.Context, options *model.ListCategoriesOptions) ([]*model.Category, int64, error) {
	return nil, 0, nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	if c, ok := r.cats[id]; ok {
		return c, nil
	}
	return nil, constant.ErrNotFound
}

func (r *fakeCategoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return nil, constant.ErrNotFound
}

func (r *fakeCategoryRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	return c, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	return c, nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id uint) error          { return nil }
func (r *fakeCategoryRepo) BatchDelete(ctx context.Context, ids []uint) error  { return nil }
func (r *fakeCategoryRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return nil
}
func (r *fakeCategoryRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return nil
}
func (r *fakeCategoryRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return false, nil
}
func (r *fakeCategoryRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
func (r *fakeCategoryRepo) Stats(ctx context.Context) (*model.CategoryStats, error) {
	return &model.CategoryStats{}, nil
}

func (r *fakeCategoryRepo) SetArticleCount(ctx context.Context, id uint, count int64) error {
	r.counts[id] = count
	return nil
}

func (r *fakeCategoryRepo) ListEnabled(ctx context.Context) ([]*model.Category, error) {
	var out []*model.Category
	for _, c := range r.cats {
		out = append(out, c)
	}
	return out, nil
}

// fakeUserRepo resolves authors.
type fakeUserRepo struct {
	users map[uint]*model.User
}

func (r *fakeUserRepo) List(ctx context.Context, options *model.ListUsersOptions) ([]*model.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, constant.ErrNotFound
}

func (r *fakeUserRepo) GetBySlug(ctx context.Context, slug string) (*model.User, error) {
	return nil, constant.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) (*model.User, error) { return u, nil }
func (r *fakeUserRepo) Update(ctx context.Context, u *model.User) (*model.User, error) { return u, nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error                      { return nil }
func (r *fakeUserRepo) BatchDelete(ctx context.Context, ids []uint) error              { return nil }
func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uint, status string) error { return nil }
func (r *fakeUserRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return nil
}
func (r *fakeUserRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return false, nil
}
func (r *fakeUserRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
func (r *fakeUserRepo) Stats(ctx context.Context) (*model.UserStats, error) {
	return &model.UserStats{}, nil
}
func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error { return nil }

func newTestService() (*Service, *fakeArticleRepo, *fakeCategoryRepo) {
	repo := newFakeArticleRepo()
	catRepo := newFakeCategoryRepo(&model.Category{ID: 1, Name: "Engineering", Slug: "engineering"})
	userRepo := &fakeUserRepo{users: map[uint]*model.User{
		7: {ID: 7, Username: "admin", Nickname: "The Admin"},
	}}
	svc := NewService(repo, catRepo, userRepo, markdown.NewRenderer(), zerolog.Nop())
	return svc, repo, catRepo
}

func TestCreateDefaultsToDraft(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Create(context.Background(), &model.CreateArticleRequest{
		Title: "Hello", Slug: "hello", ContentMD: "# Hello\n\nsome words here",
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, model.ArticleStatusDraft, resp.Status)
	assert.Nil(t, resp.PublishedAt)
	assert.Equal(t, "The Admin", resp.AuthorName)
	assert.NotZero(t, resp.WordCount)
	assert.Contains(t, resp.ContentHTML, "<h1")
}

func TestCreatePublishedStampsPublishedAt(t *testing.T) {
	svc, _, _ := newTestService()

	resp, err := svc.Create(context.Background(), &model.CreateArticleRequest{
		Title: "Live", Slug: "live", Status: model.ArticleStatusPublished,
	}, 7)
	require.NoError(t, err)
	require.NotNil(t, resp.PublishedAt)
	assert.WithinDuration(t, time.Now(), *resp.PublishedAt, 5*time.Second)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "One", Slug: "taken"}, 7)
	require.NoError(t, err)

	_, err = svc.Create(ctx, &model.CreateArticleRequest{Title: "Two", Slug: "taken"}, 7)
	require.ErrorIs(t, err, constant.ErrConflict)
}

func TestCreateRejectsMalformedSlug(t *testing.T) {
	svc, _, _ := newTestService()

	for _, slug := range []string{"", "Has Spaces", "UPPER", "trailing-", "-leading", "double--hyphen"} {
		_, err := svc.Create(context.Background(), &model.CreateArticleRequest{Title: "X", Slug: slug}, 7)
		assert.ErrorIs(t, err, constant.ErrInvalidSlug, "slug %q", slug)
	}
}

func TestPublishedAtStampedOnceAcrossTransitions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "T", Slug: "t"}, 7)
	require.NoError(t, err)

	published, err := svc.UpdateStatus(ctx, created.ID, model.ArticleStatusPublished)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	first := *published.PublishedAt

	_, err = svc.UpdateStatus(ctx, created.ID, model.ArticleStatusOffline)
	require.NoError(t, err)

	again, err := svc.UpdateStatus(ctx, created.ID, model.ArticleStatusPublished)
	require.NoError(t, err)
	require.NotNil(t, again.PublishedAt)
	assert.True(t, again.PublishedAt.Equal(first), "republish must not move published_at")
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "T", Slug: "t"}, 7)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, created.ID, "archived")
	require.ErrorIs(t, err, constant.ErrInvalidStatus)
}

func TestUpdateReRendersOnlyWhenContentChanges(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateArticleRequest{
		Title: "T", Slug: "t", ContentMD: "one two three",
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, created.WordCount)

	newContent := "one two three four five"
	updated, err := svc.Update(ctx, created.ID, &model.UpdateArticleRequest{ContentMD: &newContent})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.WordCount)

	stored := repo.byID[created.ID]
	assert.Equal(t, newContent, stored.ContentMD)
	assert.NotEmpty(t, stored.ContentHTML)
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "T", Slug: "t"}, 7)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), constant.ErrNotFound)
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, constant.ErrNotFound)
}

func TestDeletedSlugBecomesReusable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "T", Slug: "reborn"}, 7)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	check, err := svc.CheckSlug(ctx, "reborn", 0)
	require.NoError(t, err)
	assert.True(t, check.Available)

	_, err = svc.Create(ctx, &model.CreateArticleRequest{Title: "T2", Slug: "reborn"}, 7)
	require.NoError(t, err)
}

func TestCheckSlugExcludesSelf(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "T", Slug: "mine"}, 7)
	require.NoError(t, err)

	check, err := svc.CheckSlug(ctx, "mine", created.ID)
	require.NoError(t, err)
	assert.True(t, check.Available)

	check, err = svc.CheckSlug(ctx, "mine", 0)
	require.NoError(t, err)
	assert.False(t, check.Available)
}

func TestBatchDeleteAllOrNothing(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "A", Slug: "a"}, 7)
	require.NoError(t, err)
	b, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "B", Slug: "b"}, 7)
	require.NoError(t, err)

	err = svc.BatchDelete(ctx, []uint{a.ID, b.ID, 999})
	require.ErrorIs(t, err, constant.ErrNotFound)
	assert.False(t, repo.deleted[a.ID])
	assert.False(t, repo.deleted[b.ID])

	require.NoError(t, svc.BatchDelete(ctx, []uint{a.ID, b.ID}))
	assert.True(t, repo.deleted[a.ID])
	assert.True(t, repo.deleted[b.ID])
}

func TestCategoryCountRefreshedOnWrite(t *testing.T) {
	svc, _, catRepo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &model.CreateArticleRequest{
		Title: "T", Slug: "t", CategoryID: 1,
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", created.CategoryName)
	assert.Equal(t, int64(1), catRepo.counts[1])

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Equal(t, int64(0), catRepo.counts[1])
}

func TestPublishDueScheduled(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	now := time.Now()

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	due, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "Due", Slug: "due", ScheduledAt: &past}, 7)
	require.NoError(t, err)
	notDue, err := svc.Create(ctx, &model.CreateArticleRequest{Title: "Later", Slug: "later", ScheduledAt: &future}, 7)
	require.NoError(t, err)

	n, err := svc.PublishDueScheduled(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	published := repo.byID[due.ID]
	assert.Equal(t, model.ArticleStatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)
	assert.Nil(t, published.ScheduledAt)

	assert.Equal(t, model.ArticleStatusDraft, repo.byID[notDue.ID].Status)
}

func TestPublicListingExcludesMarkdownSource(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.CreateArticleRequest{
		Title: "P", Slug: "p", ContentMD: "secret draft notes", Status: model.ArticleStatusPublished,
	}, 7)
	require.NoError(t, err)

	page, err := svc.ListPublished(ctx, &model.ListArticlesOptions{})
	require.NoError(t, err)
	require.Len(t, page.List, 1)
	assert.Empty(t, page.List[0].ContentMD)
	assert.Empty(t, page.List[0].ContentHTML)

	detail, err := svc.GetPublishedBySlug(ctx, "p")
	require.NoError(t, err)
	assert.Empty(t, detail.ContentMD)
	assert.NotEmpty(t, detail.ContentHTML)
}
