package category

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/response"
	"github.com/inkwell-cms/inkwell/pkg/service/category"
)

type fakeRepo struct {
	nextID  uint
	byID    map[uint]*model.Category
	deleted map[uint]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[uint]*model.Category{}, deleted: map[uint]bool{}}
}

func (r *fakeRepo) live(id uint) *model.Category {
	if r.deleted[id] {
		return nil
	}
	return r.byID[id]
}

func (r *fakeRepo) List(ctx context.Context, options *model.ListCategoriesOptions) ([]*model.Category, int64, error) {
	var out []*model.Category
	for id, c := range r.byID {
		if !r.deleted[id] {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	if c := r.live(id); c != nil {
		clone := *c
		return &clone, nil
	}
	return nil, constant.ErrNotFound
}

func (r *fakeRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	for id, c := range r.byID {
		if !r.deleted[id] && c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, constant.ErrNotFound
}

func (r *fakeRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	r.nextID++
	stored := *c
	stored.ID = r.nextID
	r.byID[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeRepo) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	if r.live(c.ID) == nil {
		return nil, constant.ErrNotFound
	}
	stored := *c
	r.byID[c.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uint) error {
	if r.live(id) == nil {
		return constant.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r *fakeRepo) BatchDelete(ctx context.Context, ids []uint) error {
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

func (r *fakeRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	c := r.live(id)
	if c == nil {
		return constant.ErrNotFound
	}
	c.Status = status
	return nil
}

func (r *fakeRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
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

func (r *fakeRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	for id, c := range r.byID {
		if !r.deleted[id] && c.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeRepo) Stats(ctx context.Context) (*model.CategoryStats, error) {
	stats := &model.CategoryStats{}
	for id, c := range r.byID {
		if r.deleted[id] {
			continue
		}
		stats.Total++
		if c.Status == model.CategoryStatusEnabled {
			stats.Enabled++
		} else {
			stats.Disabled++
		}
	}
	return stats, nil
}

func (r *fakeRepo) SetArticleCount(ctx context.Context, id uint, count int64) error { return nil }

func (r *fakeRepo) ListEnabled(ctx context.Context) ([]*model.Category, error) { return nil, nil }

func newTestRouter() (*gin.Engine, *fakeRepo) {
	gin.SetMode(gin.TestMode)
	repo := newFakeRepo()
	h := NewHandler(category.NewService(repo), nil)
	engine := gin.New()
	h.Register(engine.Group("/api"))
	return engine, repo
}

func doJSON(engine *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env response.Response
	json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestCreateReturns201Envelope(t *testing.T) {
	engine, _ := newTestRouter()

	w, env := doJSON(engine, http.MethodPost, "/api/categories", model.CreateCategoryRequest{
		Name: "Engineering", Slug: "engineering",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, response.CodeOK, env.Code)
	assert.NotZero(t, env.Timestamp)

	item := env.Data.(map[string]interface{})
	assert.Equal(t, "engineering", item["slug"])
	assert.Equal(t, "enabled", item["status"], "status defaults to enabled")
}

func TestCreateMissingNameIsValidationFailure(t *testing.T) {
	engine, _ := newTestRouter()

	w, env := doJSON(engine, http.MethodPost, "/api/categories", map[string]string{"slug": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEqual(t, response.CodeOK, env.Code)
}

func TestDuplicateSlugIsConflict(t *testing.T) {
	engine, _ := newTestRouter()

	w, _ := doJSON(engine, http.MethodPost, "/api/categories", model.CreateCategoryRequest{Name: "A", Slug: "dup"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(engine, http.MethodPost, "/api/categories", model.CreateCategoryRequest{Name: "B", Slug: "dup"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, http.StatusConflict, env.Code)
	assert.Contains(t, env.Message, "dup")
}

func TestGetMissingIs404(t *testing.T) {
	engine, _ := newTestRouter()

	w, env := doJSON(engine, http.MethodGet, "/api/categories/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, env.Code)
}

func TestBadIDIs400(t *testing.T) {
	engine, _ := newTestRouter()

	w, _ := doJSON(engine, http.MethodGet, "/api/categories/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteThenGetIs404(t *testing.T) {
	engine, _ := newTestRouter()

	w, env := doJSON(engine, http.MethodPost, "/api/categories", model.CreateCategoryRequest{Name: "A", Slug: "a"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(env.Data.(map[string]interface{})["id"].(float64))

	w, _ = doJSON(engine, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(engine, http.MethodGet, fmt.Sprintf("/api/categories/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Deleting again is a 404 too.
	w, _ = doJSON(engine, http.MethodDelete, fmt.Sprintf("/api/categories/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBatchDeleteAtomicity(t *testing.T) {
	engine, repo := newTestRouter()

	for _, slug := range []string{"a", "b"} {
		w, _ := doJSON(engine, http.MethodPost, "/api/categories", model.CreateCategoryRequest{Name: slug, Slug: slug})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, _ := doJSON(engine, http.MethodDelete, "/api/categories/batch", model.BatchRequest{IDs: []uint{1, 2, 99}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, repo.deleted[1])
	assert.False(t, repo.deleted[2])

	w, _ = doJSON(engine, http.MethodDelete, "/api/categories/batch", model.BatchRequest{IDs: []uint{1, 2}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.deleted[1])
	assert.True(t, repo.deleted[2])
}

func TestCheckSlugEndpoint(t *testing.T) {
	engine, _ := newTestRouter()

	w, _ := doJSON(engine, http.MethodPost, "/api/categories", model.CreateCategoryRequest{Name: "A", Slug: "taken"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := doJSON(engine, http.MethodGet, "/api/categories/check-slug?slug=taken", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.Data.(map[string]interface{})["available"].(bool))

	w, env = doJSON(engine, http.MethodGet, "/api/categories/check-slug?slug=taken&excludeId=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Data.(map[string]interface{})["available"].(bool))

	w, _ = doJSON(engine, http.MethodGet, "/api/categories/check-slug?slug=Bad+Slug", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusUpdateValidation(t *testing.T) {
	engine, repo := newTestRouter()

	w, _ := doJSON(engine, http.MethodPost, "/api/categories", model.CreateCategoryRequest{Name: "A", Slug: "a"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(engine, http.MethodPatch, "/api/categories/1/status", model.StatusRequest{Status: "disabled"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "disabled", repo.byID[1].Status)

	w, _ = doJSON(engine, http.MethodPatch, "/api/categories/1/status", model.StatusRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
