package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// Resource is the uniform entity client: T is the item response type, S the
// stats payload.
type Resource[T any, S any] struct {
	c    *Client
	base string
}

// NewResource builds an entity client rooted at base (e.g. "/api/articles").
func NewResource[T any, S any](c *Client, base string) *Resource[T, S] {
	return &Resource[T, S]{c: c, base: base}
}

// List fetches one page. Zero-valued query entries should be omitted by the
// caller; the server treats absent filters as "no filter".
func (r *Resource[T, S]) List(ctx context.Context, query url.Values) (*model.PageData[*T], error) {
	var page model.PageData[*T]
	if err := r.c.do(ctx, http.MethodGet, r.base, query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *Resource[T, S]) Get(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create posts the request body and returns the stored item.
func (r *Resource[T, S]) Create(ctx context.Context, body interface{}) (*T, error) {
	var item T
	if err := r.c.do(ctx, http.MethodPost, r.base, nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update puts the partial body and returns the stored item.
func (r *Resource[T, S]) Update(ctx context.Context, id uint, body interface{}) (*T, error) {
	var item T
	if err := r.c.do(ctx, http.MethodPut, r.itemPath(id), nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Resource[T, S]) Delete(ctx context.Context, id uint) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

// BatchDelete removes the whole id set or nothing.
func (r *Resource[T, S]) BatchDelete(ctx context.Context, ids []uint) error {
	return r.c.do(ctx, http.MethodDelete, r.base+"/batch", nil, model.BatchRequest{IDs: ids}, nil)
}

// UpdateStatus toggles one item's status. Some entities echo the updated
// item; the decode tolerates an empty payload.
func (r *Resource[T, S]) UpdateStatus(ctx context.Context, id uint, status string) (*T, error) {
	var item T
	err := r.c.do(ctx, http.MethodPatch, r.itemPath(id)+"/status", nil, model.StatusRequest{Status: status}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// BatchUpdateStatus applies one status to the whole id set or nothing.
func (r *Resource[T, S]) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return r.c.do(ctx, http.MethodPatch, r.base+"/batch/status", nil,
		model.BatchStatusRequest{IDs: ids, Status: status}, nil)
}

// CheckSlug reports slug availability, excluding excludeID when editing.
func (r *Resource[T, S]) CheckSlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	query := url.Values{"slug": {slug}}
	if excludeID != 0 {
		query.Set("excludeId", strconv.FormatUint(uint64(excludeID), 10))
	}
	var result model.SlugCheckResult
	if err := r.c.do(ctx, http.MethodGet, r.base+"/check-slug", query, nil, &result); err != nil {
		return false, err
	}
	return result.Available, nil
}

// Stats fetches the entity's aggregate counters.
func (r *Resource[T, S]) Stats(ctx context.Context) (*S, error) {
	var stats S
	if err := r.c.do(ctx, http.MethodGet, r.base+"/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// UploadImage posts one image file and returns its stored URLs.
func (r *Resource[T, S]) UploadImage(ctx context.Context, filename string, content io.Reader) (*model.UploadResult, error) {
	var result model.UploadResult
	if err := r.c.doMultipart(ctx, r.base+"/upload/image", filename, content, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *Resource[T, S]) itemPath(id uint) string {
	return fmt.Sprintf("%s/%d", r.base, id)
}
