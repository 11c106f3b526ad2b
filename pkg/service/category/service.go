package category

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/inkwell/internal/pkg/strutil"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service implements the category use cases.
type Service struct {
	repo repository.CategoryRepository
}

// NewService builds a category service.
func NewService(repo repository.CategoryRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, options *model.ListCategoriesOptions) (*model.PageData[*model.CategoryResponse], error) {
	options.Normalize()
	cats, total, err := s.repo.List(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(cats), total, options.Page, options.PageSize), nil
}

// ListEnabled serves the public front-end, ordered by Sort.
func (s *Service) ListEnabled(ctx context.Context) ([]*model.CategoryResponse, error) {
	cats, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(cats), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.CategoryResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateCategoryRequest) (*model.CategoryResponse, error) {
	if err := s.ensureSlugFree(ctx, req.Slug, 0); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.CategoryStatusEnabled
	}
	if !model.IsValidCategoryStatus(status) {
		return nil, fmt.Errorf("%w: unknown category status %q", constant.ErrInvalidStatus, status)
	}
	created, err := s.repo.Create(ctx, &model.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Status:      status,
		Sort:        req.Sort,
	})
	if err != nil {
		return nil, err
	}
	return toResponse(created), nil
}

func (s *Service) Update(ctx context.Context, id uint, req *model.UpdateCategoryRequest) (*model.CategoryResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Slug != nil && *req.Slug != c.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug, id); err != nil {
			return nil, err
		}
		c.Slug = *req.Slug
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Status != nil {
		if !model.IsValidCategoryStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown category status %q", constant.ErrInvalidStatus, *req.Status)
		}
		c.Status = *req.Status
	}
	if req.Sort != nil {
		c.Sort = *req.Sort
	}
	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	return toResponse(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) BatchDelete(ctx context.Context, ids []uint) error {
	return s.repo.BatchDelete(ctx, ids)
}

func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) error {
	if !model.IsValidCategoryStatus(status) {
		return fmt.Errorf("%w: unknown category status %q", constant.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	if !model.IsValidCategoryStatus(status) {
		return fmt.Errorf("%w: unknown category status %q", constant.ErrInvalidStatus, status)
	}
	return s.repo.BatchUpdateStatus(ctx, ids, status)
}

func (s *Service) CheckSlug(ctx context.Context, slug string, excludeID uint) (*model.SlugCheckResult, error) {
	if !strutil.IsValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", constant.ErrInvalidSlug, slug)
	}
	exists, err := s.repo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return nil, err
	}
	return &model.SlugCheckResult{Available: !exists}, nil
}

func (s *Service) Stats(ctx context.Context) (*model.CategoryStats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) ensureSlugFree(ctx context.Context, slug string, excludeID uint) error {
	if !strutil.IsValidSlug(slug) {
		return fmt.Errorf("%w: %q", constant.ErrInvalidSlug, slug)
	}
	exists, err := s.repo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: slug %q already in use", constant.ErrConflict, slug)
	}
	return nil
}

func toResponse(c *model.Category) *model.CategoryResponse {
	return &model.CategoryResponse{
		ID:           c.ID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		Status:       c.Status,
		Sort:         c.Sort,
		ArticleCount: c.ArticleCount,
	}
}

func toResponses(cats []*model.Category) []*model.CategoryResponse {
	out := make([]*model.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, toResponse(c))
	}
	return out
}
