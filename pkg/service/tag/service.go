package tag

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/inkwell/internal/pkg/strutil"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service implements the tag use cases.
type Service struct {
	repo repository.TagRepository
}

// NewService builds a tag service.
func NewService(repo repository.TagRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, options *model.ListTagsOptions) (*model.PageData[*model.TagResponse], error) {
	options.Normalize()
	tags, total, err := s.repo.List(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(tags), total, options.Page, options.PageSize), nil
}

// ListEnabled serves the public tag cloud, most used first.
func (s *Service) ListEnabled(ctx context.Context) ([]*model.TagResponse, error) {
	tags, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(tags), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.TagResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateTagRequest) (*model.TagResponse, error) {
	if err := s.ensureSlugFree(ctx, req.Slug, 0); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.TagStatusEnabled
	}
	if !model.IsValidTagStatus(status) {
		return nil, fmt.Errorf("%w: unknown tag status %q", constant.ErrInvalidStatus, status)
	}
	created, err := s.repo.Create(ctx, &model.Tag{
		Name:   req.Name,
		Slug:   req.Slug,
		Color:  req.Color,
		Status: status,
	})
	if err != nil {
		return nil, err
	}
	return toResponse(created), nil
}

func (s *Service) Update(ctx context.Context, id uint, req *model.UpdateTagRequest) (*model.TagResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Slug != nil && *req.Slug != t.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug, id); err != nil {
			return nil, err
		}
		t.Slug = *req.Slug
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Color != nil {
		t.Color = *req.Color
	}
	if req.Status != nil {
		if !model.IsValidTagStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown tag status %q", constant.ErrInvalidStatus, *req.Status)
		}
		t.Status = *req.Status
	}
	updated, err := s.repo.Update(ctx, t)
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
	if !model.IsValidTagStatus(status) {
		return fmt.Errorf("%w: unknown tag status %q", constant.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	if !model.IsValidTagStatus(status) {
		return fmt.Errorf("%w: unknown tag status %q", constant.ErrInvalidStatus, status)
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

func (s *Service) Stats(ctx context.Context) (*model.TagStats, error) {
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

func toResponse(t *model.Tag) *model.TagResponse {
	return &model.TagResponse{
		ID:           t.ID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Name:         t.Name,
		Slug:         t.Slug,
		Color:        t.Color,
		Status:       t.Status,
		ArticleCount: t.ArticleCount,
	}
}

func toResponses(tags []*model.Tag) []*model.TagResponse {
	out := make([]*model.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, toResponse(t))
	}
	return out
}
