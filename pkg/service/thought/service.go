package thought

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/inkwell/internal/pkg/strutil"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service implements the thought (micro-post) use cases.
type Service struct {
	repo repository.ThoughtRepository
}

// NewService builds a thought service.
func NewService(repo repository.ThoughtRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, options *model.ListThoughtsOptions) (*model.PageData[*model.ThoughtResponse], error) {
	options.Normalize()
	items, total, err := s.repo.List(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(items), total, options.Page, options.PageSize), nil
}

// ListPublic serves the public feed, newest first.
func (s *Service) ListPublic(ctx context.Context, options *model.ListThoughtsOptions) (*model.PageData[*model.ThoughtResponse], error) {
	options.Normalize()
	items, total, err := s.repo.ListPublic(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(items), total, options.Page, options.PageSize), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.ThoughtResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateThoughtRequest) (*model.ThoughtResponse, error) {
	if err := s.ensureSlugFree(ctx, req.Slug, 0); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.ThoughtStatusPublic
	}
	if !model.IsValidThoughtStatus(status) {
		return nil, fmt.Errorf("%w: unknown thought status %q", constant.ErrInvalidStatus, status)
	}
	created, err := s.repo.Create(ctx, &model.Thought{
		Slug:     req.Slug,
		Content:  req.Content,
		Images:   req.Images,
		Mood:     req.Mood,
		Location: req.Location,
		Status:   status,
	})
	if err != nil {
		return nil, err
	}
	return toResponse(created), nil
}

func (s *Service) Update(ctx context.Context, id uint, req *model.UpdateThoughtRequest) (*model.ThoughtResponse, error) {
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
	if req.Content != nil {
		t.Content = *req.Content
	}
	if req.Images != nil {
		t.Images = req.Images
	}
	if req.Mood != nil {
		t.Mood = *req.Mood
	}
	if req.Location != nil {
		t.Location = *req.Location
	}
	if req.Status != nil {
		if !model.IsValidThoughtStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown thought status %q", constant.ErrInvalidStatus, *req.Status)
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
	if !model.IsValidThoughtStatus(status) {
		return fmt.Errorf("%w: unknown thought status %q", constant.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	if !model.IsValidThoughtStatus(status) {
		return fmt.Errorf("%w: unknown thought status %q", constant.ErrInvalidStatus, status)
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

func (s *Service) Stats(ctx context.Context) (*model.ThoughtStats, error) {
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

func toResponse(t *model.Thought) *model.ThoughtResponse {
	resp := &model.ThoughtResponse{
		ID:        t.ID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		Slug:      t.Slug,
		Content:   t.Content,
		Images:    t.Images,
		Mood:      t.Mood,
		Location:  t.Location,
		Status:    t.Status,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	return resp
}

func toResponses(items []*model.Thought) []*model.ThoughtResponse {
	out := make([]*model.ThoughtResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toResponse(t))
	}
	return out
}
