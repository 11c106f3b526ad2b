package techstack

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/inkwell/internal/pkg/strutil"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service implements the tech stack use cases.
type Service struct {
	repo repository.TechStackRepository
}

// NewService builds a tech stack service.
func NewService(repo repository.TechStackRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, options *model.ListTechStacksOptions) (*model.PageData[*model.TechStackResponse], error) {
	options.Normalize()
	items, total, err := s.repo.List(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(items), total, options.Page, options.PageSize), nil
}

// ListEnabled serves the public about page, ordered by Sort.
func (s *Service) ListEnabled(ctx context.Context) ([]*model.TechStackResponse, error) {
	items, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.TechStackResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateTechStackRequest) (*model.TechStackResponse, error) {
	if err := s.ensureSlugFree(ctx, req.Slug, 0); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.TechStackStatusEnabled
	}
	if !model.IsValidTechStackStatus(status) {
		return nil, fmt.Errorf("%w: unknown tech stack status %q", constant.ErrInvalidStatus, status)
	}
	proficiency := req.Proficiency
	if proficiency == 0 {
		proficiency = 3
	}
	created, err := s.repo.Create(ctx, &model.TechStack{
		Name:        req.Name,
		Slug:        req.Slug,
		IconURL:     req.IconURL,
		Group:       req.Group,
		Proficiency: proficiency,
		Years:       req.Years,
		Sort:        req.Sort,
		Highlights:  req.Highlights,
		Status:      status,
	})
	if err != nil {
		return nil, err
	}
	return toResponse(created), nil
}

func (s *Service) Update(ctx context.Context, id uint, req *model.UpdateTechStackRequest) (*model.TechStackResponse, error) {
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
	if req.IconURL != nil {
		t.IconURL = *req.IconURL
	}
	if req.Group != nil {
		t.Group = *req.Group
	}
	if req.Proficiency != nil {
		t.Proficiency = *req.Proficiency
	}
	if req.Years != nil {
		t.Years = *req.Years
	}
	if req.Sort != nil {
		t.Sort = *req.Sort
	}
	if req.Highlights != nil {
		t.Highlights = req.Highlights
	}
	if req.Status != nil {
		if !model.IsValidTechStackStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown tech stack status %q", constant.ErrInvalidStatus, *req.Status)
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
	if !model.IsValidTechStackStatus(status) {
		return fmt.Errorf("%w: unknown tech stack status %q", constant.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	if !model.IsValidTechStackStatus(status) {
		return fmt.Errorf("%w: unknown tech stack status %q", constant.ErrInvalidStatus, status)
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

func (s *Service) Stats(ctx context.Context) (*model.TechStackStats, error) {
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

func toResponse(t *model.TechStack) *model.TechStackResponse {
	resp := &model.TechStackResponse{
		ID:          t.ID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Name:        t.Name,
		Slug:        t.Slug,
		IconURL:     t.IconURL,
		Group:       t.Group,
		Proficiency: t.Proficiency,
		Years:       t.Years,
		Sort:        t.Sort,
		Highlights:  t.Highlights,
		Status:      t.Status,
	}
	if resp.Highlights == nil {
		resp.Highlights = []string{}
	}
	return resp
}

func toResponses(items []*model.TechStack) []*model.TechStackResponse {
	out := make([]*model.TechStackResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toResponse(t))
	}
	return out
}
