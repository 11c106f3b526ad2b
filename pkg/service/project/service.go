package project

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/inkwell/internal/pkg/strutil"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service implements the portfolio project use cases.
type Service struct {
	repo repository.ProjectRepository
}

// NewService builds a project service.
func NewService(repo repository.ProjectRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, options *model.ListProjectsOptions) (*model.PageData[*model.ProjectResponse], error) {
	options.Normalize()
	items, total, err := s.repo.List(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(items), total, options.Page, options.PageSize), nil
}

// ListPublished serves the public portfolio page, featured first.
func (s *Service) ListPublished(ctx context.Context) ([]*model.ProjectResponse, error) {
	items, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.ProjectResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(p), nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateProjectRequest) (*model.ProjectResponse, error) {
	if err := s.ensureSlugFree(ctx, req.Slug, 0); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.ProjectStatusDraft
	}
	if !model.IsValidProjectStatus(status) {
		return nil, fmt.Errorf("%w: unknown project status %q", constant.ErrInvalidStatus, status)
	}
	created, err := s.repo.Create(ctx, &model.Project{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		CoverURL:    req.CoverURL,
		TechStack:   req.TechStack,
		Highlights:  req.Highlights,
		Featured:    req.Featured,
		Sort:        req.Sort,
		Status:      status,
	})
	if err != nil {
		return nil, err
	}
	return toResponse(created), nil
}

func (s *Service) Update(ctx context.Context, id uint, req *model.UpdateProjectRequest) (*model.ProjectResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Slug != nil && *req.Slug != p.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug, id); err != nil {
			return nil, err
		}
		p.Slug = *req.Slug
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.RepoURL != nil {
		p.RepoURL = *req.RepoURL
	}
	if req.DemoURL != nil {
		p.DemoURL = *req.DemoURL
	}
	if req.CoverURL != nil {
		p.CoverURL = *req.CoverURL
	}
	if req.TechStack != nil {
		p.TechStack = req.TechStack
	}
	if req.Highlights != nil {
		p.Highlights = req.Highlights
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.Sort != nil {
		p.Sort = *req.Sort
	}
	if req.Status != nil {
		if !model.IsValidProjectStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown project status %q", constant.ErrInvalidStatus, *req.Status)
		}
		p.Status = *req.Status
	}
	updated, err := s.repo.Update(ctx, p)
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
	if !model.IsValidProjectStatus(status) {
		return fmt.Errorf("%w: unknown project status %q", constant.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	if !model.IsValidProjectStatus(status) {
		return fmt.Errorf("%w: unknown project status %q", constant.ErrInvalidStatus, status)
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

func (s *Service) Stats(ctx context.Context) (*model.ProjectStats, error) {
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

func toResponse(p *model.Project) *model.ProjectResponse {
	resp := &model.ProjectResponse{
		ID:          p.ID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		RepoURL:     p.RepoURL,
		DemoURL:     p.DemoURL,
		CoverURL:    p.CoverURL,
		TechStack:   p.TechStack,
		Highlights:  p.Highlights,
		Featured:    p.Featured,
		Sort:        p.Sort,
		Status:      p.Status,
	}
	if resp.TechStack == nil {
		resp.TechStack = []string{}
	}
	if resp.Highlights == nil {
		resp.Highlights = []string{}
	}
	return resp
}

func toResponses(items []*model.Project) []*model.ProjectResponse {
	out := make([]*model.ProjectResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toResponse(p))
	}
	return out
}
