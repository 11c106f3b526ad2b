package travel

import (
	"context"
	"fmt"

	"github.com/inkwell-cms/inkwell/internal/pkg/strutil"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service implements the travel record use cases.
type Service struct {
	repo repository.TravelRepository
}

// NewService builds a travel service.
func NewService(repo repository.TravelRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, options *model.ListTravelsOptions) (*model.PageData[*model.TravelResponse], error) {
	options.Normalize()
	items, total, err := s.repo.List(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(items), total, options.Page, options.PageSize), nil
}

// ListPublic serves the public travel map.
func (s *Service) ListPublic(ctx context.Context, options *model.ListTravelsOptions) (*model.PageData[*model.TravelResponse], error) {
	options.Normalize()
	items, total, err := s.repo.ListPublic(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(items), total, options.Page, options.PageSize), nil
}

func (s *Service) Get(ctx context.Context, id uint) (*model.TravelResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(t), nil
}

func (s *Service) Create(ctx context.Context, req *model.CreateTravelRequest) (*model.TravelResponse, error) {
	if err := s.ensureSlugFree(ctx, req.Slug, 0); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.TravelStatusPublic
	}
	if !model.IsValidTravelStatus(status) {
		return nil, fmt.Errorf("%w: unknown travel status %q", constant.ErrInvalidStatus, status)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: end_date before start_date", constant.ErrValidation)
	}
	created, err := s.repo.Create(ctx, &model.Travel{
		Title:       req.Title,
		Slug:        req.Slug,
		Country:     req.Country,
		City:        req.City,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Images:      req.Images,
		Highlights:  req.Highlights,
		Status:      status,
	})
	if err != nil {
		return nil, err
	}
	return toResponse(created), nil
}

func (s *Service) Update(ctx context.Context, id uint, req *model.UpdateTravelRequest) (*model.TravelResponse, error) {
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
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Country != nil {
		t.Country = *req.Country
	}
	if req.City != nil {
		t.City = *req.City
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.StartDate != nil {
		t.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		t.EndDate = req.EndDate
	}
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
		return nil, fmt.Errorf("%w: end_date before start_date", constant.ErrValidation)
	}
	if req.Images != nil {
		t.Images = req.Images
	}
	if req.Highlights != nil {
		t.Highlights = req.Highlights
	}
	if req.Status != nil {
		if !model.IsValidTravelStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown travel status %q", constant.ErrInvalidStatus, *req.Status)
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
	if !model.IsValidTravelStatus(status) {
		return fmt.Errorf("%w: unknown travel status %q", constant.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	if !model.IsValidTravelStatus(status) {
		return fmt.Errorf("%w: unknown travel status %q", constant.ErrInvalidStatus, status)
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

func (s *Service) Stats(ctx context.Context) (*model.TravelStats, error) {
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

func toResponse(t *model.Travel) *model.TravelResponse {
	resp := &model.TravelResponse{
		ID:          t.ID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Title:       t.Title,
		Slug:        t.Slug,
		Country:     t.Country,
		City:        t.City,
		Description: t.Description,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Images:      t.Images,
		Highlights:  t.Highlights,
		Status:      t.Status,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if resp.Highlights == nil {
		resp.Highlights = []string{}
	}
	return resp
}

func toResponses(items []*model.Travel) []*model.TravelResponse {
	out := make([]*model.TravelResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toResponse(t))
	}
	return out
}
