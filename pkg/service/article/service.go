package article

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell-cms/inkwell/internal/pkg/markdown"
	"github.com/inkwell-cms/inkwell/internal/pkg/strutil"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service implements the article use cases for the admin panel and the
// public front-end.
type Service struct {
	repo     repository.ArticleRepository
	catRepo  repository.CategoryRepository
	userRepo repository.UserRepository
	renderer *markdown.Renderer
	logger   zerolog.Logger
}

// NewService builds an article service.
func NewService(
	repo repository.ArticleRepository,
	catRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	renderer *markdown.Renderer,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		catRepo:  catRepo,
		userRepo: userRepo,
		renderer: renderer,
		logger:   logger.With().Str("service", "article").Logger(),
	}
}

// List returns one admin page of articles.
func (s *Service) List(ctx context.Context, options *model.ListArticlesOptions) (*model.PageData[*model.ArticleResponse], error) {
	options.Normalize()
	articles, total, err := s.repo.List(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(articles, true), total, options.Page, options.PageSize), nil
}

// ListPublished returns one public page of published articles, pinned first.
func (s *Service) ListPublished(ctx context.Context, options *model.ListArticlesOptions) (*model.PageData[*model.ArticleResponse], error) {
	options.Normalize()
	articles, total, err := s.repo.ListPublished(ctx, options)
	if err != nil {
		return nil, err
	}
	return model.NewPageData(toResponses(articles, false), total, options.Page, options.PageSize), nil
}

// Get returns one article by id, markdown source included.
func (s *Service) Get(ctx context.Context, id uint) (*model.ArticleResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(a, true), nil
}

// GetPublishedBySlug serves the public article detail page with rendered
// HTML only.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (*model.ArticleResponse, error) {
	a, err := s.repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := toResponse(a, false)
	resp.ContentHTML = a.ContentHTML
	return resp, nil
}

// Create validates the request, renders the content and stores the article.
// The author is taken from the authenticated session.
func (s *Service) Create(ctx context.Context, req *model.CreateArticleRequest, authorID uint) (*model.ArticleResponse, error) {
	if err := s.ensureSlugFree(ctx, req.Slug, 0); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.ArticleStatusDraft
	}
	if !model.IsValidArticleStatus(status) {
		return nil, fmt.Errorf("%w: unknown article status %q", constant.ErrInvalidStatus, status)
	}

	html, err := s.renderer.Render(req.ContentMD)
	if err != nil {
		return nil, err
	}

	a := &model.Article{
		Title:       req.Title,
		Slug:        req.Slug,
		Summary:     req.Summary,
		ContentMD:   req.ContentMD,
		ContentHTML: html,
		CoverURL:    req.CoverURL,
		CategoryID:  req.CategoryID,
		Tags:        req.Tags,
		Status:      status,
		IsTop:       req.IsTop,
		IsFeatured:  req.IsFeatured,
		WordCount:   strutil.CountWords(req.ContentMD),
		ScheduledAt: req.ScheduledAt,
	}
	if status == model.ArticleStatusPublished {
		now := time.Now().UTC()
		a.PublishedAt = &now
	}
	if err := s.fillCategory(ctx, a); err != nil {
		return nil, err
	}
	if err := s.fillAuthor(ctx, a, authorID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}
	s.refreshCategoryCount(ctx, created.CategoryID)
	return toResponse(created, true), nil
}

// Update applies the non-nil request fields and re-renders content when the
// markdown changed.
func (s *Service) Update(ctx context.Context, id uint, req *model.UpdateArticleRequest) (*model.ArticleResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prevCategoryID := a.CategoryID

	if req.Slug != nil && *req.Slug != a.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug, id); err != nil {
			return nil, err
		}
		a.Slug = *req.Slug
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Summary != nil {
		a.Summary = *req.Summary
	}
	if req.ContentMD != nil && *req.ContentMD != a.ContentMD {
		html, err := s.renderer.Render(*req.ContentMD)
		if err != nil {
			return nil, err
		}
		a.ContentMD = *req.ContentMD
		a.ContentHTML = html
		a.WordCount = strutil.CountWords(*req.ContentMD)
	}
	if req.CoverURL != nil {
		a.CoverURL = *req.CoverURL
	}
	if req.CategoryID != nil {
		a.CategoryID = *req.CategoryID
		if err := s.fillCategory(ctx, a); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		a.Tags = req.Tags
	}
	if req.Status != nil {
		if !model.IsValidArticleStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown article status %q", constant.ErrInvalidStatus, *req.Status)
		}
		s.applyStatus(a, *req.Status)
	}
	if req.IsTop != nil {
		a.IsTop = *req.IsTop
	}
	if req.IsFeatured != nil {
		a.IsFeatured = *req.IsFeatured
	}
	if req.ScheduledAt != nil {
		a.ScheduledAt = req.ScheduledAt
	}

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	s.refreshCategoryCount(ctx, prevCategoryID, updated.CategoryID)
	return toResponse(updated, true), nil
}

// Delete soft-deletes one article. Deleting it again reports not found.
func (s *Service) Delete(ctx context.Context, id uint) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshCategoryCount(ctx, a.CategoryID)
	return nil
}

// BatchDelete soft-deletes the whole id set or nothing at all.
func (s *Service) BatchDelete(ctx context.Context, ids []uint) error {
	if err := s.repo.BatchDelete(ctx, ids); err != nil {
		return err
	}
	s.refreshAllCategoryCounts(ctx)
	return nil
}

// UpdateStatus toggles one article's status, stamping published_at on the
// first transition to published.
func (s *Service) UpdateStatus(ctx context.Context, id uint, status string) (*model.ArticleResponse, error) {
	if !model.IsValidArticleStatus(status) {
		return nil, fmt.Errorf("%w: unknown article status %q", constant.ErrInvalidStatus, status)
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.applyStatus(a, status)
	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, err
	}
	return toResponse(updated, true), nil
}

// BatchUpdateStatus applies one status to the whole id set or nothing.
func (s *Service) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	if !model.IsValidArticleStatus(status) {
		return fmt.Errorf("%w: unknown article status %q", constant.ErrInvalidStatus, status)
	}
	return s.repo.BatchUpdateStatus(ctx, ids, status)
}

// CheckSlug reports whether the slug is free among live articles, optionally
// ignoring the article being edited.
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

// Stats aggregates the dashboard counters.
func (s *Service) Stats(ctx context.Context) (*model.ArticleStats, error) {
	return s.repo.Stats(ctx)
}

// PublishDueScheduled flips due scheduled drafts to published. Called by the
// scheduler; returns the number of articles published.
func (s *Service) PublishDueScheduled(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.FindDueScheduled(ctx, now)
	if err != nil {
		return 0, err
	}
	published := 0
	for _, a := range due {
		s.applyStatus(a, model.ArticleStatusPublished)
		a.ScheduledAt = nil
		if _, err := s.repo.Update(ctx, a); err != nil {
			s.logger.Error().Err(err).Uint("article_id", a.ID).Msg("scheduled publish failed")
			continue
		}
		published++
	}
	return published, nil
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

func (s *Service) applyStatus(a *model.Article, status string) {
	if status == model.ArticleStatusPublished && a.Status != model.ArticleStatusPublished && a.PublishedAt == nil {
		now := time.Now().UTC()
		a.PublishedAt = &now
	}
	a.Status = status
}

func (s *Service) fillCategory(ctx context.Context, a *model.Article) error {
	if a.CategoryID == 0 {
		a.CategoryName = ""
		return nil
	}
	cat, err := s.catRepo.GetByID(ctx, a.CategoryID)
	if err != nil {
		return fmt.Errorf("resolve category %d: %w", a.CategoryID, err)
	}
	a.CategoryName = cat.Name
	return nil
}

func (s *Service) fillAuthor(ctx context.Context, a *model.Article, authorID uint) error {
	if authorID == 0 {
		return nil
	}
	u, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return fmt.Errorf("resolve author %d: %w", authorID, err)
	}
	a.AuthorID = u.ID
	a.AuthorName = u.Nickname
	if a.AuthorName == "" {
		a.AuthorName = u.Username
	}
	return nil
}

// refreshCategoryCount recomputes the denormalized counters for the given
// categories. Failures are logged, not surfaced; the counter is allowed to
// go stale.
func (s *Service) refreshCategoryCount(ctx context.Context, categoryIDs ...uint) {
	seen := make(map[uint]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		count, err := s.repo.CountByCategory(ctx, id)
		if err == nil {
			err = s.catRepo.SetArticleCount(ctx, id, count)
		}
		if err != nil {
			s.logger.Warn().Err(err).Uint("category_id", id).Msg("refresh category article count failed")
		}
	}
}

func (s *Service) refreshAllCategoryCounts(ctx context.Context) {
	cats, err := s.catRepo.ListEnabled(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("list categories for recount failed")
		return
	}
	ids := make([]uint, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	s.refreshCategoryCount(ctx, ids...)
}

func toResponse(a *model.Article, includeSource bool) *model.ArticleResponse {
	resp := &model.ArticleResponse{
		ID:           a.ID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		Title:        a.Title,
		Slug:         a.Slug,
		Summary:      a.Summary,
		CoverURL:     a.CoverURL,
		CategoryID:   a.CategoryID,
		CategoryName: a.CategoryName,
		AuthorID:     a.AuthorID,
		AuthorName:   a.AuthorName,
		Tags:         a.Tags,
		Status:       a.Status,
		IsTop:        a.IsTop,
		IsFeatured:   a.IsFeatured,
		ViewCount:    a.ViewCount,
		WordCount:    a.WordCount,
		ScheduledAt:  a.ScheduledAt,
		PublishedAt:  a.PublishedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if includeSource {
		resp.ContentMD = a.ContentMD
		resp.ContentHTML = a.ContentHTML
	}
	return resp
}

func toResponses(articles []*model.Article, includeSource bool) []*model.ArticleResponse {
	out := make([]*model.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toResponse(a, includeSource))
	}
	return out
}
