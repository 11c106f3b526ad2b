package site

import (
	"context"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service aggregates the public site counters shown in the blog footer.
type Service struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	thoughts   repository.ThoughtRepository
	travels    repository.TravelRepository
	projects   repository.ProjectRepository
}

// NewService builds a site stats service.
func NewService(
	articles repository.ArticleRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	thoughts repository.ThoughtRepository,
	travels repository.TravelRepository,
	projects repository.ProjectRepository,
) *Service {
	return &Service{
		articles:   articles,
		categories: categories,
		tags:       tags,
		thoughts:   thoughts,
		travels:    travels,
		projects:   projects,
	}
}

// Stats collects the aggregate counters across all public content.
func (s *Service) Stats(ctx context.Context) (*model.SiteStats, error) {
	articleStats, err := s.articles.Stats(ctx)
	if err != nil {
		return nil, err
	}
	categoryStats, err := s.categories.Stats(ctx)
	if err != nil {
		return nil, err
	}
	tagStats, err := s.tags.Stats(ctx)
	if err != nil {
		return nil, err
	}
	thoughtStats, err := s.thoughts.Stats(ctx)
	if err != nil {
		return nil, err
	}
	travelStats, err := s.travels.Stats(ctx)
	if err != nil {
		return nil, err
	}
	projectStats, err := s.projects.Stats(ctx)
	if err != nil {
		return nil, err
	}
	words, err := s.articles.SumWords(ctx)
	if err != nil {
		return nil, err
	}

	return &model.SiteStats{
		Articles:   articleStats.Published,
		Categories: categoryStats.Enabled,
		Tags:       tagStats.Enabled,
		Thoughts:   thoughtStats.Public,
		Travels:    travelStats.Public,
		Projects:   projectStats.Published,
		TotalViews: articleStats.TotalViews,
		TotalWords: words,
	}, nil
}
