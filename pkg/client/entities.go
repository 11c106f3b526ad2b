package client

import (
	"context"
	"net/http"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// ArticleResource adds the article-only toggles to the uniform surface.
type ArticleResource struct {
	*Resource[model.ArticleResponse, model.ArticleStats]
}

type toggleRequest struct {
	Value bool `json:"value"`
}

// SetTop pins or unpins the article on the public feed.
func (r *ArticleResource) SetTop(ctx context.Context, id uint, value bool) (*model.ArticleResponse, error) {
	var item model.ArticleResponse
	err := r.c.do(ctx, http.MethodPatch, r.itemPath(id)+"/top", nil, toggleRequest{Value: value}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetFeatured marks or unmarks the article as featured.
func (r *ArticleResource) SetFeatured(ctx context.Context, id uint, value bool) (*model.ArticleResponse, error) {
	var item model.ArticleResponse
	err := r.c.do(ctx, http.MethodPatch, r.itemPath(id)+"/featured", nil, toggleRequest{Value: value}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Articles returns the article client.
func (c *Client) Articles() *ArticleResource {
	return &ArticleResource{NewResource[model.ArticleResponse, model.ArticleStats](c, "/api/articles")}
}

// Categories returns the category client.
func (c *Client) Categories() *Resource[model.CategoryResponse, model.CategoryStats] {
	return NewResource[model.CategoryResponse, model.CategoryStats](c, "/api/categories")
}

// Tags returns the tag client.
func (c *Client) Tags() *Resource[model.TagResponse, model.TagStats] {
	return NewResource[model.TagResponse, model.TagStats](c, "/api/tags")
}

// TechStacks returns the tech stack client.
func (c *Client) TechStacks() *Resource[model.TechStackResponse, model.TechStackStats] {
	return NewResource[model.TechStackResponse, model.TechStackStats](c, "/api/tech-stacks")
}

// Thoughts returns the thought client.
func (c *Client) Thoughts() *Resource[model.ThoughtResponse, model.ThoughtStats] {
	return NewResource[model.ThoughtResponse, model.ThoughtStats](c, "/api/thoughts")
}

// Travels returns the travel client.
func (c *Client) Travels() *Resource[model.TravelResponse, model.TravelStats] {
	return NewResource[model.TravelResponse, model.TravelStats](c, "/api/travels")
}

// Projects returns the project client.
func (c *Client) Projects() *Resource[model.ProjectResponse, model.ProjectStats] {
	return NewResource[model.ProjectResponse, model.ProjectStats](c, "/api/projects")
}

// Users returns the admin account client.
func (c *Client) Users() *Resource[model.UserResponse, model.UserStats] {
	return NewResource[model.UserResponse, model.UserStats](c, "/api/users")
}
