package public

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/response"
	"github.com/inkwell-cms/inkwell/pkg/service/article"
	"github.com/inkwell-cms/inkwell/pkg/service/category"
	"github.com/inkwell-cms/inkwell/pkg/service/project"
	"github.com/inkwell-cms/inkwell/pkg/service/site"
	"github.com/inkwell-cms/inkwell/pkg/service/tag"
	"github.com/inkwell-cms/inkwell/pkg/service/techstack"
	"github.com/inkwell-cms/inkwell/pkg/service/thought"
	"github.com/inkwell-cms/inkwell/pkg/service/travel"
	"github.com/inkwell-cms/inkwell/pkg/service/viewcount"
)

// Handler serves the unauthenticated blog front-end: published content only.
type Handler struct {
	articles   *article.Service
	categories *category.Service
	tags       *tag.Service
	techStacks *techstack.Service
	thoughts   *thought.Service
	travels    *travel.Service
	projects   *project.Service
	site       *site.Service
	views      *viewcount.Service
}

// NewHandler builds the public handler.
func NewHandler(
	articles *article.Service,
	categories *category.Service,
	tags *tag.Service,
	techStacks *techstack.Service,
	thoughts *thought.Service,
	travels *travel.Service,
	projects *project.Service,
	siteSvc *site.Service,
	views *viewcount.Service,
) *Handler {
	return &Handler{
		articles:   articles,
		categories: categories,
		tags:       tags,
		techStacks: techStacks,
		thoughts:   thoughts,
		travels:    travels,
		projects:   projects,
		site:       siteSvc,
		views:      views,
	}
}

// Register mounts the public routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/articles", h.ListArticles)
	rg.GET("/articles/:slug", h.GetArticle)
	rg.GET("/categories", h.ListCategories)
	rg.GET("/tags", h.ListTags)
	rg.GET("/tech-stacks", h.ListTechStacks)
	rg.GET("/thoughts", h.ListThoughts)
	rg.GET("/travels", h.ListTravels)
	rg.GET("/projects", h.ListProjects)
	rg.GET("/stats", h.SiteStats)
}

func (h *Handler) ListArticles(c *gin.Context) {
	var options model.ListArticlesOptions
	if err := c.ShouldBindQuery(&options); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrBadRequest, err))
		return
	}
	page, err := h.articles.ListPublished(c.Request.Context(), &options)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, page, "ok")
}

// GetArticle serves the article detail page and counts the view.
func (h *Handler) GetArticle(c *gin.Context) {
	a, err := h.articles.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	h.views.Record(c.Request.Context(), a.ID)
	response.Success(c, a, "ok")
}

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.categories.ListEnabled(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, cats, "ok")
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.tags.ListEnabled(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, tags, "ok")
}

func (h *Handler) ListTechStacks(c *gin.Context) {
	items, err := h.techStacks.ListEnabled(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, items, "ok")
}

func (h *Handler) ListThoughts(c *gin.Context) {
	var options model.ListThoughtsOptions
	if err := c.ShouldBindQuery(&options); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrBadRequest, err))
		return
	}
	page, err := h.thoughts.ListPublic(c.Request.Context(), &options)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, page, "ok")
}

func (h *Handler) ListTravels(c *gin.Context) {
	var options model.ListTravelsOptions
	if err := c.ShouldBindQuery(&options); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrBadRequest, err))
		return
	}
	page, err := h.travels.ListPublic(c.Request.Context(), &options)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, page, "ok")
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.projects.ListPublished(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, projects, "ok")
}

func (h *Handler) SiteStats(c *gin.Context) {
	stats, err := h.site.Stats(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, stats, "ok")
}
