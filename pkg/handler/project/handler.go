package project

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/handler"
	"github.com/inkwell-cms/inkwell/pkg/response"
	"github.com/inkwell-cms/inkwell/pkg/service/project"
	"github.com/inkwell-cms/inkwell/pkg/service/upload"
)

// Handler exposes the admin project endpoints.
type Handler struct {
	svc    *project.Service
	upload *upload.Service
}

// NewHandler builds a project handler.
func NewHandler(svc *project.Service, uploadSvc *upload.Service) *Handler {
	return &Handler{svc: svc, upload: uploadSvc}
}

// Register mounts the project routes on the admin group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/projects")
	g.GET("", h.List)
	g.GET("/stats", h.Stats)
	g.GET("/check-slug", h.CheckSlug)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.DELETE("/:id", h.Delete)
	g.DELETE("/batch", h.BatchDelete)
	g.PATCH("/batch/status", h.BatchUpdateStatus)
	g.POST("/upload/image", h.UploadImage)
}

func (h *Handler) List(c *gin.Context) {
	var options model.ListProjectsOptions
	if err := c.ShouldBindQuery(&options); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrBadRequest, err))
		return
	}
	page, err := h.svc.List(c.Request.Context(), &options)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, page, "ok")
}

func (h *Handler) Get(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, item, "ok")
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrValidation, err))
		return
	}
	item, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, item, "created")
}

func (h *Handler) Update(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	var req model.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrValidation, err))
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, item, "updated")
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	var req model.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrValidation, err))
		return
	}
	if err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, nil, "status updated")
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := handler.ParseID(c)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, nil, "deleted")
}

func (h *Handler) BatchDelete(c *gin.Context) {
	var req model.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrValidation, err))
		return
	}
	if err := h.svc.BatchDelete(c.Request.Context(), req.IDs); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, nil, "deleted")
}

func (h *Handler) BatchUpdateStatus(c *gin.Context) {
	var req model.BatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrValidation, err))
		return
	}
	if err := h.svc.BatchUpdateStatus(c.Request.Context(), req.IDs, req.Status); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, nil, "status updated")
}

func (h *Handler) CheckSlug(c *gin.Context) {
	result, err := h.svc.CheckSlug(c.Request.Context(), c.Query("slug"), handler.ParseExcludeID(c))
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, result, "ok")
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, stats, "ok")
}

func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.FailWithError(c, fmt.Errorf("%w: missing file field", constant.ErrValidation))
		return
	}
	result, err := h.upload.Save(c.Request.Context(), file)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, result, "uploaded")
}
