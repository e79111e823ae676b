package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/composer-workspace-service/internal/service"
	"github.com/maxviazov/composer-workspace-service/pkg/response"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(svc service.ProjectService) *ProjectHandler { return &ProjectHandler{svc: svc} }

func (h *ProjectHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/projects/recent")
	{
		g.GET("", h.list)
		g.PUT("/:name", h.touch)
		g.DELETE("/:name", h.remove)
	}
}

type touchProjectRequest struct {
	Path string `json:"path"`
}

func (h *ProjectHandler) list(c *gin.Context) {
	limit, fe := queryInt(c, "limit", 0)
	if fe != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{*fe}))
		return
	}
	projects, err := h.svc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"items": projects})
}

func (h *ProjectHandler) touch(c *gin.Context) {
	var req touchProjectRequest
	// the body is optional
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.WriteError(c, service.ErrInvalidInput)
			return
		}
	}
	p, err := h.svc.TouchProject(c.Request.Context(), c.Param("name"), req.Path)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, p)
}

func (h *ProjectHandler) remove(c *gin.Context) {
	if err := h.svc.RemoveProject(c.Request.Context(), c.Param("name")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
