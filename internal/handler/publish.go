package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/composer-workspace-service/internal/service"
	"github.com/maxviazov/composer-workspace-service/pkg/response"
)

type PublishHandler struct {
	svc service.PublishService
}

func NewPublishHandler(svc service.PublishService) *PublishHandler { return &PublishHandler{svc: svc} }

func (h *PublishHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/publish/targets/:name")
	{
		g.POST("/publish", h.publish)
		g.GET("/history", h.history)
	}
}

type publishRequest struct {
	Comment string `json:"comment"`
}

func (h *PublishHandler) publish(c *gin.Context) {
	var req publishRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.WriteError(c, service.ErrInvalidInput)
			return
		}
	}
	rec, err := h.svc.Publish(c.Request.Context(), c.Param("name"), req.Comment)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, rec)
}

func (h *PublishHandler) history(c *gin.Context) {
	index, size, err := pageParams(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	page, err := h.svc.History(ctx, c.Param("name"), index, size)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, page)
}
