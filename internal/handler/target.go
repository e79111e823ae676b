package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/composer-workspace-service/internal/service"
	"github.com/maxviazov/composer-workspace-service/pkg/response"
)

type TargetHandler struct {
	svc service.TargetService
}

func NewTargetHandler(svc service.TargetService) *TargetHandler { return &TargetHandler{svc: svc} }

func (h *TargetHandler) Register(r *gin.RouterGroup) {
	r.GET("/publish/types", h.listTypes)

	g := r.Group("/publish/targets")
	{
		g.GET("", h.list)
		g.POST("", h.create)
		g.POST("/validate-name", h.validateName)
		g.GET("/:name", h.get)
		g.PUT("/:name", h.update)
		g.DELETE("/:name", h.remove)
	}
}

// saveTargetRequest accepts the configuration either as a JSON object or as
// a string holding one.
type saveTargetRequest struct {
	Name          *string         `json:"name"`
	Type          string          `json:"type"`
	Configuration json.RawMessage `json:"configuration"`
}

type validateNameRequest struct {
	Name    string  `json:"name"`
	Current *string `json:"current"`
}

func configurationText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", true
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	}
	return string(raw), true
}

func (h *TargetHandler) listTypes(c *gin.Context) {
	response.WriteData(c, http.StatusOK, gin.H{"items": h.svc.ListTypes(c.Request.Context())})
}

func (h *TargetHandler) list(c *gin.Context) {
	targets, err := h.svc.ListTargets(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"items": targets})
}

func (h *TargetHandler) get(c *gin.Context) {
	t, err := h.svc.GetTarget(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, t)
}

func (h *TargetHandler) create(c *gin.Context) {
	var req saveTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	cfg, ok := configurationText(req.Configuration)
	if !ok {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	var name string
	if req.Name != nil {
		name = *req.Name
	}
	t, err := h.svc.SaveTarget(c.Request.Context(), nil, name, req.Type, cfg)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, t)
}

// update saves the profile named in the path. Omitting name keeps it.
func (h *TargetHandler) update(c *gin.Context) {
	var req saveTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	cfg, ok := configurationText(req.Configuration)
	if !ok {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	current := c.Param("name")
	name := current
	if req.Name != nil {
		name = *req.Name
	}
	t, err := h.svc.SaveTarget(c.Request.Context(), &current, name, req.Type, cfg)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, t)
}

func (h *TargetHandler) remove(c *gin.Context) {
	if err := h.svc.DeleteTarget(c.Request.Context(), c.Param("name")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TargetHandler) validateName(c *gin.Context) {
	var req validateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	if err := h.svc.CheckName(c.Request.Context(), req.Current, req.Name); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"valid": true})
}
