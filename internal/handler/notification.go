package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/service"
	"github.com/maxviazov/composer-workspace-service/pkg/response"
)

const serviceTimeout = 5 * time.Second

type NotificationHandler struct {
	svc service.NotificationService
	tr  *i18n.Translator
}

func NewNotificationHandler(svc service.NotificationService, tr *i18n.Translator) *NotificationHandler {
	return &NotificationHandler{svc: svc, tr: tr}
}

func (h *NotificationHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/notifications")
	{
		g.GET("", h.list)
		g.POST("", h.create)
		g.DELETE("", h.clear)
		g.GET("/:id", h.getByID)
	}
}

type createNotificationRequest struct {
	Severity string `json:"severity"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

func (h *NotificationHandler) list(c *gin.Context) {
	index, size, err := pageParams(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}

	var severity *model.Severity
	if raw := strings.TrimSpace(c.Query("severity")); raw != "" {
		sev, ok := model.ParseSeverity(raw)
		if !ok {
			response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{
				Field: "severity",
				Message: h.tr.Localize(c.Request.Context(), "Must be one of {values}", i18n.Args{
					"values": strings.Join([]string{string(model.SeverityError), string(model.SeverityWarning), string(model.SeverityInformation)}, ", "),
				}),
			}}))
			return
		}
		severity = &sev
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	page, err := h.svc.ListNotifications(ctx, severity, index, size)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, page)
}

func (h *NotificationHandler) create(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	n, err := h.svc.CreateNotification(c.Request.Context(), req.Severity, req.Location, req.Message)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, n)
}

func (h *NotificationHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "id", Message: "must be a valid integer"}}))
		return
	}
	n, err := h.svc.GetNotification(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, n)
}

func (h *NotificationHandler) clear(c *gin.Context) {
	removed, err := h.svc.ClearNotifications(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"removed": removed})
}
