package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/service"
)

// Services bundles the use cases exposed over HTTP. A nil service leaves
// its routes unmounted, which keeps probe-only tests small.
type Services struct {
	Notifications service.NotificationService
	Projects      service.ProjectService
	Targets       service.TargetService
	Publish       service.PublishService
}

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, tr *i18n.Translator, svcs Services) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		if svcs.Notifications != nil {
			NewNotificationHandler(svcs.Notifications, tr).Register(api)
		}
		if svcs.Projects != nil {
			NewProjectHandler(svcs.Projects).Register(api)
		}
		if svcs.Targets != nil {
			NewTargetHandler(svcs.Targets).Register(api)
		}
		if svcs.Publish != nil {
			NewPublishHandler(svcs.Publish).Register(api)
		}
	}
}
