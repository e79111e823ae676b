package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/composer-workspace-service/internal/config"
	"github.com/maxviazov/composer-workspace-service/internal/handler"
	"github.com/maxviazov/composer-workspace-service/internal/i18n"
	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/pagination"
	"github.com/maxviazov/composer-workspace-service/internal/publish"
	"github.com/maxviazov/composer-workspace-service/internal/repository/memory"
	"github.com/maxviazov/composer-workspace-service/internal/service"
	"github.com/maxviazov/composer-workspace-service/pkg/response"
)

type switchPublisher struct{ err error }

func (p *switchPublisher) Publish(_ context.Context, s publish.Submission) (publish.Result, error) {
	if p.err != nil {
		return publish.Result{}, p.err
	}
	return publish.Result{Message: "ok " + s.Target}, nil
}

type apiFixture struct {
	engine *gin.Engine
	pub    *switchPublisher
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zerolog.New(io.Discard)
	tr, err := i18n.New("en-US")
	require.NoError(t, err)
	reg, err := publish.NewRegistry([]config.PublishTypeConfig{
		{Name: "localPublish"},
		{Name: "azurePublish", Schema: `{"type":"object","required":["subscriptionId"]}`},
	})
	require.NoError(t, err)

	store := memory.New()
	pub := &switchPublisher{}
	now := func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(log), handler.Metrics(), handler.Language(tr))
	handler.Register(r, store, tr, handler.Services{
		Notifications: service.NewNotificationService(store.Notifications(), tr, log),
		Projects:      service.NewProjectService(store.Projects(), tr, now, log),
		Targets:       service.NewTargetService(store.Targets(), store, reg, tr, log),
		Publish:       service.NewPublishService(store.Targets(), store.History(), pub, tr, now, log),
	})
	return &apiFixture{engine: r, pub: pub}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body=%s", w.Body.String())
	return v
}

func TestNotificationsAPI_Paging(t *testing.T) {
	f := newAPI(t)
	for i := 0; i < 25; i++ {
		w := f.do(t, http.MethodPost, "/api/v1/notifications", map[string]string{
			"severity": "error", "location": "main.dialog", "message": fmt.Sprintf("n%d", i),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := f.do(t, http.MethodGet, "/api/v1/notifications?page=3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[pagination.Page[model.Notification]](t, w)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 25, page.Total)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "n20", page.Items[0].Message)

	// out of range is not an error
	w = f.do(t, http.MethodGet, "/api/v1/notifications?page=9&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"page":9,"page_size":10,"page_count":3,"total":25}`, w.Body.String())

	// a page whose offset does not fit in an int is still just empty
	w = f.do(t, http.MethodGet, "/api/v1/notifications?page=92233720368547760&page_size=100", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"items":[],"page":92233720368547760,"page_size":100,"page_count":1,"total":25}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/notifications?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/notifications?severity=fatal", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/notifications/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/api/v1/notifications/x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":25}`, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/notifications", nil)
	assert.JSONEq(t, `{"items":[],"page":1,"page_size":10,"page_count":1,"total":0}`, w.Body.String())
}

func TestProjectsAPI(t *testing.T) {
	f := newAPI(t)
	w := f.do(t, http.MethodPut, "/api/v1/projects/recent/EchoBot", map[string]string{"path": "/bots/echo"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/projects/recent?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Items []model.BotProject `json:"items"`
	}](t, w)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "/bots/echo", body.Items[0].Path)
	assert.Equal(t, "now", body.Items[0].DateModifiedLabel)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/v1/projects/recent/EchoBot", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/api/v1/projects/recent/EchoBot", nil).Code)
}

func TestTargetsAPI_SaveAndValidate(t *testing.T) {
	f := newAPI(t)

	w := f.do(t, http.MethodPost, "/api/v1/publish/targets", map[string]any{
		"name": "prod", "type": "azurePublish", "configuration": map[string]string{"subscriptionId": "abc"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.PublishTarget](t, w)
	assert.Equal(t, `{"subscriptionId":"abc"}`, created.Configuration)

	// configuration may also arrive as a string
	w = f.do(t, http.MethodPost, "/api/v1/publish/targets", map[string]any{
		"name": "dev", "type": "localPublish", "configuration": `{"slot":"x"}`,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/publish/targets", map[string]any{
		"name": "PROD", "type": "ftp", "configuration": "[]",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	payload := decode[response.ErrorPayload](t, w)
	fields := map[string]string{}
	for _, fe := range payload.FieldErrors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "A profile with that name already exists.", fields["name"])
	assert.Equal(t, "Unknown publish destination type ftp", fields["type"])

	w = f.do(t, http.MethodPost, "/api/v1/publish/targets/validate-name", map[string]any{"name": "Prod"},
		"Accept-Language", "de-DE,de;q=0.9")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "de-DE", w.Header().Get("Content-Language"))
	payload = decode[response.ErrorPayload](t, w)
	require.Len(t, payload.FieldErrors, 1)
	assert.Equal(t, "Ein Profil mit diesem Namen existiert bereits.", payload.FieldErrors[0].Message)

	w = f.do(t, http.MethodPost, "/api/v1/publish/targets/validate-name", map[string]any{"name": "Prod", "current": "prod"})
	assert.Equal(t, http.StatusOK, w.Code)

	// rename keeps the type, omitting name keeps the name
	w = f.do(t, http.MethodPut, "/api/v1/publish/targets/dev", map[string]any{"name": "staging", "type": "localPublish"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = f.do(t, http.MethodPut, "/api/v1/publish/targets/staging", map[string]any{"type": "localPublish"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "staging", decode[model.PublishTarget](t, w).Name)

	w = f.do(t, http.MethodGet, "/api/v1/publish/targets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Items []model.PublishTarget `json:"items"`
	}](t, w)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "prod", list.Items[0].Name)
	assert.Equal(t, "staging", list.Items[1].Name)

	w = f.do(t, http.MethodGet, "/api/v1/publish/types", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/v1/publish/targets/STAGING", nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/publish/targets/staging", nil).Code)
}

func TestPublishAPI(t *testing.T) {
	f := newAPI(t)
	w := f.do(t, http.MethodPost, "/api/v1/publish/targets", map[string]any{"name": "prod", "type": "localPublish"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/publish/targets/prod/publish", map[string]string{"comment": "v1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rec := decode[model.PublishRecord](t, w)
	assert.Equal(t, model.PublishSucceeded, rec.Status)

	f.pub.err = errors.New("endpoint returned status 503")
	w = f.do(t, http.MethodPost, "/api/v1/publish/targets/prod/publish?lang=en-US", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)
	payload := decode[response.ErrorPayload](t, w)
	assert.Equal(t, "publish_failed", payload.Error)
	require.NotNil(t, payload.Report)
	assert.Equal(t, "Publish failed", payload.Report.Title)
	assert.Equal(t, "Could not publish to prod: endpoint returned status 503", payload.Report.Message)

	w = f.do(t, http.MethodGet, "/api/v1/publish/targets/prod/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode[pagination.Page[model.PublishRecord]](t, w)
	assert.Equal(t, 2, hist.Total)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/v1/publish/targets/nope/publish", nil).Code)
}
