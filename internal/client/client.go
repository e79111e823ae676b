// Package client is a typed HTTP client for the workspace API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/pagination"
	"github.com/maxviazov/composer-workspace-service/pkg/response"
)

// APIError is a non-2xx response decoded from the API error envelope.
type APIError struct {
	Status  int
	Payload response.ErrorPayload
}

func (e *APIError) Error() string {
	if e.Payload.Message != "" {
		return fmt.Sprintf("api returned %d %s: %s", e.Status, e.Payload.Error, e.Payload.Message)
	}
	return fmt.Sprintf("api returned %d %s", e.Status, e.Payload.Error)
}

// Report returns the retryable error report carried by err, if any.
func Report(err error) (model.ErrorReport, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Payload.Report != nil {
		return *apiErr.Payload.Report, true
	}
	return model.ErrorReport{}, false
}

type Client struct {
	baseURL string
	lang    string
	http    *http.Client
}

// New returns a client for the API rooted at baseURL (e.g. http://localhost:8080).
// lang, when set, is sent as Accept-Language.
func New(baseURL, lang string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		lang:    lang,
		http:    httpClient,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.lang != "" {
		req.Header.Set("Accept-Language", c.lang)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err := json.Unmarshal(raw, &apiErr.Payload); err != nil || apiErr.Payload.Error == "" {
			apiErr.Payload.Error = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func pageQuery(index, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(index))
	if size > 0 {
		q.Set("page_size", strconv.Itoa(size))
	}
	return q
}

type listEnvelope[T any] struct {
	Items []T `json:"items"`
}

func (c *Client) ListNotifications(ctx context.Context, severity string, index, size int) (pagination.Page[model.Notification], error) {
	q := pageQuery(index, size)
	if severity != "" {
		q.Set("severity", severity)
	}
	var out pagination.Page[model.Notification]
	err := c.do(ctx, http.MethodGet, "/notifications", q, nil, &out)
	return out, err
}

// AllNotifications walks every page at the largest page size.
func (c *Client) AllNotifications(ctx context.Context, severity string) ([]model.Notification, error) {
	var all []model.Notification
	for index := 1; ; index++ {
		page, err := c.ListNotifications(ctx, severity, index, pagination.MaxSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if !page.HasNext() {
			return all, nil
		}
	}
}

func (c *Client) ClearNotifications(ctx context.Context) (int64, error) {
	var out struct {
		Removed int64 `json:"removed"`
	}
	err := c.do(ctx, http.MethodDelete, "/notifications", nil, nil, &out)
	return out.Removed, err
}

func (c *Client) RecentProjects(ctx context.Context, limit int) ([]model.BotProject, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out listEnvelope[model.BotProject]
	err := c.do(ctx, http.MethodGet, "/projects/recent", q, nil, &out)
	return out.Items, err
}

func (c *Client) ListTypes(ctx context.Context) ([]model.PublishType, error) {
	var out listEnvelope[model.PublishType]
	err := c.do(ctx, http.MethodGet, "/publish/types", nil, nil, &out)
	return out.Items, err
}

func (c *Client) ListTargets(ctx context.Context) ([]model.PublishTarget, error) {
	var out listEnvelope[model.PublishTarget]
	err := c.do(ctx, http.MethodGet, "/publish/targets", nil, nil, &out)
	return out.Items, err
}

// SaveTarget creates a profile when current is empty, otherwise updates
// the profile named current.
func (c *Client) SaveTarget(ctx context.Context, current, name, typeName, configuration string) (model.PublishTarget, error) {
	body := map[string]any{"name": name, "type": typeName, "configuration": configuration}
	var out model.PublishTarget
	if current == "" {
		err := c.do(ctx, http.MethodPost, "/publish/targets", nil, body, &out)
		return out, err
	}
	err := c.do(ctx, http.MethodPut, "/publish/targets/"+url.PathEscape(current), nil, body, &out)
	return out, err
}

func (c *Client) DeleteTarget(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/publish/targets/"+url.PathEscape(name), nil, nil, nil)
}

func (c *Client) Publish(ctx context.Context, target, comment string) (model.PublishRecord, error) {
	var out model.PublishRecord
	err := c.do(ctx, http.MethodPost, "/publish/targets/"+url.PathEscape(target)+"/publish", nil, map[string]string{"comment": comment}, &out)
	return out, err
}

func (c *Client) History(ctx context.Context, target string, index, size int) (pagination.Page[model.PublishRecord], error) {
	var out pagination.Page[model.PublishRecord]
	err := c.do(ctx, http.MethodGet, "/publish/targets/"+url.PathEscape(target)+"/history", pageQuery(index, size), nil, &out)
	return out, err
}
