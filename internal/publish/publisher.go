package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/maxviazov/composer-workspace-service/internal/metrics"
)

// Submission is what a publisher receives for one publish request.
type Submission struct {
	Target        string          `json:"target"`
	Type          string          `json:"type"`
	Configuration json.RawMessage `json:"configuration"`
	Comment       string          `json:"comment"`
}

// Result is the publisher's acknowledgement.
type Result struct {
	Message string `json:"message"`
}

// Publisher delivers submissions. Failure handling beyond returning an
// error belongs to the implementation.
type Publisher interface {
	Publish(ctx context.Context, s Submission) (Result, error)
}

// LogPublisher only records the submission. It is used when no delivery
// endpoint is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: logger.With().Str("module", "publish").Str("component", "log").Logger()}
}

func (p *LogPublisher) Publish(ctx context.Context, s Submission) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	p.log.Info().
		Str("target", s.Target).
		Str("type", s.Type).
		Str("comment", s.Comment).
		RawJSON("configuration", s.Configuration).
		Msg("publish accepted")
	return Result{Message: "accepted"}, nil
}

// ErrBreakerOpen is returned while the webhook circuit breaker rejects calls.
var ErrBreakerOpen = errors.New("publish endpoint unavailable")

// WebhookPublisher POSTs submissions as JSON. Three consecutive failures
// open the breaker for 30 seconds.
type WebhookPublisher struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker
	log    zerolog.Logger
}

func NewWebhookPublisher(url string, timeout time.Duration, logger zerolog.Logger) *WebhookPublisher {
	l := logger.With().Str("module", "publish").Str("component", "webhook").Logger()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        "publish-webhook",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			l.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &WebhookPublisher{
		url:    url,
		client: &http.Client{Timeout: timeout},
		cb:     gobreaker.NewCircuitBreaker(settings),
		log:    l,
	}
}

func (p *WebhookPublisher) Publish(ctx context.Context, s Submission) (Result, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return Result{}, fmt.Errorf("encode submission: %w", err)
	}

	out, err := p.cb.Execute(func() (interface{}, error) {
		return p.post(ctx, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Result{}, ErrBreakerOpen
		}
		return Result{}, err
	}
	return out.(Result), nil
}

func (p *WebhookPublisher) post(ctx context.Context, body []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post submission: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			p.log.Warn().Err(cerr).Msg("failed to close response body")
		}
	}()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("publish endpoint returned status %d", resp.StatusCode)
	}
	var res Result
	if len(bytes.TrimSpace(raw)) > 0 {
		// a non-JSON success body is still a success
		_ = json.Unmarshal(raw, &res)
	}
	if res.Message == "" {
		res.Message = http.StatusText(resp.StatusCode)
	}
	return res, nil
}
