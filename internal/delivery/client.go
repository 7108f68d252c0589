// Package delivery calls the external push and email endpoints.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"constructhub/pkg/circuitbreaker"
	"constructhub/pkg/metrics"
	"constructhub/pkg/trace"
)

// endpoint is one breaker-guarded JSON POST target.
type endpoint struct {
	channel    string
	url        string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func newEndpoint(channel, url string, timeout time.Duration, logger *zap.Logger) endpoint {
	return endpoint{
		channel: channel,
		url:     url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		// 连续失败 3 次后熔断 30 秒
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
			FailureThreshold:    3,
			SuccessThreshold:    1,
			Timeout:             30 * time.Second,
			HalfOpenMaxRequests: 1,
		}),
		logger: logger,
	}
}

// post sends body and hands a 2xx response to decode (which may be nil).
func (e *endpoint) post(ctx context.Context, body any, decode func(io.Reader) error) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", e.channel, err)
	}

	return e.cb.Execute(func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(b))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if traceID := trace.FromContext(ctx); traceID != "" {
			req.Header.Set(trace.HeaderName, traceID)
		}

		resp, err := e.httpClient.Do(req)
		if err != nil {
			metrics.RecordDeliveryCall(e.channel, "error", time.Since(start))
			return fmt.Errorf("%s endpoint: %w", e.channel, err)
		}
		defer resp.Body.Close()

		metrics.RecordDeliveryCall(e.channel, strconv.Itoa(resp.StatusCode), time.Since(start))
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return fmt.Errorf("%s endpoint returned %d", e.channel, resp.StatusCode)
		}
		if decode == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		return decode(resp.Body)
	})
}

// PushMessage is the body accepted by the push endpoint.
type PushMessage struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	UserIDs   []string `json:"userIds"`
	ActionURL string   `json:"actionUrl,omitempty"`
}

type PushClient struct {
	endpoint
}

// NewPushClient returns a client for url. An empty url makes Push a no-op.
func NewPushClient(url string, timeout time.Duration, logger *zap.Logger) *PushClient {
	return &PushClient{endpoint: newEndpoint("push", url, timeout, logger)}
}

func (c *PushClient) Push(ctx context.Context, msg PushMessage) error {
	if c.url == "" || len(msg.UserIDs) == 0 {
		return nil
	}
	if err := c.post(ctx, msg, nil); err != nil {
		return err
	}
	c.logger.Debug("Push delivered", zap.Int("recipients", len(msg.UserIDs)))
	return nil
}

// Email is the body accepted by the email endpoint.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

type emailResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type EmailClient struct {
	endpoint
}

// NewEmailClient returns a client for url. An empty url makes Send a no-op.
func NewEmailClient(url string, timeout time.Duration, logger *zap.Logger) *EmailClient {
	return &EmailClient{endpoint: newEndpoint("email", url, timeout, logger)}
}

// Send posts one email. A {success:false} answer is returned as an error.
func (c *EmailClient) Send(ctx context.Context, email Email) error {
	if c.url == "" {
		return nil
	}
	if email.To == "" {
		return fmt.Errorf("email has no recipient address")
	}

	var result emailResult
	err := c.post(ctx, email, func(r io.Reader) error {
		if err := json.NewDecoder(r).Decode(&result); err != nil {
			return fmt.Errorf("decode email response: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !result.Success {
		if result.Error == "" {
			result.Error = "unknown error"
		}
		return fmt.Errorf("email endpoint rejected message: %s", result.Error)
	}
	return nil
}
