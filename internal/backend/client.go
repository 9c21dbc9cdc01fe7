// Package backend is the HTTP client of the booking backend: conflict oracle,
// calendar feed, chat, submission and admin status updates.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/eventpermit/internal/contract"
)

// Endpoint paths.
const (
	PathCheckConflict = "/api/check_conflict"
	PathEvents        = "/api/events"
	PathChat          = "/api/chat"
	PathSubmit        = "/api/submit"
	PathApplications  = "/api/applications"
	PathHealth        = "/healthz"
)

// StatusPath returns the admin status path of an event.
func StatusPath(id string) string {
	return "/api/event/" + url.PathEscape(id) + "/status"
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	TimeoutMs  int
	MaxRetries int
}

// Client talks to the booking backend.
type Client interface {
	// CheckConflict asks whether the request collides with an approved booking.
	CheckConflict(ctx context.Context, req contract.ConflictRequest) (bool, error)
	Events(ctx context.Context) ([]contract.FeedEvent, error)
	Chat(ctx context.Context, message string) (string, error)
	Submit(ctx context.Context, fields map[string]string) (*contract.SubmitResponse, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// Applications lists stored applications for review, newest first.
	Applications(ctx context.Context, query, status string) ([]contract.Application, error)

	// Available checks whether the backend is reachable.
	Available(ctx context.Context) bool
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the backend at cfg.BaseURL.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 5000
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) CheckConflict(ctx context.Context, req contract.ConflictRequest) (bool, error) {
	var resp contract.ConflictResponse
	if err := c.call(ctx, http.MethodPost, PathCheckConflict, req, &resp); err != nil {
		return false, err
	}
	flag, err := resp.Flag()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return flag, nil
}

func (c *httpClient) Events(ctx context.Context) ([]contract.FeedEvent, error) {
	var events []contract.FeedEvent
	if err := c.call(ctx, http.MethodGet, PathEvents, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *httpClient) Chat(ctx context.Context, message string) (string, error) {
	var resp contract.ChatResponse
	if err := c.call(ctx, http.MethodPost, PathChat, contract.ChatRequest{Message: message}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

func (c *httpClient) Submit(ctx context.Context, fields map[string]string) (*contract.SubmitResponse, error) {
	var resp contract.SubmitResponse
	if err := c.call(ctx, http.MethodPost, PathSubmit, contract.SubmitRequest{Fields: fields}, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: submission reply has no id", ErrProtocol)
	}
	return &resp, nil
}

func (c *httpClient) UpdateStatus(ctx context.Context, id, status string) error {
	var resp contract.StatusResponse
	if err := c.call(ctx, http.MethodPost, StatusPath(id), contract.StatusRequest{Status: status}, &resp); err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}
	return nil
}

func (c *httpClient) Applications(ctx context.Context, query, status string) ([]contract.Application, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if status != "" {
		params.Set("status", status)
	}
	path := PathApplications
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var apps []contract.Application
	if err := c.call(ctx, http.MethodGet, path, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *httpClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+PathHealth, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// call performs one JSON round trip with timeout and retries. Transport
// errors are retried; rejections, protocol errors and timeouts are not.
func (c *httpClient) call(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 0
	for i := 0; i < 1+c.cfg.MaxRetries; i++ {
		attempts++
		lastErr = c.doRequest(ctx, method, path, body, out)
		if lastErr == nil || !retryable(lastErr) || ctx.Err() != nil {
			break
		}
	}

	event := CallEvent{
		Endpoint:  endpoint(path),
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   lastErr == nil,
	}
	if lastErr == nil {
		c.observer.OnCallComplete(event)
		return nil
	}

	switch {
	case ctx.Err() != nil:
		lastErr = ErrTimeout
	case isConnectionError(lastErr):
		lastErr = fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	case retryable(lastErr) && attempts > 1:
		lastErr = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}
	event.ErrorCode = errorCode(lastErr)
	c.observer.OnCallComplete(event)
	return lastErr
}

func (c *httpClient) doRequest(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case httpResp.StatusCode >= 400 && httpResp.StatusCode < 500:
		return fmt.Errorf("%w: status %d: %s", ErrRejected, httpResp.StatusCode, rejectionMessage(respBody))
	case httpResp.StatusCode != http.StatusOK:
		return fmt.Errorf("backend returned status %d: %s", httpResp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrProtocol, err)
	}
	return nil
}

// rejectionMessage extracts the error text of a 4xx reply.
func rejectionMessage(body []byte) string {
	var resp contract.StatusResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		return resp.Error
	}
	return strings.TrimSpace(string(body))
}

// endpoint strips the query string so calls group by route.
func endpoint(path string) string {
	p, _, _ := strings.Cut(path, "?")
	return p
}

func retryable(err error) bool {
	return !errors.Is(err, ErrRejected) && !errors.Is(err, ErrProtocol)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrProtocol):
		return "PROTOCOL"
	case errors.Is(err, ErrRejected):
		return "REJECTED"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
