// Package backend is the HTTP client for the GreenScore backend API.
// It exposes one method per backend operation, attaches bearer-token
// auth, enforces a fixed request timeout, and centralizes error
// logging. All CO2e math lives on the other side of this client.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mygreenscore/greenscore/internal/domain"
)

// ErrNoToken is returned before any network I/O when an authenticated
// operation is attempted without a bearer token.
var ErrNoToken = errors.New("backend: missing bearer token")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Op     string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s returned status %d", e.Op, e.Status)
}

// Config carries the client's construction parameters.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger

	// DemoUser, when non-empty, switches the client to the demo
	// contract variant: requests carry user_id in the body instead of
	// a bearer token, and the token requirement is waived.
	DemoUser string
}

type Client struct {
	baseURL  string
	client   *http.Client
	logger   *slog.Logger
	demoUser string
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		demoUser: cfg.DemoUser,
	}
}

// DemoMode reports whether the client embeds identity in request
// bodies instead of relying on bearer tokens.
func (c *Client) DemoMode() bool {
	return c.demoUser != ""
}

// Assess submits line items for footprint calculation.
func (c *Client) Assess(ctx context.Context, token string, items []domain.LineItem) (*domain.AssessResponse, error) {
	req := domain.AssessRequest{UserID: c.demoUser, Items: items}
	var resp domain.AssessResponse
	if err := c.do(ctx, "assess", http.MethodPost, "/api/assess", token, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DashboardStats fetches the aggregate emissions view.
func (c *Client) DashboardStats(ctx context.Context, token string) (*domain.DashboardStats, error) {
	var resp domain.DashboardStats
	if err := c.do(ctx, "dashboard_stats", http.MethodGet, "/api/dashboard/stats", token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Trends fetches the daily emissions series for the trailing N days.
func (c *Client) Trends(ctx context.Context, token string, days int) (*domain.TrendsResponse, error) {
	q := url.Values{"days": []string{strconv.Itoa(days)}}
	var resp domain.TrendsResponse
	if err := c.do(ctx, "trends", http.MethodGet, "/api/dashboard/trends", token, q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ActiveGoal fetches the user's active goal. A nil goal with nil error
// means the backend reported no active goal; callers treat that as a
// distinguished state, not a failure.
func (c *Client) ActiveGoal(ctx context.Context, token string) (*domain.Goal, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "active_goal", http.MethodGet, "/api/goals/", token, nil, nil, &raw); err != nil {
		return nil, err
	}

	// The backend signals "no active goal" with a {"message": ...}
	// sentinel payload rather than a 404.
	var sentinel struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &sentinel); err == nil && sentinel.Message != "" {
		return nil, nil
	}

	var goal domain.Goal
	if err := json.Unmarshal(raw, &goal); err != nil {
		return nil, fmt.Errorf("backend: decode active goal: %w", err)
	}
	return &goal, nil
}

// SetGoal creates a new reduction goal; the backend archives any
// previous active goal.
func (c *Client) SetGoal(ctx context.Context, token string, target float64, period domain.GoalPeriod) (*domain.Goal, error) {
	req := domain.GoalCreateRequest{UserID: c.demoUser, TargetCO2e: target, Period: period}
	var resp domain.Goal
	if err := c.do(ctx, "set_goal", http.MethodPost, "/api/goals/", token, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportData fetches everything the backend stores about the user.
func (c *Client) ExportData(ctx context.Context, token string) (*domain.ExportData, error) {
	var resp domain.ExportData
	if err := c.do(ctx, "export_data", http.MethodGet, "/api/privacy/export", token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteData erases all of the user's backend data.
func (c *Client) DeleteData(ctx context.Context, token string) (*domain.DeleteAck, error) {
	var resp domain.DeleteAck
	if err := c.do(ctx, "delete_data", http.MethodDelete, "/api/privacy/data", token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DailyQuote fetches the daily inspiration card.
func (c *Client) DailyQuote(ctx context.Context, token string) (*domain.DailyQuote, error) {
	var resp domain.DailyQuote
	if err := c.do(ctx, "daily_quote", http.MethodGet, "/api/quotes/daily", token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches (and on the backend side, lazily creates) the profile of
// the authenticated user.
func (c *Client) Me(ctx context.Context, token string) (*domain.UserProfile, error) {
	var resp domain.UserProfile
	if err := c.do(ctx, "me", http.MethodGet, "/api/user/me", token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteOnboarding flips the user's onboarding flag on the backend.
func (c *Client) CompleteOnboarding(ctx context.Context, token string) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, "complete_onboarding", http.MethodPost, "/api/user/complete-onboarding", token, nil, nil, &resp); err != nil {
		return err
	}
	if resp.Status != "success" {
		return fmt.Errorf("backend: complete-onboarding reported status %q", resp.Status)
	}
	return nil
}

// Health checks backend liveness. It is unauthenticated.
func (c *Client) Health(ctx context.Context) error {
	return c.request(ctx, "health", http.MethodGet, "/health", "", nil, nil, nil)
}

// do is the authenticated request path: it rejects a missing token
// up front (unless in demo mode) and records per-op metrics.
func (c *Client) do(ctx context.Context, op, method, path, token string, query url.Values, body, out any) error {
	if token == "" && c.demoUser == "" {
		return ErrNoToken
	}
	return c.request(ctx, op, method, path, token, query, body, out)
}

func (c *Client) request(ctx context.Context, op, method, path, token string, query url.Values, body, out any) (err error) {
	start := time.Now()
	defer func() {
		observeRequest(op, time.Since(start), err)
	}()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return fmt.Errorf("backend: marshal %s request: %w", op, merr)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("backend: create %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("backend call failed", "op", op, "error", err)
		return fmt.Errorf("backend: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode}
		c.logger.Error("backend call failed", "op", op, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("backend response decode failed", "op", op, "error", err)
		return fmt.Errorf("backend: decode %s response: %w", op, err)
	}
	return nil
}
