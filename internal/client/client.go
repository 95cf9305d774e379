// Package client is a typed HTTP client for the job board API together with
// the view-state helpers a front end builds on it.
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
	"sync"
	"time"
)

// APIError is a non-2xx response decoded from the API error envelope.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client calls the API. While a token is set every request carries it as a
// bearer token.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:5000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Logout forgets the session token.
func (c *Client) Logout() {
	c.SetToken("")
}

func (c *Client) authorize(req *http.Request) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			apiErr.Code = envelope.Code
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Register creates an account and starts a session for it.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/users/register", nil, in, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return resp.session(), nil
}

// Login starts a session for an existing account.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", nil, in, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return resp.session(), nil
}

// Me returns the account of the current session.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListJobs fetches one page of the public listing.
func (c *Client) ListJobs(ctx context.Context, q JobQuery) (*JobPage, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Location != "" {
		query.Set("location", q.Location)
	}
	if q.JobType != "" {
		query.Set("jobType", q.JobType)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var page JobPage
	if err := c.do(ctx, http.MethodGet, "/api/jobs", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetJob fetches a single listing.
func (c *Client) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs/"+url.PathEscape(id), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob posts a listing as the current employer.
func (c *Client) CreateJob(ctx context.Context, in JobInput) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", nil, in, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// MyJobs lists the current employer's listings.
func (c *Client) MyJobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := c.do(ctx, http.MethodGet, "/api/jobs/mine", nil, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Apply submits an application as the current student.
func (c *Client) Apply(ctx context.Context, jobID, resumeURL string) (*Application, error) {
	var application Application
	in := map[string]string{"jobId": jobID, "resumeUrl": resumeURL}
	if err := c.do(ctx, http.MethodPost, "/api/applications", nil, in, &application); err != nil {
		return nil, err
	}
	return &application, nil
}

// MyApplications lists the current student's applications.
func (c *Client) MyApplications(ctx context.Context) ([]Application, error) {
	var applications []Application
	if err := c.do(ctx, http.MethodGet, "/api/applications/my-applications", nil, nil, &applications); err != nil {
		return nil, err
	}
	return applications, nil
}

// JobApplications lists the applicants of one of the current employer's jobs.
func (c *Client) JobApplications(ctx context.Context, jobID string) ([]Application, error) {
	var applications []Application
	if err := c.do(ctx, http.MethodGet, "/api/applications/"+url.PathEscape(jobID), nil, nil, &applications); err != nil {
		return nil, err
	}
	return applications, nil
}

// UpdateStatus moves an application to a new status.
func (c *Client) UpdateStatus(ctx context.Context, applicationID, status string) (*Application, error) {
	var application Application
	in := map[string]string{"status": status}
	path := "/api/applications/" + url.PathEscape(applicationID) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, nil, in, &application); err != nil {
		return nil, err
	}
	return &application, nil
}
