// Package client dispatches requests to the Career Copilot HTTP API. Every
// call sends exactly one JSON request; nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

const (
	RouteSignup    = "/signup"
	RouteLogin     = "/login/face"
	RouteInterview = "/interview/generate"
	RouteResume    = "/resume/generate"
	RouteVerify    = "/verify"
	routePresigned = "presigned"
)

// fallbackMessages are used when a failed response carries no message.
var fallbackMessages = map[string]string{
	RouteSignup:    "Signup failed",
	RouteLogin:     "Login failed",
	RouteInterview: "Failed to generate questions",
	RouteResume:    "Failed to generate resume",
	RouteVerify:    "Verification failed",
	routePresigned: "Failed to fetch document",
}

// Dispatcher is the set of API operations the orchestrator depends on.
type Dispatcher interface {
	Signup(ctx context.Context, req model.SignupRequest) (model.SignupResponse, error)
	LoginByFace(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	GenerateInterviewQuestions(ctx context.Context, req model.InterviewRequest) (model.InterviewResponse, error)
	GenerateResume(ctx context.Context, draft model.ResumeDraft) (model.ResumeResponse, error)
	VerifyDocuments(ctx context.Context, req model.VerificationRequest) (model.VerificationResult, error)
	FetchMarkup(ctx context.Context, url string) (string, error)
}

// Client talks to a single API base URL.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *Metrics
}

// New builds a Client. A nil httpClient gets a client without timeout; a
// nil metrics disables instrumentation.
func New(baseURL string, httpClient *http.Client, metrics *Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		metrics: metrics,
	}
}

// Signup registers a reference face image for a user.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (model.SignupResponse, error) {
	var out model.SignupResponse
	err := c.post(ctx, RouteSignup, req, &out)
	return out, err
}

// LoginByFace compares a face image against the user's reference. The
// response is returned even when the login is rejected so callers can show
// the similarity score.
func (c *Client) LoginByFace(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	started := time.Now()
	status, body, err := c.send(ctx, http.MethodPost, c.baseURL+RouteLogin, req)
	if err != nil {
		c.metrics.observe(RouteLogin, outcomeTransport, started)
		return model.LoginResponse{}, &TransportError{Route: RouteLogin, Message: err.Error(), Err: err}
	}

	var raw struct {
		Success    *bool   `json:"success"`
		Similarity float64 `json:"similarity"`
		Token      string  `json:"token"`
		Message    string  `json:"message"`
		Error      string  `json:"error"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		c.metrics.observe(RouteLogin, outcomeHTTPError, started)
		return model.LoginResponse{}, failure(RouteLogin, status, body)
	}
	resp := model.LoginResponse{
		Success:    raw.Success != nil && *raw.Success,
		Similarity: raw.Similarity,
		Token:      raw.Token,
		Message:    firstNonEmpty(raw.Message, raw.Error),
	}
	ok := status >= 200 && status < 300
	switch {
	case ok && resp.Success:
		c.metrics.observe(RouteLogin, outcomeOK, started)
		return resp, nil
	case ok || raw.Success != nil:
		c.metrics.observe(RouteLogin, outcomeRejected, started)
		return resp, &AuthError{StatusCode: status, Similarity: resp.Similarity, Message: resp.Message}
	default:
		c.metrics.observe(RouteLogin, outcomeHTTPError, started)
		return resp, failure(RouteLogin, status, body)
	}
}

// GenerateInterviewQuestions asks for a block of numbered questions.
func (c *Client) GenerateInterviewQuestions(ctx context.Context, req model.InterviewRequest) (model.InterviewResponse, error) {
	var out model.InterviewResponse
	err := c.post(ctx, RouteInterview, req, &out)
	return out, err
}

// GenerateResume submits a draft and returns where the rendered resume
// was stored.
func (c *Client) GenerateResume(ctx context.Context, draft model.ResumeDraft) (model.ResumeResponse, error) {
	var out model.ResumeResponse
	err := c.post(ctx, RouteResume, model.ResumeRequest{User: draft}, &out)
	return out, err
}

// VerifyDocuments cross-checks resume claims against encoded documents.
func (c *Client) VerifyDocuments(ctx context.Context, req model.VerificationRequest) (model.VerificationResult, error) {
	var out model.VerificationResult
	err := c.post(ctx, RouteVerify, req, &out)
	return out, err
}

// FetchMarkup downloads the markup behind a pre-signed URL.
func (c *Client) FetchMarkup(ctx context.Context, url string) (string, error) {
	started := time.Now()
	status, body, err := c.send(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.metrics.observe(routePresigned, outcomeTransport, started)
		return "", &TransportError{Route: routePresigned, Message: err.Error(), Err: err}
	}
	if status < 200 || status >= 300 {
		c.metrics.observe(routePresigned, outcomeHTTPError, started)
		return "", failure(routePresigned, status, body)
	}
	c.metrics.observe(routePresigned, outcomeOK, started)
	return string(body), nil
}

func (c *Client) post(ctx context.Context, route string, in, out any) error {
	started := time.Now()
	status, body, err := c.send(ctx, http.MethodPost, c.baseURL+route, in)
	if err != nil {
		c.metrics.observe(route, outcomeTransport, started)
		return &TransportError{Route: route, Message: err.Error(), Err: err}
	}
	if status < 200 || status >= 300 {
		c.metrics.observe(route, outcomeHTTPError, started)
		return failure(route, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.observe(route, outcomeHTTPError, started)
		return &TransportError{
			Route:      route,
			StatusCode: status,
			Message:    fmt.Sprintf("invalid response body: %v", err),
			Err:        err,
		}
	}
	c.metrics.observe(route, outcomeOK, started)
	return nil
}

func (c *Client) send(ctx context.Context, method, url string, in any) (int, []byte, error) {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// failure builds a TransportError from a non-2xx response, preferring the
// body's "message" and then its "error" field.
func failure(route string, status int, body []byte) *TransportError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := firstNonEmpty(payload.Message, payload.Error)
	if msg == "" {
		msg = fallbackMessages[route]
	}
	return &TransportError{Route: route, StatusCode: status, Message: msg}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
