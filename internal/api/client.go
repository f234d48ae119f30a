// Package api is the HTTP client for the FaceSense REST API. It knows the
// wire formats and attaches the bearer token; it never stores data and never
// decides who is logged in, that is the session store's job.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/model"
)

// TokenSource provides the current bearer token, or "" when logged out.
// *session.Store satisfies this.
type TokenSource interface {
	Token() string
}

// APIError is a non-2xx response from the server
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// Client talks to one FaceSense server
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. tokens may be nil for
// a client that only performs the public auth calls.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the configured server address
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// do runs the request and decodes a JSON response into out (when non-nil).
// Non-2xx statuses become *APIError with the server's detail message.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	// The FastAPI-era server says {"detail": ...}, the Go server {"error": ...}
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	detail := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		detail = payload.Detail
		if detail == "" {
			detail = payload.Error
		}
	}
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	return &APIError{Status: resp.StatusCode, Detail: detail}
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// TokenResponse is the auth endpoints' reply
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login authenticates with username and password. The endpoint takes a
// form-encoded body (OAuth2 password flow), unlike the JSON endpoints.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok TokenResponse
	if err := c.do(req, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Register creates a new account and returns a token (auto-login)
func (c *Client) Register(ctx context.Context, username, password, role string) (*TokenResponse, error) {
	if role == "" {
		role = "teacher"
	}
	payload := map[string]string{
		"username": username,
		"password": password,
		"role":     role,
	}

	var tok TokenResponse
	if err := c.postJSON(ctx, "/api/auth/register", payload, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// GoogleLogin exchanges a Google ID credential for an API token
func (c *Client) GoogleLogin(ctx context.Context, credential string) (*TokenResponse, error) {
	payload := map[string]string{"credential": credential}

	var tok TokenResponse
	if err := c.postJSON(ctx, "/api/auth/google/login", payload, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// ListStudents returns all enrolled students
func (c *Client) ListStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := c.getJSON(ctx, "/api/students/", &students); err != nil {
		return nil, err
	}
	return students, nil
}

// CreateStudent enrolls a new student
func (c *Client) CreateStudent(ctx context.Context, in model.StudentIn) (*model.Student, error) {
	var out model.Student
	if err := c.postJSON(ctx, "/api/students/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent removes a student by id
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/students/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// TodayAttendance returns today's attendance records
func (c *Client) TodayAttendance(ctx context.Context) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	if err := c.getJSON(ctx, "/api/attendance/today", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MarkAttendance records a check-in for the given roll number
func (c *Client) MarkAttendance(ctx context.Context, roll, status string) (*model.AttendanceRecord, error) {
	payload := map[string]string{"roll": roll, "status": status}

	var out model.AttendanceRecord
	if err := c.postJSON(ctx, "/api/attendance/mark", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClasses returns all classes
func (c *Client) ListClasses(ctx context.Context) ([]model.ClassInfo, error) {
	var classes []model.ClassInfo
	if err := c.getJSON(ctx, "/api/classes/", &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// CreateClass adds a class
func (c *Client) CreateClass(ctx context.Context, name string) (*model.ClassInfo, error) {
	payload := map[string]string{"name": name}

	var out model.ClassInfo
	if err := c.postJSON(ctx, "/api/classes/", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClass removes a class by id
func (c *Client) DeleteClass(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/classes/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Summary returns the aggregate analytics counts
func (c *Client) Summary(ctx context.Context) (*model.Summary, error) {
	var s model.Summary
	if err := c.getJSON(ctx, "/api/analytics/summary", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ExportAttendance streams an attendance export (csv, excel or pdf) into w
// and returns the number of bytes written.
func (c *Client) ExportAttendance(ctx context.Context, format string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/attendance/export/"+url.PathEscape(format), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp)
	}
	return io.Copy(w, resp.Body)
}
