package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
)

// Client talks to the visualizer backend. Safe for concurrent use; the
// session token is guarded so background calls can race a logout.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// APIError is any non-2xx response, with the server's error message when
// one was provided.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: status %d", e.Status)
	}
	return fmt.Sprintf("server error: status %d: %s", e.Status, e.Message)
}

// Profile mirrors the server's user payload.
type Profile struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Company   string `json:"company"`
}

// Session is the outcome of a successful login.
type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Analysis is one stored or freshly computed result.
type Analysis struct {
	TotalCount   int                   `json:"total_count"`
	Averages     analysis.Averages     `json:"averages"`
	Distribution analysis.Distribution `json:"distribution"`
	CreatedAt    string                `json:"created_at"`
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type SignupRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Company   string `json:"company"`
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/signup/", req, nil)
}

func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/login/", body, &s); err != nil {
		return nil, err
	}
	c.SetToken(s.Token)
	return &s, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/logout/", nil, nil)
	c.SetToken("")
	return err
}

type UpdateRequest struct {
	CurrentPassword string  `json:"currentPassword"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Role            *string `json:"role,omitempty"`
	Company         *string `json:"company,omitempty"`
	Password        *string `json:"password,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, req UpdateRequest) (*Profile, error) {
	var p Profile
	if err := c.doJSON(ctx, http.MethodPatch, "/update/", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Upload posts one CSV and returns the computed analysis.
func (c *Client) Upload(ctx context.Context, filename string, csv io.Reader) (*Analysis, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, csv); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload/", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	var out Analysis
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Records fetches the retained history, newest first. A null resultData
// comes back as an empty slice.
func (c *Client) Records(ctx context.Context) ([]Analysis, error) {
	var body struct {
		ResultData []Analysis `json:"resultData"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/record/", nil, &body); err != nil {
		return nil, err
	}
	if body.ResultData == nil {
		return []Analysis{}, nil
	}
	return body.ResultData, nil
}

type DownloadRequest struct {
	ChartImage string         `json:"chartImage"`
	Stats      map[string]any `json:"stats"`
	CreatedAt  string         `json:"created_at"`

	TotalCount   int                   `json:"total_count"`
	Averages     analysis.Averages     `json:"averages"`
	Distribution analysis.Distribution `json:"distribution"`
}

// Download fetches the encrypted PDF report bytes.
func (c *Client) Download(ctx context.Context, dr DownloadRequest) ([]byte, error) {
	payload, err := json.Marshal(dr)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/download/", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) authorize(req *http.Request) {
	if t := c.Token(); t != "" {
		req.Header.Set("Authorization", "Token "+t)
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := ""
	var body map[string]any
	if json.Unmarshal(raw, &body) == nil {
		if e, ok := body["error"].(string); ok {
			msg = e
		} else if len(body) > 0 {
			msg = strings.TrimSpace(string(raw))
		}
	} else {
		msg = strings.TrimSpace(string(raw))
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
