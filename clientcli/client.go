package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP client for the todo server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a new Client from the given config.
// The config must carry a bearer token; endpoint defaults are applied.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	resolved := cfg.WithDefaults()
	if err := resolved.ValidateWithAuth(); err != nil {
		return nil, err
	}
	resolved.Endpoint = strings.TrimSuffix(resolved.Endpoint, "/")

	c := &Client{
		config:     resolved,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// List fetches all todos for the authenticated user.
func (c *Client) List(ctx context.Context) ([]Todo, error) {
	body, err := c.do(ctx, http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, err
	}

	var todos []Todo
	if err := json.Unmarshal(body, &todos); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return todos, nil
}

// Create creates a new todo and returns the server's view of it.
func (c *Client) Create(ctx context.Context, input CreateTodoInput) (*Todo, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("create: %w", ErrEmptyName)
	}

	body, err := c.do(ctx, http.MethodPost, "/todos", input)
	if err != nil {
		return nil, err
	}

	var todo Todo
	if err := json.Unmarshal(body, &todo); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &todo, nil
}

// Update replaces the mutable fields of a todo.
func (c *Client) Update(ctx context.Context, todoID string, input UpdateTodoInput) error {
	if todoID == "" {
		return fmt.Errorf("update: %w", ErrEmptyID)
	}
	if input.Name == "" {
		return fmt.Errorf("update: %w", ErrEmptyName)
	}

	_, err := c.do(ctx, http.MethodPatch, "/todos/"+todoID, input)
	return err
}

// Delete removes a todo.
func (c *Client) Delete(ctx context.Context, todoID string) error {
	if todoID == "" {
		return fmt.Errorf("delete: %w", ErrEmptyID)
	}

	_, err := c.do(ctx, http.MethodDelete, "/todos/"+todoID, nil)
	return err
}

// AttachmentLink requests a signed upload URL for the todo's attachment.
func (c *Client) AttachmentLink(ctx context.Context, todoID string) (*UploadLink, error) {
	if todoID == "" {
		return nil, fmt.Errorf("attachment link: %w", ErrEmptyID)
	}

	body, err := c.do(ctx, http.MethodPost, "/todos/"+todoID+"/attachment", nil)
	if err != nil {
		return nil, err
	}

	var link UploadLink
	if err := json.Unmarshal(body, &link); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &link, nil
}

// UploadAttachment requests a signed URL for the todo and PUTs the local
// file to it.
func (c *Client) UploadAttachment(ctx context.Context, todoID, localPath string) (UploadResult, error) {
	link, err := c.AttachmentLink(ctx, todoID)
	if err != nil {
		return UploadResult{}, err
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("stat file: %w", err)
	}

	file, err := os.Open(filepath.Clean(localPath))
	if err != nil {
		return UploadResult{}, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, link.UploadURL, file)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = info.Size()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return UploadResult{}, parseServerError(resp.StatusCode, body)
	}

	return UploadResult{
		TodoID:    todoID,
		LocalPath: localPath,
		Size:      info.Size(),
		UploadURL: link.UploadURL,
	}, nil
}

// do executes a JSON request against the server and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, parseServerError(resp.StatusCode, body)
	}

	return body, nil
}

// parseServerError extracts the error message from a server response.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode, Body: string(body)}

	var envelope serverErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
	}

	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Message
	}
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested todo does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when authentication fails (401).
	// This typically means an invalid or missing bearer token.
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrBadRequest is returned when the server rejects the request body (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}
)
