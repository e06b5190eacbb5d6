package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pizzahunt/internal/api"
	"pizzahunt/internal/config"
)

const (
	userAgent       = "PizzaHunt-Go/0.1.0"
	maxResponseSize = 4 << 20
)

// ErrUnreachable wraps transport failures: DNS, refused connections, resets
// and timeouts.
var ErrUnreachable = errors.New("pizzahunt server unreachable")

// APIError is returned by CRUD calls for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the pizzahuntd REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New builds a client for baseURL. A timeout of zero disables the deadline.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(parsed.String(), "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromConfig builds a client from the [client] section.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	timeout := time.Duration(cfg.Client.RequestTimeout) * time.Second
	return New(cfg.Client.APIURL, timeout, WithToken(cfg.Client.APIToken))
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreatePizzas submits every payload in one POST /api/pizzas with a JSON
// array body. The HTTP status is recorded but not interpreted.
func (c *Client) CreatePizzas(ctx context.Context, payloads []json.RawMessage) (Result, error) {
	if payloads == nil {
		payloads = []json.RawMessage{}
	}
	body, err := json.Marshal(payloads)
	if err != nil {
		return Result{}, fmt.Errorf("encode payloads: %w", err)
	}
	return c.submit(ctx, body)
}

// CreatePizza submits a single JSON object to POST /api/pizzas.
func (c *Client) CreatePizza(ctx context.Context, payload json.RawMessage) (Result, error) {
	if !json.Valid(payload) {
		return Result{}, errors.New("payload is not valid JSON")
	}
	return c.submit(ctx, payload)
}

func (c *Client) submit(ctx context.Context, body []byte) (Result, error) {
	status, data, err := c.roundTrip(ctx, http.MethodPost, "/api/pizzas", body)
	if err != nil {
		return Result{}, err
	}
	result := Interpret(data)
	result.StatusCode = status
	return result, nil
}

// ListPizzas fetches every pizza, newest first.
func (c *Client) ListPizzas(ctx context.Context) ([]api.Pizza, error) {
	var out []api.Pizza
	err := c.doJSON(ctx, http.MethodGet, "/api/pizzas", nil, &out)
	return out, err
}

// GetPizza fetches one pizza.
func (c *Client) GetPizza(ctx context.Context, id string) (api.Pizza, error) {
	var out api.Pizza
	err := c.doJSON(ctx, http.MethodGet, "/api/pizzas/"+url.PathEscape(id), nil, &out)
	return out, err
}

// UpdatePizza replaces the fields set in req.
func (c *Client) UpdatePizza(ctx context.Context, id string, req api.PizzaRequest) (api.Pizza, error) {
	var out api.Pizza
	err := c.doJSON(ctx, http.MethodPut, "/api/pizzas/"+url.PathEscape(id), req, &out)
	return out, err
}

// DeletePizza deletes a pizza and returns it.
func (c *Client) DeletePizza(ctx context.Context, id string) (api.Pizza, error) {
	var out api.Pizza
	err := c.doJSON(ctx, http.MethodDelete, "/api/pizzas/"+url.PathEscape(id), nil, &out)
	return out, err
}

// AddComment attaches a comment and returns the updated pizza.
func (c *Client) AddComment(ctx context.Context, pizzaID string, req api.CommentRequest) (api.Pizza, error) {
	var out api.Pizza
	err := c.doJSON(ctx, http.MethodPost, "/api/comments/"+url.PathEscape(pizzaID), req, &out)
	return out, err
}

// RemoveComment deletes a comment and returns the updated pizza.
func (c *Client) RemoveComment(ctx context.Context, pizzaID, commentID string) (api.Pizza, error) {
	var out api.Pizza
	err := c.doJSON(ctx, http.MethodDelete, commentPath(pizzaID, commentID), nil, &out)
	return out, err
}

// AddReply nests a reply and returns the updated comment.
func (c *Client) AddReply(ctx context.Context, pizzaID, commentID string, req api.ReplyRequest) (api.Comment, error) {
	var out api.Comment
	err := c.doJSON(ctx, http.MethodPut, commentPath(pizzaID, commentID), req, &out)
	return out, err
}

// RemoveReply pulls a reply and returns the updated comment.
func (c *Client) RemoveReply(ctx context.Context, pizzaID, commentID, replyID string) (api.Comment, error) {
	var out api.Comment
	err := c.doJSON(ctx, http.MethodDelete, commentPath(pizzaID, commentID)+"/"+url.PathEscape(replyID), nil, &out)
	return out, err
}

func commentPath(pizzaID, commentID string) string {
	return "/api/comments/" + url.PathEscape(pizzaID) + "/" + url.PathEscape(commentID)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	var body []byte
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = encoded
	}
	status, data, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		apiErr := &APIError{StatusCode: status}
		var msg api.MessageResponse
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w: %w", method, path, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%s %s: read response: %w: %w", method, path, ErrUnreachable, err)
	}
	return resp.StatusCode, data, nil
}
