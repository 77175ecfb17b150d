// Package client talks to a grocerybuddy server on behalf of a signed-in
// user and keeps a local mirror of that user's list.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/grocerybuddy/internal/grocery"
	"github.com/dukerupert/grocerybuddy/internal/model"
	"github.com/dukerupert/grocerybuddy/internal/service"
	"github.com/dukerupert/grocerybuddy/internal/websocket"
)

const requestTimeout = 10 * time.Second

// APIError is a non-2xx response. It unwraps to the model sentinel matching
// its status so callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return model.ErrValidation
	case http.StatusUnauthorized:
		return model.ErrUnauthorized
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusConflict:
		return model.ErrConflict
	}
	return nil
}

// Client is a cookie-holding HTTP client for the JSON API. The session
// cookie set by Register or Login is reused for every later call.
type Client struct {
	base *url.URL
	http *http.Client
}

func New(baseURL string) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: base,
		http: &http.Client{
			Jar: jar,
			// Auth endpoints answer JSON clients directly; a redirect means
			// the session is gone.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		return &APIError{Status: http.StatusUnauthorized, Message: "Authentication required"}
	}
	var body struct {
		Error string `json:"error"`
	}
	json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

type userResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodPost, "/register", in, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	var resp userResponse
	body := map[string]string{"emailOrUsername": identifier, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/logout", nil, nil)
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) List(ctx context.Context) ([]model.GroceryItem, error) {
	var items []model.GroceryItem
	if err := c.do(ctx, http.MethodGet, "/api/groceries", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Create(ctx context.Context, in grocery.ItemInput) (*model.GroceryItem, error) {
	var item model.GroceryItem
	if err := c.do(ctx, http.MethodPost, "/api/groceries", in, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

type patchBody struct {
	Name     *string         `json:"name,omitempty"`
	Category *model.Category `json:"category,omitempty"`
	Quantity *int            `json:"quantity,omitempty"`
}

func (c *Client) Update(ctx context.Context, id int64, patch model.ItemPatch) (*model.GroceryItem, error) {
	var item model.GroceryItem
	body := patchBody{Name: patch.Name, Category: patch.Category, Quantity: patch.Quantity}
	if err := c.do(ctx, http.MethodPut, itemPath(id), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) Toggle(ctx context.Context, id int64) (*model.GroceryItem, error) {
	var item model.GroceryItem
	if err := c.do(ctx, http.MethodPatch, itemPath(id)+"/toggle", nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (*model.GroceryItem, error) {
	var resp struct {
		Item model.GroceryItem `json:"item"`
	}
	if err := c.do(ctx, http.MethodDelete, itemPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

type bulkResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

func (c *Client) ClearCompleted(ctx context.Context) (int64, error) {
	var resp bulkResponse
	if err := c.do(ctx, http.MethodDelete, "/api/groceries/bulk/completed", nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

func (c *Client) ClearAll(ctx context.Context) (int64, error) {
	var resp bulkResponse
	if err := c.do(ctx, http.MethodDelete, "/api/groceries/bulk/all", nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

// Suggest asks the server which category fits name.
func (c *Client) Suggest(ctx context.Context, name string) (model.Category, error) {
	var resp struct {
		Category model.Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/groceries/suggest?name="+url.QueryEscape(name), nil, &resp); err != nil {
		return "", err
	}
	return resp.Category, nil
}

// Watch streams live-sync events for the signed-in user to fn until ctx is
// done or the connection drops. It returns ctx.Err() on cancellation.
func (c *Client) Watch(ctx context.Context, fn func(websocket.Message)) error {
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path += "/ws"

	conn, _, err := ws.Dial(ctx, u.String(), &ws.DialOptions{HTTPClient: c.http})
	if err != nil {
		return fmt.Errorf("dial live sync: %w", err)
	}
	defer conn.CloseNow()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read live sync: %w", err)
		}
		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		fn(msg)
	}
}

func itemPath(id int64) string {
	return "/api/groceries/" + strconv.FormatInt(id, 10)
}

// IsUnauthorized reports whether err means the session is missing or expired.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
