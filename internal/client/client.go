// Package client is a Go client for the mytodo HTTP API. It keeps the session
// in a cookie jar, echoes the CSRF cookie on state-changing requests,
// revalidates GET responses by ETag and mirrors the todos it has seen.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gregjones/httpcache"
)

const (
	sessionCookieName = "mytodo_session"
	csrfCookieName    = "csrf_token"
	csrfHeader        = "X-CSRF-Token"

	defaultTimeout = 30 * time.Second

	// defaultPageSize is the page size the server applies when limit is omitted.
	defaultPageSize = 10
)

// Client talks to one mytodo server on behalf of one user at a time.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     http.CookieJar

	mu    sync.Mutex
	user  *User
	todos map[int64]Todo
}

// Option customises a Client.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	timeout   time.Duration
}

// WithTransport sets the transport underneath the ETag cache.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTimeout sets the per-request timeout. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a Client for the server at baseURL.
//
// The transport chain is:
//  1. cookie jar (session and CSRF cookies)
//  2. httpcache (ETag-based conditional request caching)
//  3. the configured transport, http.DefaultTransport by default
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must be http or https", baseURL)
	}

	o := options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = o.transport

	return &Client{
		baseURL: u,
		http: &http.Client{
			Transport: cacheTransport,
			Jar:       jar,
			Timeout:   o.timeout,
		},
		jar:   jar,
		todos: make(map[int64]Todo),
	}, nil
}

// SessionToken returns the current session cookie value, or "" when signed out.
func (c *Client) SessionToken() string {
	return c.cookie(sessionCookieName)
}

// SetSessionToken restores a session saved from an earlier SessionToken call.
func (c *Client) SetSessionToken(token string) {
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  sessionCookieName,
		Value: token,
		Path:  "/",
	}})
}

// CurrentUser returns the user signed in through this client, if known.
func (c *Client) CurrentUser() *User {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Todos returns a snapshot of the local mirror ordered by id.
func (c *Client) Todos() []Todo {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Todo, 0, len(c.todos))
	for _, t := range c.todos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// Register creates an account. The server signs the new user in.
func (c *Client) Register(ctx context.Context, username, email, password string) (User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return User{}, err
	}

	c.resetState(&resp.User)
	return resp.User, nil
}

// Login signs in with username and password.
func (c *Client) Login(ctx context.Context, username, password string) (User, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return User{}, err
	}

	c.resetState(&resp.User)
	return resp.User, nil
}

// Logout ends the session and clears the local mirror.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, struct{}{}, nil); err != nil {
		return err
	}

	c.resetState(nil)
	return nil
}

// Me returns the user bound to the current session.
func (c *Client) Me(ctx context.Context) (User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &resp); err != nil {
		if IsUnauthorized(err) {
			c.resetState(nil)
		}
		return User{}, err
	}

	c.mu.Lock()
	u := resp.User
	c.user = &u
	c.mu.Unlock()
	return resp.User, nil
}

// ListTodos fetches one page of todos. A negative page or limit leaves the
// server default in place.
func (c *Client) ListTodos(ctx context.Context, page, limit int) ([]Todo, error) {
	q := url.Values{}
	if page >= 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit >= 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/todo", q, nil, &resp); err != nil {
		return nil, err
	}

	c.reconcile(page, limit, resp.Results)

	if resp.Results == nil {
		return []Todo{}, nil
	}
	return resp.Results, nil
}

// reconcile stores a fetched page in the mirror and drops mirrored todos that
// fall inside the id range the page covered but were not returned. Pages are
// ordered by id, so the first page covers everything below its last id and a
// short page covers everything above its first id.
func (c *Client) reconcile(page, limit int, results []Todo) {
	if limit == 0 {
		return
	}
	if limit < 0 {
		limit = defaultPageSize
	}
	firstPage := page <= 0
	lastPage := len(results) < limit
	if len(results) == 0 && !firstPage {
		return
	}

	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if !firstPage {
		lo = results[0].ID
	}
	if !lastPage {
		hi = results[len(results)-1].ID
	}

	returned := make(map[int64]struct{}, len(results))
	for _, t := range results {
		returned[t.ID] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.todos {
		if id < lo || id > hi {
			continue
		}
		if _, ok := returned[id]; !ok {
			delete(c.todos, id)
		}
	}
	for _, t := range results {
		c.todos[t.ID] = t
	}
}

// GetTodo fetches a single todo.
func (c *Client) GetTodo(ctx context.Context, id int64) (Todo, error) {
	var resp resultResponse
	if err := c.do(ctx, http.MethodGet, todoPath(id), nil, nil, &resp); err != nil {
		c.forgetIfGone(id, err)
		return Todo{}, err
	}

	c.remember(resp.Result)
	return resp.Result, nil
}

// CreateTodo creates a todo owned by the signed-in user.
func (c *Client) CreateTodo(ctx context.Context, in NewTodo) (Todo, error) {
	var todo Todo
	if err := c.do(ctx, http.MethodPost, "/todo", nil, in, &todo); err != nil {
		return Todo{}, err
	}

	c.remember(todo)
	return todo, nil
}

// UpdateTodo applies a partial update and returns the stored record.
func (c *Client) UpdateTodo(ctx context.Context, id int64, in TodoUpdate) (Todo, error) {
	var todo Todo
	if err := c.do(ctx, http.MethodPut, todoPath(id), nil, in, &todo); err != nil {
		c.forgetIfGone(id, err)
		return Todo{}, err
	}

	c.remember(todo)
	return todo, nil
}

// DeleteTodo deletes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	err := c.do(ctx, http.MethodDelete, todoPath(id), nil, nil, nil)
	if err != nil {
		c.forgetIfGone(id, err)
		return err
	}

	c.mu.Lock()
	delete(c.todos, id)
	c.mu.Unlock()
	return nil
}

func todoPath(id int64) string {
	return "/todo/" + strconv.FormatInt(id, 10)
}

func (c *Client) remember(t Todo) {
	c.mu.Lock()
	c.todos[t.ID] = t
	c.mu.Unlock()
}

func (c *Client) forgetIfGone(id int64, err error) {
	if !IsNotFound(err) {
		return
	}
	c.mu.Lock()
	delete(c.todos, id)
	c.mu.Unlock()
}

func (c *Client) resetState(user *User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = user
	c.todos = make(map[int64]Todo)
}

func (c *Client) cookie(name string) string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// csrfToken returns the CSRF cookie, fetching one from the server first if
// the jar has none.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	if token := c.cookie(csrfCookieName); token != "" {
		return token, nil
	}

	if err := c.Health(ctx); err != nil {
		return "", fmt.Errorf("fetching csrf token: %w", err)
	}

	token := c.cookie(csrfCookieName)
	if token == "" {
		return "", fmt.Errorf("server did not issue a %s cookie", csrfCookieName)
	}
	return token, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if method != http.MethodGet && method != http.MethodHead {
		token, err := c.csrfToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set(csrfHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// Read to EOF so httpcache stores the body.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}
