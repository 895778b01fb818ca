// Package client is a typed HTTP client for the freshrack API. It is shared
// by the web UI and the command line tool.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/model"
)

// DefaultTimeout bounds every request unless WithHTTPClient overrides it.
const DefaultTimeout = 15 * time.Second

// Client talks to a freshrack API server. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "freshrack-client",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server address the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FoodFilter narrows ListFoods. Zero fields match everything.
type FoodFilter struct {
	Search   string
	Category model.FoodCategory
	Owner    string
}

// FoodInput holds the writable fields of a food item.
type FoodInput struct {
	Title       string             `json:"title"`
	Category    model.FoodCategory `json:"category"`
	Quantity    int                `json:"quantity"`
	ExpiryDate  string             `json:"expiryDate"`
	ImageURL    string             `json:"imageUrl,omitempty"`
	Description string             `json:"description,omitempty"`
}

// InputOf returns the writable fields of item.
func InputOf(item *model.FoodItem) FoodInput {
	return FoodInput{
		Title:       item.Title,
		Category:    item.Category,
		Quantity:    item.Quantity,
		ExpiryDate:  item.ExpiryDate,
		ImageURL:    item.ImageURL,
		Description: item.Description,
	}
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (r sessionResponse) session() Session {
	s := Session{Token: r.Token}
	if r.User != nil {
		s.Email = r.User.Email
		s.Name = r.User.Name
	}
	return s
}

// Register creates an account and returns a session for it.
func (c *Client) Register(ctx context.Context, name, email, photoURL, password string) (Session, error) {
	var out sessionResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", Session{}, map[string]string{
		"name":     name,
		"email":    email,
		"photoUrl": photoURL,
		"password": password,
	}, &out)
	if err != nil {
		return Session{}, err
	}
	return out.session(), nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var out sessionResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", Session{}, map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return Session{}, err
	}
	return out.session(), nil
}

// Logout revokes the session's token on the server.
func (c *Client) Logout(ctx context.Context, s Session) error {
	if !s.LoggedIn() {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/api/auth/logout", s, nil, nil)
}

// Me returns the account behind s.
func (c *Client) Me(ctx context.Context, s Session) (*model.User, error) {
	if !s.LoggedIn() {
		return nil, ErrUnauthorized
	}
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", s, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Policy returns the server's expiry policy.
func (c *Client) Policy(ctx context.Context) (expiry.Policy, error) {
	var p expiry.Policy
	if err := c.do(ctx, http.MethodGet, "/api/policy", Session{}, nil, &p); err != nil {
		return expiry.Policy{}, err
	}
	return p, nil
}

// ListFoods returns the food items matching f, soonest expiry first.
func (c *Client) ListFoods(ctx context.Context, f FoodFilter) ([]model.FoodItem, error) {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.Owner != "" {
		q.Set("owner", f.Owner)
	}

	path := "/api/items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var foods []model.FoodItem
	if err := c.do(ctx, http.MethodGet, path, Session{}, nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// GetFood returns a single food item. IDs that name another route, such as
// "stats", are reported as ErrNotFound.
func (c *Client) GetFood(ctx context.Context, id string) (*model.FoodItem, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	var f model.FoodItem
	if err := c.do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(id), Session{}, nil, &f); err != nil {
		return nil, err
	}
	if f.ID != id {
		return nil, ErrNotFound
	}
	return &f, nil
}

// CreateFood adds a food item owned by the session's user.
func (c *Client) CreateFood(ctx context.Context, s Session, in FoodInput) (*model.FoodItem, error) {
	if !s.LoggedIn() {
		return nil, ErrUnauthorized
	}
	var f model.FoodItem
	if err := c.do(ctx, http.MethodPost, "/api/items", s, in, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateFood replaces the writable fields of item.
func (c *Client) UpdateFood(ctx context.Context, s Session, item *model.FoodItem, in FoodInput) (*model.FoodItem, error) {
	if !CanModify(s, item) {
		return nil, ErrUnauthorized
	}
	var f model.FoodItem
	if err := c.do(ctx, http.MethodPut, "/api/items/"+url.PathEscape(item.ID), s, in, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFood removes item.
func (c *Client) DeleteFood(ctx context.Context, s Session, item *model.FoodItem) error {
	if !CanModify(s, item) {
		return ErrUnauthorized
	}
	return c.do(ctx, http.MethodDelete, "/api/items/"+url.PathEscape(item.ID), s, nil, nil)
}

// UploadImage replaces item's photo with the JPEG or PNG read from r.
func (c *Client) UploadImage(ctx context.Context, s Session, item *model.FoodItem, filename string, r io.Reader) (*model.FoodItem, error) {
	if !CanModify(s, item) {
		return nil, ErrUnauthorized
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/api/items/"+url.PathEscape(item.ID)+"/image", s, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var f model.FoodItem
	if err := c.send(req, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListNotes returns the notes on a food item in posting order.
func (c *Client) ListNotes(ctx context.Context, id string) ([]model.Note, error) {
	var notes []model.Note
	if err := c.do(ctx, http.MethodGet, "/api/items/"+url.PathEscape(id)+"/notes", Session{}, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// AddNote posts a note on item under the session's email.
func (c *Client) AddNote(ctx context.Context, s Session, item *model.FoodItem, text string) (*model.Note, error) {
	if !CanModify(s, item) {
		return nil, ErrUnauthorized
	}
	var n model.Note
	err := c.do(ctx, http.MethodPost, "/api/items/"+url.PathEscape(item.ID)+"/notes", s, map[string]string{
		"text":        text,
		"authorEmail": s.Email,
		"postedAt":    time.Now().UTC().Format(time.RFC3339),
	}, &n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Stats returns the per-category counts computed by the server.
func (c *Client) Stats(ctx context.Context) (expiry.Summary, error) {
	var s expiry.Summary
	if err := c.do(ctx, http.MethodGet, "/api/items/stats", Session{}, nil, &s); err != nil {
		return expiry.Summary{}, err
	}
	return s, nil
}

// NearlyExpiring returns the items expiring within the policy window.
func (c *Client) NearlyExpiring(ctx context.Context) ([]model.FoodItem, error) {
	var foods []model.FoodItem
	if err := c.do(ctx, http.MethodGet, "/api/items/nearly-expiring", Session{}, nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// Expired returns the expired items, most recently expired first.
func (c *Client) Expired(ctx context.Context) ([]model.FoodItem, error) {
	var foods []model.FoodItem
	if err := c.do(ctx, http.MethodGet, "/api/items/expired", Session{}, nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

func (c *Client) do(ctx context.Context, method, path string, s Session, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, s, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, s Session, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if s.LoggedIn() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

// IsTransport reports whether err came from the network rather than from a
// server response.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	return !errors.As(err, &apiErr) && !errors.Is(err, ErrUnauthorized) && !errors.Is(err, ErrNotFound)
}
