package fakestore

// Package fakestore implements the CatalogClient port against the public
// demo store REST API. The remote service is externally owned; this adapter
// normalizes its heterogeneous payloads into domain types at the boundary.

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
	"time"

	"github.com/northwind/storefront/internal/domain/auth"
	"github.com/northwind/storefront/internal/domain/catalog"
	apperrors "github.com/northwind/storefront/internal/errors"
)

const defaultBaseURL = "https://fakestoreapi.com"

// Config captures the subset of remote API behaviour we need.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Client talks to the remote catalog/auth API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a store API client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: baseURL, client: hc}, nil
}

// remoteUser is the wire shape of a user profile as served by the remote API.
type remoteUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     struct {
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
	} `json:"name"`
	Phone string `json:"phone"`
}

func (u remoteUser) normalize() auth.User {
	return auth.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.Name.Firstname,
		LastName:  u.Name.Lastname,
		Phone:     u.Phone,
	}
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds auth.Credentials) (auth.AuthResult, error) {
	if creds.Username == "" || creds.Password == "" {
		return auth.AuthResult{}, apperrors.ValidationField("username", "username and password are required")
	}

	var resp struct {
		Token string      `json:"token"`
		User  *remoteUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return auth.AuthResult{}, loginError(err)
	}
	if resp.Token == "" {
		return auth.AuthResult{}, apperrors.Auth("login response did not include a token")
	}

	result := auth.AuthResult{Token: resp.Token}
	if resp.User != nil {
		u := resp.User.normalize()
		result.User = &u
	}
	return result, nil
}

// loginError maps remote rejections to auth errors; transport and server
// failures stay upstream errors.
func loginError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeUpstream {
		var se *statusError
		if errors.As(err, &se) && se.status >= 400 && se.status < 500 {
			return apperrors.Wrap(err, apperrors.ErrCodeAuth, "invalid credentials")
		}
	}
	return err
}

// Register creates an account. The remote API acknowledges new users with an
// id and does not always issue a token; the empty-token result is returned
// as-is for the caller to model explicitly.
func (c *Client) Register(ctx context.Context, reg auth.Registration) (auth.AuthResult, error) {
	if reg.Username == "" || reg.Password == "" {
		return auth.AuthResult{}, apperrors.ValidationField("username", "username and password are required")
	}

	body := map[string]any{
		"email":    reg.Email,
		"username": reg.Username,
		"password": reg.Password,
		"name": map[string]string{
			"firstname": reg.FirstName,
			"lastname":  reg.LastName,
		},
		"phone": reg.Phone,
	}

	var resp struct {
		ID    int64  `json:"id"`
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/users", body, &resp); err != nil {
		return auth.AuthResult{}, loginError(err)
	}

	user := auth.User{
		ID:        resp.ID,
		Username:  reg.Username,
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
	}
	return auth.AuthResult{Token: resp.Token, User: &user}, nil
}

// GetUser fetches and normalizes a user profile.
func (c *Client) GetUser(ctx context.Context, id string) (auth.User, error) {
	if strings.TrimSpace(id) == "" {
		return auth.User{}, apperrors.ValidationField("id", "user id is required")
	}

	var resp remoteUser
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &resp); err != nil {
		return auth.User{}, err
	}
	if resp.ID == 0 {
		// The remote API answers 200 with an empty body for unknown users.
		return auth.User{}, apperrors.NotFoundf("user %s not found", id)
	}
	return resp.normalize(), nil
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListCategories fetches the category names.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/products/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListByCategory fetches the products in one category.
func (c *Client) ListByCategory(ctx context.Context, category string) ([]catalog.Product, error) {
	if strings.TrimSpace(category) == "" {
		return nil, apperrors.ValidationField("category", "category is required")
	}

	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products/category/"+url.PathEscape(category), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	var product catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, &product); err != nil {
		return catalog.Product{}, err
	}
	if product.ID == 0 {
		return catalog.Product{}, apperrors.NotFoundf("product %d not found", id)
	}
	return product, nil
}

// statusError carries the HTTP status of a failed remote call.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("remote store returned status %d", e.status)
	}
	return fmt.Sprintf("remote store returned status %d: %s", e.status, e.body)
}

// do performs one JSON request against the remote API. A bearer token placed
// in ctx via WithBearer is forwarded on the Authorization header.
func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := bearerFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "call remote store")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return apperrors.Wrap(
			&statusError{status: res.StatusCode, body: strings.TrimSpace(string(snippet))},
			apperrors.ErrCodeUpstream,
			"remote store request failed",
		)
	}

	if dst == nil {
		return nil
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "read remote response")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		// Leave dst zero-valued; callers treat empty bodies as not found.
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "decode remote response")
	}
	return nil
}
