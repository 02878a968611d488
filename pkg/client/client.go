package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blrlabs/blr-admin/pkg/domain"
)

// Client is the BLR backend API client. It is the single choke point for
// all outbound calls: JSON headers, bearer auth, and failure normalization
// all happen here. Wire-to-domain field translation (e.g. the backend's
// underscore-prefixed ids) also lives here and nowhere else.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a new API client. Pass an empty token for the
// unauthenticated login call.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
}

// WithLogger sets the debug logger and returns the client.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log
	return c
}

// WithTimeout overrides the default request timeout and returns the client.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// LoginResponse is the backend's answer to an admin login attempt.
type LoginResponse struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	AccessToken string            `json:"accessToken"`
	AdminUser   *domain.AdminUser `json:"adminUser,omitempty"`
}

// AdminLogin exchanges credentials for a bearer token and, when the
// backend supplies one, the admin's identity.
func (c *Client) AdminLogin(ctx context.Context, creds domain.Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth/adminLogin", creds, &resp); err != nil {
		return nil, fmt.Errorf("client.AdminLogin: %w", err)
	}
	return &resp, nil
}

// ListUsersParams filters and paginates the user listing. Zero values are
// omitted from the query; a nil HasPremium means no premium filter.
type ListUsersParams struct {
	Page       int
	Limit      int
	Search     string
	HasPremium *bool
}

func (p ListUsersParams) encode() string {
	params := url.Values{}
	if p.Page > 0 {
		params.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		params.Set("search", p.Search)
	}
	if p.HasPremium != nil {
		params.Set("hasPremium", strconv.FormatBool(*p.HasPremium))
	}
	return params.Encode()
}

// CacheKey returns a canonical encoding of the parameters, suitable as a
// cache key. An empty search and an absent search encode identically.
func (p ListUsersParams) CacheKey() string {
	return p.encode()
}

// wireUser is the backend's user shape; its id is underscore-prefixed.
type wireUser struct {
	ID         string    `json:"_id"`
	Email      string    `json:"email"`
	HasPremium bool      `json:"hasPremium"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ListUsers fetches a page of end users.
func (c *Client) ListUsers(ctx context.Context, p ListUsersParams) (*domain.UserPage, error) {
	path := "/users/getAllUsers"
	if q := p.encode(); q != "" {
		path += "?" + q
	}

	var resp struct {
		Users      []wireUser `json:"users"`
		Total      int        `json:"total"`
		Page       int        `json:"page"`
		Limit      int        `json:"limit"`
		TotalPages int        `json:"totalPages"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}

	users := make([]domain.User, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = domain.User{
			ID:         u.ID,
			Email:      u.Email,
			HasPremium: u.HasPremium,
			CreatedAt:  u.CreatedAt,
			UpdatedAt:  u.UpdatedAt,
		}
	}
	return &domain.UserPage{
		Users:      users,
		Total:      resp.Total,
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalPages: resp.TotalPages,
	}, nil
}

// GivePremium grants premium to a user for the given duration. Callers
// must not retry on failure; the backend does not deduplicate grants.
func (c *Client) GivePremium(ctx context.Context, userID string, duration domain.PremiumDuration) error {
	body := map[string]string{
		"userId":   userID,
		"duration": string(duration),
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/users/givePremium", body, &resp); err != nil {
		return fmt.Errorf("client.GivePremium: %w", err)
	}
	if !resp.Success {
		if resp.Message != "" {
			return fmt.Errorf("client.GivePremium: %s", resp.Message)
		}
		return fmt.Errorf("client.GivePremium: backend refused the grant")
	}
	return nil
}

// ListAdminsParams filters and paginates the admin listing.
type ListAdminsParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListAdminsParams) encode() string {
	params := url.Values{}
	if p.Page > 0 {
		params.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		params.Set("search", p.Search)
	}
	return params.Encode()
}

// CacheKey returns a canonical encoding of the parameters, suitable as a
// cache key.
func (p ListAdminsParams) CacheKey() string {
	return p.encode()
}

// wireAdmin is the backend's admin shape with its underscore-prefixed id.
type wireAdmin struct {
	ID        string      `json:"_id"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ListAdminUsers fetches a page of admin accounts.
func (c *Client) ListAdminUsers(ctx context.Context, p ListAdminsParams) (*domain.AdminPage, error) {
	path := "/admin-users/all"
	if q := p.encode(); q != "" {
		path += "?" + q
	}

	var resp struct {
		AdminUsers []wireAdmin `json:"adminUsers"`
		Total      int         `json:"total"`
		Page       int         `json:"page"`
		Limit      int         `json:"limit"`
		TotalPages int         `json:"totalPages"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("client.ListAdminUsers: %w", err)
	}

	admins := make([]domain.AdminUser, len(resp.AdminUsers))
	for i, a := range resp.AdminUsers {
		admins[i] = domain.AdminUser{
			ID:        a.ID,
			Username:  a.Username,
			Role:      a.Role,
			IsActive:  a.IsActive,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		}
	}
	return &domain.AdminPage{
		Admins:     admins,
		Total:      resp.Total,
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalPages: resp.TotalPages,
	}, nil
}

// CreateAdminUser creates an operator account with the given role.
func (c *Client) CreateAdminUser(ctx context.Context, username, password string, role domain.Role) error {
	body := map[string]string{
		"username": username,
		"password": password,
		"role":     string(role),
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/admin-users/create", body, &resp); err != nil {
		return fmt.Errorf("client.CreateAdminUser: %w", err)
	}
	if !resp.Success {
		if resp.Message != "" {
			return fmt.Errorf("client.CreateAdminUser: %s", resp.Message)
		}
		return fmt.Errorf("client.CreateAdminUser: backend refused the account")
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("request_id", reqID).Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode}
		}
		// The backend reports failures as {"message": "..."}; tolerate the
		// {"error": "..."} variant and opaque bodies.
		var apiErr struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
