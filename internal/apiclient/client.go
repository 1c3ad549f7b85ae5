// Package apiclient is the HTTP+JSON client of the sneaker-drop REST API.
package apiclient

import (
	"bytes"         // Request bodies
	"context"       // Request scoping
	"encoding/json" // JSON encoding/decoding
	"io"            // Response bodies
	"net/http"      // HTTP transport
	"net/url"       // Path escaping
	"strconv"       // Id formatting
	"strings"       // URL joining
	"time"          // Timeouts

	"github.com/SofiaUmrish/sneaker-drop/internal/domain" // Shared API representations
)

// maxBody caps how much of a response is read
const maxBody = 4 << 20

// Identity is the signed-in user as returned by login
type Identity struct {
	ID            uint    `json:"id"`             // User ID
	Name          string  `json:"name"`           // Display name
	Email         string  `json:"email"`          // Email
	Role          string  `json:"role"`           // Role
	MonthlyBudget float64 `json:"monthly_budget"` // Monthly budget at login time
	Token         string  `json:"token"`          // Bearer token
}

// IsAdmin reports whether the identity holds the admin role
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == domain.RoleAdmin
}

// NewShoe is the payload of an admin create or update
type NewShoe struct {
	ModelName   string    `json:"model_name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ReleaseDate time.Time `json:"release_date"`
	ImageURL    string    `json:"image_url,omitempty"`
	ShopLink    string    `json:"shop_link,omitempty"`
	BrandID     uint      `json:"brand_id"`
	CategoryID  uint      `json:"category_id"`
	SKU         string    `json:"sku,omitempty"`
}

// Client talks to one API base URL, e.g. http://localhost:5000/api
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client; timeout bounds every request including detached ones
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a client on a caller supplied *http.Client
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// do sends one request and decodes a 2xx body into out when out is non-nil
func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, &NetworkError{Op: op, Err: err}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &RejectedError{Op: op, Status: resp.StatusCode, Reason: reason(data, resp.StatusCode)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &NetworkError{Op: op, Err: err}
	}
	return resp.StatusCode, nil
}

// reason extracts the "error" field of an error body, falling back to the status text
func reason(data []byte, status int) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	return http.StatusText(status)
}

func requireToken(token string) error {
	if token == "" {
		return ErrNotAuthenticated
	}
	return nil
}

func idPath(prefix string, id uint) string {
	return prefix + strconv.FormatUint(uint64(id), 10)
}

// Register creates an account
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	in := map[string]string{"name": name, "email": email, "password": password}
	_, err := c.do(ctx, "register", http.MethodPost, "/register", "", in, nil)
	return err
}

// Login exchanges credentials for an identity carrying a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*Identity, error) {
	var id Identity
	in := map[string]string{"email": email, "password": password}
	if _, err := c.do(ctx, "login", http.MethodPost, "/login", "", in, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// UpdateProfile changes name and email; the returned identity carries no token
func (c *Client) UpdateProfile(ctx context.Context, token, name, email string) (*Identity, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var id Identity
	in := map[string]string{"name": name, "email": email}
	if _, err := c.do(ctx, "update profile", http.MethodPut, "/user/profile", token, in, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// SetBudget overwrites the monthly budget of the signed-in user
func (c *Client) SetBudget(ctx context.Context, token string, limit float64) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := c.do(ctx, "set budget", http.MethodPut, "/user/budget", token, map[string]float64{"limit": limit}, nil)
	return err
}

// BudgetTotal returns the server side sum of a user's wishlist prices
func (c *Client) BudgetTotal(ctx context.Context, token string, userID uint) (float64, error) {
	if err := requireToken(token); err != nil {
		return 0, err
	}
	var out struct {
		TotalBudget float64 `json:"total_budget"`
	}
	if _, err := c.do(ctx, "budget total", http.MethodGet, idPath("/budget/", userID), token, nil, &out); err != nil {
		return 0, err
	}
	return out.TotalBudget, nil
}

// Shoes returns the catalog
func (c *Client) Shoes(ctx context.Context) ([]domain.ShoeView, error) {
	var shoes []domain.ShoeView
	_, err := c.do(ctx, "list shoes", http.MethodGet, "/shoes", "", nil, &shoes)
	return shoes, err
}

// Shoe returns one shoe by numeric id or slug
func (c *Client) Shoe(ctx context.Context, idOrSlug string) (*domain.ShoeView, error) {
	var shoe domain.ShoeView
	if _, err := c.do(ctx, "get shoe", http.MethodGet, "/shoes/"+url.PathEscape(idOrSlug), "", nil, &shoe); err != nil {
		return nil, err
	}
	return &shoe, nil
}

// Soonest returns the next drop, or nil when nothing is scheduled
func (c *Client) Soonest(ctx context.Context) (*domain.ShoeView, error) {
	var shoe *domain.ShoeView
	_, err := c.do(ctx, "soonest shoe", http.MethodGet, "/shoes/soonest", "", nil, &shoe)
	return shoe, err
}

// Brands returns the brand lookup table
func (c *Client) Brands(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	_, err := c.do(ctx, "list brands", http.MethodGet, "/brands", "", nil, &brands)
	return brands, err
}

// Categories returns the category lookup table
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	_, err := c.do(ctx, "list categories", http.MethodGet, "/categories", "", nil, &categories)
	return categories, err
}

// Wishlist returns the ids of the shoes liked by the token's user
func (c *Client) Wishlist(ctx context.Context, token string) ([]uint, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var items []struct {
		ShoeID uint `json:"shoe_id"`
	}
	if _, err := c.do(ctx, "load wishlist", http.MethodGet, "/wishlist", token, nil, &items); err != nil {
		return nil, err
	}
	ids := make([]uint, len(items))
	for i, it := range items {
		ids[i] = it.ShoeID
	}
	return ids, nil
}

// ToggleWishlist flips the pair on the server and reports whether it was added
func (c *Client) ToggleWishlist(ctx context.Context, token string, shoeID uint) (bool, error) {
	if err := requireToken(token); err != nil {
		return false, err
	}
	status, err := c.do(ctx, "toggle wishlist", http.MethodPost, "/wishlist", token, map[string]uint{"shoe_id": shoeID}, nil)
	if err != nil {
		return false, err
	}
	return status == http.StatusCreated, nil
}

// SetReminder records a reminder; repeating it is a no-op on the server
func (c *Client) SetReminder(ctx context.Context, token string, shoeID uint) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := c.do(ctx, "set reminder", http.MethodPost, "/reminders", token, map[string]uint{"shoe_id": shoeID}, nil)
	return err
}

// Reminders lists the user's reminders joined with shoe data
func (c *Client) Reminders(ctx context.Context, token string) ([]domain.ReminderView, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var reminders []domain.ReminderView
	_, err := c.do(ctx, "list reminders", http.MethodGet, "/user/reminders", token, nil, &reminders)
	return reminders, err
}

// RemoveReminder deletes a reminder by its own id
func (c *Client) RemoveReminder(ctx context.Context, token string, reminderID uint) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := c.do(ctx, "remove reminder", http.MethodDelete, idPath("/reminders/", reminderID), token, nil, nil)
	return err
}

// CreateShoe adds a drop; admin only
func (c *Client) CreateShoe(ctx context.Context, token string, shoe NewShoe) (*domain.ShoeView, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var created domain.ShoeView
	if _, err := c.do(ctx, "create shoe", http.MethodPost, "/shoes", token, shoe, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteShoe removes a drop; admin only
func (c *Client) DeleteShoe(ctx context.Context, token string, shoeID uint) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := c.do(ctx, "delete shoe", http.MethodDelete, idPath("/shoes/", shoeID), token, nil, nil)
	return err
}

// Hype returns the most wishlisted shoes; admin only
func (c *Client) Hype(ctx context.Context, token string) ([]domain.HypeEntry, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var entries []domain.HypeEntry
	_, err := c.do(ctx, "hype", http.MethodGet, "/analytics/hype", token, nil, &entries)
	return entries, err
}
