// Package client talks to the marketplace REST API. Requests made with a
// context carrying a Session are sent with its bearer token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"material-market/internal/dto/request"
	"material-market/internal/dto/response"
	"material-market/internal/search"

	"go.uber.org/zap"
)

// APIError is a non-2xx answer decoded from the response envelope.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api error %d: %s %v", e.StatusCode, e.Message, e.Fields)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// File is an image to upload.
type File struct {
	Name string
	Data []byte
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
	concurrency int
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:      logger.With(zap.String("service", "client")),
		concurrency: 8,
	}
}

// WithHTTPClient replaces the transport, used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if sess, ok := SessionFromContext(ctx); ok && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decode status %d: %w", method, path, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Status {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: unmarshal data: %w", method, path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

// ==================== AUTH ====================

func (c *Client) Register(ctx context.Context, req request.RegisterRequest) (Session, error) {
	var auth response.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &auth); err != nil {
		return Session{}, err
	}
	return sessionOf(auth), nil
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var auth response.AuthResponse
	req := request.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &auth); err != nil {
		return Session{}, err
	}
	return sessionOf(auth), nil
}

func sessionOf(auth response.AuthResponse) Session {
	return Session{Token: auth.Token, ExpiresAt: auth.ExpiresAt, User: auth.User}
}

// ==================== LISTINGS ====================

// ListPosts fetches public listings, narrowed server-side by f.
func (c *Client) ListPosts(ctx context.Context, f search.Filter) ([]response.ListingResponse, error) {
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}

	path := "/api/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var listings []response.ListingResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *Client) CreatePost(ctx context.Context, req request.CreateListingRequest) (*response.ListingResponse, error) {
	var listing response.ListingResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/vendor/posts", req, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// ==================== REVIEWS ====================

func (c *Client) Reviews(ctx context.Context, listingID string) ([]response.ReviewResponse, error) {
	var reviews []response.ReviewResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/reviews/"+url.PathEscape(listingID), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) AddReview(ctx context.Context, listingID string, req request.CreateReviewRequest) (*response.ReviewResponse, error) {
	var review response.ReviewResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/reviews/"+url.PathEscape(listingID), req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// ==================== UPLOAD ====================

// UploadImages sends files as one multipart request and returns their URLs
// in the same order.
func (c *Client) UploadImages(ctx context.Context, files []File) ([]string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("images", f.Name)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	var urls []string
	if err := c.do(ctx, http.MethodPost, "/api/upload", &buf, w.FormDataContentType(), &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

// PublishPost uploads the images first and creates the listing with the
// returned URLs; the first image becomes the cover.
func (c *Client) PublishPost(ctx context.Context, req request.CreateListingRequest, images []File) (*response.ListingResponse, error) {
	if len(images) > 0 {
		urls, err := c.UploadImages(ctx, images)
		if err != nil {
			return nil, fmt.Errorf("upload images: %w", err)
		}
		req.Images = append(urls, req.Images...)
	}
	return c.CreatePost(ctx, req)
}
