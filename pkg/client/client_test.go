package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"material-market/internal/dto/request"
	"material-market/internal/dto/response"
	"material-market/internal/search"
	"material-market/pkg/token"
	"material-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewSessionStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	signed, exp, err := token.NewIssuer("secret", 24*time.Hour).Issue(uuid.New(), "client")
	require.NoError(t, err)

	sess := Session{Token: signed, ExpiresAt: exp, User: response.PublicUser{Name: "Ann"}}
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Ann", loaded.User.Name)
	assert.Equal(t, signed, loaded.Token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionStore_ExpiredIsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewSessionStore(path)

	signed, _, err := token.NewIssuer("secret", time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(uuid.New(), "vendor")
	require.NoError(t, err)

	// A forged far-future ExpiresAt in the file does not matter.
	require.NoError(t, store.Save(Session{Token: signed, ExpiresAt: time.Now().Add(time.Hour)}))

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), Session{Token: "t"})
	sess, ok := SessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "t", sess.Token)
}

// ==================== fake API ====================

type fakeAPI struct {
	listings    []response.ListingResponse
	reviews     map[string][]response.ReviewResponse
	failReviews map[string]bool
	lastAuth    atomic.Value
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req request.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret1" {
			utils.ResponseBadRequest(w, "Invalid credentials", nil)
			return
		}
		utils.ResponseSuccess(w, "Login successful", response.AuthResponse{
			Token:     "tok",
			ExpiresAt: time.Now().Add(24 * time.Hour),
			User:      response.PublicUser{ID: "u1", Email: req.Email, Role: "client"},
		})
	})

	mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "success", f.listings)
	})

	mux.HandleFunc("GET /api/reviews/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if f.failReviews[id] {
			utils.ResponseInternalError(w, "Internal server error")
			return
		}
		reviews := f.reviews[id]
		if reviews == nil {
			reviews = []response.ReviewResponse{}
		}
		utils.ResponseSuccess(w, "success", reviews)
	})

	mux.HandleFunc("POST /api/vendor/posts", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		if r.Header.Get("Authorization") == "" {
			utils.ResponseUnauthorized(w, "Missing authorization token")
			return
		}
		var req request.CreateListingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		utils.ResponseCreated(w, "Listing created", response.ListingResponse{ID: "new", Title: req.Title, Images: req.Images})
	})

	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			utils.ResponseBadRequest(w, "Invalid multipart form", nil)
			return
		}
		var urls []string
		for _, fh := range r.MultipartForm.File["images"] {
			urls = append(urls, "/uploads/"+fh.Filename)
		}
		utils.ResponseSuccess(w, "Files uploaded", urls)
	})

	return mux
}

func newClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", zap.NewNop())
}

func TestClient_Login(t *testing.T) {
	c := newClient(t, &fakeAPI{})

	sess, err := c.Login(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.True(t, sess.Active(time.Now()))

	_, err = c.Login(context.Background(), "ann@example.com", "nope")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestClient_PublishPostSendsSession(t *testing.T) {
	api := &fakeAPI{}
	c := newClient(t, api)

	_, err := c.CreatePost(context.Background(), request.CreateListingRequest{Title: "Coal"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	ctx := WithSession(context.Background(), Session{Token: "tok"})
	listing, err := c.PublishPost(ctx, request.CreateListingRequest{Title: "Coal", Images: []string{"/uploads/old.png"}}, []File{
		{Name: "cover.png", Data: []byte("a")},
		{Name: "side.png", Data: []byte("b")},
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", api.lastAuth.Load())
	assert.Equal(t, []string{"/uploads/cover.png", "/uploads/side.png", "/uploads/old.png"}, listing.Images)
}

func TestClient_Browse(t *testing.T) {
	api := &fakeAPI{
		listings: []response.ListingResponse{
			{ID: "a", Title: "Coal", City: "Lahore", Price: 5000},
			{ID: "b", Title: "Coal dust", City: "Lahore", Price: 100},
			{ID: "c", Title: "Sand", City: "Karachi", Price: 50},
		},
		reviews: map[string][]response.ReviewResponse{
			"a": {{Rating: 5}, {Rating: 3}},
			"c": {{Rating: 1}},
		},
		failReviews: map[string]bool{"b": true},
	}
	c := newClient(t, api)

	items, err := c.Browse(context.Background(), search.Filter{City: "LAHORE"})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Listing.ID)
	assert.Equal(t, 4.0, items[0].AverageRating)
	assert.Equal(t, "b", items[1].Listing.ID)
	assert.Empty(t, items[1].Reviews)
	assert.Zero(t, items[1].AverageRating)

	maxPrice := 4000.0
	items, err = c.Browse(context.Background(), search.Filter{MaxPrice: &maxPrice})
	require.NoError(t, err)
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.Listing.ID
	}
	assert.Equal(t, []string{"b", "c"}, ids)
}

func TestClient_ListPostsQuery(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		utils.ResponseSuccess(w, "success", []response.ListingResponse{})
	}))
	defer srv.Close()
	c := NewClient(srv.URL, zap.NewNop())

	_, err := c.ListPosts(context.Background(), search.Default())
	require.NoError(t, err)
	assert.Equal(t, "maxPrice=1000000", query)

	_, err = c.ListPosts(context.Background(), search.Filter{City: "Lahore", Name: "coal"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(query, "city=Lahore") && strings.Contains(query, "name=coal"), query)
}
