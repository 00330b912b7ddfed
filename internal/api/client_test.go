package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/cache"
)

// newTestServer serves a canned posts listing and records hit counts.
func newTestServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/posts", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		page := r.URL.Query().Get("page")
		w.Header().Set(versionHeader, "1.2.0")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"posts": [{"id": "p1", "slug": "hello", "title": "Hello", "author": "ana", "category": "go", "published_at": "2026-01-02T10:00:00Z"}],
			"meta": {"page": ` + page + `, "limit": 10, "total": 42}
		}`))
	})
	mux.HandleFunc("/v1/posts/hello", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "p1", "slug": "hello", "title": "Hello", "body": "# Hi", "author": "ana", "category": "go", "published_at": "2026-01-02T10:00:00Z"}`))
	})
	mux.HandleFunc("/v1/posts/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "post_not_found", "message": "no such post"}`))
	})
	mux.HandleFunc("/v1/categories", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"categories": [{"id": "c1", "slug": "go", "name": "Go", "post_count": 7}]}`))
	})
	mux.HandleFunc("/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code": "bad_credentials", "message": "wrong email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token": "tok-xyz", "user": {"id": "u1", "email": "` + body.Email + `", "name": "Ana"}}`))
	})
	mux.HandleFunc("/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-xyz" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code": "unauthorized", "message": "token required"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id": "u1", "email": "ana@example.com", "name": "Ana"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient_ListPosts(t *testing.T) {
	server := newTestServer(t, nil)
	client, err := NewClient(server.URL, time.Second)
	require.NoError(t, err)

	page, err := client.ListPosts(context.Background(), ListPostsOptions{Page: 2, PageSize: 10})
	require.NoError(t, err)

	assert.Len(t, page.Posts, 1)
	assert.Equal(t, "Hello", page.Posts[0].Title)
	assert.Equal(t, 2, page.Meta.Page)
	assert.Equal(t, 42, page.Meta.TotalCount)
	assert.Equal(t, 5, page.Meta.TotalPages())
}

func TestClient_ListPosts_Cached(t *testing.T) {
	var hits atomic.Int64
	server := newTestServer(t, &hits)

	store, err := cache.NewStore(t.TempDir(), true, time.Minute)
	require.NoError(t, err)

	client, err := NewClient(server.URL, time.Second, WithCache(store))
	require.NoError(t, err)

	opts := ListPostsOptions{Page: 1, PageSize: 10}
	_, err = client.ListPosts(context.Background(), opts)
	require.NoError(t, err)
	_, err = client.ListPosts(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, int64(1), hits.Load(), "second fetch must come from cache")

	// A different page is a different cache key.
	_, err = client.ListPosts(context.Background(), ListPostsOptions{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())
}

func TestClient_GetPost(t *testing.T) {
	server := newTestServer(t, nil)
	client, err := NewClient(server.URL, time.Second)
	require.NoError(t, err)

	post, err := client.GetPost(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "# Hi", post.Body)

	_, err = client.GetPost(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "post_not_found", apiErr.Code)
}

func TestClient_ListCategories(t *testing.T) {
	server := newTestServer(t, nil)
	client, err := NewClient(server.URL, time.Second)
	require.NoError(t, err)

	categories, err := client.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "go", categories[0].Slug)
	assert.Equal(t, 7, categories[0].PostCount)
}

func TestClient_Login(t *testing.T) {
	server := newTestServer(t, nil)
	client, err := NewClient(server.URL, time.Second)
	require.NoError(t, err)

	t.Run("BadPassword", func(t *testing.T) {
		_, loginErr := client.Login(context.Background(), "ana@example.com", "wrong")
		require.Error(t, loginErr)
		assert.ErrorIs(t, loginErr, ErrUnauthorized)
	})

	t.Run("Success", func(t *testing.T) {
		result, loginErr := client.Login(context.Background(), "ana@example.com", "hunter2")
		require.NoError(t, loginErr)
		assert.Equal(t, "tok-xyz", result.Token)
		assert.Equal(t, "Ana", result.User.Name)

		// The token is installed on the client for subsequent calls.
		user, meErr := client.Me(context.Background())
		require.NoError(t, meErr)
		assert.Equal(t, "ana@example.com", user.Email)
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		_, loginErr := client.Login(context.Background(), "", "")
		assert.Error(t, loginErr)
	})
}

func TestClient_VersionCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/categories", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(versionHeader, "3.0.0")
		_, _ = w.Write([]byte(`{"categories": []}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, time.Second)
	require.NoError(t, err)

	_, err = client.ListCategories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestNewClient_EmptyURL(t *testing.T) {
	_, err := NewClient("", time.Second)
	assert.Error(t, err)
}
