package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
)

func TestEstablishSessionChecksCredentials(t *testing.T) {
	var gotAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/wp/v2/users/me", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		gotAuth = ok && user == "admin" && pass == "secreto"
		if !gotAuth {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "admin", "secreto", nil)
	require.NoError(t, client.EstablishSession(context.Background()))
	assert.True(t, gotAuth)
}

func TestEstablishSessionRejectsBadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "admin", "mal", nil)
	assert.Error(t, client.EstablishSession(context.Background()))
}

func TestCreatePostSendsPayloadAndReturnsID(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/wp-json/wp/v2/posts", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42,"title":{"raw":"Mi nota"},"content":{"raw":"<p>x</p>"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "u", "p", nil)
	id, err := client.CreatePost(context.Background(), "Mi nota", "<p>x</p>", domain.StatusPublish, domain.CategoryRef{})
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, "Mi nota", got["title"])
	assert.Equal(t, "<p>x</p>", got["content"])
	assert.Equal(t, "publish", got["status"])
	assert.NotContains(t, got, "categories")
}

func TestCreatePostWithNumericCategory(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "u", "p", nil)
	_, err := client.CreatePost(context.Background(), "t", "c", domain.StatusPublish, domain.CategoryRef{ID: 9})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(9)}, got["categories"])
}

func TestCreatePostResolvesNamedCategory(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wp-json/wp/v2/categories":
			assert.Equal(t, "Perros", r.URL.Query().Get("search"))
			w.Write([]byte(`[{"id":3,"name":"Gatos"},{"id":5,"name":"perros"}]`))
		case "/wp-json/wp/v2/posts":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"id":8}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "u", "p", nil)
	_, err := client.CreatePost(context.Background(), "t", "c", domain.StatusPublish, domain.CategoryRef{Name: "Perros"})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(5)}, got["categories"], "name match is case-insensitive")
}

func TestCreatePostCategoryMissPublishesWithoutCategory(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wp-json/wp/v2/categories":
			w.Write([]byte(`[]`))
		case "/wp-json/wp/v2/posts":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"id":8}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "u", "p", nil)
	_, err := client.CreatePost(context.Background(), "t", "c", domain.StatusPublish, domain.CategoryRef{Name: "Inexistente"})
	require.NoError(t, err)
	assert.NotContains(t, got, "categories")
}

func TestCreatePostErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "u", "p", nil)
	_, err := client.CreatePost(context.Background(), "t", "c", domain.StatusPublish, domain.CategoryRef{})

	var pubErr *domain.PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, "t", pubErr.Title)
}

func TestListPostsAppliesFilterAndPrefersRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "publish", q.Get("status"))
		assert.Equal(t, "edit", q.Get("context"))
		w.Write([]byte(`[
			{"id":1,"title":{"rendered":"Rendida &amp; rota","raw":"Cruda"},"content":{"raw":"<p>a</p>"}},
			{"id":2,"title":{"rendered":"Solo rendida"},"content":{"rendered":"<p>b</p>"}}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "u", "p", nil)
	posts, err := client.ListPosts(context.Background(), ListFilter{PerPage: 100, Status: domain.StatusPublish})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, Post{ID: 1, Title: "Cruda", Content: "<p>a</p>"}, posts[0])
	assert.Equal(t, Post{ID: 2, Title: "Solo rendida", Content: "<p>b</p>"}, posts[1])
}

func TestGetPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/wp/v2/posts/42", r.URL.Path)
		assert.Equal(t, "edit", r.URL.Query().Get("context"))
		w.Write([]byte(`{"id":42,"title":{"raw":"Nota"},"content":{"raw":"<p>x</p>"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "u", "p", nil)
	post, err := client.GetPost(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, Post{ID: 42, Title: "Nota", Content: "<p>x</p>"}, post)
}

func TestUpdatePostContent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/wp-json/wp/v2/posts/7", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "u", "p", nil)
	require.NoError(t, client.UpdatePostContent(context.Background(), 7, "<img src=\"x\"><br><p>y</p>"))
	assert.Equal(t, "<img src=\"x\"><br><p>y</p>", got["content"])
}
