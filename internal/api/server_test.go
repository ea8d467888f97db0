// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadali/newsroom/internal/api"
	"github.com/vadali/newsroom/internal/platform/config"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/users/auth"
)

type harness struct {
	t      *testing.T
	server *httptest.Server
}

type response struct {
	status int
	body   map[string]any
}

func (r response) data() map[string]any {
	data, _ := r.body["data"].(map[string]any)
	return data
}

func (r response) items() []any {
	items, _ := r.body["items"].([]any)
	return items
}

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:      "0",
		Environment:     "test",
		StoreDriver:     config.DriverMemory,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Tables: config.Tables{
			Users:         "users",
			Articles:      "articles",
			Categories:    "categories",
			Comments:      "comments",
			Notifications: "notifications",
			Subscribers:   "subscribers",
		},
		Indexes: config.Indexes{
			UserEmail:        "email-index",
			ArticleSlug:      "slug-index",
			ArticleStatus:    "status-index",
			CategorySlug:     "slug-index",
			CommentArticle:   "articleId-index",
			NotificationUser: "userId-index",
			SubscriberEmail:  "email-index",
		},
	}
}

func newHarness(t *testing.T, checks ...api.DependencyCheck) *harness {
	t.Helper()
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := sec.NewHMACTokenService("scenario-secret", "vadali.com")
	require.NoError(t, err)

	store := docstore.NewMemory()
	handlers := api.NewHandlers(api.Dependencies{
		Config:   cfg,
		Store:    store,
		Sessions: auth.NewMemorySessionRepository(),
		Tokens:   tokens,
		Logger:   logger,
	})
	if len(checks) == 0 {
		checks = []api.DependencyCheck{{Name: "memory", Ping: store.Ping}}
	}
	handlers.Liveness, handlers.Readiness = api.NewHealthHandlers(checks, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := httptest.NewServer(api.NewServer(ctx, cfg, logger, tokens, handlers).Handler())
	t.Cleanup(server.Close)
	return &harness{t: t, server: server}
}

func (h *harness) call(method, path, token string, body any) response {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	request, err := http.NewRequest(method, h.server.URL+path, reader)
	require.NoError(h.t, err)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.server.Client().Do(request)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	out := response{status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	if len(raw) > 0 {
		require.NoError(h.t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

// login registers nothing; the account must exist.
func (h *harness) login(email, password string) (token, userID string) {
	h.t.Helper()
	resp := h.call(http.MethodPost, "/api/v1/login", "", map[string]string{"email": email, "password": password})
	require.Equal(h.t, http.StatusOK, resp.status, resp.body)
	data := resp.data()
	user := data["user"].(map[string]any)
	return data["token"].(string), user["id"].(string)
}

// staff bootstraps an admin through registration and creates an editor and
// an author through the user admin API.
func (h *harness) staff() (admin, editor, author, authorID string) {
	h.t.Helper()
	resp := h.call(http.MethodPost, "/api/v1/register", "", map[string]string{
		"name": "Root", "email": "admin@vadali.com", "password": "admin-pass-1",
	})
	require.Equal(h.t, http.StatusCreated, resp.status, resp.body)
	require.Equal(h.t, "ADMIN", resp.data()["role"])

	admin, _ = h.login("admin@vadali.com", "admin-pass-1")

	for _, user := range []map[string]string{
		{"name": "Ed", "email": "editor@vadali.com", "password": "editor-pass", "role": "EDITOR"},
		{"name": "Au", "email": "author@vadali.com", "password": "author-pass", "role": "AUTHOR"},
	} {
		resp := h.call(http.MethodPost, "/api/v1/users", admin, user)
		require.Equal(h.t, http.StatusCreated, resp.status, resp.body)
		assert.NotContains(h.t, resp.data(), "password")
	}

	editor, _ = h.login("editor@vadali.com", "editor-pass")
	author, authorID = h.login("Author@Vadali.com", "author-pass")
	return admin, editor, author, authorID
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	resp := h.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "ok", resp.data()["status"])

	resp = h.call(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "ready", resp.data()["status"])

	broken := newHarness(t, api.DependencyCheck{Name: "postgres", Ping: func(context.Context) error {
		return errors.New("connection refused")
	}})
	resp = broken.call(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.status)
	assert.Equal(t, "degraded", resp.data()["status"])
}

func TestEditorialWorkflow(t *testing.T) {
	h := newHarness(t)
	admin, editor, author, authorID := h.staff()

	resp := h.call(http.MethodPost, "/api/v1/categories", admin, map[string]any{"name": "World"})
	require.Equal(t, http.StatusCreated, resp.status, resp.body)
	assert.Equal(t, "world", resp.data()["slug"])

	resp = h.call(http.MethodPost, "/api/v1/articles", author, map[string]any{
		"title":      "Hanoi Summit Opens",
		"summary":    "Leaders meet",
		"categoryId": "world",
		"tags":       []string{"Politics", "Asia"},
	})
	require.Equal(t, http.StatusCreated, resp.status, resp.body)
	created := resp.data()
	articleID := created["id"].(string)
	assert.Equal(t, "Draft", created["status"])
	assert.Equal(t, "hanoi-summit-opens", created["slug"])
	assert.Equal(t, authorID, created["authorId"])
	assert.NotContains(t, created, "publishedAt")

	// Drafts stay out of the public listing and single reads.
	resp = h.call(http.MethodGet, "/api/v1/articles", "", nil)
	assert.Equal(t, http.StatusOK, resp.status)
	assert.Empty(t, resp.items())
	assert.Equal(t, false, resp.body["hasMore"])
	assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/api/v1/articles/"+articleID, "", nil).status)

	resp = h.call(http.MethodPatch, "/api/v1/articles/"+articleID+"/status", author, map[string]string{"status": "Published"})
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = h.call(http.MethodPatch, "/api/v1/articles/"+articleID+"/status", author, map[string]string{"status": "pending-review"})
	require.Equal(t, http.StatusOK, resp.status, resp.body)
	assert.Equal(t, "Pending Review", resp.data()["status"])

	resp = h.call(http.MethodPatch, "/api/v1/articles/"+articleID+"/status", editor, map[string]string{"status": "Rejected"})
	assert.Equal(t, http.StatusBadRequest, resp.status)

	resp = h.call(http.MethodPatch, "/api/v1/articles/"+articleID+"/status", editor, map[string]string{"status": "Published"})
	require.Equal(t, http.StatusOK, resp.status, resp.body)
	assert.NotEmpty(t, resp.data()["publishedAt"])

	resp = h.call(http.MethodGet, "/api/v1/articles?category=world&tag=asia", "", nil)
	require.Len(t, resp.items(), 1)

	resp = h.call(http.MethodPost, "/api/v1/articles/"+articleID+"/views", "", nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, float64(1), resp.data()["views"])

	resp = h.call(http.MethodPost, "/api/v1/articles/"+articleID+"/comments", "", map[string]string{"text": "Great piece"})
	require.Equal(t, http.StatusCreated, resp.status, resp.body)
	commentID := resp.data()["id"].(string)
	assert.Equal(t, "PENDING", resp.data()["status"])
	assert.Equal(t, "Anonymous User", resp.data()["authorName"])

	resp = h.call(http.MethodGet, "/api/v1/articles/"+articleID, "", nil)
	assert.NotContains(t, resp.data(), "comments")

	resp = h.call(http.MethodGet, "/api/v1/comments?status=PENDING", editor, nil)
	require.Len(t, resp.items(), 1)

	resp = h.call(http.MethodPatch, "/api/v1/articles/"+articleID+"/comments/"+commentID, editor, map[string]string{"status": "APPROVED"})
	assert.Equal(t, http.StatusNoContent, resp.status)

	resp = h.call(http.MethodGet, "/api/v1/articles/"+articleID, "", nil)
	comments, _ := resp.data()["comments"].([]any)
	assert.Len(t, comments, 1)

	resp = h.call(http.MethodGet, "/api/v1/notifications/user/"+authorID, author, nil)
	require.Equal(t, http.StatusOK, resp.status)
	types := map[string]bool{}
	for _, item := range resp.items() {
		types[item.(map[string]any)["type"].(string)] = true
	}
	assert.True(t, types["APPROVED"])
	assert.True(t, types["COMMENT"])

	resp = h.call(http.MethodGet, "/api/v1/notifications/user/"+authorID, editor, nil)
	assert.Equal(t, http.StatusForbidden, resp.status)

	resp = h.call(http.MethodGet, "/api/v1/tags", "", nil)
	require.Len(t, resp.items(), 2)
	assert.Equal(t, float64(1), resp.items()[0].(map[string]any)["count"])
}

func TestAccessControl(t *testing.T) {
	h := newHarness(t)
	_, _, author, _ := h.staff()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"malformed bearer", http.MethodGet, "/api/v1/articles", "not a token", http.StatusUnauthorized},
		{"anonymous drafts", http.MethodGet, "/api/v1/articles?status=Draft", "", http.StatusUnauthorized},
		{"unknown status filter", http.MethodGet, "/api/v1/articles?status=Archived", author, http.StatusBadRequest},
		{"author lists users", http.MethodGet, "/api/v1/users", author, http.StatusForbidden},
		{"author moderation queue", http.MethodGet, "/api/v1/comments", author, http.StatusForbidden},
		{"anonymous me", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"anonymous subscribers", http.MethodGet, "/api/v1/subscribers", "", http.StatusUnauthorized},
		{"author category write", http.MethodPost, "/api/v1/categories", author, http.StatusForbidden},
		{"missing article", http.MethodGet, "/api/v1/articles/nope", "", http.StatusNotFound},
		{"author own drafts", http.MethodGet, "/api/v1/articles?status=Draft", author, http.StatusOK},
		{"anonymous every status", http.MethodGet, "/api/v1/articles?status=ALL&isAdvertisement=true", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := h.call(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, resp.status, resp.body)
			if tt.status >= http.StatusBadRequest {
				assert.NotEmpty(t, resp.body["code"])
				assert.NotEmpty(t, resp.body["error"])
			}
		})
	}

	resp := h.call(http.MethodGet, "/api/v1/auth/me", author, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Equal(t, "author@vadali.com", resp.data()["email"])
}

func TestAuthSessions(t *testing.T) {
	h := newHarness(t)
	h.staff()

	resp := h.call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "editor@vadali.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.status)
	assert.Equal(t, "Invalid email or password", resp.body["error"])

	resp = h.call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "editor@vadali.com", "password": "editor-pass"})
	require.Equal(t, http.StatusOK, resp.status)
	refresh := resp.data()["refreshToken"].(string)

	resp = h.call(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, resp.status)
	rotated := resp.data()["refreshToken"].(string)
	assert.NotEqual(t, refresh, rotated)

	resp = h.call(http.MethodPost, "/api/v1/auth/logout", "", map[string]string{"refreshToken": rotated})
	assert.Equal(t, http.StatusNoContent, resp.status)

	resp = h.call(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refreshToken": rotated})
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = h.call(http.MethodPost, "/api/v1/register", "", map[string]string{"name": "Dup", "email": "EDITOR@vadali.com"})
	assert.Equal(t, http.StatusConflict, resp.status)
}

func TestNewsletterAndContact(t *testing.T) {
	h := newHarness(t)
	admin, _, _, _ := h.staff()

	assert.Equal(t, http.StatusCreated, h.call(http.MethodPost, "/api/v1/subscribe", "", map[string]string{"email": "reader@example.com"}).status)
	assert.Equal(t, http.StatusConflict, h.call(http.MethodPost, "/api/v1/subscribe", "", map[string]string{"email": "reader@example.com"}).status)
	assert.Equal(t, http.StatusNoContent, h.call(http.MethodPost, "/api/v1/unsubscribe", "", map[string]string{"email": "reader@example.com"}).status)
	assert.Equal(t, http.StatusOK, h.call(http.MethodPost, "/api/v1/subscribe", "", map[string]string{"email": "reader@example.com"}).status)

	resp := h.call(http.MethodGet, "/api/v1/subscribers", admin, nil)
	require.Equal(t, http.StatusOK, resp.status)
	assert.Len(t, resp.items(), 1)

	resp = h.call(http.MethodPost, "/api/v1/contact", "", map[string]string{"name": "Lan", "email": "lan@example.com", "message": "Hello"})
	assert.Equal(t, http.StatusNoContent, resp.status)
}
