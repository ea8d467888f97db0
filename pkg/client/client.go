// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client is a typed Go client for the newsroom API.

Lists come back one page at a time; [FetchAll] follows cursors until the
server reports no more pages, and [SortArticles] orders the gathered items
locally since the API makes no global ordering promise across pages.
*/
package client

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
	"sync"
	"time"

	"github.com/vadali/newsroom/pkg/pagination"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Code       string           `json:"code"`
	Message    string           `json:"error"`
	Details    []map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsroom api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsStatus reports whether err is an [APIError] with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client talks to one API base URL, e.g. "https://news.example.com/api/v1".
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option customises a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New constructs a [Client].
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// # Auth

// Login authenticates and stores the access token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", nil, body, data(&session)); err != nil {
		return nil, err
	}
	c.SetToken(session.Token)
	return &session, nil
}

// # Articles

// ListArticles fetches one page of articles.
func (c *Client) ListArticles(ctx context.Context, query ArticleQuery) (pagination.Page[Article], error) {
	var page pagination.Page[Article]
	err := c.do(ctx, http.MethodGet, "/articles", query.values(), nil, &page)
	return page, err
}

// AllArticles follows every page of a listing.
func (c *Client) AllArticles(ctx context.Context, query ArticleQuery) ([]Article, error) {
	return FetchAll(ctx, func(ctx context.Context, cursor string) (pagination.Page[Article], error) {
		query.Cursor = cursor
		return c.ListArticles(ctx, query)
	})
}

// GetArticle fetches one article by id.
func (c *Client) GetArticle(ctx context.Context, id string) (*Article, error) {
	var article Article
	if err := c.do(ctx, http.MethodGet, "/articles/"+url.PathEscape(id), nil, nil, data(&article)); err != nil {
		return nil, err
	}
	return &article, nil
}

// GetArticleBySlug fetches one article by slug.
func (c *Client) GetArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	var article Article
	if err := c.do(ctx, http.MethodGet, "/articles/slug/"+url.PathEscape(slug), nil, nil, data(&article)); err != nil {
		return nil, err
	}
	return &article, nil
}

// RecordView adds one view and returns the new count.
func (c *Client) RecordView(ctx context.Context, id string) (int64, error) {
	var result struct {
		Views int64 `json:"views"`
	}
	if err := c.do(ctx, http.MethodPost, "/articles/"+url.PathEscape(id)+"/views", nil, nil, data(&result)); err != nil {
		return 0, err
	}
	return result.Views, nil
}

// # Reference data

// ListCategories fetches every category, optionally header items only.
func (c *Client) ListCategories(ctx context.Context, headerOnly bool) ([]Category, error) {
	values := url.Values{}
	if headerOnly {
		values.Set("header", "true")
	}
	return FetchAll(ctx, func(ctx context.Context, cursor string) (pagination.Page[Category], error) {
		pageValues := cloneValues(values)
		if cursor != "" {
			pageValues.Set("cursor", cursor)
		}
		var page pagination.Page[Category]
		err := c.do(ctx, http.MethodGet, "/categories", pageValues, nil, &page)
		return page, err
	})
}

// ListTags fetches the tag cloud.
func (c *Client) ListTags(ctx context.Context) ([]TagCount, error) {
	var page pagination.Page[TagCount]
	if err := c.do(ctx, http.MethodGet, "/tags", nil, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Subscribe adds an email to the newsletter.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/subscribe", nil, map[string]string{"email": email}, nil)
}

// # Paging

// PageFunc fetches the page that starts at cursor.
type PageFunc[T any] func(ctx context.Context, cursor string) (pagination.Page[T], error)

// FetchAll calls fetch until HasMore is false and returns every item in
// server order. The cursor is passed back verbatim.
func FetchAll[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var (
		all    []T
		cursor string
	)
	for {
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		if !page.HasMore {
			return all, nil
		}
		if page.Cursor == "" || page.Cursor == cursor {
			return nil, fmt.Errorf("newsroom api: page reported more items without a new cursor")
		}
		cursor = page.Cursor
	}
}

// # Transport

// envelope unwraps {"data": ...} single-resource responses.
type envelope struct {
	Data any `json:"data"`
}

func data(target any) *envelope { return &envelope{Data: target} }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("newsroom api: encode body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	response, err := c.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: response.StatusCode}
		if err := json.NewDecoder(response.Body).Decode(apiErr); err != nil {
			apiErr.Message = http.StatusText(response.StatusCode)
		}
		return apiErr
	}
	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("newsroom api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (query ArticleQuery) values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("category", query.Category)
	set("tag", query.Tag)
	set("authorId", query.AuthorID)
	set("q", query.Query)
	set("status", query.Status)
	set("sort", query.Sort)
	set("cursor", query.Cursor)
	if query.Featured != nil {
		values.Set("featured", strconv.FormatBool(*query.Featured))
	}
	if query.Advertisement != nil {
		values.Set("isAdvertisement", strconv.FormatBool(*query.Advertisement))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	return values
}

func cloneValues(values url.Values) url.Values {
	clone := make(url.Values, len(values))
	for key, list := range values {
		clone[key] = append([]string(nil), list...)
	}
	return clone
}
