// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadali/newsroom/internal/core/article"
	"github.com/vadali/newsroom/internal/core/category"
	"github.com/vadali/newsroom/internal/core/comment"
	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/users/notification"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/pointer"
)

var (
	admin   = &sec.AuthClaims{UserID: "admin-1", Role: sec.RoleAdmin}
	editor  = &sec.AuthClaims{UserID: "editor-1", Role: sec.RoleEditor}
	author  = &sec.AuthClaims{UserID: "author-1", Role: sec.RoleAuthor}
	other   = &sec.AuthClaims{UserID: "author-2", Role: sec.RoleAuthor}
	reader  = &sec.AuthClaims{UserID: "reader-1", Role: sec.RolePublic}
	allPage = pagination.Params{Limit: 100}
)

type fixture struct {
	service    *article.Service
	categories *category.Service
	comments   comment.Repository
	inbox      *notification.Service
	store      *docstore.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := docstore.NewMemory()

	categories := category.NewService(category.NewDocumentRepository(store, "categories", "slug-index"), logger)
	comments := comment.NewDocumentRepository(store, "comments", "articleId-index")
	inbox := notification.NewService(notification.NewDocumentRepository(store, "notifications", "userId-index"), logger)
	repo := article.NewDocumentRepository(store, "articles", "slug-index", "status-index")

	return &fixture{
		service:    article.NewService(repo, comments, categories, inbox, logger),
		categories: categories,
		comments:   comments,
		inbox:      inbox,
		store:      store,
	}
}

func (f *fixture) create(t *testing.T, caller *sec.AuthClaims, input article.Input) *article.Article {
	t.Helper()
	created, err := f.service.Create(context.Background(), caller, input)
	require.NoError(t, err)
	return created
}

func ids(items []*article.Article) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t)

	created := f.create(t, author, article.Input{Title: pointer.To("Hello World"), Tags: &[]string{"AI", "ai", " Go "}})

	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, article.StatusDraft, created.Status)
	assert.Equal(t, author.UserID, created.AuthorID)
	assert.Equal(t, int64(0), created.Views)
	assert.Equal(t, []string{"AI", "Go"}, created.Tags)
	assert.NotEmpty(t, created.ID)

	_, err := f.service.Create(context.Background(), author, article.Input{Title: pointer.To("Hello World")})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	_, err = f.service.Create(context.Background(), author, article.Input{Title: pointer.To("  ")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestCreate_NonLatinTitles(t *testing.T) {
	f := newFixture(t)

	tamil := f.create(t, author, article.Input{Title: pointer.To("தமிழ் செய்திகள்")})
	chinese := f.create(t, author, article.Input{Title: pointer.To("新闻")})

	assert.Regexp(t, `^article-[0-9a-f]{10}$`, tamil.Slug)
	assert.Regexp(t, `^article-[0-9a-f]{10}$`, chinese.Slug)
	assert.NotEqual(t, tamil.Slug, chinese.Slug)

	_, err := f.service.Create(context.Background(), author, article.Input{Title: pointer.To("新闻")})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

func TestCreate_StripsPublishedAtOnDraft(t *testing.T) {
	f := newFixture(t)
	supplied := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	created := f.create(t, editor, article.Input{Title: pointer.To("Draft"), Status: pointer.To("Draft"), PublishedAt: &supplied})
	assert.Nil(t, created.PublishedAt)

	raw, err := f.store.Get(context.Background(), "articles", created.ID)
	require.NoError(t, err)
	assert.NotContains(t, raw, "publishedAt")
	assert.NotContains(t, raw, "comments")
}

func TestCreate_AuthorRestrictions(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), author, article.Input{Title: pointer.To("X"), Status: pointer.To("Published")})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	created := f.create(t, author, article.Input{
		Title:      pointer.To("Mine"),
		AuthorID:   pointer.To("someone-else"),
		IsFeatured: pointer.To(true),
		Status:     pointer.To("submitted"),
	})
	assert.Equal(t, author.UserID, created.AuthorID)
	assert.False(t, created.IsFeatured)
	assert.Equal(t, article.StatusPending, created.Status)
}

func TestCreate_CategoryBySlug(t *testing.T) {
	f := newFixture(t)
	tech, err := f.categories.Create(context.Background(), category.CreateInput{Name: "Tech", Slug: "tech"})
	require.NoError(t, err)

	created := f.create(t, editor, article.Input{Title: pointer.To("A"), CategoryID: pointer.To("tech")})
	assert.Equal(t, tech.ID, created.CategoryID)

	_, err = f.service.Create(context.Background(), editor, article.Input{Title: pointer.To("B"), CategoryID: pointer.To("nope")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestListing_DefaultPublishedAndAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tech, err := f.categories.Create(ctx, category.CreateInput{Name: "Tech", Slug: "tech"})
	require.NoError(t, err)
	draft := f.create(t, editor, article.Input{Title: pointer.To("Hello World"), CategoryID: &tech.ID, Status: pointer.To("Draft")})
	f.create(t, editor, article.Input{Title: pointer.To("Pending"), Status: pointer.To("Pending Review")})

	all, err := f.service.List(ctx, editor, article.Filter{Status: "all"}, allPage)
	require.NoError(t, err)
	assert.Contains(t, ids(all.Items), draft.ID)
	assert.Len(t, all.Items, 2)

	public, err := f.service.List(ctx, nil, article.Filter{}, allPage)
	require.NoError(t, err)
	assert.Empty(t, public.Items)

	published, err := f.service.ChangeStatus(ctx, editor, draft.ID, article.StatusInput{Status: "Published"})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)

	public, err = f.service.List(ctx, nil, article.Filter{}, allPage)
	require.NoError(t, err)
	assert.Equal(t, []string{draft.ID}, ids(public.Items))

	byCategory, err := f.service.List(ctx, nil, article.Filter{Category: "tech"}, allPage)
	require.NoError(t, err)
	assert.Len(t, byCategory.Items, 1)

	unknown, err := f.service.List(ctx, nil, article.Filter{Category: "missing"}, allPage)
	require.NoError(t, err)
	assert.Empty(t, unknown.Items)
	assert.NotNil(t, unknown.Items)
}

func TestListing_RestrictedStatuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.create(t, author, article.Input{Title: pointer.To("Mine")})
	f.create(t, other, article.Input{Title: pointer.To("Theirs")})

	_, err := f.service.List(ctx, nil, article.Filter{Status: "Draft"}, allPage)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = f.service.List(ctx, reader, article.Filter{Status: "Draft"}, allPage)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.service.List(ctx, editor, article.Filter{Status: "garbage"}, allPage)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	own, err := f.service.List(ctx, author, article.Filter{Status: "Draft"}, allPage)
	require.NoError(t, err)
	assert.Equal(t, []string{mine.ID}, ids(own.Items))
}

/*
TestListing_AllBypassesStatus checks that status=ALL returns every match for
any caller, which is how advertisement queries reach unpublished ads.
*/
func TestListing_AllBypassesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ad := f.create(t, admin, article.Input{Title: pointer.To("Sponsored"), IsAdvertisement: pointer.To(true)})
	f.create(t, other, article.Input{Title: pointer.To("Theirs")})

	callers := []struct {
		name   string
		caller *sec.AuthClaims
	}{
		{"anonymous", nil},
		{"reader", reader},
		{"author", author},
		{"editor", editor},
	}
	for _, tt := range callers {
		t.Run(tt.name, func(t *testing.T) {
			ads, err := f.service.List(ctx, tt.caller, article.Filter{Status: "ALL", Advertisement: pointer.To(true)}, allPage)
			require.NoError(t, err)
			assert.Equal(t, []string{ad.ID}, ids(ads.Items))

			all, err := f.service.List(ctx, tt.caller, article.Filter{Status: "all"}, allPage)
			require.NoError(t, err)
			assert.Len(t, all.Items, 2)
		})
	}

	published, err := f.service.List(ctx, nil, article.Filter{Advertisement: pointer.To(true)}, allPage)
	require.NoError(t, err)
	assert.Empty(t, published.Items)
}

func TestListing_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ai := f.create(t, editor, article.Input{Title: pointer.To("Machine minds"), Tags: &[]string{"AI"}, Status: pointer.To("Published"), IsFeatured: pointer.To(true)})
	ad := f.create(t, editor, article.Input{Title: pointer.To("Buy now"), Summary: pointer.To("Great DEALS"), Status: pointer.To("Published"), IsAdvertisement: pointer.To(true)})
	f.create(t, editor, article.Input{Title: pointer.To("Sports"), Status: pointer.To("Published")})

	tests := []struct {
		name   string
		filter article.Filter
		want   []string
	}{
		{"tag case-insensitive", article.Filter{Tag: "ai"}, []string{ai.ID}},
		{"query on summary", article.Filter{Query: "deals"}, []string{ad.ID}},
		{"featured", article.Filter{Featured: pointer.To(true)}, []string{ai.ID}},
		{"advertisement", article.Filter{Advertisement: pointer.To(true)}, []string{ad.ID}},
		{"author", article.Filter{AuthorID: "nobody"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.service.List(ctx, nil, tt.filter, allPage)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page.Items))
		})
	}
}

func TestListing_PagingAndSort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var created []*article.Article
	for _, title := range []string{"one", "two", "three"} {
		created = append(created, f.create(t, editor, article.Input{Title: pointer.To(title), Status: pointer.To("Published")}))
	}
	for range 3 {
		_, err := f.service.RecordView(ctx, created[1].ID)
		require.NoError(t, err)
	}

	first, err := f.service.List(ctx, nil, article.Filter{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{created[0].ID, created[1].ID}, ids(first.Items))
	require.True(t, first.HasMore)

	second, err := f.service.List(ctx, nil, article.Filter{}, pagination.Params{Limit: 2, Cursor: first.Cursor})
	require.NoError(t, err)
	assert.Equal(t, []string{created[2].ID}, ids(second.Items))
	assert.False(t, second.HasMore)

	byViews, err := f.service.List(ctx, nil, article.Filter{Sort: "views"}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{created[1].ID, created[0].ID}, ids(byViews.Items))
	assert.True(t, byViews.HasMore)

	_, err = f.service.List(ctx, nil, article.Filter{Sort: "title"}, allPage)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestScheduledPublication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.create(t, author, article.Input{Title: pointer.To("Later"), Status: pointer.To("Pending Review")})
	future := time.Now().Add(time.Hour)

	scheduled, err := f.service.ChangeStatus(ctx, editor, pending.ID, article.StatusInput{Status: "Published", PublishAt: &future})
	require.NoError(t, err)
	assert.WithinDuration(t, future, *scheduled.PublishedAt, time.Millisecond)

	public, err := f.service.List(ctx, nil, article.Filter{}, allPage)
	require.NoError(t, err)
	assert.Empty(t, public.Items)

	staff, err := f.service.List(ctx, editor, article.Filter{}, allPage)
	require.NoError(t, err)
	assert.Len(t, staff.Items, 1)

	_, err = f.service.Get(ctx, nil, pending.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestChangeStatus_RejectAndResubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.create(t, author, article.Input{Title: pointer.To("Review me"), Status: pointer.To("Pending Review")})

	_, err := f.service.ChangeStatus(ctx, editor, pending.ID, article.StatusInput{Status: "Rejected"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	rejected, err := f.service.ChangeStatus(ctx, editor, pending.ID, article.StatusInput{Status: "Rejected", Reason: "Needs sources"})
	require.NoError(t, err)
	assert.Equal(t, "Needs sources", rejected.RejectionReason)

	reloaded, err := f.service.Get(ctx, author, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "Needs sources", reloaded.RejectionReason)

	_, err = f.service.ChangeStatus(ctx, other, pending.ID, article.StatusInput{Status: "Pending Review"})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	resubmitted, err := f.service.ChangeStatus(ctx, author, pending.ID, article.StatusInput{Status: "pending"})
	require.NoError(t, err)
	assert.Empty(t, resubmitted.RejectionReason)

	_, err = f.service.ChangeStatus(ctx, author, pending.ID, article.StatusInput{Status: "Published"})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	inbox, err := f.inbox.ListForUser(ctx, author, author.UserID, allPage)
	require.NoError(t, err)
	require.Len(t, inbox.Items, 1)
	assert.Equal(t, notification.TypeRejected, inbox.Items[0].Type)
}

func TestChangeStatus_ArchiveClearsPublishedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	live := f.create(t, editor, article.Input{Title: pointer.To("Live"), Status: pointer.To("Published")})
	require.NotNil(t, live.PublishedAt)

	archived, err := f.service.ChangeStatus(ctx, editor, live.ID, article.StatusInput{Status: "Draft"})
	require.NoError(t, err)
	assert.Nil(t, archived.PublishedAt)

	_, err = f.service.ChangeStatus(ctx, editor, live.ID, article.StatusInput{Status: "Rejected", Reason: "x"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnprocessable))
}

func TestUpdate_RoleRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.create(t, author, article.Input{Title: pointer.To("Draft")})

	_, err := f.service.Update(ctx, other, draft.ID, article.Input{Title: pointer.To("Hijack")})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.service.Update(ctx, author, draft.ID, article.Input{Status: pointer.To("Published")})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	submitted, err := f.service.Update(ctx, author, draft.ID, article.Input{Title: pointer.To("Draft v2"), Status: pointer.To("Pending Review"), IsFeatured: pointer.To(true)})
	require.NoError(t, err)
	assert.Equal(t, article.StatusPending, submitted.Status)
	assert.False(t, submitted.IsFeatured)

	_, err = f.service.Update(ctx, author, draft.ID, article.Input{Title: pointer.To("Draft v3")})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.service.Update(ctx, editor, draft.ID, article.Input{Status: pointer.To("Rejected")})
	assert.NoError(t, err)

	overridden, err := f.service.Update(ctx, admin, draft.ID, article.Input{Status: pointer.To("Published")})
	require.NoError(t, err)
	assert.NotNil(t, overridden.PublishedAt)
	assert.Empty(t, overridden.RejectionReason)
}

func TestUpdate_UpdatedAtStrictlyIncreases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.create(t, editor, article.Input{Title: pointer.To("Same")})
	input := article.Input{Summary: pointer.To("identical")}

	first, err := f.service.Update(ctx, editor, created.ID, input)
	require.NoError(t, err)
	second, err := f.service.Update(ctx, editor, created.ID, input)
	require.NoError(t, err)

	assert.True(t, first.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Title, second.Title)
}

func TestRecordView_Concurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.create(t, editor, article.Input{Title: pointer.To("Popular"), Status: pointer.To("Published")})

	const readers = 50
	var wg sync.WaitGroup
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.RecordView(ctx, created.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	reloaded, err := f.service.Get(ctx, nil, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(readers), reloaded.Views)

	_, err = f.service.RecordView(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestRecordView_HiddenArticles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.create(t, author, article.Input{Title: pointer.To("Unfinished")})
	pending := f.create(t, author, article.Input{Title: pointer.To("Waiting"), Status: pointer.To("Pending Review")})
	scheduled := f.create(t, editor, article.Input{Title: pointer.To("Tomorrow"), Status: pointer.To("Pending Review")})
	future := time.Now().Add(24 * time.Hour)
	_, err := f.service.ChangeStatus(ctx, editor, scheduled.ID, article.StatusInput{Status: "Published", PublishAt: &future})
	require.NoError(t, err)

	for _, id := range []string{draft.ID, pending.ID, scheduled.ID} {
		_, err := f.service.RecordView(ctx, id)
		assert.True(t, apperr.IsNotFound(err), "article %s", id)

		stored, err := f.service.Get(ctx, editor, id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stored.Views)
	}
}

func TestGet_HydratesVisibleComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	live := f.create(t, editor, article.Input{Title: pointer.To("Talk"), Status: pointer.To("Published")})

	approved := &comment.Comment{ArticleID: live.ID, Text: "yes", Status: comment.StatusApproved}
	pending := &comment.Comment{ArticleID: live.ID, Text: "maybe", Status: comment.StatusPending}
	require.NoError(t, f.comments.Create(ctx, approved))
	require.NoError(t, f.comments.Create(ctx, pending))

	public, err := f.service.Get(ctx, nil, live.ID)
	require.NoError(t, err)
	require.Len(t, public.Comments, 1)
	assert.Equal(t, "yes", public.Comments[0].Text)

	staff, err := f.service.GetBySlug(ctx, editor, live.Slug)
	require.NoError(t, err)
	assert.Len(t, staff.Comments, 2)

	draft := f.create(t, author, article.Input{Title: pointer.To("Secret")})
	_, err = f.service.Get(ctx, reader, draft.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	live := f.create(t, editor, article.Input{Title: pointer.To("Live"), Status: pointer.To("Published"), AuthorID: &author.UserID})
	require.NoError(t, f.comments.Create(ctx, &comment.Comment{ArticleID: live.ID, Text: "x", Status: comment.StatusApproved}))

	assert.True(t, apperr.HasCode(f.service.Delete(ctx, author, live.ID), apperr.CodeForbidden))
	require.NoError(t, f.service.Delete(ctx, editor, live.ID))

	remaining, err := f.comments.ListByArticle(ctx, live.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	assert.True(t, apperr.IsNotFound(f.service.Delete(ctx, editor, live.ID)))
}

func TestCommentTargetAndPublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	live := f.create(t, editor, article.Input{Title: pointer.To("Live"), Status: pointer.To("Published"), AuthorID: &author.UserID})
	draft := f.create(t, author, article.Input{Title: pointer.To("Draft")})

	target, err := f.service.CommentTarget(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, author.UserID, target.AuthorID)

	_, err = f.service.CommentTarget(ctx, draft.ID)
	assert.True(t, apperr.IsNotFound(err))

	published, err := f.service.Published(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{live.ID}, ids(published))
}
