// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadali/newsroom/internal/core/comment"
	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/users/notification"
	"github.com/vadali/newsroom/pkg/pagination"
)

type stubArticles map[string]comment.Target

func (stub stubArticles) CommentTarget(_ context.Context, id string) (comment.Target, error) {
	target, ok := stub[id]
	if !ok {
		return comment.Target{}, apperr.NotFound("Article")
	}
	return target, nil
}

type recordingNotifier struct {
	inputs []notification.Input
	err    error
}

func (notifier *recordingNotifier) Notify(_ context.Context, input notification.Input) error {
	notifier.inputs = append(notifier.inputs, input)
	return notifier.err
}

func setup() (*comment.Service, *recordingNotifier, comment.Repository) {
	repo := comment.NewDocumentRepository(docstore.NewMemory(), "comments", "articleId-index")
	notifier := &recordingNotifier{}
	articles := stubArticles{"a1": {ArticleID: "a1", AuthorID: "author-1", Title: "Hello"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return comment.NewService(repo, articles, notifier, logger), notifier, repo
}

func TestCreate_ForcesPendingAnonymous(t *testing.T) {
	service, notifier, repo := setup()

	created, err := service.Create(context.Background(), "a1", comment.CreateInput{Text: "  Great piece  "})
	require.NoError(t, err)

	assert.Equal(t, comment.StatusPending, created.Status)
	assert.Equal(t, comment.AnonymousAuthor, created.AuthorName)
	assert.Empty(t, created.AuthorEmail)
	assert.Equal(t, "Great piece", created.Text)
	assert.False(t, created.Date.IsZero())

	require.Len(t, notifier.inputs, 1)
	assert.Equal(t, "author-1", notifier.inputs[0].UserID)
	assert.Equal(t, notification.TypeComment, notifier.inputs[0].Type)

	stored, err := repo.ListByArticle(context.Background(), "a1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestCreate_Failures(t *testing.T) {
	service, _, _ := setup()

	_, err := service.Create(context.Background(), "a1", comment.CreateInput{Text: "   "})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(context.Background(), "missing", comment.CreateInput{Text: "hi"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreate_NotificationFailureIsNotFatal(t *testing.T) {
	service, notifier, _ := setup()
	notifier.err = errors.New("inbox down")

	_, err := service.Create(context.Background(), "a1", comment.CreateInput{Text: "hi"})
	assert.NoError(t, err)
}

func TestModerate(t *testing.T) {
	service, _, repo := setup()
	ctx := context.Background()

	created, err := service.Create(ctx, "a1", comment.CreateInput{Text: "hi"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		articleID string
		commentID string
		status    string
		code      string
	}{
		{"unknown status", "a1", created.ID, "SPAM", apperr.CodeValidation},
		{"wrong article", "a2", created.ID, "APPROVED", apperr.CodeNotFound},
		{"missing comment", "a1", "nope", "APPROVED", apperr.CodeNotFound},
		{"approve", "a1", created.ID, "approved", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Moderate(ctx, tt.articleID, tt.commentID, tt.status)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, comment.StatusApproved, stored.Status)
}

func TestQueueAndVisible(t *testing.T) {
	service, _, repo := setup()
	ctx := context.Background()

	first, err := service.Create(ctx, "a1", comment.CreateInput{Text: "one"})
	require.NoError(t, err)
	_, err = service.Create(ctx, "a1", comment.CreateInput{Text: "two"})
	require.NoError(t, err)
	require.NoError(t, service.Moderate(ctx, "a1", first.ID, "REJECTED"))

	pending, err := service.Queue(ctx, pagination.Params{Limit: 10}, "pending")
	require.NoError(t, err)
	require.Len(t, pending.Items, 1)
	assert.Equal(t, "two", pending.Items[0].Text)

	_, err = service.Queue(ctx, pagination.Params{Limit: 10}, "bogus")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	all, err := repo.ListByArticle(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, comment.Visible(all, true), 2)
	assert.Empty(t, comment.Visible(all, false))
}
