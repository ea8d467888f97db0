// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/dberr"
	"github.com/vadali/newsroom/internal/platform/validate"
	"github.com/vadali/newsroom/internal/users/notification"
	"github.com/vadali/newsroom/pkg/pagination"
	"github.com/vadali/newsroom/pkg/slice"
)

const resourceName = "Comment"

// # Collaborators

// Target is the article side of a comment.
type Target struct {
	ArticleID string
	AuthorID  string
	Title     string
}

// ArticleFinder resolves the article a reader is commenting on. It returns
// a 404 error when the article is absent or not publicly visible.
type ArticleFinder interface {
	CommentTarget(context context.Context, articleID string) (Target, error)
}

// Notifier raises inbox notifications.
type Notifier interface {
	Notify(context context.Context, input notification.Input) error
}

// # Service Layer

// Service accepts and moderates comments.
type Service struct {
	repo     Repository
	articles ArticleFinder
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, articles ArticleFinder, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, articles: articles, notifier: notifier, logger: logger}
}

// CreateInput is the reader-supplied part of a comment.
type CreateInput struct {
	Text string `json:"text" validate:"notblank,max=5000"`
}

/*
Create posts an anonymous comment on an article.

Description: Status is forced to PENDING and the author to the anonymous
placeholder. The article's author receives a COMMENT notification; a failed
notification is logged and does not fail the request.

Returns:
  - *Comment: The stored comment
  - error: 404 when the article is not visible, 400 on empty text
*/
func (service *Service) Create(context context.Context, articleID string, input CreateInput) (*Comment, error) {
	text := strings.TrimSpace(input.Text)
	if err := (&validate.Validator{}).Required(FieldText, text).MaxLen(FieldText, text, 5000).Err(); err != nil {
		return nil, err
	}

	target, err := service.articles.CommentTarget(context, articleID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ArticleID:  target.ArticleID,
		AuthorName: AnonymousAuthor,
		Text:       text,
		Status:     StatusPending,
	}
	if err := service.repo.Create(context, comment); err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	if err := service.notifier.Notify(context, notification.Input{
		UserID:    target.AuthorID,
		ArticleID: target.ArticleID,
		Message:   fmt.Sprintf("New comment on %q", target.Title),
		Type:      notification.TypeComment,
	}); err != nil {
		service.logger.Warn("comment_notification_failed", slog.String("article_id", target.ArticleID), slog.Any("error", err))
	}

	return comment, nil
}

/*
Moderate sets the status of a comment on the given article.

Returns:
  - error: 404 when the comment does not exist or belongs to another article,
    400 on an unknown status
*/
func (service *Service) Moderate(context context.Context, articleID, commentID, rawStatus string) error {
	status, ok := ParseStatus(rawStatus)
	if !ok {
		return validate.RequiredError(FieldStatus, "Must be one of: PENDING, APPROVED, REJECTED")
	}

	comment, err := service.repo.FindByID(context, commentID)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if comment.ArticleID != articleID {
		return apperr.NotFound(resourceName)
	}

	if _, err := service.repo.UpdateStatus(context, commentID, status); err != nil {
		return dberr.Wrap(err, resourceName)
	}

	service.logger.Info("comment_moderated", slog.String("id", commentID), slog.String("status", string(status)))
	return nil
}

// Queue pages through comments for moderation, optionally filtered by status.
func (service *Service) Queue(context context.Context, params pagination.Params, rawStatus string) (pagination.Page[*Comment], error) {
	var status Status
	if rawStatus != "" {
		parsed, ok := ParseStatus(rawStatus)
		if !ok {
			return pagination.Page[*Comment]{}, validate.RequiredError(FieldStatus, "Must be one of: PENDING, APPROVED, REJECTED")
		}
		status = parsed
	}

	page, err := service.repo.List(context, params, status)
	if err != nil {
		return pagination.Page[*Comment]{}, dberr.Wrap(err, resourceName)
	}
	return page, nil
}

// Visible filters comments for display. Staff see every comment; everyone
// else only sees approved ones.
func Visible(comments []*Comment, includeHidden bool) []*Comment {
	if includeHidden {
		return comments
	}
	return slice.Filter(comments, func(comment *Comment) bool { return comment.Status == StatusApproved })
}
