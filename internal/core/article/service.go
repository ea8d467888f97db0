// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vadali/newsroom/internal/core/category"
	"github.com/vadali/newsroom/internal/core/comment"
	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/dberr"
	"github.com/vadali/newsroom/internal/platform/sec"
	"github.com/vadali/newsroom/internal/platform/validate"
	"github.com/vadali/newsroom/internal/users/notification"
	"github.com/vadali/newsroom/pkg/slice"
	"github.com/vadali/newsroom/pkg/slug"
)

const resourceName = "Article"

// # Collaborators

// CategoryResolver finds a category by ID or slug. A nil category with a
// nil error means no match.
type CategoryResolver interface {
	Resolve(context context.Context, identifier string) (*category.Category, error)
}

// Notifier raises inbox notifications for authors.
type Notifier interface {
	Notify(context context.Context, input notification.Input) error
}

// # Service Layer

// Service orchestrates article authoring, review and reading.
type Service struct {
	repo       Repository
	comments   comment.Repository
	categories CategoryResolver
	notifier   Notifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repo Repository, comments comment.Repository, categories CategoryResolver, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		comments:   comments,
		categories: categories,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// isStaff reports whether the caller reviews content.
func isStaff(caller *sec.AuthClaims) bool {
	return caller != nil && caller.Role.In(sec.RoleEditor, sec.RoleAdmin)
}

func owns(caller *sec.AuthClaims, article *Article) bool {
	return caller != nil && caller.UserID != "" && caller.UserID == article.AuthorID
}

// visible reports whether the caller may read the article.
func (service *Service) visible(caller *sec.AuthClaims, article *Article) bool {
	if isStaff(caller) || owns(caller, article) {
		return true
	}
	return article.IsLive(service.now())
}

// # Reads

// Get returns an article by ID with its comments.
func (service *Service) Get(context context.Context, caller *sec.AuthClaims, id string) (*Article, error) {
	article, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return service.hydrate(context, caller, article)
}

// GetBySlug returns an article by slug with its comments.
func (service *Service) GetBySlug(context context.Context, caller *sec.AuthClaims, value string) (*Article, error) {
	article, err := service.repo.FindBySlug(context, value)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return service.hydrate(context, caller, article)
}

// hydrate hides invisible articles behind a 404 and attaches the comments
// the caller may see.
func (service *Service) hydrate(context context.Context, caller *sec.AuthClaims, article *Article) (*Article, error) {
	if !service.visible(caller, article) {
		return nil, apperr.NotFound(resourceName)
	}

	comments, err := service.comments.ListByArticle(context, article.ID)
	if err != nil {
		return nil, dberr.Wrap(err, "Comment")
	}
	article.Comments = comment.Visible(comments, isStaff(caller))
	if article.Comments == nil {
		article.Comments = []*comment.Comment{}
	}
	return article, nil
}

// CommentTarget implements [comment.ArticleFinder]. Only live articles
// accept comments.
func (service *Service) CommentTarget(context context.Context, articleID string) (comment.Target, error) {
	article, err := service.repo.FindByID(context, articleID)
	if err != nil {
		return comment.Target{}, dberr.Wrap(err, resourceName)
	}
	if !article.IsLive(service.now()) {
		return comment.Target{}, apperr.NotFound(resourceName)
	}
	return comment.Target{ArticleID: article.ID, AuthorID: article.AuthorID, Title: article.Title}, nil
}

// Published returns every live article, used by tag aggregation.
func (service *Service) Published(context context.Context) ([]*Article, error) {
	now := service.now()
	page, err := service.repo.Find(context, StatusPublished, func(article *Article) bool { return article.IsLive(now) }, "", 0)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	return page.Items, nil
}

// # Management

/*
Create stores a new article on behalf of the caller.

Description: Authors always own what they create and may only start in
Draft or Pending Review; their flag values are ignored. The slug is derived
from the title when absent. A Published article without publishedAt is
published now.

Returns:
  - *Article: The stored article
  - error: 400 on invalid input, 403 on a disallowed status, 409 on a slug collision
*/
func (service *Service) Create(context context.Context, caller *sec.AuthClaims, input Input) (*Article, error) {
	article := &Article{AuthorID: caller.UserID, Status: StatusDraft, ImageURLs: []string{}, Tags: []string{}}
	if input.Status != nil {
		article.Status = NormalizeStatus(*input.Status)
	}

	if caller.Role == sec.RoleAuthor {
		if !authorSettable(article.Status) {
			return nil, apperr.Forbidden("Authors can only create Draft or Pending Review articles")
		}
		input.AuthorID, input.IsFeatured, input.IsAdvertisement = nil, nil, nil
	}

	if err := service.apply(context, article, input); err != nil {
		return nil, err
	}
	if article.Slug == "" {
		article.Slug = slug.Derive(article.Title, "article")
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, article.Title).Required(FieldSlug, article.Slug).Slug(FieldSlug, article.Slug)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if err := service.ensureSlugFree(context, article.Slug, ""); err != nil {
		return nil, err
	}

	if article.Status == StatusPublished && article.PublishedAt == nil {
		now := service.now().UTC()
		article.PublishedAt = &now
	}

	if err := service.repo.Create(context, article); err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	service.logger.Info("article_created",
		slog.String("id", article.ID),
		slog.String("status", string(article.Status)),
		slog.String("author_id", article.AuthorID),
	)
	return article, nil
}

/*
Update applies a partial update.

Description:
  - ADMIN: any field, status set without transition checks.
  - EDITOR: any field, a status change must be a valid review move.
  - AUTHOR: own Draft or Rejected articles only, status limited to Draft or
    Pending Review, flags and authorship untouched.

Returns:
  - *Article: The updated article
  - error: 403, 404, 409 or 422 as described above
*/
func (service *Service) Update(context context.Context, caller *sec.AuthClaims, id string, input Input) (*Article, error) {
	article, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	previous := article.Status

	target := article.Status
	if input.Status != nil {
		target = NormalizeStatus(*input.Status)
	}

	switch caller.Role {
	case sec.RoleAuthor:
		if !owns(caller, article) {
			return nil, apperr.Forbidden("You can only edit your own articles")
		}
		if !authorWritable(article.Status) {
			return nil, apperr.Forbidden("Only Draft or Rejected articles can be edited")
		}
		if input.Status != nil && !authorSettable(target) {
			return nil, apperr.Forbidden("Authors can only set Draft or Pending Review")
		}
		input.AuthorID, input.IsFeatured, input.IsAdvertisement = nil, nil, nil
		input.PublishedAt, input.RejectionReason = nil, nil
	case sec.RoleEditor:
		if target != previous {
			if err := CheckTransition(previous, target, caller.Role); err != nil {
				return nil, err
			}
		}
	case sec.RoleAdmin:
	default:
		return nil, apperr.Forbidden("Insufficient permissions")
	}

	if err := service.apply(context, article, input); err != nil {
		return nil, err
	}
	article.Status = target
	if input.Slug != nil {
		if err := (&validate.Validator{}).Required(FieldSlug, article.Slug).Slug(FieldSlug, article.Slug).Err(); err != nil {
			return nil, err
		}
		if err := service.ensureSlugFree(context, article.Slug, article.ID); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(article.Title) == "" {
		return nil, validate.RequiredError(FieldTitle, "This field is required")
	}

	if target == StatusPublished && article.PublishedAt == nil {
		now := service.now().UTC()
		article.PublishedAt = &now
	}
	if target != StatusRejected {
		article.RejectionReason = ""
	}

	saved, err := service.repo.Save(context, article)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	if target != previous {
		service.announce(context, saved)
	}
	return saved, nil
}

/*
ChangeStatus performs a review move.

Description: Publishing stamps publishedAt with publishAt or now. Rejecting
requires a reason, which is stored until the next move. Any other move
clears both.

Returns:
  - *Article: The updated article
  - error: 400 on an unknown status or missing reason, 403 for a disallowed
    actor, 404, 422 on an illegal move
*/
func (service *Service) ChangeStatus(context context.Context, caller *sec.AuthClaims, id string, input StatusInput) (*Article, error) {
	article, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}
	if caller.Role == sec.RoleAuthor && !owns(caller, article) {
		return nil, apperr.Forbidden("You can only submit your own articles")
	}

	target, err := ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(article.Status, target, caller.Role); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(input.Reason)
	switch target {
	case StatusPublished:
		publishedAt := service.now().UTC()
		if input.PublishAt != nil {
			publishedAt = input.PublishAt.UTC()
		}
		article.PublishedAt = &publishedAt
		article.RejectionReason = ""
	case StatusRejected:
		if reason == "" {
			return nil, validate.RequiredError(FieldReason, "A reason is required to reject an article")
		}
		article.PublishedAt = nil
		article.RejectionReason = reason
	default:
		article.PublishedAt = nil
		article.RejectionReason = ""
	}
	article.Status = target

	saved, err := service.repo.Save(context, article)
	if err != nil {
		return nil, dberr.Wrap(err, resourceName)
	}

	service.logger.Info("article_status_changed",
		slog.String("id", saved.ID),
		slog.String("status", string(saved.Status)),
		slog.String("actor_id", caller.UserID),
	)
	service.announce(context, saved)
	return saved, nil
}

// Delete removes an article and its comments. Authors may only delete their
// own unpublished articles.
func (service *Service) Delete(context context.Context, caller *sec.AuthClaims, id string) error {
	article, err := service.repo.FindByID(context, id)
	if err != nil {
		return dberr.Wrap(err, resourceName)
	}
	if caller.Role == sec.RoleAuthor {
		if !owns(caller, article) {
			return apperr.Forbidden("You can only delete your own articles")
		}
		if article.Status == StatusPublished {
			return apperr.Forbidden("Published articles can only be removed by an editor")
		}
	}

	if err := service.comments.DeleteByArticle(context, id); err != nil {
		return dberr.Wrap(err, "Comment")
	}
	if err := service.repo.Delete(context, id); err != nil {
		return dberr.Wrap(err, resourceName)
	}

	service.logger.Info("article_deleted", slog.String("id", id), slog.String("actor_id", caller.UserID))
	return nil
}

// RecordView adds one view to a live article and returns the new count.
// Drafts, pending and scheduled articles answer 404 like a public read.
func (service *Service) RecordView(context context.Context, id string) (int64, error) {
	article, err := service.repo.FindByID(context, id)
	if err != nil {
		return 0, dberr.Wrap(err, resourceName)
	}
	if !article.IsLive(service.now()) {
		return 0, apperr.NotFound(resourceName)
	}
	views, err := service.repo.IncrementViews(context, id, 1)
	return views, dberr.Wrap(err, resourceName)
}

// # Helpers

// apply copies the provided fields of input onto article.
func (service *Service) apply(context context.Context, article *Article, input Input) error {
	if input.Title != nil {
		article.Title = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		article.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Summary != nil {
		article.Summary = *input.Summary
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	if input.CoverImageURL != nil {
		article.CoverImageURL = *input.CoverImageURL
	}
	if input.ImageURLs != nil {
		article.ImageURLs = append([]string{}, *input.ImageURLs...)
	}
	if input.VideoURL != nil {
		article.VideoURL = strings.TrimSpace(*input.VideoURL)
	}
	if input.Tags != nil {
		article.Tags = slice.UniqueFold(*input.Tags)
		if article.Tags == nil {
			article.Tags = []string{}
		}
	}
	if input.AuthorID != nil && *input.AuthorID != "" {
		article.AuthorID = *input.AuthorID
	}
	if input.PublishedAt != nil {
		publishedAt := input.PublishedAt.UTC()
		article.PublishedAt = &publishedAt
	}
	if input.RejectionReason != nil {
		article.RejectionReason = strings.TrimSpace(*input.RejectionReason)
	}
	if input.IsAdvertisement != nil {
		article.IsAdvertisement = *input.IsAdvertisement
	}
	if input.IsFeatured != nil {
		article.IsFeatured = *input.IsFeatured
	}

	if input.CategoryID != nil {
		identifier := strings.TrimSpace(*input.CategoryID)
		if identifier == "" {
			article.CategoryID = ""
			return nil
		}
		found, err := service.categories.Resolve(context, identifier)
		if err != nil {
			return err
		}
		if found == nil {
			return validate.RequiredError(FieldCategoryID, "Category does not exist")
		}
		article.CategoryID = found.ID
	}
	return nil
}

func (service *Service) ensureSlugFree(context context.Context, value, selfID string) error {
	existing, err := service.repo.FindBySlug(context, value)
	if err != nil {
		if wrapped := dberr.Wrap(err, resourceName); !apperr.IsNotFound(wrapped) {
			return wrapped
		}
		return nil
	}
	if existing.ID != selfID {
		return apperr.Conflict("An article with this slug already exists")
	}
	return nil
}

// announce tells the author about a review outcome.
func (service *Service) announce(context context.Context, article *Article) {
	var input notification.Input
	switch article.Status {
	case StatusPublished:
		input = notification.Input{Type: notification.TypeApproved, Message: fmt.Sprintf("Your article %q was published", article.Title)}
	case StatusRejected:
		input = notification.Input{Type: notification.TypeRejected, Message: fmt.Sprintf("Your article %q was rejected: %s", article.Title, article.RejectionReason)}
	default:
		return
	}
	input.UserID = article.AuthorID
	input.ArticleID = article.ID

	if err := service.notifier.Notify(context, input); err != nil {
		service.logger.Warn("article_notification_failed", slog.String("article_id", article.ID), slog.Any("error", err))
	}
}
