// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"log/slog"

	"github.com/vadali/newsroom/internal/core/article"
	"github.com/vadali/newsroom/internal/core/category"
	"github.com/vadali/newsroom/internal/core/comment"
	"github.com/vadali/newsroom/internal/core/tag"
	"github.com/vadali/newsroom/internal/platform/config"
	"github.com/vadali/newsroom/internal/platform/docstore"
	"github.com/vadali/newsroom/internal/users/account"
	"github.com/vadali/newsroom/internal/users/auth"
	"github.com/vadali/newsroom/internal/users/contact"
	"github.com/vadali/newsroom/internal/users/notification"
	"github.com/vadali/newsroom/internal/users/subscriber"
)

// Dependencies is the infrastructure the domain handlers are built on.
type Dependencies struct {
	Config   *config.Config
	Store    docstore.Store
	Sessions auth.SessionRepository
	Tokens   auth.TokenProvider
	Logger   *slog.Logger

	// FallbackUsers answers logins when the primary user table fails. Nil
	// disables the fallback.
	FallbackUsers account.Repository
}

// NewHandlers builds repositories, services and handlers for every domain.
// Liveness and Readiness are left for the caller.
func NewHandlers(deps Dependencies) Handlers {
	tables, indexes, logger := deps.Config.Tables, deps.Config.Indexes, deps.Logger

	// # Repositories
	users := account.NewDocumentRepository(deps.Store, tables.Users, indexes.UserEmail)
	categories := category.NewDocumentRepository(deps.Store, tables.Categories, indexes.CategorySlug)
	articles := article.NewDocumentRepository(deps.Store, tables.Articles, indexes.ArticleSlug, indexes.ArticleStatus)
	comments := comment.NewDocumentRepository(deps.Store, tables.Comments, indexes.CommentArticle)
	notifications := notification.NewDocumentRepository(deps.Store, tables.Notifications, indexes.NotificationUser)
	subscribers := subscriber.NewDocumentRepository(deps.Store, tables.Subscribers, indexes.SubscriberEmail)

	// # Services
	ttl := auth.TokenTTL{Access: deps.Config.AccessTokenTTL, Refresh: deps.Config.RefreshTokenTTL}
	authService := auth.NewService(users, deps.FallbackUsers, deps.Sessions, deps.Tokens, ttl, logger)
	accountService := account.NewService(users, logger)
	notificationService := notification.NewService(notifications, logger)
	categoryService := category.NewService(categories, logger)
	articleService := article.NewService(articles, comments, categoryService, notificationService, logger)
	commentService := comment.NewService(comments, articleService, notificationService, logger)
	tagService := tag.NewService(articleService, logger)
	subscriberService := subscriber.NewService(subscribers, logger)
	contactService := contact.NewService(logger)

	return Handlers{
		Auth:          auth.NewHandler(authService),
		Articles:      article.NewHandler(articleService),
		Comments:      comment.NewHandler(commentService),
		Categories:    category.NewHandler(categoryService),
		Users:         account.NewHandler(accountService),
		Notifications: notification.NewHandler(notificationService),
		Tags:          tag.NewHandler(tagService),
		Subscribers:   subscriber.NewHandler(subscriberService),
		Contact:       contact.NewHandler(contactService),
	}
}
