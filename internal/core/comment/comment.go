// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment handles anonymous reader comments and their moderation.

Comments are created PENDING and become visible to the public once an editor
approves them. Rejection keeps the record and hides it.
*/
package comment

import (
	"strings"
	"time"
)

// Status is the moderation state of a comment.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ParseStatus matches a moderation status case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, true
	case StatusApproved:
		return StatusApproved, true
	case StatusRejected:
		return StatusRejected, true
	}
	return "", false
}

// AnonymousAuthor is the display name stamped on every new comment.
const AnonymousAuthor = "Anonymous User"

// Comment is a reader comment attached to an article.
type Comment struct {
	ID              string    `json:"id"`
	ArticleID       string    `json:"articleId"`
	AuthorName      string    `json:"authorName"`
	AuthorEmail     string    `json:"authorEmail"`
	AuthorAvatarURL string    `json:"authorAvatarUrl"`
	Text            string    `json:"text"`
	Status          Status    `json:"status"`
	Date            time.Time `json:"date"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// # Field Identifiers

const (
	FieldArticleID = "articleId"
	FieldText      = "text"
	FieldStatus    = "status"
)
