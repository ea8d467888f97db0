// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package notification stores and serves per-user inbox messages raised by
// editorial review and reader comments.
package notification

import "time"

// Type classifies a notification.
type Type string

const (
	TypeApproved Type = "APPROVED"
	TypeRejected Type = "REJECTED"
	TypeComment  Type = "COMMENT"
	TypeGeneral  Type = "GENERAL"
)

// Notification is one message in a user's inbox.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ArticleID string    `json:"articleId,omitempty"`
	Message   string    `json:"message"`
	Type      Type      `json:"type"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Input describes a notification to raise.
type Input struct {
	UserID    string
	ArticleID string
	Message   string
	Type      Type
}

// FieldUserID is the stored attribute used by the recipient index.
const FieldUserID = "userId"
