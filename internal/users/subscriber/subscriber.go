// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscriber

import "time"

// Subscriber is one newsletter address. Email is unique among active rows.
type Subscriber struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	IsActive       bool           `json:"isActive"`
	SubscribedAt   time.Time      `json:"subscribedAt"`
	UnsubscribedAt *time.Time     `json:"unsubscribedAt"`
	Preferences    map[string]any `json:"preferences"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Input is the body of subscribe and unsubscribe requests.
type Input struct {
	Email       string         `json:"email" validate:"required,email,max=254"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

// Stored attribute names.
const (
	FieldEmail = "email"
)
