// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import "time"

// Article mirrors the API article representation.
type Article struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	Title           string     `json:"title"`
	Summary         string     `json:"summary"`
	Content         string     `json:"content"`
	CoverImageURL   string     `json:"coverImageUrl"`
	ImageURLs       []string   `json:"imageUrls"`
	VideoURL        string     `json:"videoUrl,omitempty"`
	CategoryID      string     `json:"categoryId"`
	Tags            []string   `json:"tags"`
	AuthorID        string     `json:"authorId"`
	Status          string     `json:"status"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	IsAdvertisement bool       `json:"isAdvertisement"`
	IsFeatured      bool       `json:"isFeatured"`
	Views           int64      `json:"views"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Comments        []Comment  `json:"comments,omitempty"`
}

// Comment mirrors the API comment representation.
type Comment struct {
	ID              string    `json:"id"`
	ArticleID       string    `json:"articleId"`
	AuthorName      string    `json:"authorName"`
	AuthorAvatarURL string    `json:"authorAvatarUrl"`
	Text            string    `json:"text"`
	Status          string    `json:"status"`
	Date            time.Time `json:"date"`
}

// Category mirrors the API category representation.
type Category struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Description      string `json:"description"`
	ParentCategoryID string `json:"parentCategoryId,omitempty"`
	ShowInHeader     bool   `json:"showInHeader"`
}

// TagCount is one entry of the tag cloud.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// User is the public profile returned by auth endpoints.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
	Bio       string `json:"bio"`
}

// Session is the login response.
type Session struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// ArticleQuery holds listing filters. Zero values are omitted.
type ArticleQuery struct {
	Category      string
	Tag           string
	AuthorID      string
	Query         string
	Status        string
	Featured      *bool
	Advertisement *bool
	Sort          string
	Limit         int
	Cursor        string
}
