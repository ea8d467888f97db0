// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadali/newsroom/internal/core/article"
	"github.com/vadali/newsroom/internal/platform/apperr"
	"github.com/vadali/newsroom/internal/platform/sec"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want article.Status
	}{
		{"Draft", article.StatusDraft},
		{"pending review", article.StatusPending},
		{"Pending-Review", article.StatusPending},
		{"PENDING_REVIEW", article.StatusPending},
		{"submitted", article.StatusPending},
		{"Awaiting Review", article.StatusPending},
		{"approved", article.StatusPublished},
		{" LIVE ", article.StatusPublished},
		{"published", article.StatusPublished},
		{"declined", article.StatusRejected},
		{"Denied", article.StatusRejected},
		{"garbage", article.StatusDraft},
		{"", article.StatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, article.NormalizeStatus(tt.raw))
		})
	}
}

func TestParseStatus_Strict(t *testing.T) {
	status, err := article.ParseStatus("pending_review")
	require.NoError(t, err)
	assert.Equal(t, article.StatusPending, status)

	_, err = article.ParseStatus("garbage")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name string
		from article.Status
		to   article.Status
		role sec.Role
		code string
	}{
		{"author submits draft", article.StatusDraft, article.StatusPending, sec.RoleAuthor, ""},
		{"author resubmits rejected", article.StatusRejected, article.StatusPending, sec.RoleAuthor, ""},
		{"editor publishes pending", article.StatusPending, article.StatusPublished, sec.RoleEditor, ""},
		{"admin publishes draft", article.StatusDraft, article.StatusPublished, sec.RoleAdmin, ""},
		{"editor archives", article.StatusPublished, article.StatusDraft, sec.RoleEditor, ""},
		{"author cannot publish", article.StatusPending, article.StatusPublished, sec.RoleAuthor, apperr.CodeForbidden},
		{"author cannot archive", article.StatusPublished, article.StatusDraft, sec.RoleAuthor, apperr.CodeForbidden},
		{"draft cannot be rejected", article.StatusDraft, article.StatusRejected, sec.RoleEditor, apperr.CodeUnprocessable},
		{"published cannot be rejected", article.StatusPublished, article.StatusRejected, sec.RoleAdmin, apperr.CodeUnprocessable},
		{"no-op move", article.StatusDraft, article.StatusDraft, sec.RoleAdmin, apperr.CodeUnprocessable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := article.CheckTransition(tt.from, tt.to, tt.role)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}
}
