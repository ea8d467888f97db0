// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadali/newsroom/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   pagination.Params
	}{
		{"defaults", "/articles", pagination.Params{Limit: 20}},
		{"explicit", "/articles?limit=5&cursor=abc", pagination.Params{Limit: 5, Cursor: "abc"}},
		{"legacy_cursor", "/articles?lastEvaluatedKey=xyz", pagination.Params{Limit: 20, Cursor: "xyz"}},
		{"garbage_limit", "/articles?limit=many", pagination.Params{Limit: 20}},
		{"negative_limit", "/articles?limit=-3", pagination.Params{Limit: 20}},
		{"clamped", "/articles?limit=5000", pagination.Params{Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.FromRequest(httptest.NewRequest("GET", tt.target, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPage_Envelope(t *testing.T) {
	raw, err := json.Marshal(pagination.NewPage[string](nil, "ignored", false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"hasMore":false}`, string(raw))

	raw, err = json.Marshal(pagination.NewPage([]string{"a"}, "next", true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":["a"],"cursor":"next","hasMore":true}`, string(raw))
}
