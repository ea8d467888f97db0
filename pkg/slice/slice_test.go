// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vadali/newsroom/pkg/slice"
)

func TestMapFilter(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
	assert.Equal(t, []int{2, 4}, slice.Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 }))
}

func TestFoldHelpers(t *testing.T) {
	assert.True(t, slice.ContainsFold([]string{"AI", "Tech"}, "ai"))
	assert.False(t, slice.ContainsFold([]string{"AI"}, "a"))

	assert.Equal(t, []string{"AI", "tech"}, slice.UniqueFold([]string{" AI", "tech", "", "ai", "Tech "}))
}
