// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vadali/newsroom/pkg/uuid"
)

func TestNew_IsTimeOrdered(t *testing.T) {
	ids := make([]string, 200)
	for i := range ids {
		ids[i] = uuid.New()
	}

	assert.True(t, sort.StringsAreSorted(ids), "v7 keys must sort in generation order")
	assert.True(t, uuid.Valid(ids[0]))
}

func TestRandom(t *testing.T) {
	a, b := uuid.Random(), uuid.Random()
	assert.NotEqual(t, a, b)
	assert.True(t, uuid.Valid(a))
	assert.False(t, uuid.Valid("refresh-token"))
}
