// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	chunks      []int
	failOnChunk int
}

func (writer *recordingWriter) writeBatch(_ context.Context, _ string, items []Item) ([]Item, error) {
	writer.chunks = append(writer.chunks, len(items))
	if len(writer.chunks) == writer.failOnChunk {
		return items[:1], nil
	}
	return nil, nil
}

func itemsN(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{"id": fmt.Sprintf("id-%03d", i)}
	}
	return items
}

func TestWriteChunked_SplitsAtLimit(t *testing.T) {
	writer := &recordingWriter{}
	require.NoError(t, writeChunked(context.Background(), writer, "t", itemsN(60)))
	assert.Equal(t, []int{25, 25, 10}, writer.chunks)
}

/*
TestWriteChunked_UnprocessedIsFatal checks that any unprocessed item stops the
batch and surfaces ErrUnprocessed.
*/
func TestWriteChunked_UnprocessedIsFatal(t *testing.T) {
	writer := &recordingWriter{failOnChunk: 2}
	err := writeChunked(context.Background(), writer, "t", itemsN(80))

	assert.ErrorIs(t, err, ErrUnprocessed)
	assert.Equal(t, []int{25, 25}, writer.chunks, "later chunks are not attempted")
}

func TestWriteChunked_RejectsKeylessItems(t *testing.T) {
	writer := &recordingWriter{}
	err := writeChunked(context.Background(), writer, "t", []Item{{"title": "no id"}})
	assert.Error(t, err)
	assert.Empty(t, writer.chunks)
}
