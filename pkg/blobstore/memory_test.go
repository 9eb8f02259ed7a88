package blobstore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	content := []byte("serde archive bytes")

	fileID, err := store.Upload(ctx, bytes.NewReader(content))
	require.NoError(t, err)
	require.NotEmpty(t, fileID)

	rc, err := store.Download(ctx, fileID)
	require.NoError(t, err)
	defer rc.Close()

	downloaded, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, downloaded)
}

func TestMemoryStoreDeduplicatesIdenticalContent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Upload(ctx, bytes.NewReader([]byte("same bytes")))
	require.NoError(t, err)

	second, err := store.Upload(ctx, bytes.NewReader([]byte("same bytes")))
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := store.Upload(ctx, bytes.NewReader([]byte("different bytes")))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestMemoryStoreDownloadUnknownID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Download(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
