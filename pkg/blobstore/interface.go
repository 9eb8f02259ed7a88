package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Download when no blob exists for the file id.
var ErrNotFound = errors.New("file not found")

// Store is the content-addressable blob façade of the registry. Uploads are
// write-once: a returned file id stays retrievable and always yields the same
// bytes. Uploading identical content returns the same file id.
type Store interface {
	// Upload stores the bytes read from r and returns their file id.
	Upload(ctx context.Context, r io.Reader) (string, error)

	// Download returns a reader over the blob stored under fileID. The caller
	// owns closing the reader.
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}
