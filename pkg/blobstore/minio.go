package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// Upload stages the content in memory, fingerprints it and stores it under
// its SHA-256 hex digest. When an object with that digest already exists the
// upload is skipped and the existing file id is returned.
func (m *MinioStore) Upload(ctx context.Context, r io.Reader) (string, error) {
	buffer := m.bufferPool.Get()
	defer m.bufferPool.Put(buffer)

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(buffer, hasher), r); err != nil {
		return "", fmt.Errorf("failed to read upload content: %w", err)
	}

	fileID := hex.EncodeToString(hasher.Sum(nil))
	bucket := m.cfg.Connection.BucketName

	// Content-addressed: identical bytes are already stored under this key.
	_, err := m.client.StatObject(ctx, bucket, fileID, minio.StatObjectOptions{})
	if err == nil {
		m.logger.Debug("upload deduplicated", nil, map[string]interface{}{
			"file_id": fileID,
			"size":    buffer.Len(),
		})
		return fileID, nil
	}
	if !isNoSuchKey(err) {
		return "", fmt.Errorf("failed to stat object: %w", err)
	}

	size := int64(buffer.Len())
	if _, err := m.client.PutObject(ctx, bucket, fileID, bytes.NewReader(buffer.Bytes()), size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	}); err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}

	m.logger.Info("uploaded blob", nil, map[string]interface{}{
		"file_id": fileID,
		"size":    size,
	})

	return fileID, nil
}

// Download returns a reader over the blob stored under fileID. The object is
// stat-ed up front so an unknown file id surfaces as ErrNotFound instead of
// a late read error.
func (m *MinioStore) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	bucket := m.cfg.Connection.BucketName

	object, err := m.client.GetObject(ctx, bucket, fileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	if _, err := object.Stat(); err != nil {
		closeErr := object.Close()
		if closeErr != nil {
			m.logger.Error("failed to close object reader", closeErr, map[string]interface{}{})
		}
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	return object, nil
}

// isNoSuchKey reports whether err is MinIO's missing-object error.
func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
	}
	return false
}
