// Package blobstore provides the content-addressable blob façade the registry
// uses to hold serializer and deserializer archives.
//
// File ids are the SHA-256 hex digest of the blob content, which gives the
// façade its write-once guarantees for free: uploading the same bytes twice
// returns the same id without a second write, and a file id downloaded at any
// later point always yields the original bytes.
//
// MinioStore is the production backend on MinIO/S3-compatible storage;
// MemoryStore is a drop-in for tests.
//
//	store, err := blobstore.NewMinioStore(cfg, log)
//	fileID, err := store.Upload(ctx, archiveReader)
//	rc, err := store.Download(ctx, fileID)
package blobstore
