package blobstore

// Config defines the MinIO connection settings for the blob store.
type Config struct {
	Connection ConnectionConfig
}

// ConnectionConfig contains MinIO server connection details.
type ConnectionConfig struct {
	Endpoint        string // MinIO server endpoint, e.g., "localhost:9000"
	AccessKeyID     string // MinIO access key
	SecretAccessKey string // MinIO secret key
	UseSSL          bool   // Use SSL (true for "https", false for "http")
	BucketName      string // Bucket holding serde archives
	Region          string // Region for the bucket (e.g., "us-east-1")
}
