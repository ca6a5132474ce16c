package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/mom-generator/pkg/config"
)

// MinIOClient stores exported minutes in a MinIO/S3 bucket
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string // Public URL for generating accessible URLs (e.g., https://minio.example.com)
	expiry    time.Duration
}

// NewMinIOClient creates a new MinIO client
func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	expiry := cfg.URLExpiry
	// Presigned URLs are capped at seven days.
	if expiry <= 0 || expiry > 7*24*time.Hour {
		expiry = 7 * 24 * time.Hour
	}

	client := &MinIOClient{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: cfg.PublicURL,
		expiry:    expiry,
	}

	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucket creates the bucket when it does not exist
func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload stores data under path and returns a download URL
func (m *MinIOClient) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := m.UploadFile(ctx, path, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return m.GetFileURL(ctx, path)
}

// UploadFile uploads a file to MinIO
func (m *MinIOClient) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	return nil
}

// GetFileURL gets a presigned URL for accessing a file
func (m *MinIOClient) GetFileURL(ctx context.Context, objectName string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, m.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return rewriteHost(u, m.publicURL), nil
}

// rewriteHost swaps the internal endpoint for the public URL when MinIO sits
// behind a reverse proxy.
// http://minio:9000/bucket/path?query -> https://files.example.com/bucket/path?query
func rewriteHost(u *url.URL, publicURL string) string {
	if publicURL == "" {
		return u.String()
	}
	return publicURL + u.RequestURI()
}
