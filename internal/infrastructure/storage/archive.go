package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/cozyren/catalog-api/pkg/config"
)

// Client the subset of *minio.Client the archive uses.
type Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Archive stores raw inbound feed bodies under <sync_type>/<yyyy>/<mm>/<dd>/<uuid>.<ext>.
type Archive struct {
	client Client
	bucket string
	now    func() time.Time
}

// NewClient builds a MinIO/S3 client from config.
func NewClient(cfg config.ArchiveConfig) (*minio.Client, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	c, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return c, nil
}

// NewArchive wraps client for bucket.
func NewArchive(client Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket, now: time.Now}
}

// EnsureBucket creates the bucket when it is missing.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	ok, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if ok {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// Store uploads body and returns its object key.
func (a *Archive) Store(ctx context.Context, syncType, contentType string, body []byte) (string, error) {
	key := a.objectKey(syncType, contentType)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

func (a *Archive) objectKey(syncType, contentType string) string {
	now := a.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s.%s",
		syncType, now.Year(), int(now.Month()), now.Day(), uuid.NewString(), extension(contentType))
}

func extension(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "xml"):
		return "xml"
	case strings.Contains(ct, "csv"):
		return "csv"
	case strings.Contains(ct, "text/plain"):
		return "txt"
	default:
		return "json"
	}
}

// Noop archive used when archiving is disabled.
type Noop struct{}

func (Noop) Store(context.Context, string, string, []byte) (string, error) { return "", nil }
