package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/folio-studio/portfolio-api/internal/config"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/folio-studio/portfolio-api/pkg/metrics"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore keeps uploaded images in an S3-compatible bucket readable by anonymous clients.
type MinIOStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// NewMinIOStore creates a MinIO client and ensures the bucket exists with public read access.
func NewMinIOStore(cfg config.StorageConfig) (*MinIOStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}
	s := &MinIOStore{client: mc, bucket: cfg.Bucket, baseURL: base}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	if err := mc.SetBucketPolicy(ctx, s.bucket, fmt.Sprintf(publicReadPolicy, s.bucket)); err != nil {
		logger.Warnf("could not set public read policy on bucket %s: %v", s.bucket, err)
	}
	return s, nil
}

// Upload streams the file into folder and returns its public URL and object key.
func (s *MinIOStore) Upload(ctx context.Context, folder string, up Upload) (Asset, error) {
	key := objectKey(folder, up.Filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, up.Body, up.Size, minio.PutObjectOptions{ContentType: up.ContentType})
	if err != nil {
		metrics.AssetUploads.WithLabelValues(folder, "error").Inc()
		return Asset{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	metrics.AssetUploads.WithLabelValues(folder, "ok").Inc()
	return Asset{URL: s.baseURL + "/" + key, PublicID: key}, nil
}

// Delete removes an object by key. Missing objects are not an error.
func (s *MinIOStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{})
}

// Ping reports whether the bucket is reachable; used by the readiness probe.
func (s *MinIOStore) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s not found", s.bucket)
	}
	return nil
}
