package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MinIO stores objects in a bucket on a MinIO or other S3-compatible server.
// Public URLs have the form <publicBaseURL>/<bucket>/<path>.
type MinIO struct {
	bucket        string
	publicBaseURL string
	client        *minio.Client

	bucketInitOnce sync.Once
	bucketInitErr  error
}

func NewMinIO(endpoint string, useSSL bool, accessKey, secretKey, bucket, publicBaseURL string) (*MinIO, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("minio: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("minio: bucket is required")
	}

	client, err := minio.New(hostOf(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: create client: %w", err)
	}

	base := strings.TrimSpace(publicBaseURL)
	if base == "" {
		base = cleanEndpoint
		if !strings.Contains(base, "://") {
			scheme := "http"
			if useSSL {
				scheme = "https"
			}
			base = scheme + "://" + base
		}
	}

	return &MinIO{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		client:        client,
	}, nil
}

func (m *MinIO) Upload(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) (string, error) {
	if r == nil {
		return "", errors.New("minio: reader is required")
	}
	key, err := cleanKey(objectPath)
	if err != nil {
		return "", err
	}
	if err := m.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if size <= 0 {
		size = -1
	}

	if _, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=3600",
	}); err != nil {
		return "", fmt.Errorf("minio: put object: %w", err)
	}

	publicURL := m.objectURL(key)
	log.Info().Str("bucket", m.bucket).Str("key", key).Str("url", publicURL).Msg("Image uploaded")
	return publicURL, nil
}

func (m *MinIO) Delete(ctx context.Context, objectPath string) error {
	key, err := cleanKey(objectPath)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: remove object: %w", err)
	}
	return nil
}

func (m *MinIO) PathFromURL(publicURL string) (string, bool) {
	return pathUnder(m.publicBaseURL+"/"+m.bucket, publicURL)
}

func (m *MinIO) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.publicBaseURL, m.bucket, escapeKey(key))
}

func (m *MinIO) ensureBucket(ctx context.Context) error {
	m.bucketInitOnce.Do(func() {
		exists, err := m.client.BucketExists(ctx, m.bucket)
		if err != nil {
			m.bucketInitErr = fmt.Errorf("minio: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			m.bucketInitErr = fmt.Errorf("minio: create bucket: %w", err)
			return
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, m.bucket)
		if err := m.client.SetBucketPolicy(ctx, m.bucket, policy); err != nil {
			m.bucketInitErr = fmt.Errorf("minio: set bucket policy: %w", err)
		}
	})
	return m.bucketInitErr
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ Store = (*MinIO)(nil)
