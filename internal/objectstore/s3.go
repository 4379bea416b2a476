package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3 stores objects in an AWS S3 bucket. Public URLs are
// <publicBaseURL>/<path>, defaulting to the bucket's virtual-hosted endpoint.
type S3 struct {
	bucket        string
	publicBaseURL string
	client        *s3.Client
}

// NewS3 builds a client for bucket. Static credentials are used when given,
// otherwise the default AWS credential chain.
func NewS3(ctx context.Context, region, bucket, accessKeyID, secretAccessKey, publicBaseURL string) (*S3, error) {
	if region == "" {
		return nil, errors.New("s3: region is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	base := strings.TrimSpace(publicBaseURL)
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	} else {
		base = strings.TrimRight(base, "/") + "/" + bucket
	}

	return &S3{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		client:        s3.NewFromConfig(awsCfg),
	}, nil
}

func (s *S3) Upload(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) (string, error) {
	if r == nil {
		return "", errors.New("s3: reader is required")
	}
	key, err := cleanKey(objectPath)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=3600"),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}

	publicURL := s.publicBaseURL + "/" + escapeKey(key)
	log.Info().Str("bucket", s.bucket).Str("key", key).Str("url", publicURL).Msg("Image uploaded")
	return publicURL, nil
}

func (s *S3) Delete(ctx context.Context, objectPath string) error {
	key, err := cleanKey(objectPath)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3: delete object: %w", err)
	}
	return nil
}

func (s *S3) PathFromURL(publicURL string) (string, bool) {
	return pathUnder(s.publicBaseURL, publicURL)
}

var _ Store = (*S3)(nil)
