package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const supabaseS3Path = "/storage/v1/s3"

// S3Uploader archives uploaded invoice documents in S3-compatible storage
type S3Uploader struct {
	s3Client s3iface.S3API
	bucket   string
	endpoint string
}

// Config holds configuration for S3 uploader
type Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
}

// NewS3Uploader creates a new S3 uploader. Supabase project URLs are accepted
// with or without the /storage/v1/s3 suffix.
func NewS3Uploader(config *Config) (*S3Uploader, error) {
	if config.Endpoint == "" || config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	base := strings.TrimSuffix(strings.TrimSuffix(config.Endpoint, "/"), supabaseS3Path)

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(config.Region),
		Endpoint:         aws.String(base + supabaseS3Path),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
		DisableSSL:       aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return newUploader(s3.New(sess), config.Bucket, base), nil
}

func newUploader(client s3iface.S3API, bucket, endpoint string) *S3Uploader {
	return &S3Uploader{
		s3Client: client,
		bucket:   bucket,
		endpoint: endpoint,
	}
}

// Upload stores a document under key and returns its public URL
func (u *S3Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := u.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return u.PublicURL(key), nil
}

// PublicURL returns the public object URL for key.
// Format: https://{project-ref}.supabase.co/storage/v1/object/public/{bucket}/{key}
func (u *S3Uploader) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s", u.endpoint, path.Join(u.bucket, key))
}
