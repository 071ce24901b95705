package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options selects the bucket and how stored objects are addressed.
type S3Options struct {
	Bucket    string
	KeyPrefix string
	// PublicBaseURL, when set, is used to build browser-facing URLs
	// (a CDN or the bucket website endpoint). Otherwise s3:// locations are returned.
	PublicBaseURL string
}

// S3Service stores objects in Amazon S3 (or compatible APIs).
type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     S3Options
}

func NewS3Service(client *s3.Client, opts S3Options) *S3Service {
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		opts:     opts,
	}
}

func (s *S3Service) Put(ctx context.Context, obj Object) (string, error) {
	if s.opts.Bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}
	if strings.TrimSpace(obj.Key) == "" {
		return "", fmt.Errorf("object key is required")
	}

	key := s.fullKey(obj.Key)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
		Body:   obj.Body,
		ACL:    types.ObjectCannedACLPrivate,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return objectURL(s.opts, key), nil
}

func (s *S3Service) Delete(ctx context.Context, key string) error {
	if s.opts.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	full := s.fullKey(key)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(full),
	}); err != nil {
		return fmt.Errorf("delete %s: %w", full, err)
	}
	return nil
}

func (s *S3Service) fullKey(key string) string {
	return joinKey(s.opts.KeyPrefix, key)
}

func joinKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	key = strings.TrimLeft(key, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func objectURL(opts S3Options, key string) string {
	if base := strings.TrimRight(opts.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}
	return fmt.Sprintf("s3://%s/%s", opts.Bucket, key)
}

var _ Service = (*S3Service)(nil)
