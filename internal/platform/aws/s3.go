package aws

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Scheme prefixes document locations stored in S3.
const S3Scheme = "s3://"

// S3API is the subset of the S3 API used to read documents.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Client reads objects from S3.
type S3Client struct {
	s3 S3API
}

// NewS3Client creates an S3 reader from an AWS config.
func NewS3Client(cfg aws.Config) *S3Client {
	return &S3Client{s3: s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.BaseEndpoint != nil
	})}
}

// IsS3URI reports whether location addresses an S3 object.
func IsS3URI(location string) bool {
	return strings.HasPrefix(location, S3Scheme)
}

// ParseS3URI splits s3://bucket/key into bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("invalid S3 URI %q: must start with %s", uri, S3Scheme)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, S3Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q: expected %sbucket/key", uri, S3Scheme)
	}
	return bucket, key, nil
}

// GetObject downloads an object from a bucket.
func (c *S3Client) GetObject(ctx context.Context, bucketName, key string) ([]byte, error) {
	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("object %s not found in bucket %s: %w", key, bucketName, err)
		}
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucketName, err)
	}
	defer result.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadURI downloads the object addressed by an s3:// URI.
func (c *S3Client) ReadURI(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	return c.GetObject(ctx, bucket, key)
}
