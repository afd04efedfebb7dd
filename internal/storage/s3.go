package storage

import (
	"context" // Cancellation and deadlines
	"errors"  // Error matching
	"fmt"     // Message formatting
	"io"      // Streams

	"github.com/aws/aws-sdk-go-v2/aws"              // AWS value helpers
	awsconfig "github.com/aws/aws-sdk-go-v2/config" // AWS config loading
	"github.com/aws/aws-sdk-go-v2/credentials"      // Static credentials
	"github.com/aws/aws-sdk-go-v2/service/s3"       // S3 client
	"github.com/aws/aws-sdk-go-v2/service/s3/types" // S3 error types
	"github.com/google/uuid"                        // Unique ids
)

// S3Config selects the bucket and, optionally, static credentials
type S3Config struct {
	Bucket    string // Target bucket
	Region    string // Bucket region
	AccessKey string // Empty uses the default credential chain
	SecretKey string // Paired with AccessKey
}

// S3Storage keeps files in an S3 bucket
type S3Storage struct {
	client *s3.Client // S3 API client
	bucket string     // Target bucket
}

// NewS3Storage loads AWS configuration and builds the client
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" { // Static keys override the chain
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Storage{client: s3.NewFromConfig(awsCfg), bucket: cfg.Bucket}, nil
}

// Upload puts the file into the bucket under a generated key
func (s *S3Storage) Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	key := Key(fileID, filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(ContentType(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}

// Download streams the object stored under key
func (s *S3Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey // Object does not exist
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	return out.Body, nil
}

// Delete removes the object; S3 reports success for missing keys
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
