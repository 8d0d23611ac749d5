// Package s3 keeps the dataset document as a single object in an
// S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/types"
)

var _ storage.Storage = (*Store)(nil)

const defaultKey = "data.json"

// ObjectAPI is the subset of *s3.Client the store needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds construction parameters. Credentials fall back to the default
// AWS chain when AccessKeyID is empty.
type Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string // optional; enables a custom endpoint such as MinIO
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

// Store implements storage.Storage over one S3 object.
type Store struct {
	client ObjectAPI
	bucket string
	key    string
}

// New builds an S3 client from cfg and returns a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3.New: bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3.New: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewWithClient wraps an existing client. An empty key defaults to data.json.
func NewWithClient(client ObjectAPI, bucket, key string) *Store {
	if key == "" {
		key = defaultKey
	}
	return &Store{client: client, bucket: bucket, key: key}
}

// Read downloads and decodes the document object.
func (s *Store) Read(ctx context.Context) (types.Dataset, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return types.Dataset{}, fmt.Errorf("s3.Read: %s/%s: %w", s.bucket, s.key, storage.ErrEmpty)
		}
		return types.Dataset{}, fmt.Errorf("s3.Read: get object: %w", err)
	}
	defer out.Body.Close()

	ds, err := storage.Decode(out.Body)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("s3.Read: %s/%s: %w", s.bucket, s.key, err)
	}
	return ds, nil
}

// Write uploads the encoded document, replacing the object. A single
// PutObject is atomic from the reader's point of view.
func (s *Store) Write(ctx context.Context, ds types.Dataset) error {
	b, err := storage.Encode(ds)
	if err != nil {
		return fmt.Errorf("s3.Write: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(b),
		ContentLength: aws.Int64(int64(len(b))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3.Write: put object: %w", err)
	}
	return nil
}

// Close is a no-op; the SDK client has no persistent connection to release.
func (s *Store) Close() error { return nil }
