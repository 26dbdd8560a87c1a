package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/microlearn/certificate-api/internal/config"
	"github.com/microlearn/certificate-api/internal/domain/certificate"
	"github.com/microlearn/certificate-api/internal/infrastructure/metrics"
)

// S3Storage stores certificates in an S3-compatible object store.
type S3Storage struct {
	bucket      string
	serviceName string
	client      *s3.Client
	presigner   *s3.PresignClient
	log         zerolog.Logger
}

// NewS3Storage builds the S3 backend. Unlike the optional cache, a
// misconfigured store is fatal: the service cannot run without it.
func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("CERT_S3_BUCKET is required for the s3 storage backend")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &S3Storage{
		bucket:      cfg.S3Bucket,
		serviceName: cfg.ServiceName,
		client:      client,
		presigner:   s3.NewPresignClient(client),
		log:         log.With().Str("component", "s3-storage").Logger(),
	}, nil
}

// Upload writes the object with its metadata. An uploaded_at timestamp and
// the service name are always stamped alongside caller metadata.
func (s *S3Storage) Upload(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	md := map[string]string{
		"uploaded_at": time.Now().UTC().Format(time.RFC3339),
		"service":     s.serviceName,
	}
	for k, v := range metadata {
		md[k] = v
	}

	start := time.Now()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata:    md,
	})
	metrics.RecordStorageOperation("put", opStatus(err), time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}

	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("object uploaded")
	return nil
}

// Download returns the object body, or certificate.ErrNotFound when absent.
func (s *S3Storage) Download(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	metrics.RecordStorageOperation("get", opStatus(err), time.Since(start).Seconds())
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, certificate.ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// Exists checks the object with a HeadObject request.
func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			metrics.RecordStorageOperation("head", "success", time.Since(start).Seconds())
			return false, nil
		}
		metrics.RecordStorageOperation("head", "error", time.Since(start).Seconds())
		return false, fmt.Errorf("head object %s: %w", key, err)
	}
	metrics.RecordStorageOperation("head", "success", time.Since(start).Seconds())
	return true, nil
}

// Delete removes the object. S3 deletes are idempotent, so deleting an absent
// key still reports success.
func (s *S3Storage) Delete(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	metrics.RecordStorageOperation("delete", opStatus(err), time.Since(start).Seconds())
	if err != nil {
		return false, fmt.Errorf("delete object %s: %w", key, err)
	}
	return true, nil
}

// Metadata returns the object's user metadata, or certificate.ErrNotFound.
func (s *S3Storage) Metadata(ctx context.Context, key string) (map[string]string, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, certificate.ErrNotFound
		}
		return nil, fmt.Errorf("head object %s: %w", key, err)
	}
	return out.Metadata, nil
}

// PresignGet issues a time-limited GET URL for the object.
func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	start := time.Now()
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	metrics.RecordPresign(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// Health performs a HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noKey)
}

func opStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
