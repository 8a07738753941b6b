package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	legacy_errors "legacybook/pkg/errors"
)

// ObjectStore is the media storage port used by the intake, review, and
// export services.
type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, paths []string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

type Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Buckets   Buckets
	Timeout   time.Duration
	MinTTL    time.Duration
	MaxTTL    time.Duration
}

// Client is the S3-backed ObjectStore. Buckets are private; reads are served
// through presigned GETs.
type Client struct {
	cfg     Config
	s3      *s3.Client
	presign *s3.PresignClient
}

var _ ObjectStore = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Region == "" || cfg.Buckets.Audio == "" || cfg.Buckets.Video == "" || cfg.Buckets.Image == "" {
		return nil, errors.New("s3 region and all three buckets are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MinTTL <= 0 {
		cfg.MinTTL = 60 * time.Second
	}
	if cfg.MaxTTL <= 0 {
		cfg.MaxTTL = 3600 * time.Second
	}

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if parsed, err := url.Parse(endpoint); err == nil {
			endpoint = parsed.String()
		}
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				if service == s3.ServiceID {
					return aws.Endpoint{URL: endpoint, SigningRegion: cfg.Region}, nil
				}
				return aws.Endpoint{}, &aws.EndpointNotFoundError{}
			}),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	return &Client{
		cfg:     cfg,
		s3:      s3Client,
		presign: s3.NewPresignClient(s3Client),
	}, nil
}

// Upload writes one object. The destination must not already exist: a
// submission id maps to exactly one audio and one video path, so a collision
// means a duplicate or replayed submission.
func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	bucket, err := c.cfg.Buckets.BucketFor(path)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	exists, err := c.exists(ctx, bucket, path)
	if err != nil {
		return "", err
	}
	if exists {
		return "", legacy_errors.ErrAlreadyExists
	}

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Join(legacy_errors.ErrUploadFailed, err)
	}
	return path, nil
}

func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	bucket, err := c.cfg.Buckets.BucketFor(path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, legacy_errors.ErrNotFound
		}
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// Delete removes objects best-effort. Paths that are already absent or that
// fail to delete do not fail the caller; rollback must always make progress.
func (c *Client) Delete(ctx context.Context, paths []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	for _, path := range paths {
		bucket, err := c.cfg.Buckets.BucketFor(path)
		if err != nil {
			continue
		}
		_, _ = c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(path),
		})
	}
	return nil
}

// SignedURL mints a time-limited GET link for one private object. The TTL is
// clamped to the configured bounds.
func (c *Client) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	bucket, err := c.cfg.Buckets.BucketFor(path)
	if err != nil {
		return "", err
	}

	if ttl < c.cfg.MinTTL {
		ttl = c.cfg.MinTTL
	}
	if ttl > c.cfg.MaxTTL {
		ttl = c.cfg.MaxTTL
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	exists, err := c.exists(ctx, bucket, path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", legacy_errors.ErrNotFound
	}

	presigned, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	}, func(po *s3.PresignOptions) {
		po.Expires = ttl
	})
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

func (c *Client) exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
