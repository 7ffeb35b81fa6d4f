package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/achilleasa/spheretrace/log"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	// Upload timeout applied when the config does not specify one.
	DefaultUploadTimeout = 30 * time.Second

	defaultRegion = "us-east-1"
)

var ErrMissingBucket = errors.New("publish: no s3 bucket specified")

// The Publisher interface is implemented by remote sinks for rendered images.
type Publisher interface {
	// Upload data under the given key.
	Publish(ctx context.Context, key, contentType string, data []byte) error
}

// Settings for publishing to an S3 compatible object store.
type S3Config struct {
	Bucket string
	Region string

	// Custom endpoint for S3 compatible stores. Requests use path-style
	// addressing.
	Endpoint string

	AccessKey string
	SecretKey string

	// Optional prefix for object keys.
	Prefix string

	// Per-upload timeout.
	Timeout time.Duration
}

// Populate an S3 config from SPHERETRACE_S3_* environment variables.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Bucket:    os.Getenv("SPHERETRACE_S3_BUCKET"),
		Region:    os.Getenv("SPHERETRACE_S3_REGION"),
		Endpoint:  os.Getenv("SPHERETRACE_S3_ENDPOINT"),
		AccessKey: os.Getenv("SPHERETRACE_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("SPHERETRACE_S3_SECRET_KEY"),
		Prefix:    os.Getenv("SPHERETRACE_S3_PREFIX"),
	}
}

type s3Publisher struct {
	logger log.Logger
	cfg    S3Config
	client *s3.S3
}

// Create a publisher that uploads objects to an S3 bucket.
func NewS3Publisher(cfg S3Config) (Publisher, error) {
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultUploadTimeout
	}

	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("publish: could not create s3 session: %w", err)
	}

	return &s3Publisher{
		logger: log.New("s3 publisher"),
		cfg:    cfg,
		client: s3.New(sess),
	}, nil
}

// Upload data to the configured bucket. The object key is prefixed with
// the configured prefix.
func (p *s3Publisher) Publish(ctx context.Context, key, contentType string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	objectKey := path.Join(p.cfg.Prefix, key)
	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.cfg.Bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("publish: failed to upload %s: %w", objectKey, err)
	}

	p.logger.Noticef("uploaded s3://%s/%s (%d bytes)", p.cfg.Bucket, objectKey, size)
	return nil
}
