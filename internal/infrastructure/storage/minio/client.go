package minio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/molsdg/internal/config"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/common"
)

// ObjectAPI is the subset of the MinIO SDK used by the archive.
type ObjectAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// OpenFunc opens an object for reading. A missing object must surface as a
// minio.ErrorResponse with code NoSuchKey.
type OpenFunc func(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)

var ErrClientClosed = errors.New(errors.ErrCodeStorageError, "minio client is closed")

// Client owns the archive bucket.
type Client struct {
	api    ObjectAPI
	open   OpenFunc
	config config.MinIOConfig
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects to MinIO, verifies the connection and prepares the
// bucket and its lifecycle rule.
func NewClient(cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	applyDefaults(&cfg)

	sdk, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := sdk.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio").
			WithDetail("endpoint=" + cfg.Endpoint)
	}

	c := NewClientWithAPI(sdk, openSDK(sdk), cfg, log)
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	c.SetupLifecycleRules(ctx)

	c.logger.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewClientWithAPI wraps an existing object API.
func NewClientWithAPI(api ObjectAPI, open OpenFunc, cfg config.MinIOConfig, log logging.Logger) *Client {
	applyDefaults(&cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		api:    api,
		open:   open,
		config: cfg,
		logger: log.Named("minio"),
	}
}

func openSDK(sdk *minio.Client) OpenFunc {
	return func(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
		obj, err := sdk.GetObject(ctx, bucket, name, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		// GetObject is lazy; Stat forces the request so a missing key fails here.
		if _, err := obj.Stat(); err != nil {
			obj.Close()
			return nil, err
		}
		return obj, nil
	}
}

func applyDefaults(cfg *config.MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Bucket == "" {
		cfg.Bucket = config.DefaultMinIOBucket
	}
}

// Bucket returns the archive bucket name.
func (c *Client) Bucket() string { return c.config.Bucket }

// EnsureBucket creates the archive bucket if it does not exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	if err := c.checkClosed(); err != nil {
		return err
	}
	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket existence").WithDetail("bucket=" + c.config.Bucket)
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket").WithDetail("bucket=" + c.config.Bucket)
	}
	c.logger.Info("created bucket", logging.String("bucket", c.config.Bucket))
	return nil
}

// SetupLifecycleRules expires archived layouts after RetentionDays. Failures
// are logged; a bucket without the rule still works.
func (c *Client) SetupLifecycleRules(ctx context.Context) {
	if c.config.RetentionDays <= 0 {
		return
	}
	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{
		{
			ID:         "layout-retention",
			Status:     "Enabled",
			RuleFilter: lifecycle.Filter{Prefix: ObjectPrefix},
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(c.config.RetentionDays),
			},
		},
	}
	if err := c.api.SetBucketLifecycle(ctx, c.config.Bucket, lc); err != nil {
		c.logger.Warn("failed to set bucket lifecycle", logging.String("bucket", c.config.Bucket), logging.Err(err))
	}
}

// HealthCheck reports whether the archive bucket is reachable.
func (c *Client) HealthCheck(ctx context.Context) common.ComponentHealth {
	h := common.ComponentHealth{Name: "minio", Status: common.HealthUp}
	if err := c.checkClosed(); err != nil {
		h.Status, h.Message = common.HealthDown, err.Error()
		return h
	}
	start := time.Now()
	exists, err := c.api.BucketExists(ctx, c.config.Bucket)
	h.Latency = time.Since(start)
	switch {
	case err != nil:
		h.Status, h.Message = common.HealthDown, err.Error()
	case !exists:
		h.Status, h.Message = common.HealthDegraded, "bucket "+c.config.Bucket+" missing"
	}
	return h
}

// Close marks the client closed. The SDK holds no connections to release.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

//Personal.AI order the ending
