package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molsdg/internal/config"
	apperrors "github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/common"
)

type MockObjectAPI struct {
	mock.Mock
}

func (m *MockObjectAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]minio.BucketInfo), args.Error(1)
}

func (m *MockObjectAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func (m *MockObjectAPI) SetBucketLifecycle(ctx context.Context, bucketName string, cfg *lifecycle.Configuration) error {
	return m.Called(ctx, bucketName, cfg).Error(0)
}

func (m *MockObjectAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockObjectAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *MockObjectAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucketName, objectName, opts).Error(0)
}

// memoryObjects is an OpenFunc over an in-memory key space.
type memoryObjects map[string][]byte

func (o memoryObjects) open(_ context.Context, _, name string) (io.ReadCloser, error) {
	data, ok := o[name]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey", Key: name}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newTestClient(api ObjectAPI, objects memoryObjects, retention int) *Client {
	return NewClientWithAPI(api, objects.open, config.MinIOConfig{Bucket: "layouts-test", RetentionDays: retention}, nil)
}

func TestNewClientWithAPI_Defaults(t *testing.T) {
	c := NewClientWithAPI(new(MockObjectAPI), nil, config.MinIOConfig{}, nil)
	assert.Equal(t, config.DefaultMinIOBucket, c.Bucket())
	assert.Equal(t, "us-east-1", c.config.Region)
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		api := new(MockObjectAPI)
		api.On("BucketExists", ctx, "layouts-test").Return(true, nil)
		require.NoError(t, newTestClient(api, nil, 0).EnsureBucket(ctx))
		api.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("created", func(t *testing.T) {
		api := new(MockObjectAPI)
		api.On("BucketExists", ctx, "layouts-test").Return(false, nil)
		api.On("MakeBucket", ctx, "layouts-test", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
		require.NoError(t, newTestClient(api, nil, 0).EnsureBucket(ctx))
		api.AssertExpectations(t)
	})

	t.Run("failure", func(t *testing.T) {
		api := new(MockObjectAPI)
		api.On("BucketExists", ctx, "layouts-test").Return(false, errors.New("denied"))
		err := newTestClient(api, nil, 0).EnsureBucket(ctx)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStorageError))
	})
}

func TestSetupLifecycleRules(t *testing.T) {
	ctx := context.Background()

	api := new(MockObjectAPI)
	newTestClient(api, nil, 0).SetupLifecycleRules(ctx)
	api.AssertNotCalled(t, "SetBucketLifecycle", mock.Anything, mock.Anything, mock.Anything)

	api = new(MockObjectAPI)
	api.On("SetBucketLifecycle", ctx, "layouts-test", mock.MatchedBy(func(lc *lifecycle.Configuration) bool {
		return len(lc.Rules) == 1 &&
			lc.Rules[0].RuleFilter.Prefix == ObjectPrefix &&
			lc.Rules[0].Expiration.Days == lifecycle.ExpirationDays(30)
	})).Return(errors.New("not supported"))
	newTestClient(api, nil, 30).SetupLifecycleRules(ctx)
	api.AssertExpectations(t)
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	api := new(MockObjectAPI)
	api.On("BucketExists", ctx, "layouts-test").Return(true, nil).Once()
	api.On("BucketExists", ctx, "layouts-test").Return(false, nil).Once()
	api.On("BucketExists", ctx, "layouts-test").Return(false, errors.New("unreachable")).Once()
	c := newTestClient(api, nil, 0)

	assert.Equal(t, common.HealthUp, c.HealthCheck(ctx).Status)
	assert.Equal(t, common.HealthDegraded, c.HealthCheck(ctx).Status)
	h := c.HealthCheck(ctx)
	assert.Equal(t, common.HealthDown, h.Status)
	assert.Equal(t, "unreachable", h.Message)
	assert.Equal(t, "minio", h.Name)

	require.NoError(t, c.Close())
	assert.Equal(t, common.HealthDown, c.HealthCheck(ctx).Status)
	assert.ErrorIs(t, c.EnsureBucket(ctx), ErrClientClosed)
}

//Personal.AI order the ending
