package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	apperrors "github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

type ArchiveTestSuite struct {
	suite.Suite
	ctx     context.Context
	api     *MockObjectAPI
	objects memoryObjects
	client  *Client
	archive *LayoutArchive
}

func (s *ArchiveTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.api = new(MockObjectAPI)
	s.objects = memoryObjects{}
	s.client = newTestClient(s.api, s.objects, 0)
	s.archive = NewLayoutArchive(s.client, nil)
}

func TestArchiveTestSuite(t *testing.T) {
	suite.Run(t, new(ArchiveTestSuite))
}

func sampleResult() *layout.Result {
	return &layout.Result{
		ID:           "7f1c1a52-2b0c-4c55-9d2a-1e3f4a5b6c7d",
		SMILES:       "c1ccccc1",
		Atoms:        []layout.Atom{{Index: 0, Symbol: "C", Position: &layout.Point{X: 25, Y: 43.3}}},
		Unpositioned: []int{},
	}
}

func (s *ArchiveTestSuite) TestObjectKey() {
	key := ObjectKey("c1ccccc1")
	s.Equal(ObjectKey(" c1ccccc1 "), key)
	s.Equal("layouts/", key[:8])
	s.Len(key, len("layouts/")+64+len(".json"))
	s.NotEqual(ObjectKey("C1CCCCC1"), key)
}

func (s *ArchiveTestSuite) TestPut() {
	res := sampleResult()
	var stored []byte
	s.api.On("PutObject", s.ctx, "layouts-test", ObjectKey(res.SMILES), mock.Anything, mock.AnythingOfType("int64"),
		mock.MatchedBy(func(o minio.PutObjectOptions) bool {
			return o.ContentType == "application/json" && o.UserMetadata["complete"] == "true" &&
				o.UserMetadata["layout-id"] == string(res.ID)
		})).
		Run(func(args mock.Arguments) {
			stored, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{ETag: "etag"}, nil)

	s.Require().NoError(s.archive.Put(s.ctx, res))
	s.Contains(string(stored), `"smiles":"c1ccccc1"`)
	s.api.AssertExpectations(s.T())
}

func (s *ArchiveTestSuite) TestPut_Invalid() {
	s.ErrorIs(s.archive.Put(s.ctx, nil), ErrInvalidRequest)
	s.ErrorIs(s.archive.Put(s.ctx, &layout.Result{}), ErrInvalidRequest)
}

func (s *ArchiveTestSuite) TestPut_Failure() {
	s.api.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("disk full"))

	err := s.archive.Put(s.ctx, sampleResult())
	s.Require().Error(err)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeStorageError))
}

func (s *ArchiveTestSuite) TestGet() {
	s.objects[ObjectKey("c1ccccc1")] = []byte(`{"smiles":"c1ccccc1","atoms":[{"index":0,"symbol":"C","hybridization":"sp2","degree":2,"in_ring":true,"in_chain":false}]}`)

	res, err := s.archive.Get(s.ctx, "c1ccccc1")
	s.Require().NoError(err)
	s.Equal("c1ccccc1", res.SMILES)
	s.Require().Len(res.Atoms, 1)
	s.Equal("sp2", res.Atoms[0].Hybridization)
}

func (s *ArchiveTestSuite) TestGet_NotFound() {
	_, err := s.archive.Get(s.ctx, "CCO")
	s.Require().Error(err)
	s.True(apperrors.IsNotFound(err))
}

func (s *ArchiveTestSuite) TestGet_Corrupt() {
	s.objects[ObjectKey("CCO")] = []byte("{")
	_, err := s.archive.Get(s.ctx, "CCO")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeSerialization))
}

func (s *ArchiveTestSuite) TestExists() {
	s.api.On("StatObject", s.ctx, "layouts-test", ObjectKey("C"), minio.StatObjectOptions{}).Return(minio.ObjectInfo{}, nil)
	s.api.On("StatObject", s.ctx, "layouts-test", ObjectKey("CC"), minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
	s.api.On("StatObject", s.ctx, "layouts-test", ObjectKey("CCC"), minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "AccessDenied"})

	ok, err := s.archive.Exists(s.ctx, "C")
	s.NoError(err)
	s.True(ok)

	ok, err = s.archive.Exists(s.ctx, "CC")
	s.NoError(err)
	s.False(ok)

	_, err = s.archive.Exists(s.ctx, "CCC")
	s.True(apperrors.IsCode(err, apperrors.ErrCodeStorageError))
}

func (s *ArchiveTestSuite) TestDelete() {
	s.api.On("RemoveObject", s.ctx, "layouts-test", ObjectKey("C"), minio.RemoveObjectOptions{}).Return(nil)
	s.NoError(s.archive.Delete(s.ctx, "C"))
	s.api.AssertExpectations(s.T())
}

func (s *ArchiveTestSuite) TestClosedClient() {
	s.Require().NoError(s.client.Close())
	s.ErrorIs(s.archive.Put(s.ctx, sampleResult()), ErrClientClosed)
	_, err := s.archive.Get(s.ctx, "C")
	s.ErrorIs(err, ErrClientClosed)
}

func TestArchive_RoundTripThroughMemory(t *testing.T) {
	ctx := context.Background()
	objects := memoryObjects{}
	api := new(MockObjectAPI)
	api.On("PutObject", mock.Anything, "layouts-test", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(3).(io.Reader))
			objects[args.String(2)] = bytes.Clone(data)
		}).
		Return(minio.UploadInfo{}, nil)

	archive := NewLayoutArchive(newTestClient(api, objects, 0), nil)
	require.NoError(t, archive.Put(ctx, sampleResult()))

	got, err := archive.Get(ctx, "c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, sampleResult().ID, got.ID)
	assert.Equal(t, 43.3, got.Atoms[0].Position.Y)
}

//Personal.AI order the ending
