package minio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

// ObjectPrefix is the key prefix of every archived layout.
const ObjectPrefix = "layouts/"

const contentTypeJSON = "application/json"

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "archived layout not found")
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid archive request")
)

// ObjectKey returns the archive key for a SMILES string.
func ObjectKey(smiles string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(smiles)))
	return ObjectPrefix + hex.EncodeToString(sum[:]) + ".json"
}

// LayoutArchive stores layout results as JSON documents, one per SMILES
// string. A newer result for the same SMILES replaces the older one.
type LayoutArchive struct {
	client *Client
	logger logging.Logger
}

// NewLayoutArchive creates an archive on client's bucket.
func NewLayoutArchive(client *Client, log logging.Logger) *LayoutArchive {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &LayoutArchive{client: client, logger: log.Named("archive")}
}

// Put stores result under the key of its SMILES.
func (a *LayoutArchive) Put(ctx context.Context, result *layout.Result) error {
	if result == nil || strings.TrimSpace(result.SMILES) == "" {
		return ErrInvalidRequest
	}
	if err := a.client.checkClosed(); err != nil {
		return err
	}
	data, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal layout")
	}

	key := ObjectKey(result.SMILES)
	opts := minio.PutObjectOptions{
		ContentType: contentTypeJSON,
		UserMetadata: map[string]string{
			"layout-id": string(result.ID),
			"complete":  boolString(result.Complete()),
		},
	}
	info, err := a.client.api.PutObject(ctx, a.client.Bucket(), key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to archive layout").WithDetail("key=" + key)
	}
	a.logger.Debug("layout archived",
		logging.String("key", key),
		logging.String("etag", info.ETag),
		logging.Int64("size", info.Size))
	return nil
}

// Get returns the archived layout of smiles.
func (a *LayoutArchive) Get(ctx context.Context, smiles string) (*layout.Result, error) {
	if strings.TrimSpace(smiles) == "" {
		return nil, ErrInvalidRequest
	}
	if err := a.client.checkClosed(); err != nil {
		return nil, err
	}
	key := ObjectKey(smiles)
	rc, err := a.client.open(ctx, a.client.Bucket(), key)
	if err != nil {
		return nil, a.mapError(err, key)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, a.mapError(err, key)
	}
	var res layout.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "corrupt archived layout").WithDetail("key=" + key)
	}
	return &res, nil
}

// Exists reports whether a layout for smiles is archived.
func (a *LayoutArchive) Exists(ctx context.Context, smiles string) (bool, error) {
	if err := a.client.checkClosed(); err != nil {
		return false, err
	}
	key := ObjectKey(smiles)
	_, err := a.client.api.StatObject(ctx, a.client.Bucket(), key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, a.mapError(err, key)
}

// Delete removes the archived layout of smiles. Removing a missing layout
// is not an error.
func (a *LayoutArchive) Delete(ctx context.Context, smiles string) error {
	if err := a.client.checkClosed(); err != nil {
		return err
	}
	key := ObjectKey(smiles)
	if err := a.client.api.RemoveObject(ctx, a.client.Bucket(), key, minio.RemoveObjectOptions{}); err != nil {
		return a.mapError(err, key)
	}
	return nil
}

func (a *LayoutArchive) mapError(err error, key string) error {
	if isNoSuchKey(err) {
		return ErrObjectNotFound.WithDetail("key=" + key)
	}
	return errors.Wrap(err, errors.ErrCodeStorageError, "archive request failed").WithDetail("key=" + key)
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

//Personal.AI order the ending
