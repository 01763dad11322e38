// Package storage implements the blob-backed document store using gocloud.dev.
package storage

import (
	"context"
	"io"
	"log/slog"

	"tradeport/config"
	"tradeport/internal/domain/service"
	"tradeport/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// bucket driver
	_ "gocloud.dev/blob/memblob"  // mem:// bucket driver for dev and tests
	"gocloud.dev/gcerrors"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// bucketStore implements service.BlobStore on top of a gocloud bucket.
type bucketStore struct {
	bucket *blob.Bucket
}

// New opens the configured bucket and wires its close into the app lifecycle.
// An empty bucket URL falls back to an in-memory bucket.
func New(params Params) (service.BlobStore, error) {
	url := "mem://"
	if params.Config.Blob != nil && params.Config.Blob.BucketURL != "" {
		url = params.Config.Blob.BucketURL
	}

	bucket, err := blob.OpenBucket(context.Background(), url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open blob bucket %s", url)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return NewBucketStore(bucket), nil
}

// NewBucketStore wraps an already-open bucket. Split out so tests can supply
// an in-memory bucket directly.
func NewBucketStore(bucket *blob.Bucket) service.BlobStore {
	return &bucketStore{bucket: bucket}
}

// Write stores the content under key, replacing any existing object.
func (s *bucketStore) Write(ctx context.Context, key string, r io.Reader, contentType string) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "open blob writer for %s", key)
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()

		return errors.Wrapf(err, "write blob %s", key)
	}

	return errors.Wrapf(w.Close(), "close blob writer for %s", key)
}

// Read opens the object stored under key.
func (s *bucketStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, service.ErrBlobNotFound
		}

		return nil, errors.Wrapf(err, "open blob reader for %s", key)
	}

	return r, nil
}

// Exists reports whether any object lives under the given prefix.
func (s *bucketStore) Exists(ctx context.Context, prefix string) (bool, error) {
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	_, err := iter.Next(ctx)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "list blobs under %s", prefix)
	}

	return true, nil
}

// CopyPrefix copies every object under srcPrefix to the corresponding key
// under dstPrefix.
func (s *bucketStore) CopyPrefix(ctx context.Context, srcPrefix, dstPrefix string) error {
	iter := s.bucket.List(&blob.ListOptions{Prefix: srcPrefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "list blobs under %s", srcPrefix)
		}

		dstKey := dstPrefix + obj.Key[len(srcPrefix):]
		if err := s.bucket.Copy(ctx, dstKey, obj.Key, nil); err != nil {
			return errors.Wrapf(err, "copy blob %s to %s", obj.Key, dstKey)
		}
	}
}

// RemovePrefix deletes every object under the given prefix.
func (s *bucketStore) RemovePrefix(ctx context.Context, prefix string) error {
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "list blobs under %s", prefix)
		}

		if err := s.bucket.Delete(ctx, obj.Key); err != nil {
			return errors.Wrapf(err, "delete blob %s", obj.Key)
		}
	}
}
