package service

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned when no object lives under the requested key.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is a key-value blob store with path-like keys. Directory-like
// operations act on every object under a prefix.
type BlobStore interface {
	// Write stores the content under key, replacing any existing object.
	Write(ctx context.Context, key string, r io.Reader, contentType string) error

	// Read opens the object stored under key.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether any object lives under the given prefix.
	Exists(ctx context.Context, prefix string) (bool, error)

	// CopyPrefix copies every object under srcPrefix to the corresponding
	// key under dstPrefix.
	CopyPrefix(ctx context.Context, srcPrefix, dstPrefix string) error

	// RemovePrefix deletes every object under the given prefix.
	RemovePrefix(ctx context.Context, prefix string) error
}

// BlobRelocator dispatches blob housekeeping decoupled from entity
// transactions. Calls return immediately; jobs run in the background with
// their own retry policy, and failures are logged, never surfaced.
type BlobRelocator interface {
	// Relocate moves every object under srcPrefix to dstPrefix.
	Relocate(srcPrefix, dstPrefix string)

	// Remove deletes every object under the given prefix.
	Remove(prefix string)
}
