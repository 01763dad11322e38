package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"tradeport/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func newMemStore(t *testing.T) service.BlobStore {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	return NewBucketStore(bucket)
}

func TestBucketStore_WriteRead(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "documents/users/acme/image.png", strings.NewReader("png-bytes"), "image/png"))

	r, err := store.Read(ctx, "documents/users/acme/image.png")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestBucketStore_ReadMissing(t *testing.T) {
	store := newMemStore(t)

	_, err := store.Read(context.Background(), "documents/nothing/here.pdf")
	assert.ErrorIs(t, err, service.ErrBlobNotFound)
}

func TestBucketStore_Exists(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "documents/traders/Globex")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Write(ctx, "documents/traders/Globex/note.txt", strings.NewReader("x"), "text/plain"))

	ok, err = store.Exists(ctx, "documents/traders/Globex")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBucketStore_CopyPrefix(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	src := "documents/manufacturers/acme/products/Aspirin"
	dst := "documents/manufacturers/acme/products/aspirin-v2"
	require.NoError(t, store.Write(ctx, src+"/coa.pdf", strings.NewReader("coa"), "application/pdf"))
	require.NoError(t, store.Write(ctx, src+"/msds.pdf", strings.NewReader("msds"), "application/pdf"))

	require.NoError(t, store.CopyPrefix(ctx, src, dst))

	for _, name := range []string{"/coa.pdf", "/msds.pdf"} {
		r, err := store.Read(ctx, dst+name)
		require.NoError(t, err, "copied object %s must exist", name)
		_ = r.Close()

		// Originals stay put; removal is a separate step.
		r, err = store.Read(ctx, src+name)
		require.NoError(t, err)
		_ = r.Close()
	}
}

func TestBucketStore_RemovePrefix(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	prefix := "documents/traders/Globex"
	require.NoError(t, store.Write(ctx, prefix+"/a.txt", strings.NewReader("a"), "text/plain"))
	require.NoError(t, store.Write(ctx, prefix+"/b.txt", strings.NewReader("b"), "text/plain"))
	require.NoError(t, store.Write(ctx, "documents/traders/Other/c.txt", strings.NewReader("c"), "text/plain"))

	require.NoError(t, store.RemovePrefix(ctx, prefix))

	ok, err := store.Exists(ctx, prefix)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Exists(ctx, "documents/traders/Other")
	require.NoError(t, err)
	assert.True(t, ok, "siblings outside the prefix are untouched")
}
