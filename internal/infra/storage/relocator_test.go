package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"tradeport/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestRelocator(t *testing.T, store service.BlobStore) *asyncRelocator {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	relocator := newAsyncRelocator(store, logger, 1, 16)
	relocator.start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = relocator.stop(ctx)
	})

	return relocator
}

// waitFor polls until the condition holds or the deadline passes. The worker
// is asynchronous, so assertions on its effects have to wait.
func waitFor(t *testing.T, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestAsyncRelocator_RelocateMovesSubtree(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()
	src := "documents/manufacturers/acme/products/Aspirin"
	dst := "documents/manufacturers/acme/products/aspirin-v2"
	require.NoError(t, store.Write(ctx, src+"/coa.pdf", strings.NewReader("coa"), "application/pdf"))

	relocator := startTestRelocator(t, store)
	relocator.Relocate(src, dst)

	waitFor(t, func() bool {
		ok, err := store.Exists(ctx, dst)

		return err == nil && ok
	})

	waitFor(t, func() bool {
		ok, err := store.Exists(ctx, src)

		return err == nil && !ok
	})

	r, err := store.Read(ctx, dst+"/coa.pdf")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "coa", string(data))
}

func TestAsyncRelocator_RemoveDeletesSubtree(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()
	prefix := "documents/traders/Globex"
	require.NoError(t, store.Write(ctx, prefix+"/note.txt", strings.NewReader("x"), "text/plain"))

	relocator := startTestRelocator(t, store)
	relocator.Remove(prefix)

	waitFor(t, func() bool {
		ok, err := store.Exists(ctx, prefix)

		return err == nil && !ok
	})
}

func TestAsyncRelocator_StopDrainsQueue(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()
	require.NoError(t, store.Write(ctx, "documents/traders/Globex/note.txt", strings.NewReader("x"), "text/plain"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	relocator := newAsyncRelocator(store, logger, 1, 16)
	relocator.start()
	relocator.Remove("documents/traders/Globex")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, relocator.stop(stopCtx))

	ok, err := store.Exists(ctx, "documents/traders/Globex")
	require.NoError(t, err)
	assert.False(t, ok, "queued jobs finish before shutdown completes")
}

func TestAsyncRelocator_FullQueueDropsJob(t *testing.T) {
	store := newMemStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Never started: nothing consumes the single-slot queue.
	relocator := newAsyncRelocator(store, logger, 0, 1)
	relocator.Remove("documents/one")
	relocator.Remove("documents/two") // dropped, must not block

	assert.Len(t, relocator.jobs, 1)
}
