package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte(`[1,2,3]`)
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'x'

	got, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[1,2,3]`, string(got))
	assert.Equal(t, []string{"k"}, store.Keys())
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")

	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, found, err := store.Get(ctx, "oden-pos-v4-ing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "oden-pos-v4-ing", []byte(`{"a":1}`)))
	require.NoError(t, store.Set(ctx, "oden-pos-v4-ing", []byte(`{"a":2}`)))

	got, found, err := store.Get(ctx, "oden-pos-v4-ing")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"a":2}`, string(got))

	_, err = os.Stat(filepath.Join(dir, "oden-pos-v4-ing.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file must not survive a write")
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set(context.Background(), "../escape", []byte("x")))
	_, _, err = store.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}

func TestMemoryStoreSetAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.SetAll(ctx, []Entry{{Key: "a", Value: []byte("1")}, {Key: "b", Value: []byte("2")}}))

	got, found, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2", string(got))
}

func TestFileStoreSetAllIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.SetAll(ctx, []Entry{
		{Key: "ing", Value: []byte("old-ing")},
		{Key: "logs", Value: []byte("old-logs")},
	}))

	require.NoError(t, os.Mkdir(filepath.Join(dir, "logs.json.tmp"), 0o755))

	err = store.SetAll(ctx, []Entry{
		{Key: "ing", Value: []byte("new-ing")},
		{Key: "logs", Value: []byte("new-logs")},
	})
	require.Error(t, err)

	got, _, err := store.Get(ctx, "ing")
	require.NoError(t, err)
	assert.Equal(t, "old-ing", string(got))

	_, err = os.Stat(filepath.Join(dir, "ing.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreSetAllValidatesKeysFirst(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	err = store.SetAll(ctx, []Entry{{Key: "ok", Value: []byte("x")}, {Key: "../bad", Value: []byte("y")}})
	require.Error(t, err)

	_, found, err := store.Get(ctx, "ok")
	require.NoError(t, err)
	assert.False(t, found)
}
