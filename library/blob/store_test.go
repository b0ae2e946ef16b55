package blob

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestStoreRoundTrip verifies a stored payload reads back bit-for-bit.
// It accepts no parameters besides the testing handle and asserts on byte equality.
func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(afero.NewMemMapFs(), "/data/files")
	require.NoError(t, err)

	payload := []byte("Hello Webstack!\x00\x01\x02")
	path, err := store.Put(payload)
	require.NoError(t, err)
	require.Contains(t, path, "/data/files/")

	got, err := store.Get(path)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

// TestStorePutUniqueNames verifies consecutive writes never collide.
// It accepts no parameters besides the testing handle and asserts on path uniqueness.
func TestStorePutUniqueNames(t *testing.T) {
	store, err := NewStore(afero.NewMemMapFs(), "/data/files")
	require.NoError(t, err)

	p1, err := store.Put([]byte("a"))
	require.NoError(t, err)
	p2, err := store.Put([]byte("a"))
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)
}

// TestStoreMissingBlob verifies absent payloads surface ErrBlobNotFound.
// It accepts no parameters besides the testing handle and asserts on the sentinel error.
func TestStoreMissingBlob(t *testing.T) {
	store, err := NewStore(afero.NewMemMapFs(), "/data/files")
	require.NoError(t, err)

	_, err = store.Get("/data/files/no-such-blob")
	require.ErrorIs(t, err, ErrBlobNotFound)

	_, err = store.GetRendition("/data/files/no-such-blob", 100)
	require.ErrorIs(t, err, ErrBlobNotFound)
}

// TestRenditionPath verifies the derived blob naming scheme.
// It accepts no parameters besides the testing handle and asserts on the suffix format.
func TestRenditionPath(t *testing.T) {
	require.Equal(t, "/data/files/abc_250", RenditionPath("/data/files/abc", 250))
}

// TestRenditionRoundTrip verifies renditions are stored alongside the original.
// It accepts no parameters besides the testing handle and asserts on payload equality.
func TestRenditionRoundTrip(t *testing.T) {
	store, err := NewStore(afero.NewMemMapFs(), "/data/files")
	require.NoError(t, err)

	path, err := store.Put([]byte("original"))
	require.NoError(t, err)

	require.NoError(t, store.PutRendition(path, 100, []byte("small")))
	got, err := store.GetRendition(path, 100)
	require.NoError(t, err)
	require.Equal(t, []byte("small"), got)

	_, err = store.GetRendition(path, 500)
	require.ErrorIs(t, err, ErrBlobNotFound)
}
