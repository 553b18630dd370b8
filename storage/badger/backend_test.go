package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/remedymatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false, nil)
	require.NoError(t, err)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := OpenBackend(path, false, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	err = backend.WithTx(func(tx *badger.Txn) error { return nil }, false)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestWithTx(t *testing.T) {
	backend, err := OpenBackend("", true, nil)
	require.NoError(t, err)
	defer backend.Close()

	key := []byte("k")

	t.Run("write commits", func(t *testing.T) {
		err := backend.WithTx(func(tx *badger.Txn) error {
			return tx.Set(key, []byte("v1"))
		}, true)
		require.NoError(t, err)

		err = backend.WithTx(func(tx *badger.Txn) error {
			item, err := tx.Get(key)
			require.NoError(t, err)
			val, err := item.ValueCopy(nil)
			require.NoError(t, err)
			assert.Equal(t, "v1", string(val))
			return nil
		}, false)
		require.NoError(t, err)
	})

	t.Run("error discards", func(t *testing.T) {
		err := backend.WithTx(func(tx *badger.Txn) error {
			require.NoError(t, tx.Set(key, []byte("v2")))
			return assert.AnError
		}, true)
		assert.Equal(t, assert.AnError, err)

		_ = backend.WithTx(func(tx *badger.Txn) error {
			item, err := tx.Get(key)
			require.NoError(t, err)
			val, err := item.ValueCopy(nil)
			require.NoError(t, err)
			assert.Equal(t, "v1", string(val))
			return nil
		}, false)
	})
}

func TestRecordKeys(t *testing.T) {
	for _, pos := range []int{0, 1, 255, 256, 1 << 20} {
		pos2, ok := recordPosition(makeRecordKey(pos))
		assert.True(t, ok)
		assert.Equal(t, pos, pos2)
	}

	assert.Less(t, string(makeRecordKey(255)), string(makeRecordKey(256)), "keys sort in position order")

	_, ok := recordPosition([]byte(corpusMetaKey))
	assert.False(t, ok)
	_, ok = recordPosition([]byte("remrec:"))
	assert.False(t, ok)
}
