package kvstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	getErr error
	setErr error
}

func (f failingStore) Get(string) (string, error) { return "", f.getErr }
func (f failingStore) Set(string, string) error   { return f.setErr }
func (f failingStore) Delete(string) error        { return nil }

func TestMemory(t *testing.T) {
	m := NewMemory()

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set("k", "v"))
	v, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete("k"))
	_, err = m.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is fine
	assert.NoError(t, m.Delete("k"))
}

func TestLoadJSON(t *testing.T) {
	t.Run("missing key returns false without error", func(t *testing.T) {
		var dst []string
		found, err := LoadJSON(NewMemory(), "list", &dst)

		assert.False(t, found)
		assert.NoError(t, err)
		assert.Nil(t, dst)
	})

	t.Run("decodes stored value", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.Set("list", `["a","b"]`))

		var dst []string
		found, err := LoadJSON(m, "list", &dst)

		assert.True(t, found)
		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, dst)
	})

	t.Run("corrupt value returns StorageError", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, m.Set("list", `{not json`))

		var dst []string
		found, err := LoadJSON(m, "list", &dst)

		assert.False(t, found)
		var storageErr *StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.Equal(t, "list", storageErr.Key)
	})

	t.Run("read failure returns StorageError", func(t *testing.T) {
		boom := errors.New("disk on fire")

		var dst []string
		_, err := LoadJSON(failingStore{getErr: boom}, "list", &dst)

		var storageErr *StorageError
		require.ErrorAs(t, err, &storageErr)
		assert.ErrorIs(t, err, boom)
	})
}

func TestSaveJSON(t *testing.T) {
	t.Run("writes encoded value", func(t *testing.T) {
		m := NewMemory()
		require.NoError(t, SaveJSON(m, "list", []string{"x"}))

		v, err := m.Get("list")
		require.NoError(t, err)
		assert.Equal(t, `["x"]`, v)
	})

	t.Run("propagates write failure", func(t *testing.T) {
		boom := errors.New("read-only")
		err := SaveJSON(failingStore{setErr: boom}, "list", []string{"x"})
		assert.ErrorIs(t, err, boom)
	})
}
