package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV(t *testing.T) {
	fileKV, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	stores := map[string]KV{
		"memory": NewMemoryKV(),
		"file":   fileKV,
	}

	for name, kv := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := kv.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, kv.Set(ctx, "clinic_appointments", []byte(`[]`)))
			got, err := kv.Get(ctx, "clinic_appointments")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))

			require.NoError(t, kv.Set(ctx, "clinic_appointments", []byte(`[{"id":"1"}]`)))
			got, err = kv.Get(ctx, "clinic_appointments")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"1"}]`, string(got))

			require.NoError(t, kv.Delete(ctx, "clinic_appointments"))
			_, err = kv.Get(ctx, "clinic_appointments")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			assert.NoError(t, kv.Delete(ctx, "clinic_appointments"), "deleting a missing key is fine")
			assert.NoError(t, kv.Ping(ctx))
		})
	}
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	value := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestFileKV_SanitisesKeys(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, kv.Set(context.Background(), "../clinic/appointments", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".._clinic_appointments.json", entries[0].Name())

	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "clinic"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileKV_PingMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	kv, err := NewFileKV(dir)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, kv.Ping(context.Background()))
}
