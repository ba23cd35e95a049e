package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("zlp_results.csv", []byte("Rank,Day\n1,M\n"))
	require.NoError(t, err)
	require.Equal(t, "zlp_results.csv", name)

	file, err := store.Open(name)
	require.NoError(t, err)
	data, err := os.ReadFile(file.Name())
	require.NoError(t, file.Close())
	require.NoError(t, err)
	require.Equal(t, "Rank,Day\n1,M\n", string(data))

	require.NoError(t, store.Delete(name))
	_, err = store.Open(name)
	require.Error(t, err)

	require.NoError(t, store.Delete("never-existed.csv"))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("stale.xlsx", []byte("old"))
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "stale.xlsx"), past, past))

	_, err = store.Save("fresh.xlsx", []byte("new"))
	require.NoError(t, err)

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	require.Equal(t, []string{"stale.xlsx"}, deleted)

	_, err = store.Open("fresh.xlsx")
	require.NoError(t, err)
}
