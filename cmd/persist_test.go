package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDataset() *Dataset {
	return &Dataset{
		ID:          "11111111-2222-3333-4444-555555555555",
		Data:        [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}},
		SampleShape: []int{2, 2},
		Target:      [][]float32{{1, 0}, {1, 0}, {0, 1}},
		TargetNames: []string{"cat", "dog"},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.gobz")
	ds := sampleDataset()

	require.NoError(t, SaveDataset(ds, path))

	loaded, err := LoadDataset(path)
	require.NoError(t, err)
	require.Equal(t, ds, loaded)
}

func TestSaveSuffixCheckIgnoresCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DATASET.GOBZ")

	require.NoError(t, SaveDataset(sampleDataset(), path))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestSaveRefusesOtherSuffixWithoutError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, SaveDataset(sampleDataset(), path))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestSaveWithoutDatasetIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.gobz")

	require.NoError(t, SaveDataset(nil, path))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestLoadMissingArchive(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.gobz"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotFound))
}
