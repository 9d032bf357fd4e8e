package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weaviate/hdf5"
)

func sequence(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i)
	}
	return out
}

func sequence64(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestSliceWindow(t *testing.T) {
	arr := sequence(20)

	tests := []struct {
		name   string
		key    string
		number int
		want   []float32
	}{
		{
			name:   "head",
			key:    "head",
			number: 5,
			want:   []float32{0, 1, 2, 3, 4},
		},
		{
			name:   "middle",
			key:    "middle",
			number: 5,
			want:   []float32{10, 11, 12, 13, 14},
		},
		{
			// Window of 5 ending at index 18 inclusive.
			name:   "tail",
			key:    "tail",
			number: 5,
			want:   []float32{14, 15, 16, 17, 18},
		},
		{
			name:   "explicit offset",
			key:    "3",
			number: 5,
			want:   []float32{3, 4, 5, 6, 7},
		},
		{
			name:   "offset window clipped at the end",
			key:    "17",
			number: 5,
			want:   []float32{17, 18, 19},
		},
		{
			// Negative offsets count back from the end of the array.
			name:   "negative offset",
			key:    "-18",
			number: 5,
			want:   []float32{2, 3, 4, 5, 6},
		},
		{
			// The window end stays at offset+number, so a window anchored
			// close to the end comes out empty rather than wrapping around.
			name:   "negative offset near the end",
			key:    "-3",
			number: 5,
			want:   []float32{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := sliceWindow(arr, test.key, test.number)
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

// The all policy stops one short of the end. That bound predates this code
// and archives depend on it, so it is pinned here instead of corrected.
func TestSliceWindowAllExcludesLastElement(t *testing.T) {
	got, err := sliceWindow(sequence(20), "all", 5)
	require.NoError(t, err)
	require.Len(t, got, 19)
	require.Equal(t, float32(18), got[len(got)-1])
}

func TestSliceWindowErrors(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		number int
	}{
		{name: "number equals total", key: "head", number: 20},
		{name: "number above total", key: "head", number: 25},
		{name: "number above total even for all", key: "all", number: 25},
		{name: "unparseable anchor", key: "frog", number: 5},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := sliceWindow(sequence(20), test.key, test.number)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrConfig))
		})
	}
}

func TestTransposeFlatten(t *testing.T) {
	table := [][]float32{
		{1, 2},
		{3, 4},
		{5, 6},
	}

	// Channel one in full, then channel two. Never interleaved.
	require.Equal(t, []float32{1, 3, 5, 2, 4, 6}, transposeFlatten(table))
}

func writeTableFile(t *testing.T, path, name string, rows, channels int, values []float64) {
	t.Helper()

	file, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	require.NoError(t, err)
	defer file.Close()

	space, err := hdf5.CreateSimpleDataspace([]uint{uint(rows), uint(channels)}, nil)
	require.NoError(t, err)
	defer space.Close()

	dataset, err := file.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	require.NoError(t, err)
	defer dataset.Close()

	require.NoError(t, dataset.Write(&values))
}

func TestTimeSeriesDecoderDecode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.h5")

	// 4 rows x 2 channels; channel-concatenated order is 1,3,5,7,2,4,6,8.
	writeTableFile(t, path, "data", 4, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
		7, 8,
	})

	decoder := NewTimeSeriesDecoder("data", 5, "head")

	data, shape, err := decoder.Decode([]string{path})
	require.NoError(t, err)
	require.Equal(t, []int{5}, shape)
	require.Len(t, data, 1)
	require.Equal(t, []float32{1, 3, 5, 7, 2}, data[0])
}

// Two tables of different sizes under the all policy decode to windows of
// different lengths, which cannot share one sample shape.
func TestTimeSeriesDecoderMismatchedWindowLengths(t *testing.T) {
	dir := t.TempDir()
	long := filepath.Join(dir, "long.h5")
	short := filepath.Join(dir, "short.h5")
	writeTableFile(t, long, "data", 12, 1, sequence64(12))
	writeTableFile(t, short, "data", 10, 1, sequence64(10))

	decoder := NewTimeSeriesDecoder("data", 5, "all")

	_, _, err := decoder.Decode([]string{long, short})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDecode))
}

func TestTimeSeriesDecoderMissingTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.h5")
	writeTableFile(t, path, "data", 4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})

	decoder := NewTimeSeriesDecoder("measurements", 5, "head")

	_, _, err := decoder.Decode([]string{path})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDecode))
}

func TestTimeSeriesDecoderMissingFile(t *testing.T) {
	decoder := NewTimeSeriesDecoder("data", 5, "head")

	_, _, err := decoder.Decode([]string{filepath.Join(t.TempDir(), "nope.h5")})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDecode))
}
