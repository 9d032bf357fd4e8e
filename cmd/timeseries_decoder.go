package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/weaviate/hdf5"
)

// TimeSeriesDecoder reads HDF5 measurement files holding one 2D numeric
// table (rows × channels). Each file is transposed so channels come first,
// flattened channel by channel into a single 1D array, and then cut down to
// one window chosen by the anchor key.
type TimeSeriesDecoder struct {
	tableName  string
	sliceCount int
	sliceKey   string
}

func NewTimeSeriesDecoder(tableName string, sliceCount int, sliceKey string) *TimeSeriesDecoder {
	return &TimeSeriesDecoder{
		tableName:  tableName,
		sliceCount: sliceCount,
		sliceKey:   sliceKey,
	}
}

func (d *TimeSeriesDecoder) Decode(paths []string) ([][]float32, []int, error) {
	data := make([][]float32, 0, len(paths))
	var shape []int

	for _, path := range paths {
		table, err := readTable(path, d.tableName)
		if err != nil {
			return nil, nil, err
		}

		window, err := sliceWindow(transposeFlatten(table), d.sliceKey, d.sliceCount)
		if err != nil {
			return nil, nil, err
		}

		if shape == nil {
			shape = []int{len(window)}
		} else if len(window) != shape[0] {
			return nil, nil, errors.Wrapf(ErrDecode,
				"window length %d from %s does not match earlier length %d",
				len(window), path, shape[0])
		}

		data = append(data, window)
	}

	return data, shape, nil
}

// readTable loads one 2D dataset from an HDF5 file as rows of float32.
func readTable(path, name string) ([][]float32, error) {
	file, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "opening %s: %v", path, err)
	}
	defer file.Close()

	dataset, err := file.OpenDataset(name)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "opening dataset %q in %s: %v", name, path, err)
	}
	defer dataset.Close()

	dataspace := dataset.Space()
	dims, _, err := dataspace.SimpleExtentDims()
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "reading extent of %s: %v", path, err)
	}
	if len(dims) != 2 {
		return nil, errors.Wrapf(ErrDecode, "dataset %q in %s has %d dimensions, expected 2",
			name, path, len(dims))
	}

	rows := int(dims[0])
	channels := int(dims[1])

	byteSize, err := tableByteSize(dataset)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%s: %v", path, err)
	}

	if byteSize == 4 {
		raw := make([]float32, rows*channels)
		if err := dataset.Read(&raw); err != nil {
			return nil, errors.Wrapf(ErrDecode, "reading %s: %v", path, err)
		}
		return asRows(raw, channels, rows), nil
	}

	raw := make([]float64, rows*channels)
	if err := dataset.Read(&raw); err != nil {
		return nil, errors.Wrapf(ErrDecode, "reading %s: %v", path, err)
	}
	return asRows(raw, channels, rows), nil
}

func tableByteSize(dataset *hdf5.Dataset) (uint, error) {
	datatype, err := dataset.Datatype()
	if err != nil {
		return 0, errors.Errorf("unable to read datatype: %v", err)
	}

	byteSize := datatype.Size()
	if byteSize != 4 && byteSize != 8 {
		return 0, errors.Errorf("unable to load a table with byte size %d", byteSize)
	}
	return byteSize, nil
}

func asRows[D float32 | float64](input []D, channels int, rows int) [][]float32 {
	table := make([][]float32, rows)
	for i := range table {
		table[i] = make([]float32, channels)
		for j := 0; j < channels; j++ {
			table[i][j] = float32(input[i*channels+j])
		}
	}
	return table
}

// transposeFlatten concatenates the table channel by channel: all of channel
// one, then all of channel two, and so on. Channels are never interleaved.
func transposeFlatten(table [][]float32) []float32 {
	if len(table) == 0 {
		return nil
	}

	rows := len(table)
	channels := len(table[0])

	flat := make([]float32, 0, rows*channels)
	for c := 0; c < channels; c++ {
		for r := 0; r < rows; r++ {
			flat = append(flat, table[r][c])
		}
	}
	return flat
}

// sliceWindow cuts one contiguous window of length number out of arr,
// anchored by key: the named policies all, head, middle and tail, or any
// integer as an explicit start offset. The all policy stops at total-1 and
// ignores number entirely; that historical bound excludes the last element
// and is kept as-is.
func sliceWindow(arr []float32, key string, number int) ([]float32, error) {
	total := len(arr)
	if total <= number {
		return nil, errors.Wrapf(ErrConfig,
			"the specified number of data (%d) is not below the total number of data (%d)",
			number, total)
	}

	var start, stop int
	switch key {
	case "all":
		start, stop = 0, total-1
	case "head":
		start, stop = 0, number
	case "middle":
		start = total / 2
		stop = start + number
	case "tail":
		stop = total - 1
		start = stop - number
	default:
		offset, err := strconv.Atoi(key)
		if err != nil {
			return nil, errors.Wrapf(ErrConfig,
				"anchor key %q is neither a named policy nor an integer offset", key)
		}
		start, stop = offset, offset+number
	}

	// Bounds follow slice-index conventions: negative positions count back
	// from the end, and windows past either end are clipped, not rejected.
	start = normalizeBound(start, total)
	stop = normalizeBound(stop, total)
	if start > stop {
		start = stop
	}

	return arr[start:stop], nil
}

func normalizeBound(pos, total int) int {
	if pos < 0 {
		pos += total
	}
	if pos < 0 {
		return 0
	}
	if pos > total {
		return total
	}
	return pos
}
