package cmd

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Fixed seed so shuffled reads reproduce across calls and processes.
const shuffleSeed = 0

// DatasetLoader holds one dataset loaded from an archive and serves
// transformed snapshots of it. The stored dataset is never mutated.
type DatasetLoader struct {
	ds *Dataset
}

func NewDatasetLoader(archiveFile string) (*DatasetLoader, error) {
	if archiveFile == "" {
		return nil, errors.Wrap(ErrConfig, "an archive file name must be provided")
	}

	ds, err := LoadDataset(archiveFile)
	if err != nil {
		return nil, err
	}

	return &DatasetLoader{ds: ds}, nil
}

// ReadOptions selects the transformations applied on a read. The zero value
// reproduces the stored dataset unchanged: one-hot targets, original shape,
// original order.
type ReadOptions struct {
	// Flatten reduces SampleShape to its one-dimensional form.
	Flatten bool
	// Labels replaces each one-hot target row with its class index.
	Labels bool
	// Shuffle permutes samples and targets jointly, deterministically.
	Shuffle bool
	// SampleSize picks that many samples uniformly without replacement,
	// keeping relative order. Zero skips the step.
	SampleSize int
}

// Read returns a new snapshot with the requested transformations applied in
// a fixed order: flatten, de-one-hot, subsample, shuffle.
func (l *DatasetLoader) Read(opts ReadOptions) (*Dataset, error) {
	if l.ds == nil {
		log.Warn("no data set is loaded")
		return nil, nil
	}

	out := l.ds.clone()

	if opts.Flatten {
		out.flatten()
	}

	if opts.Labels && out.Target != nil {
		out.Labels = argmaxRows(out.Target)
		out.Target = nil
	}

	if opts.SampleSize != 0 {
		if err := out.subsample(opts.SampleSize); err != nil {
			return nil, err
		}
	}

	if opts.Shuffle {
		rng := rand.New(rand.NewSource(shuffleSeed))
		out.selectIndices(rng.Perm(out.Len()))
	}

	return out, nil
}

func (d *Dataset) clone() *Dataset {
	out := &Dataset{
		ID:          d.ID,
		Data:        append([][]float32(nil), d.Data...),
		SampleShape: append([]int(nil), d.SampleShape...),
		TargetNames: append([]string(nil), d.TargetNames...),
	}
	if d.Target != nil {
		out.Target = append([][]float32(nil), d.Target...)
	}
	if d.Labels != nil {
		out.Labels = append([]int(nil), d.Labels...)
	}
	return out
}

// flatten only rewrites the shape: sample buffers are stored contiguously
// already, so the 1D view needs no data movement.
func (d *Dataset) flatten() {
	if len(d.SampleShape) == 0 {
		return
	}
	size := 1
	for _, dim := range d.SampleShape {
		size *= dim
	}
	d.SampleShape = []int{size}
}

// subsample keeps size samples chosen uniformly without replacement. The
// chosen indices are sorted ascending, so the surviving samples keep their
// relative order. It applies to whichever target representation is current.
func (d *Dataset) subsample(size int) error {
	n := d.Len()
	if size < 0 || size >= n {
		return errors.Wrapf(ErrConfig,
			"value of data size (%d) must be greater than the specified size (%d)", n, size)
	}

	indices := rand.Perm(n)[:size]
	sort.Ints(indices)
	d.selectIndices(indices)

	return nil
}

// selectIndices rewrites Data and the current target representation to the
// given index order. Sample-target pairing is never broken; TargetNames are
// left alone.
func (d *Dataset) selectIndices(indices []int) {
	data := make([][]float32, len(indices))
	for i, idx := range indices {
		data[i] = d.Data[idx]
	}
	d.Data = data

	if d.Target != nil {
		target := make([][]float32, len(indices))
		for i, idx := range indices {
			target[i] = d.Target[idx]
		}
		d.Target = target
	}

	if d.Labels != nil {
		labels := make([]int, len(indices))
		for i, idx := range indices {
			labels[i] = d.Labels[idx]
		}
		d.Labels = labels
	}
}

// argmaxRows maps each one-hot row to the index of its first maximum entry.
func argmaxRows(rows [][]float32) []int {
	out := make([]int, len(rows))
	for i, row := range rows {
		best := 0
		for j, v := range row {
			if v > row[best] {
				best = j
			}
		}
		out[i] = best
	}
	return out
}
