package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Dataset is an immutable snapshot of decoded samples and their labels.
// Samples live in Data as contiguous row-major float32 buffers that all
// share SampleShape. Target holds one one-hot row per sample; after the
// loader's de-one-hot transform the rows move to Labels as plain class
// indices and Target is nil. TargetNames[i] names the class owning one-hot
// position i.
type Dataset struct {
	ID          string
	Data        [][]float32
	SampleShape []int
	Target      [][]float32
	Labels      []int
	TargetNames []string
}

func (d *Dataset) Len() int {
	return len(d.Data)
}

// TargetLen is the number of label entries under the current representation.
func (d *Dataset) TargetLen() int {
	if d.Target != nil {
		return len(d.Target)
	}
	return len(d.Labels)
}

// BuildDataset walks the immediate subdirectories of srcDir, treating each
// as one class, decodes the matching files per class through ctx, and
// assembles the samples with one-hot labels into a fresh snapshot.
// Any decode failure aborts the whole build.
func BuildDataset(ctx *DecoderContext, srcDir string) (*Dataset, error) {
	info, err := os.Stat(srcDir)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrNotFound, "the source data directory %q does not exist", srcDir)
	}

	dirs, err := classDirs(srcDir)
	if err != nil {
		return nil, err
	}

	targetNames := make([]string, len(dirs))
	for i, dir := range dirs {
		targetNames[i] = filepath.Base(dir)
	}

	labelNum := len(targetNames)
	ext := ctx.FileExtension()

	var data [][]float32
	var target [][]float32
	var sampleShape []int

	for i, dir := range dirs {
		paths, err := classFiles(dir, ext)
		if err != nil {
			return nil, err
		}

		arrays, shape, err := ctx.Decode(paths)
		if err != nil {
			return nil, err
		}

		if len(arrays) > 0 {
			if sampleShape == nil {
				sampleShape = shape
			} else if !shapeEqual(sampleShape, shape) {
				return nil, errors.Wrapf(ErrDecode,
					"class %q decoded to shape %v, expected %v", targetNames[i], shape, sampleShape)
			}
		}

		data = append(data, arrays...)
		for range arrays {
			target = append(target, oneHot(labelNum, i))
		}
	}

	return &Dataset{
		ID:          uuid.New().String(),
		Data:        data,
		SampleShape: sampleShape,
		Target:      target,
		TargetNames: targetNames,
	}, nil
}

// classDirs lists the immediate subdirectories of srcDir, sorted by name.
// The sort is on the name string, so directories named "2" and "10" come out
// in lexicographic order; that ordering is deliberate and relied upon by
// existing archives. Without any subdirectory the source directory itself
// becomes the single class.
func classDirs(srcDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", srcDir)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(srcDir, entry.Name()))
		}
	}

	if len(dirs) == 0 {
		log.WithFields(log.Fields{"dir": srcDir}).Warnf(
			"There is no classified directory in %q, treating it as a single class", srcDir)
		dirs = []string{srcDir}
	}

	sort.Slice(dirs, func(a, b int) bool {
		return filepath.Base(dirs[a]) < filepath.Base(dirs[b])
	})

	return dirs, nil
}

// classFiles lists the files in dir carrying the extension, sorted by name.
// The suffix match is case-sensitive.
func classFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), "."+ext) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(paths)

	return paths, nil
}

func oneHot(length, index int) []float32 {
	row := make([]float32, length)
	row[index] = 1
	return row
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
