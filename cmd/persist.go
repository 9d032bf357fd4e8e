package cmd

import (
	"encoding/gob"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const archiveSuffix = ".gobz"

// Moderate level, chosen for the speed/size tradeoff on float buffers.
const archiveCompression = 3

// SaveDataset writes one snapshot to a gzip-compressed gob archive. A file
// name without the archive suffix, or a dataset that was never built, is a
// designed no-op: a warning is logged and nothing is written.
func SaveDataset(ds *Dataset, path string) error {
	if !strings.HasSuffix(strings.ToLower(path), archiveSuffix) {
		log.WithFields(log.Fields{"file": path}).Warnf(
			"The extension of the saved file should be *%s, not saving", archiveSuffix)
		return nil
	}

	if ds == nil {
		log.Warn("data set is empty, nothing to save")
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating archive %s", path)
	}

	zw, err := gzip.NewWriterLevel(file, archiveCompression)
	if err != nil {
		file.Close()
		return errors.Wrapf(err, "opening gzip writer for %s", path)
	}

	if err := gob.NewEncoder(zw).Encode(ds); err != nil {
		zw.Close()
		file.Close()
		return errors.Wrapf(err, "encoding dataset into %s", path)
	}

	if err := zw.Close(); err != nil {
		file.Close()
		return errors.Wrapf(err, "flushing archive %s", path)
	}

	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "closing archive %s", path)
	}

	return nil
}

// LoadDataset reads a snapshot back from an archive written by SaveDataset.
// The decoded value is returned as-is, without re-checking its invariants.
func LoadDataset(path string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(ErrNotFound, "%s does not exist", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", path)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading archive %s", path)
	}
	defer zr.Close()

	var ds Dataset
	if err := gob.NewDecoder(zr).Decode(&ds); err != nil {
		return nil, errors.Wrapf(err, "decoding archive %s", path)
	}

	return &ds, nil
}
