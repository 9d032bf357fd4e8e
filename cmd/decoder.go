package cmd

import (
	"github.com/pkg/errors"
)

var (
	// ErrNotFound covers missing source directories and missing archives.
	ErrNotFound = errors.New("not found")
	// ErrConfig covers bad parameters such as oversized sample requests or
	// slice windows exceeding the source length.
	ErrConfig = errors.New("invalid configuration")
	// ErrDecode covers files the chosen decoder cannot read.
	ErrDecode = errors.New("decode failed")
)

// Decoder converts a batch of sample files of a single format into numeric
// arrays. Each sample comes back as a contiguous row-major float32 buffer;
// shape describes the dimensions shared by every buffer in the batch. Output
// order matches input order.
type Decoder interface {
	Decode(paths []string) (data [][]float32, shape []int, err error)
}

// DecoderContext pairs a Decoder with the file extension it is responsible
// for. It holds no transformation logic of its own; it exists so the dataset
// assembler never touches concrete decoder types.
type DecoderContext struct {
	decoder Decoder
	fileExt string
}

func NewDecoderContext(decoder Decoder, fileExt string) *DecoderContext {
	return &DecoderContext{decoder: decoder, fileExt: fileExt}
}

func (c *DecoderContext) Decode(paths []string) ([][]float32, []int, error) {
	return c.decoder.Decode(paths)
}

func (c *DecoderContext) FileExtension() string {
	return c.fileExt
}
