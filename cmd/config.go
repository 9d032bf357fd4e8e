package cmd

import (
	"github.com/pkg/errors"
)

type Config struct {
	Mode         string
	SourceDir    string
	OutputFile   string
	Extension    string
	DecoderName  string
	ResizeWidth  int
	ResizeHeight int
	BlurRadius   float64
	HSV          bool
	SliceCount   int
	SliceKey     string
	TableName    string
	ArchiveFile  string
	Flatten      bool
	Labels       bool
	Shuffle      bool
	SampleSize   int
}

func (c *Config) Validate() error {
	switch c.Mode {
	case "make":
		return c.validateMake()
	case "inspect":
		return c.validateInspect()
	default:
		return errors.Errorf("unrecognized mode %q", c.Mode)
	}
}

func (c Config) validateMake() error {
	if c.SourceDir == "" {
		return errors.Errorf("a source data directory must be provided")
	}

	if c.Extension == "" {
		return errors.Errorf("a sample file extension must be provided")
	}

	switch c.DecoderName {
	case "image":
		if c.ResizeWidth <= 0 || c.ResizeHeight <= 0 {
			return errors.Errorf("resize dimensions %dx%d must both be larger than 0",
				c.ResizeWidth, c.ResizeHeight)
		}
	case "timeseries":
		if c.SliceCount <= 0 {
			return errors.Errorf("sliceCount must be set and larger than 0")
		}
		if c.TableName == "" {
			return errors.Errorf("a table name must be provided for timeseries files")
		}
	default:
		return errors.Errorf("unsupported decoder %q, must be one of [image, timeseries]",
			c.DecoderName)
	}

	return nil
}

func (c Config) validateInspect() error {
	if c.ArchiveFile == "" {
		return errors.Errorf("an archive file must be provided")
	}

	return nil
}
