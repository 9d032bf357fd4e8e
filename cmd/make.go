package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var makeCmd = &cobra.Command{
	Use:   "make",
	Short: "Build a labeled dataset from a classified directory tree",
	Long: `Walk the immediate subdirectories of the source directory, decode the
sample files in each one (the subdirectory name is the class label), and save
the assembled dataset as a compressed archive`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := globalConfig
		cfg.Mode = "make"

		if err := cfg.Validate(); err != nil {
			fatal(err)
		}

		decoder, err := newDecoder(cfg)
		if err != nil {
			fatal(err)
		}

		ctx := NewDecoderContext(decoder, cfg.Extension)

		ds, err := BuildDataset(ctx, cfg.SourceDir)
		if err != nil {
			fatal(err)
		}

		log.WithFields(log.Fields{"samples": ds.Len(), "classes": len(ds.TargetNames),
			"shape": ds.SampleShape}).Info("Dataset built")

		if err := SaveDataset(ds, cfg.OutputFile); err != nil {
			fatal(err)
		}

		// Read the archive back so a broken save surfaces immediately.
		loaded, err := LoadDataset(cfg.OutputFile)
		if err != nil {
			log.WithFields(log.Fields{"file": cfg.OutputFile}).Warnf(
				"Could not verify the saved archive: %v", err)
			return
		}

		log.WithFields(log.Fields{"file": cfg.OutputFile, "id": loaded.ID,
			"samples": loaded.Len(), "classes": loaded.TargetNames}).Info("Archive verified")
	},
}

func initMake() {
	rootCmd.AddCommand(makeCmd)
	makeCmd.PersistentFlags().StringVarP(&globalConfig.SourceDir,
		"input", "i", "", "Path of the original data directory, e.g. ./data_src")
	makeCmd.PersistentFlags().StringVarP(&globalConfig.OutputFile,
		"output", "o", "dataset"+archiveSuffix, "File name to save the archive under")
	makeCmd.PersistentFlags().StringVarP(&globalConfig.Extension,
		"ext", "e", "jpg", "Extension of the original sample files, e.g. jpg")
	makeCmd.PersistentFlags().StringVarP(&globalConfig.DecoderName,
		"decoder", "d", "image", "Decoder for the sample files (image | timeseries)")
	makeCmd.PersistentFlags().IntVar(&globalConfig.ResizeWidth,
		"width", 160, "Width every image is resized to")
	makeCmd.PersistentFlags().IntVar(&globalConfig.ResizeHeight,
		"height", 90, "Height every image is resized to")
	makeCmd.PersistentFlags().Float64Var(&globalConfig.BlurRadius,
		"blur", 0, "Gaussian blur radius applied before resizing (0 disables)")
	makeCmd.PersistentFlags().BoolVar(&globalConfig.HSV,
		"hsv", false, "Convert images from RGB to HSV")
	makeCmd.PersistentFlags().IntVar(&globalConfig.SliceCount,
		"sliceCount", 0, "Number of values cut out of each timeseries file")
	makeCmd.PersistentFlags().StringVar(&globalConfig.SliceKey,
		"sliceKey", "all", "Anchor of the cut window (all | head | middle | tail | integer offset)")
	makeCmd.PersistentFlags().StringVar(&globalConfig.TableName,
		"tableName", "data", "Name of the 2D dataset inside each timeseries file")
}

func newDecoder(cfg Config) (Decoder, error) {
	switch cfg.DecoderName {
	case "image":
		return NewImageDecoder(cfg.ResizeWidth, cfg.ResizeHeight, cfg.BlurRadius, cfg.HSV), nil
	case "timeseries":
		return NewTimeSeriesDecoder(cfg.TableName, cfg.SliceCount, cfg.SliceKey), nil
	default:
		return nil, errors.Wrapf(ErrConfig, "unsupported decoder %q", cfg.DecoderName)
	}
}
