package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Reload a dataset archive and report its contents",
	Long: `Load a saved dataset archive, optionally apply the read transformations
(flatten, label conversion, subsampling, deterministic shuffle), and report
the resulting snapshot`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := globalConfig
		cfg.Mode = "inspect"

		if err := cfg.Validate(); err != nil {
			fatal(err)
		}

		loader, err := NewDatasetLoader(cfg.ArchiveFile)
		if err != nil {
			fatal(err)
		}

		ds, err := loader.Read(ReadOptions{
			Flatten:    cfg.Flatten,
			Labels:     cfg.Labels,
			Shuffle:    cfg.Shuffle,
			SampleSize: cfg.SampleSize,
		})
		if err != nil {
			fatal(err)
		}
		if ds == nil {
			return
		}

		log.WithFields(log.Fields{"id": ds.ID, "samples": ds.Len(),
			"shape": ds.SampleShape, "classes": ds.TargetNames}).Info("Dataset loaded")

		for name, count := range countByClass(ds) {
			log.WithFields(log.Fields{"class": name, "samples": count}).Info("Class size")
		}
	},
}

func initInspect() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.PersistentFlags().StringVarP(&globalConfig.ArchiveFile,
		"file", "f", "dataset"+archiveSuffix, "The dataset archive to load")
	inspectCmd.PersistentFlags().BoolVar(&globalConfig.Flatten,
		"flatten", false, "Flatten every sample to one dimension")
	inspectCmd.PersistentFlags().BoolVar(&globalConfig.Labels,
		"labels", false, "Report class indices instead of one-hot targets")
	inspectCmd.PersistentFlags().BoolVar(&globalConfig.Shuffle,
		"shuffle", false, "Shuffle samples and targets jointly (fixed seed)")
	inspectCmd.PersistentFlags().IntVar(&globalConfig.SampleSize,
		"sample", 0, "Subsample down to this many samples (0 keeps all)")
}

func countByClass(ds *Dataset) map[string]int {
	counts := make(map[string]int)

	if ds.Labels != nil {
		for _, label := range ds.Labels {
			counts[ds.TargetNames[label]]++
		}
		return counts
	}

	for _, label := range argmaxRows(ds.Target) {
		counts[ds.TargetNames[label]]++
	}
	return counts
}
