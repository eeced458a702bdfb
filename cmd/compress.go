package cmd

import (
	"github.com/spf13/cobra"

	"rail-pipeline/internal/compress"
	"rail-pipeline/internal/config"
	"rail-pipeline/internal/logger"
)

// compressCmd runs the map compression pass on its own, the same pass that
// normally runs at the tail of `run`.
var compressCmd = &cobra.Command{
	Use:   "compress",
	Short: "Gzip the generated HTML maps, clearing stale archives first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(configPath)

		n, err := compress.Maps(cfg.MapsDir(), dryRun)
		if err != nil {
			return err
		}
		logger.Info("[INFO] Compressed %d map(s).\n", n)
		return nil
	},
}
