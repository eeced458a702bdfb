package cmd

import (
	"github.com/spf13/cobra"

	"rail-pipeline/internal/cleaner"
	"rail-pipeline/internal/cliargs"
	"rail-pipeline/internal/config"
	"rail-pipeline/internal/logger"
)

// cleanFlags is the fixed allow-list of deletion categories.
var cleanFlags = []string{"-d", "-a", "-s", "-p1", "-p2"}

const cleanUsage = `Usage: rail-pipeline clean [-d] [-a] [-s] [-p1] [-p2]
  (no flags)  remove every file under the output root
  -d          main dataset files, keeping the station dataset
  -s          only the station dataset
  -a          all analysis output outside the data subtree
  -p1         phase 1 results
  -p2         phase 2 results`

// cleanCmd removes generated artifacts by category. Flags are cumulative and
// validated against the allow-list before anything is deleted; the first
// invalid token aborts with no files touched.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete generated output files by category",

	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := cliargs.Validate(cleanFlags, cleanUsage, args)
		if err != nil {
			return err
		}
		if opts.ShowHelp {
			logger.Info("%s\n", cleanUsage)
			return nil
		}
		applyGlobals(opts)

		cfg := config.Load(configPath)

		c := cleaner.New(cfg.OutputRoot, dryRun)
		n, err := c.Run(opts.Flags)
		if err != nil {
			return err
		}

		if dryRun {
			logger.Info("[DRY-RUN] %d file(s) would be removed.\n", n)
		} else {
			logger.Info("[INFO] Cleaning completed. Removed %d file(s).\n", n)
		}
		return nil
	},
}
