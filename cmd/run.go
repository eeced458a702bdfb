package cmd

import (
	"github.com/spf13/cobra"

	"rail-pipeline/internal/bootstrap"
	"rail-pipeline/internal/cliargs"
	"rail-pipeline/internal/compress"
	"rail-pipeline/internal/config"
	"rail-pipeline/internal/logger"
	"rail-pipeline/internal/state"
)

// runFlags is the fixed allow-list of tokens forwarded to the pipeline
// entrypoint. Anything else aborts before the environment is touched.
var runFlags = []string{
	"--analysis_only",
	"--dataset_only",
	"--skip_station_data",
	"--phase_1",
	"--phase_2",
}

const runUsage = `Usage: rail-pipeline run [--analysis_only] [--dataset_only] [--skip_station_data] [--phase_1] [--phase_2]`

// runCmd bootstraps the Python environment, invokes the analysis pipeline
// with the validated flags, and compresses the generated maps afterwards.
// Flag parsing is disabled: tokens go through the allow-list validator and
// are forwarded to the entrypoint verbatim.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Bootstrap the environment and run the analysis pipeline",

	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := cliargs.Validate(runFlags, runUsage, args)
		if err != nil {
			return err
		}
		if opts.ShowHelp {
			logger.Info("%s\n", runUsage)
			return nil
		}
		applyGlobals(opts)

		cfg := config.Load(configPath)
		st := state.Load(cfg.StateFile)

		b := bootstrap.New(cfg, st, dryRun)
		if err := b.EnsureEnv(); err != nil {
			return err
		}
		// Save what setup achieved even if the pipeline itself fails later.
		if !dryRun {
			state.Save(cfg.StateFile, st)
		}

		if err := b.RunPipeline(opts.Flags); err != nil {
			return err
		}

		n, err := compress.Maps(cfg.MapsDir(), dryRun)
		if err != nil {
			return err
		}
		logger.Info("[INFO] Pipeline finished. Compressed %d map(s).\n", n)
		return nil
	},
}
