package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rail-pipeline/internal/cliargs"
	"rail-pipeline/internal/logger"
)

// debug indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// dryRun makes destructive and remote operations print what they would do
// instead of doing it. Toggled via the `--dry-run` command-line flag.
var dryRun bool

// configPath holds the path to the pipeline configuration YAML file.
var configPath string

// rootCmd is the base command for the CLI tool `rail-pipeline`.
// It sets up the root-level CLI structure and provides global flags.
var rootCmd = &cobra.Command{
	Use:   "rail-pipeline",
	Short: "Orchestrates the housing / train-station analysis pipeline",

	// PersistentPreRun is a hook that runs before any subcommand.
	// Here, we initialize the logger based on the debug flag. Commands that
	// disable flag parsing re-init after validating their own tokens.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},

	// Errors are reported once, by Execute, with a controlled exit code.
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute initializes flags, registers subcommands, and starts the command
// execution. It's the entry point for the CLI when invoked by the user.
// Validation failures exit with the code carried by the error; everything
// else that fails exits 1.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print destructive/remote operations instead of performing them")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to pipeline configuration file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(compressCmd)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *cliargs.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		logger.Error("[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// applyGlobals folds globals recognized by the token validator back into the
// root-level settings, for the commands that parse their own arguments.
func applyGlobals(opts cliargs.Options) {
	if opts.Debug {
		debug = true
		logger.Init(true)
	}
	if opts.DryRun {
		dryRun = true
	}
	if opts.ConfigPath != "" {
		configPath = opts.ConfigPath
	}
}
