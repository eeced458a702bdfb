package cmd

import (
	"github.com/spf13/cobra"

	"rail-pipeline/internal/config"
	"rail-pipeline/internal/publish"
)

// publishCmd copies result artifacts to the configured cloud VM and
// mirror-syncs them into the web root. It refuses to make any remote call
// while the deployment environment is incomplete or a local artifact is
// missing.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Copy result artifacts to the cloud VM web root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(configPath)

		env, err := config.LoadDeployEnv(cfg.EnvFile)
		if err != nil {
			return err
		}

		return publish.New(env, cfg.Publish, dryRun).Run()
	},
}
