package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/buildsched/internal/engine/scheduler"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Evaluate the build manifest in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			validate, _ := cmd.Flags().GetBool("validate")
			local, _ := cmd.Flags().GetBool("local")
			noReplicate, _ := cmd.Flags().GetBool("no-replicate")
			only, _ := cmd.Flags().GetStringSlice("only")

			cwd, err := os.Getwd()
			if err != nil {
				return err
			}

			cfg := scheduler.BuildSchedulerConfig{
				Validate:           validate,
				OnlyExecuteOutputs: only,
				NoReplicate:        noReplicate,
				Local:              local,
			}

			status, err := c.app.Build(cmd.Context(), cwd, cfg)
			if err != nil {
				return err
			}
			cmd.Println("build status:", status)
			return nil
		},
	}

	cmd.Flags().Bool("validate", false, "force re-evaluation of matching outputs")
	cmd.Flags().Bool("local", false, "force every transform onto the local substrate")
	cmd.Flags().Bool("no-replicate", false, "skip replicating flagged outputs to disk")
	cmd.Flags().StringSlice("only", nil, "restrict execution to outputs matching these substrings")

	return cmd
}
