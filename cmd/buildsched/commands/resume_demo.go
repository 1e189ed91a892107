package commands

import "github.com/spf13/cobra"

func (c *CLI) newResumeDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume-demo",
		Short: "Run a single transform that suspends on the thread pool and resumes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := c.app.ResumeDemo(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Println("build status:", status)
			return nil
		},
	}
}
