package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/linkback/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <application-id>",
		Short: "Write a scaffold config file",
		Long: `Write a scaffold config file for the given application id.

The file is created at the --config path and is never overwritten.

Example:
  linkback init app-1234abcd --config linkback.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Write(rootOpts.ConfigPath, config.Default(args[0])); err != nil {
				return WrapExitError(ExitCommandError, "writing config", err)
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(fmt.Sprintf("wrote %s", rootOpts.ConfigPath))
		},
	}
	return cmd
}
