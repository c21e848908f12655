package cli

import (
	"github.com/spf13/cobra"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all persisted state for this application id",
		Long: `Delete all persisted state for this application id: session id,
referrer, install referrer and the deferred-check flag. State stored
under other application ids in the same database is untouched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.Clear(); err != nil {
				return WrapExitError(ExitFailure, "clearing state", err)
			}
			app.API.SetSessionID("")

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success("cleared")
		},
	}
}
