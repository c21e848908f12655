package cli

import (
	"github.com/spf13/cobra"
)

// NewInstallReferrerCommand creates the install-referrer command group.
func NewInstallReferrerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install-referrer",
		Short: "Manage the install referrer reported in attribution signals",
	}
	cmd.AddCommand(newInstallReferrerShowCommand(rootOpts))
	cmd.AddCommand(newInstallReferrerSetCommand(rootOpts))
	return cmd
}

func newInstallReferrerShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the stored install referrer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			referrer, err := app.Store.InstallReferrer()
			if err != nil {
				return WrapExitError(ExitFailure, "reading install referrer", err)
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if referrer == "" {
				if err := out.Error("no install referrer set"); err != nil {
					return err
				}
				return &ExitError{Code: ExitFailure}
			}
			return out.Success(referrer)
		},
	}
}

func newInstallReferrerSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <referrer>",
		Short:         "Set the install referrer",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.SetInstallReferrer(args[0]); err != nil {
				return WrapExitError(ExitFailure, "persisting install referrer", err)
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(args[0])
		},
	}
}
