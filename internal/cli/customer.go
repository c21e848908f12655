package cli

import (
	"github.com/spf13/cobra"
)

// NewCustomerCommand creates the customer command group.
func NewCustomerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Associate or dissociate your customer id with the session",
	}
	cmd.AddCommand(newCustomerSetCommand(rootOpts))
	cmd.AddCommand(newCustomerClearCommand(rootOpts))
	return cmd
}

func newCustomerSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <customer-id>",
		Short:         "Associate a customer id with the session's profile",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setThirdPartyID(rootOpts, cmd, args[0], "associated "+args[0])
		},
	}
}

func newCustomerClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Dissociate the customer id from the session's profile",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setThirdPartyID(rootOpts, cmd, "", "dissociated")
		},
	}
}

func setThirdPartyID(rootOpts *RootOptions, cmd *cobra.Command, id, message string) error {
	app, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.API.SetThirdPartyID(cmd.Context(), id); err != nil {
		return WrapExitError(ExitFailure, "updating customer association", err)
	}
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	return out.Success(message)
}
