package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewSessionCommand creates the session command group.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the persisted session id",
	}
	cmd.AddCommand(newSessionShowCommand(rootOpts))
	cmd.AddCommand(newSessionSetCommand(rootOpts))
	cmd.AddCommand(newSessionNewCommand(rootOpts))
	return cmd
}

func newSessionShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Print the current session id",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			sid, err := app.Store.SessionID()
			if err != nil {
				return WrapExitError(ExitFailure, "reading session id", err)
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if sid == "" {
				if err := out.Error("no session id set"); err != nil {
					return err
				}
				return &ExitError{Code: ExitFailure}
			}
			return out.Success(sid)
		},
	}
}

func newSessionSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "set <session-id>",
		Short:         "Set the session id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setSession(rootOpts, cmd, args[0])
		},
	}
}

func newSessionNewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "new",
		Short:         "Generate and persist a fresh session id",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setSession(rootOpts, cmd, uuid.NewString())
		},
	}
}

// setSession persists the session id and reflects it onto the
// protocol client.
func setSession(rootOpts *RootOptions, cmd *cobra.Command, id string) error {
	app, err := openApp(rootOpts)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.SetSessionID(id); err != nil {
		return WrapExitError(ExitFailure, "persisting session id", err)
	}
	app.API.SetSessionID(id)

	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	return out.Success(id)
}
