package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// statusReport summarizes the persisted client state.
type statusReport struct {
	ApplicationID   string `json:"application_id"`
	SessionID       string `json:"session_id,omitempty"`
	Referrer        string `json:"referrer,omitempty"`
	InstallReferrer string `json:"install_referrer,omitempty"`
	DeferredChecked bool   `json:"deferred_checked"`
}

func (r statusReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "application id:    %s\n", r.ApplicationID)
	fmt.Fprintf(&b, "session id:        %s\n", orNone(r.SessionID))
	fmt.Fprintf(&b, "referrer:          %s\n", orNone(r.Referrer))
	fmt.Fprintf(&b, "install referrer:  %s\n", orNone(r.InstallReferrer))
	fmt.Fprintf(&b, "deferred checked:  %t", r.DeferredChecked)
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Show the persisted client state",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			report := statusReport{ApplicationID: app.Config.ApplicationID}
			if report.SessionID, err = app.Store.SessionID(); err != nil {
				return WrapExitError(ExitFailure, "reading session id", err)
			}
			if report.Referrer, err = app.Store.Referrer(); err != nil {
				return WrapExitError(ExitFailure, "reading referrer", err)
			}
			if report.InstallReferrer, err = app.Store.InstallReferrer(); err != nil {
				return WrapExitError(ExitFailure, "reading install referrer", err)
			}
			if report.DeferredChecked, err = app.Store.DidCheckDeferred(); err != nil {
				return WrapExitError(ExitFailure, "reading deferred-check flag", err)
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(report)
		},
	}
	return cmd
}
