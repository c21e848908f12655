package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// intentResult reports what an inbound link carried and whether it
// changed the stored referrer.
type intentResult struct {
	Token   string `json:"token,omitempty"`
	Changed bool   `json:"changed"`
}

func (r intentResult) String() string {
	switch {
	case r.Token == "":
		return "no attribution token on link"
	case r.Changed:
		return fmt.Sprintf("referrer updated to %q", r.Token)
	default:
		return fmt.Sprintf("referrer already %q", r.Token)
	}
}

// NewTrackIntentCommand creates the track-intent command.
func NewTrackIntentCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "track-intent <uri>",
		Short: "Record the attribution token from an inbound deep link",
		Long: `Inspect an inbound deep-link URI for an attribution token and
persist it as the current referrer when it differs.

Example:
  linkback track-intent 'app://product/1?btn_ref=srctok-abc'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			token, changed, err := app.Store.TrackIncomingLink(args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "tracking incoming link", err)
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(intentResult{Token: token, Changed: changed})
		},
	}
}
