package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/linkback/internal/deferred"
)

// checkResult is the reportable outcome of a deferred-attribution
// check.
type checkResult struct {
	Attributed bool   `json:"attributed"`
	URI        string `json:"uri,omitempty"`
	Package    string `json:"package,omitempty"`
	Referrer   string `json:"referrer,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (r checkResult) String() string {
	if !r.Attributed {
		return r.Reason
	}
	return fmt.Sprintf("deferred deep link: %s (package %s, referrer %q)", r.URI, r.Package, r.Referrer)
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		installedAt string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the one-shot deferred-attribution check",
		Long: `Run the deferred-attribution check against the attribution service.

The check runs at most once per installation: a durable flag is
written before the network call, and every later invocation reports
no attribution without touching the network. Exits 0 when a deferred
deep link was recovered and 1 when there is none.

The installation time gates the check; installs older than twelve
hours skip the network. It defaults to the config file's modification
time and can be overridden with --installed-at.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			installTime, err := resolveInstallTime(installedAt, rootOpts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "parsing --installed-at", err)
			}

			cfg := app.Config
			var result checkResult
			handler := deferred.NewHandler(deferred.Config[deferred.Link]{
				Store:   app.Store,
				Client:  app.API,
				Resolve: deferred.NewLinkResolver(cfg.Host.PackageName, nil),
				Listener: deferred.ListenerFuncs[deferred.Link]{
					Attribution: func(link deferred.Link) {
						referrer, _ := app.Store.Referrer()
						result = checkResult{Attributed: true, URI: link.URI, Package: link.Package, Referrer: referrer}
					},
					NoAttribution: func(reason string) {
						result = checkResult{Reason: reason}
					},
				},
				Signals: func() map[string]string {
					return deferred.Signals(app.Info, app.Store, cfg.SourceTag)
				},
				InstallTime:   func() time.Time { return installTime },
				Log:           app.Log,
				NoLinkMessage: cfg.NoLinkMessage,
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			handler.Check(ctx)
			handler.Wait()

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if !result.Attributed {
				if err := out.Error(result.Reason); err != nil {
					return err
				}
				return &ExitError{Code: ExitFailure}
			}
			return out.Success(result)
		},
	}

	cmd.Flags().StringVar(&installedAt, "installed-at", "", "installation time as RFC 3339 (default: config file mtime)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for the check")

	return cmd
}

// resolveInstallTime picks the installation time for the age gate: an
// explicit RFC 3339 override wins, otherwise the config file's
// modification time stands in. A missing file means unknown.
func resolveInstallTime(override, configPath string) (time.Time, error) {
	if override != "" {
		return time.Parse(time.RFC3339, override)
	}
	fi, err := os.Stat(configPath)
	if err != nil {
		return time.Time{}, nil
	}
	return fi.ModTime(), nil
}
