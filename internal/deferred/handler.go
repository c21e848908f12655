// Package deferred orchestrates the one-shot deferred-attribution
// check: gate it, run the protocol call off the calling goroutine, and
// translate the result into exactly one of two outcomes.
//
// The check is best-effort by contract. Network failures, parse
// failures and unresolvable links all collapse into the "no
// attribution" outcome; nothing at this boundary ever reaches the
// caller as an error, and nothing blocks the goroutine that starts the
// check.
package deferred

import (
	"context"
	"time"

	"github.com/roach88/linkback/internal/api"
	"github.com/roach88/linkback/internal/command"
	"github.com/roach88/linkback/internal/logging"
	"github.com/roach88/linkback/internal/store"
	"github.com/roach88/linkback/internal/ttl"
)

// maxInstallAge bounds how long after install a deferred link is still
// meaningful. Older installations skip the network entirely.
const maxInstallAge = 12 * time.Hour

// commandKey dedups concurrent pending-link lookups.
const commandKey = "check-pending-link"

// DefaultNoLinkMessage is the reason reported when no deferred link
// was found. The exact text is configuration, not contract.
const DefaultNoLinkMessage = "No pending attribution link"

// Listener receives the outcome of a check: exactly one of the two
// callbacks fires per check.
type Listener[O any] interface {
	OnAttribution(outcome O)
	OnNoAttribution(reason string)
}

// ListenerFuncs adapts two functions into a Listener.
type ListenerFuncs[O any] struct {
	Attribution   func(outcome O)
	NoAttribution func(reason string)
}

// OnAttribution implements Listener.
func (l ListenerFuncs[O]) OnAttribution(outcome O) {
	if l.Attribution != nil {
		l.Attribution(outcome)
	}
}

// OnNoAttribution implements Listener.
func (l ListenerFuncs[O]) OnNoAttribution(reason string) {
	if l.NoAttribution != nil {
		l.NoAttribution(reason)
	}
}

// PendingLinkClient is the protocol surface the handler needs.
// Satisfied by *api.Client.
type PendingLinkClient interface {
	PendingLink(ctx context.Context, signals map[string]string) (*api.DeferredAttribution, error)
}

// Resolver converts a wire result into the caller's outcome type,
// reporting false when the result cannot be acted on.
type Resolver[O any] func(result *api.DeferredAttribution) (O, bool)

// Config assembles a Handler. Store, Client, Resolve, Listener and
// Signals are required; the rest default sensibly.
type Config[O any] struct {
	Store    *store.Store
	Client   PendingLinkClient
	Runner   *command.Runner[*api.DeferredAttribution]
	Resolve  Resolver[O]
	Listener Listener[O]
	Signals  func() map[string]string

	// InstallTime reports when the host application was first
	// installed. A zero time means unknown, which never gates.
	InstallTime func() time.Time

	Clock         ttl.Source
	Log           *logging.Logger
	NoLinkMessage string
}

// Handler runs the deferred-attribution check, parameterized over the
// outcome type so deep-link and attribution flavors share one
// implementation.
type Handler[O any] struct {
	store       *store.Store
	client      PendingLinkClient
	runner      *command.Runner[*api.DeferredAttribution]
	resolve     Resolver[O]
	listener    Listener[O]
	signals     func() map[string]string
	installTime func() time.Time
	clock       ttl.Source
	log         *logging.Logger
	noLinkMsg   string
}

// NewHandler creates a Handler from cfg.
func NewHandler[O any](cfg Config[O]) *Handler[O] {
	if cfg.Log == nil {
		cfg.Log = logging.Nop()
	}
	if cfg.Clock == nil {
		cfg.Clock = ttl.System
	}
	if cfg.Runner == nil {
		cfg.Runner = command.NewRunner[*api.DeferredAttribution](cfg.Log)
	}
	if cfg.NoLinkMessage == "" {
		cfg.NoLinkMessage = DefaultNoLinkMessage
	}
	if cfg.InstallTime == nil {
		cfg.InstallTime = func() time.Time { return time.Time{} }
	}
	return &Handler[O]{
		store:       cfg.Store,
		client:      cfg.Client,
		runner:      cfg.Runner,
		resolve:     cfg.Resolve,
		listener:    cfg.Listener,
		signals:     cfg.Signals,
		installTime: cfg.InstallTime,
		clock:       cfg.Clock,
		log:         cfg.Log.Tagged("deferred"),
		noLinkMsg:   cfg.NoLinkMessage,
	}
}

// Check runs the deferred-attribution check. It never blocks on the
// network: gated outcomes report synchronously, everything else runs
// on a worker goroutine. Exactly one listener callback fires per call.
//
// The check runs at most once per installation: the persisted flag is
// written before any network work begins, so even a crash mid-check
// cannot cause a second attribution lookup.
func (h *Handler[O]) Check(ctx context.Context) {
	checked, err := h.store.DidCheckDeferred()
	if err != nil {
		h.log.WarnErr("couldn't read deferred-check flag", err)
		h.noAttribution()
		return
	}
	if checked {
		h.noAttribution()
		return
	}
	if err := h.store.MarkDeferredChecked(); err != nil {
		// Without the durable flag the at-most-once guarantee is
		// gone, so skip the network rather than risk a duplicate.
		h.log.WarnErr("couldn't persist deferred-check flag", err)
		h.noAttribution()
		return
	}

	if h.oldInstallation() {
		h.noAttribution()
		return
	}

	cmd := command.New(commandKey, func(ctx context.Context) (*api.DeferredAttribution, error) {
		return h.client.PendingLink(ctx, h.signals())
	}, h)
	h.runner.Submit(ctx, cmd)
}

// Wait blocks until all in-flight checks have delivered. Used by tests
// and short-lived callers.
func (h *Handler[O]) Wait() {
	h.runner.Wait()
}

// OnResult receives the protocol result. Attribution state is
// persisted whenever present, regardless of match outcome.
func (h *Handler[O]) OnResult(result *api.DeferredAttribution) {
	h.persistAttribution(result)

	if _, ok := result.Link(); !ok {
		h.noAttribution()
		return
	}

	outcome, ok := h.resolve(result)
	if !ok {
		// The server matched but the host cannot open the URI.
		h.log.Warnf("no handler for deferred link %q", result.Action)
		h.noAttribution()
		return
	}

	if attr := result.Attribution; attr != nil {
		h.log.Visiblef("Deferred deep link found. (Link: %s, Referrer: %s, UTM Source: %s, ID: %s)",
			result.Action, attr.BtnRef, attr.UTMSource, result.ID)
	} else {
		h.log.Visiblef("Deferred deep link found. (Link: %s, ID: %s)", result.Action, result.ID)
	}
	h.listener.OnAttribution(outcome)
}

// OnError receives an execution failure. Failures are never surfaced
// as errors, only as an absence of a deferred link.
func (h *Handler[O]) OnError() {
	h.noAttribution()
}

func (h *Handler[O]) noAttribution() {
	h.log.Visible(h.noLinkMsg)
	h.listener.OnNoAttribution(h.noLinkMsg)
}

func (h *Handler[O]) persistAttribution(result *api.DeferredAttribution) {
	if result == nil || result.Attribution == nil {
		return
	}
	if err := h.store.SetReferrer(result.Attribution.BtnRef); err != nil {
		h.log.WarnErr("couldn't persist referrer", err)
	}
}

// oldInstallation reports whether the host app was installed more than
// maxInstallAge ago; such installs are no longer attribution
// candidates. An unknown install time never gates.
func (h *Handler[O]) oldInstallation() bool {
	installedAt := h.installTime()
	if installedAt.IsZero() {
		return false
	}
	if h.clock.Now().Sub(installedAt) > maxInstallAge {
		h.log.Infof("installation from %s is too old for a deferred link", installedAt.Format(time.RFC3339))
		return true
	}
	return false
}
