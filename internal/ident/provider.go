// Package ident supplies the device identifiers attached to
// attribution requests: a primary advertising identifier sourced from
// an optional subsystem that may be absent on the host, and a stable
// device-scoped fallback.
//
// The optional subsystem sits behind a TTL-cached proxy. A failed
// capability probe is remembered for the remainder of the TTL window,
// so an absent subsystem costs one lookup per hour rather than one per
// request. Identifier failures never propagate; callers get "" and
// carry on.
package ident

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/roach88/linkback/internal/logging"
	"github.com/roach88/linkback/internal/ttl"
)

// proxyTTL bounds how long a probe outcome (available or not) is
// trusted before the subsystem is looked up again.
const proxyTTL = time.Hour

// Gateway is the optional advertising-identifier subsystem.
//
// Implementations may block; see Provider.PrimaryIdentifier.
type Gateway interface {
	// LimitAdTracking reports whether the user opted out of tracking.
	LimitAdTracking() bool
	// TrackingIdentifier returns the advertising identifier, or ""
	// when one could not be resolved.
	TrackingIdentifier() string
}

// Probe resolves the optional subsystem. It returns an error when the
// subsystem is not present on this host.
type Probe func() (Gateway, error)

// SecondaryFunc returns the stable device-scoped fallback identifier,
// or "" when none is available.
type SecondaryFunc func() string

// MachineID is the default secondary identifier source: the host's
// /etc/machine-id, or "" when unreadable.
func MachineID() string {
	data, err := os.ReadFile("/etc/machine-id")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// unavailable is the gateway selected when the probe fails: tracking
// is never limited and no identifier is ever produced.
type unavailable struct{}

func (unavailable) LimitAdTracking() bool { return false }
func (unavailable) TrackingIdentifier() string { return "" }

// Provider resolves primary and secondary device identifiers.
type Provider struct {
	probe     Probe
	secondary SecondaryFunc
	clock     ttl.Source
	log       *logging.Logger

	mu    sync.Mutex
	proxy *ttl.Ref[Gateway]
}

// NewProvider creates a Provider. A nil probe means the subsystem is
// never available; a nil secondary falls back to MachineID.
func NewProvider(probe Probe, secondary SecondaryFunc, clock ttl.Source, log *logging.Logger) *Provider {
	if secondary == nil {
		secondary = MachineID
	}
	if clock == nil {
		clock = ttl.System
	}
	return &Provider{
		probe:     probe,
		secondary: secondary,
		clock:     clock,
		log:       log.Tagged("ident"),
	}
}

// PrimaryIdentifier returns the advertising identifier, or "" when the
// user limited tracking or the subsystem is unavailable.
//
// May block on the underlying subsystem; do not call from a
// latency-sensitive goroutine.
func (p *Provider) PrimaryIdentifier() string {
	gw := p.gateway()
	if gw.LimitAdTracking() {
		return ""
	}
	return gw.TrackingIdentifier()
}

// SecondaryIdentifier returns the device-scoped fallback identifier,
// or "" when the user limited tracking.
func (p *Provider) SecondaryIdentifier() string {
	if p.gateway().LimitAdTracking() {
		return ""
	}
	return p.secondary()
}

// gateway returns the cached subsystem proxy, re-probing when the
// cached entry has expired.
func (p *Provider) gateway() Gateway {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.proxy != nil {
		if gw, ok := p.proxy.Get(); ok {
			return gw
		}
	}

	var gw Gateway = unavailable{}
	if p.probe == nil {
		p.log.Verbosef("no identifier subsystem configured")
	} else if probed, err := p.probe(); err != nil {
		p.log.WarnErr("could not resolve identifier subsystem", err)
	} else {
		gw = probed
	}
	p.proxy = ttl.NewRef(p.clock, gw, proxyTTL)
	return gw
}
