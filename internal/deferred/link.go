package deferred

import (
	"net/url"

	"github.com/roach88/linkback/internal/api"
)

// Link is a view-style navigation request for a recovered deep link,
// scoped to the host application's own package so no other app can
// claim it.
type Link struct {
	URI     string
	Package string
}

// CanOpenFunc reports whether the host can navigate to a URI. The
// default accepts any absolute URI; real hosts plug in their route
// table.
type CanOpenFunc func(uri string) bool

// DefaultCanOpen accepts URIs that parse and carry a scheme.
func DefaultCanOpen(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && u.Scheme != ""
}

// NewLinkResolver returns a Resolver producing Link outcomes scoped to
// ownPackage. Results whose URI the host cannot open resolve to
// nothing, which the handler reports as no attribution.
func NewLinkResolver(ownPackage string, canOpen CanOpenFunc) Resolver[Link] {
	if canOpen == nil {
		canOpen = DefaultCanOpen
	}
	return func(result *api.DeferredAttribution) (Link, bool) {
		uri, ok := result.Link()
		if !ok || !canOpen(uri) {
			return Link{}, false
		}
		return Link{URI: uri, Package: ownPackage}, true
	}
}
