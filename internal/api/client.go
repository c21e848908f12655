// Package api is the attribution-service protocol client: it
// translates domain operations into HTTP calls and typed results.
package api

import (
	"context"
	"strings"
	"sync"

	"github.com/roach88/linkback/internal/host"
	"github.com/roach88/linkback/internal/httpx"
	"github.com/roach88/linkback/internal/logging"
)

// Service endpoints, relative to the base URL.
const (
	pathDeferredDeepLink = "/v1/web/deferred-deeplink"
	pathSessionCustomer  = "/v1/session/customer"
)

// IdentifierSource supplies the device identifiers attached to
// protocol requests. Satisfied by *ident.Provider.
type IdentifierSource interface {
	PrimaryIdentifier() string
	SecondaryIdentifier() string
}

// Client talks to the attribution service on behalf of one
// application id. The application id is immutable for the client's
// lifetime; the session id may be replaced at any time.
type Client struct {
	baseURL       string
	applicationID string
	ident         IdentifierSource
	http          *httpx.Client
	log           *logging.Logger

	// Computed once from host information. Not transmitted on any
	// current endpoint; kept as client metadata.
	capabilities map[string]any

	mu        sync.Mutex
	sessionID string
}

// New creates a protocol client bound to the host's base URL and
// application id.
func New(info *host.Info, ident IdentifierSource, hc *httpx.Client, log *logging.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(info.BaseURL, "/"),
		applicationID: info.ApplicationID,
		ident:         ident,
		http:          hc,
		log:           log.Tagged("api"),
		capabilities:  info.Capabilities(),
	}
}

// ApplicationID returns the immutable application id.
func (c *Client) ApplicationID() string {
	return c.applicationID
}

// SessionID returns the current session id, or "".
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// SetSessionID sets or replaces the current session id. Replacing the
// session id with its current value is a no-op.
func (c *Client) SetSessionID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == c.sessionID {
		return
	}
	c.log.Infof("changed session id from %q to %q", c.sessionID, id)
	c.sessionID = id
}

// Capabilities returns the display capabilities computed at
// construction.
func (c *Client) Capabilities() map[string]any {
	return c.capabilities
}

// urlFor joins the base URL and path with exactly one slash,
// regardless of how either side was formatted.
func (c *Client) urlFor(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// baseSessionPayload builds the session-scoped request body: session
// id when one is set, the primary identifier when available, and the
// secondary identifier only when the primary is absent.
func (c *Client) baseSessionPayload() map[string]any {
	payload := map[string]any{}
	if sid := c.SessionID(); sid != "" {
		payload["session_id"] = sid
	}
	if ifa := c.ident.PrimaryIdentifier(); ifa != "" {
		payload["ifa"] = ifa
	} else if androidID := c.ident.SecondaryIdentifier(); androidID != "" {
		payload["android_id"] = androidID
	}
	return payload
}

// SetThirdPartyID associates (non-empty) or dissociates (empty) the
// caller's own customer id with the session's profile. Dissociation is
// an explicit JSON null on the wire.
func (c *Client) SetThirdPartyID(ctx context.Context, thirdPartyID string) error {
	payload := c.baseSessionPayload()
	if thirdPartyID != "" {
		payload["thirdparty_id"] = thirdPartyID
	} else {
		payload["thirdparty_id"] = nil
	}

	req := httpx.Put(c.urlFor(pathSessionCustomer)).JSONBody(payload)
	var resp map[string]any
	return c.http.ExecuteJSON(ctx, req, &resp)
}

// PendingLink asks the service for a deferred deep link matching this
// installation's signals. Returns nil when the service has no pending
// link object for this device.
func (c *Client) PendingLink(ctx context.Context, signals map[string]string) (*DeferredAttribution, error) {
	payload := map[string]any{
		"application_id": c.applicationID,
		"signals":        signals,
	}
	if ifa := c.ident.PrimaryIdentifier(); ifa != "" {
		payload["ifa"] = ifa
	}
	if androidID := c.ident.SecondaryIdentifier(); androidID != "" {
		payload["android_id"] = androidID
	}

	req := httpx.Post(c.urlFor(pathDeferredDeepLink)).JSONBody(payload)
	var envelope struct {
		Object *DeferredAttribution `json:"object"`
	}
	if err := c.http.ExecuteJSON(ctx, req, &envelope); err != nil {
		return nil, err
	}
	if envelope.Object == nil {
		return nil, nil
	}
	if envelope.Object.ID == "" {
		return nil, &httpx.NetworkError{Message: "deferred attribution result missing id"}
	}
	if !envelope.Object.Match {
		// A non-match never carries an actionable link.
		envelope.Object.Action = ""
	}
	return envelope.Object, nil
}
