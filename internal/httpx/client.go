// Package httpx executes single request/response cycles against the
// attribution service: fixed timeouts, a computed User-Agent, JSON
// response decoding and a small error taxonomy that separates status
// failures from transport and parse failures.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/roach88/linkback/internal/logging"
)

// Content types accepted by the transport.
const (
	ContentTypeJSON = "application/json"
	ContentTypePNG  = "image/png"
	ContentTypeJPEG = "image/jpeg"
)

// Fixed socket timeouts.
const (
	connectTimeout = 5 * time.Second
	readTimeout    = 15 * time.Second
)

// requestIDHeader is echoed by the attribution service and surfaced on
// errors for support diagnostics.
const requestIDHeader = "X-Button-Request"

// Client executes Requests with a fixed User-Agent.
type Client struct {
	hc        *http.Client
	userAgent string
	log       *logging.Logger
}

// NewClient creates a transport client. The user agent identifies the
// SDK build and host application on every request.
func NewClient(userAgent string, log *logging.Logger) *Client {
	return &Client{
		hc: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
			Timeout: readTimeout,
		},
		userAgent: userAgent,
		log:       log.Tagged("httpx"),
	}
}

// UserAgent returns the configured user agent string.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// ExecuteJSON runs the request and decodes the JSON response body into
// out. Status >= 400 returns a *StatusError; an unparsable body
// returns a *NetworkError distinct from transport failures.
func (c *Client) ExecuteJSON(ctx context.Context, req *Request, out any) error {
	body, requestID, err := c.do(ctx, req, ContentTypeJSON)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &NetworkError{
			Message:   "couldn't parse response body to JSON",
			RequestID: requestID,
			Err:       err,
		}
	}
	c.log.Verbosef("response (id=%s) for %s: %s", requestID, req.URL(), body)
	return nil
}

// FetchImage runs the request expecting an image payload. Responses
// with a content type other than PNG or JPEG return nil data and no
// error: an unexpected content type is not a protocol violation.
func (c *Client) FetchImage(ctx context.Context, req *Request) ([]byte, error) {
	resp, err := c.send(ctx, req, ContentTypePNG)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	requestID := resp.Header.Get(requestIDHeader)
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: req.URL(), RequestID: requestID}
	}
	if !isSupportedImage(resp.Header.Get("Content-Type")) {
		return nil, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Message: "exception while fetching image", RequestID: requestID, Err: err}
	}
	return data, nil
}

// do sends the request and returns the full response body, enforcing
// the status-code contract. The connection is released on every exit
// path.
func (c *Client) do(ctx context.Context, req *Request, accept string) (body []byte, requestID string, err error) {
	resp, err := c.send(ctx, req, accept)
	if err != nil {
		return nil, "", err
	}
	defer drainAndClose(resp.Body)

	requestID = resp.Header.Get(requestIDHeader)
	c.log.Verbosef("%d response for %s", resp.StatusCode, req.URL())

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, requestID, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        req.URL(),
			RequestID:  requestID,
		}
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		c.log.Visiblef("Network request failed (Request ID: %s)", requestID)
		return nil, requestID, &NetworkError{
			Message:   fmt.Sprintf("exception while requesting: %s", req),
			RequestID: requestID,
			Err:       err,
		}
	}
	return body, requestID, nil
}

// send builds and performs the HTTP call.
func (c *Client) send(ctx context.Context, req *Request, accept string) (*http.Response, error) {
	if req.err != nil {
		return nil, &NetworkError{Message: "invalid request", Err: req.err}
	}
	c.log.Verbosef("will request: %s", req)

	var bodyReader io.Reader
	if len(req.body) > 0 {
		bodyReader = bytes.NewReader(req.body)
	}
	hr, err := http.NewRequestWithContext(ctx, req.method, req.URL(), bodyReader)
	if err != nil {
		return nil, &NetworkError{Message: "couldn't build request", Err: err}
	}
	hr.Header.Set("User-Agent", c.userAgent)
	hr.Header.Set("Accept", accept)
	for _, h := range req.headers {
		hr.Header.Set(h.key, h.value)
	}

	resp, err := c.hc.Do(hr)
	if err != nil {
		c.log.Visible("Network request failed")
		return nil, &NetworkError{
			Message: fmt.Sprintf("exception while requesting: %s", req),
			Err:     err,
		}
	}
	return resp, nil
}

// drainAndClose consumes any unread body so the connection can be
// reused, then closes it.
func drainAndClose(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}

func isSupportedImage(contentType string) bool {
	return contentType == ContentTypePNG || contentType == ContentTypeJPEG
}
