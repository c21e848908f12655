package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkback/internal/host"
	"github.com/roach88/linkback/internal/httpx"
	"github.com/roach88/linkback/internal/logging"
)

type fakeIdent struct {
	primary   string
	secondary string
}

func (f *fakeIdent) PrimaryIdentifier() string   { return f.primary }
func (f *fakeIdent) SecondaryIdentifier() string { return f.secondary }

func newTestClient(baseURL string, ident IdentifierSource) *Client {
	info := host.New(host.Info{ApplicationID: "app-1", BaseURL: baseURL})
	hc := httpx.NewClient("linkback/test", logging.Nop())
	return New(info, ident, hc, logging.Nop())
}

func testSignals() map[string]string {
	return map[string]string{
		"country":  "US",
		"language": "en",
		"os":       "linux",
		"source":   "linkback",
		"timezone": "UTC",
	}
}

func TestURLJoining_ExactlyOneSlash(t *testing.T) {
	ident := &fakeIdent{}
	cases := []struct {
		base string
		path string
	}{
		{"https://api.example.com", "/v1/x"},
		{"https://api.example.com/", "/v1/x"},
		{"https://api.example.com/", "v1/x"},
		{"https://api.example.com", "v1/x"},
		{"https://api.example.com//", "//v1/x"},
	}
	for _, tc := range cases {
		c := newTestClient(tc.base, ident)
		assert.Equalf(t, "https://api.example.com/v1/x", c.urlFor(tc.path), "base=%q path=%q", tc.base, tc.path)
	}
}

func TestSetSessionID_NoOpOnUnchanged(t *testing.T) {
	c := newTestClient("https://api.example.com", &fakeIdent{})

	assert.Empty(t, c.SessionID())
	c.SetSessionID("")
	assert.Empty(t, c.SessionID())

	c.SetSessionID("sess-1")
	assert.Equal(t, "sess-1", c.SessionID())
	c.SetSessionID("sess-1")
	assert.Equal(t, "sess-1", c.SessionID())

	c.SetSessionID("sess-2")
	assert.Equal(t, "sess-2", c.SessionID())
}

func TestPendingLink_RequestShape(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"object":{"id":"link-1","match":true,"action":"app://product/1"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{primary: "ifa-123", secondary: "device-9"})
	result, err := c.PendingLink(context.Background(), testSignals())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v1/web/deferred-deeplink", gotPath)
	require.NotNil(t, result)
	assert.Equal(t, "link-1", result.ID)
	assert.True(t, result.Match)

	link, ok := result.Link()
	require.True(t, ok)
	assert.Equal(t, "app://product/1", link)

	g := goldie.New(t)
	g.Assert(t, "pending_link_body", gotBody)
}

func TestPendingLink_OmitsUnavailableIdentifiers(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{})
	_, err := c.PendingLink(context.Background(), testSignals())
	require.NoError(t, err)

	assert.NotContains(t, string(gotBody), "ifa")
	assert.NotContains(t, string(gotBody), "android_id")
}

func TestPendingLink_NoObjectMeansNoLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"status":"ok"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{})
	result, err := c.PendingLink(context.Background(), testSignals())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestPendingLink_MissingIDIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":{"match":true}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{})
	_, err := c.PendingLink(context.Background(), testSignals())
	var ne *httpx.NetworkError
	require.True(t, errors.As(err, &ne))
}

func TestPendingLink_NonMatchDropsAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":{"id":"link-1","match":false,"action":"app://ignored"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{})
	result, err := c.PendingLink(context.Background(), testSignals())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Action)
	_, ok := result.Link()
	assert.False(t, ok)
}

func TestPendingLink_AttributionParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":{"id":"link-1","match":true,"action":"app://p/1","attribution":{"btn_ref":"abc","utm_source":"newsletter"}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{})
	result, err := c.PendingLink(context.Background(), testSignals())
	require.NoError(t, err)
	require.NotNil(t, result.Attribution)
	assert.Equal(t, "abc", result.Attribution.BtnRef)
	assert.Equal(t, "newsletter", result.Attribution.UTMSource)
}

func TestSetThirdPartyID_Associate(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{primary: "ifa-123", secondary: "device-9"})
	c.SetSessionID("sess-1")
	require.NoError(t, c.SetThirdPartyID(context.Background(), "customer-1"))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/v1/session/customer", gotPath)

	g := goldie.New(t)
	g.Assert(t, "customer_body", gotBody)
}

func TestSetThirdPartyID_DissociateSendsNull(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{primary: "ifa-123"})
	c.SetSessionID("sess-1")
	require.NoError(t, c.SetThirdPartyID(context.Background(), ""))

	g := goldie.New(t)
	g.Assert(t, "customer_dissociate_body", gotBody)
}

func TestSetThirdPartyID_SecondaryOnlyWhenPrimaryAbsent(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{secondary: "device-9"})
	require.NoError(t, c.SetThirdPartyID(context.Background(), "customer-1"))

	assert.Contains(t, string(gotBody), `"android_id":"device-9"`)
	assert.NotContains(t, string(gotBody), "ifa")
}

func TestSetThirdPartyID_StatusErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, &fakeIdent{})
	err := c.SetThirdPartyID(context.Background(), "customer-1")
	var se *httpx.StatusError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.Unauthorized())
}

func TestCapabilities_ComputedOnce(t *testing.T) {
	c := newTestClient("https://api.example.com", &fakeIdent{})
	caps := c.Capabilities()
	assert.Equal(t, []string{"standard_button_v1"}, caps["supported_display_types"])
	assert.NotNil(t, caps["screen_scale"])
}
