package httpx

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Request describes a single HTTP call: method, URL, optional headers
// and an optional body. Construction never fails; URL or body problems
// are surfaced when the request is executed.
type Request struct {
	method  string
	u       *url.URL
	headers []header
	body    []byte
	err     error
}

type header struct {
	key   string
	value string
}

// Get creates a GET request for rawURL.
func Get(rawURL string) *Request {
	return newRequest("GET", rawURL)
}

// Post creates a POST request for rawURL.
func Post(rawURL string) *Request {
	return newRequest("POST", rawURL)
}

// Put creates a PUT request for rawURL.
func Put(rawURL string) *Request {
	return newRequest("PUT", rawURL)
}

func newRequest(method, rawURL string) *Request {
	u, err := url.Parse(rawURL)
	r := &Request{method: method, u: u}
	if err != nil {
		r.err = fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	return r
}

// Header adds a request header.
func (r *Request) Header(key, value string) *Request {
	r.headers = append(r.headers, header{key, value})
	return r
}

// Param appends a query parameter.
func (r *Request) Param(key, value string) *Request {
	if r.u == nil {
		return r
	}
	q := r.u.Query()
	q.Add(key, value)
	r.u.RawQuery = q.Encode()
	return r
}

// ParamIfSet appends a query parameter unless value is empty.
func (r *Request) ParamIfSet(key, value string) *Request {
	if value == "" {
		return r
	}
	return r.Param(key, value)
}

// IntParam appends an integer query parameter.
func (r *Request) IntParam(key string, value int) *Request {
	return r.Param(key, fmt.Sprintf("%d", value))
}

// FloatParam appends a float query parameter, keeping at least one
// digit after the decimal point: 4.0 -> "4.0", 4.320000 -> "4.32".
func (r *Request) FloatParam(key string, value float64) *Request {
	return r.Param(key, stripTrailingZeros(fmt.Sprintf("%f", value)))
}

func stripTrailingZeros(input string) string {
	dot := strings.IndexByte(input, '.')
	if dot < 0 {
		return input
	}
	end := len(input)
	for end > dot+2 && input[end-1] == '0' {
		end--
	}
	return input[:end]
}

// JSONBody marshals v as the request body and sets the JSON
// content type. A marshalling failure is held and reported on execute.
func (r *Request) JSONBody(v any) *Request {
	body, err := json.Marshal(v)
	if err != nil {
		r.err = fmt.Errorf("marshal request body: %w", err)
		return r
	}
	r.Header("Content-Type", ContentTypeJSON)
	r.body = body
	return r
}

// RawBody sets a preassembled request body.
func (r *Request) RawBody(body []byte) *Request {
	r.body = body
	return r
}

// URL returns the request URL as a string, including query parameters.
func (r *Request) URL() string {
	if r.u == nil {
		return ""
	}
	return r.u.String()
}

// Method returns the HTTP method.
func (r *Request) Method() string {
	return r.method
}

// String summarizes the request for log output.
func (r *Request) String() string {
	return fmt.Sprintf("%s %s (body %d bytes)", r.method, r.URL(), len(r.body))
}
