package crudy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Request is the transport-level request built by the dispatcher.
// Body is nil when the call carries no payload.
type Request struct {
	Method string
	Header http.Header
	Body   []byte
}

// Clone returns a copy of r whose Header can be modified independently.
func (r *Request) Clone() *Request {
	out := *r
	out.Header = r.Header.Clone()
	return &out
}

// Response is the transport-level response handed back to the dispatcher.
// The dispatcher always closes Body.
type Response struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       io.ReadCloser
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// JSON reads and closes the body and decodes it as JSON.
// An empty body decodes to nil.
func (r *Response) JSON() (any, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("crudy: read response body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("crudy: decode response body: %w", err)
	}
	return v, nil
}

// Close closes the body if there is one.
func (r *Response) Close() error {
	if r.Body == nil {
		return nil
	}
	return r.Body.Close()
}

// Transport sends a single request to url.
//
// Implementations report network-level failures as errors. Responses with a
// non-success status are not errors at this level; the dispatcher classifies them.
type Transport interface {
	Do(ctx context.Context, url string, req *Request) (*Response, error)
}

// TransportFunc adapts an ordinary function to the Transport interface.
type TransportFunc func(ctx context.Context, url string, req *Request) (*Response, error)

// Do calls f(ctx, url, req).
func (f TransportFunc) Do(ctx context.Context, url string, req *Request) (*Response, error) {
	return f(ctx, url, req)
}

// DefaultTransport sends requests with http.DefaultClient.
var DefaultTransport Transport = NewHTTPTransport(nil)

// HTTPTransport is a Transport backed by an *http.Client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport returns a Transport using client, or http.DefaultClient if nil.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client}
}

// Do implements Transport.
func (t *HTTPTransport) Do(ctx context.Context, url string, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	httpRes, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: httpRes.StatusCode,
		StatusText: statusText(httpRes),
		Header:     httpRes.Header,
		Body:       httpRes.Body,
	}, nil
}

// statusText strips the numeric code from http.Response.Status ("404 Not Found").
func statusText(res *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
	if text == "" {
		return http.StatusText(res.StatusCode)
	}
	return text
}

// Middleware wraps a Transport with additional behavior.
type Middleware func(next Transport) Transport

// Chain wraps t with the given middleware.
// The first middleware in the list is the outer-most one (runs first).
func Chain(t Transport, mws ...Middleware) Transport {
	for i := len(mws) - 1; i >= 0; i-- {
		t = mws[i](t)
	}
	return t
}
