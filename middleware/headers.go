package middleware

import (
	"context"
	"net/http"

	"github.com/broady/crudy"
	"github.com/google/uuid"
)

// DefaultRequestIDHeader is the header set by RequestID when none is given.
const DefaultRequestIDHeader = "X-Request-Id"

// Headers returns middleware that adds fixed headers to every request.
// Headers already present on the request are left untouched.
func Headers(h http.Header) crudy.Middleware {
	h = h.Clone()
	return func(next crudy.Transport) crudy.Transport {
		return crudy.TransportFunc(func(ctx context.Context, url string, req *crudy.Request) (*crudy.Response, error) {
			out := req.Clone()
			if out.Header == nil {
				out.Header = make(http.Header)
			}
			for k, vs := range h {
				if out.Header.Get(k) != "" {
					continue
				}
				for _, v := range vs {
					out.Header.Add(k, v)
				}
			}
			return next.Do(ctx, url, out)
		})
	}
}

// RequestID returns middleware that tags every request with a random UUID
// in the named header (DefaultRequestIDHeader if empty).
// Requests that already carry the header keep their value.
func RequestID(header string) crudy.Middleware {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return func(next crudy.Transport) crudy.Transport {
		return crudy.TransportFunc(func(ctx context.Context, url string, req *crudy.Request) (*crudy.Response, error) {
			if req.Header.Get(header) != "" {
				return next.Do(ctx, url, req)
			}
			out := req.Clone()
			if out.Header == nil {
				out.Header = make(http.Header)
			}
			out.Header.Set(header, uuid.NewString())
			return next.Do(ctx, url, out)
		})
	}
}
