package crudy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxErrorBody caps how much of a non-success response body is kept on an HTTPError.
const maxErrorBody = 64 << 10

var errNilResponse = errors.New("crudy: transport returned nil response")

// call describes a single dispatch. It lives for the duration of one call.
type call struct {
	verb string
	url  string
	body any
	op   Operation

	// decode, if set, converts the validated result into the caller's type.
	decode func(any) (any, error)
}

// dispatcher runs the request pipeline shared by every Resource method.
type dispatcher struct {
	opts *options
}

// dispatch runs the pipeline for c:
//
//  1. Before hook. An error here is returned as-is and no other hook runs.
//  2. Request validation (create/update only).
//  3. Serialization and the transport call.
//  4. Non-2xx classification into *HTTPError.
//  5. JSON decoding, deserializer, response validation, typed decoding.
//  6. OnSuccess or OnError, exactly one.
func (d *dispatcher) dispatch(ctx context.Context, c call) (any, error) {
	if err := d.opts.hooks.before(ctx, c.verb, c.body); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := d.run(ctx, c)
	d.opts.logger.DebugContext(ctx, "dispatch",
		slog.String("method", c.verb),
		slog.String("url", c.url),
		slog.String("operation", string(c.op)),
		slog.Duration("duration", time.Since(start)),
		slog.Any("error", err))

	if err != nil {
		d.opts.hooks.onError(ctx, c.verb, err)
		return nil, err
	}
	d.opts.hooks.onSuccess(ctx, c.verb, res)
	return res, nil
}

func (d *dispatcher) run(ctx context.Context, c call) (any, error) {
	if v := d.opts.schemas.request(c.op); v != nil && c.body != nil {
		if _, err := v.Validate(c.body); err != nil {
			return nil, newValidationError(c.op, SideRequest, err)
		}
	}

	req := &Request{
		Method: c.verb,
		Header: http.Header{"Content-Type": []string{"application/json"}},
	}
	if c.body != nil {
		payload, err := d.opts.serializer(c.body)
		if err != nil {
			return nil, fmt.Errorf("crudy: serialize %s body: %w", c.verb, err)
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("crudy: encode %s body: %w", c.verb, err)
		}
		req.Body = data
	}

	res, err := d.opts.transport.Do(ctx, c.url, req)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errNilResponse
	}

	if !res.OK() {
		httpErr := &HTTPError{
			StatusCode: res.StatusCode,
			StatusText: res.StatusText,
			Code:       CodeFromHTTPStatus(res.StatusCode),
		}
		if res.Body != nil {
			httpErr.Body, _ = io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		}
		d.closeBody(ctx, res)
		return nil, httpErr
	}

	data, err := res.JSON()
	if err != nil {
		return nil, err
	}
	data, err = d.opts.deserializer(data)
	if err != nil {
		return nil, fmt.Errorf("crudy: deserialize %s response: %w", c.verb, err)
	}
	if v := d.opts.schemas.response(c.op); v != nil {
		data, err = v.Validate(data)
		if err != nil {
			return nil, newValidationError(c.op, SideResponse, err)
		}
	}
	if c.decode != nil {
		data, err = c.decode(data)
		if err != nil {
			return nil, newValidationError(c.op, SideResponse, err)
		}
	}
	return data, nil
}

func (d *dispatcher) closeBody(ctx context.Context, res *Response) {
	if err := res.Close(); err != nil {
		d.opts.logger.WarnContext(ctx, "failed to close response body", slog.Any("error", err))
	}
}
