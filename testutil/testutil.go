// Package testutil provides a recording fake crudy.Transport and assertion
// helpers for tests of code built on crudy.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/broady/crudy"
)

// ErrNoReply is returned by Transport.Do when no reply was queued.
var ErrNoReply = errors.New("testutil: no reply queued")

// Call is a request observed by Transport.
type Call struct {
	URL    string
	Method string
	Header http.Header
	Body   []byte
}

type reply struct {
	status int
	text   string
	header http.Header
	body   []byte
	err    error
}

// Transport is a fake crudy.Transport that records every call and answers
// with queued replies, in order. The last queued reply is repeated once the
// queue is drained. It is safe for concurrent use.
type Transport struct {
	mu      sync.Mutex
	replies []reply
	calls   []Call
}

// NewTransport creates a Transport with no queued replies.
func NewTransport() *Transport {
	return &Transport{}
}

// ReplyJSON queues a reply with the given status and v encoded as JSON.
// A nil v produces an empty body.
func (t *Transport) ReplyJSON(status int, v any) *Transport {
	var body []byte
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			panic("testutil: encode reply: " + err.Error())
		}
		body = data
	}
	return t.queue(reply{
		status: status,
		text:   http.StatusText(status),
		header: http.Header{"Content-Type": []string{"application/json"}},
		body:   body,
	})
}

// ReplyBody queues a reply with a raw body.
func (t *Transport) ReplyBody(status int, body string) *Transport {
	return t.queue(reply{status: status, text: http.StatusText(status), body: []byte(body)})
}

// ReplyStatus queues a bodyless reply with an explicit status text.
func (t *Transport) ReplyStatus(status int, text string) *Transport {
	return t.queue(reply{status: status, text: text})
}

// ReplyError queues a transport failure.
func (t *Transport) ReplyError(err error) *Transport {
	return t.queue(reply{err: err})
}

func (t *Transport) queue(r reply) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies = append(t.replies, r)
	return t
}

// Do implements crudy.Transport.
func (t *Transport) Do(ctx context.Context, url string, req *crudy.Request) (*crudy.Response, error) {
	t.mu.Lock()
	t.calls = append(t.calls, Call{
		URL:    url,
		Method: req.Method,
		Header: req.Header.Clone(),
		Body:   bytes.Clone(req.Body),
	})
	if len(t.replies) == 0 {
		t.mu.Unlock()
		return nil, ErrNoReply
	}
	r := t.replies[0]
	if len(t.replies) > 1 {
		t.replies = t.replies[1:]
	}
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return &crudy.Response{
		StatusCode: r.status,
		StatusText: r.text,
		Header:     r.header.Clone(),
		Body:       io.NopCloser(bytes.NewReader(r.body)),
	}, nil
}

// Calls returns a copy of the recorded calls.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// LastCall returns the most recent call, failing the test if there is none.
func (t *Transport) LastCall(tb testing.TB) Call {
	tb.Helper()
	calls := t.Calls()
	if len(calls) == 0 {
		tb.Fatal("expected at least one transport call, got none")
	}
	return calls[len(calls)-1]
}

// AssertCallCount checks how many calls the transport received.
func AssertCallCount(tb testing.TB, tr *Transport, expected int) {
	tb.Helper()
	if n := len(tr.Calls()); n != expected {
		tb.Errorf("expected %d transport calls, got %d", expected, n)
	}
}

// AssertCall checks the method and URL of a call.
func AssertCall(tb testing.TB, c Call, method, url string) {
	tb.Helper()
	if c.Method != method {
		tb.Errorf("expected method %s, got %s", method, c.Method)
	}
	if c.URL != url {
		tb.Errorf("expected URL %s, got %s", url, c.URL)
	}
}

// AssertHeader checks that a request header has the expected value.
func AssertHeader(tb testing.TB, c Call, key, expectedValue string) {
	tb.Helper()
	if actual := c.Header.Get(key); actual != expectedValue {
		tb.Errorf("expected header %s=%s, got %s", key, expectedValue, actual)
	}
}

// AssertNoBody checks that a call carried no payload.
func AssertNoBody(tb testing.TB, c Call) {
	tb.Helper()
	if c.Body != nil {
		tb.Errorf("expected no request body, got %s", c.Body)
	}
}

// AssertJSONBody compares the request body with expected, as JSON.
func AssertJSONBody(tb testing.TB, c Call, expected any) {
	tb.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		tb.Fatalf("failed to encode expected body: %v", err)
	}

	// Compare as JSON to ignore formatting differences
	var expectedData, actualData any
	json.Unmarshal(expectedJSON, &expectedData)
	if err := json.Unmarshal(c.Body, &actualData); err != nil {
		tb.Fatalf("failed to decode request body: %v\nBody: %s", err, c.Body)
	}

	expectedStr, _ := json.MarshalIndent(expectedData, "", "  ")
	actualStr, _ := json.MarshalIndent(actualData, "", "  ")

	if string(expectedStr) != string(actualStr) {
		tb.Errorf("request body mismatch:\nExpected:\n%s\nActual:\n%s", expectedStr, actualStr)
	}
}
