package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/broady/crudy"
	"github.com/broady/crudy/testutil"
	"github.com/google/uuid"
)

func TestHeaders(t *testing.T) {
	tr := testutil.NewTransport().ReplyJSON(http.StatusOK, nil)
	static := http.Header{
		"User-Agent":   {"crudy-test/1.0"},
		"Content-Type": {"text/plain"},
	}

	r := crudy.New("https://api.example.com/users",
		crudy.WithTransport(tr),
		crudy.WithMiddleware(Headers(static)))
	if _, err := r.List(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := tr.LastCall(t)
	testutil.AssertHeader(t, call, "User-Agent", "crudy-test/1.0")
	// Headers set by the dispatcher win.
	testutil.AssertHeader(t, call, "Content-Type", "application/json")

	// The caller's map is copied.
	static.Set("User-Agent", "changed")
	if _, err := r.List(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertHeader(t, tr.LastCall(t), "User-Agent", "crudy-test/1.0")
}

func TestRequestID(t *testing.T) {
	tr := testutil.NewTransport().ReplyJSON(http.StatusOK, nil)
	r := crudy.New("https://api.example.com/users",
		crudy.WithTransport(tr),
		crudy.WithMiddleware(RequestID("")))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := r.Get(ctx, i, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	calls := tr.Calls()
	first := calls[0].Header.Get(DefaultRequestIDHeader)
	second := calls[1].Header.Get(DefaultRequestIDHeader)
	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("expected UUID request id, got %q: %v", first, err)
	}
	if first == second {
		t.Error("expected a fresh request id per call")
	}
}

func TestRequestID_KeepsExisting(t *testing.T) {
	tr := testutil.NewTransport().ReplyJSON(http.StatusOK, nil)
	chain := crudy.Chain(tr,
		Headers(http.Header{"X-Trace": {"fixed"}}),
		RequestID("X-Trace"))

	req := &crudy.Request{Method: http.MethodGet}
	if _, err := chain.Do(context.Background(), "https://example.com", req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertHeader(t, tr.LastCall(t), "X-Trace", "fixed")
	if req.Header != nil {
		t.Error("middleware must not modify the caller's request")
	}
}
