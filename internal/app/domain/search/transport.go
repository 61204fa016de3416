package search

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
)

type responseSinkKey struct{}

// responseSink holds the raw body of the provider response for one call.
type responseSink struct {
	mu   sync.Mutex
	body []byte
}

func (s *responseSink) set(body []byte) {
	s.mu.Lock()
	s.body = body
	s.mu.Unlock()
}

func (s *responseSink) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

func withResponseSink(ctx context.Context, sink *responseSink) context.Context {
	return context.WithValue(ctx, responseSinkKey{}, sink)
}

// capturingTransport copies successful response bodies into the sink carried by
// the request context. The SDK decodes grounding chunks into typed structs that
// drop the place coordinates, so the raw body is the only place they survive.
type capturingTransport struct {
	base http.RoundTripper
}

func newCapturingClient(base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{Transport: &capturingTransport{base: base}}
}

func (t *capturingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil {
		return resp, err
	}
	sink, ok := req.Context().Value(responseSinkKey{}).(*responseSink)
	if !ok || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	sink.set(body)
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
