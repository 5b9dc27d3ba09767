package github

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// headerRoundTripper overrides a fixed set of request headers.
type headerRoundTripper struct {
	headers map[string]string
	next    http.RoundTripper
}

// RoundTrip sets the pinned headers on a copy of req.
func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}
	return h.next.RoundTrip(req)
}

type loggingRoundTripper struct {
	logger *slog.Logger
	next   http.RoundTripper
}

// RoundTrip logs the request and response.
func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var buf bytes.Buffer
	if req.Body != nil {
		_, _ = io.ReadAll(io.TeeReader(req.Body, &buf))
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(buf.Bytes()))
	}
	var container map[string]any
	_ = json.Unmarshal(buf.Bytes(), &container)
	l.logger.Log(req.Context(), slog.Level(-8), "sending request", slog.String("method", req.Method), slog.String("url", req.URL.String()), slog.Any("body", container))
	resp, err := l.next.RoundTrip(req)
	if err != nil {
		l.logger.Log(req.Context(), slog.Level(-8), "failed to send request", slog.Any("error", err))
		return nil, err
	}
	l.logger.Log(req.Context(), slog.Level(-8), "received response", slog.Any("status", resp.Status))
	return resp, nil
}
