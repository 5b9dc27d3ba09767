package handler

import (
	"log/slog"
	"time"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithDispatcher sets the dispatcher used to reach GitHub.
func WithDispatcher(dispatcher Dispatcher) Option {
	return func(h *Handler) {
		h.dispatcher = dispatcher
	}
}

// WithRepository sets the owner/repo dispatch target.
func WithRepository(repository string) Option {
	return func(h *Handler) {
		h.repository = repository
	}
}

// WithTimeout bounds each dispatch. Non-positive values keep DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.timeout = timeout
		}
	}
}

// WithSigningSecret records the Slack signing secret. Requests are not verified against it.
func WithSigningSecret(secret string) Option {
	return func(h *Handler) {
		h.signingSecret = secret
	}
}
