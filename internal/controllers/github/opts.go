package github

import (
	"log/slog"
	"net/http"
)

// WithToken sets the dispatch token used in 'token' auth mode.
func WithToken(token string) GHOption {
	return func(a *Controller) {
		a.token = token
	}
}

// WithAuthMode sets the authentication mode for a Controller instance using the given mode string.
func WithAuthMode(mode string) GHOption {
	return func(a *Controller) {
		if mode != "" {
			a.authMode = mode
		}
	}
}

// WithSecretStore sets the store used to fetch credentials in 'ssm' auth mode.
func WithSecretStore(store SecretStore) GHOption {
	return func(a *Controller) {
		a.secretStore = store
	}
}

// WithSSMKey sets the SSM key used for fetching credentials and applies it to the Controller instance.
func WithSSMKey(key string) GHOption {
	return func(a *Controller) {
		a.ssmKey = key
	}
}

// WithBaseURL points the Controller at a different REST API root, such as a GitHub Enterprise server.
func WithBaseURL(baseURL string) GHOption {
	return func(a *Controller) {
		if baseURL != "" {
			a.rawBaseURL = baseURL
		}
	}
}

// WithUserAgent overrides the User-Agent sent with each dispatch.
func WithUserAgent(userAgent string) GHOption {
	return func(a *Controller) {
		if userAgent != "" {
			a.userAgent = userAgent
		}
	}
}

// WithTransport sets the base HTTP transport.
func WithTransport(transport http.RoundTripper) GHOption {
	return func(a *Controller) {
		a.transport = transport
	}
}

// WithLogger sets a custom logger for the Controller instance to use for logging operations.
func WithLogger(logger *slog.Logger) GHOption {
	return func(a *Controller) {
		a.logger = logger
	}
}
