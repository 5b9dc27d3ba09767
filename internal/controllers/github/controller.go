// Package github provides a Controller for GitHub repository dispatches and credentials management.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/go-github/v84/github"
	"github.com/isometry/slack-dispatch-bridge/internal/helpers"
	"github.com/isometry/slack-dispatch-bridge/internal/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const (
	// AuthModeToken reads the dispatch token from the environment.
	AuthModeToken = "token"
	// AuthModeSSM reads the dispatch token from an SSM parameter.
	AuthModeSSM = "ssm"

	// MediaType is the Accept header pinned on every dispatch.
	MediaType = "application/vnd.github+json"
	// APIVersion is the REST API version pinned on every dispatch.
	APIVersion = "2022-11-28"
	// APIVersionHeader carries APIVersion.
	APIVersionHeader = "X-GitHub-Api-Version"

	defaultBaseURL   = "https://api.github.com/"
	defaultUserAgent = "k-tracker-slack-bridge"
)

// SecretStore resolves secrets by key.
type SecretStore interface {
	GetSecret(ctx context.Context, key string, encrypted bool) (*string, error)
}

// GHOption is a functional option used to configure or modify the properties of a Controller instance.
type GHOption func(*Controller)

// Controller encapsulates repository dispatch operations and credentials management for the supported authentication modes.
type Controller struct {
	mu    sync.Mutex
	token string

	authMode    string
	ssmKey      string
	rawBaseURL  string
	baseURL     *url.URL
	userAgent   string
	logger      *slog.Logger
	secretStore SecretStore
	transport   http.RoundTripper
}

// NewController initializes a new Controller with the provided options, setting defaults where necessary.
func NewController(opts ...GHOption) (*Controller, error) {
	_inst := &Controller{
		authMode:   AuthModeToken,
		rawBaseURL: defaultBaseURL,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.transport == nil {
		_inst.transport = http.DefaultTransport
	}
	_inst.authMode = strings.TrimSpace(strings.ToLower(_inst.authMode))
	_inst.logger = _inst.logger.With("authMode", _inst.authMode)

	raw := _inst.rawBaseURL
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	baseURL, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid GitHub API URL %q", _inst.rawBaseURL)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid GitHub API URL %q: scheme and host are required", _inst.rawBaseURL)
	}
	_inst.baseURL = baseURL

	switch _inst.authMode {
	case AuthModeToken:
	case AuthModeSSM:
		if _inst.secretStore == nil {
			return nil, errors.New("ssm auth mode requires a secret store")
		}
		if _inst.ssmKey == "" {
			return nil, errors.New("ssm auth mode requires an SSM key")
		}
	default:
		return nil, fmt.Errorf("unsupported auth mode: %s", _inst.authMode)
	}
	return _inst, nil
}

// RetrieveCredentials makes sure a dispatch token is available, fetching it from SSM on first use when required.
func (g *Controller) RetrieveCredentials(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.authMode {
	case AuthModeToken:
		if g.token == "" {
			return errors.New("missing [GITHUB_TOKEN]")
		}
		return nil
	case AuthModeSSM:
		if g.token != "" {
			g.logger.Debug("using cached credentials...")
			return nil
		}
		g.logger.Debug("retrieving credentials from SSM...")
		secret, err := g.secretStore.GetSecret(ctx, g.ssmKey, true)
		if err != nil {
			return errors.Wrap(err, "failed to fetch credentials from SSM")
		}
		token := strings.TrimSpace(*secret)
		if token == "" {
			return errors.New("empty token in SSM parameter")
		}
		g.token = token
		return nil
	default:
		return fmt.Errorf("unsupported auth mode: %s", g.authMode)
	}
}

// Dispatch fires a repository_dispatch event on owner/repo.
// The returned status is the downstream HTTP status, or 0 when no response was received.
func (g *Controller) Dispatch(ctx context.Context, owner, repo string, notification models.Notification) (int, error) {
	if err := g.RetrieveCredentials(ctx); err != nil {
		return 0, err
	}
	g.mu.Lock()
	token := g.token
	g.mu.Unlock()

	payload, err := json.Marshal(notification.ClientPayload)
	if err != nil {
		return 0, errors.Wrap(err, "failed to encode client payload")
	}
	clientPayload := json.RawMessage(payload)

	// A client per dispatch keeps go-github's rate-limit bookkeeping from
	// suppressing the outbound request.
	client := github.NewClient(g.httpClient(token))
	client.BaseURL = g.baseURL
	client.UserAgent = g.userAgent

	logger := g.logger.With(slog.String("owner", owner), slog.String("repository", repo), slog.String("eventType", notification.EventType))
	logger.Debug("sending repository dispatch...")
	_, resp, err := client.Repositories.Dispatch(ctx, owner, repo, github.DispatchRequestOptions{
		EventType:     notification.EventType,
		ClientPayload: &clientPayload,
	})

	var status int
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	if err != nil {
		logger.Warn("repository dispatch failed", slog.Int("status", status), slog.String("error", helpers.Truncate(err.Error(), 512)))
		return status, errors.Wrapf(err, "failed to dispatch %s to %s/%s", notification.EventType, owner, repo)
	}
	logger.Debug("repository dispatch accepted", slog.Int("status", status))
	return status, nil
}

// httpClient chains bearer authentication, header pinning, instrumentation and trace logging over the base transport.
func (g *Controller) httpClient(token string) *http.Client {
	var rt http.RoundTripper = &loggingRoundTripper{logger: g.logger, next: g.transport}
	rt = otelhttp.NewTransport(rt)
	rt = &headerRoundTripper{
		headers: map[string]string{
			"Accept":         MediaType,
			APIVersionHeader: APIVersion,
			"User-Agent":     g.userAgent,
			"Content-Type":   "application/json",
		},
		next: rt,
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   rt,
		},
	}
}

// ParseRepository splits an owner/repo identifier.
func ParseRepository(fullName string) (owner, repo string, err error) {
	owner, repo, found := strings.Cut(strings.TrimSpace(fullName), "/")
	if !found || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", fullName)
	}
	return owner, repo, nil
}
