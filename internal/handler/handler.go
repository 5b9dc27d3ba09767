// Package handler translates a slash-command request into a repository dispatch and back into a Slack reply.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/isometry/slack-dispatch-bridge/internal/controllers/github"
	"github.com/isometry/slack-dispatch-bridge/internal/helpers"
	"github.com/isometry/slack-dispatch-bridge/internal/models"
	"github.com/pkg/errors"
)

const (
	// DefaultTimeout bounds the repository dispatch below Slack's three second reply window.
	DefaultTimeout = 2 * time.Second

	successText     = "Clock has been reset! K has been spotted."
	failureTemplate = "Failed to reset clock (%s)"
	notAllowedText  = "Not allowed"
)

// Dispatcher fires a repository dispatch and reports the downstream HTTP status, 0 when none was received.
type Dispatcher interface {
	Dispatch(ctx context.Context, owner, repo string, notification models.Notification) (int, error)
}

// Option is a functional option for NewBridgeHandler.
type Option func(*Handler)

// Handler is the bridge between the slash command and the repository dispatch.
type Handler struct {
	logger        *slog.Logger
	dispatcher    Dispatcher
	repository    string
	owner, repo   string
	timeout       time.Duration
	signingSecret string
	notification  models.Notification
}

// NewBridgeHandler creates a Handler. A dispatcher and a valid owner/repo repository are required.
func NewBridgeHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		logger:       helpers.NewNoopLogger(),
		timeout:      DefaultTimeout,
		notification: models.DefaultNotification(),
	}
	for _, opt := range options {
		opt(_inst)
	}

	if _inst.dispatcher == nil {
		return nil, errors.New("missing dispatcher")
	}
	owner, repo, err := github.ParseRepository(_inst.repository)
	if err != nil {
		return nil, errors.Wrap(err, "missing or invalid [GITHUB_REPO]")
	}
	_inst.owner, _inst.repo = owner, repo

	return _inst, nil
}

// Process handles a single slash-command request. The returned response is always
// meant for the caller; the error only describes what went wrong for logging.
func (h *Handler) Process(ctx context.Context, req models.Request) (models.Response, error) {
	logger := h.logger.With(slog.String("requestID", req.ID))

	if req.Method != http.MethodPost {
		logger.Debug("rejecting request...", "reason", "method not allowed", slog.String("method", req.Method))
		return models.Response{
			Body:       notAllowedText,
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
			StatusCode: http.StatusMethodNotAllowed,
		}, &MethodNotAllowedError{Method: req.Method}
	}

	if h.signingSecret != "" {
		helpers.OnceAMinute.Do(func() {
			logger.Warn("slack signing secret is configured but requests are not verified")
		})
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	logger.Info("dispatching...", slog.String("repository", h.repository), slog.String("eventType", h.notification.EventType))
	start := time.Now()
	status, err := h.dispatcher.Dispatch(dispatchCtx, h.owner, h.repo, h.notification)
	logger = logger.With(slog.Int("status", status), slog.Duration("elapsed", time.Since(start)))

	switch {
	case IsSuccessStatus(status):
		if err != nil {
			logger.Warn("dispatch accepted with error", slog.Any("error", err))
		}
		logger.Info("dispatch accepted")
		return reply(models.ResponseTypeInChannel, successText), nil
	case status != 0:
		logger.Warn("dispatch rejected", slog.Any("error", err))
		return reply(models.ResponseTypeEphemeral, fmt.Sprintf(failureTemplate, fmt.Sprintf("HTTP %d", status))),
			&DownstreamRejectedError{StatusCode: status, Cause: err}
	default:
		if err == nil {
			err = errors.New("no response received")
		}
		timedOut := errors.Is(err, context.DeadlineExceeded) || errors.Is(dispatchCtx.Err(), context.DeadlineExceeded)
		reason := "unreachable"
		if timedOut {
			reason = "timeout"
		}
		logger.Error("dispatch failed", slog.String("reason", reason), slog.Any("error", err))
		return reply(models.ResponseTypeEphemeral, fmt.Sprintf(failureTemplate, reason)),
			&DownstreamUnreachableError{TimedOut: timedOut, Cause: err}
	}
}

// IsSuccessStatus reports whether a dispatch status counts as accepted.
func IsSuccessStatus(status int) bool {
	return status == http.StatusNoContent || (status >= 200 && status < 300)
}

func reply(responseType models.ResponseType, text string) models.Response {
	body, _ := json.Marshal(models.SlackReply{ResponseType: responseType, Text: text})
	return models.Response{
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
		StatusCode: http.StatusOK,
	}
}
