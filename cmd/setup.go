package cmd

import (
	"context"
	"strings"

	"github.com/isometry/slack-dispatch-bridge/internal/config"
	"github.com/isometry/slack-dispatch-bridge/internal/controllers/aws"
	ghctl "github.com/isometry/slack-dispatch-bridge/internal/controllers/github"
	"github.com/isometry/slack-dispatch-bridge/internal/handler"
	"github.com/isometry/slack-dispatch-bridge/internal/helpers"
	"github.com/isometry/slack-dispatch-bridge/internal/runtime"
	"github.com/pkg/errors"
)

// setup builds the bridge runtime from the loaded configuration and the environment secrets.
func setup(ctx context.Context) (*runtime.Runtime, error) {
	log := logger
	if log == nil {
		log = helpers.NewNoopLogger()
	}

	secrets, err := config.LoadSecrets()
	if err != nil {
		return nil, err
	}

	ghOpts := []ghctl.GHOption{
		ghctl.WithLogger(log.With("component", "github-controller")),
		ghctl.WithAuthMode(config.GitHub.AuthMode),
		ghctl.WithToken(secrets.Token),
		ghctl.WithSSMKey(config.GitHub.SSMKey),
		ghctl.WithBaseURL(config.GitHub.APIURL),
		ghctl.WithUserAgent(config.GitHub.UserAgent),
	}
	if strings.EqualFold(strings.TrimSpace(config.GitHub.AuthMode), ghctl.AuthModeSSM) {
		log.Debug("creating AWS controller...")
		awsCtl, err := aws.NewController(ctx, aws.WithLogger(log.With("component", "aws-controller")))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS controller")
		}
		ghOpts = append(ghOpts, ghctl.WithSecretStore(awsCtl))
	}

	log.Debug("creating GitHub controller...")
	ctl, err := ghctl.NewController(ghOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GitHub controller")
	}

	log.Debug("creating bridge handler...")
	hdl, err := handler.NewBridgeHandler(
		handler.WithDispatcher(ctl),
		handler.WithRepository(config.GitHub.Repository),
		handler.WithTimeout(config.GitHub.Timeout),
		handler.WithSigningSecret(config.Slack.SigningSecret),
		handler.WithLogger(log.With("component", "bridge-handler")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bridge handler")
	}

	log.Debug("creating runtime...")
	return runtime.NewRuntime(hdl,
		runtime.WithPayloadType(config.Lambda.PayloadType),
		runtime.WithLogger(log.With("component", "runtime"))), nil
}
