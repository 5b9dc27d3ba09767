package aws

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// WithLogger sets a custom slog.Logger instance for the Controller struct to use for logging operations.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Controller) {
		a.logger = logger
	}
}

// WithConfig uses the given AWS configuration instead of loading the default one.
func WithConfig(cfg *aws.Config) Option {
	return func(a *Controller) {
		a.config = cfg
	}
}

// WithSSMClient sets the SSM client used to read parameters.
func WithSSMClient(client SSMAPI) Option {
	return func(a *Controller) {
		a.ssmClient = client
	}
}
