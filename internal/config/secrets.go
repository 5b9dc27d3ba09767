package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Secrets holds the deployment-time credentials provided through the environment.
type Secrets struct {
	// Token authenticates the repository dispatch when GitHub.AuthMode is 'token'.
	Token string `env:"GITHUB_TOKEN,unset"`
	// Repository is the owner/repo dispatch target.
	Repository string `env:"GITHUB_REPO"`
	// SigningSecret is the Slack app signing secret.
	SigningSecret string `env:"SLACK_TOKEN"`
}

// LoadSecrets reads Secrets from the environment and folds the non-sensitive values into the
// GitHub and Slack sections when they are not already set.
func LoadSecrets() (Secrets, error) {
	var s Secrets
	if err := env.Parse(&s); err != nil {
		return s, errors.Wrap(err, "failed to parse secrets from environment")
	}
	if GitHub.Repository == "" {
		GitHub.Repository = s.Repository
	}
	if Slack.SigningSecret == "" {
		Slack.SigningSecret = s.SigningSecret
	}
	return s, nil
}
