// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

const (
	// ModeService runs the bridge as a standalone HTTP server.
	ModeService = "service"
	// ModeLambdaHTTP runs the bridge as an AWS Lambda behind API Gateway or a function URL.
	ModeLambdaHTTP = "lambda-http"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// GitHub is a struct that contains the configuration for the GitHub dispatch target.
	GitHub github
	// Slack is a struct that contains the configuration for the Slack caller.
	Slack slack
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"lambda-http"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type github struct {
	// AuthMode selects where the dispatch token comes from. Supported values are 'token' and 'ssm'.
	AuthMode string `yaml:"authMode,omitempty" default:"token"`
	// SSMKey is the SSM parameter holding the token when AuthMode is 'ssm'.
	SSMKey string `yaml:"ssmKey,omitempty"`
	// Repository is the dispatch target in owner/repo form.
	Repository string `yaml:"repository,omitempty"`
	// APIURL is the base URL of the GitHub REST API. It must end with a slash.
	APIURL    string        `yaml:"apiURL,omitempty" default:"https://api.github.com/"`
	UserAgent string        `yaml:"userAgent,omitempty" default:"k-tracker-slack-bridge"`
	Timeout   time.Duration `yaml:"timeout,omitempty" default:"2s"`
}

type slack struct {
	// SigningSecret is reserved for request verification, which is not performed.
	SigningSecret string `yaml:"signingSecret,omitempty"`
}

type service struct {
	Path    string        `yaml:"path,omitempty" default:"/"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	return errors.Join(
		defaults.Set(&Global),
		defaults.Set(&GitHub),
		defaults.Set(&Slack),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
	)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global  global  `yaml:"global,omitempty"`
		GitHub  github  `yaml:"github,omitempty"`
		Slack   slack   `yaml:"slack,omitempty"`
		Service service `yaml:"service,omitempty"`
		Lambda  lambda  `yaml:"lambda,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	GitHub = a.GitHub
	Slack = a.Slack
	Service = a.Service
	Lambda = a.Lambda

	return nil
}
