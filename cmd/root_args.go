package cmd

import (
	"time"

	"github.com/isometry/slack-dispatch-bridge/internal/config"
	"github.com/isometry/slack-dispatch-bridge/internal/helpers"
)

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'service' and 'lambda-http'",
		Short:       helpers.Ptr("m"),
	},
	&config.GitHub.AuthMode: {
		Name:        "github-auth-mode",
		Description: "Where the dispatch token is read from. Supported values are 'token' ([GITHUB_TOKEN]) and 'ssm'",
		Short:       helpers.Ptr("A"),
	},
	&config.GitHub.SSMKey: {
		Name:        "github-token-ssm-key",
		Description: "The SSM parameter holding the dispatch token when the auth mode is 'ssm'",
	},
	&config.GitHub.Repository: {
		Name:        "github-repository",
		Description: "The repository receiving the dispatch, in owner/repo form",
		Env:         helpers.Ptr("GITHUB_REPO"),
		Short:       helpers.Ptr("r"),
	},
	&config.GitHub.APIURL: {
		Name:        "github-api-url",
		Description: "The GitHub REST API base URL",
	},
	&config.GitHub.UserAgent: {
		Name:        "github-user-agent",
		Description: "The User-Agent sent with each dispatch",
		Hidden:      true,
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
}

var envMapCount = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.GitHub.Timeout: {
		Name:        "github-timeout",
		Description: "The deadline for the repository dispatch. Keep it below Slack's three second reply window",
	},
}
