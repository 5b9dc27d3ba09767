package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	Global, GitHub, Slack, Service, Lambda = global{}, github{}, slack{}, service{}, lambda{}
	t.Cleanup(func() {
		Global, GitHub, Slack, Service, Lambda = global{}, github{}, slack{}, service{}, lambda{}
	})
}

func TestSetDefaults(t *testing.T) {
	resetConfig(t)

	require.NoError(t, SetDefaults())

	assert.Equal(t, ModeLambdaHTTP, Global.Mode)
	assert.Equal(t, "token", GitHub.AuthMode)
	assert.Equal(t, "https://api.github.com/", GitHub.APIURL)
	assert.Equal(t, "k-tracker-slack-bridge", GitHub.UserAgent)
	assert.Equal(t, 2*time.Second, GitHub.Timeout)
	assert.Equal(t, "/", Service.Path)
	assert.Equal(t, "8080", Service.Port)
	assert.Equal(t, 5*time.Second, Service.Timeout)
	assert.Equal(t, "api-gateway-v2", Lambda.PayloadType)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(valid, []byte(`
global:
  mode: service
github:
  repository: andreat/k-tracker
  timeout: 1500ms
service:
  port: "9090"
`), 0o600))
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("github: ["), 0o600))

	testCases := []struct {
		Name        string
		Path        string
		ExpectError bool
		Check       func(t *testing.T)
	}{
		{
			Name: "empty_path",
			Path: "",
		},
		{
			Name: "missing_file",
			Path: filepath.Join(dir, "missing.yaml"),
		},
		{
			Name:        "directory",
			Path:        dir,
			ExpectError: true,
		},
		{
			Name:        "invalid_yaml",
			Path:        invalid,
			ExpectError: true,
		},
		{
			Name: "valid_file_with_defaults",
			Path: valid,
			Check: func(t *testing.T) {
				require.NoError(t, SetDefaults())
				assert.Equal(t, ModeService, Global.Mode)
				assert.Equal(t, "andreat/k-tracker", GitHub.Repository)
				assert.Equal(t, 1500*time.Millisecond, GitHub.Timeout)
				assert.Equal(t, "token", GitHub.AuthMode)
				assert.Equal(t, "9090", Service.Port)
				assert.Equal(t, "/", Service.Path)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			resetConfig(t)
			err := LoadFromFile(tc.Path)
			if tc.ExpectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tc.Check != nil {
				tc.Check(t)
			}
		})
	}
}
