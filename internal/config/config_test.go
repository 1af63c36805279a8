package config_test

import (
	"github.com/stretchr/testify/require"
	"imageLocator/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
auth:
  jwt_secret: secret
prediction:
  base_url: http://geoclip:8080
  callback_url: http://api:8000/update-image-result
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "kafka", cfg.Queue.Driver)
	require.Equal(t, "s3", cfg.ObjectStore.Driver)
	require.Equal(t, time.Hour, cfg.ObjectStore.PresignTTL)
	require.Equal(t, 30*time.Second, cfg.Prediction.Timeout)
	require.Equal(t, 0.0, cfg.Geo.DefaultAngle)
	require.Equal(t, 1.5, cfg.Geo.DefaultHeight)
	require.Equal(t, 8, cfg.Upload.Concurrency)
	require.False(t, cfg.Upload.VerifyImages)
	require.Equal(t, int64(32<<20), cfg.Upload.MaxFileBytes)
	require.Equal(t, int64(256<<20), cfg.Upload.MaxRequestBytes)
	require.Equal(t, int64(128<<20), cfg.Upload.MaxArchiveBytes)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown queue driver",
			body: `
auth: {jwt_secret: secret}
queue: {driver: sqs}
prediction: {base_url: "http://geoclip:8080", callback_url: "http://api/update-image-result"}
`,
		},
		{
			name: "missing jwt secret",
			body: `
prediction: {base_url: "http://geoclip:8080", callback_url: "http://api/update-image-result"}
`,
		},
		{
			name: "missing prediction url",
			body: `
auth: {jwt_secret: secret}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, err, "does not exist")
}
