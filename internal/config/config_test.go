package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
cloud: aws
region: us-east-1
global_env: prod
nameservers: [ns-1.example.com]
`

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultAuthDomain, cfg.AuthDomain)
	assert.Equal(t, StateBackendFile, cfg.State.Backend)
}

func TestLoadFullConfig(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `
cloud: aws
region: us-east-1
global_env: prod
api_url: https://api.example.test
auth_domain: https://login.example.test
subdomain: acme-prod
nameservers: [ns-1.example.com, ns-2.example.com]
workload_role_arn: arn:aws:iam::123:role/metrics
uninstall:
  kubeconfig_path: ./kubeconfig
  pinetools_image: ghcr.io/pinecone-io/pinetools:v1
state:
  backend: s3
  bucket: my-bucket
  key: byoc/state.json
  region: us-east-1
`))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.test", cfg.APIURL)
	assert.Equal(t, "acme-prod", cfg.Subdomain)
	assert.Equal(t, []string{"ns-1.example.com", "ns-2.example.com"}, cfg.Nameservers)
	assert.Equal(t, "ghcr.io/pinecone-io/pinetools:v1", cfg.Uninstall.PinetoolsImage)
	assert.Equal(t, StateBackendS3, cfg.State.Backend)
	assert.Equal(t, "my-bucket", cfg.State.Bucket)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, minimalConfig+"\nenvironment_name: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Cloud:       "aws",
			Region:      "us-east-1",
			GlobalEnv:   "prod",
			APIURL:      DefaultAPIURL,
			AuthDomain:  DefaultAuthDomain,
			Nameservers: []string{"ns-1.example.com"},
			State:       StateConfig{Backend: StateBackendFile},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing cloud", func(c *Config) { c.Cloud = "" }, "cloud is required"},
		{"unsupported cloud", func(c *Config) { c.Cloud = "azure" }, "not supported"},
		{"missing region", func(c *Config) { c.Region = "" }, "region is required"},
		{"missing global_env", func(c *Config) { c.GlobalEnv = "" }, "global_env is required"},
		{"no nameservers", func(c *Config) { c.Nameservers = nil }, "at least one nameserver"},
		{"amp on gcp", func(c *Config) {
			c.Cloud = "gcp"
			c.WorkloadRoleARN = "arn:aws:iam::123:role/x"
		}, "only valid for cloud aws"},
		{"uninstall half configured", func(c *Config) {
			c.Uninstall.KubeconfigPath = "./kubeconfig"
		}, "both kubeconfig_path and pinetools_image"},
		{"s3 without bucket", func(c *Config) {
			c.State = StateConfig{Backend: StateBackendS3, Key: "k"}
		}, "requires bucket and key"},
		{"unknown backend", func(c *Config) { c.State.Backend = "etcd" }, "not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	_, err := APIKeyFromEnv()
	require.Error(t, err)

	t.Setenv(EnvAPIKey, "secret")
	key, err := APIKeyFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "secret", key)
}
