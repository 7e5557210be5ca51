// Package config loads and validates the deployment configuration.
//
// The file holds only what the operator chooses: cloud placement, the
// control-plane endpoints, DNS and metrics wiring and where state lives.
// Identity (organization, environment name) is minted by the control plane
// at bootstrap and recorded in state, never configured. The admin API key
// is a secret and comes from the environment, never the file.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable names for secrets.
const (
	// EnvAPIKey holds the operator's Pinecone admin API key.
	EnvAPIKey = "PINECONE_API_KEY"
)

// Defaults applied by Load when the file leaves fields empty.
const (
	DefaultAPIURL     = "https://api.pinecone.io"
	DefaultAuthDomain = "https://login.pinecone.io"
)

// Config is the full deployment configuration.
type Config struct {
	Cloud     string `yaml:"cloud"`
	Region    string `yaml:"region"`
	GlobalEnv string `yaml:"global_env"`

	APIURL     string `yaml:"api_url"`
	AuthDomain string `yaml:"auth_domain"`

	// Subdomain overrides the delegated subdomain; empty derives it from
	// the minted environment name.
	Subdomain   string   `yaml:"subdomain"`
	Nameservers []string `yaml:"nameservers"`

	// WorkloadRoleARN enables metrics federation; AWS only.
	WorkloadRoleARN string `yaml:"workload_role_arn"`

	Uninstall UninstallConfig `yaml:"uninstall"`
	State     StateConfig     `yaml:"state"`
}

// UninstallConfig arms the cluster uninstaller. Both fields must be set
// together; leaving them empty disables the uninstall hook.
type UninstallConfig struct {
	KubeconfigPath string `yaml:"kubeconfig_path"`
	PinetoolsImage string `yaml:"pinetools_image"`
}

// StateConfig selects where the bootstrap records what it created. The s3
// backend uses the ambient AWS credential chain unless access_key and
// secret_key are both set; endpoint points it at S3-compatible stores.
type StateConfig struct {
	Backend   string `yaml:"backend"` // file (default) | s3
	Path      string `yaml:"path"`    // file backend
	Bucket    string `yaml:"bucket"`  // s3 backend
	Key       string `yaml:"key"`     // s3 backend
	Region    string `yaml:"region"`  // s3 backend
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// State backend names.
const (
	StateBackendFile = "file"
	StateBackendS3   = "s3"
)

var validClouds = map[string]bool{
	"aws": true,
	"gcp": true,
}

// Load reads, defaults and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.AuthDomain == "" {
		c.AuthDomain = DefaultAuthDomain
	}
	if c.State.Backend == "" {
		c.State.Backend = StateBackendFile
	}
}

// Validate checks the configuration for completeness. Defaults are assumed
// to be applied already.
func (c *Config) Validate() error {
	if c.Cloud == "" {
		return fmt.Errorf("cloud is required")
	}
	if !validClouds[c.Cloud] {
		return fmt.Errorf("cloud %q is not supported (aws, gcp)", c.Cloud)
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.GlobalEnv == "" {
		return fmt.Errorf("global_env is required")
	}
	if len(c.Nameservers) == 0 {
		return fmt.Errorf("at least one nameserver is required for the DNS delegation")
	}
	if c.WorkloadRoleARN != "" && c.Cloud != "aws" {
		return fmt.Errorf("workload_role_arn is only valid for cloud aws")
	}

	if (c.Uninstall.KubeconfigPath == "") != (c.Uninstall.PinetoolsImage == "") {
		return fmt.Errorf("uninstall requires both kubeconfig_path and pinetools_image")
	}

	switch c.State.Backend {
	case StateBackendFile:
	case StateBackendS3:
		if c.State.Bucket == "" || c.State.Key == "" {
			return fmt.Errorf("state backend s3 requires bucket and key")
		}
	default:
		return fmt.Errorf("state backend %q is not supported (file, s3)", c.State.Backend)
	}

	return nil
}

// APIKeyFromEnv returns the operator's admin key from the environment.
func APIKeyFromEnv() (string, error) {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return "", fmt.Errorf("%s is not set", EnvAPIKey)
	}
	return key, nil
}
