// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoConfigVersion error is returned when the configuration does not specify
// config format version.
var ErrNoConfigVersion = errors.New("config format version not specified")

// ErrUnsupportedVersion is an error, which is returned when the config file
// uses an incompatible version format.
var ErrUnsupportedVersion = errors.New("unsupported config format version")

// ErrInvalidDuration is an error, which is returned when a duration setting
// cannot be parsed.
var ErrInvalidDuration = errors.New("invalid duration")

// ConfigFormatVersion represents the supported config format version.
const ConfigFormatVersion = "v1alpha1"

// GCP authentication methods/strategies for named credentials.
const (
	// GCPAuthenticationMethodNone specifies that Application Default
	// Credentials will be used when creating API clients.
	GCPAuthenticationMethodNone = "none"

	// GCPAuthenticationMethodKeyFile specifies that a service account JSON
	// key file will be used when creating API clients.
	GCPAuthenticationMethodKeyFile = "key_file"

	// GCPAuthenticationMethodKeyJSON specifies that an inline service
	// account JSON key will be used when creating API clients.
	GCPAuthenticationMethodKeyJSON = "key_json"

	// GCPAuthenticationMethodImpersonate specifies that a service account
	// will be impersonated when creating API clients.
	GCPAuthenticationMethodImpersonate = "impersonate"
)

// Config represents the ragctl configuration.
type Config struct {
	// Version is the version of the config file.
	Version string `yaml:"version"`

	// Debug configures debug mode, if set to true.
	Debug bool `yaml:"debug"`

	// Logging provides the logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// GCP provides the global Google Cloud configuration settings.
	GCP GCPConfig `yaml:"gcp"`

	// VertexRAG provides the Vertex AI RAG service configuration.
	VertexRAG VertexRAGConfig `yaml:"vertex_rag"`

	// SecretManager provides the Secret Manager configuration.
	SecretManager SecretManagerConfig `yaml:"secret_manager"`

	// Secrets is a mapping of application-defined keys to values, which
	// may contain `sm://` secret references. References are resolved
	// during the early startup phase, before any other component is
	// configured.
	Secrets map[string]string `yaml:"secrets"`

	// Serve provides the configuration of the HTTP retrieval service.
	Serve ServeConfig `yaml:"serve"`
}

// LoggingConfig provides the logging configuration settings.
type LoggingConfig struct {
	// Level specifies the log level to use, e.g. info, warn, error or
	// debug.
	Level string `yaml:"level"`

	// Format specifies the format of log events, e.g. text or json.
	Format string `yaml:"format"`

	// AddSource includes the source code position of log statements, if
	// set to true.
	AddSource bool `yaml:"add_source"`

	// Attributes provides default attributes to include with each log
	// event.
	Attributes map[string]any `yaml:"attributes"`
}

// GCPConfig provides the global Google Cloud specific configuration settings.
type GCPConfig struct {
	// Project is the default GCP Project ID to use, unless a service
	// overrides it.
	Project string `yaml:"project"`

	// UserAgent is the user agent string, which API clients present to
	// the GCP API endpoints.
	UserAgent string `yaml:"user_agent"`

	// Credentials provides the named credentials, which services refer to
	// via their `use_credentials` setting.
	Credentials map[string]GCPCredentialsConfig `yaml:"credentials"`
}

// GCPCredentialsConfig represents a given named credentials for GCP.
type GCPCredentialsConfig struct {
	// Authentication specifies the authentication method/strategy to use,
	// e.g. none, key_file, key_json or impersonate.
	Authentication string `yaml:"authentication"`

	// KeyFile provides the settings for `key_file` authentication.
	KeyFile GCPKeyFileConfig `yaml:"key_file"`

	// KeyJSON provides an inline service account JSON key for `key_json`
	// authentication.
	KeyJSON string `yaml:"key_json"`

	// Impersonate provides the settings for `impersonate` authentication.
	Impersonate GCPImpersonateConfig `yaml:"impersonate"`
}

// GCPKeyFileConfig provides the configuration settings for GCP JSON key file
// authentication.
type GCPKeyFileConfig struct {
	// Path specifies the path to the service account JSON key file.
	Path string `yaml:"path"`
}

// GCPImpersonateConfig provides the configuration settings for GCP service
// account impersonation.
type GCPImpersonateConfig struct {
	// TargetPrincipal is the service account to impersonate.
	TargetPrincipal string `yaml:"target_principal"`

	// Delegates is the optional chain of delegates required to grant the
	// final access token.
	Delegates []string `yaml:"delegates"`
}

// VertexRAGConfig provides the Vertex AI RAG service specific configuration
// settings.
type VertexRAGConfig struct {
	// Enabled specifies whether the Vertex AI RAG client will be
	// configured at all.
	Enabled bool `yaml:"enabled"`

	// UseCredentials specifies the named credentials to use when creating
	// the API client.
	UseCredentials string `yaml:"use_credentials"`

	// Endpoint overrides the default service endpoint, when specified.
	Endpoint string `yaml:"endpoint"`

	// Location is the GCP location against which RAG requests are made,
	// e.g. europe-west3.
	Location string `yaml:"location"`

	// QuotaProject overrides the project used for quota and billing, when
	// specified. It takes precedence over the project id derived from the
	// credentials.
	QuotaProject string `yaml:"quota_project"`

	// ConnectionPoolSize specifies the number of gRPC connections in the
	// connection pool of the API client, when specified.
	ConnectionPoolSize int `yaml:"connection_pool_size"`

	// RAGCorpus is the default RAG corpus to query.
	RAGCorpus string `yaml:"rag_corpus"`

	// Retry provides the service-level retry policy, which applies to all
	// RPC methods of the client, unless a method-level override exists.
	Retry *RetryConfig `yaml:"retry"`

	// MethodRetry provides method-level retry policy overrides. The keys
	// are the RPC method names, e.g. retrieve_contexts. Method-level
	// overrides take precedence over the service-level policy.
	MethodRetry map[string]*RetryConfig `yaml:"method_retry"`
}

// SecretManagerConfig provides the Secret Manager specific configuration
// settings.
type SecretManagerConfig struct {
	// Enabled specifies whether `sm://` secret references will be
	// resolved at all. When disabled, references pass through untouched.
	Enabled bool `yaml:"enabled"`

	// UseCredentials specifies the named credentials to use when creating
	// the API client.
	UseCredentials string `yaml:"use_credentials"`

	// Project is the GCP Project ID against which short secret references
	// are resolved. It takes precedence over the global GCP project.
	Project string `yaml:"project"`

	// Endpoint overrides the default service endpoint, when specified.
	Endpoint string `yaml:"endpoint"`

	// AllowMissing specifies whether a missing secret resolves to an
	// empty value instead of an error.
	AllowMissing bool `yaml:"allow_missing"`
}

// RetryConfig represents a retry policy for API calls.
type RetryConfig struct {
	// MaxAttempts is the max number of call attempts, including the
	// initial one. Zero means no attempt cap.
	MaxAttempts int `yaml:"max_attempts"`

	// InitialDelay is the delay before the first retry.
	InitialDelay Duration `yaml:"initial_delay"`

	// MaxDelay is the upper bound of the retry delay.
	MaxDelay Duration `yaml:"max_delay"`

	// Multiplier is the factor by which the retry delay grows after each
	// failed attempt.
	Multiplier float64 `yaml:"multiplier"`

	// Timeout is the total timeout of a single call, including retries.
	Timeout Duration `yaml:"timeout"`

	// RetryOn specifies the gRPC status codes considered retryable, e.g.
	// UNAVAILABLE or DEADLINE_EXCEEDED.
	RetryOn []string `yaml:"retry_on"`
}

// ServeConfig provides the configuration of the HTTP retrieval service.
type ServeConfig struct {
	// Address is the network address on which the HTTP service listens.
	Address string `yaml:"address"`

	// MetricsAddress is the network address on which metrics are exposed.
	// When empty, metrics are served on [ServeConfig.Address] instead.
	MetricsAddress string `yaml:"metrics_address"`

	// MetricsPath is the HTTP path on which metrics are exposed.
	MetricsPath string `yaml:"metrics_path"`
}

// Duration is a [time.Duration], which knows how to unmarshal itself from a
// YAML string such as `30s` or `1m`.
type Duration time.Duration

// UnmarshalYAML implements the [yaml.Unmarshaler] interface.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, s)
	}

	*d = Duration(parsed)

	return nil
}

// Duration returns the setting as a [time.Duration].
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Parse parses the config from the given path.
func Parse(path string) (*Config, error) {
	var conf Config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, err
	}

	if conf.Version == "" {
		return nil, ErrNoConfigVersion
	}

	if conf.Version != ConfigFormatVersion {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, conf.Version)
	}

	return &conf, nil
}

// MustParse parses the config from the given path, or panics in case of errors.
func MustParse(path string) *Config {
	config, err := Parse(path)
	if err != nil {
		panic(err)
	}

	return config
}
