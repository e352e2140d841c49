// Package config assembles the runtime configuration from the process
// environment, optionally layered over a vaultenv.yaml file.
//
// The three credentials (address, role-id, secret-id) must come from the
// environment: a CI job injects them per run and a file on disk is the wrong
// place for them. The file may only supply connection defaults (namespace,
// prefix, TLS settings), and the environment always wins over the file.
package config

import (
	"os"
	"strings"

	verrors "github.com/systmms/vaultenv/internal/errors"
	"github.com/systmms/vaultenv/internal/logging"
	"github.com/systmms/vaultenv/internal/scan"
	"github.com/systmms/vaultenv/internal/secure"
	"github.com/systmms/vaultenv/internal/vault"
	"gopkg.in/yaml.v3"
)

// Environment variable names read by the tool.
const (
	EnvAddr       = "VAULT_ADDR"
	EnvRoleID     = "VAULT_ROLE_ID"
	EnvSecretID   = "VAULT_SECRET_ID"
	EnvNamespace  = "VAULT_NAMESPACE"
	EnvVarPrefix  = "VAULT_VAR_PREFIX"
	EnvCACert     = "VAULT_CACERT"
	EnvSkipVerify = "VAULT_SKIP_VERIFY"
)

// required lists the variables whose absence is a usage error. Checked as a
// pre-flight batch so the operator sees every missing name at once.
var required = []string{EnvAddr, EnvRoleID, EnvSecretID}

// Config is the immutable runtime configuration. It is built once per
// invocation and passed explicitly into each pipeline stage; no global state
// outlives the run.
type Config struct {
	Address   string
	RoleID    string
	SecretID  *secure.Buffer
	Namespace string
	Prefix    string
	CACert    string
	TLSSkip   bool

	Logger *logging.Logger
}

// File is the vaultenv.yaml structure. Credentials are deliberately not
// representable here.
type File struct {
	Namespace string `yaml:"namespace,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	CACert    string `yaml:"ca_cert,omitempty"`
	TLSSkip   bool   `yaml:"tls_skip,omitempty"`
}

// Load builds the configuration: defaults, then the file at path (if it
// exists), then the environment. Missing required variables are collected
// into a single MissingConfigError before any store interaction.
func Load(path string, logger *logging.Logger) (*Config, error) {
	cfg := &Config{
		Prefix: scan.DefaultPrefix,
		Logger: logger,
	}

	if path != "" {
		file, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if file != nil {
			if file.Namespace != "" {
				cfg.Namespace = file.Namespace
			}
			if file.Prefix != "" {
				cfg.Prefix = file.Prefix
			}
			if file.CACert != "" {
				cfg.CACert = file.CACert
			}
			if file.TLSSkip {
				cfg.TLSSkip = true
			}
		}
	}

	var missing []string
	for _, name := range required {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, verrors.MissingConfigError{Missing: missing}
	}

	cfg.Address = os.Getenv(EnvAddr)
	cfg.RoleID = os.Getenv(EnvRoleID)
	cfg.SecretID = secure.NewBuffer([]byte(os.Getenv(EnvSecretID)))

	if ns := os.Getenv(EnvNamespace); ns != "" {
		cfg.Namespace = ns
	}
	if prefix := os.Getenv(EnvVarPrefix); prefix != "" {
		cfg.Prefix = prefix
	}
	if caCert := os.Getenv(EnvCACert); caCert != "" {
		cfg.CACert = caCert
	}
	if skip := os.Getenv(EnvSkipVerify); skip == "1" || strings.ToLower(skip) == "true" {
		cfg.TLSSkip = true
	}

	return cfg, nil
}

// ClientConfig derives the store client configuration.
func (c *Config) ClientConfig() vault.Config {
	return vault.Config{
		Address:   c.Address,
		RoleID:    c.RoleID,
		SecretID:  c.SecretID,
		Namespace: c.Namespace,
		CACert:    c.CACert,
		TLSSkip:   c.TLSSkip,
	}
}

// loadFile reads and validates vaultenv.yaml. A missing file is not an
// error: the file is an optional convenience layer.
func loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, verrors.ConfigFileError{
			Path:    path,
			Message: "cannot read file",
			Err:     err,
		}
	}

	if err := validateFile(data, path); err != nil {
		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, verrors.ConfigFileError{
			Path:    path,
			Message: "invalid YAML",
			Err:     err,
		}
	}
	return &file, nil
}
