package commands

import (
	"os"

	"github.com/systmms/vaultenv/internal/logging"
	"github.com/systmms/vaultenv/internal/vault"
)

// Options carries global flag state and the seams commands need. The seams
// (client constructor, environment source) default to the real thing and are
// replaced in tests.
type Options struct {
	ConfigPath string
	Prefix     string
	Debug      bool
	NoColor    bool

	Logger *logging.Logger

	// NewClient builds the store client. Defaults to the HTTP client.
	NewClient func(cfg vault.Config, logger *logging.Logger) vault.Client

	// Environ supplies the process environment. Defaults to os.Environ.
	Environ func() []string
}

// NewOptions returns Options wired to the real process environment.
func NewOptions() *Options {
	return &Options{
		NewClient: func(cfg vault.Config, logger *logging.Logger) vault.Client {
			return vault.NewHTTPClient(cfg, logger)
		},
		Environ: os.Environ,
	}
}
