package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultenv/internal/config"
	"github.com/systmms/vaultenv/internal/ref"
	"github.com/systmms/vaultenv/internal/scan"
)

// NewDoctorCommand diagnoses the invocation environment without emitting any
// export lines. By default it stays offline; --login adds a connectivity and
// authentication round-trip.
func NewDoctorCommand(opts *Options) *cobra.Command {
	var tryLogin bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and secret references",
		Long: `Verify that the environment is ready for an export run.

This command checks:
- Required environment variables (VAULT_ADDR, VAULT_ROLE_ID, VAULT_SECRET_ID)
- The optional config file, if present
- That every indirection variable parses as <mount_point>/<path>/<key>

With --login it additionally performs an AppRole login against the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger
			healthy := true

			for _, name := range []string{config.EnvAddr, config.EnvRoleID, config.EnvSecretID} {
				if os.Getenv(name) == "" {
					logger.Error("%s is not set", name)
					healthy = false
				} else {
					logger.Info("%s is set", name)
				}
			}

			cfg, err := config.Load(opts.ConfigPath, logger)
			if err != nil {
				logger.Error("Configuration: %v", err)
				return err
			}
			logger.Info("Configuration loaded")
			if opts.Prefix != "" {
				cfg.Prefix = opts.Prefix
			}

			vars := scan.Scan(opts.Environ(), cfg.Prefix)
			logger.Info("Found %d indirection variable(s) with prefix %s", len(vars), cfg.Prefix)

			for _, v := range vars {
				if _, err := ref.Parse(v.Name, v.Raw); err != nil {
					logger.Error("%v", err)
					healthy = false
				} else {
					logger.Info("%s parses", v.Name)
				}
			}

			if tryLogin {
				client := opts.NewClient(cfg.ClientConfig(), logger)
				if err := client.Login(cmd.Context()); err != nil {
					logger.Error("Login failed: %v", err)
					healthy = false
				} else if !client.Authenticated() {
					logger.Error("Login did not yield an authenticated session")
					healthy = false
				} else {
					logger.Info("AppRole login succeeded")
				}
			}

			if !healthy {
				return fmt.Errorf("doctor found problems, see messages above")
			}
			logger.Info("Everything looks ready")
			return nil
		},
	}

	cmd.Flags().BoolVar(&tryLogin, "login", false, "Also perform an AppRole login against the server")

	return cmd
}
