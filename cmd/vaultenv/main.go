package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"github.com/systmms/vaultenv/cmd/vaultenv/commands"
	verrors "github.com/systmms/vaultenv/internal/errors"
	"github.com/systmms/vaultenv/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Wipe any remaining credential enclaves on the way out.
	defer memguard.Purge()

	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if verrors.CategoryOf(err) == verrors.CategoryUsage {
			fmt.Fprint(os.Stderr, rootCmd.UsageString())
		}
		memguard.Purge()
		os.Exit(verrors.ExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := commands.NewOptions()

	rootCmd := &cobra.Command{
		Use:   "vaultenv",
		Short: "Export Vault secrets as shell environment variables",
		Long: `vaultenv resolves V_* environment variables into Vault secrets and
prints export statements for the calling shell:

  export VAULT_ADDR=https://vault.example.com:8200
  export VAULT_ROLE_ID=... VAULT_SECRET_ID=...
  export V_DB_PASSWORD=secret/myapp/db/password
  eval "$(vaultenv)"     # DB_PASSWORD now holds the secret

Each V_* value is a reference of the form <mount_point>/<path>/<key>. The
tool logs in once with AppRole credentials, reads the latest version of each
referenced KV v2 secret and emits one export line per variable. Exit status
is 2 for configuration problems and 1 for data or access problems.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.Logger = logging.New(opts.Debug, opts.NoColor)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunExport(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "vaultenv.yaml", "Config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&opts.Prefix, "prefix", "", "Indirection variable prefix (overrides VAULT_VAR_PREFIX)")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		commands.NewDoctorCommand(opts),
	)

	return rootCmd
}
