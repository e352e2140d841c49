package commands

import (
	"github.com/spf13/cobra"
	"github.com/systmms/vaultenv/internal/config"
	"github.com/systmms/vaultenv/internal/export"
	"github.com/systmms/vaultenv/internal/resolve"
	"github.com/systmms/vaultenv/internal/scan"
)

// RunExport executes the full pipeline: scan the environment, parse the
// references, authenticate, resolve every secret and write the export lines
// to the command's stdout. Any failure aborts before a single line is
// written.
func RunExport(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath, opts.Logger)
	if err != nil {
		return err
	}
	if opts.Prefix != "" {
		cfg.Prefix = opts.Prefix
	}

	vars := scan.Scan(opts.Environ(), cfg.Prefix)
	opts.Logger.Debug("Found %d indirection variable(s) with prefix %s", len(vars), cfg.Prefix)

	client := opts.NewClient(cfg.ClientConfig(), opts.Logger)
	resolver := resolve.New(client, opts.Logger)

	secrets, err := resolver.Resolve(cmd.Context(), vars)
	if err != nil {
		return err
	}

	return export.Write(cmd.OutOrStdout(), secrets)
}
