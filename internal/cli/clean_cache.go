package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/app"
)

type cleanCacheOptions struct {
	CacheDir string
	DryRun   bool
}

func newCleanCacheCommand() *cobra.Command {
	opts := cleanCacheOptions{}
	cmd := &cobra.Command{
		Use:   "clean-cache",
		Short: "Delete every cached closure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCleanCache(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Directory holding cached closures")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Only count the entries that would be deleted")
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))
	return cmd
}

func runCleanCache(ctx context.Context, cmd *cobra.Command, opts cleanCacheOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	result, err := service.CleanCache(ctx, app.CleanCacheRequest{
		CacheDir: resolveString(cmd, opts.CacheDir, "cache_dir", "cache-dir"),
		DryRun:   resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d cache entries\n", result.Removed)
	return nil
}
