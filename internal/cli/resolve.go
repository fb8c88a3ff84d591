package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/app"
)

type resolveOptions struct {
	Repository string
	CacheDir   string
	Refresh    bool
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve <project-root> <modules>...",
		Short: "Print each module's resolved bundles without changing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Repository, "p2", "", "p2 repository directory")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Directory holding cached closures (read only)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Ignore cached closures")

	_ = viper.BindPFlag("p2", cmd.Flags().Lookup("p2"))
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))
	_ = viper.BindPFlag("refresh", cmd.Flags().Lookup("refresh"))

	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, args []string, opts resolveOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	root, modules := projectTargets(args)
	result, err := service.Resolve(ctx, app.ResolveRequest{
		ProjectRoot: root,
		Modules:     modules,
		Repository:  resolveString(cmd, opts.Repository, "p2", "p2"),
		CacheDir:    resolveString(cmd, opts.CacheDir, "cache_dir", "cache-dir"),
		Refresh:     resolveBool(cmd, opts.Refresh, "refresh", "refresh"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, module := range result.Modules {
		source := "repository"
		if module.FromCache {
			source = "cache"
		}
		fmt.Fprintf(out, "%s (%s, %d bundles)\n", module.Module, source, len(module.Bundles))
		for _, bundle := range module.Bundles {
			fmt.Fprintf(out, "  %s\n", bundle.Name)
			for _, artifact := range bundle.Artifacts {
				fmt.Fprintf(out, "    %s\n", artifact)
			}
		}
	}
	return nil
}
