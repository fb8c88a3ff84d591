package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/app"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

type convertOptions struct {
	Repository  string
	ToCode      bool
	ToEclipse   bool
	CacheDir    string
	CleanCache  bool
	NoCache     bool
	DryRun      bool
	VSCode      bool
	Report      string
	MetricsFile string
}

func newConvertCommand() *cobra.Command {
	opts := convertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <project-root> <modules>...",
		Short: "Write resolved bundles into module classpaths, or remove them again",
		Long: "Resolves every module's Require-Bundle closure against a p2 repository and\n" +
			"adds the matching jars to the module's .classpath (--to-code, the default).\n" +
			"--to-eclipse removes the added entries and restores the original descriptor.\n" +
			"Modules may be given as separate arguments or as one space separated string.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Repository, "p2", "", "p2 repository directory")
	cmd.Flags().BoolVar(&opts.ToCode, "to-code", false, "Materialize resolved bundles into classpaths")
	cmd.Flags().BoolVar(&opts.ToEclipse, "to-eclipse", false, "Restore classpaths to their original state")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Directory holding cached closures")
	cmd.Flags().BoolVar(&opts.CleanCache, "clean-cache", false, "Drop cached closures of the given modules before resolving")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Do not write resolved closures to the cache")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print a diff instead of writing files")
	cmd.Flags().BoolVar(&opts.VSCode, "vscode", false, "Also update .vscode/settings.json referenced libraries")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Write a YAML resolution report to this file")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write prometheus metrics to this file")

	_ = viper.BindPFlag("p2", cmd.Flags().Lookup("p2"))
	_ = viper.BindPFlag("cache_dir", cmd.Flags().Lookup("cache-dir"))
	_ = viper.BindPFlag("clean_cache", cmd.Flags().Lookup("clean-cache"))
	_ = viper.BindPFlag("no_cache", cmd.Flags().Lookup("no-cache"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("vscode", cmd.Flags().Lookup("vscode"))
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("metrics_file", cmd.Flags().Lookup("metrics-file"))

	return cmd
}

func runConvert(ctx context.Context, cmd *cobra.Command, args []string, opts convertOptions) error {
	direction, err := resolveDirection(cmd, opts)
	if err != nil {
		return err
	}
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	root, modules := projectTargets(args)
	result, err := service.Convert(ctx, app.ConvertRequest{
		ProjectRoot: root,
		Modules:     modules,
		Repository:  resolveString(cmd, opts.Repository, "p2", "p2"),
		Direction:   direction,
		CacheDir:    resolveString(cmd, opts.CacheDir, "cache_dir", "cache-dir"),
		CleanCache:  resolveBool(cmd, opts.CleanCache, "clean_cache", "clean-cache"),
		NoCache:     resolveBool(cmd, opts.NoCache, "no_cache", "no-cache"),
		DryRun:      resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
		VSCode:      resolveBool(cmd, opts.VSCode, "vscode", "vscode"),
		ReportPath:  resolveString(cmd, opts.Report, "report", "report"),
		MetricsFile: resolveString(cmd, opts.MetricsFile, "metrics_file", "metrics-file"),
	})
	out := cmd.OutOrStdout()
	for _, module := range result.Modules {
		switch {
		case !module.Changed:
			fmt.Fprintf(out, "unchanged: %s\n", module.Module)
		case module.Direction == types.DirectionToEclipse:
			fmt.Fprintf(out, "restored: %s\n", module.Module)
		default:
			fmt.Fprintf(out, "materialized: %s (%d bundles, %d entries)\n", module.Module, len(module.Bundles), module.Entries)
		}
	}
	return err
}

// resolveDirection maps the two direction flags (or the `direction`
// config key) onto a single direction.
func resolveDirection(cmd *cobra.Command, opts convertOptions) (types.Direction, error) {
	toCode := flagChanged(cmd, "to-code") && opts.ToCode
	toEclipse := flagChanged(cmd, "to-eclipse") && opts.ToEclipse
	switch {
	case toCode && toEclipse:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--to-code and --to-eclipse are mutually exclusive")
	case toCode:
		return types.DirectionToCode, nil
	case toEclipse:
		return types.DirectionToEclipse, nil
	}
	return types.Direction(viper.GetString("direction")), nil
}
