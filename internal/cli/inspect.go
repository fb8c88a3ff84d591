package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/app"
)

type inspectOptions struct {
	Report string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a resolution report written by convert --report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Report, "report", "", "Resolution report file")
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service, err := newAppService(cmd)
	if err != nil {
		return err
	}
	result, err := service.Inspect(app.InspectRequest{
		ReportPath: resolveString(cmd, opts.Report, "report", "report"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "project: %s\n", result.ProjectRoot)
	if result.Repository != "" {
		fmt.Fprintf(out, "repository: %s\n", result.Repository)
	}
	fmt.Fprintf(out, "created: %s\n", result.CreatedAt)
	for _, module := range result.Modules {
		flags := ""
		if module.FromCache {
			flags += " cached"
		}
		if module.Changed {
			flags += " changed"
		}
		fmt.Fprintf(out, "- %s [%s%s]: %d bundles, %d artifacts\n", module.Module, module.Direction, flags, module.Bundles, module.Artifacts)
	}
	fmt.Fprintf(out, "distinct artifacts: %d\n", result.Artifacts)
	return nil
}
