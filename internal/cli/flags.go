package cli

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/app"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

func newAppService(cmd *cobra.Command) (app.Service, error) {
	layout, err := loadLayout()
	if err != nil {
		return app.Service{}, err
	}
	service := app.NewService()
	service.Layout = layout
	if cmd != nil {
		service.Out = cmd.OutOrStdout()
	}
	return service, nil
}

// loadLayout applies the `layout` config section over the defaults.
func loadLayout() (types.Layout, error) {
	layout := types.DefaultLayout()
	if !viper.IsSet("layout") {
		return layout, nil
	}
	if err := viper.UnmarshalKey("layout", &layout); err != nil {
		return types.Layout{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid layout configuration").
			WithCause(err)
	}
	return layout.WithDefaults(), nil
}

// projectTargets reads the project root and module list from positional
// arguments, falling back to configuration.
func projectTargets(args []string) (string, []string) {
	root := viper.GetString("project_root")
	modules := viper.GetStringSlice("modules")
	if len(args) > 0 {
		root = args[0]
	}
	if len(args) > 1 {
		modules = args[1:]
	}
	return root, app.ParseModules(modules...)
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
