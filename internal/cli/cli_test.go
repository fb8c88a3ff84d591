package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
	"github.com/MisterPotz/eclipse-vscode-light-converter/tests/testutil"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"convert", "resolve", "clean-cache", "inspect"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestConvertCommandFlags(t *testing.T) {
	cmd := newConvertCommand()
	flags := []string{
		"p2", "to-code", "to-eclipse", "cache-dir",
		"clean-cache", "no-cache", "dry-run", "vscode",
		"report", "metrics-file",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
}

func TestResolveCommandFlags(t *testing.T) {
	cmd := newResolveCommand()
	for _, name := range []string{"p2", "cache-dir", "refresh"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

// ---------- Direction tests ----------

func TestResolveDirection(t *testing.T) {
	tests := []struct {
		name     string
		set      []string
		expected types.Direction
		wantErr  bool
	}{
		{name: "default", expected: ""},
		{name: "to code", set: []string{"to-code"}, expected: types.DirectionToCode},
		{name: "to eclipse", set: []string{"to-eclipse"}, expected: types.DirectionToEclipse},
		{name: "both", set: []string{"to-code", "to-eclipse"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newConvertCommand()
			opts := convertOptions{}
			for _, name := range tt.set {
				require.NoError(t, cmd.Flags().Set(name, "true"))
			}
			opts.ToCode, _ = cmd.Flags().GetBool("to-code")
			opts.ToEclipse, _ = cmd.Flags().GetBool("to-eclipse")
			got, err := resolveDirection(cmd, opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 2, exitCodeForError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestConvertCommandEndToEnd(t *testing.T) {
	fixture := testutil.NewFixture(t)
	fixture.AddModule(t, "ru.app", "org.b;visibility:=reexport")
	fixture.AddBundle(t, "org.b", "1.0.0", "")

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{
		"convert", fixture.Root, "ru.app",
		"--p2", fixture.Repository,
		"--cache-dir", fixture.CacheDir,
		"--to-code",
	})
	require.NoError(t, root.ExecuteContext(t.Context()))
	assert.Contains(t, out.String(), "materialized: ru.app (1 bundles, 1 entries)")
	assert.Contains(t, fixture.ReadFile(t, "ru.app", ".classpath"), "org.b_1.0.0.jar")

	out.Reset()
	root = newRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"convert", fixture.Root, "ru.app", "--to-eclipse"})
	require.NoError(t, root.ExecuteContext(t.Context()))
	assert.Contains(t, out.String(), "restored: ru.app")
	assert.Equal(t, testutil.PristineClasspath, fixture.ReadFile(t, "ru.app", ".classpath"))
}

func TestLoadLayoutFromConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	config := filepath.Join(t.TempDir(), "classpath-installer.yaml")
	require.NoError(t, os.WriteFile(config, []byte("layout:\n  pool_dir: plugins\n  cache_suffix: .closure\n"), 0644))
	require.NoError(t, initConfig(config))

	layout, err := loadLayout()
	require.NoError(t, err)
	assert.Equal(t, "plugins", layout.PoolDir)
	assert.Equal(t, ".closure", layout.CacheSuffix)
	assert.Equal(t, types.DefaultLayout().ManifestPath, layout.ManifestPath)
}

func TestInitConfigMissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	err := initConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestProjectTargets(t *testing.T) {
	root, modules := projectTargets([]string{"/work", "ru.a ru.b", "ru.c"})
	assert.Equal(t, "/work", root)
	assert.Equal(t, []string{"ru.a", "ru.b", "ru.c"}, modules)
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveBool(t *testing.T) {
	got := resolveBool(nil, true, "test_key", "test-flag")
	assert.True(t, got)

	got = resolveBool(nil, false, "test_key", "test-flag")
	assert.False(t, got)
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("project root is required"),
			expected: 2,
		},
		{
			name: "already exists",
			err: errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg("dup"),
			expected: 2,
		},
		{
			name: "permission denied",
			err: errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("nope"),
			expected: 3,
		},
		{
			name: "missing closing tag",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("closing tag </classpath> not found in /p/.classpath"),
			expected: 4,
		},
		{
			name: "dependency cycle",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("dependency cycle detected: a -> b -> a"),
			expected: 4,
		},
		{
			name: "module directory missing",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("module directory not found: /p/ru.x"),
			expected: 5,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
