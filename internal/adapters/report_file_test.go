package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

func TestReportFileAdapter_WriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.yaml")
	report := types.ResolutionReport{
		ProjectRoot: "/work/rao",
		Repository:  "/work/p2",
		CreatedAt:   "2026-01-02T03:04:05Z",
		Modules: []types.ModuleReport{
			{
				Module:    "ru.bmstu.rk9.rao",
				Bundle:    "ru.bmstu.rk9.rao",
				Direction: types.DirectionToCode,
				Changed:   true,
				Bundles: []types.BundleRecord{
					{Name: "org.eclipse.ui", Artifacts: []string{"/work/p2/pool/plugins/org.eclipse.ui_3.1.0.jar"}},
				},
			},
			{Module: "ru.bmstu.rk9.rao.lib", Bundle: "ru.bmstu.rk9.rao.lib", Direction: types.DirectionToCode, FromCache: true},
		},
	}
	adapter := NewReportFileAdapter()
	require.NoError(t, adapter.WriteReport(path, report))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "from_cache: true")
	assert.Contains(t, string(content), "direction: to-code")

	got, err := adapter.ReadReport(path)
	require.NoError(t, err)
	if diff := cmp.Diff(report, got); diff != "" {
		t.Fatalf("unexpected report (-want +got):\n%s", diff)
	}
}

func TestReportFileAdapter_Errors(t *testing.T) {
	adapter := NewReportFileAdapter()

	err := adapter.WriteReport(" ", types.ResolutionReport{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = adapter.ReadReport(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("modules: [unterminated"), 0644))
	_, err = adapter.ReadReport(bad)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
