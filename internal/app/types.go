package app

import "github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"

type ConvertRequest struct {
	ProjectRoot string
	Modules     []string
	Repository  string
	Direction   types.Direction
	CacheDir    string
	CleanCache  bool
	NoCache     bool
	DryRun      bool
	VSCode      bool
	ReportPath  string
	MetricsFile string
}

type ConvertResult struct {
	Modules []ModuleResult
}

type ModuleResult struct {
	Module          string
	Bundle          string
	Direction       types.Direction
	FromCache       bool
	Changed         bool
	SettingsChanged bool
	Entries         int
	Bundles         []types.BundleRecord
	Diff            string
}

type ResolveRequest struct {
	ProjectRoot string
	Modules     []string
	Repository  string
	CacheDir    string
	Refresh     bool
}

type ResolveResult struct {
	Modules []ModuleResolution
}

type ModuleResolution struct {
	Module    string
	Bundle    string
	FromCache bool
	Bundles   []types.BundleRecord
}

type CleanCacheRequest struct {
	CacheDir string
	DryRun   bool
}

type CleanCacheResult struct {
	Removed int
}

type InspectRequest struct {
	ReportPath string
}

type InspectResult struct {
	ProjectRoot string
	Repository  string
	CreatedAt   string
	Modules     []InspectModuleSummary
	// Artifacts counts distinct artifact paths across all modules.
	Artifacts int
}

type InspectModuleSummary struct {
	Module    string
	Direction types.Direction
	FromCache bool
	Changed   bool
	Bundles   int
	Artifacts int
}
