package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Inspect summarizes a resolution report written by Convert.
func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	path := strings.TrimSpace(req.ReportPath)
	if path == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("report path is required")
	}
	report, err := s.Reports.ReadReport(path)
	if err != nil {
		return InspectResult{}, err
	}

	result := InspectResult{
		ProjectRoot: report.ProjectRoot,
		Repository:  report.Repository,
		CreatedAt:   report.CreatedAt,
	}
	seen := map[string]struct{}{}
	for _, module := range report.Modules {
		summary := InspectModuleSummary{
			Module:    module.Module,
			Direction: module.Direction,
			FromCache: module.FromCache,
			Changed:   module.Changed,
			Bundles:   len(module.Bundles),
		}
		for _, bundle := range module.Bundles {
			summary.Artifacts += len(bundle.Artifacts)
			for _, artifact := range bundle.Artifacts {
				seen[artifact] = struct{}{}
			}
		}
		result.Modules = append(result.Modules, summary)
	}
	result.Artifacts = len(seen)
	return result, nil
}
