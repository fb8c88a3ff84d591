package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/adapters"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/core"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
)

// Resolve computes each module's closure without touching the project or
// writing the cache. An existing cache entry is used unless Refresh is set.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	req, err := s.validateResolve(req)
	if err != nil {
		return ResolveResult{}, err
	}
	layout := s.layout()
	var cache ports.CachePort
	if req.CacheDir != "" {
		cache = adapters.NewCacheFileAdapter(req.CacheDir, layout)
	}
	repository := adapters.NewArtifactPoolAdapter(req.Repository, layout)
	engine := core.NewResolutionEngine(core.NewSources(repository, s.Workspace, layout), cache)

	var result ResolveResult
	for _, module := range req.Modules {
		project := core.NewProject(req.ProjectRoot, module)
		resolution, err := engine.Resolve(ctx, core.NewProjectBundle(project), core.ResolveOptions{
			Refresh: req.Refresh,
			NoCache: true,
		})
		if err != nil {
			return ResolveResult{}, moduleError(module, err)
		}
		log.Ctx(ctx).Debug().
			Str("module", module).
			Int("bundles", len(resolution.Bundles)).
			Msg("module resolved")
		result.Modules = append(result.Modules, ModuleResolution{
			Module:    module,
			Bundle:    project.Name(),
			FromCache: resolution.FromCache,
			Bundles:   bundleRecords(engine, resolution.Bundles),
		})
	}
	return result, nil
}
