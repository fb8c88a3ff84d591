package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/adapters"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/core"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/metrics"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

// converter carries the adapters of one Convert call.
type converter struct {
	req       ConvertRequest
	layout    types.Layout
	engine    core.ResolutionEngine
	cache     adapters.CacheFileAdapter
	classpath adapters.ClasspathFileAdapter
	settings  adapters.SettingsFileAdapter
	recorder  *metrics.Recorder
}

// Convert materializes (to-code) or reverts (to-eclipse) the classpath of
// every requested module. Modules are processed in order; a failing module
// does not stop the others and all failures are returned together.
func (s Service) Convert(ctx context.Context, req ConvertRequest) (ConvertResult, error) {
	req, err := s.validateConvert(req)
	if err != nil {
		return ConvertResult{}, err
	}
	c := s.newConverter(req)

	report := types.ResolutionReport{
		ProjectRoot: req.ProjectRoot,
		Repository:  req.Repository,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}
	var result ConvertResult
	var failures []error
	for _, module := range req.Modules {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger := log.Ctx(ctx).With().Str("module", module).Str("direction", string(req.Direction)).Logger()
		project := core.NewProject(req.ProjectRoot, module)

		var moduleResult ModuleResult
		if req.Direction == types.DirectionToCode {
			moduleResult, err = c.materialize(logger.WithContext(ctx), project)
		} else {
			moduleResult, err = c.restore(logger.WithContext(ctx), project)
		}
		if err != nil {
			logger.Error().Err(err).Msg("module conversion failed")
			failures = append(failures, moduleError(module, err))
			continue
		}
		if moduleResult.Diff != "" {
			fmt.Fprint(s.out(), moduleResult.Diff)
		}
		result.Modules = append(result.Modules, moduleResult)
		report.Modules = append(report.Modules, types.ModuleReport{
			Module:    moduleResult.Module,
			Bundle:    moduleResult.Bundle,
			Direction: moduleResult.Direction,
			FromCache: moduleResult.FromCache,
			Changed:   moduleResult.Changed,
			Bundles:   moduleResult.Bundles,
		})
	}

	if req.ReportPath != "" {
		if err := s.Reports.WriteReport(req.ReportPath, report); err != nil {
			failures = append(failures, err)
		}
	}
	if req.MetricsFile != "" {
		if err := c.recorder.WriteTextfile(req.MetricsFile); err != nil {
			failures = append(failures, err)
		}
	}
	return result, joinFailures(failures)
}

func (s Service) newConverter(req ConvertRequest) converter {
	layout := s.layout()
	c := converter{
		req:       req,
		layout:    layout,
		classpath: adapters.NewClasspathFileAdapter(layout),
		settings:  adapters.NewSettingsFileAdapter(layout),
		recorder:  metrics.NewRecorder(),
	}
	c.classpath.DryRun = req.DryRun
	c.settings.DryRun = req.DryRun
	if req.Direction == types.DirectionToCode {
		c.cache = adapters.NewCacheFileAdapter(req.CacheDir, layout)
		c.cache.DryRun = req.DryRun
		repository := adapters.NewArtifactPoolAdapter(req.Repository, layout)
		c.engine = core.NewResolutionEngine(core.NewSources(repository, s.Workspace, layout), c.cache).
			WithObserver(c.recorder)
	}
	return c
}

func (c converter) materialize(ctx context.Context, project core.Project) (ModuleResult, error) {
	logger := log.Ctx(ctx)
	root := core.NewProjectBundle(project)
	if c.req.CleanCache {
		if err := c.cache.Delete(root.Name()); err != nil {
			return ModuleResult{}, err
		}
	}
	resolution, err := c.engine.Resolve(ctx, root, core.ResolveOptions{
		Refresh: c.req.CleanCache,
		NoCache: c.req.NoCache,
	})
	if err != nil {
		return ModuleResult{}, err
	}
	paths := c.engine.ArtifactPaths(resolution.Bundles)

	edit, err := c.classpath.Merge(project.ClasspathPath(c.layout), paths)
	if err != nil {
		return ModuleResult{}, err
	}
	result := ModuleResult{
		Module:    project.Module,
		Bundle:    root.Name(),
		Direction: types.DirectionToCode,
		FromCache: resolution.FromCache,
		Changed:   edit.Changed,
		Bundles:   bundleRecords(c.engine, resolution.Bundles),
	}
	if edit.Changed {
		result.Entries = len(paths)
		c.recorder.EntriesWritten(project.Module, len(paths))
	} else {
		logger.Info().Msg("classpath already holds resolved bundles; revert first to refresh it")
	}
	if c.req.VSCode {
		result.SettingsChanged, err = c.settings.MergeLibraries(project.SettingsPath(c.layout), paths)
		if err != nil {
			return ModuleResult{}, err
		}
	}
	if c.req.DryRun {
		result.Diff = adapters.UnifiedDiff(edit)
	}
	logger.Info().
		Str("bundle", root.Name()).
		Int("bundles", len(resolution.Bundles)).
		Int("entries", result.Entries).
		Bool("from_cache", resolution.FromCache).
		Msg("classpath materialized")
	return result, nil
}

func (c converter) restore(ctx context.Context, project core.Project) (ModuleResult, error) {
	edit, err := c.classpath.Revert(project.ClasspathPath(c.layout))
	if err != nil {
		return ModuleResult{}, err
	}
	result := ModuleResult{
		Module:    project.Module,
		Bundle:    project.Name(),
		Direction: types.DirectionToEclipse,
		Changed:   edit.Changed,
	}
	if c.req.VSCode {
		result.SettingsChanged, err = c.settings.RemoveLibraries(project.SettingsPath(c.layout))
		if err != nil {
			return ModuleResult{}, err
		}
	}
	if c.req.DryRun {
		result.Diff = adapters.UnifiedDiff(edit)
	}
	log.Ctx(ctx).Info().Bool("changed", edit.Changed).Msg("classpath restored")
	return result, nil
}

func bundleRecords(engine core.ResolutionEngine, bundles []core.Bundle) []types.BundleRecord {
	records := make([]types.BundleRecord, 0, len(bundles))
	for _, bundle := range bundles {
		records = append(records, types.BundleRecord{
			Name:      bundle.Name(),
			Artifacts: engine.ArtifactPaths([]core.Bundle{bundle}),
		})
	}
	return records
}

func moduleError(module string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeOf(err)).
		WithMsg("module " + module + ": " + errorMessage(err)).
		WithCause(err)
}

// joinFailures keeps the code of the first failure so the exit status
// reflects it.
func joinFailures(failures []error) error {
	switch len(failures) {
	case 0:
		return nil
	case 1:
		return failures[0]
	}
	messages := make([]string, 0, len(failures))
	for _, failure := range failures {
		messages = append(messages, errorMessage(failure))
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeOf(failures[0])).
		WithMsg(fmt.Sprintf("%d failures: %s", len(failures), strings.Join(messages, "; "))).
		WithCause(failures[0])
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
