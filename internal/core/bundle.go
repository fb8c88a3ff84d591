package core

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

// Sources groups everything a Bundle needs to populate itself.
type Sources struct {
	Repository ports.RepositoryPort
	Workspace  ports.WorkspacePort
	Parser     MetadataParser
	Layout     types.Layout
}

func NewSources(repository ports.RepositoryPort, workspace ports.WorkspacePort, layout types.Layout) Sources {
	layout = layout.WithDefaults()
	return Sources{
		Repository: repository,
		Workspace:  workspace,
		Parser:     NewMetadataParser(layout),
		Layout:     layout,
	}
}

// Bundle is a node of the dependency graph. It is either repository
// resident (*RepositoryBundle) or project resident (*ProjectBundle); two
// bundles with the same name are the same node.
type Bundle interface {
	Name() string
	Role() types.BundleRole
	Artifacts() []string
	Dependencies() []types.Dependency
	PopulateArtifacts(ctx context.Context, src Sources) error
	PopulateDependencies(ctx context.Context, src Sources, force bool) error

	// propagated returns the dependencies that contribute to the closure at
	// this bundle's level.
	propagated(siblings map[string]struct{}) []types.Dependency
}

type bundleState struct {
	name               string
	artifacts          []string
	dependencies       []types.Dependency
	artifactsLoaded    bool
	dependenciesLoaded bool
}

func (s *bundleState) Name() string {
	return s.name
}

func (s *bundleState) Artifacts() []string {
	return s.artifacts
}

func (s *bundleState) Dependencies() []types.Dependency {
	return s.dependencies
}

// PopulateArtifacts scans the repository pool once for archives matching
// the bundle name.
func (s *bundleState) PopulateArtifacts(ctx context.Context, src Sources) error {
	if s.artifactsLoaded {
		return nil
	}
	assert.NotEmpty(ctx, s.name, "bundle name must be set")
	if src.Repository == nil {
		s.artifactsLoaded = true
		return nil
	}
	files, err := src.Repository.ListArtifacts()
	if err != nil {
		return err
	}
	s.artifacts = NewArtifactMatcher(s.name, src.Layout).Match(files)
	s.artifactsLoaded = true
	if len(s.artifacts) == 0 {
		log.Ctx(ctx).Debug().Str("bundle", s.name).Msg("no matching artifacts in repository")
	}
	return nil
}

// RepositoryBundle is a bundle known only by name inside the repository.
type RepositoryBundle struct {
	bundleState
}

func NewRepositoryBundle(name string) *RepositoryBundle {
	return &RepositoryBundle{bundleState: bundleState{name: name}}
}

func (b *RepositoryBundle) Role() types.BundleRole {
	return types.BundleRoleRepository
}

// PopulateDependencies reads the manifest and provisioning documents from
// the single primary archive. Anything missing leaves the list empty.
func (b *RepositoryBundle) PopulateDependencies(ctx context.Context, src Sources, force bool) error {
	if b.dependenciesLoaded && !force {
		return nil
	}
	if err := b.PopulateArtifacts(ctx, src); err != nil {
		return err
	}
	b.dependencies = nil
	b.dependenciesLoaded = true

	logger := log.Ctx(ctx).With().Str("bundle", b.name).Logger()
	primary := NewArtifactMatcher(b.name, src.Layout).Primary(b.artifacts)
	switch {
	case len(primary) == 0:
		if len(b.artifacts) > 0 {
			logger.Warn().Strs("artifacts", b.artifacts).Msg("only source artifacts found; dependencies unknown")
		}
		return nil
	case len(primary) > 1:
		logger.Warn().Strs("artifacts", primary).Msg("several primary artifacts match; dependencies unknown")
		return nil
	}

	artifact := primary[0]
	manifest, found, err := src.Repository.ReadArchiveDocument(artifact, src.Layout.ManifestPath)
	if err != nil {
		logger.Warn().Err(err).Str("artifact", artifact).Msg("failed to read manifest")
	} else if !found {
		logger.Warn().Str("artifact", artifact).Str("document", src.Layout.ManifestPath).Msg("manifest missing from artifact")
	}
	deps := src.Parser.ParseDeclarations(manifest)

	provisioning, _, err := src.Repository.ReadArchiveDocument(artifact, src.Layout.ProvisioningPath)
	if err != nil {
		logger.Warn().Err(err).Str("artifact", artifact).Msg("failed to read provisioning requirements")
	}
	b.dependencies = append(deps, src.Parser.ParseProvisioning(provisioning)...)
	logger.Debug().Int("dependencies", len(b.dependencies)).Msg("bundle dependencies loaded")
	return nil
}

func (b *RepositoryBundle) propagated(map[string]struct{}) []types.Dependency {
	var exported []types.Dependency
	for _, dep := range b.dependencies {
		if dep.Exported {
			exported = append(exported, dep)
		}
	}
	return exported
}

// ProjectBundle is the bundle built from a local project module.
type ProjectBundle struct {
	bundleState
	project Project
}

func NewProjectBundle(project Project) *ProjectBundle {
	return &ProjectBundle{
		bundleState: bundleState{name: project.Name()},
		project:     project,
	}
}

func (b *ProjectBundle) Role() types.BundleRole {
	return types.BundleRoleProject
}

func (b *ProjectBundle) Project() Project {
	return b.project
}

// PopulateDependencies reads the manifest straight from the module
// directory. Provisioning documents do not apply to project bundles.
func (b *ProjectBundle) PopulateDependencies(ctx context.Context, src Sources, force bool) error {
	if b.dependenciesLoaded && !force {
		return nil
	}
	if err := b.PopulateArtifacts(ctx, src); err != nil {
		return err
	}
	b.dependencies = nil
	b.dependenciesLoaded = true
	if src.Workspace == nil {
		return nil
	}
	manifest, found, err := src.Workspace.ReadModuleDocument(b.project.Dir(), src.Layout.ManifestPath)
	if err != nil {
		return err
	}
	if !found {
		log.Ctx(ctx).Warn().
			Str("module", b.project.Module).
			Str("document", src.Layout.ManifestPath).
			Msg("module has no manifest; nothing to resolve")
		return nil
	}
	b.dependencies = src.Parser.ParseDeclarations(manifest)
	return nil
}

func (b *ProjectBundle) propagated(siblings map[string]struct{}) []types.Dependency {
	var deps []types.Dependency
	for _, dep := range b.dependencies {
		if _, ok := siblings[dep.Name]; ok {
			continue
		}
		deps = append(deps, dep)
	}
	return deps
}

var (
	_ Bundle = (*RepositoryBundle)(nil)
	_ Bundle = (*ProjectBundle)(nil)
)
