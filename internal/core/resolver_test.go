package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

const projectRoot = "/work/project"

func newTestProject(t *testing.T, requires string, siblings ...string) (*ProjectBundle, *fakeWorkspace) {
	t.Helper()
	project := NewProject(projectRoot, "app")
	workspace := &fakeWorkspace{
		siblings: append([]string{"app"}, siblings...),
		manifests: map[string][]string{
			project.Dir(): {"Manifest-Version: 1.0", "Require-Bundle: " + requires},
		},
	}
	return NewProjectBundle(project), workspace
}

func TestClosureFollowsOnlyExportedDependencies(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("A", "1.0.0", "B;visibility:=reexport,C")
	repo.addBundle("B", "1.0.0", "D;visibility:=reexport")
	repo.addBundle("C", "1.0.0", "E;visibility:=reexport")
	repo.addBundle("D", "1.0.0", "")
	repo.addBundle("E", "1.0.0", "")

	engine := NewResolutionEngine(NewSources(repo, nil, types.DefaultLayout()), nil)
	closure, err := engine.Closure(t.Context(), NewRepositoryBundle("A"))
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"B", "D"}, bundleNames(closure)); diff != "" {
		t.Fatalf("unexpected closure (-want +got):\n%s", diff)
	}
}

func TestResolveIncludesDirectDependenciesExceptSiblings(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("B", "1.0.0", "D;visibility:=reexport")
	repo.addBundle("C", "1.0.0", "E")
	repo.addBundle("D", "1.0.0", "")
	repo.addBundle("E", "1.0.0", "")
	repo.addBundle("sib", "1.0.0", "")
	root, workspace := newTestProject(t, "B,C,sib;visibility:=reexport", "sib")

	engine := NewResolutionEngine(NewSources(repo, workspace, types.DefaultLayout()), nil)
	resolution, err := engine.Resolve(t.Context(), root, ResolveOptions{})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"B", "D", "C"}, resolution.Names()); diff != "" {
		t.Fatalf("unexpected closure (-want +got):\n%s", diff)
	}
	assert.False(t, resolution.FromCache)
}

func TestResolveFiltersBundlesWithoutArtifacts(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("B", "1.0.0", "ghost;visibility:=reexport")
	root, workspace := newTestProject(t, "B,missing")

	engine := NewResolutionEngine(NewSources(repo, workspace, types.DefaultLayout()), nil)
	resolution, err := engine.Resolve(t.Context(), root, ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, resolution.Names())
	for _, bundle := range resolution.Bundles {
		assert.NotEmpty(t, bundle.Artifacts())
	}
}

func TestResolveDeduplicatesSharedDependencies(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("B", "1.0.0", "D;visibility:=reexport")
	repo.addBundle("C", "1.0.0", "D;visibility:=reexport")
	repo.addBundle("D", "1.0.0", "")
	root, workspace := newTestProject(t, "B,C,D")

	engine := NewResolutionEngine(NewSources(repo, workspace, types.DefaultLayout()), nil)
	resolution, err := engine.Resolve(t.Context(), root, ResolveOptions{})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"B", "D", "C"}, resolution.Names()); diff != "" {
		t.Fatalf("unexpected closure (-want +got):\n%s", diff)
	}
}

func TestProvisioningRequirementsPropagate(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("A", "1.0.0", "", "requires.0.name = P")
	repo.addBundle("P", "1.0.0", "")

	engine := NewResolutionEngine(NewSources(repo, nil, types.DefaultLayout()), nil)
	closure, err := engine.Closure(t.Context(), NewRepositoryBundle("A"))
	require.NoError(t, err)
	assert.Equal(t, []string{"P"}, bundleNames(closure))
}

func TestClosureDetectsCycle(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("A", "1.0.0", "B;visibility:=reexport")
	repo.addBundle("B", "1.0.0", "A;visibility:=reexport")

	engine := NewResolutionEngine(NewSources(repo, nil, types.DefaultLayout()), nil)
	_, err := engine.Closure(t.Context(), NewRepositoryBundle("A"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency cycle detected: A -> B -> A")
}

func TestResolveCacheEquivalence(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("B", "1.0.0", "D;visibility:=reexport")
	repo.addSource("B", "1.0.0")
	repo.addBundle("D", "2.1.0", "")
	root, workspace := newTestProject(t, "B")
	cache := newFakeCache()

	engine := NewResolutionEngine(NewSources(repo, workspace, types.DefaultLayout()), cache)
	first, err := engine.Resolve(t.Context(), root, ResolveOptions{})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, []string{"B", "D"}, cache.entries["app"])

	readsBefore := repo.reads
	second, err := engine.Resolve(t.Context(), NewProjectBundle(root.Project()), ResolveOptions{})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, readsBefore, repo.reads, "cached resolution must not read archives")

	want := []string{
		"/repo/pool/plugins/B.source_1.0.0.jar",
		"/repo/pool/plugins/B_1.0.0.jar",
		"/repo/pool/plugins/D_2.1.0.jar",
	}
	if diff := cmp.Diff(want, engine.ArtifactPaths(first.Bundles)); diff != "" {
		t.Fatalf("unexpected artifact paths (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(engine.ArtifactPaths(first.Bundles), engine.ArtifactPaths(second.Bundles)); diff != "" {
		t.Fatalf("cached artifact paths differ (-fresh +cached):\n%s", diff)
	}
}

// The cache carries no signal tied to repository content, so a changed
// repository keeps being answered from the old entry until the caller
// refreshes it. This is an accepted risk of the cache design.
func TestResolveServesStaleCacheUntilRefreshed(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("B", "1.0.0", "")
	cache := newFakeCache()
	root, workspace := newTestProject(t, "B")
	engine := NewResolutionEngine(NewSources(repo, workspace, types.DefaultLayout()), cache)
	_, err := engine.Resolve(t.Context(), root, ResolveOptions{})
	require.NoError(t, err)

	repo.addBundle("C", "1.0.0", "")
	workspace.manifests[root.Project().Dir()] = []string{"Require-Bundle: B,C"}

	stale, err := engine.Resolve(t.Context(), NewProjectBundle(root.Project()), ResolveOptions{})
	require.NoError(t, err)
	assert.True(t, stale.FromCache)
	assert.Equal(t, []string{"B"}, stale.Names())

	fresh, err := engine.Resolve(t.Context(), NewProjectBundle(root.Project()), ResolveOptions{Refresh: true})
	require.NoError(t, err)
	assert.False(t, fresh.FromCache)
	assert.Equal(t, []string{"B", "C"}, fresh.Names())
	assert.Equal(t, []string{"B", "C"}, cache.entries["app"])
}

func TestResolveNoCacheSkipsStore(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("B", "1.0.0", "")
	cache := newFakeCache()
	root, workspace := newTestProject(t, "B")

	engine := NewResolutionEngine(NewSources(repo, workspace, types.DefaultLayout()), cache)
	_, err := engine.Resolve(t.Context(), root, ResolveOptions{NoCache: true})
	require.NoError(t, err)
	assert.Zero(t, cache.stores)
	assert.Empty(t, cache.entries)
}

func TestResolveProjectWithoutManifest(t *testing.T) {
	repo := newFakeRepository()
	project := NewProject(projectRoot, "bare")
	workspace := &fakeWorkspace{siblings: []string{"bare"}, manifests: map[string][]string{}}

	engine := NewResolutionEngine(NewSources(repo, workspace, types.DefaultLayout()), nil)
	resolution, err := engine.Resolve(t.Context(), NewProjectBundle(project), ResolveOptions{})
	require.NoError(t, err)
	assert.Empty(t, resolution.Bundles)
}

func TestSeveralPrimaryArtifactsYieldNoDependencies(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("A", "1.0.0", "B;visibility:=reexport")
	repo.addBundle("A", "2.0.0", "B;visibility:=reexport")
	repo.addBundle("B", "1.0.0", "")

	bundle := NewRepositoryBundle("A")
	src := NewSources(repo, nil, types.DefaultLayout())
	require.NoError(t, bundle.PopulateDependencies(t.Context(), src, false))
	assert.Len(t, bundle.Artifacts(), 2)
	assert.Empty(t, bundle.Dependencies())
}

func TestPopulateDependenciesIsMemoized(t *testing.T) {
	repo := newFakeRepository()
	repo.addBundle("A", "1.0.0", "B")
	src := NewSources(repo, nil, types.DefaultLayout())
	bundle := NewRepositoryBundle("A")

	require.NoError(t, bundle.PopulateDependencies(t.Context(), src, false))
	reads := repo.reads
	require.NoError(t, bundle.PopulateDependencies(t.Context(), src, false))
	assert.Equal(t, reads, repo.reads)

	require.NoError(t, bundle.PopulateDependencies(t.Context(), src, true))
	assert.Greater(t, repo.reads, reads)
	assert.Equal(t, []types.Dependency{{Name: "B"}}, bundle.Dependencies())
}

func TestBundleSetCollapsesSameName(t *testing.T) {
	set := newBundleSet()
	set.add(NewRepositoryBundle("A"))
	set.add(NewRepositoryBundle("A"))
	set.add(NewProjectBundle(NewProject(projectRoot, "A")))
	assert.Equal(t, []string{"A"}, bundleNames(set.items()))
}
