package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/ports"
)

type ResolveOptions struct {
	// Refresh ignores an existing cache entry.
	Refresh bool
	// NoCache suppresses writing the computed closure to the cache.
	NoCache bool
}

// Resolution is the closure computed for one project bundle.
type Resolution struct {
	Root      *ProjectBundle
	Bundles   []Bundle
	FromCache bool
}

func (r Resolution) Names() []string {
	names := make([]string, 0, len(r.Bundles))
	for _, bundle := range r.Bundles {
		names = append(names, bundle.Name())
	}
	return names
}

// ResolutionEngine computes transitive export closures. It is not safe for
// concurrent use.
type ResolutionEngine struct {
	Sources  Sources
	Cache    ports.CachePort
	Observer ports.ResolutionObserver
}

func NewResolutionEngine(src Sources, cache ports.CachePort) ResolutionEngine {
	return ResolutionEngine{
		Sources:  src,
		Cache:    cache,
		Observer: nopObserver{},
	}
}

func (e ResolutionEngine) WithObserver(observer ports.ResolutionObserver) ResolutionEngine {
	if observer == nil {
		observer = nopObserver{}
	}
	e.Observer = observer
	return e
}

// Resolve returns every bundle root needs on its compile path. A cache
// entry, when present and not bypassed, is returned as is.
func (e ResolutionEngine) Resolve(ctx context.Context, root *ProjectBundle, opts ResolveOptions) (Resolution, error) {
	assert.NotEmpty(ctx, root.Name(), "project bundle name must be set")
	logger := log.Ctx(ctx).With().Str("bundle", root.Name()).Logger()
	started := time.Now()
	defer func() {
		e.observer().ResolutionFinished(root.Name(), time.Since(started))
	}()

	if e.Cache != nil && !opts.Refresh {
		names, ok, err := e.Cache.Load(root.Name())
		if err != nil {
			logger.Warn().Err(err).Msg("cache unreadable; resolving from repository")
		}
		if ok && err == nil {
			bundles, err := e.fromCache(ctx, names)
			if err != nil {
				return Resolution{}, err
			}
			e.observer().CacheHit(root.Name())
			e.observer().BundlesResolved(root.Name(), len(bundles))
			logger.Debug().Int("bundles", len(bundles)).Msg("closure served from cache")
			return Resolution{Root: root, Bundles: bundles, FromCache: true}, nil
		}
		e.observer().CacheMiss(root.Name())
	}

	run := newClosureRun(e.Sources)
	bundles, err := run.project(ctx, root)
	if err != nil {
		return Resolution{}, err
	}
	resolution := Resolution{Root: root, Bundles: bundles}
	if e.Cache != nil && !opts.NoCache {
		if err := e.Cache.Store(root.Name(), resolution.Names()); err != nil {
			logger.Warn().Err(err).Msg("failed to store closure in cache")
		}
	}
	e.observer().BundlesResolved(root.Name(), len(bundles))
	logger.Debug().Int("bundles", len(bundles)).Msg("closure resolved")
	return resolution, nil
}

// Closure computes the closure of any bundle without consulting the cache.
func (e ResolutionEngine) Closure(ctx context.Context, bundle Bundle) ([]Bundle, error) {
	run := newClosureRun(e.Sources)
	if root, ok := bundle.(*ProjectBundle); ok {
		return run.project(ctx, root)
	}
	bundles, err := run.closure(ctx, bundle)
	if err != nil {
		return nil, err
	}
	return withArtifacts(bundles), nil
}

// ArtifactPaths lists the repository paths of every matched artifact, in
// closure order.
func (e ResolutionEngine) ArtifactPaths(bundles []Bundle) []string {
	var paths []string
	for _, bundle := range bundles {
		for _, artifact := range bundle.Artifacts() {
			if e.Sources.Repository == nil {
				paths = append(paths, artifact)
				continue
			}
			paths = append(paths, e.Sources.Repository.ArtifactPath(artifact))
		}
	}
	return paths
}

func (e ResolutionEngine) fromCache(ctx context.Context, names []string) ([]Bundle, error) {
	set := newBundleSet()
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || set.has(name) {
			continue
		}
		bundle := NewRepositoryBundle(name)
		if err := bundle.PopulateArtifacts(ctx, e.Sources); err != nil {
			return nil, err
		}
		set.add(bundle)
	}
	return withArtifacts(set.items()), nil
}

func (e ResolutionEngine) observer() ports.ResolutionObserver {
	if e.Observer == nil {
		return nopObserver{}
	}
	return e.Observer
}

// closureRun holds the per-resolution state: one node per name and one
// memoized closure per name.
type closureRun struct {
	src      Sources
	nodes    map[string]*RepositoryBundle
	closures map[string][]Bundle
	stack    []string
	onStack  map[string]bool
}

func newClosureRun(src Sources) *closureRun {
	return &closureRun{
		src:      src,
		nodes:    map[string]*RepositoryBundle{},
		closures: map[string][]Bundle{},
		onStack:  map[string]bool{},
	}
}

func (r *closureRun) project(ctx context.Context, root *ProjectBundle) ([]Bundle, error) {
	if err := root.PopulateDependencies(ctx, r.src, false); err != nil {
		return nil, err
	}
	siblings, err := root.Project().Siblings(r.src.Workspace)
	if err != nil {
		return nil, err
	}
	set := newBundleSet()
	for _, dep := range root.propagated(siblings) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.expand(ctx, dep.Name, set); err != nil {
			return nil, err
		}
	}
	return withArtifacts(set.items()), nil
}

func (r *closureRun) closure(ctx context.Context, bundle Bundle) ([]Bundle, error) {
	name := bundle.Name()
	if cached, ok := r.closures[name]; ok {
		return cached, nil
	}
	if r.onStack[name] {
		path := append(append([]string(nil), r.stack...), name)
		return nil, cycleError(path)
	}
	r.stack = append(r.stack, name)
	r.onStack[name] = true
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.onStack, name)
	}()

	if err := bundle.PopulateDependencies(ctx, r.src, false); err != nil {
		return nil, err
	}
	set := newBundleSet()
	for _, dep := range bundle.propagated(nil) {
		if err := r.expand(ctx, dep.Name, set); err != nil {
			return nil, err
		}
	}
	result := set.items()
	r.closures[name] = result
	return result, nil
}

func (r *closureRun) expand(ctx context.Context, name string, set *bundleSet) error {
	child, err := r.node(ctx, name)
	if err != nil {
		return err
	}
	set.add(child)
	nested, err := r.closure(ctx, child)
	if err != nil {
		return err
	}
	for _, bundle := range nested {
		set.add(bundle)
	}
	return nil
}

func (r *closureRun) node(ctx context.Context, name string) (*RepositoryBundle, error) {
	if node, ok := r.nodes[name]; ok {
		return node, nil
	}
	node := NewRepositoryBundle(name)
	if err := node.PopulateDependencies(ctx, r.src, false); err != nil {
		return nil, err
	}
	r.nodes[name] = node
	return node, nil
}

func cycleError(path []string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("dependency cycle detected: %s", strings.Join(path, " -> ")))
}

// bundleSet keeps bundles unique by name in insertion order.
type bundleSet struct {
	order []Bundle
	index map[string]struct{}
}

func newBundleSet() *bundleSet {
	return &bundleSet{index: map[string]struct{}{}}
}

func (s *bundleSet) has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *bundleSet) add(bundle Bundle) {
	if s.has(bundle.Name()) {
		return
	}
	s.index[bundle.Name()] = struct{}{}
	s.order = append(s.order, bundle)
}

func (s *bundleSet) items() []Bundle {
	return append([]Bundle(nil), s.order...)
}

func withArtifacts(bundles []Bundle) []Bundle {
	filtered := make([]Bundle, 0, len(bundles))
	for _, bundle := range bundles {
		if len(bundle.Artifacts()) == 0 {
			continue
		}
		filtered = append(filtered, bundle)
	}
	return filtered
}

type nopObserver struct{}

func (nopObserver) CacheHit(string)                          {}
func (nopObserver) CacheMiss(string)                         {}
func (nopObserver) BundlesResolved(string, int)              {}
func (nopObserver) ResolutionFinished(string, time.Duration) {}
func (nopObserver) EntriesWritten(string, int)               {}
