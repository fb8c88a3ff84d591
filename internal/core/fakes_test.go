package core

import (
	"fmt"
	"path"

	"github.com/MisterPotz/eclipse-vscode-light-converter/internal/types"
)

type fakeRepository struct {
	artifacts []string
	documents map[string]map[string][]string
	reads     int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{documents: map[string]map[string][]string{}}
}

// addBundle registers name_version.jar with a manifest declaring requires.
func (f *fakeRepository) addBundle(name string, version string, requires string, provisioning ...string) {
	artifact := fmt.Sprintf("%s_%s.jar", name, version)
	f.artifacts = append(f.artifacts, artifact)
	layout := types.DefaultLayout()
	docs := map[string][]string{
		layout.ManifestPath: {
			"Manifest-Version: 1.0",
			"Bundle-SymbolicName: " + name,
			"Require-Bundle: " + requires,
			"Bundle-Version: " + version,
		},
	}
	if requires == "" {
		docs[layout.ManifestPath] = docs[layout.ManifestPath][:2]
	}
	if len(provisioning) > 0 {
		docs[layout.ProvisioningPath] = provisioning
	}
	f.documents[artifact] = docs
}

func (f *fakeRepository) addSource(name string, version string) {
	f.artifacts = append(f.artifacts, fmt.Sprintf("%s.source_%s.jar", name, version))
}

func (f *fakeRepository) ListArtifacts() ([]string, error) {
	return f.artifacts, nil
}

func (f *fakeRepository) ArtifactPath(filename string) string {
	return path.Join("/repo/pool/plugins", filename)
}

func (f *fakeRepository) ReadArchiveDocument(filename string, entry string) ([]string, bool, error) {
	f.reads++
	docs, ok := f.documents[filename]
	if !ok {
		return nil, false, nil
	}
	lines, ok := docs[entry]
	return lines, ok, nil
}

type fakeWorkspace struct {
	siblings  []string
	manifests map[string][]string
}

func (f *fakeWorkspace) SiblingModules(string) ([]string, error) {
	return f.siblings, nil
}

func (f *fakeWorkspace) ReadModuleDocument(moduleDir string, _ string) ([]string, bool, error) {
	lines, ok := f.manifests[moduleDir]
	return lines, ok, nil
}

type fakeCache struct {
	entries map[string][]string
	stores  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]string{}}
}

func (f *fakeCache) Load(name string) ([]string, bool, error) {
	names, ok := f.entries[name]
	return names, ok, nil
}

func (f *fakeCache) Store(name string, names []string) error {
	f.stores++
	f.entries[name] = append([]string(nil), names...)
	return nil
}

func (f *fakeCache) Delete(name string) error {
	delete(f.entries, name)
	return nil
}

func (f *fakeCache) Purge() (int, error) {
	count := len(f.entries)
	f.entries = map[string][]string{}
	return count, nil
}

func bundleNames(bundles []Bundle) []string {
	names := make([]string, 0, len(bundles))
	for _, bundle := range bundles {
		names = append(names, bundle.Name())
	}
	return names
}
