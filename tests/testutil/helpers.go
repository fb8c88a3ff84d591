// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// PristineClasspath is the descriptor an IDE writes for a fresh plug-in
// project.
const PristineClasspath = `<?xml version="1.0" encoding="UTF-8"?>
<classpath>
	<classpathentry kind="con" path="org.eclipse.jdt.launching.JRE_CONTAINER"/>
	<classpathentry kind="con" path="org.eclipse.pde.core.requiredPlugins"/>
	<classpathentry kind="src" path="src"/>
	<classpathentry kind="output" path="bin"/>
</classpath>
`

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// Fixture is a throwaway project workspace next to a p2 repository and a
// cache directory.
type Fixture struct {
	Root       string
	Repository string
	CacheDir   string
}

func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	base := t.TempDir()
	f := &Fixture{
		Root:       filepath.Join(base, "project"),
		Repository: filepath.Join(base, "p2"),
		CacheDir:   filepath.Join(base, "cache"),
	}
	require.NoError(t, os.MkdirAll(f.Root, 0755))
	require.NoError(t, os.MkdirAll(f.PoolDir(), 0755))
	return f
}

func (f *Fixture) PoolDir() string {
	return filepath.Join(f.Repository, "pool", "plugins")
}

// AddModule creates a plug-in project with a manifest requiring requires
// and a pristine classpath descriptor. It returns the module directory.
func (f *Fixture) AddModule(t *testing.T, name string, requires string) string {
	t.Helper()
	dir := filepath.Join(f.Root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "META-INF"), 0755))
	manifest := Manifest(filepath.Base(dir), "1.0.0.qualifier", requires)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "META-INF", "MANIFEST.MF"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".classpath"), []byte(PristineClasspath), 0644))
	return dir
}

// AddBundle writes name_version.jar into the pool with a manifest and, when
// given, a p2.inf made of provisioning lines.
func (f *Fixture) AddBundle(t *testing.T, name string, version string, requires string, provisioning ...string) string {
	t.Helper()
	entries := map[string]string{
		"META-INF/MANIFEST.MF": Manifest(name, version, requires),
	}
	if len(provisioning) > 0 {
		entries["META-INF/p2.inf"] = strings.Join(provisioning, "\n") + "\n"
	}
	path := filepath.Join(f.PoolDir(), fmt.Sprintf("%s_%s.jar", name, version))
	WriteJar(t, path, entries)
	return path
}

// AddSourceBundle writes the source variant of a bundle, which carries no
// metadata.
func (f *Fixture) AddSourceBundle(t *testing.T, name string, version string) string {
	t.Helper()
	path := filepath.Join(f.PoolDir(), fmt.Sprintf("%s.source_%s.jar", name, version))
	WriteJar(t, path, map[string]string{"Foo.java": "class Foo {}\n"})
	return path
}

// ReadFile returns the content of a file relative to the project root.
func (f *Fixture) ReadFile(t *testing.T, rel ...string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(append([]string{f.Root}, rel...)...))
	require.NoError(t, err)
	return string(content)
}

// Manifest renders a bundle manifest with CRLF line endings, folding the
// Require-Bundle value after every top-level comma.
func Manifest(name string, version string, requires string) string {
	lines := []string{
		"Manifest-Version: 1.0",
		"Bundle-ManifestVersion: 2",
		"Bundle-SymbolicName: " + name + ";singleton:=true",
		"Bundle-Version: " + version,
	}
	if requires != "" {
		folded := requires
		if !strings.Contains(requires, `"`) {
			folded = strings.ReplaceAll(requires, ",", ",\r\n ")
		}
		lines = append(lines, "Require-Bundle: "+folded)
	}
	lines = append(lines, "Bundle-RequiredExecutionEnvironment: JavaSE-1.8")
	return strings.Join(lines, "\r\n") + "\r\n"
}

// WriteJar writes a zip archive holding entries.
func WriteJar(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	file, err := os.Create(path)
	require.NoError(t, err)
	writer := zip.NewWriter(file)
	for name, content := range entries {
		w, err := writer.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, file.Close())
}
